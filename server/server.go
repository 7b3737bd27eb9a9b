// Package server exposes the tracker's views and actions over HTTP.
package server

import (
	"net/http"

	gqlhandler "github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ravilushqa/otelgqlgen"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/indent_tracker/actions"
	"bitbucket.org/mmdatafocus/indent_tracker/directives"
	"bitbucket.org/mmdatafocus/indent_tracker/graph"
	"bitbucket.org/mmdatafocus/indent_tracker/middlewares"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

// SheetStore is the part of the sheets store the HTTP layer reads and drives.
type SheetStore = graph.Store

type Deps struct {
	Store   SheetStore
	Actions *actions.Service
	Logger  *logrus.Logger

	CORSAllowedOrigins []string
	Production         bool
}

type handler struct {
	store   SheetStore
	actions *actions.Service
	logger  *logrus.Logger
}

// SetReleaseMode silences gin's debug route dump.
func SetReleaseMode() { gin.SetMode(gin.ReleaseMode) }

// New builds the router. Everything under /api requires a bearer token.
func New(d Deps) *gin.Engine {
	h := &handler{store: d.Store, actions: d.Actions, logger: d.Logger}

	r := gin.New()
	r.Use(correlationID())
	r.Use(cors.New(corsConfig(d.CORSAllowedOrigins, d.Production)))
	r.Use(customErrorLogger(d.Logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	api := r.Group("/api", middlewares.AuthMiddleware())
	api.GET("/routes", h.listRoutes)
	api.GET("/views/:path", h.getView)
	api.GET("/views/:path/export", h.exportView)
	api.GET("/master", h.getMaster)
	api.GET("/sheets", h.sheetStatus)
	api.POST("/sheets/refresh", h.refreshAll)
	api.POST("/sheets/:name/refresh", h.refreshSheet)
	api.POST("/actions/po-required", h.setPORequired)
	api.POST("/actions/bill-status", h.updateBillStatus)
	gql := graphqlHandler(d)
	api.POST("/query", gql)
	api.GET("/query", gql)

	r.NoRoute(customNotFoundHandler)
	return r
}

// graphqlHandler serves the same views and actions as the REST routes.
func graphqlHandler(d Deps) gin.HandlerFunc {
	c := graph.Config{Resolvers: &graph.Resolver{Store: d.Store, Actions: d.Actions}}
	c.Directives.Gate = directives.Gate

	srv := gqlhandler.New(graph.NewExecutableSchema(c))
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.AddTransport(transport.MultipartForm{MaxMemory: 8 << 20, MaxUploadSize: 6 << 20})
	srv.Use(otelgqlgen.Middleware())

	return func(c *gin.Context) {
		srv.ServeHTTP(c.Writer, c.Request)
	}
}

func correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Header("x-correlation-id", cid)
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	}
}

// corsConfig allows every origin outside production. In production only the
// configured origins are allowed, and none when the list is empty.
func corsConfig(origins []string, production bool) cors.Config {
	cfg := cors.DefaultConfig()
	if production {
		cfg.AllowOrigins = origins
		if len(origins) == 0 {
			cfg.AllowOriginFunc = func(string) bool { return false }
		}
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AddAllowMethods("GET", "POST", "OPTIONS")
	cfg.AddAllowHeaders("Origin", "Content-Type", "Authorization", "x-correlation-id")
	cfg.AddExposeHeaders("Content-Length", "Content-Disposition", "x-correlation-id")
	if !cfg.AllowAllOrigins {
		cfg.AllowCredentials = true
	}
	return cfg
}

// customErrorLogger logs only requests that recorded errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && logger != nil {
			fields := logrus.Fields{
				"path":   c.FullPath(),
				"status": c.Writer.Status(),
			}
			ctx := c.Request.Context()
			if cid, ok := utils.GetCorrelationIdFromContext(ctx); ok {
				fields["correlationId"] = cid
			}
			if user, ok := utils.GetUsernameFromContext(ctx); ok {
				fields["username"] = user
			}
			if firm, ok := utils.GetFirmNameMatchFromContext(ctx); ok {
				fields["firmNameMatch"] = firm
			}
			logger.WithFields(fields).Error(c.Errors.String())
		}
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}
