package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

type authString string

const userKey = authString("user")

// AuthMiddleware requires a bearer token and puts the acting user on the
// request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		const bearer = "Bearer "
		if len(auth) <= len(bearer) || !strings.EqualFold(auth[:len(bearer)], bearer) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token := strings.TrimSpace(auth[len(bearer):])

		validate, err := utils.JwtValidate(token)
		if err != nil || !validate.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claim, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok || strings.TrimSpace(claim.Username) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user := models.NewUser(claim.Username, claim.FirmNameMatch, claim.Permissions)

		ctx := utils.SetUsernameInContext(c.Request.Context(), user.Username)
		ctx = utils.SetFirmNameMatchInContext(ctx, user.FirmNameMatch)
		ctx = ContextWithUser(ctx, user)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func ContextWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user AuthMiddleware attached.
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
