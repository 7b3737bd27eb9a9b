package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/indent_tracker/actions"
	"bitbucket.org/mmdatafocus/indent_tracker/config"
	"bitbucket.org/mmdatafocus/indent_tracker/middlewares"
	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/routes"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/table"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type viewResponse struct {
	Route   routes.Route `json:"route"`
	Loading bool         `json:"loading"`
	table.Page
}

func currentUser(c *gin.Context) models.User {
	u, _ := middlewares.UserFromContext(c.Request.Context())
	return u
}

func (h *handler) listRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"loading": h.store.AllLoading(),
		"routes":  routes.Badges(h.store, currentUser(c)),
	})
}

// tableRoute resolves :path to a route the user may open that has a table.
func (h *handler) tableRoute(c *gin.Context) (routes.Route, bool) {
	route, ok := routes.Lookup(c.Param("path"))
	if !ok || !route.HasView() {
		c.JSON(http.StatusNotFound, gin.H{"error": "view not found"})
		return routes.Route{}, false
	}
	if !currentUser(c).Can(route.GateKey) {
		c.JSON(http.StatusForbidden, gin.H{"error": utils.ErrorForbidden.Error()})
		return routes.Route{}, false
	}
	return route, true
}

func (h *handler) records(c *gin.Context, route routes.Route) ([]table.Record, bool) {
	recs, err := table.Records(route.View(h.store, currentUser(c)))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build view"})
		return nil, false
	}
	return recs, true
}

func (h *handler) loading(route routes.Route) bool {
	for _, s := range route.Sheets {
		if h.store.Loading(s) {
			return true
		}
	}
	return false
}

func (h *handler) getView(c *gin.Context) {
	route, ok := h.tableRoute(c)
	if !ok {
		return
	}
	var q table.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "fields": utils.ProcessValidationErrors(err)})
		return
	}
	recs, ok := h.records(c, route)
	if !ok {
		return
	}
	if route.Columns == nil {
		route.Columns = table.Columns(recs)
	}
	c.JSON(http.StatusOK, viewResponse{
		Route:   route,
		Loading: h.loading(route),
		Page:    table.Apply(recs, route.SearchFields, q),
	})
}

func (h *handler) exportView(c *gin.Context) {
	if !config.XLSXExportEnabled() {
		customNotFoundHandler(c)
		return
	}
	route, ok := h.tableRoute(c)
	if !ok {
		return
	}
	var q table.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "fields": utils.ProcessValidationErrors(err)})
		return
	}
	recs, ok := h.records(c, route)
	if !ok {
		return
	}
	recs = table.Search(recs, route.SearchFields, q.Search)
	if q.SortBy != "" {
		recs = table.Sort(recs, q.SortBy, q.Desc)
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename="+route.Path+".xlsx")
	if err := table.WriteXLSX(c.Writer, route.Name, route.Columns, recs); err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
	}
}

func (h *handler) getMaster(c *gin.Context) {
	m := h.store.Master()
	if m == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "MASTER not loaded", "loading": h.store.Loading(sheets.Master)})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handler) sheetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"loading": h.store.AllLoading(),
		"sheets":  h.store.Status(),
	})
}

func (h *handler) refreshAll(c *gin.Context) {
	h.store.UpdateAll(context.WithoutCancel(c.Request.Context()))
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

func (h *handler) refreshSheet(c *gin.Context) {
	name, err := sheets.ParseSheetName(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())
	go func() { _ = h.store.Refresh(ctx, name) }()
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

func (h *handler) setPORequired(c *gin.Context) {
	var req actions.PORequiredRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, actions.Notice{Message: "Please fill all required fields"})
		return
	}
	notice, err := h.actions.SetPORequired(c.Request.Context(), currentUser(c), req)
	h.respondAction(c, notice, err)
}

func (h *handler) updateBillStatus(c *gin.Context) {
	var req actions.BillStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, actions.Notice{Message: "Please fill all required fields"})
		return
	}

	fh, err := c.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		c.JSON(http.StatusBadRequest, actions.Notice{Message: "Could not read the bill photo"})
		return
	default:
		f, err := fh.Open()
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, actions.Notice{Message: "Could not read the bill photo"})
			return
		}
		defer f.Close()
		req.Photo = &actions.Attachment{
			FileName: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
			Content:  f,
		}
	}

	notice, err := h.actions.UpdateBillStatus(c.Request.Context(), currentUser(c), req)
	h.respondAction(c, notice, err)
}

func (h *handler) respondAction(c *gin.Context, notice actions.Notice, err error) {
	if err == nil {
		c.JSON(http.StatusOK, notice)
		return
	}
	_ = c.Error(err)

	body := gin.H{"success": false, "message": notice.Message}
	var invalid *actions.InvalidRequestError
	if errors.As(err, &invalid) {
		body["fields"] = invalid.Fields
	}
	c.JSON(statusFor(err), body)
}

func statusFor(err error) int {
	var (
		fetchErr  *sheets.FetchError
		postErr   *sheets.PostError
		uploadErr *sheets.UploadError
	)
	switch {
	case errors.Is(err, utils.ErrorInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrorRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, actions.ErrBillPhotoFolderUnset):
		return http.StatusInternalServerError
	case errors.As(err, &fetchErr), errors.As(err, &postErr), errors.As(err, &uploadErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
