package graph

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"bitbucket.org/mmdatafocus/indent_tracker/actions"
	"bitbucket.org/mmdatafocus/indent_tracker/middlewares"
	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/routes"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/store"
	"bitbucket.org/mmdatafocus/indent_tracker/table"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
	"bitbucket.org/mmdatafocus/indent_tracker/views"
)

// Store is the part of the sheets store the API reads and drives.
type Store interface {
	views.Source
	Loading(name sheets.SheetName) bool
	AllLoading() bool
	Master() *sheets.MasterSheet
	Status() []store.SheetStatus
	Refresh(ctx context.Context, name sheets.SheetName) error
	UpdateAll(ctx context.Context) <-chan struct{}
}

type Resolver struct {
	Store   Store
	Actions *actions.Service
}

func (r *Resolver) fields() map[string]map[string]fieldFunc {
	return map[string]map[string]fieldFunc{
		"Query": {
			"routes": r.routes,
			"view":   r.view,
			"master": r.master,
			"sheets": r.sheets,
		},
		"Mutation": {
			"refreshSheets":    r.refreshSheets,
			"refreshSheet":     r.refreshSheet,
			"setPORequired":    r.setPORequired,
			"updateBillStatus": r.updateBillStatus,
		},
	}
}

type routeList struct {
	Loading bool           `json:"loading"`
	Routes  []routes.Badge `json:"routes"`
}

type viewPage struct {
	Route   routes.Badge `json:"route"`
	Loading bool         `json:"loading"`
	table.Page
}

func currentUser(ctx context.Context) models.User {
	u, _ := middlewares.UserFromContext(ctx)
	return u
}

func (r *Resolver) routes(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	return routeList{
		Loading: r.Store.AllLoading(),
		Routes:  routes.Badges(r.Store, currentUser(ctx)),
	}, nil
}

// view is behind @gate, which has already checked the route and the caller's key.
func (r *Resolver) view(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	route, ok := routes.Lookup(stringArg(args, "path"))
	if !ok || !route.HasView() {
		return nil, coded("view not found", "NOT_FOUND", nil)
	}
	q := table.Query{
		Search: stringArg(args, "q"),
		SortBy: stringArg(args, "sortBy"),
		Desc:   boolArg(args, "desc"),
		Limit:  intArg(args, "limit"),
		Offset: intArg(args, "offset"),
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, coded("limit and offset must not be negative", "BAD_USER_INPUT", nil)
	}

	recs, err := table.Records(route.View(r.Store, currentUser(ctx)))
	if err != nil {
		return nil, err
	}
	if route.Columns == nil {
		route.Columns = table.Columns(recs)
	}

	loading := false
	for _, s := range route.Sheets {
		loading = loading || r.Store.Loading(s)
	}
	return viewPage{
		Route:   routes.Badge{Route: route, Count: route.Count(r.Store)},
		Loading: loading,
		Page:    table.Apply(recs, route.SearchFields, q),
	}, nil
}

func (r *Resolver) master(_ context.Context, _ map[string]interface{}) (interface{}, error) {
	if m := r.Store.Master(); m != nil {
		return m, nil
	}
	return nil, nil
}

func (r *Resolver) sheets(_ context.Context, _ map[string]interface{}) (interface{}, error) {
	return r.Store.Status(), nil
}

func (r *Resolver) refreshSheets(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	r.Store.UpdateAll(context.WithoutCancel(ctx))
	return true, nil
}

func (r *Resolver) refreshSheet(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	name, err := sheets.ParseSheetName(stringArg(args, "name"))
	if err != nil {
		return nil, coded(err.Error(), "NOT_FOUND", err)
	}
	ctx = context.WithoutCancel(ctx)
	go func() { _ = r.Store.Refresh(ctx, name) }()
	return true, nil
}

func (r *Resolver) setPORequired(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	notice, err := r.Actions.SetPORequired(ctx, currentUser(ctx), actions.PORequiredRequest{
		IndentNo: stringArg(args, "indentNo"),
		Answer:   stringArg(args, "answer"),
	})
	if err != nil {
		return nil, actionError(notice, err)
	}
	return notice, nil
}

func (r *Resolver) updateBillStatus(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	req := actions.BillStatusRequest{
		IndentNo: stringArg(args, "indentNo"),
		Status:   stringArg(args, "status"),
		RowIndex: intArg(args, "rowIndex"),
	}
	switch up := args["photo"].(type) {
	case graphql.Upload:
		req.Photo = attachment(up)
	case *graphql.Upload:
		if up != nil {
			req.Photo = attachment(*up)
		}
	}

	notice, err := r.Actions.UpdateBillStatus(ctx, currentUser(ctx), req)
	if err != nil {
		return nil, actionError(notice, err)
	}
	return notice, nil
}

func attachment(up graphql.Upload) *actions.Attachment {
	return &actions.Attachment{
		FileName: up.Filename,
		MimeType: up.ContentType,
		Size:     up.Size,
		Content:  up.File,
	}
}

func coded(message, code string, err error) *gqlerror.Error {
	return &gqlerror.Error{Message: message, Err: err, Extensions: map[string]interface{}{"code": code}}
}

// actionError keeps the action's user-facing message and tags it with a code
// matching the REST status for the same failure.
func actionError(notice actions.Notice, err error) error {
	gqlErr := coded(notice.Message, errorCode(err), err)
	var invalid *actions.InvalidRequestError
	if errors.As(err, &invalid) {
		gqlErr.Extensions["fields"] = invalid.Fields
	}
	return gqlErr
}

func errorCode(err error) string {
	var (
		fetchErr  *sheets.FetchError
		postErr   *sheets.PostError
		uploadErr *sheets.UploadError
	)
	switch {
	case errors.Is(err, utils.ErrorInvalidInput):
		return "BAD_USER_INPUT"
	case errors.Is(err, utils.ErrorRecordNotFound):
		return "NOT_FOUND"
	case errors.Is(err, utils.ErrorForbidden):
		return "FORBIDDEN"
	case errors.As(err, &fetchErr), errors.As(err, &postErr), errors.As(err, &uploadErr):
		return "BAD_GATEWAY"
	}
	return "INTERNAL_SERVER_ERROR"
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func boolArg(args map[string]interface{}, name string) bool {
	b, _ := args[name].(bool)
	return b
}

// intArg accepts literal ints and variables, which arrive as json.Number.
func intArg(args map[string]interface{}, name string) int {
	switch v := args[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}
