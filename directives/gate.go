package directives

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"bitbucket.org/mmdatafocus/indent_tracker/middlewares"
	"bitbucket.org/mmdatafocus/indent_tracker/routes"
)

func denied(ctx context.Context, message, code string) *gqlerror.Error {
	return &gqlerror.Error{
		Message:    message,
		Path:       graphql.GetPath(ctx),
		Extensions: map[string]interface{}{"code": code},
	}
}

// Gate admits a field when the caller may open the route named by the field's
// path argument. Routes without a table are not views and report not found.
func Gate(ctx context.Context, obj interface{}, next graphql.Resolver) (interface{}, error) {

	user, ok := middlewares.UserFromContext(ctx)
	if !ok || user.Username == "" {
		return nil, denied(ctx, "Access Denied", "UNAUTHENTICATED")
	}

	path := ""
	if fc := graphql.GetFieldContext(ctx); fc != nil {
		path, _ = fc.Args["path"].(string)
	}

	route, found := routes.Lookup(path)
	if !found || !route.HasView() {
		return nil, denied(ctx, "view not found", "NOT_FOUND")
	}
	if !user.Can(route.GateKey) {
		return nil, denied(ctx, "Unauthorized", "FORBIDDEN")
	}

	return next(ctx)
}
