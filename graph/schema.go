package graph

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

//go:embed schema.graphqls
var sourceSchema string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: sourceSchema})

// DirectiveRoot holds the implementations of the directives schema.graphqls declares.
type DirectiveRoot struct {
	Gate func(ctx context.Context, obj interface{}, next graphql.Resolver) (res interface{}, err error)
}

type Config struct {
	Resolvers  *Resolver
	Directives DirectiveRoot
}

// fieldFunc resolves one root field. Its result is projected onto the
// selection set through its JSON form, so json tags must match schema names.
type fieldFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

type executableSchema struct {
	fields     map[string]map[string]fieldFunc
	directives DirectiveRoot
}

// NewExecutableSchema serves schema.graphqls from the resolver's root fields.
// Queries are parsed and validated by gqlgen's executor before Exec runs.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{fields: cfg.Resolvers.fields(), directives: cfg.Directives}
}

func (e *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

func (e *executableSchema) Complexity(typeName, field string, childComplexity int, rawArgs map[string]interface{}) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)

	var root *ast.Definition
	switch opCtx.Operation.Operation {
	case ast.Query:
		root = parsedSchema.Query
	case ast.Mutation:
		root = parsedSchema.Mutation
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported operation %s", opCtx.Operation.Operation))
	}

	var (
		data bytes.Buffer
		errs gqlerror.List
	)
	data.WriteByte('{')
	// root fields run in document order, which gives mutations their serial semantics
	for i, field := range graphql.CollectFields(opCtx, opCtx.Operation.SelectionSet, []string{root.Name}) {
		if i > 0 {
			data.WriteByte(',')
		}
		writeJSON(&data, field.Alias)
		data.WriteByte(':')
		if field.Name == "__typename" {
			writeJSON(&data, root.Name)
			continue
		}

		var out bytes.Buffer
		val, err := e.resolveField(ctx, opCtx, root, field)
		if err == nil {
			err = project(&out, opCtx, val, field)
		}
		if err != nil {
			errs = append(errs, fieldError(field, err))
			data.WriteString("null")
			continue
		}
		data.Write(out.Bytes())
	}
	data.WriteByte('}')

	return graphql.OneShot(&graphql.Response{Data: data.Bytes(), Errors: errs})
}

// resolveField runs a root field through its directives and the handler's
// field middleware, so otelgqlgen spans cover it.
func (e *executableSchema) resolveField(ctx context.Context, opCtx *graphql.OperationContext, root *ast.Definition, field graphql.CollectedField) (res interface{}, err error) {
	fn, ok := e.fields[root.Name][field.Name]
	if !ok {
		return nil, fmt.Errorf("%s.%s is not implemented", root.Name, field.Name)
	}

	args := field.ArgumentMap(opCtx.Variables)
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{
		Object:     root.Name,
		Field:      field,
		Args:       args,
		IsMethod:   true,
		IsResolver: true,
	})

	defer func() {
		if r := recover(); r != nil {
			err = opCtx.Recover(ctx, r)
		}
	}()

	next := func(ctx context.Context) (interface{}, error) {
		return fn(ctx, args)
	}
	resolver := next
	if field.Definition.Directives.ForName("gate") != nil {
		if e.directives.Gate == nil {
			return nil, errors.New("directive gate is not implemented")
		}
		resolver = func(ctx context.Context) (interface{}, error) {
			return e.directives.Gate(ctx, nil, next)
		}
	}

	if opCtx.ResolverMiddleware == nil {
		return resolver(ctx)
	}
	return opCtx.ResolverMiddleware(ctx, resolver)
}

func project(buf *bytes.Buffer, opCtx *graphql.OperationContext, val interface{}, field graphql.CollectedField) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return err
	}
	writeSelected(buf, opCtx, generic, parsedSchema.Types[field.Definition.Type.Name()], field.Selections)
	return nil
}

// writeSelected writes only the selected fields of objects, under their
// aliases. Scalars, including JSON, are written whole.
func writeSelected(buf *bytes.Buffer, opCtx *graphql.OperationContext, v interface{}, typ *ast.Definition, sel ast.SelectionSet) {
	if typ != nil && typ.Kind == ast.Object {
		switch t := v.(type) {
		case []interface{}:
			buf.WriteByte('[')
			for i, item := range t {
				if i > 0 {
					buf.WriteByte(',')
				}
				writeSelected(buf, opCtx, item, typ, sel)
			}
			buf.WriteByte(']')
			return
		case map[string]interface{}:
			buf.WriteByte('{')
			for i, f := range graphql.CollectFields(opCtx, sel, []string{typ.Name}) {
				if i > 0 {
					buf.WriteByte(',')
				}
				writeJSON(buf, f.Alias)
				buf.WriteByte(':')
				if f.Name == "__typename" {
					writeJSON(buf, typ.Name)
					continue
				}
				writeSelected(buf, opCtx, t[f.Name], parsedSchema.Types[f.Definition.Type.Name()], f.Selections)
			}
			buf.WriteByte('}')
			return
		}
	}
	writeJSON(buf, v)
}

// writeJSON only sees strings and values decoded from JSON, which always re-encode.
func writeJSON(buf *bytes.Buffer, v interface{}) {
	b, _ := json.Marshal(v)
	buf.Write(b)
}

func fieldError(field graphql.CollectedField, err error) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		gqlErr = &gqlerror.Error{Message: err.Error(), Err: err}
	}
	if len(gqlErr.Path) == 0 {
		gqlErr.Path = ast.Path{ast.PathName(field.Alias)}
	}
	return gqlErr
}
