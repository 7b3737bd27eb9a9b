package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/indent_tracker/appctx"
)

// Alias the shared context key type so callers only import utils.
type contextKey = appctx.ContextKey

var (
	ContextKeyUsername      = appctx.ContextKeyUsername
	ContextKeyFirmNameMatch = appctx.ContextKeyFirmNameMatch
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUsername)
}

func GetFirmNameMatchFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyFirmNameMatch)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetUsernameInContext(ctx context.Context, username string) context.Context {
	return appctx.Set(ctx, ContextKeyUsername, username)
}

func SetFirmNameMatchInContext(ctx context.Context, firm string) context.Context {
	return appctx.Set(ctx, ContextKeyFirmNameMatch, firm)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
