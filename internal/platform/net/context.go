// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyEdition ctxKey = "edition"

// WithRequest annotates context with the request id and the wiki edition being served
func WithRequest(ctx context.Context, reqID, lang string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if lang != "" {
		ctx = context.WithValue(ctx, keyEdition, lang)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// Edition returns the wiki language code on the context if present
func Edition(ctx context.Context) string {
	if v, ok := ctx.Value(keyEdition).(string); ok {
		return v
	}
	return ""
}
