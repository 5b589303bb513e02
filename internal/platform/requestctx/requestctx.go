// Package requestctx carries the per-request correlation id through
// context, so handlers and the audit log tag their output with the same id
// the response header carries.
package requestctx

import "context"

type contextKey int

const requestIDKey contextKey = iota

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request's correlation id, or "" when the request
// never passed through the request-id middleware.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
