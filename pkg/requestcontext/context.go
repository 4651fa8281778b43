// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets the values; services and notifiers read them. Keeping this
// package free of net/http lets domain code import it without pulling in
// transport concerns.
package requestcontext

import "context"

type requestIDKey struct{}

// RequestID retrieves the correlation ID assigned to the current request.
// Returns the empty string if not set (e.g. in background work or tests).
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}
