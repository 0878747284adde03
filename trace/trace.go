// Package trace provides request-ID propagation for dispatch observability
// events. IDs travel through the context so concurrent dispatches never
// share state.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

// requestIDKey is the context key for request ID values
const requestIDKey contextKey = "request_id"

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// IDFromContext returns a request ID from context if present
func IDFromContext(ctx context.Context) (string, bool) {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		return requestID, true
	}
	return "", false
}

// EnsureRequestID returns an existing request ID from context or generates a new one
func EnsureRequestID(ctx context.Context) string {
	if requestID, ok := IDFromContext(ctx); ok {
		return requestID
	}
	return uuid.New().String()
}
