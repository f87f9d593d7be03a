package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type of context keys owned by the API layer.
type ContextKey string

// TraceIDKey is the key for the trace ID in the request context
const TraceIDKey ContextKey = "traceID"

// WithTraceID stores traceID in the context. An empty traceID is replaced by
// a fresh random one.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = NewTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// NewTraceID returns a random trace ID.
func NewTraceID() string {
	return uuid.NewString()
}
