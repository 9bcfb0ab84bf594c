package logging

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ValidateAndExtractRequestID returns the given ID when it is a valid
// UUID and mints a fresh one otherwise, so downstream calls always
// carry a usable correlation ID.
func ValidateAndExtractRequestID(requestID string) string {
	if _, err := uuid.Parse(requestID); err != nil {
		return uuid.NewString()
	}
	return requestID
}
