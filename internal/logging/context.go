package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey int

const requestIDKey contextKey = iota

// NewRequestID returns a fresh request id.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a new context carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request id, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the package logger tagged with the request id in ctx.
func FromContext(ctx context.Context) *slog.Logger {
	logger := Logger()
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logger = logger.With(KeyRequestID, requestID)
	}
	return logger
}
