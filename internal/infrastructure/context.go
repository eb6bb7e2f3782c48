package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateRunID creates a new unique run ID
func GenerateRunID() string {
	return uuid.New().String()
}

// ContextWithRunID creates a new context with a generated run ID
func ContextWithRunID(ctx context.Context) context.Context {
	return WithRunID(ctx, GenerateRunID())
}

// EnsureRunID returns the context's run ID, generating and attaching one
// first if the context carries none.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if runID := GetRunID(ctx); runID != "" {
		return ctx, runID
	}
	runID := GenerateRunID()
	return WithRunID(ctx, runID), runID
}

// LoggerFromContext returns a logger that will include the context's
// run ID on every record it emits.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With(slog.String("run_id", runID))
	}
	return logger
}

// InfoContext logs at info level with context
func InfoContext(ctx context.Context, msg string, args ...any) {
	GetLogger().InfoContext(ctx, msg, args...)
}

// ErrorContext logs at error level with context
func ErrorContext(ctx context.Context, msg string, args ...any) {
	GetLogger().ErrorContext(ctx, msg, args...)
}

// WarnContext logs at warn level with context
func WarnContext(ctx context.Context, msg string, args ...any) {
	GetLogger().WarnContext(ctx, msg, args...)
}

// DebugContext logs at debug level with context
func DebugContext(ctx context.Context, msg string, args ...any) {
	GetLogger().DebugContext(ctx, msg, args...)
}

// WithComponent returns a logger tagged with a component name
func WithComponent(component string) *slog.Logger {
	return GetLogger().With(slog.String("component", component))
}

// WithError returns a logger with an error attribute
func WithError(err error) *slog.Logger {
	return GetLogger().With(slog.String("error", err.Error()))
}

// WithFields returns a logger with multiple fields
func WithFields(fields map[string]any) *slog.Logger {
	logger := GetLogger()
	for k, v := range fields {
		logger = logger.With(slog.Any(k, v))
	}
	return logger
}
