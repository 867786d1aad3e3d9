package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	actorKey     contextKey = "actor"
)

type actorFields struct {
	id       string
	username string
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request id in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithActor stores the authenticated user in ctx so every log line carries it
func WithActor(ctx context.Context, userID, username string) context.Context {
	return context.WithValue(ctx, actorKey, actorFields{id: userID, username: username})
}

// GetActor returns the user id and username stored by WithActor
func GetActor(ctx context.Context) (userID, username string) {
	if a, ok := ctx.Value(actorKey).(actorFields); ok {
		return a.id, a.username
	}
	return "", ""
}

// GetTraceID extracts the trace ID from the context's span, or ""
func GetTraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// L returns the context logger enriched with trace, request and actor fields.
// Usage: logger.L(ctx).Info("Packing list approved", logger.Document(...)...)
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich adds the correlation fields found in ctx to l
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	fields := make([]zap.Field, 0, 5)

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		fields = append(fields,
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if id, username := GetActor(ctx); id != "" {
		fields = append(fields, zap.String("user_id", id), zap.String("username", username))
	}

	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// Document returns the standard fields identifying a trade document in logs
func Document(docType, id, number, status string) []zap.Field {
	fields := []zap.Field{
		zap.String("document_type", docType),
		zap.String("document_id", id),
	}
	if number != "" {
		fields = append(fields, zap.String("document_number", number))
	}
	if status != "" {
		fields = append(fields, zap.String("status", status))
	}
	return fields
}
