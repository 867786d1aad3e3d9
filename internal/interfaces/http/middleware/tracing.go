// Package middleware provides the gin middleware of the trade documents API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tradedocs/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader echoes the request's trace id so a client report can be
// matched with the collector.
const TraceIDHeader = "X-Trace-ID"

const (
	attrRequestID  = attribute.Key("request_id")
	attrHTTPStatus = attribute.Key("http.status_code")
)

type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing opens a server span per request, named after the matched route.
// Disabled tracing leaves the chain untouched.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher tags the request span with the request id and the caller.
// Responses of 400 and above fail the span. Place it after Auth.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := telemetry.TraceID(ctx); id != "" {
			c.Header(TraceIDHeader, id)
		}
		var attrs []attribute.KeyValue
		if id := GetRequestID(c); id != "" {
			attrs = append(attrs, attrRequestID.String(id))
		}
		if userID := GetJWTUserID(c); userID != "" {
			attrs = append(attrs, telemetry.AttrActorID.String(userID))
		}
		span.SetAttributes(attrs...)

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetAttributes(attrHTTPStatus.Int(status))
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
