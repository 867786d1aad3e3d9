package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of application spans.
const TracerName = "tradedocs"

// Span attributes of document operations.
const (
	AttrDocumentType   = attribute.Key("document.type")
	AttrDocumentID     = attribute.Key("document.id")
	AttrDocumentNumber = attribute.Key("document.number")
	AttrDocumentStatus = attribute.Key("document.status")
	AttrActorID        = attribute.Key("actor.id")
	AttrMasterKind     = attribute.Key("master.kind")
	AttrPDFDraft       = attribute.Key("pdf.draft")
	AttrPDFBytes       = attribute.Key("pdf.bytes")
)

// StartServiceSpan starts an internal span named "<service>.<operation>".
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "proforma", "Approve", telemetry.AttrDocumentID.String(id))
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError attaches err to the span and marks the span failed. A nil
// span or error is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// TraceID is the hex trace id of the span in ctx, or "" outside a trace.
func TraceID(ctx context.Context) string {
	if id := trace.SpanContextFromContext(ctx).TraceID(); id.IsValid() {
		return id.String()
	}
	return ""
}
