package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans created by this package.
const TracerName = "github.com/morgenstille/bethere"

// Span attribute keys. Audit log entries carry the resulting trace and
// span IDs, so a tool invocation can be followed from audit record to
// trace and back.
const (
	// SpanAttrTool is the MCP tool name.
	SpanAttrTool = "mcp.tool"

	// SpanAttrBackend is the upstream backend name.
	SpanAttrBackend = "backend.name"

	// SpanAttrOperation is the backend operation.
	SpanAttrOperation = "backend.operation"

	// SpanAttrSession is the chat session identifier.
	SpanAttrSession = "mcp.session"

	// SpanAttrModel is the planner model name.
	SpanAttrModel = "planner.model"
)

// SessionAttr returns the session span attribute.
func SessionAttr(session string) attribute.KeyValue {
	return attribute.String(SpanAttrSession, session)
}

// ModelAttr returns the planner model span attribute.
func ModelAttr(model string) attribute.KeyValue {
	return attribute.String(SpanAttrModel, model)
}

// StartToolSpan starts a server-kind span named tool.<name> for an MCP
// tool invocation. The caller must end the span.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	spanAttrs = append(spanAttrs, attribute.String(SpanAttrTool, toolName))
	spanAttrs = append(spanAttrs, attrs...)

	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "tool."+toolName,
		trace.WithAttributes(spanAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartBackendSpan starts a client-kind span named
// backend.<backend>.<operation> for an upstream request. The caller must
// end the span.
func StartBackendSpan(ctx context.Context, backend, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanAttrs := make([]attribute.KeyValue, 0, len(attrs)+2)
	spanAttrs = append(spanAttrs,
		attribute.String(SpanAttrBackend, backend),
		attribute.String(SpanAttrOperation, operation),
	)
	spanAttrs = append(spanAttrs, attrs...)

	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "backend."+backend+"."+operation,
		trace.WithAttributes(spanAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records err on the span and marks it failed. A nil err is
// ignored.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks the span as completed successfully.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
