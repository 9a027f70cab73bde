package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// installSpanRecorder swaps the global tracer provider for one that
// records every span, restoring the previous provider on cleanup.
func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	return recorder
}

func attributeMap(span sdktrace.ReadOnlySpan) map[string]string {
	attrs := make(map[string]string)
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	return attrs
}

func TestStartToolSpan(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartToolSpan(context.Background(), "get_all_events",
		SessionAttr("3f1c2a9e"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded %d spans, expected 1", len(ended))
	}

	got := ended[0]
	if got.Name() != "tool.get_all_events" {
		t.Errorf("span name = %q, expected tool.get_all_events", got.Name())
	}
	if got.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, expected server", got.SpanKind())
	}

	attrs := attributeMap(got)
	if attrs[SpanAttrTool] != "get_all_events" {
		t.Errorf("tool attribute = %q", attrs[SpanAttrTool])
	}
	if attrs[SpanAttrSession] != "3f1c2a9e" {
		t.Errorf("session attribute = %q", attrs[SpanAttrSession])
	}
}

func TestStartBackendSpan(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartBackendSpan(context.Background(), BackendRouting, OperationRoute,
		attribute.String("extra", "kept"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded %d spans, expected 1", len(ended))
	}

	got := ended[0]
	if got.Name() != "backend.routing.route" {
		t.Errorf("span name = %q, expected backend.routing.route", got.Name())
	}
	if got.SpanKind() != trace.SpanKindClient {
		t.Errorf("span kind = %v, expected client", got.SpanKind())
	}

	attrs := attributeMap(got)
	if attrs[SpanAttrBackend] != BackendRouting {
		t.Errorf("backend attribute = %q", attrs[SpanAttrBackend])
	}
	if attrs[SpanAttrOperation] != OperationRoute {
		t.Errorf("operation attribute = %q", attrs[SpanAttrOperation])
	}
	if attrs["extra"] != "kept" {
		t.Errorf("extra attribute = %q, expected kept", attrs["extra"])
	}
}

func TestStartToolSpan_ChildOfBackendParent(t *testing.T) {
	recorder := installSpanRecorder(t)

	ctx, parent := StartToolSpan(context.Background(), "get_eta")
	_, child := StartBackendSpan(ctx, BackendRouting, OperationRoute)
	child.End()
	parent.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("recorded %d spans, expected 2", len(ended))
	}

	// Ended() returns spans in completion order: child first.
	if ended[0].Parent().SpanID() != ended[1].SpanContext().SpanID() {
		t.Error("backend span should be a child of the tool span")
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartToolSpan(context.Background(), "create_event")
	SetSpanError(span, errors.New("calendar backend is unreachable"))
	SetSpanError(span, nil)
	span.End()

	got := recorder.Ended()[0]
	if got.Status().Code != codes.Error {
		t.Errorf("status code = %v, expected error", got.Status().Code)
	}
	if got.Status().Description != "calendar backend is unreachable" {
		t.Errorf("status description = %q", got.Status().Description)
	}
	if len(got.Events()) != 1 {
		t.Errorf("recorded %d error events, expected 1", len(got.Events()))
	}
}

func TestSetSpanSuccess(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartToolSpan(context.Background(), "get_all_locations")
	SetSpanSuccess(span)
	span.End()

	if got := recorder.Ended()[0]; got.Status().Code != codes.Ok {
		t.Errorf("status code = %v, expected ok", got.Status().Code)
	}
}
