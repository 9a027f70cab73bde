package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/morgenstille/bethere/internal/instrumentation"
	"github.com/morgenstille/bethere/internal/server"
)

// errToolResult marks spans for handlers that returned a tool-level
// error result rather than a transport error.
var errToolResult = errors.New("tool reported an error result")

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and
// audit logging. When no instrumentation is configured the handler runs
// bare.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()

		// The conversation session, when the call comes through the
		// chat loop rather than an external MCP client
		session := SessionFromContext(ctx)

		var spanAttrs []attribute.KeyValue
		if session != "" {
			sc.TouchSession(session)
			spanAttrs = append(spanAttrs, instrumentation.SessionAttr(session))
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithArguments(request.GetArguments())
		if session != "" {
			invocation.WithSession(session)
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			instrumentation.SetSpanError(span, errToolResult)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics != nil {
			metrics.RecordToolInvocationWithSession(ctx, toolName, status, session, duration)
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// InstrumentedToolHandlerWithBackend is like InstrumentedToolHandler but
// also attributes the invocation to the upstream backend and operation
// that serve it, recording backend request metrics and a backend child
// span. The tool duration stands in for the backend call duration; the
// handler does little beyond the request itself.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithBackend("my_tool", instrumentation.BackendCalendar, instrumentation.OperationList, sc, handler))
func InstrumentedToolHandlerWithBackend(
	toolName string,
	backend string,
	operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()

		session := SessionFromContext(ctx)

		var spanAttrs []attribute.KeyValue
		if session != "" {
			sc.TouchSession(session)
			spanAttrs = append(spanAttrs, instrumentation.SessionAttr(session))
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithBackend(backend, operation).
			WithArguments(request.GetArguments())
		if session != "" {
			invocation.WithSession(session)
		}

		backendCtx, backendSpan := instrumentation.StartBackendSpan(ctx, backend, operation)
		result, err := handler(backendCtx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(backendSpan, err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			instrumentation.SetSpanError(backendSpan, errToolResult)
			instrumentation.SetSpanError(span, errToolResult)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(backendSpan)
			instrumentation.SetSpanSuccess(span)
		}
		backendSpan.End()

		if metrics != nil {
			metrics.RecordToolInvocationWithSession(ctx, toolName, status, session, duration)
			metrics.RecordBackendRequest(ctx, backend, operation, status, duration)
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
