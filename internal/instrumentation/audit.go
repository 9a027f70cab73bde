package instrumentation

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures one MCP tool call for audit logging.
//
// The Arguments field carries user-typed content (addresses, event
// titles). General logs should go through LogAttrs, which omits the
// payload and truncates the session ID; the full record is reserved
// for audit-specific log streams with access controls.
type ToolInvocation struct {
	// Tool name
	Tool string

	// Session is the chat session identifier, if the call originated from one
	Session string

	// Backend and Operation attribute the call to the upstream service
	// that served it (calendar, geocoding, routing / list, geocode, ...)
	Backend   string
	Operation string

	// Arguments is the JSON-encoded tool argument payload
	Arguments string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewToolInvocation creates a new ToolInvocation with timing started.
// Call one of the Complete methods when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithSession sets the chat session identifier.
func (ti *ToolInvocation) WithSession(session string) *ToolInvocation {
	ti.Session = session
	return ti
}

// WithBackend sets the upstream backend and operation.
func (ti *ToolInvocation) WithBackend(backend, operation string) *ToolInvocation {
	ti.Backend = backend
	ti.Operation = operation
	return ti
}

// WithArguments records the tool argument payload as JSON.
// Marshal failures leave the payload empty rather than failing the invocation.
func (ti *ToolInvocation) WithArguments(args map[string]any) *ToolInvocation {
	if len(args) == 0 {
		return ti
	}
	if encoded, err := json.Marshal(args); err == nil {
		ti.Arguments = string(encoded)
	}
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as finished and fixes its duration.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// ShortSessionID returns a truncated session identifier for lower-cardinality logging.
func (ti *ToolInvocation) ShortSessionID() string {
	return ShortSession(ti.Session)
}

// logAttrs assembles the slog attributes for one invocation record.
// The full form adds the complete session ID, the argument payload and
// the span ID; the reduced form keeps cardinality down for general logs.
func (ti *ToolInvocation) logAttrs(full bool) []slog.Attr {
	session := ti.ShortSessionID()
	if full {
		session = ti.Session
	}

	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("session", session),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if full && ti.Arguments != "" {
		attrs = append(attrs, slog.String("arguments", ti.Arguments))
	}
	if ti.Backend != "" {
		attrs = append(attrs, slog.String("backend", ti.Backend))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if full && ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// LogAttrs returns the reduced attribute set for general operational logging:
// short session prefix, no argument payload.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	return ti.logAttrs(false)
}

// LogAuditAttrs returns the complete attribute set, including the full
// session identifier and the argument payload. Route records built from
// this into secure storage, not general monitoring dashboards.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	return ti.logAttrs(true)
}

// AuditLogger writes structured audit records for tool invocations.
type AuditLogger struct {
	logger           *slog.Logger
	includeArguments bool
	enabled          bool
}

// NewAuditLogger creates an AuditLogger that logs reduced records:
// enabled, without argument payloads.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates an AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:           logger,
		includeArguments: config.IncludeArguments,
		enabled:          config.Enabled,
	}
}

// LogToolInvocation writes one invocation record. Successful calls log at
// info as "tool_executed", failed ones at warn as "tool_failed". The
// IncludeArguments configuration picks between the reduced and the full
// attribute set.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	attrs := ti.LogAttrs()
	if al.includeArguments {
		attrs = ti.LogAuditAttrs()
	}

	if ti.Success {
		al.logger.LogAttrs(context.Background(), slog.LevelInfo, "tool_executed", attrs...)
	} else {
		al.logger.LogAttrs(context.Background(), slog.LevelWarn, "tool_failed", attrs...)
	}
}
