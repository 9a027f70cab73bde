package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys shared across the instruments.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrBackend   = "backend"
	attrOutcome   = "outcome"
	attrTool      = "tool"
	attrModel     = "model"
	attrSession   = "session"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	// Backend metrics (calendar, geocoding, routing)
	backendRequestsTotal   metric.Int64Counter
	backendRequestDuration metric.Float64Histogram

	// Planner metrics
	plannerRequestsTotal   metric.Int64Counter
	plannerRequestDuration metric.Float64Histogram

	// Agent loop metrics
	agentRunsTotal  metric.Int64Counter
	agentIterations metric.Int64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels admits high-cardinality labels such as session
	// prefixes into the label sets.
	detailedLabels bool
}

// NewMetrics registers every instrument on the meter up front so a bad
// instrument definition fails at provider setup, not at first use.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active chat sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	// Backend Metrics
	m.backendRequestsTotal, err = meter.Int64Counter(
		"backend_requests_total",
		metric.WithDescription("Total number of upstream backend requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend_requests_total counter: %w", err)
	}

	m.backendRequestDuration, err = meter.Float64Histogram(
		"backend_request_duration_seconds",
		metric.WithDescription("Upstream backend request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend_request_duration_seconds histogram: %w", err)
	}

	// Planner Metrics
	m.plannerRequestsTotal, err = meter.Int64Counter(
		"planner_requests_total",
		metric.WithDescription("Total number of planner model requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create planner_requests_total counter: %w", err)
	}

	m.plannerRequestDuration, err = meter.Float64Histogram(
		"planner_request_duration_seconds",
		metric.WithDescription("Planner model request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create planner_request_duration_seconds histogram: %w", err)
	}

	// Agent Loop Metrics
	m.agentRunsTotal, err = meter.Int64Counter(
		"agent_runs_total",
		metric.WithDescription("Total number of agent loop runs by outcome"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_runs_total counter: %w", err)
	}

	m.agentIterations, err = meter.Int64Histogram(
		"agent_iterations_per_run",
		metric.WithDescription("Number of planner iterations consumed per agent run"),
		metric.WithUnit("{iteration}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 8, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_iterations_per_run histogram: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records one served HTTP request. Paths are the
// registered routes, not raw URLs, so the label set stays bounded.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // instruments stay nil when disabled
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBackendRequest records one upstream request. Backend and operation
// come from the Backend* and Operation* constants; status is StatusSuccess
// or StatusError.
func (m *Metrics) RecordBackendRequest(ctx context.Context, backend, operation, status string, duration time.Duration) {
	if m.backendRequestsTotal == nil || m.backendRequestDuration == nil {
		return // instruments stay nil when disabled
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrBackend, backend),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.backendRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.backendRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordPlannerRequest records a planner model request with model name, status,
// and duration. Model names come from configuration and stay low-cardinality.
func (m *Metrics) RecordPlannerRequest(ctx context.Context, model, status string, duration time.Duration) {
	if m.plannerRequestsTotal == nil || m.plannerRequestDuration == nil {
		return // instruments stay nil when disabled
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrModel, model),
		attribute.String(attrStatus, status),
	}

	m.plannerRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.plannerRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAgentRun records a completed agent loop run.
//
// Parameters:
//   - outcome: Run outcome ("answered", "fallback", or "error")
//   - iterations: Number of planner iterations the run consumed
func (m *Metrics) RecordAgentRun(ctx context.Context, outcome string, iterations int) {
	if m.agentRunsTotal == nil || m.agentIterations == nil {
		return // instruments stay nil when disabled
	}

	m.agentRunsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOutcome, outcome),
	))
	m.agentIterations.Record(ctx, int64(iterations), metric.WithAttributes(
		attribute.String(attrOutcome, outcome),
	))
}

// RecordToolInvocation records one MCP tool call by tool name, for example
// "get_all_events" or "create_event".
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // instruments stay nil when disabled
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// IncrementActiveSessions bumps the session gauge when a chat session is
// created.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // instruments stay nil when disabled
	}

	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions drops the session gauge when a session ends or
// expires.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // instruments stay nil when disabled
	}

	m.activeSessions.Add(ctx, -1)
}

// RecordToolInvocationWithSession is RecordToolInvocation plus a session
// label. The session is truncated to its short prefix and attached only
// when detailed labels are enabled; otherwise the call degrades to the
// plain form.
func (m *Metrics) RecordToolInvocationWithSession(ctx context.Context, toolName, status, session string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // instruments stay nil when disabled
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels && session != "" {
		attrs = append(attrs, attribute.String(attrSession, ShortSession(session)))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
