// Package instrumentation wires OpenTelemetry metrics, tracing and audit
// logging through one Provider. Everything hangs off it: the MCP server
// context asks it for the Metrics recorder and the AuditLogger, the tool
// wrappers open spans through the package-level Start*Span helpers, and
// the metrics server scrapes whatever the configured exporter registered.
//
// Metric names, by concern:
//
//	http_requests_total / http_request_duration_seconds   streamable HTTP transport
//	active_sessions                                       chat session gauge
//	backend_requests_total / backend_request_duration_seconds
//	                                                      calendar, geocoding, routing upstreams
//	planner_requests_total / planner_request_duration_seconds
//	                                                      Ollama chat completions
//	agent_runs_total / agent_iterations_per_run           agent loop outcomes
//	mcp_tool_invocations_total / mcp_tool_duration_seconds
//	                                                      per-tool counts and latency
//
// Spans follow the call shape: "tool.<name>" around each MCP tool handler,
// with "backend.<backend>.<operation>" children around the upstream calls
// the handler makes.
//
// Configuration comes from DefaultConfig, which reads INSTRUMENTATION_ENABLED,
// METRICS_EXPORTER, TRACING_EXPORTER, the OTEL_* variables and the
// AUDIT_LOGGING_* variables; see Config for the full set.
//
// Typical setup:
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordToolInvocation(ctx, "get_all_events", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
