// Package server provides the shared runtime context for the bethere
// MCP server and chat commands.
//
// # Key Components
//
// ServerContext holds the loaded configuration and builds the calendar,
// geocoding and routing backend clients lazily on first use. It also
// carries the instrumentation provider and the audit logger so tool
// handlers can record metrics and audit entries through one place.
//
// HealthChecker serves /healthz and /readyz for Kubernetes probes.
// Readiness tracks a periodic reachability probe against the calendar
// backend, since every event operation depends on it.
//
// MetricsServer exposes Prometheus metrics on a dedicated port and can
// host the health endpoints on the same listener.
//
// SessionRegistry hands out conversation session IDs and expires idle
// sessions; the IDs thread through audit logs and the chat history
// store.
package server
