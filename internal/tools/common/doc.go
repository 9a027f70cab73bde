// Package common provides shared utilities for MCP tool implementations:
// typed argument extraction, session propagation, and the instrumented
// handler wrapper that records metrics and audit entries.
package common
