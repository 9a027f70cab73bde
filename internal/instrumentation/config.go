package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName identifies this service in exported telemetry
	// (default: bethere).
	ServiceName string

	// ServiceVersion is the build version stamped on the resource.
	ServiceVersion string

	// ServiceInstanceID distinguishes parallel instances
	// (default: hostname).
	ServiceInstanceID string

	// Enabled turns metrics and tracing on (default: true).
	// INSTRUMENTATION_ENABLED=false disables both.
	Enabled bool

	// MetricsExporter selects "prometheus", "otlp" or "stdout"
	// (default: "prometheus").
	MetricsExporter string

	// TracingExporter selects "otlp", "stdout" or "none"
	// (default: "none").
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint without a protocol
	// prefix, e.g. "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure sends OTLP export over plain HTTP instead of TLS.
	// Spans carry tool arguments, so this is for local collectors only.
	OTLPInsecure bool

	// TraceSamplingRate is the head sampling rate, 0.0 to 1.0
	// (default: 0.1).
	TraceSamplingRate float64

	// DetailedLabels admits high-cardinality labels such as session
	// prefixes into the metric label sets. Off by default; every extra
	// label value is a new time series.
	DetailedLabels bool

	// AuditLogging configures audit logging behavior.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	// Audit logs may contain user-typed content (addresses, event titles) and
	// should be routed to secure storage.
	Enabled bool

	// IncludeArguments controls whether to include full tool argument payloads
	// in audit logs. When false (default), only tool names and outcomes are
	// logged. When true, the complete argument JSON is included for
	// compliance/audit purposes.
	// SECURITY: Argument payloads carry user-typed content. Ensure audit logs
	// are stored securely with appropriate access controls.
	IncludeArguments bool

	// LogLevel sets the slog level for audit messages: "debug", "info",
	// "warn" or "error" (default: "info"). Audit events are emitted
	// regardless of this level.
	LogLevel string
}

// DefaultConfig returns a Config with sensible defaults based on environment variables.
func DefaultConfig() Config {
	return Config{
		ServiceName:       getEnvOrDefault("OTEL_SERVICE_NAME", "bethere"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   getEnvOrDefault("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    getEnvBoolOrDefault("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:          getEnvBoolOrDefault("AUDIT_LOGGING_ENABLED", true),
			IncludeArguments: getEnvBoolOrDefault("AUDIT_LOGGING_INCLUDE_ARGUMENTS", false),
			LogLevel:         getEnvOrDefault("AUDIT_LOGGING_LEVEL", "info"),
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.TracingExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}
	if c.MetricsExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}

	return nil
}

// Env lookups fall back to the default when the variable is unset,
// empty or unparseable.

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Constants for metric label values.
const (
	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	// Agent run outcome values
	RunOutcomeAnswered = "answered"
	RunOutcomeFallback = "fallback"
	RunOutcomeError    = "error"

	// Backend names for upstream services
	BackendCalendar  = "calendar"
	BackendGeocoding = "geocoding"
	BackendRouting   = "routing"
	BackendOllama    = "ollama"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)
