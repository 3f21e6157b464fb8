package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Exporter names accepted by MetricsExporter and TracingExporter.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Status label values shared by every instrument.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"
)

// Bounded label values for the usaspending.gov API endpoint families.
const (
	EndpointSpending    = "spending"
	EndpointAwards      = "awards"
	EndpointAwardSearch = "spending_by_award"
	EndpointAgencies    = "toptier_agencies"
)

// Config controls the OpenTelemetry instrumentation for the process.
// DefaultConfig fills it from environment variables; the serve command may
// override individual fields from flags afterwards.
type Config struct {
	// ServiceName identifies the service in exported telemetry
	// (default: usaspending-mcp).
	ServiceName string

	// ServiceVersion is the build version stamped into telemetry.
	ServiceVersion string

	// ServiceInstanceID distinguishes instances of the service. Empty means
	// the hostname, which on Kubernetes is the pod name.
	ServiceInstanceID string

	// K8sNamespace is the Kubernetes namespace, when running in a cluster.
	K8sNamespace string

	// K8sPodName is the Kubernetes pod name, when running in a cluster.
	K8sPodName string

	// Enabled turns the whole instrumentation stack on or off
	// (default: true). Disabled still yields working no-op recorders.
	Enabled bool

	// MetricsExporter selects the metrics exporter:
	// "prometheus", "otlp", or "stdout" (default: "prometheus").
	MetricsExporter string

	// TracingExporter selects the trace exporter:
	// "otlp", "stdout", or "none" (default: "none").
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint, host and port without a
	// protocol prefix, e.g. "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure switches OTLP export from TLS to plain HTTP. Spans and
	// audit events carry award ids and search keywords, so plaintext
	// transport is only acceptable against a local collector.
	OTLPInsecure bool

	// TraceSamplingRate is the head sampling ratio, 0.0 to 1.0
	// (default: 0.1).
	TraceSamplingRate float64

	// PrometheusEndpoint is the metrics endpoint path (default: "/metrics").
	PrometheusEndpoint string

	// DetailedLabels adds high-cardinality labels such as the award id to
	// gateway metrics. Off by default; each distinct award id becomes its
	// own time series, which only a short-lived debugging setup can afford.
	DetailedLabels bool

	// AuditLogging configures the audit trail for tool invocations.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	// Audit logs may contain full request detail (award identifiers, search
	// keywords, note text) and should be routed to appropriate storage.
	Enabled bool

	// IncludeArguments controls whether full tool arguments are included in
	// audit logs. When false (default), only bounded endpoint labels and
	// operation names are logged. When true, the raw arguments of each tool
	// call are included for debugging and audit purposes.
	IncludeArguments bool

	// LogLevel sets the slog level for audit log messages (default: INFO).
	// Options: "debug", "info", "warn", "error"
	// Note: Audit events are always logged regardless of this level.
	LogLevel string
}

// DefaultConfig reads the instrumentation configuration from the
// environment, falling back to defaults suited to a stdio deployment:
// Prometheus metrics on, tracing off.
func DefaultConfig() Config {
	return Config{
		ServiceName:        getEnvOrDefault("OTEL_SERVICE_NAME", "usaspending-mcp"),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		K8sNamespace:       getEnvOrDefault("K8S_NAMESPACE", getEnvOrDefault("POD_NAMESPACE", "")),
		K8sPodName:         getEnvOrDefault("K8S_POD_NAME", getEnvOrDefault("HOSTNAME", "")),
		Enabled:            getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:    getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:    getEnvOrDefault("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:       getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:       getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate:  getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		PrometheusEndpoint: getEnvOrDefault("PROMETHEUS_ENDPOINT", "/metrics"),
		DetailedLabels:     getEnvBoolOrDefault("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:          getEnvBoolOrDefault("AUDIT_LOGGING_ENABLED", true),
			IncludeArguments: getEnvBoolOrDefault("AUDIT_LOGGING_INCLUDE_ARGUMENTS", false),
			LogLevel:         getEnvOrDefault("AUDIT_LOGGING_LEVEL", "info"),
		},
	}
}

// Validate reports configuration errors a NewProvider call would hit later.
// Empty exporter names pass; the zero Config is not a misconfiguration.
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

// getEnvOrDefault returns the environment variable value, or defaultValue
// when unset or empty.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBoolOrDefault parses the environment variable as a bool. Unset,
// empty, and unparsable values all yield defaultValue.
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if parsed, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return parsed
	}
	return defaultValue
}

// getEnvFloatOrDefault parses the environment variable as a float64. Unset,
// empty, and unparsable values all yield defaultValue.
func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if parsed, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return parsed
	}
	return defaultValue
}
