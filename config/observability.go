package config

import (
	"log/slog"
	"strings"
)

// DefaultServiceName tags traces and metrics.
const DefaultServiceName = "photo-pipeline"

// ObservabilityConfig groups configuration that controls logging, metrics and tracing.
type ObservabilityConfig struct {
	Logging LoggingConfig
	Metrics ObservabilityMetricsConfig
	Tracing ObservabilityTracingConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Logging.Sanitize()
	c.Metrics.Sanitize()
	c.Tracing.Sanitize()
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format is json or console. Dev mode always logs to the console.
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Sanitize normalises the level and format names.
func (c *LoggingConfig) Sanitize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	switch c.Level {
	case "debug", "info", "warn", "error":
	case "warning":
		c.Level = "warn"
	default:
		c.Level = "info"
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format != "console" {
		c.Format = "json"
	}
}

// SlogLevel returns the configured level as a slog.Level.
func (c *LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ObservabilityMetricsConfig controls emission of metrics to external sinks such as StatsD.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// ObservabilityTracingConfig controls trace context propagation through job payloads.
type ObservabilityTracingConfig struct {
	Enabled     bool   `env:"OBSERVABILITY_TRACING_ENABLED"      envDefault:"false"`
	ServiceName string `env:"OBSERVABILITY_TRACING_SERVICE_NAME" envDefault:"photo-pipeline"`
	// Exporter is none or stdout. Unknown names fall back to none.
	Exporter string `env:"OBSERVABILITY_TRACING_EXPORTER" envDefault:"none"`
}

// Sanitize fills in the service name and normalises the exporter.
func (c *ObservabilityTracingConfig) Sanitize() {
	if c.ServiceName = strings.TrimSpace(c.ServiceName); c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	c.Exporter = strings.ToLower(strings.TrimSpace(c.Exporter))
	if c.Exporter != "stdout" {
		c.Exporter = "none"
	}
}
