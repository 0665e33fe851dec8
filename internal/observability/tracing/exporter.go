package tracing

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted by NewSpanProcessors.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// NewSpanProcessors returns the batching processors for the named exporter;
// "none" yields none. Stdout spans go to w, or stderr when w is nil, so they
// do not interleave with JSON logs on stdout.
func NewSpanProcessors(exporter string, w io.Writer) ([]sdktrace.SpanProcessor, error) {
	switch strings.ToLower(strings.TrimSpace(exporter)) {
	case "", ExporterNone:
		return nil, nil
	case ExporterStdout:
		if w == nil {
			w = os.Stderr
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("stdout trace exporter: %w", err)
		}
		return []sdktrace.SpanProcessor{sdktrace.NewBatchSpanProcessor(exp)}, nil
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", exporter)
	}
}
