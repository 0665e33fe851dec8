// Package tracing propagates W3C trace context through job payloads and wraps
// job execution in spans.
package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName identifies spans created by the pipeline.
const InstrumentationName = "github.com/target/photo-pipeline"

// SpanJobProcess is the span wrapping one job attempt.
const SpanJobProcess = "job.process"

// Options configures a Tracer.
type Options struct {
	Enabled bool
	// Provider defaults to a no-op provider when nil.
	Provider trace.TracerProvider
}

// Tracer injects and extracts trace context and starts job spans.
// A disabled Tracer never touches payloads and starts no spans.
type Tracer struct {
	enabled    bool
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewTracer builds a Tracer using the W3C trace-context propagator.
func NewTracer(opts Options) *Tracer {
	provider := opts.Provider
	if provider == nil {
		provider = noop.NewTracerProvider()
	}
	return &Tracer{
		enabled:    opts.Enabled,
		tracer:     provider.Tracer(InstrumentationName),
		propagator: propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	}
}

// Disabled returns a Tracer that does nothing.
func Disabled() *Tracer {
	return NewTracer(Options{})
}

// Enabled reports whether tracing is on.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Inject returns the active trace context as a carrier map (traceparent, tracestate).
// It returns nil when tracing is disabled or ctx carries no valid span.
func (t *Tracer) Inject(ctx context.Context) map[string]string {
	if !t.Enabled() || !trace.SpanContextFromContext(ctx).IsValid() {
		return nil
	}
	carrier := propagation.MapCarrier{}
	t.propagator.Inject(ctx, carrier)
	if len(carrier) == 0 {
		return nil
	}
	return carrier
}

// Extract returns ctx with the remote span context from carrier attached.
func (t *Tracer) Extract(ctx context.Context, carrier map[string]string) context.Context {
	if !t.Enabled() || len(carrier) == 0 {
		return ctx
	}
	return t.propagator.Extract(ctx, propagation.MapCarrier(carrier))
}

// StartJobSpan starts the job.process span. The parent is taken from carrier
// when present; otherwise the span starts a new trace. When tracing is
// disabled ctx is returned with a no-op span.
func (t *Tracer) StartJobSpan(ctx context.Context, carrier map[string]string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !t.Enabled() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	parent := t.Extract(ctx, carrier)
	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindConsumer), trace.WithAttributes(attrs...)}
	if !trace.SpanContextFromContext(parent).IsValid() {
		opts = append(opts, trace.WithNewRoot())
	}
	return t.tracer.Start(parent, SpanJobProcess, opts...)
}

// StartServerSpan starts the server span of an inbound HTTP request. The
// caller's traceparent header, when valid, becomes the parent.
func (t *Tracer) StartServerSpan(ctx context.Context, header http.Header, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !t.Enabled() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	parent := t.propagator.Extract(ctx, propagation.HeaderCarrier(header))
	return t.tracer.Start(parent, name, trace.WithSpanKind(trace.SpanKindServer), trace.WithAttributes(attrs...))
}

// StartSpan starts a child span of whatever span ctx carries.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !t.Enabled() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on span, marks it errored, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// NewProvider builds an SDK tracer provider tagged with the service name.
// Span processors (exporters) are supplied by the caller.
func NewProvider(serviceName string, processors ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	res := sdkresource.NewSchemaless(attribute.String("service.name", serviceName))
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	return sdktrace.NewTracerProvider(opts...)
}
