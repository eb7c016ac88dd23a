// Package telemetry traces probes with OpenTelemetry and streams them to a renderer.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/bounds/internal/core/ports"
)

// InstrumentationName is the name of the tracer used for probe spans.
const InstrumentationName = "go.trai.ch/bounds"

// OTelTracer implements ports.Tracer with OpenTelemetry.
type OTelTracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	renderer ports.Renderer
}

// Setup installs a global tracer provider whose spans are forwarded to
// renderer and returns a tracer bound to it.
func Setup(renderer ports.Renderer) *OTelTracer {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewBridge(renderer)))
	otel.SetTracerProvider(tp)

	t := newOTelTracer(renderer)
	t.provider = tp
	return t
}

// newOTelTracer creates a tracer on the global provider. Span output is sent
// to renderer when it is non-nil.
func newOTelTracer(renderer ports.Renderer) *OTelTracer {
	return &OTelTracer{
		tracer:   otel.Tracer(InstrumentationName),
		renderer: renderer,
	}
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var startOpts []trace.SpanStartOption
	if cfg.Root {
		startOpts = append(startOpts, trace.WithNewRoot())
	}

	ctx, span := t.tracer.Start(ctx, name, startOpts...)
	return ctx, &OTelSpan{span: span, renderer: t.renderer}
}

// EmitPlan records the versions about to be probed on the current span and
// announces them to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, dependency string, versions []string) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.String("dependency", dependency),
			attribute.StringSlice("versions", versions),
		))
	}

	if t.renderer != nil {
		t.renderer.OnPlanEmit(dependency, versions)
	}
}

// Shutdown flushes and stops the provider installed by Setup.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// OTelSpan implements ports.Span.
type OTelSpan struct {
	span     trace.Span
	renderer ports.Renderer
}

// End completes the span.
func (s *OTelSpan) End() {
	s.span.End()
}

// RecordError records err and marks the span as failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	case fmt.Stringer:
		s.span.SetAttributes(attribute.String(key, v.String()))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write streams oracle output to the renderer, or records it as a span
// event when there is none.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.renderer != nil {
		s.renderer.OnProbeLog(s.span.SpanContext().SpanID().String(), append([]byte(nil), p...))
		return len(p), nil
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
