package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/bounds/internal/adapters/telemetry"
	"go.trai.ch/bounds/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	bridge := telemetry.NewBridge(renderer)

	tp := sdktrace.NewTracerProvider()
	ctx, parent := tp.Tracer("test").Start(context.Background(), "minimize rand")
	defer parent.End()
	_, span := tp.Tracer("test").Start(ctx, "rand 0.8.5")
	defer span.End()

	renderer.EXPECT().OnProbeStart(
		span.SpanContext().SpanID().String(),
		parent.SpanContext().SpanID().String(),
		"rand 0.8.5",
		gomock.Any(),
	).Times(1)

	if rw, ok := span.(sdktrace.ReadWriteSpan); ok {
		bridge.OnStart(ctx, rw)
	}
}

func TestBridge_NilRenderer(_ *testing.T) {
	bridge := telemetry.NewBridge(nil)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "rand 0.8.5")
	span.End()

	if rw, ok := span.(sdktrace.ReadWriteSpan); ok {
		bridge.OnStart(ctx, rw)
		bridge.OnEnd(rw)
	}
}

func TestBridge_OnEnd(t *testing.T) {
	tests := []struct {
		name    string
		status  codes.Code
		desc    string
		wantErr string
	}{
		{name: "ok", status: codes.Unset},
		{name: "failed", status: codes.Error, desc: "FAILED", wantErr: "FAILED"},
		{name: "error without description", status: codes.Error, wantErr: "probe failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			renderer := mocks.NewMockRenderer(ctrl)
			bridge := telemetry.NewBridge(renderer)

			tp := sdktrace.NewTracerProvider()
			_, span := tp.Tracer("test").Start(context.Background(), "rand 0.8.5")
			span.SetStatus(tt.status, tt.desc)
			span.End()

			renderer.EXPECT().OnProbeComplete(span.SpanContext().SpanID().String(), gomock.Any(), gomock.Any()).
				Do(func(_ string, _ time.Time, err error) {
					if tt.wantErr == "" {
						assert.NoError(t, err)
						return
					}
					assert.EqualError(t, err, tt.wantErr)
				})

			if ro, ok := span.(sdktrace.ReadOnlySpan); ok {
				bridge.OnEnd(ro)
			}
		})
	}
}

func TestBridge_FlushAndShutdown(t *testing.T) {
	bridge := telemetry.NewBridge(nil)
	assert.NoError(t, bridge.ForceFlush(context.Background()))
	assert.NoError(t, bridge.Shutdown(context.Background()))
}
