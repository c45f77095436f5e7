package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/transflow/config"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("signup")

	if cfg.ServiceName != "signup" {
		t.Errorf("expected ServiceName 'signup', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestTracerConfigFrom(t *testing.T) {
	svc := &config.ServiceConfig{Name: "signup", Environment: "production", Version: "2.1.0"}
	svc.ApplyDefaults()
	svc.Observability.Endpoint = "collector:4318"
	svc.Observability.SampleRate = 0.25

	cfg := TracerConfigFrom(svc)
	if cfg.ServiceName != "signup" || cfg.ServiceVersion != "2.1.0" {
		t.Errorf("unexpected service identity %s/%s", cfg.ServiceName, cfg.ServiceVersion)
	}
	if cfg.Endpoint != "collector:4318" {
		t.Errorf("expected collector endpoint, got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 0.25 {
		t.Errorf("expected sample rate 0.25, got %f", cfg.SampleRate)
	}
	if cfg.Insecure {
		t.Error("expected secure exporter in production")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("signup")

	if cfg.ServiceName != "signup" {
		t.Errorf("expected ServiceName 'signup', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordStep(ctx, "signup", "validate", StatusOK, 5*time.Millisecond)
	metrics.RecordPipeline(ctx, "signup", StatusError, 10*time.Millisecond)
	metrics.RecordError(ctx, "StepError", "validate")
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string, match attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is %T, not an int64 sum", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(match.Key); ok && v == match.Value {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestMetrics_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	metrics.RecordStep(ctx, "signup", "preprocess", StatusOK, time.Millisecond)
	metrics.RecordStep(ctx, "signup", "validate", StatusError, time.Millisecond)
	metrics.RecordError(ctx, "StepError", "validate")
	metrics.RecordPipeline(ctx, "signup", StatusError, 2*time.Millisecond)

	if got := counterValue(t, reader, "step.total", attribute.String("pipeline", "signup")); got != 2 {
		t.Errorf("expected 2 step invocations, got %d", got)
	}
	if got := counterValue(t, reader, "step.errors", attribute.String("step", "validate")); got != 1 {
		t.Errorf("expected 1 step error, got %d", got)
	}
	if got := counterValue(t, reader, "pipeline.total", attribute.String("status", StatusError)); got != 1 {
		t.Errorf("expected 1 failed pipeline call, got %d", got)
	}
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test-operation")
	defer span.End()

	if span == nil {
		t.Fatal("expected non-nil span")
	}
	if SpanFromContext(ctx) == nil {
		t.Fatal("expected span in context")
	}
}

func withRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestSetSpanAttribute(t *testing.T) {
	exporter := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "test-attrs")
	SetSpanAttribute(ctx, AttrPipeline, "signup")
	SetSpanAttribute(ctx, AttrStepIndex, 2)
	SetSpanAttribute(ctx, "int64-key", int64(100))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, AttrSteps, []string{"a", "b"})
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrPipeline].AsString() != "signup" {
		t.Errorf("expected pipeline attribute, got %v", attrs[AttrPipeline])
	}
	if attrs[AttrStepIndex].AsInt64() != 2 {
		t.Errorf("expected step index 2, got %v", attrs[AttrStepIndex])
	}
	if _, ok := attrs["unsupported-key"]; ok {
		t.Error("unsupported value types should be ignored")
	}
}

func TestSetSpanAttributeNoSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "key", "value")
}

func TestSetSpanError(t *testing.T) {
	exporter := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "test-error")
	SetSpanError(ctx, fmt.Errorf("test error"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected an exception event on the span")
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	SetSpanError(context.Background(), fmt.Errorf("no span error"))
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := samplerFor(tc.rate).Description(); got != tc.want {
				t.Errorf("samplerFor(%v) = %s, want %s", tc.rate, got, tc.want)
			}
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("signup", "1.0.0", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := res.Set().Value("service.name")
	if !ok || v.AsString() != "signup" {
		t.Errorf("expected service.name=signup, got %v", v)
	}
}

func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	tp, err := InitTracer(context.Background(), DefaultTracerConfig("signup"))
	if err != nil {
		t.Fatalf("InitTracer failed: %v", err)
	}
	shutdownQuickly(tp.Shutdown)
}

func TestInitMeter(t *testing.T) {
	prev := otel.GetMeterProvider()
	defer otel.SetMeterProvider(prev)

	cfg := DefaultMeterConfig("signup")
	cfg.Interval = 0
	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitMeter failed: %v", err)
	}
	shutdownQuickly(mp.Shutdown)
}

// shutdownQuickly bounds the final flush to an endpoint that is not running.
func shutdownQuickly(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = shutdown(ctx)
}
