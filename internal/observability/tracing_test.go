package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"

	"example.com/ai-business-plan/backend/internal/config"
)

// TestSetupTracingDisabled проверяет, что выключенная трассировка не трогает глобальный провайдер.
func TestSetupTracingDisabled(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())

	shutdown, err := SetupTracing(config.TracingConfig{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
	if _, ok := otel.GetTracerProvider().(noop.TracerProvider); !ok {
		t.Fatalf("unexpected provider %T", otel.GetTracerProvider())
	}
}

// TestTracerProviderExportsSpans проверяет, что спаны выгружаются при остановке провайдера.
func TestTracerProviderExportsSpans(t *testing.T) {
	var out bytes.Buffer
	provider, err := NewTracerProvider(config.TracingConfig{Enabled: true, ServiceName: "planner-test", SampleRatio: 1}, &out)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, span := provider.Tracer("test").Start(context.Background(), "Pipeline.generation")
	span.End()

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
	if !strings.Contains(out.String(), "Pipeline.generation") || !strings.Contains(out.String(), "planner-test") {
		t.Fatalf("span not exported: %s", out.String())
	}
}
