package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestStartToolSpan(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartToolSpan(context.Background(), "google_calendar_create_event")
	if GetTraceID(ctx) == "" || GetSpanID(ctx) == "" {
		t.Error("expected valid trace and span IDs")
	}
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "tool.google_calendar_create_event" {
		t.Errorf("unexpected span name %q", ended[0].Name())
	}
}

func TestStartWebAppSpan_Error(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartWebAppSpan(context.Background(), "primary")
	SetSpanError(span, errors.New("connection refused"))
	SetSpanError(span, nil)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if got := ended[0].Status().Description; got != "connection refused" {
		t.Errorf("status description = %q", got)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if GetTraceID(context.Background()) != "" {
		t.Error("expected empty trace ID")
	}
	if GetSpanID(context.Background()) != "" {
		t.Error("expected empty span ID")
	}
}
