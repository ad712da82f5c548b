package observes

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLayerString(t *testing.T) {
	tests := map[Layer]string{
		LayerUnknown: "Unknown",
		LayerHandler: "Handler",
		LayerService: "Service",
		LayerRepo:    "Repository",
	}
	for layer, want := range tests {
		if got := layer.String(); got != want {
			t.Errorf("Layer(%d).String() = %q, want %q", layer, got, want)
		}
	}
}

func TestSpansWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), LayerService, "TaskService.Get")
	if ctx == nil || span == nil {
		t.Fatal("StartSpan returned nil")
	}
	EndSpan(span, errors.New("boom"))

	_, span = StartSpan(ctx, LayerRepo, "taskRepository.Get")
	EndSpan(span, nil)
}

func TestSentryDisabled(t *testing.T) {
	if err := NewSentry(nil); err != nil {
		t.Fatalf("NewSentry(nil) error = %v", err)
	}
	if err := NewSentry(&SentryOptions{}); err != nil {
		t.Fatalf("NewSentry(empty) error = %v", err)
	}
	CaptureError(context.Background(), errors.New("ignored"))
	FlushSentry(10 * time.Millisecond)
}

func TestNewTracerNilConfig(t *testing.T) {
	if _, err := NewTracer(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
