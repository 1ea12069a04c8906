package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestFromContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug")

	ctx := WithRequestID(context.Background(), "req-1")
	FromContext(ctx, l).Debug("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["request_id"] != "req-1" {
		t.Fatalf("expected request_id req-1, got %v", line["request_id"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
}
