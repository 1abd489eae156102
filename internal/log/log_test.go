package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Fatalf("RequestID(empty ctx) = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "abc123")
	if got := RequestID(ctx); got != "abc123" {
		t.Fatalf("RequestID = %q, want abc123", got)
	}
}

func TestRequestIDHandlerStampsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&requestIDHandler{
		Handler: slog.NewTextHandler(&buf, nil),
	})

	ctx := WithRequestID(context.Background(), "req-42")
	logger.InfoContext(ctx, "hello")

	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Fatalf("log line missing request_id: %s", buf.String())
	}

	buf.Reset()
	logger.InfoContext(context.Background(), "no id")
	if strings.Contains(buf.String(), "request_id") {
		t.Fatalf("log line should not carry request_id: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
