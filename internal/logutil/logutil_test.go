package logutil

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// Helper function to create a logger that writes to a buffer for testing
func createTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("Expected a logger for nil input")
	}

	var buf bytes.Buffer
	logger := createTestLogger(&buf)
	if OrDiscard(logger) != logger {
		t.Error("Expected the provided logger to be returned unchanged")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewTimingLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := createTestLogger(&buf)

	start := time.Now()
	time.Sleep(5 * time.Millisecond)

	done := NewTimingLogger(logger, start, "kv query", "method", "get")
	done()

	output := buf.String()
	if !strings.Contains(output, "kv query") {
		t.Errorf("Expected log to contain 'kv query', got: %s", output)
	}
	if !strings.Contains(output, "duration") {
		t.Errorf("Expected log to contain 'duration', got: %s", output)
	}
	if !strings.Contains(output, "method=get") {
		t.Errorf("Expected log to contain 'method=get', got: %s", output)
	}
	if !strings.Contains(output, "level=DEBUG") {
		t.Errorf("Expected log to be DEBUG level, got: %s", output)
	}
}

func TestLogAndWrapErr_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := createTestLogger(&buf)

	originalErr := errors.New("disk gone")
	wrappedErr := LogAndWrapErr(logger, "failed to persist token", originalErr, "key", "token")

	if wrappedErr == nil {
		t.Fatal("Expected wrapped error, got nil")
	}
	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Expected wrapped error to be identifiable with errors.Is")
	}
	if !strings.HasPrefix(wrappedErr.Error(), "failed to persist token: ") {
		t.Errorf("Unexpected wrapped message: %s", wrappedErr.Error())
	}

	output := buf.String()
	if !strings.Contains(output, "level=ERROR") {
		t.Errorf("Expected ERROR level, got: %s", output)
	}
	if !strings.Contains(output, "key=token") {
		t.Errorf("Expected field key=token, got: %s", output)
	}
	if !strings.Contains(output, "disk gone") {
		t.Errorf("Expected original error in log, got: %s", output)
	}
}

func TestLogAndWrapErr_WithNilError(t *testing.T) {
	var buf bytes.Buffer
	logger := createTestLogger(&buf)

	if err := LogAndWrapErr(logger, "nothing", nil); err != nil {
		t.Errorf("Expected nil error, got: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no log output, got: %s", buf.String())
	}
}

func TestDebugAndWrapErr_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := createTestLogger(&buf)

	originalErr := errors.New("unauthorized")
	wrappedErr := DebugAndWrapErr(logger, "identity check failed", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Expected wrapped error to be identifiable with errors.Is")
	}
	if !strings.Contains(buf.String(), "level=DEBUG") {
		t.Errorf("Expected DEBUG level, got: %s", buf.String())
	}
}

func TestDebugAndWrapErr_WithNilError(t *testing.T) {
	var buf bytes.Buffer
	logger := createTestLogger(&buf)

	if err := DebugAndWrapErr(logger, "nothing", nil); err != nil {
		t.Errorf("Expected nil error, got: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no log output, got: %s", buf.String())
	}
}
