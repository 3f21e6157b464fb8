package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewSlogAdapter(t *testing.T) {
	t.Run("nil logger falls back to default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		if adapter == nil {
			t.Fatal("NewSlogAdapter returned nil")
		}
		if adapter.logger == nil {
			t.Error("adapter.logger should not be nil when created with nil")
		}
	})

	t.Run("provided logger is kept", func(t *testing.T) {
		logger := slog.Default()
		adapter := NewSlogAdapter(logger)
		if adapter.Logger() != logger {
			t.Error("Logger() should return the provided logger")
		}
	})
}

func TestSlogAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	adapter.Debug("debug message", "key", "value")
	adapter.Info("info message", "key", "value")
	adapter.Warn("warn message", "key", "value")
	adapter.Error("error message", "key", "value")

	out := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message", "key=value"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDefaultLogger(t *testing.T) {
	adapter := DefaultLogger()
	if adapter == nil {
		t.Fatal("DefaultLogger returned nil")
	}
	if adapter.logger == nil {
		t.Error("DefaultLogger().logger should not be nil")
	}
}

func TestLoggerInterface(t *testing.T) {
	// Verify SlogAdapter implements Logger interface
	var _ Logger = (*SlogAdapter)(nil)
}
