package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewSlogAdapter_WithNil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter.logger == nil {
		t.Error("adapter.logger should not be nil when created with nil")
	}
}

func TestSlogAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Debug("d", "k", 1)
	adapter.Info("i", "k", 2)
	adapter.Warn("w", "k", 3)
	adapter.Error("e", "k", 4)

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "level=INFO", "level=WARN", "level=ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestSlogAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil))).With(KeyComponent, "webapp")

	adapter.Info("posted")
	if !strings.Contains(buf.String(), "component=webapp") {
		t.Errorf("expected component attribute, got %q", buf.String())
	}
}

func TestDefaultLogger(t *testing.T) {
	if DefaultLogger().Logger() != slog.Default() {
		t.Error("DefaultLogger should wrap slog.Default()")
	}
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)
}
