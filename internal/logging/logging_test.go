package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func capture(t *testing.T, devMode bool) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(NewHandler(&buf, devMode)))
	return &buf
}

func TestHandlerDevMode(t *testing.T) {
	buf := capture(t, true)

	slog.Debug("test debug")
	slog.Info("test info")

	output := buf.String()
	if !strings.Contains(output, "test debug") {
		t.Error("expected debug message visible in dev mode")
	}
	if !strings.Contains(output, "test info") {
		t.Error("expected info message visible in dev mode")
	}
}

func TestHandlerProdMode(t *testing.T) {
	buf := capture(t, false)

	slog.Debug("hidden")
	slog.Info("prod test")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("expected debug message suppressed in prod mode")
	}
	if !strings.Contains(output, `"msg":"prod test"`) {
		t.Errorf("expected JSON output, got %q", output)
	}
}

func TestSetup(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	Setup(false)
	// Verify logger works, just ensure no panic
	slog.Info("setup test")
}

func TestCommandLogsSuccess(t *testing.T) {
	buf := capture(t, true)

	if err := Command("realty visit add", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "realty visit add") {
		t.Error("expected command path in log")
	}
}

func TestCommandLogsFailure(t *testing.T) {
	buf := capture(t, true)

	want := errors.New("boom")
	err := Command("realty user add", func() error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected error passed through, got %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "level=WARN") {
		t.Error("expected warn level for failed command")
	}
	if !strings.Contains(output, "boom") {
		t.Error("expected error in log")
	}
}

func TestCommandSkipsQuiet(t *testing.T) {
	buf := capture(t, true)

	ran := false
	if err := Command("realty version", func() error { ran = true; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ran {
		t.Error("expected command to run")
	}
	if buf.Len() > 0 {
		t.Error("expected no log for quiet command")
	}
}
