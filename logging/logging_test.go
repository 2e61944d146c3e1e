package logging

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestDefaultLoggerRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewLogger(&stdout, &stderr, DebugLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error(errors.New("boom"), "error message")

	out := stdout.String()
	if !strings.Contains(out, "[DEBUG] debug message") || !strings.Contains(out, "[INFO] info message") {
		t.Fatalf("stdout missing debug/info lines: %q", out)
	}
	if strings.Contains(out, "warn message") {
		t.Fatalf("warn should not reach stdout: %q", out)
	}

	errOut := stderr.String()
	if !strings.Contains(errOut, "[WARN] warn message") {
		t.Fatalf("stderr missing warn line: %q", errOut)
	}
	if !strings.Contains(errOut, "[ERROR] error message: boom") {
		t.Fatalf("stderr missing error line: %q", errOut)
	}
}

func TestDefaultLoggerLevelFilter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewLogger(&stdout, &stderr, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	if stdout.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", stdout.String())
	}

	logger.SetLevel(DebugLevel)
	logger.Debug("visible")
	if !strings.Contains(stdout.String(), "visible") {
		t.Fatalf("expected debug output after SetLevel, got %q", stdout.String())
	}
}

func TestWithFieldsIsSortedAndInherited(t *testing.T) {
	var stdout bytes.Buffer
	base := NewLogger(&stdout, &bytes.Buffer{}, InfoLevel)

	child := base.WithFields(Fields{"component": "equalizer", "bins": 8})
	child.Info("done", Fields{"alpha": 1})

	line := stdout.String()
	want := "[INFO] done alpha=1 bins=8 component=equalizer"
	if !strings.Contains(line, want) {
		t.Fatalf("got %q want substring %q", line, want)
	}

	stdout.Reset()
	base.Info("plain")
	if strings.Contains(stdout.String(), "component") {
		t.Fatalf("parent logger picked up child fields: %q", stdout.String())
	}
}

func TestWithContext(t *testing.T) {
	var stdout bytes.Buffer
	logger := NewLogger(&stdout, &bytes.Buffer{}, InfoLevel)

	ctx := ContextWithFields(context.Background(), Fields{"request": "abc"})
	logger.WithContext(ctx).Info("hello")

	if !strings.Contains(stdout.String(), "request=abc") {
		t.Fatalf("context fields missing: %q", stdout.String())
	}

	if got := logger.WithContext(context.Background()); got != Logger(logger) {
		t.Fatalf("expected same logger when context has no fields")
	}
}

func TestFatalCallsExit(t *testing.T) {
	var stderr bytes.Buffer
	logger := NewLogger(&bytes.Buffer{}, &stderr, InfoLevel)

	code := -1
	logger.exit = func(c int) { code = c }
	logger.Fatal(errors.New("bad"), "giving up")

	if code != 1 {
		t.Fatalf("exit code=%d want=1", code)
	}
	if !strings.Contains(stderr.String(), "[FATAL] giving up: bad") {
		t.Fatalf("stderr=%q", stderr.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"loud", InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestSetGlobalLoggerNil(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	SetGlobalLogger(nil)
	if _, ok := GetGlobalLogger().(*NoOpLogger); !ok {
		t.Fatalf("nil global logger should become NoOpLogger, got %T", GetGlobalLogger())
	}
}

func TestEnableDisableColors(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	var stdout, stderr bytes.Buffer
	SetGlobalLogger(NewLogger(&stdout, &stderr, InfoLevel))

	EnableColors()
	Warn("colored")
	if !strings.Contains(stderr.String(), ColorYellow+"[WARN] colored") {
		t.Fatalf("expected yellow warn line, got %q", stderr.String())
	}

	stderr.Reset()
	DisableColors()
	Error(errors.New("boom"), "plain")
	if strings.Contains(stderr.String(), "\033[") {
		t.Fatalf("expected no escape codes, got %q", stderr.String())
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatalf("a buffer is not a terminal")
	}

	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Fatalf("a regular file is not a terminal")
	}
}
