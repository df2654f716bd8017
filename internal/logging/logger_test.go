package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"ttabscan/internal/services"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		" ERROR ": slog.LevelError,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestPrettyHandlerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	logger = NewComponentLogger(logger, "classifier")
	logger.Info("classified mark", String(FieldSerial, "88111222"))

	out := buf.String()
	if !strings.Contains(out, "classifier: classified mark") {
		t.Fatalf("expected component prefix in output, got %q", out)
	}
	if !strings.Contains(out, "serial=88111222") {
		t.Fatalf("expected serial attribute in output, got %q", out)
	}
	if strings.Contains(out, "component=") {
		t.Fatalf("component should be promoted out of the attribute list, got %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextStampsIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar, false))

	ctx := services.WithRunID(context.Background(), "run-7")
	ctx = services.WithCaseID(ctx, "91234567")

	WithContext(ctx, logger).Info("case started")

	out := buf.String()
	if !strings.Contains(out, "run_id=run-7") || !strings.Contains(out, "case_id=91234567") {
		t.Fatalf("expected context fields in output, got %q", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", Error(nil))
}
