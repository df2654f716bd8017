package services_test

import (
	"errors"
	"strings"
	"testing"

	"ttabscan/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "classify", "ocr", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"classify", "ocr", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "docket", "fetch", "", errors.New("io"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		terminal bool
	}{
		{"nil", nil, false},
		{"fatal", services.Wrap(services.ErrFatal, "tsdr", "classes", "http 404", nil), true},
		{"validation", services.Wrap(services.ErrValidation, "docket", "parse", "bad page", nil), true},
		{"transient", services.Wrap(services.ErrTransient, "tsdr", "classes", "http 503", nil), false},
		{"timeout", services.Wrap(services.ErrTimeout, "ttab", "case page", "deadline", nil), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsTerminal(tc.err); got != tc.terminal {
				t.Fatalf("IsTerminal(%v) = %v, want %v", tc.err, got, tc.terminal)
			}
		})
	}
}
