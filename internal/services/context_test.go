package services_test

import (
	"context"
	"testing"

	"ttabscan/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithCaseID(ctx, "91234567")
	ctx = services.WithSerial(ctx, "88111222")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if id, ok := services.CaseIDFromContext(ctx); !ok || id != "91234567" {
		t.Fatalf("unexpected case id: %v %v", id, ok)
	}
	if sn, ok := services.SerialFromContext(ctx); !ok || sn != "88111222" {
		t.Fatalf("unexpected serial: %v %v", sn, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithCaseID(ctx, "")
	if _, ok := services.CaseIDFromContext(ctx); ok {
		t.Fatal("expected no case id value")
	}
}
