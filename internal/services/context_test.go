package services_test

import (
	"context"
	"testing"

	"assetgen/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithKind(ctx, "sound")
	ctx = services.WithJob(ctx, "boot_chime")
	ctx = services.WithRunID(ctx, "run-123")

	if kind, ok := services.KindFromContext(ctx); !ok || kind != "sound" {
		t.Fatalf("unexpected kind: %v %v", kind, ok)
	}
	if job, ok := services.JobFromContext(ctx); !ok || job != "boot_chime" {
		t.Fatalf("unexpected job: %v %v", job, ok)
	}
	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	if got := services.WithJob(ctx, ""); got != ctx {
		t.Fatal("expected blank job to return the original context")
	}
	if _, ok := services.KindFromContext(services.WithKind(ctx, "")); ok {
		t.Fatal("expected blank kind to be ignored")
	}
}
