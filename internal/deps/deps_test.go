package deps

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"assetgen/internal/services"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestResolveFontConverterPrefersDirectBinary(t *testing.T) {
	binDir := t.TempDir()
	direct := writeStub(t, binDir, "lv_font_conv")
	writeStub(t, binDir, "npx")
	t.Setenv("PATH", binDir)

	inv, err := ResolveFontConverter("lv_font_conv", "npx")
	if err != nil {
		t.Fatalf("ResolveFontConverter returned error: %v", err)
	}
	if inv.Command != direct {
		t.Fatalf("expected %q, got %q", direct, inv.Command)
	}
	if len(inv.Args) != 0 {
		t.Fatalf("expected no leading args, got %v", inv.Args)
	}
}

func TestResolveFontConverterFallsBackToNpx(t *testing.T) {
	binDir := t.TempDir()
	npx := writeStub(t, binDir, "npx")
	t.Setenv("PATH", binDir)

	inv, err := ResolveFontConverter("lv_font_conv", "npx")
	if err != nil {
		t.Fatalf("ResolveFontConverter returned error: %v", err)
	}
	if inv.Command != npx {
		t.Fatalf("expected npx at %q, got %q", npx, inv.Command)
	}
	want := []string{"--yes", "lv_font_conv", "--size", "16"}
	if got := inv.With("--size", "16"); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args %v", got)
	}
}

func TestResolveReportsToolNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := ResolveFontConverter("lv_font_conv", "npx")
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if !services.IsBatchFatal(err) {
		t.Fatalf("tool not found should be batch fatal")
	}
}
