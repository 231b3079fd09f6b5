package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"assetgen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted at a unique temp directory per test with
// every path resolved beneath it. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	p := &cfgVal.Paths
	p.Root = base
	for _, field := range []*string{
		&p.ImageManifest, &p.ImageSourceDir, &p.ImageOutputDir,
		&p.SoundManifest, &p.SoundSourceDir, &p.SoundOutputDir,
		&p.FontManifest, &p.FontSourceDir, &p.FontOutputDir,
		&p.LockFile,
	} {
		*field = filepath.Join(base, *field)
	}
	cfgVal.Tools.Rasterizer = config.RasterizerBuiltin

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStrictSound switches the sound pipeline to strict-match mode.
func WithStrictSound() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sound.Mode = config.SoundModeStrict
	}
}

// WithDuplicatePolicy overrides the manifest collision policy.
func WithDuplicatePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Manifest.DuplicatePolicy = policy
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// replaces PATH with the stub directory. If names is empty, ffmpeg, ffprobe
// and lv_font_conv are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "lv_font_conv"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}
