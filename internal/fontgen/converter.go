package fontgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"assetgen/internal/deps"
	"assetgen/internal/fileutil"
	"assetgen/internal/logging"
	"assetgen/internal/manifest"
	"assetgen/internal/services"
)

const kind = string(manifest.KindFont)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the converter.
type Option func(*Converter)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Converter) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Converter runs font jobs through a resolved lv_font_conv invocation.
type Converter struct {
	invocation deps.Invocation
	exec       Executor
	logger     *slog.Logger
}

// NewConverter constructs a font converter.
func NewConverter(invocation deps.Invocation, logger *slog.Logger, opts ...Option) *Converter {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Converter{
		invocation: invocation,
		exec:       commandExecutor{},
		logger:     logging.NewComponentLogger(logger, "fontgen"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Args returns the converter arguments for job writing to output.
func Args(job manifest.FontJob, output string) []string {
	return []string{
		"--font", job.Source,
		"--size", strconv.Itoa(job.Size),
		"--bpp", "4",
		"--format", "lvgl",
		"--lv-include", "lvgl.h",
		"--lv-font-name", job.Name,
		"--no-prefilter",
		"--no-compress",
		"--symbols", job.Symbols,
		"--output", output,
	}
}

// Convert runs the converter into a scratch file and installs the result.
func (c *Converter) Convert(ctx context.Context, job manifest.FontJob) (manifest.Artifact, error) {
	start := time.Now()
	if _, err := os.Stat(job.Source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return manifest.Artifact{}, services.Wrap(services.ErrMissingSource, kind, job.Name, "source not found: "+job.Source, nil)
		}
		return manifest.Artifact{}, services.Wrap(services.ErrMissingSource, kind, job.Name, "stat source", err)
	}

	dir, err := os.MkdirTemp("", "assetgen-font-")
	if err != nil {
		return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Name, "create temp dir", err)
	}
	defer os.RemoveAll(dir)
	scratch := filepath.Join(dir, filepath.Base(job.Output))

	if output, err := c.exec.Run(ctx, c.invocation.Command, c.invocation.With(Args(job, scratch)...)); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Name, "lv_font_conv", err)
	}

	data, err := os.ReadFile(scratch)
	if err != nil {
		return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Name, "lv_font_conv produced no output", err)
	}
	changed, err := fileutil.WriteFile(job.Output, data)
	if err != nil {
		return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Name, "write output", err)
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "font_converted"),
		logging.String("source", job.Source),
		logging.Int("size", job.Size),
		logging.String("output", job.Output),
		logging.String("converter", c.invocation.String()),
		logging.Bool("changed", changed),
		logging.Duration("elapsed", time.Since(start)),
	}
	if job.Usage != "" {
		attrs = append(attrs, logging.String("usage", job.Usage))
	}
	logging.WithContext(ctx, c.logger).Info("font converted", logging.Args(attrs...)...)

	return manifest.Artifact{
		Kind:    manifest.KindFont,
		Path:    job.Output,
		Symbol:  job.Name,
		Bytes:   len(data),
		Changed: changed,
	}, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}
