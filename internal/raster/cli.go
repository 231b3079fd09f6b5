package raster

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"assetgen/internal/deps"
)

// Flavor names a supported command-line renderer.
type Flavor string

const (
	FlavorResvg       Flavor = "resvg"
	FlavorRsvgConvert Flavor = "rsvg-convert"
)

// CLI renders through an external command into a temporary PNG.
type CLI struct {
	Flavor     Flavor
	Invocation deps.Invocation
}

func (c *CLI) Name() string {
	return string(c.Flavor)
}

// Rasterize runs the renderer and decodes its PNG output. The image is
// returned at whatever size the tool wrote; callers fit it.
func (c *CLI) Rasterize(ctx context.Context, source string, size int) (image.Image, error) {
	dir, err := os.MkdirTemp("", "assetgen-raster-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "out.png")
	cmd := exec.CommandContext(ctx, c.Invocation.Command, c.Invocation.With(c.args(source, out, size)...)...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", c.Flavor, err, strings.TrimSpace(string(output)))
	}

	file, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("%s produced no output: %w", c.Flavor, err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s output: %w", c.Flavor, err)
	}
	return img, nil
}

func (c *CLI) args(source, out string, size int) []string {
	n := strconv.Itoa(size)
	switch c.Flavor {
	case FlavorRsvgConvert:
		return []string{"-w", n, "-h", n, "-f", "png", "-o", out, source}
	default:
		return []string{"-w", n, "-h", n, source, out}
	}
}
