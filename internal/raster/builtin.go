package raster

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Builtin renders SVG in-process. It covers paths, basic shapes, and
// gradients; filters and text are ignored.
type Builtin struct{}

func (Builtin) Name() string {
	return "builtin"
}

// Rasterize parses source and draws its view box onto a size x size canvas.
func (Builtin) Rasterize(ctx context.Context, source string, size int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	icon, err := oksvg.ReadIconStream(file, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return img, nil
}
