package raster

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"assetgen/internal/config"
	"assetgen/internal/deps"
)

// Rasterizer renders an SVG file at size x size pixels. External tools may
// return other bounds; see Fit.
type Rasterizer interface {
	Name() string
	Rasterize(ctx context.Context, source string, size int) (image.Image, error)
}

// Select returns the rasterizer configured by tools. An empty setting means
// the builtin renderer. An explicitly requested external renderer that cannot
// be found is a tool-not-found error; "auto" falls back to the builtin renderer.
func Select(tools config.Tools) (Rasterizer, error) {
	switch tools.Rasterizer {
	case config.RasterizerResvg:
		return newCLI(FlavorResvg, tools.Resvg)
	case config.RasterizerRsvgConvert:
		return newCLI(FlavorRsvgConvert, tools.RsvgConvert)
	case config.RasterizerAuto:
		if r, err := newCLI(FlavorResvg, tools.Resvg); err == nil {
			return r, nil
		}
		if r, err := newCLI(FlavorRsvgConvert, tools.RsvgConvert); err == nil {
			return r, nil
		}
		return Builtin{}, nil
	default:
		return Builtin{}, nil
	}
}

func newCLI(flavor Flavor, command string) (*CLI, error) {
	inv, err := deps.ResolveBinary(string(flavor), command)
	if err != nil {
		return nil, err
	}
	return &CLI{Flavor: flavor, Invocation: inv}, nil
}

// Fit returns img scaled to fit within size x size, preserving aspect ratio,
// and centered on a transparent square canvas. Images already at the
// requested size are returned unchanged.
func Fit(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == size && bounds.Dy() == size {
		return img
	}
	w, h := size, size
	if bounds.Dx() > 0 && bounds.Dy() > 0 {
		if bounds.Dx() >= bounds.Dy() {
			h = max(1, bounds.Dy()*size/bounds.Dx())
		} else {
			w = max(1, bounds.Dx()*size/bounds.Dy())
		}
	}
	scaled := imaging.Resize(img, w, h, imaging.Lanczos)
	canvas := imaging.New(size, size, color.NRGBA{})
	return imaging.PasteCenter(canvas, scaled)
}
