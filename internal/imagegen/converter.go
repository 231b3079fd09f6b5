package imagegen

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"assetgen/internal/fileutil"
	"assetgen/internal/logging"
	"assetgen/internal/manifest"
	"assetgen/internal/raster"
	"assetgen/internal/services"
)

const kind = string(manifest.KindImage)

// Converter runs image jobs through a rasterizer.
type Converter struct {
	rasterizer raster.Rasterizer
	logger     *slog.Logger
}

// NewConverter constructs an image converter.
func NewConverter(rasterizer raster.Rasterizer, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Converter{
		rasterizer: rasterizer,
		logger:     logging.NewComponentLogger(logger, "imagegen"),
	}
}

// Convert renders one job and writes its C file.
func (c *Converter) Convert(ctx context.Context, job manifest.ImageJob) (manifest.Artifact, error) {
	start := time.Now()
	if _, err := os.Stat(job.Source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return manifest.Artifact{}, services.Wrap(services.ErrMissingSource, kind, job.Symbol, "source not found: "+job.Source, nil)
		}
		return manifest.Artifact{}, services.Wrap(services.ErrMissingSource, kind, job.Symbol, "stat source", err)
	}

	img, err := c.rasterizer.Rasterize(ctx, job.Source, job.Size)
	if err != nil {
		return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Symbol, "rasterize with "+c.rasterizer.Name(), err)
	}
	img = raster.Fit(img, job.Size)

	alpha := ExtractAlpha(img)
	text, err := Render(job, alpha)
	if err != nil {
		return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Symbol, "render", err)
	}
	changed, err := fileutil.WriteFile(job.Output, []byte(text))
	if err != nil {
		return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Symbol, "write output", err)
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "image_converted"),
		logging.String("source", job.Source),
		logging.Int("size", job.Size),
		logging.String("output", job.Output),
		logging.String("rasterizer", c.rasterizer.Name()),
		logging.Bool("changed", changed),
		logging.Duration("elapsed", time.Since(start)),
	}
	if job.Usage != "" {
		attrs = append(attrs, logging.String("usage", job.Usage))
	}
	logging.WithContext(ctx, c.logger).Info("image converted", logging.Args(attrs...)...)

	return manifest.Artifact{
		Kind:    manifest.KindImage,
		Path:    job.Output,
		Symbol:  job.Symbol,
		Bytes:   len(alpha),
		Changed: changed,
	}, nil
}
