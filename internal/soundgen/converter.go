package soundgen

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"assetgen/internal/audio"
	"assetgen/internal/fileutil"
	"assetgen/internal/logging"
	"assetgen/internal/manifest"
	"assetgen/internal/services"
)

const kind = string(manifest.KindSound)

// Decoder turns an audio file into PCM at its native format.
type Decoder interface {
	Decode(ctx context.Context, path string) (audio.Buffer, error)
}

// Options configures a Converter.
type Options struct {
	// Root anchors the source path shown in generated headers.
	Root string
	// Strict fails jobs whose decoded format differs from the target.
	Strict bool
}

// Converter runs sound jobs.
type Converter struct {
	decoder Decoder
	opts    Options
	logger  *slog.Logger
}

// NewConverter constructs a sound converter.
func NewConverter(decoder Decoder, opts Options, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Converter{
		decoder: decoder,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "soundgen"),
	}
}

// Convert decodes, gain-stages, reformats, and writes one job.
func (c *Converter) Convert(ctx context.Context, job manifest.SoundJob) (manifest.Artifact, error) {
	start := time.Now()
	logger := logging.WithContext(ctx, c.logger)

	if _, err := os.Stat(job.Source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return manifest.Artifact{}, services.Wrap(services.ErrMissingSource, kind, job.Symbol, "source not found: "+job.Source, nil)
		}
		return manifest.Artifact{}, services.Wrap(services.ErrMissingSource, kind, job.Symbol, "stat source", err)
	}

	target := audio.Format{SampleRate: job.SampleRate, Channels: job.Channels, BitsPerSample: job.BitsPerSample}
	pcm, err := c.decoder.Decode(ctx, job.Source)
	if err != nil {
		return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Symbol, "decode", err)
	}
	logger.Debug("sound decoded",
		logging.String("source", job.Source),
		logging.String("format", pcm.Format.String()),
		logging.Int("frames", pcm.Frames()),
	)

	if c.opts.Strict {
		if diffs := pcm.Format.Differences(target); len(diffs) > 0 {
			return manifest.Artifact{}, services.Wrap(services.ErrFormatMismatch, kind, job.Symbol, "strict mode: "+strings.Join(diffs, ", "), nil)
		}
	}

	pcm = c.applyGain(logger, job, pcm)

	if !c.opts.Strict {
		pcm, err = audio.Reformat(pcm, target)
		if err != nil {
			return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Symbol, "reformat", err)
		}
	}

	text := Render(job, SourceLabel(c.opts.Root, job.Source), pcm)
	changed, err := fileutil.WriteFile(job.Output, []byte(text))
	if err != nil {
		return manifest.Artifact{}, services.Wrap(services.ErrExternalTool, kind, job.Symbol, "write output", err)
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "sound_converted"),
		logging.String("source", job.Source),
		logging.String("output", job.Output),
		logging.String("format", pcm.Format.String()),
		logging.Int("bytes", len(pcm.Data)),
		logging.Bool("changed", changed),
		logging.Duration("elapsed", time.Since(start)),
	}
	if job.Usage != "" {
		attrs = append(attrs, logging.String("usage", job.Usage))
	}
	logger.Info("sound converted", logging.Args(attrs...)...)

	return manifest.Artifact{
		Kind:    manifest.KindSound,
		Path:    job.Output,
		Symbol:  job.Symbol,
		Bytes:   len(pcm.Data),
		Changed: changed,
	}, nil
}

func (c *Converter) applyGain(logger *slog.Logger, job manifest.SoundJob, pcm audio.Buffer) audio.Buffer {
	var adj audio.Adjustment
	switch job.GainMode() {
	case manifest.GainLoudness:
		pcm, adj = audio.MatchLoudness(pcm, *job.TargetDBFS)
	case manifest.GainPeak:
		pcm, adj = audio.NormalizePeak(pcm, job.HeadroomDB)
	default:
		return pcm
	}
	if adj.Skipped {
		logger.Warn("gain skipped",
			logging.String(logging.FieldEventType, "gain_skipped"),
			logging.String("mode", adj.Mode),
			logging.String("source", job.Source),
			logging.String("reason", "silent input"),
		)
		return pcm
	}
	logger.Info(adj.String(),
		logging.String(logging.FieldEventType, "gain_applied"),
		logging.String("mode", adj.Mode),
		logging.Float64("gain_db", adj.GainDB),
	)
	return pcm
}
