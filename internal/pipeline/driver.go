package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"assetgen/internal/config"
	"assetgen/internal/deps"
	"assetgen/internal/fontgen"
	"assetgen/internal/imagegen"
	"assetgen/internal/logging"
	"assetgen/internal/manifest"
	"assetgen/internal/raster"
	"assetgen/internal/services"
	"assetgen/internal/services/ffmpeg"
	"assetgen/internal/soundgen"
)

// Option configures the driver.
type Option func(*Driver)

// WithRasterizer bypasses rasterizer discovery.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(d *Driver) { d.rasterizer = r }
}

// WithDecoder bypasses ffmpeg discovery.
func WithDecoder(dec soundgen.Decoder) Option {
	return func(d *Driver) { d.decoder = dec }
}

// WithFontExecutor injects the command executor used for font jobs.
func WithFontExecutor(exec fontgen.Executor) Option {
	return func(d *Driver) { d.fontExec = exec }
}

// WithStrict forces strict-match sound conversion regardless of config.
func WithStrict(strict bool) Option {
	return func(d *Driver) { d.strict = d.strict || strict }
}

// Driver plans and executes batches for one configuration.
type Driver struct {
	cfg        *config.Config
	logger     *slog.Logger
	rasterizer raster.Rasterizer
	decoder    soundgen.Decoder
	fontExec   fontgen.Executor
	strict     bool
}

// New constructs a driver.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Driver, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Driver{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		strict: cfg.StrictSound(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Job is one bound conversion.
type Job struct {
	Kind   manifest.Kind
	Index  int
	Name   string
	Source string
	Output string
	run    func(context.Context) (manifest.Artifact, error)
}

// Label identifies the job in messages, e.g. "image #2".
func (j Job) Label() string {
	return fmt.Sprintf("%s #%d", j.Kind, j.Index+1)
}

// Plan is a fully resolved batch.
type Plan struct {
	Manifests  []*manifest.Manifest
	Jobs       []Job
	Collisions []manifest.Collision
	// Tools records the resolved tool per kind for reporting.
	Tools map[manifest.Kind]string
}

// Plan loads the manifests for kinds (all kinds when empty) and binds every
// job. Manifest, configuration and tool discovery failures are returned
// before anything runs.
func (d *Driver) Plan(kinds []manifest.Kind) (*Plan, error) {
	explicit := len(kinds) > 0
	if !explicit {
		kinds = manifest.AllKinds
	}

	plan := &Plan{Tools: map[manifest.Kind]string{}}
	for _, kind := range ordered(kinds) {
		path := d.cfg.ManifestPath(string(kind))
		m, err := manifest.Load(path, kind, manifest.DefaultsFromConfig(d.cfg, kind))
		if err != nil {
			if errors.Is(err, manifest.ErrManifestMissing) && !explicit {
				d.logger.Info("manifest not found, skipping",
					logging.String(logging.FieldKind, string(kind)),
					logging.String("manifest", path),
				)
				continue
			}
			return nil, err
		}
		d.logger.Debug("manifest loaded",
			logging.String(logging.FieldKind, string(kind)),
			logging.String("manifest", path),
			logging.Int("jobs", m.Len()),
		)
		plan.Manifests = append(plan.Manifests, m)
	}

	plan.Collisions = manifest.FindCollisions(plan.Manifests...)
	if err := d.checkCollisions(plan.Collisions); err != nil {
		return nil, err
	}

	for _, m := range plan.Manifests {
		if m.Len() == 0 {
			continue
		}
		if err := d.bind(plan, m); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (d *Driver) checkCollisions(collisions []manifest.Collision) error {
	if len(collisions) == 0 {
		return nil
	}
	messages := make([]string, 0, len(collisions))
	for _, c := range collisions {
		messages = append(messages, c.String())
		d.logger.Warn("manifest collision",
			logging.String(logging.FieldEventType, "manifest_collision"),
			logging.String("field", c.Field),
			logging.String("value", c.Value),
			logging.Int("entries", len(c.Entries)),
		)
	}
	if d.cfg.Manifest.DuplicatePolicy == config.DuplicatePolicyError {
		return services.Wrap(services.ErrManifest, "", "", strings.Join(messages, "; "), nil)
	}
	return nil
}

// bind resolves the tools for m's kind once and attaches a strategy to each
// of its jobs.
func (d *Driver) bind(plan *Plan, m *manifest.Manifest) error {
	switch m.Kind {
	case manifest.KindImage:
		r := d.rasterizer
		if r == nil {
			var err error
			if r, err = raster.Select(d.cfg.Tools); err != nil {
				return err
			}
		}
		plan.Tools[m.Kind] = r.Name()
		conv := imagegen.NewConverter(r, d.logger)
		for i, job := range m.Images {
			plan.Jobs = append(plan.Jobs, Job{
				Kind: m.Kind, Index: i, Name: job.Symbol, Source: job.Source, Output: job.Output,
				run: func(ctx context.Context) (manifest.Artifact, error) { return conv.Convert(ctx, job) },
			})
		}
	case manifest.KindSound:
		dec := d.decoder
		if dec == nil {
			ffmpegInv, err := deps.ResolveBinary("ffmpeg", d.cfg.Tools.FFmpeg)
			if err != nil {
				return err
			}
			ffprobeInv, err := deps.ResolveBinary("ffprobe", d.cfg.Tools.FFprobe)
			if err != nil {
				return err
			}
			client, err := ffmpeg.New(ffmpegInv.Command, ffprobeInv.Command)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, string(m.Kind), "", "ffmpeg client", err)
			}
			dec = client
			plan.Tools[m.Kind] = ffmpegInv.Command
		} else {
			plan.Tools[m.Kind] = "injected"
		}
		conv := soundgen.NewConverter(dec, soundgen.Options{Root: d.cfg.Paths.Root, Strict: d.strict}, d.logger)
		for i, job := range m.Sounds {
			plan.Jobs = append(plan.Jobs, Job{
				Kind: m.Kind, Index: i, Name: job.Symbol, Source: job.Source, Output: job.Output,
				run: func(ctx context.Context) (manifest.Artifact, error) { return conv.Convert(ctx, job) },
			})
		}
	case manifest.KindFont:
		inv, err := deps.ResolveFontConverter(d.cfg.Tools.FontConv, d.cfg.Tools.Npx)
		if err != nil {
			return err
		}
		plan.Tools[m.Kind] = inv.String()
		conv := fontgen.NewConverter(inv, d.logger, fontgen.WithExecutor(d.fontExec))
		for i, job := range m.Fonts {
			plan.Jobs = append(plan.Jobs, Job{
				Kind: m.Kind, Index: i, Name: job.Name, Source: job.Source, Output: job.Output,
				run: func(ctx context.Context) (manifest.Artifact, error) { return conv.Convert(ctx, job) },
			})
		}
	default:
		return services.Wrap(services.ErrManifest, string(m.Kind), "", "unsupported kind", nil)
	}
	d.logger.Debug("tools resolved",
		logging.String(logging.FieldKind, string(m.Kind)),
		logging.String("tool", plan.Tools[m.Kind]),
	)
	return nil
}

// Run executes every job of plan in order under the batch lock.
func (d *Driver) Run(ctx context.Context, plan *Plan) (*Summary, error) {
	if plan == nil {
		return nil, errors.New("pipeline run requires a plan")
	}
	unlock, err := d.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, d.logger)
	summary := &Summary{RunID: runID}
	start := time.Now()
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("jobs", len(plan.Jobs)),
	)

	for _, job := range plan.Jobs {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}
		jobCtx := services.WithJob(services.WithKind(ctx, string(job.Kind)), job.Name)
		jobStart := time.Now()
		artifact, err := job.run(jobCtx)
		result := JobResult{
			Kind:     job.Kind,
			Name:     job.Name,
			Label:    job.Label(),
			Output:   job.Output,
			Bytes:    artifact.Bytes,
			Changed:  artifact.Changed,
			Duration: time.Since(jobStart),
			Err:      err,
		}
		summary.Results = append(summary.Results, result)
		if err != nil {
			logging.WithContext(jobCtx, d.logger).Error("job failed",
				logging.String(logging.FieldEventType, "job_failed"),
				logging.String(logging.FieldErrorCategory, services.Category(err)),
				logging.String("entry", job.Label()),
				logging.Error(err),
			)
			if errors.Is(err, context.Canceled) {
				summary.Duration = time.Since(start)
				return summary, err
			}
		}
	}

	summary.Duration = time.Since(start)
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_finish"),
		logging.Int("succeeded", summary.Succeeded()),
		logging.Int("failed", summary.Failed()),
		logging.Duration("elapsed", summary.Duration),
	)
	return summary, nil
}

// Build plans and runs kinds in one step.
func (d *Driver) Build(ctx context.Context, kinds []manifest.Kind) (*Summary, error) {
	plan, err := d.Plan(kinds)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, plan)
}

func (d *Driver) acquireLock() (func(), error) {
	path := strings.TrimSpace(d.cfg.Paths.LockFile)
	if path == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "", "", "another assetgen run holds "+path, nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			d.logger.Warn("failed to release batch lock", logging.Error(err))
		}
	}, nil
}

func ordered(kinds []manifest.Kind) []manifest.Kind {
	seen := map[manifest.Kind]bool{}
	for _, k := range kinds {
		seen[k] = true
	}
	out := make([]manifest.Kind, 0, len(seen))
	for _, k := range manifest.AllKinds {
		if seen[k] {
			out = append(out, k)
		}
	}
	return out
}
