package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"medialift/internal/config"
	"medialift/internal/faults"
	"medialift/internal/fileutil"
	"medialift/internal/freshness"
	"medialift/internal/logging"
	"medialift/internal/media"
	"medialift/internal/media/ffprobe"
	"medialift/internal/media/mediainfo"
	"medialift/internal/media/probe"
	"medialift/internal/transcode"
)

// Transcoder runs the external encoder for one artifact.
type Transcoder interface {
	Run(ctx context.Context, extraArgs []string, source, dest string) (transcode.Result, error)
}

// Pipeline processes input trees into the output tree.
type Pipeline struct {
	settings   Settings
	prober     probe.Prober
	transcoder Transcoder
	tracker    *freshness.Tracker
	logger     *slog.Logger
	observers  observers
}

// New assembles a pipeline.
func New(settings Settings, prober probe.Prober, transcoder Transcoder, logger *slog.Logger, obs ...Observer) *Pipeline {
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	filtered := make(observers, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	return &Pipeline{
		settings:   settings,
		prober:     prober,
		transcoder: transcoder,
		tracker:    freshness.NewTracker(logger, settings.DryRun),
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		observers:  filtered,
	}
}

// NewProber returns the probe backend selected by tools.prober.
func NewProber(cfg *config.Config, logger *slog.Logger) probe.Prober {
	if cfg.Tools.Prober == config.ProberFFprobe {
		return ffprobe.NewProber(cfg.Tools.FFprobe, logger)
	}
	return mediainfo.New(cfg.Tools.MediaInfo, logger)
}

// Run processes each input root in the order given. The first fatal error
// stops the run; Stats reflects the files completed before it.
func (p *Pipeline) Run(ctx context.Context, runID string, inputs []string) (Stats, error) {
	start := time.Now()
	stats := NewStats()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)

	p.observers.OnRunStart(runID, inputs, p.settings.OutputDir)
	err := p.run(ctx, runID, inputs, &stats, logger)
	stats.Elapsed = time.Since(start)
	p.observers.OnRunDone(runID, stats, err)

	if err != nil {
		logger.Error("run failed", logging.Error(err), logging.Int("files", stats.Files))
		return stats, err
	}
	logger.Info("run complete",
		logging.Int("files", stats.Files),
		logging.Int("transcoded", stats.Transcoded),
		logging.Int("linked", stats.Linked+stats.Copied),
		logging.Int("fresh", stats.Fresh),
		logging.Duration("elapsed", stats.Elapsed),
	)
	return stats, nil
}

func (p *Pipeline) run(ctx context.Context, runID string, inputs []string, stats *Stats, logger *slog.Logger) error {
	if p.settings.OutputDir == "" {
		return faults.Wrap(faults.ErrConfiguration, "pipeline", "run", "output directory not set", nil)
	}
	for _, root := range inputs {
		info, err := os.Stat(root)
		if err != nil {
			return faults.Wrap(faults.ErrConfiguration, "pipeline", "input", root, err)
		}
		if !info.IsDir() {
			return faults.Wrap(faults.ErrConfiguration, "pipeline", "input", fmt.Sprintf("%s is not a directory", root), nil)
		}
	}

	for _, root := range inputs {
		files, err := Discover(root, p.settings.OutputDir, logger)
		if err != nil {
			return err
		}
		logger.Info("scanning input", logging.String("root", root), logging.Int("files", len(files)))
		if err := p.processAll(ctx, runID, files, stats); err != nil {
			return err
		}
	}
	return nil
}

// processAll handles files sequentially, or through a bounded pool when more
// than one worker is configured. Artifacts of a single file always stay on one
// worker.
func (p *Pipeline) processAll(ctx context.Context, runID string, files []media.SourceFile, stats *Stats) error {
	if p.settings.Workers == 1 {
		for _, src := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := p.Process(ctx, runID, src)
			outcome.Failed = err != nil
			stats.Add(outcome)
			if err != nil {
				return err
			}
		}
		return nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.settings.Workers)
	for _, src := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := p.Process(gctx, runID, src)
			outcome.Failed = err != nil
			mu.Lock()
			stats.Add(outcome)
			mu.Unlock()
			return err
		})
	}
	return g.Wait()
}

// Process brings every artifact of src up to date.
func (p *Pipeline) Process(ctx context.Context, runID string, src media.SourceFile) (FileOutcome, error) {
	outcome := FileOutcome{Source: src}
	logger := logging.WithContext(ctx, p.logger).With(
		logging.String(logging.FieldSource, src.Path),
		logging.String(logging.FieldKind, src.Kind.String()),
	)

	dest := filepath.Join(p.settings.OutputDir, src.Rel)
	var stale []media.Artifact
	for _, artifact := range media.Artifacts(src.Kind, dest) {
		isStale, err := p.tracker.Stale(src, artifact)
		if err != nil {
			return outcome, err
		}
		if !isStale {
			outcome.Events = append(outcome.Events, p.emit(runID, src, artifact, ActionFresh, 0))
			continue
		}
		stale = append(stale, artifact)
	}
	if len(stale) == 0 {
		logger.Debug("all artifacts fresh")
		return outcome, nil
	}
	if p.settings.DryRun {
		for _, artifact := range stale {
			outcome.Events = append(outcome.Events, p.emit(runID, src, artifact, ActionPlanned, 0))
		}
		return outcome, nil
	}

	var props probe.Properties
	if NeedsProbe(src.Kind) {
		var err error
		props, err = p.prober.Probe(ctx, src.Path, ProbeTrack(src.Kind))
		if err != nil {
			return outcome, err
		}
		if missing := props.Missing(); len(missing) > 0 {
			logger.Debug("probe incomplete", logging.Any("missing", missing))
		}
	}

	for _, artifact := range stale {
		plan, err := PlanArtifact(src, artifact, props, p.settings)
		if err != nil {
			return outcome, planError(src, artifact, err)
		}
		action, elapsed, err := p.build(ctx, src, plan, logger)
		if err != nil {
			return outcome, err
		}
		outcome.Events = append(outcome.Events, p.emit(runID, src, artifact, action, elapsed))
	}
	return outcome, nil
}

func (p *Pipeline) build(ctx context.Context, src media.SourceFile, plan EncodePlan, logger *slog.Logger) (Action, time.Duration, error) {
	start := time.Now()
	dest := plan.Artifact.Dest
	if plan.Link {
		copied, err := fileutil.InstallLink(src.Path, dest)
		if err != nil {
			return ActionLinked, 0, faults.Wrap(faults.ErrFilesystem, "pipeline", "link", dest, err)
		}
		if copied {
			logging.WarnWithContext(logger, "hard link crossed filesystems; copied instead", "link_fallback",
				logging.String(logging.FieldDest, dest),
				logging.String(logging.FieldImpact, "output uses extra disk space"),
				logging.String(logging.FieldErrorHint, "place the output tree on the same filesystem as the input"),
			)
			return ActionCopied, time.Since(start), nil
		}
		return ActionLinked, time.Since(start), nil
	}

	result, err := p.transcoder.Run(ctx, plan.Args, src.Path, dest)
	if err != nil {
		return ActionTranscoded, result.Duration, fmt.Errorf("%s %s: %w", plan.Artifact.Kind, src.Rel, err)
	}
	return ActionTranscoded, result.Duration, nil
}

func (p *Pipeline) emit(runID string, src media.SourceFile, artifact media.Artifact, action Action, elapsed time.Duration) ArtifactEvent {
	ev := ArtifactEvent{RunID: runID, Source: src, Artifact: artifact, Action: action, Duration: elapsed}
	p.observers.OnArtifact(ev)
	return ev
}
