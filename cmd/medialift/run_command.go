package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"medialift/internal/config"
	"medialift/internal/faults"
	"medialift/internal/history"
	"medialift/internal/logging"
	"medialift/internal/metrics"
	"medialift/internal/pipeline"
	"medialift/internal/preflight"
	"medialift/internal/runlock"
	"medialift/internal/transcode"
)

type runOptions struct {
	output    string
	watermark string
	workers   int
	dryRun    bool

	outputSet    bool
	watermarkSet bool
	workersSet   bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [flags] INPUT...",
		Short: "Bring the output tree up to date with one or more input trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts.outputSet = cmd.Flags().Changed("output")
			opts.watermarkSet = cmd.Flags().Changed("watermark")
			opts.workersSet = cmd.Flags().Changed("workers")
			return executeRun(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (overrides paths.output_dir)")
	cmd.Flags().StringVar(&opts.watermark, "watermark", "", "Watermark image (overrides watermark.image; empty disables)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Source files processed concurrently (overrides pipeline.workers)")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Report stale artifacts without writing anything")
	return cmd
}

// applyRunOptions layers flags over a copy of the loaded configuration.
func applyRunOptions(cfg *config.Config, opts runOptions) (*config.Config, error) {
	out := *cfg
	if opts.outputSet {
		expanded, err := config.ExpandPath(strings.TrimSpace(opts.output))
		if err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, "cli", "output", opts.output, err)
		}
		out.Paths.OutputDir = expanded
	}
	if opts.watermarkSet {
		expanded, err := config.ExpandPath(strings.TrimSpace(opts.watermark))
		if err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, "cli", "watermark", opts.watermark, err)
		}
		out.Watermark.Image = expanded
	}
	if opts.workersSet {
		if opts.workers < 1 {
			return nil, faults.Wrap(faults.ErrConfiguration, "cli", "workers", fmt.Sprintf("must be at least 1, got %d", opts.workers), nil)
		}
		out.Pipeline.Workers = opts.workers
	}
	if strings.TrimSpace(out.Paths.OutputDir) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "cli", "output", "output directory not set (use --output or paths.output_dir)", nil)
	}
	return &out, nil
}

func executeRun(ctx context.Context, stdout, stderr io.Writer, base *config.Config, args []string, opts runOptions) error {
	cfg, err := applyRunOptions(base, opts)
	if err != nil {
		return err
	}
	inputs := make([]string, 0, len(args))
	for _, arg := range args {
		expanded, err := config.ExpandPath(arg)
		if err != nil {
			return faults.Wrap(faults.ErrConfiguration, "cli", "input", arg, err)
		}
		inputs = append(inputs, expanded)
	}

	logger, err := logging.NewFromConfig(cfg, stderr)
	if err != nil {
		return faults.Wrap(faults.ErrConfiguration, "cli", "logging", "", err)
	}

	checks := preflight.RunAll(cfg, preflight.Target{
		Inputs:    inputs,
		OutputDir: cfg.Paths.OutputDir,
		Watermark: cfg.Watermark.Image,
	})
	if err := preflight.Failed(checks); err != nil {
		return err
	}

	if !opts.dryRun {
		lock, err := runlock.Acquire(cfg.Paths.OutputDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("run lock not released", logging.Error(err))
			}
		}()
	}

	runID := uuid.NewString()
	observers, closeObservers, err := runObservers(cfg, opts.dryRun, logger)
	if err != nil {
		return err
	}
	defer closeObservers()

	settings := pipeline.SettingsFromConfig(cfg)
	settings.DryRun = opts.dryRun
	p := pipeline.New(
		settings,
		pipeline.NewProber(cfg, logger),
		transcode.New(cfg.Tools.FFmpeg, logger),
		logger,
		observers...,
	)

	logger.Info("run started",
		logging.String(logging.FieldRunID, runID),
		logging.String("output", cfg.Paths.OutputDir),
		logging.Int("workers", settings.Workers),
		logging.Bool("dry_run", settings.DryRun),
		logging.Bool("watermark", settings.HasWatermark()),
	)
	stats, runErr := p.Run(ctx, runID, inputs)

	fmt.Fprint(stdout, renderRunSummary(runID, stats, opts.dryRun))
	return runErr
}

// runObservers opens the history store and metrics recorder the config asks
// for. The returned close function is always safe to call.
func runObservers(cfg *config.Config, dryRun bool, logger *slog.Logger) ([]pipeline.Observer, func(), error) {
	var observers []pipeline.Observer
	closeFn := func() {}

	if cfg.History.Enabled && !dryRun {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return nil, closeFn, err
		}
		observers = append(observers, history.NewRecorder(store, logger))
		closeFn = func() {
			if err := store.Close(); err != nil {
				logger.Warn("history store not closed cleanly", logging.Error(err))
			}
		}
	}
	if cfg.Metrics.Textfile != "" && !dryRun {
		observers = append(observers, metrics.New(cfg.Metrics.Textfile, logger))
	}
	return observers, closeFn, nil
}
