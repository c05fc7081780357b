// Package freshness decides, per artifact, whether a derived file must be
// rebuilt. The only input is modification time: a destination is fresh when it
// exists and is at least as new as its source.
package freshness

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"medialift/internal/faults"
	"medialift/internal/logging"
	"medialift/internal/media"
)

// Fresh reports whether dest exists and is not older than source. Equal
// modification times count as fresh.
func Fresh(source media.SourceFile, dest string) (bool, error) {
	info, err := os.Stat(dest)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, faults.Wrap(faults.ErrFilesystem, "freshness", "stat", dest, err)
	}
	return !info.ModTime().Before(source.ModTime), nil
}

// Tracker evaluates staleness and prepares destinations for rebuilds.
type Tracker struct {
	logger *slog.Logger
	dryRun bool
}

// NewTracker returns a Tracker. In dry-run mode it reports stale artifacts
// without creating directories.
func NewTracker(logger *slog.Logger, dryRun bool) *Tracker {
	return &Tracker{logger: logging.NewComponentLogger(logger, "freshness"), dryRun: dryRun}
}

// Stale is the negation of Fresh. When the artifact is stale it ensures the
// parent directory exists and logs a progress line.
func (t *Tracker) Stale(source media.SourceFile, artifact media.Artifact) (bool, error) {
	fresh, err := Fresh(source, artifact.Dest)
	if err != nil {
		return false, err
	}
	if fresh {
		return false, nil
	}
	if !t.dryRun {
		if err := EnsureParent(artifact.Dest); err != nil {
			return false, err
		}
	}
	t.logger.Info("rebuilding",
		logging.String(logging.FieldSource, source.Path),
		logging.String(logging.FieldDest, artifact.Dest),
		logging.String(logging.FieldArtifact, artifact.Kind.String()),
		logging.Bool("dry_run", t.dryRun),
	)
	return true, nil
}

// EnsureParent creates the parent directory of path. Concurrent callers
// creating the same directory all succeed.
func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
				return nil
			}
		}
		return faults.Wrap(faults.ErrFilesystem, "freshness", "mkdir", dir, err)
	}
	return nil
}
