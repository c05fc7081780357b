package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"medialift/internal/logging"
	"medialift/internal/pipeline"
)

// Recorder writes pipeline events into a Store. Database failures never stop
// the run; the first one is kept and reported by Err.
type Recorder struct {
	store  *Store
	logger *slog.Logger

	mu  sync.Mutex
	err error
}

// NewRecorder returns an observer backed by store.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logging.NewComponentLogger(logger, "history")}
}

// OnRunStart records the run row.
func (r *Recorder) OnRunStart(runID string, inputs []string, outputDir string) {
	r.keep(r.store.StartRun(context.Background(), runID, inputs, outputDir, time.Now()))
}

// OnArtifact records every non-fresh artifact.
func (r *Recorder) OnArtifact(ev pipeline.ArtifactEvent) {
	if ev.Action == pipeline.ActionFresh {
		return
	}
	r.keep(r.store.RecordArtifact(context.Background(), ev))
}

// OnRunDone stores the final counters.
func (r *Recorder) OnRunDone(runID string, stats pipeline.Stats, runErr error) {
	r.keep(r.store.FinishRun(context.Background(), runID, stats, runErr, time.Now()))
}

// Err returns the first write failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) keep(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	r.err = err
	logging.WarnWithContext(r.logger, "history write failed", "history_write_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "run history incomplete"),
		logging.String(logging.FieldErrorHint, "check state_dir permissions and disk space"),
	)
}
