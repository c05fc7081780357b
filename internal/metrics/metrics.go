package metrics

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"medialift/internal/logging"
	"medialift/internal/pipeline"
)

const namespace = "medialift"

// Recorder collects run metrics into a private registry.
type Recorder struct {
	path     string
	logger   *slog.Logger
	registry *prometheus.Registry

	artifactsTotal    *prometheus.CounterVec
	transcodeDuration *prometheus.HistogramVec
	filesTotal        *prometheus.GaugeVec
	runDuration       prometheus.Gauge
	lastRunTimestamp  prometheus.Gauge
	lastRunSuccess    prometheus.Gauge

	mu  sync.Mutex
	err error
}

// New builds a recorder that writes to path when the run completes.
func New(path string, logger *slog.Logger) *Recorder {
	r := &Recorder{
		path:     path,
		logger:   logging.NewComponentLogger(logger, "metrics"),
		registry: prometheus.NewRegistry(),
		artifactsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "artifacts_total",
				Help:      "Artifacts handled in the last run by artifact kind and action",
			},
			[]string{"kind", "action"},
		),
		transcodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transcode_duration_seconds",
				Help:      "Wall time of transcoder invocations",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
			},
			[]string{"kind"},
		),
		filesTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "files",
				Help:      "Source files seen in the last run by media kind",
			},
			[]string{"kind"},
		),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run",
		}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run succeeded, 0 otherwise",
		}),
	}
	r.registry.MustRegister(
		r.artifactsTotal,
		r.transcodeDuration,
		r.filesTotal,
		r.runDuration,
		r.lastRunTimestamp,
		r.lastRunSuccess,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// OnRunStart is a no-op; counters start at zero for each recorder.
func (r *Recorder) OnRunStart(string, []string, string) {}

// OnArtifact counts the artifact and observes transcode time.
func (r *Recorder) OnArtifact(ev pipeline.ArtifactEvent) {
	kind := ev.Artifact.Kind.String()
	r.artifactsTotal.WithLabelValues(kind, ev.Action.String()).Inc()
	if ev.Action == pipeline.ActionTranscoded {
		r.transcodeDuration.WithLabelValues(kind).Observe(ev.Duration.Seconds())
	}
}

// OnRunDone records the run totals and writes the textfile.
func (r *Recorder) OnRunDone(_ string, stats pipeline.Stats, runErr error) {
	for kind, count := range stats.FilesByKind {
		r.filesTotal.WithLabelValues(kind.String()).Set(float64(count))
	}
	r.runDuration.Set(stats.Elapsed.Seconds())
	r.lastRunTimestamp.Set(float64(time.Now().Unix()))
	if runErr == nil {
		r.lastRunSuccess.Set(1)
	} else {
		r.lastRunSuccess.Set(0)
	}

	if err := r.Write(); err != nil {
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		logging.WarnWithContext(r.logger, "metrics textfile not written", "metrics_write_failed",
			logging.String("path", r.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "node exporter keeps the previous run's values"),
		)
	}
}

// Write renders the registry to the configured textfile atomically.
func (r *Recorder) Write() error {
	if r.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Err returns the textfile write failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
