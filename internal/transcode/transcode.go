// Package transcode runs the external transcoder and installs its output
// atomically.
//
// The transcoder always writes to fileutil.TempPath(dest). Only after a zero
// exit is the temp renamed onto dest, so dest is never seen partially written.
// A failing run leaves the temp file in place for inspection.
package transcode

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"medialift/internal/faults"
	"medialift/internal/fileutil"
	"medialift/internal/logging"
	"medialift/internal/procexec"
)

// Result is the outcome of one transcoder invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
	TempPath string
}

// Executor invokes ffmpeg.
type Executor struct {
	binary string
	logger *slog.Logger
}

// New returns an Executor for binary, defaulting to "ffmpeg".
func New(binary string, logger *slog.Logger) *Executor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Executor{binary: binary, logger: logging.NewComponentLogger(logger, "transcode")}
}

// Args builds the full argument list for one run.
func Args(source string, extraArgs []string, tempPath string) []string {
	args := make([]string, 0, len(extraArgs)+10)
	args = append(args, "-hide_banner", "-nostdin", "-loglevel", "error", "-i", source)
	args = append(args, extraArgs...)
	return append(args, "-y", tempPath)
}

// Run transcodes source into dest using extraArgs between the input and the
// output. Any non-zero exit is fatal and wraps faults.ErrToolInvocation; a
// failed rename wraps faults.ErrFilesystem.
func (e *Executor) Run(ctx context.Context, extraArgs []string, source, dest string) (Result, error) {
	tempPath := fileutil.TempPath(dest)
	logger := e.logger.With(logging.String(logging.FieldSource, source), logging.String(logging.FieldDest, dest))
	logger.Debug("invoking transcoder", logging.String("args", strings.Join(extraArgs, " ")))

	res, err := procexec.Run(ctx, e.binary, Args(source, extraArgs, tempPath)...)
	result := Result{
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		Duration: res.Duration,
		TempPath: tempPath,
	}
	if err != nil {
		logger.Error("transcoder failed",
			logging.Int("exit_code", res.ExitCode),
			logging.String("temp", tempPath),
			logging.String(logging.FieldErrorHint, "inspect the temp file and stderr"),
			logging.Error(err),
		)
		return result, faults.Wrap(faults.ErrToolInvocation, "transcode", "run", dest, err)
	}

	if err := fileutil.Rename(tempPath, dest); err != nil {
		return result, faults.Wrap(faults.ErrFilesystem, "transcode", "install", dest, err)
	}
	logger.Debug("transcoder finished", logging.Duration("elapsed", result.Duration))
	return result, nil
}
