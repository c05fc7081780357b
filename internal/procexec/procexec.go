// Package procexec runs external tools as scoped child processes and reports
// their outcome as a typed Result.
package procexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"medialift/internal/faults"
)

// stderrTailLimit bounds how much stderr is quoted in error messages.
const stderrTailLimit = 512

// Result captures the outcome of one child process.
type Result struct {
	Binary   string
	Args     []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// ExitError reports a tool that ran but exited non-zero.
type ExitError struct {
	Binary   string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Binary, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap marks every ExitError as a tool invocation failure.
func (e *ExitError) Unwrap() error { return faults.ErrToolInvocation }

// Run starts binary with args, waits for it to exit, and returns its captured
// output. A missing binary or a non-zero exit yields an error wrapping
// faults.ErrToolInvocation; the Result is still populated for inspection.
func Run(ctx context.Context, binary string, args ...string) (Result, error) {
	result := Result{Binary: binary, Args: append([]string(nil), args...), ExitCode: -1}

	path, err := exec.LookPath(binary)
	if err != nil {
		return result, fmt.Errorf("%w: %s not found: %w", faults.ErrToolInvocation, binary, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	result.Duration = time.Since(start)
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%w: %s interrupted: %w", faults.ErrToolInvocation, binary, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return result, &ExitError{Binary: binary, ExitCode: result.ExitCode, Stderr: Tail(result.Stderr)}
	}
	return result, fmt.Errorf("%w: run %s: %w", faults.ErrToolInvocation, binary, err)
}

// Tail returns the trimmed end of output, limited for log and error messages.
func Tail(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) <= stderrTailLimit {
		return text
	}
	return "..." + text[len(text)-stderrTailLimit:]
}
