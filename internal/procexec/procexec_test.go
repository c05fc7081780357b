package procexec_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medialift/internal/faults"
	"medialift/internal/procexec"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunCapturesOutput(t *testing.T) {
	script := writeScript(t, t.TempDir(), "tool", `echo "out:$1"; echo "warn" >&2; exit 0`)

	result, err := procexec.Run(context.Background(), script, "arg")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit 0, got %d", result.ExitCode)
	}
	if strings.TrimSpace(string(result.Stdout)) != "out:arg" {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}
	if strings.TrimSpace(string(result.Stderr)) != "warn" {
		t.Fatalf("unexpected stderr %q", result.Stderr)
	}
}

func TestRunReportsNonZeroExit(t *testing.T) {
	script := writeScript(t, t.TempDir(), "tool", `echo "boom" >&2; exit 3`)

	result, err := procexec.Run(context.Background(), script)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !errors.Is(err, faults.ErrToolInvocation) {
		t.Fatalf("expected ErrToolInvocation, got %v", err)
	}
	var exitErr *procexec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T", err)
	}
	if exitErr.ExitCode != 3 || result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d/%d", exitErr.ExitCode, result.ExitCode)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	_, err := procexec.Run(context.Background(), filepath.Join(t.TempDir(), "missing-tool"))
	if !errors.Is(err, faults.ErrToolInvocation) {
		t.Fatalf("expected ErrToolInvocation, got %v", err)
	}
}

func TestTailTruncates(t *testing.T) {
	long := strings.Repeat("x", 2000) + "end"
	tail := procexec.Tail([]byte(long))
	if !strings.HasPrefix(tail, "...") || !strings.HasSuffix(tail, "end") {
		t.Fatalf("unexpected tail %q", tail)
	}
	if len(tail) != 3+512 {
		t.Fatalf("unexpected tail length %d", len(tail))
	}
}
