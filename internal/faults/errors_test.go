package faults_test

import (
	"errors"
	"strings"
	"testing"

	"medialift/internal/faults"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := faults.Wrap(faults.ErrToolInvocation, "transcode", "run", "ffmpeg exited 1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, faults.ErrToolInvocation) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcode", "run", "ffmpeg exited 1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := faults.Wrap(faults.ErrMissingMetadata, "policy", "", "height unknown", nil)
	if !errors.Is(err, faults.ErrMissingMetadata) {
		t.Fatalf("expected missing metadata marker, got %v", err)
	}
	if got := err.Error(); got != "missing metadata: policy: height unknown" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{faults.Wrap(faults.ErrToolInvocation, "probe", "", "", nil), "tool"},
		{faults.Wrap(faults.ErrMissingMetadata, "policy", "", "", nil), "metadata"},
		{faults.Wrap(faults.ErrFilesystem, "fileutil", "rename", "", errors.New("io")), "filesystem"},
		{faults.Wrap(faults.ErrConfiguration, "config", "", "", nil), "configuration"},
		{errors.New("other"), "failed"},
	}
	for _, tc := range cases {
		if got := faults.Label(tc.err); got != tc.want {
			t.Fatalf("Label(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
