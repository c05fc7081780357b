package preflight

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medialift/internal/faults"
	"medialift/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
	if result := CheckReadableDirectory("test", f); result.Passed {
		t.Fatal("expected readable check to fail for file path")
	}
}

func TestCheckWritableTargetMissingDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "site")
	result := CheckWritableTarget("Output", target)
	if !result.Passed {
		t.Fatalf("expected pass for creatable dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
	if result := CheckWritableTarget("Output", ""); result.Passed {
		t.Fatal("expected failure for empty path")
	}
}

func TestRunAllReportsEveryCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	input := filepath.Join(testsupport.BaseDir(cfg), "in")
	if err := os.MkdirAll(input, 0o755); err != nil {
		t.Fatal(err)
	}
	wm := filepath.Join(testsupport.BaseDir(cfg), "logo.png")
	file, err := os.Create(wm)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(file, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	_ = file.Close()

	results := RunAll(cfg, Target{Inputs: []string{input}, OutputDir: cfg.Paths.OutputDir, Watermark: wm})
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		if !r.Passed {
			t.Errorf("check %s failed: %s", r.Name, r.Detail)
		}
	}
	want := []string{"FFmpeg", "MediaInfo", "Input " + input, "Output directory", "State directory", "Watermark"}
	if strings.Join(names, "|") != strings.Join(want, "|") {
		t.Fatalf("checks = %v, want %v", names, want)
	}
	if err := Failed(results); err != nil {
		t.Fatalf("Failed returned %v", err)
	}
}

func TestFailedClassifiesResults(t *testing.T) {
	err := Failed([]Result{
		{Name: "FFmpeg", Detail: `binary "ffmpeg" not found`},
		{Name: "Input /x", Detail: "/x (error: does not exist)"},
	})
	if !errors.Is(err, faults.ErrToolInvocation) || !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected both markers, got %v", err)
	}
}

func TestRunAllMissingTool(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tools.FFmpeg = "clearly-not-present-ffmpeg"
	results := RunAll(cfg, Target{OutputDir: cfg.Paths.OutputDir})
	if !errors.Is(Failed(results), faults.ErrToolInvocation) {
		t.Fatalf("expected missing ffmpeg to fail, got %+v", results)
	}
}
