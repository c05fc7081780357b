package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"medialift/internal/config"
	"medialift/internal/testsupport"
)

const mediainfoImageJSON = `{"media":{"@ref":"in","track":[{"@type":"General"},{"@type":"Image","Width":"800","Height":"600"}]}}`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	inputDir   string
	ffmpegLog  string
}

// setupCLITestEnv writes a config pointing at temp directories, a copying
// ffmpeg stand-in and a mediainfo stub that reports an 800x600 image.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"MEDIALIFT_OUTPUT_DIR", "MEDIALIFT_WATERMARK", "MEDIALIFT_LOG_LEVEL"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	binDir := filepath.Join(base, "bin")
	testsupport.FakeFFmpeg(t, binDir)
	testsupport.WriteScript(t, filepath.Join(binDir, "mediainfo"), "printf '%s\\n' '"+mediainfoImageJSON+"'")

	ffmpegLog := filepath.Join(base, "ffmpeg.log")
	t.Setenv("FAKE_FFMPEG_LOG", ffmpegLog)

	input := filepath.Join(base, "in")
	testsupport.WriteFile(t, filepath.Join(input, "music", "song.mp3"), 32)
	testsupport.WriteFile(t, filepath.Join(input, "images", "pic.png"), 16)
	testsupport.WriteFile(t, filepath.Join(input, "notes.txt"), 8)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		inputDir:   input,
		ffmpegLog:  ffmpegLog,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
