package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"medialift/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MEDIALIFT_OUTPUT_DIR", "")
	t.Setenv("MEDIALIFT_LOG_LEVEL", "")
	unsetEnv(t, "MEDIALIFT_WATERMARK")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "medialift")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.Paths.OutputDir != "" {
		t.Fatalf("expected empty output dir by default, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Policy.MaxWidth != 1920 || cfg.Policy.MaxHeight != 1080 {
		t.Fatalf("unexpected policy bounds: %dx%d", cfg.Policy.MaxWidth, cfg.Policy.MaxHeight)
	}
	if cfg.Tools.Prober != config.ProberMediaInfo {
		t.Fatalf("expected mediainfo prober by default, got %q", cfg.Tools.Prober)
	}
	if cfg.Pipeline.Workers != 1 {
		t.Fatalf("expected one worker by default, got %d", cfg.Pipeline.Workers)
	}
	if cfg.HasWatermark() {
		t.Fatal("expected watermark disabled by default")
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MEDIALIFT_OUTPUT_DIR", "")
	unsetEnv(t, "MEDIALIFT_WATERMARK")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
			StateDir  string `toml:"state_dir"`
		} `toml:"paths"`
		Tools struct {
			Prober string `toml:"prober"`
		} `toml:"tools"`
		Policy struct {
			MaxWidth  int `toml:"max_width"`
			MaxHeight int `toml:"max_height"`
		} `toml:"policy"`
		Watermark struct {
			Image string `toml:"image"`
		} `toml:"watermark"`
		Pipeline struct {
			Workers int `toml:"workers"`
		} `toml:"pipeline"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}{}
	payload.Paths.OutputDir = "~/web"
	payload.Paths.StateDir = "~/state"
	payload.Tools.Prober = "FFprobe"
	payload.Policy.MaxWidth = 1280
	payload.Policy.MaxHeight = 720
	payload.Watermark.Image = "~/logo.png"
	payload.Pipeline.Workers = 4
	payload.Logging.Format = "JSON"

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "web") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Tools.Prober != config.ProberFFprobe {
		t.Fatalf("expected prober normalized to ffprobe, got %q", cfg.Tools.Prober)
	}
	if cfg.Policy.MaxWidth != 1280 || cfg.Policy.MaxHeight != 720 {
		t.Fatalf("unexpected policy bounds: %dx%d", cfg.Policy.MaxWidth, cfg.Policy.MaxHeight)
	}
	if cfg.Watermark.Image != filepath.Join(tempHome, "logo.png") {
		t.Fatalf("unexpected watermark path: %q", cfg.Watermark.Image)
	}
	if cfg.Pipeline.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Pipeline.Workers)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected logging format normalized to json, got %q", cfg.Logging.Format)
	}
	if cfg.Encode.VideoCodec != "libx264" {
		t.Fatalf("expected default video codec to survive partial file, got %q", cfg.Encode.VideoCodec)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	contents := "[paths]\noutput_dir = \"/srv/from-file\"\n\n[watermark]\nimage = \"/srv/file-logo.png\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	envOutput := filepath.Join(tempHome, "from-env")
	t.Setenv("MEDIALIFT_OUTPUT_DIR", envOutput)
	t.Setenv("MEDIALIFT_WATERMARK", "")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.OutputDir != envOutput {
		t.Fatalf("expected env output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.HasWatermark() {
		t.Fatalf("expected empty MEDIALIFT_WATERMARK to disable compositing, got %q", cfg.Watermark.Image)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[policy]\nmax_depth = 3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to fail parsing")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"prober", func(c *config.Config) { c.Tools.Prober = "exiftool" }, "tools.prober"},
		{"width", func(c *config.Config) { c.Policy.MaxWidth = 0 }, "policy.max_width"},
		{"height", func(c *config.Config) { c.Policy.MaxHeight = -5 }, "policy.max_height"},
		{"quality", func(c *config.Config) { c.Encode.ImageQuality = 40 }, "encode.image_quality"},
		{"workers", func(c *config.Config) { c.Pipeline.Workers = 0 }, "pipeline.workers"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestCreateSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	unsetEnv(t, "MEDIALIFT_WATERMARK")
	t.Setenv("MEDIALIFT_OUTPUT_DIR", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if !strings.Contains(string(data), "[policy]") {
		t.Fatalf("sample config missing policy section: %s", data)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to be found")
	}
	if cfg.Paths.OutputDir == "" {
		t.Fatal("expected sample output dir to be populated")
	}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}
