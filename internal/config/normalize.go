package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeEncode()
	c.normalizeLogging()
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = defaultWorkers
	}
	return nil
}

// applyEnv lets the environment override file values, matching how the CLI
// flags layer on top of both.
func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv("MEDIALIFT_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("MEDIALIFT_WATERMARK"); ok {
		c.Watermark.Image = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("MEDIALIFT_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Watermark.Image, err = expandPath(strings.TrimSpace(c.Watermark.Image)); err != nil {
		return fmt.Errorf("watermark.image: %w", err)
	}
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = defaultIfBlank(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.MediaInfo = defaultIfBlank(c.Tools.MediaInfo, defaultMediaInfo)
	c.Tools.FFprobe = defaultIfBlank(c.Tools.FFprobe, defaultFFprobe)
	c.Tools.Prober = strings.ToLower(defaultIfBlank(c.Tools.Prober, defaultProber))
}

func (c *Config) normalizeEncode() {
	c.Encode.VideoCodec = defaultIfBlank(c.Encode.VideoCodec, defaultVideoCodec)
	c.Encode.AudioCodec = defaultIfBlank(c.Encode.AudioCodec, defaultAudioCodec)
	c.Encode.AlternateVideoCodec = defaultIfBlank(c.Encode.AlternateVideoCodec, defaultAlternateVideoCodec)
	c.Encode.AlternateAudioCodec = defaultIfBlank(c.Encode.AlternateAudioCodec, defaultAlternateAudioCodec)
	c.Encode.AudioAlternateCodec = defaultIfBlank(c.Encode.AudioAlternateCodec, defaultAudioAlternateCodec)
	if c.Encode.ImageQuality == 0 {
		c.Encode.ImageQuality = defaultImageQuality
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(defaultIfBlank(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(defaultIfBlank(c.Logging.Level, defaultLogLevel))
}

func defaultIfBlank(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
