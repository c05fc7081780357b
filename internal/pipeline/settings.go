package pipeline

import (
	"medialift/internal/config"
)

// Settings are the configuration values the pipeline reads.
type Settings struct {
	OutputDir string
	Watermark string

	MaxWidth  int
	MaxHeight int

	VideoCodec          string
	AudioCodec          string
	AlternateVideoCodec string
	AlternateAudioCodec string
	AudioAlternateCodec string
	ImageQuality        int

	Workers int
	DryRun  bool
}

// SettingsFromConfig copies the relevant config sections.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		OutputDir:           cfg.Paths.OutputDir,
		Watermark:           cfg.Watermark.Image,
		MaxWidth:            cfg.Policy.MaxWidth,
		MaxHeight:           cfg.Policy.MaxHeight,
		VideoCodec:          cfg.Encode.VideoCodec,
		AudioCodec:          cfg.Encode.AudioCodec,
		AlternateVideoCodec: cfg.Encode.AlternateVideoCodec,
		AlternateAudioCodec: cfg.Encode.AlternateAudioCodec,
		AudioAlternateCodec: cfg.Encode.AudioAlternateCodec,
		ImageQuality:        cfg.Encode.ImageQuality,
		Workers:             cfg.Pipeline.Workers,
	}
}

// HasWatermark reports whether compositing is requested for this run.
func (s Settings) HasWatermark() bool {
	return s.Watermark != ""
}
