package config

const (
	defaultStateDir            = "~/.local/share/medialift"
	defaultLogDir              = "~/.local/share/medialift/logs"
	defaultFFmpeg              = "ffmpeg"
	defaultMediaInfo           = "mediainfo"
	defaultFFprobe             = "ffprobe"
	defaultProber              = ProberMediaInfo
	defaultMaxWidth            = 1920
	defaultMaxHeight           = 1080
	defaultVideoCodec          = "libx264"
	defaultAudioCodec          = "aac"
	defaultAlternateVideoCodec = "libvpx"
	defaultAlternateAudioCodec = "libvorbis"
	defaultAudioAlternateCodec = "libvorbis"
	defaultImageQuality        = 2
	defaultWorkers             = 1
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Supported prober backends.
const (
	ProberMediaInfo = "mediainfo"
	ProberFFprobe   = "ffprobe"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:    defaultFFmpeg,
			MediaInfo: defaultMediaInfo,
			FFprobe:   defaultFFprobe,
			Prober:    defaultProber,
		},
		Policy: Policy{
			MaxWidth:  defaultMaxWidth,
			MaxHeight: defaultMaxHeight,
		},
		Encode: Encode{
			VideoCodec:          defaultVideoCodec,
			AudioCodec:          defaultAudioCodec,
			AlternateVideoCodec: defaultAlternateVideoCodec,
			AlternateAudioCodec: defaultAlternateAudioCodec,
			AudioAlternateCodec: defaultAudioAlternateCodec,
			ImageQuality:        defaultImageQuality,
		},
		Pipeline: Pipeline{
			Workers: defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}
