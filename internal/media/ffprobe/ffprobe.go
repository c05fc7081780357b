package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"medialift/internal/faults"
	"medialift/internal/logging"
	"medialift/internal/media/probe"
	"medialift/internal/procexec"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index              int    `json:"index"`
	CodecName          string `json:"codec_name"`
	CodecType          string `json:"codec_type"`
	Duration           string `json:"duration"`
	BitRate            string `json:"bit_rate"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	DisplayAspectRatio string `json:"display_aspect_ratio"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	result, err := procexec.Run(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, faults.Wrap(faults.ErrToolInvocation, "probe", "ffprobe", path, err)
	}
	return Parse(result.Stdout)
}

// Parse decodes ffprobe JSON output.
func Parse(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, faults.Wrap(faults.ErrToolInvocation, "probe", "ffprobe", "parse output", err)
	}
	return result, nil
}

func codecTypeFor(track probe.TrackType) string {
	switch track {
	case probe.TrackAudio:
		return "audio"
	case probe.TrackVideo, probe.TrackImage:
		return "video"
	default:
		return ""
	}
}

// Values implements probe.Tree.
func (r Result) Values(track probe.TrackType, field probe.Field) []string {
	if track == probe.TrackGeneral {
		switch field {
		case probe.FieldBitRate:
			return nonEmpty(r.Format.BitRate)
		case probe.FieldDuration:
			return nonEmpty(r.Format.Duration)
		default:
			return nil
		}
	}

	codecType := codecTypeFor(track)
	var values []string
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, codecType) {
			continue
		}
		switch field {
		case probe.FieldBitRate:
			values = append(values, nonEmpty(stream.BitRate)...)
		case probe.FieldWidth:
			values = append(values, positive(stream.Width)...)
		case probe.FieldHeight:
			values = append(values, positive(stream.Height)...)
		case probe.FieldDuration:
			values = append(values, nonEmpty(stream.Duration)...)
		case probe.FieldDisplayAspectRatio:
			values = append(values, nonEmpty(ratioDecimal(stream.DisplayAspectRatio))...)
		}
	}
	// Containers often omit per-stream rates; fall back to the format section.
	if field == probe.FieldBitRate || field == probe.FieldDuration {
		values = append(values, r.Values(probe.TrackGeneral, field)...)
	}
	return values
}

// ratioDecimal converts "16:9" to its decimal form. Other text is returned
// unchanged so the caller decides whether it is numeric.
func ratioDecimal(value string) string {
	num, den, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return value
	}
	n, errN := strconv.ParseFloat(num, 64)
	d, errD := strconv.ParseFloat(den, 64)
	if errN != nil || errD != nil || d == 0 || n == 0 {
		return ""
	}
	return strconv.FormatFloat(n/d, 'f', 3, 64)
}

func nonEmpty(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return []string{value}
}

func positive(value int) []string {
	if value <= 0 {
		return nil
	}
	return []string{strconv.Itoa(value)}
}

// Prober runs ffprobe against source files.
type Prober struct {
	binary string
	logger *slog.Logger
}

// NewProber returns a Prober using binary, defaulting to "ffprobe".
func NewProber(binary string, logger *slog.Logger) *Prober {
	return &Prober{binary: binary, logger: logging.NewComponentLogger(logger, "probe")}
}

// Probe implements probe.Prober.
func (p *Prober) Probe(ctx context.Context, path string, track probe.TrackType) (probe.Properties, error) {
	result, err := Inspect(ctx, p.binary, path)
	if err != nil {
		return probe.Properties{}, err
	}
	if len(result.Streams) == 0 {
		return probe.Properties{}, fmt.Errorf("%w: ffprobe reported no streams for %s", faults.ErrToolInvocation, path)
	}
	return probe.Extract(result, track, p.logger.With(logging.String(logging.FieldSource, path))), nil
}
