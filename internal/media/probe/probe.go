// Package probe defines the media properties extracted from an inspection
// tool and the rules for reading them out of a tool's structured output.
//
// Backends (mediainfo, ffprobe) expose their parsed output as a Tree. Extract
// pulls the first numeric value for each field; values that are absent or do
// not parse as numbers are recorded as unknown rather than failing the probe.
package probe

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"medialift/internal/logging"
)

// TrackType names a track section in the inspection output.
type TrackType string

const (
	TrackGeneral TrackType = "General"
	TrackVideo   TrackType = "Video"
	TrackAudio   TrackType = "Audio"
	TrackImage   TrackType = "Image"
)

// Field names a numeric property. Duration is expressed in seconds by every
// backend.
type Field string

const (
	FieldBitRate            Field = "BitRate"
	FieldWidth              Field = "Width"
	FieldHeight             Field = "Height"
	FieldDuration           Field = "Duration"
	FieldDisplayAspectRatio Field = "DisplayAspectRatio"
)

// Fields lists every property Extract reads, in extraction order.
var Fields = []Field{FieldBitRate, FieldWidth, FieldHeight, FieldDuration, FieldDisplayAspectRatio}

// Tree is the queryable form of an inspection tool's output.
type Tree interface {
	// Values returns the raw textual values recorded for field on tracks of
	// the given type, in document order.
	Values(track TrackType, field Field) []string
}

// Prober inspects a file and returns the properties of one track type.
type Prober interface {
	Probe(ctx context.Context, path string, track TrackType) (Properties, error)
}

// Properties holds the numeric metadata of one track. Fields that could not be
// read are zero and report false from Has.
type Properties struct {
	BitRate            int64
	Width              int
	Height             int
	DurationMs         int64
	DisplayAspectRatio float64

	known map[Field]bool
}

// Has reports whether field was found in the inspection output.
func (p Properties) Has(field Field) bool {
	return p.known[field]
}

// Missing lists the fields that were not found.
func (p Properties) Missing() []Field {
	var missing []Field
	for _, field := range Fields {
		if !p.known[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

// Set records a known value. It is used by Extract and by tests that need
// hand-built properties.
func (p *Properties) Set(field Field, value float64) {
	if p.known == nil {
		p.known = make(map[Field]bool, len(Fields))
	}
	switch field {
	case FieldBitRate:
		p.BitRate = int64(math.Round(value))
	case FieldWidth:
		p.Width = int(math.Round(value))
	case FieldHeight:
		p.Height = int(math.Round(value))
	case FieldDuration:
		p.DurationMs = int64(math.Round(value * 1000))
	case FieldDisplayAspectRatio:
		p.DisplayAspectRatio = value
	default:
		return
	}
	p.known[field] = true
}

// Number returns the first value of field on track that parses as a number.
func Number(tree Tree, track TrackType, field Field) (float64, bool) {
	for _, raw := range tree.Values(track, field) {
		if value, ok := parseNumber(raw); ok {
			return value, true
		}
	}
	return 0, false
}

// Extract reads every field for track from tree. Unknown fields are logged at
// debug level and left unset.
func Extract(tree Tree, track TrackType, logger *slog.Logger) Properties {
	if logger == nil {
		logger = logging.NewNop()
	}
	var props Properties
	for _, field := range Fields {
		value, ok := Number(tree, track, field)
		if !ok {
			logger.Debug("metadata field unavailable",
				logging.String("track", string(track)),
				logging.String("field", string(field)),
				logging.Any("raw", tree.Values(track, field)),
			)
			continue
		}
		props.Set(field, value)
	}
	return props
}

func parseNumber(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
