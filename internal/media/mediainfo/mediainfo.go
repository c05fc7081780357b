// Package mediainfo probes files with `mediainfo --Full --Output=JSON` and
// exposes the result as a probe.Tree.
package mediainfo

import (
	"bytes"
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

// fieldKeys maps a probe field to the MediaInfo keys that may carry it, in
// preference order. General tracks report the container rate as OverallBitRate.
var fieldKeys = map[probe.Field][]string{
	probe.FieldBitRate:            {"BitRate", "OverallBitRate", "BitRate_Nominal"},
	probe.FieldWidth:              {"Width"},
	probe.FieldHeight:             {"Height"},
	probe.FieldDuration:           {"Duration"},
	probe.FieldDisplayAspectRatio: {"DisplayAspectRatio"},
}

// Document is the parsed MediaInfo JSON output.
type Document struct {
	Media struct {
		Ref    string  `json:"@ref"`
		Tracks []Track `json:"track"`
	} `json:"media"`
}

// Track is one MediaInfo track. Scalar values are kept as text; nested
// objects such as "extra" are ignored.
type Track struct {
	Type   string
	Fields map[string]string
}

// UnmarshalJSON decodes a track object into its type and scalar fields.
func (t *Track) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Fields = make(map[string]string, len(raw))
	for key, value := range raw {
		text, ok := scalarText(value)
		if !ok {
			continue
		}
		if key == "@type" {
			t.Type = text
			continue
		}
		t.Fields[key] = text
	}
	return nil
}

func scalarText(value json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[', 'n':
		return "", false
	default:
		return string(trimmed), true
	}
}

// Parse decodes MediaInfo JSON output.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("mediainfo parse: %w", err)
	}
	return doc, nil
}

// Values implements probe.Tree.
func (d Document) Values(track probe.TrackType, field probe.Field) []string {
	var values []string
	for _, t := range d.Media.Tracks {
		if !strings.EqualFold(t.Type, string(track)) {
			continue
		}
		for _, key := range fieldKeys[field] {
			if value, ok := t.Fields[key]; ok {
				values = append(values, value)
			}
		}
	}
	return values
}

// TrackCount returns the number of tracks of the given type.
func (d Document) TrackCount(track probe.TrackType) int {
	count := 0
	for _, t := range d.Media.Tracks {
		if strings.EqualFold(t.Type, string(track)) {
			count++
		}
	}
	return count
}

// Prober runs mediainfo against source files.
type Prober struct {
	binary string
	logger *slog.Logger
}

// New returns a Prober using binary, defaulting to "mediainfo".
func New(binary string, logger *slog.Logger) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mediainfo"
	}
	return &Prober{binary: binary, logger: logging.NewComponentLogger(logger, "probe")}
}

// Inspect runs mediainfo and returns the parsed document.
func (p *Prober) Inspect(ctx context.Context, path string) (Document, error) {
	result, err := procexec.Run(ctx, p.binary, "--Full", "--Output=JSON", path)
	if err != nil {
		return Document{}, faults.Wrap(faults.ErrToolInvocation, "probe", "mediainfo", path, err)
	}
	doc, err := Parse(result.Stdout)
	if err != nil {
		return Document{}, faults.Wrap(faults.ErrToolInvocation, "probe", "mediainfo", path, err)
	}
	return doc, nil
}

// Probe implements probe.Prober.
func (p *Prober) Probe(ctx context.Context, path string, track probe.TrackType) (probe.Properties, error) {
	doc, err := p.Inspect(ctx, path)
	if err != nil {
		return probe.Properties{}, err
	}
	logger := p.logger.With(logging.String(logging.FieldSource, path))
	if doc.TrackCount(track) == 0 {
		logger.Debug("track type not present", logging.String("track", string(track)),
			logging.String("tracks", strconv.Itoa(len(doc.Media.Tracks))))
	}
	return probe.Extract(doc, track, logger), nil
}
