// Package filtergraph builds the transcoder filter expressions for watermark
// compositing and plain scaling.
package filtergraph

import (
	"fmt"
	"strings"

	"medialift/internal/policy"
)

// Target describes the frame an overlay is placed on. When Scale is false the
// primary stream passes through at its own size and Width/Height only drive
// the watermark geometry.
type Target struct {
	Width  int
	Height int
	Scale  bool
}

// FilterSpec is a ready-to-use overlay graph.
type FilterSpec struct {
	Watermark string
	Graph     string
	Geometry  policy.Geometry
}

// BuildOverlay returns nil when no watermark is configured. The watermark is
// scaled to the overlay width with automatic height and placed pad pixels in
// from the top-left corner.
func BuildOverlay(watermark string, target Target) *FilterSpec {
	watermark = strings.TrimSpace(watermark)
	if watermark == "" {
		return nil
	}
	geo := policy.OverlayGeometry(target.Width, target.Height)
	mark := fmt.Sprintf("[1:v]scale=%d:-1[wm]", geo.OverlayWidth)
	overlay := fmt.Sprintf("overlay=%d:%d", geo.Pad, geo.Pad)

	var graph string
	if target.Scale {
		graph = fmt.Sprintf("[0:v]scale=%d:%d[base];%s;[base][wm]%s", target.Width, target.Height, mark, overlay)
	} else {
		graph = fmt.Sprintf("%s;[0:v][wm]%s", mark, overlay)
	}
	return &FilterSpec{Watermark: watermark, Graph: graph, Geometry: geo}
}

// Args renders the extra input and the graph for the transcoder.
func (f *FilterSpec) Args() []string {
	if f == nil {
		return nil
	}
	return []string{"-i", f.Watermark, "-filter_complex", f.Graph}
}

// ScaleArgs renders a simple scale filter for unwatermarked output.
func ScaleArgs(width, height int) []string {
	return []string{"-vf", fmt.Sprintf("scale=%d:%d", width, height)}
}

// Args chooses between the overlay graph and a plain scale. It returns nil
// when there is neither a watermark nor a scale to apply.
func Args(watermark string, target Target) []string {
	if spec := BuildOverlay(watermark, target); spec != nil {
		return spec.Args()
	}
	if target.Scale {
		return ScaleArgs(target.Width, target.Height)
	}
	return nil
}
