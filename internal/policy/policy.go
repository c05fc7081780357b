package policy

import (
	"fmt"
	"math"

	"medialift/internal/faults"
	"medialift/internal/media/probe"
)

// Bit rate tiers in bits per second.
const (
	LowTierRate  int64 = 800_000
	MidTierRate  int64 = 1_200_000
	HighTierRate int64 = 2_000_000

	lowTierHeight = 400
	midTierHeight = 720

	// ReencodeRatio is how far above the cap a source may run before it is
	// re-encoded instead of linked.
	ReencodeRatio = 1.2
	// AlternateRateFactor scales the capped rate for the alternate rendition.
	AlternateRateFactor = 1.5

	// MaxPosterSeconds bounds the poster timestamp for long media.
	MaxPosterSeconds = 150

	// DefaultMaxWidth and DefaultMaxHeight are the fit bounds for images and video.
	DefaultMaxWidth  = 1920
	DefaultMaxHeight = 1080
)

// MaxBitRate returns the tiered cap for a frame height. Boundaries are strict:
// a height of exactly 400 is in the middle tier.
func MaxBitRate(height int) int64 {
	switch {
	case height < lowTierHeight:
		return LowTierRate
	case height < midTierHeight:
		return MidTierRate
	default:
		return HighTierRate
	}
}

// CappedRate never raises a rate above the source's measured rate.
func CappedRate(measured, maxRate int64) int64 {
	return min(measured, maxRate)
}

// NeedsReencode reports whether the primary rendition must be re-encoded.
// Compositing a watermark always requires it.
func NeedsReencode(measured, maxRate int64, hasWatermark bool) bool {
	return hasWatermark || float64(measured) > float64(maxRate)*ReencodeRatio
}

// AlternateRate is the target for the alternate-codec rendition.
func AlternateRate(capped int64) int64 {
	return int64(math.Round(float64(capped) * AlternateRateFactor))
}

// ScaleToFit shrinks (width, height) to fit inside the bounds while keeping the
// aspect ratio. It never enlarges. Rounding is half away from zero.
func ScaleToFit(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	scale := min(1.0, float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	return int(math.Round(float64(width) * scale)), int(math.Round(float64(height) * scale))
}

// PosterTimestamp picks the poster frame offset in whole seconds: half the
// duration, capped at MaxPosterSeconds so long media samples near the start.
func PosterTimestamp(durationMs int64) int64 {
	if durationMs <= 0 {
		return 0
	}
	return min(MaxPosterSeconds, durationMs/2000)
}

// Geometry places a watermark on a target frame.
type Geometry struct {
	Pad          int
	OverlayWidth int
}

// OverlayGeometry derives padding and overlay width from the target's own
// dimensions: pad is a twentieth of the shorter side, the overlay twice that.
func OverlayGeometry(width, height int) Geometry {
	pad := int(math.Round(float64(min(width, height)) / 20))
	return Geometry{Pad: pad, OverlayWidth: pad * 2}
}

// MaxBitRateFor requires a known height.
func MaxBitRateFor(props probe.Properties) (int64, error) {
	if !props.Has(probe.FieldHeight) {
		return 0, missing("max bit rate", probe.FieldHeight)
	}
	return MaxBitRate(props.Height), nil
}

// CappedRateFor falls back to the cap when the measured rate is unknown.
func CappedRateFor(props probe.Properties, maxRate int64) int64 {
	if !props.Has(probe.FieldBitRate) || props.BitRate <= 0 {
		return maxRate
	}
	return CappedRate(props.BitRate, maxRate)
}

// NeedsReencodeFor does not re-encode on bit rate grounds when the measured
// rate is unknown; only a watermark forces it then.
func NeedsReencodeFor(props probe.Properties, maxRate int64, hasWatermark bool) bool {
	if !props.Has(probe.FieldBitRate) {
		return hasWatermark
	}
	return NeedsReencode(props.BitRate, maxRate, hasWatermark)
}

// ScaleToFitFor requires known width and height.
func ScaleToFitFor(props probe.Properties, maxWidth, maxHeight int) (int, int, error) {
	if !props.Has(probe.FieldWidth) || props.Width <= 0 {
		return 0, 0, missing("scale to fit", probe.FieldWidth)
	}
	if !props.Has(probe.FieldHeight) || props.Height <= 0 {
		return 0, 0, missing("scale to fit", probe.FieldHeight)
	}
	w, h := ScaleToFit(props.Width, props.Height, maxWidth, maxHeight)
	return w, h, nil
}

// PosterTimestampFor falls back to the first frame when duration is unknown.
func PosterTimestampFor(props probe.Properties) int64 {
	if !props.Has(probe.FieldDuration) {
		return 0
	}
	return PosterTimestamp(props.DurationMs)
}

func missing(decision string, field probe.Field) error {
	return faults.Wrap(faults.ErrMissingMetadata, "policy", decision, fmt.Sprintf("%s unknown", field), nil)
}
