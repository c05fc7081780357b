package policy

import (
	"errors"
	"testing"

	"medialift/internal/faults"
	"medialift/internal/media/probe"
)

func TestMaxBitRateTiers(t *testing.T) {
	tests := []struct {
		height int
		want   int64
	}{
		{300, 800_000},
		{399, 800_000},
		{400, 1_200_000},
		{719, 1_200_000},
		{720, 2_000_000},
		{2160, 2_000_000},
	}
	for _, tt := range tests {
		if got := MaxBitRate(tt.height); got != tt.want {
			t.Errorf("MaxBitRate(%d) = %d, want %d", tt.height, got, tt.want)
		}
	}
}

func TestCappedRate(t *testing.T) {
	if got := CappedRate(500_000, 800_000); got != 500_000 {
		t.Fatalf("expected source rate kept, got %d", got)
	}
	if got := CappedRate(3_000_000, 800_000); got != 800_000 {
		t.Fatalf("expected cap applied, got %d", got)
	}
}

func TestNeedsReencodeThreshold(t *testing.T) {
	if !NeedsReencode(1_000_000, 800_000, false) {
		t.Fatal("ratio 1.25 should re-encode")
	}
	if NeedsReencode(950_000, 800_000, false) {
		t.Fatal("ratio 1.1875 should not re-encode")
	}
	if NeedsReencode(800_000, 800_000, false) {
		t.Fatal("rate at the cap should not re-encode")
	}
	if !NeedsReencode(100_000, 800_000, true) {
		t.Fatal("watermark should force re-encode")
	}
}

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{3840, 2160, 1920, 1080},
		{800, 600, 800, 600},
		{1921, 1000, 1920, 999},
		{1080, 1920, 608, 1080},
		{4000, 1000, 1920, 480},
	}
	for _, tt := range tests {
		w, h := ScaleToFit(tt.w, tt.h, 1920, 1080)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("ScaleToFit(%d,%d) = (%d,%d), want (%d,%d)", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
		if w > tt.w || h > tt.h {
			t.Errorf("ScaleToFit(%d,%d) upscaled to (%d,%d)", tt.w, tt.h, w, h)
		}
	}
}

func TestPosterTimestamp(t *testing.T) {
	tests := []struct {
		durationMs int64
		want       int64
	}{
		{10_000, 5},
		{1_999, 0},
		{299_999, 149},
		{400_000_000, 150},
		{0, 0},
	}
	for _, tt := range tests {
		if got := PosterTimestamp(tt.durationMs); got != tt.want {
			t.Errorf("PosterTimestamp(%d) = %d, want %d", tt.durationMs, got, tt.want)
		}
	}
}

func TestOverlayGeometry(t *testing.T) {
	geo := OverlayGeometry(1000, 500)
	if geo.Pad != 25 || geo.OverlayWidth != 50 {
		t.Fatalf("unexpected geometry %+v", geo)
	}
	geo = OverlayGeometry(1920, 1070)
	if geo.Pad != 54 || geo.OverlayWidth != 108 {
		t.Fatalf("expected pad rounded half away from zero, got %+v", geo)
	}
}

func TestAlternateRate(t *testing.T) {
	if got := AlternateRate(800_000); got != 1_200_000 {
		t.Fatalf("unexpected alternate rate %d", got)
	}
}

func props(fields map[probe.Field]float64) probe.Properties {
	var p probe.Properties
	for field, value := range fields {
		p.Set(field, value)
	}
	return p
}

func TestPropertiesWrappersUnknownRules(t *testing.T) {
	empty := props(nil)

	if _, err := MaxBitRateFor(empty); !errors.Is(err, faults.ErrMissingMetadata) {
		t.Fatalf("expected missing height to fail, got %v", err)
	}
	if _, _, err := ScaleToFitFor(props(map[probe.Field]float64{probe.FieldWidth: 640}), 1920, 1080); !errors.Is(err, faults.ErrMissingMetadata) {
		t.Fatalf("expected missing height to fail scale, got %v", err)
	}
	if got := CappedRateFor(empty, 800_000); got != 800_000 {
		t.Fatalf("expected unknown rate to fall back to cap, got %d", got)
	}
	if NeedsReencodeFor(empty, 800_000, false) {
		t.Fatal("unknown rate should not force re-encode")
	}
	if !NeedsReencodeFor(empty, 800_000, true) {
		t.Fatal("watermark should still force re-encode")
	}
	if got := PosterTimestampFor(empty); got != 0 {
		t.Fatalf("expected unknown duration to fall back to 0, got %d", got)
	}

	known := props(map[probe.Field]float64{
		probe.FieldHeight:   300,
		probe.FieldWidth:    400,
		probe.FieldBitRate:  1_000_000,
		probe.FieldDuration: 10,
	})
	maxRate, err := MaxBitRateFor(known)
	if err != nil || maxRate != 800_000 {
		t.Fatalf("unexpected max rate %d (%v)", maxRate, err)
	}
	if !NeedsReencodeFor(known, maxRate, false) {
		t.Fatal("expected re-encode above threshold")
	}
	if got := PosterTimestampFor(known); got != 5 {
		t.Fatalf("expected 5s poster, got %d", got)
	}
	w, h, err := ScaleToFitFor(known, 1920, 1080)
	if err != nil || w != 400 || h != 300 {
		t.Fatalf("unexpected fit %dx%d (%v)", w, h, err)
	}
}
