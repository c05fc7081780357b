package filtergraph

import (
	"reflect"
	"testing"
)

func TestBuildOverlayWithoutWatermark(t *testing.T) {
	if spec := BuildOverlay("  ", Target{Width: 1000, Height: 500, Scale: true}); spec != nil {
		t.Fatalf("expected nil spec, got %+v", spec)
	}
	var nilSpec *FilterSpec
	if nilSpec.Args() != nil {
		t.Fatal("expected nil args from nil spec")
	}
}

func TestBuildOverlayScaled(t *testing.T) {
	spec := BuildOverlay("/marks/logo.png", Target{Width: 1000, Height: 500, Scale: true})
	if spec == nil {
		t.Fatal("expected spec")
	}
	if spec.Geometry.Pad != 25 || spec.Geometry.OverlayWidth != 50 {
		t.Fatalf("unexpected geometry %+v", spec.Geometry)
	}
	want := "[0:v]scale=1000:500[base];[1:v]scale=50:-1[wm];[base][wm]overlay=25:25"
	if spec.Graph != want {
		t.Fatalf("graph = %q, want %q", spec.Graph, want)
	}
	args := spec.Args()
	if !reflect.DeepEqual(args, []string{"-i", "/marks/logo.png", "-filter_complex", want}) {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestBuildOverlayPassthrough(t *testing.T) {
	spec := BuildOverlay("logo.png", Target{Width: 640, Height: 360})
	want := "[1:v]scale=36:-1[wm];[0:v][wm]overlay=18:18"
	if spec.Graph != want {
		t.Fatalf("graph = %q, want %q", spec.Graph, want)
	}
}

func TestArgsFallsBackToScale(t *testing.T) {
	if got := Args("", Target{Width: 1920, Height: 1080, Scale: true}); !reflect.DeepEqual(got, []string{"-vf", "scale=1920:1080"}) {
		t.Fatalf("unexpected scale args %v", got)
	}
	if got := Args("", Target{Width: 800, Height: 600}); got != nil {
		t.Fatalf("expected no args, got %v", got)
	}
}
