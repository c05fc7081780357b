package pipeline

import (
	"fmt"
	"path/filepath"
	"strconv"

	"medialift/internal/filtergraph"
	"medialift/internal/media"
	"medialift/internal/media/probe"
	"medialift/internal/policy"
)

// EncodePlan is how one artifact gets built: either a hard link of the source
// or a transcoder run with Args.
type EncodePlan struct {
	Artifact media.Artifact
	Link     bool
	Args     []string

	BitRate int64
	Seek    int64
	Target  filtergraph.Target
}

// PlanArtifact computes the plan for one artifact of src. props is only read
// for kinds that need it (video and image).
func PlanArtifact(src media.SourceFile, artifact media.Artifact, props probe.Properties, s Settings) (EncodePlan, error) {
	switch src.Kind {
	case media.KindVideo:
		switch artifact.Kind {
		case media.ArtifactPoster:
			return planPoster(artifact, props, s)
		case media.ArtifactAlternate:
			return planVideoAlternate(artifact, props, s)
		default:
			return planVideoPrimary(artifact, props, s)
		}
	case media.KindAudio:
		if artifact.Kind == media.ArtifactAlternate {
			return planAudioAlternate(artifact, s), nil
		}
		return EncodePlan{Artifact: artifact, Link: true}, nil
	case media.KindImage:
		return planImage(artifact, props, s)
	default:
		return EncodePlan{Artifact: artifact, Link: true}, nil
	}
}

// NeedsProbe reports whether building artifact requires probed properties.
func NeedsProbe(kind media.Kind) bool {
	return kind == media.KindVideo || kind == media.KindImage
}

// ProbeTrack returns the track type inspected for kind.
func ProbeTrack(kind media.Kind) probe.TrackType {
	if kind == media.KindImage {
		return probe.TrackImage
	}
	return probe.TrackVideo
}

// videoTarget fits the frame inside the bounds. Without known dimensions the
// frame passes through unscaled, which is only acceptable when no watermark
// has to be sized against it.
func videoTarget(props probe.Properties, s Settings) (filtergraph.Target, error) {
	w, h, err := policy.ScaleToFitFor(props, s.MaxWidth, s.MaxHeight)
	if err != nil {
		if s.HasWatermark() {
			return filtergraph.Target{}, err
		}
		return filtergraph.Target{}, nil
	}
	return filtergraph.Target{Width: w, Height: h, Scale: w != props.Width || h != props.Height}, nil
}

func planVideoPrimary(artifact media.Artifact, props probe.Properties, s Settings) (EncodePlan, error) {
	maxRate, err := policy.MaxBitRateFor(props)
	if err != nil {
		return EncodePlan{}, err
	}
	if !policy.NeedsReencodeFor(props, maxRate, s.HasWatermark()) {
		return EncodePlan{Artifact: artifact, Link: true}, nil
	}
	target, err := videoTarget(props, s)
	if err != nil {
		return EncodePlan{}, err
	}
	rate := policy.CappedRateFor(props, maxRate)

	args := filtergraph.Args(s.Watermark, target)
	args = append(args,
		"-c:v", s.VideoCodec, "-b:v", strconv.FormatInt(rate, 10),
		"-c:a", s.AudioCodec,
		"-movflags", "+faststart",
	)
	return EncodePlan{Artifact: artifact, Args: args, BitRate: rate, Target: target}, nil
}

func planVideoAlternate(artifact media.Artifact, props probe.Properties, s Settings) (EncodePlan, error) {
	maxRate, err := policy.MaxBitRateFor(props)
	if err != nil {
		return EncodePlan{}, err
	}
	target, err := videoTarget(props, s)
	if err != nil {
		return EncodePlan{}, err
	}
	rate := policy.AlternateRate(policy.CappedRateFor(props, maxRate))

	args := filtergraph.Args(s.Watermark, target)
	args = append(args,
		"-c:v", s.AlternateVideoCodec, "-b:v", strconv.FormatInt(rate, 10),
		"-c:a", s.AlternateAudioCodec,
	)
	return EncodePlan{Artifact: artifact, Args: args, BitRate: rate, Target: target}, nil
}

func planPoster(artifact media.Artifact, props probe.Properties, s Settings) (EncodePlan, error) {
	target, err := videoTarget(props, s)
	if err != nil {
		return EncodePlan{}, err
	}
	seek := policy.PosterTimestampFor(props)

	// Seek on the output side; placed before the watermark -i it would seek that input.
	args := filtergraph.Args(s.Watermark, target)
	args = append(args, "-ss", strconv.FormatInt(seek, 10), "-frames:v", "1", "-q:v", strconv.Itoa(s.ImageQuality))
	return EncodePlan{Artifact: artifact, Args: args, Seek: seek, Target: target}, nil
}

func planAudioAlternate(artifact media.Artifact, s Settings) EncodePlan {
	return EncodePlan{Artifact: artifact, Args: []string{"-vn", "-c:a", s.AudioAlternateCodec}}
}

func planImage(artifact media.Artifact, props probe.Properties, s Settings) (EncodePlan, error) {
	w, h, err := policy.ScaleToFitFor(props, s.MaxWidth, s.MaxHeight)
	if err != nil {
		return EncodePlan{}, err
	}
	target := filtergraph.Target{Width: w, Height: h, Scale: w != props.Width || h != props.Height}

	args := filtergraph.Args(s.Watermark, target)
	args = append(args, "-frames:v", "1")
	if filepath.Ext(artifact.Dest) == ".jpg" {
		args = append(args, "-q:v", strconv.Itoa(s.ImageQuality))
	}
	return EncodePlan{Artifact: artifact, Args: args, Target: target}, nil
}

func planError(src media.SourceFile, artifact media.Artifact, err error) error {
	return fmt.Errorf("plan %s for %s: %w", artifact.Kind, src.Path, err)
}
