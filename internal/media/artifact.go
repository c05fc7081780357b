package media

import (
	"strings"
	"time"
)

// ArtifactKind identifies one derived output of a source file.
type ArtifactKind int

const (
	ArtifactPrimary ArtifactKind = iota
	ArtifactPoster
	ArtifactAlternate
)

func (k ArtifactKind) String() string {
	switch k {
	case ArtifactPoster:
		return "poster"
	case ArtifactAlternate:
		return "alternate"
	default:
		return "primary"
	}
}

// Derived artifact extensions.
const (
	PosterExt         = ".jpg"
	AlternateVideoExt = ".webm"
	AlternateAudioExt = ".ogg"
)

// SourceFile is a discovered input. It is never modified by the pipeline.
type SourceFile struct {
	Path    string
	Rel     string
	ModTime time.Time
	Kind    Kind
}

// Artifact is one destination file derived from a SourceFile.
type Artifact struct {
	Kind ArtifactKind
	Dest string
}

// Artifacts returns the derived outputs for a source of the given kind whose
// primary output lives at dest. Video artifacts are ordered poster, primary,
// alternate.
func Artifacts(kind Kind, dest string) []Artifact {
	switch kind {
	case KindVideo:
		return []Artifact{
			{Kind: ArtifactPoster, Dest: ReplaceExt(dest, PosterExt)},
			{Kind: ArtifactPrimary, Dest: dest},
			{Kind: ArtifactAlternate, Dest: ReplaceExt(dest, AlternateVideoExt)},
		}
	case KindAudio:
		return []Artifact{
			{Kind: ArtifactPrimary, Dest: dest},
			{Kind: ArtifactAlternate, Dest: ReplaceExt(dest, AlternateAudioExt)},
		}
	default:
		return []Artifact{{Kind: ArtifactPrimary, Dest: dest}}
	}
}

// ReplaceExt swaps the final extension of path for ext.
func ReplaceExt(path, ext string) string {
	if idx := strings.LastIndexByte(path, '.'); idx > strings.LastIndexByte(path, '/') {
		return path[:idx] + ext
	}
	return path + ext
}
