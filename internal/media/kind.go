package media

import (
	"path/filepath"
	"strings"
)

// Kind is the closed set of source file categories.
type Kind int

const (
	KindPassthrough Kind = iota
	KindAudio
	KindVideo
	KindImage
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindVideo, KindAudio, KindImage, KindPassthrough}

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindImage:
		return "image"
	default:
		return "passthrough"
	}
}

var kindsByExtension = map[string]Kind{
	".mp3": KindAudio,
	".mp4": KindVideo,
	".jpg": KindImage,
	".png": KindImage,
}

// Classify resolves the kind of a file from its extension. Matching is
// case-sensitive; anything unrecognized is passthrough.
func Classify(name string) Kind {
	if kind, ok := kindsByExtension[filepath.Ext(name)]; ok {
		return kind
	}
	return KindPassthrough
}

// IsHidden reports whether a file or directory name starts with a dot.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
