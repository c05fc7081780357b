// Package watermark checks the overlay image before any transcoding starts.
package watermark

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"medialift/internal/faults"
)

// Info describes a decodable watermark image.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
}

// Validate opens path and decodes its header. Unreadable or undecodable files
// and zero-sized images are configuration errors.
func Validate(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, faults.Wrap(faults.ErrConfiguration, "watermark", "open", path, err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return Info{}, faults.Wrap(faults.ErrConfiguration, "watermark", "decode", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, faults.Wrap(faults.ErrConfiguration, "watermark", "decode",
			fmt.Sprintf("%s has empty dimensions %dx%d", path, cfg.Width, cfg.Height), nil)
	}
	return Info{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
