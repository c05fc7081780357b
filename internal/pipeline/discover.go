package pipeline

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"medialift/internal/faults"
	"medialift/internal/logging"
	"medialift/internal/media"
)

// Discover walks root and returns its visible regular files in lexical order.
// Hidden files and directories are skipped, as is exclude (normally the output
// root when it sits inside the input tree). Symlinks are not followed.
func Discover(root, exclude string, logger *slog.Logger) ([]media.SourceFile, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	root = filepath.Clean(root)
	if exclude != "" {
		exclude = filepath.Clean(exclude)
	}

	var files []media.SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && media.IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if exclude != "" && path == exclude {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			logger.Debug("skipping non-regular file", logging.String(logging.FieldSource, path), logging.String("mode", d.Type().String()))
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, media.SourceFile{
			Path:    path,
			Rel:     rel,
			ModTime: info.ModTime(),
			Kind:    media.Classify(d.Name()),
		})
		return nil
	})
	if err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "pipeline", "discover", fmt.Sprintf("walk %s", root), err)
	}
	return files, nil
}
