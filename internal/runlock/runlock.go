// Package runlock keeps two medialift runs from writing the same output tree.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"medialift/internal/config"
	"medialift/internal/faults"
)

// Lock is an advisory lock held on <output>/.medialift.lock.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the lock for outputDir without blocking. The output directory
// is created when missing. A lock held by another process is reported as a
// configuration error.
func Acquire(outputDir string) (*Lock, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "runlock", "mkdir", outputDir, err)
	}
	path := config.LockPath(outputDir)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "runlock", "acquire", path, err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrConfiguration, "runlock", "acquire",
			fmt.Sprintf("another medialift run holds %s", filepath.Base(path)), nil)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release unlocks. The file stays so every run locks the same inode.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
