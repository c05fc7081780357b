package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// renameFunc and linkFunc are swapped in tests to simulate EXDEV.
var (
	renameFunc = os.Rename
	linkFunc   = os.Link
)

// CrossDeviceError reports a rename or link that crossed filesystems.
type CrossDeviceError struct {
	Op  string
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("%s %q -> %q crosses filesystems: %v", e.Op, e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// TempPath returns the in-progress name for dest: dest + ".tmp" + ext, so
// "clip.mp4" becomes "clip.mp4.tmp.mp4" and tools that sniff the extension
// still pick the right muxer.
func TempPath(dest string) string {
	return dest + ".tmp" + filepath.Ext(dest)
}

// Rename wraps os.Rename and marks EXDEV failures as CrossDeviceError.
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Op: "rename", Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// InstallLink makes dst a hard link of src via a temp name and a rename, so
// dst is never observed half-written. When src and dst live on different
// filesystems it copies instead and reports copied=true.
func InstallLink(src, dst string) (copied bool, err error) {
	tmp := TempPath(dst)
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("clear temp %s: %w", tmp, err)
	}

	if err := linkFunc(src, tmp); err != nil {
		if !isEXDEV(err) {
			return false, fmt.Errorf("link %s: %w", dst, err)
		}
		info, statErr := os.Stat(src)
		if statErr != nil {
			return false, fmt.Errorf("stat source: %w", statErr)
		}
		if err := CopyFileMode(src, tmp, info.Mode().Perm()); err != nil {
			return false, fmt.Errorf("copy %s: %w", dst, err)
		}
		copied = true
	}

	if err := Rename(tmp, dst); err != nil {
		return copied, err
	}
	// Renaming a link onto another link of the same inode is a no-op that
	// leaves the temp name behind.
	if _, err := os.Lstat(tmp); err == nil {
		_ = os.Remove(tmp)
	}
	return copied, nil
}

// SameFile reports whether a and b are the same inode.
func SameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Sync(); err != nil {
		return err
	}
	return out.Close()
}
