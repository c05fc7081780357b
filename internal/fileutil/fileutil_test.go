package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestTempPathKeepsExtension(t *testing.T) {
	if got := TempPath("/out/clip.mp4"); got != "/out/clip.mp4.tmp.mp4" {
		t.Fatalf("unexpected temp path %q", got)
	}
	if got := TempPath("/out/README"); got != "/out/README.tmp" {
		t.Fatalf("unexpected temp path %q", got)
	}
}

func TestInstallLinkSharesInode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "out", "dst.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	copied, err := InstallLink(src, dst)
	if err != nil {
		t.Fatalf("InstallLink returned error: %v", err)
	}
	if copied {
		t.Fatal("expected hard link, not copy")
	}
	if !SameFile(src, dst) {
		t.Fatal("expected destination to share the source inode")
	}
	if _, err := os.Stat(TempPath(dst)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp removed, got %v", err)
	}
}

func TestInstallLinkReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := InstallLink(src, dst); err != nil {
		t.Fatalf("InstallLink returned error: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("expected replaced content, got %q", got)
	}

	// Linking again onto the same inode must not leave the temp behind.
	if _, err := InstallLink(src, dst); err != nil {
		t.Fatalf("second InstallLink returned error: %v", err)
	}
	if _, err := os.Stat(TempPath(dst)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp removed after relink, got %v", err)
	}
}

func TestInstallLinkFallsBackToCopyAcrossDevices(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o640); err != nil {
		t.Fatal(err)
	}

	orig := linkFunc
	linkFunc = func(oldname, newname string) error {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { linkFunc = orig })

	copied, err := InstallLink(src, dst)
	if err != nil {
		t.Fatalf("InstallLink returned error: %v", err)
	}
	if !copied {
		t.Fatal("expected copy fallback")
	}
	if SameFile(src, dst) {
		t.Fatal("copy should produce a distinct inode")
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "payload" {
		t.Fatalf("unexpected copy content %q (%v)", got, err)
	}
}

func TestRenameMarksCrossDevice(t *testing.T) {
	orig := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { renameFunc = orig })

	err := Rename("a", "b")
	if !IsCrossDevice(err) {
		t.Fatalf("expected CrossDeviceError, got %v", err)
	}
	if !errors.Is(err, syscall.EXDEV) {
		t.Fatalf("expected EXDEV to unwrap, got %v", err)
	}
}

func TestCopyFileMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileMode(src, dst, 0o755); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Fatalf("expected executable bits, got %o", info.Mode().Perm())
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}
