// Package testutil provides tree-building helpers for scanner and
// quarantine tests. Everything lives under t.TempDir() and is cleaned up
// automatically.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFixture is a scratch directory tree rooted at RootDir.
type TestFixture struct {
	T       *testing.T
	RootDir string
}

// NewFixture creates an empty fixture tree.
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()
	return &TestFixture{T: t, RootDir: t.TempDir()}
}

// Path returns the full path for a relative path within the fixture.
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// CreateFile creates a file (and its parents) with the given content and
// returns its path.
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateDir creates a directory and returns its path.
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateSymlink creates a symbolic link at relPath pointing at target.
func (f *TestFixture) CreateSymlink(target, relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.Symlink(target, fullPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullPath, target, err)
	}
	return fullPath
}

// CreateNoPermissionDir creates a directory that cannot be read, with a
// file trapped inside. Permissions are restored on cleanup so TempDir can
// remove it.
func (f *TestFixture) CreateNoPermissionDir(relPath string) string {
	f.T.Helper()

	fullPath := f.CreateDir(relPath)
	f.CreateFile(filepath.Join(relPath, "trapped.bin"), make([]byte, 128))
	if err := os.Chmod(fullPath, 0000); err != nil {
		f.T.Fatalf("failed to chmod %s: %v", fullPath, err)
	}
	f.T.Cleanup(func() {
		os.Chmod(fullPath, 0755)
	})
	return fullPath
}

// TreeSize returns the total size of all regular files beneath path.
func TreeSize(t *testing.T, path string) uint64 {
	t.Helper()

	var size uint64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			size += uint64(info.Size())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to size %s: %v", path, err)
	}
	return size
}

// SkipIfRoot skips the test when running as root: permission-denied
// fixtures are meaningless for an all-powerful user.
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("skipping test when running as root")
	}
}
