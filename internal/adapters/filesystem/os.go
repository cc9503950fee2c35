// Package filesystem provides the OS-backed file system adapter.
package filesystem

import (
	"os"

	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

// OSFileSystem implements ports.FileSystem against the real file system.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile reads the file at path.
func (f *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path with the given permissions.
func (f *OSFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Exists returns true if path exists.
func (f *OSFileSystem) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsSymlink reports whether path is a symlink and its target.
func (f *OSFileSystem) IsSymlink(path string) (bool, string) {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return false, ""
	}
	target, err := os.Readlink(path)
	if err != nil {
		return true, ""
	}
	return true, target
}

// CreateSymlink creates a symlink at link pointing to target.
func (f *OSFileSystem) CreateSymlink(target, link string) error {
	return os.Symlink(target, link)
}

// Remove removes the file or empty directory at path.
func (f *OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// MkdirAll creates a directory tree.
func (f *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Rename renames oldPath to newPath.
func (f *OSFileSystem) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Chmod changes the permissions of path.
func (f *OSFileSystem) Chmod(path string, perm os.FileMode) error {
	return os.Chmod(path, perm)
}

// IsDir returns true if path exists and is a directory.
func (f *OSFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Ensure OSFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*OSFileSystem)(nil)
