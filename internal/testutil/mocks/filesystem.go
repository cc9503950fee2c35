package mocks

import (
	"fmt"
	"os"
	"sync"

	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

// FileSystem is a thread-safe in-memory test double for ports.FileSystem.
type FileSystem struct {
	mu       sync.RWMutex
	files    map[string][]byte
	perms    map[string]os.FileMode
	symlinks map[string]string
	dirs     map[string]bool
	failures map[string]error
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:    make(map[string][]byte),
		perms:    make(map[string]os.FileMode),
		symlinks: make(map[string]string),
		dirs:     make(map[string]bool),
		failures: make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(path string, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
}

// AddSymlink adds a symlink to the mock filesystem.
func (fs *FileSystem) AddSymlink(link, target string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.symlinks[link] = target
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
}

// FailWrites makes WriteFile to the given path return err.
func (fs *FileSystem) FailWrites(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failures[path] = err
}

// Perm returns the mode the path was last written with.
func (fs *FileSystem) Perm(path string) os.FileMode {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.perms[path]
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		return content, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// WriteFile writes a file to the mock filesystem.
func (fs *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err, ok := fs.failures[path]; ok {
		return err
	}
	fs.files[path] = data
	fs.perms[path] = perm
	return nil
}

// Exists checks if a path exists in the mock filesystem.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, fileExists := fs.files[path]
	_, linkExists := fs.symlinks[path]
	return fileExists || linkExists || fs.dirs[path]
}

// IsSymlink checks if a path is a symlink in the mock filesystem.
func (fs *FileSystem) IsSymlink(path string) (bool, string) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if target, ok := fs.symlinks[path]; ok {
		return true, target
	}
	return false, ""
}

// CreateSymlink creates a symlink in the mock filesystem.
func (fs *FileSystem) CreateSymlink(target, link string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.symlinks[link] = target
	return nil
}

// Remove removes a path from the mock filesystem.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, path)
	delete(fs.perms, path)
	delete(fs.symlinks, path)
	delete(fs.dirs, path)
	return nil
}

// MkdirAll creates a directory in the mock filesystem.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	return nil
}

// Rename renames a path in the mock filesystem.
func (fs *FileSystem) Rename(oldPath, newPath string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if content, ok := fs.files[oldPath]; ok {
		fs.files[newPath] = content
		delete(fs.files, oldPath)
		return nil
	}
	if target, ok := fs.symlinks[oldPath]; ok {
		fs.symlinks[newPath] = target
		delete(fs.symlinks, oldPath)
		return nil
	}
	return fmt.Errorf("file not found: %s", oldPath)
}

// Chmod changes the recorded mode of a file.
func (fs *FileSystem) Chmod(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	fs.perms[path] = perm
	return nil
}

// IsDir checks if a path is a directory in the mock filesystem.
func (fs *FileSystem) IsDir(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirs[path]
}

// Reset clears all files, symlinks, and directories.
func (fs *FileSystem) Reset() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files = make(map[string][]byte)
	fs.perms = make(map[string]os.FileMode)
	fs.symlinks = make(map[string]string)
	fs.dirs = make(map[string]bool)
	fs.failures = make(map[string]error)
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
