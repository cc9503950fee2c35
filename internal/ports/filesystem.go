package ports

import (
	"os"
)

// FileSystem provides the file system operations provisioning actions need.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsSymlink(path string) (isLink bool, target string)
	CreateSymlink(target, link string) error
	Remove(path string) error
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldPath, newPath string) error
	Chmod(path string, perm os.FileMode) error
	IsDir(path string) bool
}
