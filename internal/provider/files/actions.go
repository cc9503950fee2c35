// Package files provides actions that create directories and write
// rendered configuration files on the host.
package files

import (
	"bytes"
	"fmt"
	"os"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

// EnsureDirAction creates a directory tree with the given permissions.
// An existing directory is success.
type EnsureDirAction struct {
	path string
	perm os.FileMode
	desc deployment.Descriptor
	fs   ports.FileSystem
}

// NewEnsureDirAction creates a directory action.
func NewEnsureDirAction(path string, perm os.FileMode, fs ports.FileSystem) *EnsureDirAction {
	return &EnsureDirAction{
		path: path,
		perm: perm,
		desc: deployment.MustNewDescriptor(deployment.KindDirectory, path, path),
		fs:   fs,
	}
}

// Descriptor returns the directory descriptor.
func (a *EnsureDirAction) Descriptor() deployment.Descriptor {
	return a.desc
}

// Apply creates the directory tree.
func (a *EnsureDirAction) Apply(ctx pipeline.RunContext) error {
	if a.fs.IsDir(a.path) {
		ctx.Logger().Debug(ctx.Context(), "directory already exists", ports.F("path", a.path))
		return nil
	}
	if err := a.fs.MkdirAll(a.path, a.perm); err != nil {
		return fmt.Errorf("create directory %s: %w", a.path, err)
	}
	return nil
}

// Present reports whether the directory exists.
func (a *EnsureDirAction) Present(_ pipeline.RunContext) (bool, error) {
	return a.fs.Exists(a.path), nil
}

// Undo removes the directory. Absent is success; a non-empty directory
// surfaces as an error for the executor to downgrade to a warning.
func (a *EnsureDirAction) Undo(_ pipeline.RunContext) error {
	if !a.fs.Exists(a.path) {
		return nil
	}
	if err := a.fs.Remove(a.path); err != nil {
		return fmt.Errorf("remove directory %s: %w", a.path, err)
	}
	return nil
}

// WriteFileAction writes rendered content to one host path. Rewriting a
// file that already holds the desired content is a no-op.
type WriteFileAction struct {
	name    string
	path    string
	content string
	perm    os.FileMode
	desc    deployment.Descriptor
	fs      ports.FileSystem
}

// NewWriteFileAction creates a write action. The name identifies the
// rendered artifact (such as "myapp env file") independent of its path.
func NewWriteFileAction(name, path, content string, perm os.FileMode, fs ports.FileSystem) *WriteFileAction {
	return &WriteFileAction{
		name:    name,
		path:    path,
		content: content,
		perm:    perm,
		desc:    deployment.MustNewDescriptor(deployment.KindRenderedFile, name, path),
		fs:      fs,
	}
}

// NewRemoveFileAction creates an undo-only action for a previously
// written file, reconstructed from its registry descriptor.
func NewRemoveFileAction(desc deployment.Descriptor, fs ports.FileSystem) *WriteFileAction {
	return &WriteFileAction{
		name: desc.Identifier(),
		path: desc.Locator(),
		desc: desc,
		fs:   fs,
	}
}

// Descriptor returns the rendered-file descriptor.
func (a *WriteFileAction) Descriptor() deployment.Descriptor {
	return a.desc
}

// Apply writes the content unless the file already matches it.
func (a *WriteFileAction) Apply(ctx pipeline.RunContext) error {
	if a.fs.Exists(a.path) {
		existing, err := a.fs.ReadFile(a.path)
		if err == nil && bytes.Equal(existing, []byte(a.content)) {
			ctx.Logger().Debug(ctx.Context(), "file already up to date", ports.F("path", a.path))
			return nil
		}
	}
	if err := a.fs.WriteFile(a.path, []byte(a.content), a.perm); err != nil {
		return fmt.Errorf("write %s: %w", a.path, err)
	}
	return nil
}

// Present reports whether the file exists.
func (a *WriteFileAction) Present(_ pipeline.RunContext) (bool, error) {
	return a.fs.Exists(a.path), nil
}

// Undo removes the file. Absent is success.
func (a *WriteFileAction) Undo(_ pipeline.RunContext) error {
	if !a.fs.Exists(a.path) {
		return nil
	}
	if err := a.fs.Remove(a.path); err != nil {
		return fmt.Errorf("remove %s: %w", a.path, err)
	}
	return nil
}

// Ensure actions implement pipeline.StatefulAction.
var (
	_ pipeline.StatefulAction = (*EnsureDirAction)(nil)
	_ pipeline.StatefulAction = (*WriteFileAction)(nil)
)
