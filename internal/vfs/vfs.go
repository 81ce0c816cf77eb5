// Package vfs is the virtual file tree the migration writes through: read a
// file, open an update handle, commit it. Committing is the only way content
// changes, so a run that never commits is a pure analysis.
package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrUpdateOpen is returned when a second update handle is requested
	// for a path whose first handle has not been committed.
	ErrUpdateOpen = errors.New("update already open for path")
	// ErrStaleHandle is returned when a handle is committed twice.
	ErrStaleHandle = errors.New("update handle already committed")
)

// Tree exposes a file hierarchy to the migration.
type Tree interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
	// List returns every regular file path under root, in sorted order.
	List(root string) ([]string, error)
	// BeginUpdate opens an update handle for path. At most one handle per
	// path may be open at a time.
	BeginUpdate(path string) (*Handle, error)
	// CommitUpdate persists the handle's content and closes the handle.
	CommitUpdate(h *Handle) error
}

// Handle is one pending update of a single file.
type Handle struct {
	path      string
	content   []byte
	committed bool
}

// NewHandle is used by Tree implementations.
func NewHandle(path string, original []byte) *Handle {
	return &Handle{path: path, content: original}
}

// Path returns the file path the handle updates.
func (h *Handle) Path() string { return h.path }

// Content returns the handle's current (possibly rewritten) content.
func (h *Handle) Content() []byte { return h.content }

// SetContent replaces the content that CommitUpdate will persist.
func (h *Handle) SetContent(content []byte) { h.content = content }

func (h *Handle) markCommitted() error {
	if h.committed {
		return fmt.Errorf("%w: %s", ErrStaleHandle, h.path)
	}
	h.committed = true
	return nil
}
