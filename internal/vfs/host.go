package vfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Host is the OS-backed tree.
type Host struct {
	open map[string]*Handle
}

// NewHost creates a tree over the real filesystem.
func NewHost() *Host {
	return &Host{open: make(map[string]*Handle)}
}

func (t *Host) Read(path string) ([]byte, error) {
	// #nosec G304 -- path comes from the project configuration
	return os.ReadFile(path)
}

func (t *Host) List(root string) ([]string, error) {
	out := make([]string, 0)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		out = append(out, filepath.ToSlash(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (t *Host) BeginUpdate(path string) (*Handle, error) {
	if _, exists := t.open[path]; exists {
		return nil, fmt.Errorf("%w: %s", ErrUpdateOpen, path)
	}
	content, err := t.Read(path)
	if err != nil {
		return nil, err
	}
	h := NewHandle(path, content)
	t.open[path] = h
	return h, nil
}

func (t *Host) CommitUpdate(h *Handle) error {
	if err := h.markCommitted(); err != nil {
		return err
	}
	delete(t.open, h.path)

	mode := os.FileMode(0o644)
	if info, err := os.Stat(h.path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(h.path, h.content, mode); err != nil {
		return fmt.Errorf("write %s: %w", h.path, err)
	}
	return nil
}
