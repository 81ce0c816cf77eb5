package vfs

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

// Mem is an in-memory tree for tests and dry analysis.
type Mem struct {
	files map[string][]byte
	open  map[string]*Handle
}

// NewMem creates an empty in-memory tree.
func NewMem() *Mem {
	return &Mem{
		files: make(map[string][]byte),
		open:  make(map[string]*Handle),
	}
}

// Write stores or replaces a file.
func (t *Mem) Write(p string, content []byte) {
	t.files[path.Clean(p)] = content
}

func (t *Mem) Read(p string) ([]byte, error) {
	content, ok := t.files[path.Clean(p)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, os.ErrNotExist)
	}
	return content, nil
}

func (t *Mem) List(root string) ([]string, error) {
	root = path.Clean(root)
	out := make([]string, 0, len(t.files))
	for p := range t.files {
		if root == "." || p == root || strings.HasPrefix(p, root+"/") {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (t *Mem) BeginUpdate(p string) (*Handle, error) {
	p = path.Clean(p)
	if _, exists := t.open[p]; exists {
		return nil, fmt.Errorf("%w: %s", ErrUpdateOpen, p)
	}
	content, err := t.Read(p)
	if err != nil {
		return nil, err
	}
	h := NewHandle(p, content)
	t.open[p] = h
	return h, nil
}

func (t *Mem) CommitUpdate(h *Handle) error {
	if err := h.markCommitted(); err != nil {
		return err
	}
	delete(t.open, h.path)
	t.files[h.path] = h.content
	return nil
}
