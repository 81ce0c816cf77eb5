package migrate

import (
	"dimigrate/internal/edit"
	"dimigrate/internal/source"
	"dimigrate/internal/vfs"
)

// RecorderSet hands out one update recorder per source file, created lazily
// on the first edit and committed together after the whole file set has
// been processed.
type RecorderSet struct {
	tree   vfs.Tree
	fset   *source.FileSet
	byFile map[source.FileID]*edit.Recorder
	order  []source.FileID
}

// NewRecorderSet creates an empty set writing through tree.
func NewRecorderSet(tree vfs.Tree, fset *source.FileSet) *RecorderSet {
	return &RecorderSet{
		tree:   tree,
		fset:   fset,
		byFile: make(map[source.FileID]*edit.Recorder),
	}
}

// For returns the recorder for a file, opening its update handle on first
// use. The vfs guarantees a path has at most one open handle, so the same
// file can never be driven by two recorders.
func (s *RecorderSet) For(fileID source.FileID) (*edit.Recorder, error) {
	if rec, ok := s.byFile[fileID]; ok {
		return rec, nil
	}
	handle, err := s.tree.BeginUpdate(s.fset.Get(fileID).Path)
	if err != nil {
		return nil, err
	}
	rec := edit.NewRecorder(handle)
	s.byFile[fileID] = rec
	s.order = append(s.order, fileID)
	return rec, nil
}

// Peek returns the recorder for a file only if one already exists.
func (s *RecorderSet) Peek(fileID source.FileID) (*edit.Recorder, bool) {
	rec, ok := s.byFile[fileID]
	return rec, ok
}

// Len returns the number of live recorders.
func (s *RecorderSet) Len() int { return len(s.order) }

// Paths returns the paths of files with a live recorder, in creation order.
func (s *RecorderSet) Paths() []string {
	out := make([]string, 0, len(s.order))
	for _, fileID := range s.order {
		out = append(out, s.byFile[fileID].Path())
	}
	return out
}

// CommitAll commits every recorder exactly once, in creation order. A
// failure in one file does not stop the remaining files; the first error is
// returned after all commits were attempted.
func (s *RecorderSet) CommitAll() error {
	var firstErr error
	for _, fileID := range s.order {
		if err := s.byFile[fileID].Commit(s.tree); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
