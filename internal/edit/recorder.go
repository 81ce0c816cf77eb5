package edit

import (
	"dimigrate/internal/source"
	"dimigrate/internal/vfs"
)

// Recorder buffers edit intents for a single file and commits them exactly
// once. Create one lazily per file; the vfs refuses a second open handle for
// the same path, so two live recorders for one file cannot exist.
type Recorder struct {
	handle    *vfs.Handle
	intents   []Intent
	seq       int
	committed bool
}

// NewRecorder wraps an update handle.
func NewRecorder(h *vfs.Handle) *Recorder {
	return &Recorder{handle: h}
}

// Path returns the path of the file being updated.
func (r *Recorder) Path() string { return r.handle.Path() }

// Len returns the number of buffered intents.
func (r *Recorder) Len() int { return len(r.intents) }

// Intents returns the buffered intents. READONLY.
func (r *Recorder) Intents() []Intent { return r.intents }

func (r *Recorder) push(in Intent) {
	in.seq = r.seq
	r.seq++
	r.intents = append(r.intents, in)
}

// AddClassComment queues a comment line right-anchored at the class start,
// so that a new import landing at the same offset stays above it.
func (r *Recorder) AddClassComment(classStart uint32, text string) {
	r.push(Intent{Kind: InsertRight, Offset: classStart, Text: text})
}

// AddClassDecorator queues a decorator line right-anchored at the class
// start. Queue the comment first: same-offset InsertRight intents keep
// their queue order.
func (r *Recorder) AddClassDecorator(classStart uint32, text string) {
	r.push(Intent{Kind: InsertRight, Offset: classStart, Text: text})
}

// AddNewImport queues a whole new import statement, left-anchored so it
// always precedes decorator text at the same offset.
func (r *Recorder) AddNewImport(offset uint32, text string) {
	r.push(Intent{Kind: InsertLeft, Offset: offset, Text: text})
}

// UpdateExistingImport replaces oldRange with newText (remove plus
// right-anchored reinsert at the range start).
func (r *Recorder) UpdateExistingImport(oldRange source.Span, newText string) {
	r.push(Intent{Kind: Remove, Offset: oldRange.Start, Length: oldRange.Len()})
	r.push(Intent{Kind: InsertRight, Offset: oldRange.Start, Text: newText})
}

// Commit applies the buffered intents and persists the file through tree.
// Committing twice, or with nothing buffered, is a no-op.
func (r *Recorder) Commit(tree vfs.Tree) error {
	if r.committed {
		return nil
	}
	r.committed = true
	if len(r.intents) == 0 {
		return nil
	}
	content, err := Apply(r.handle.Content(), r.intents)
	if err != nil {
		return err
	}
	r.handle.SetContent(content)
	return tree.CommitUpdate(r.handle)
}
