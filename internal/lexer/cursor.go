package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"dimigrate/internal/source"
)

// Cursor is a byte-oriented reader over a single file's content.
type Cursor struct {
	file *source.File
	pos  uint32
}

// NewCursor creates a cursor at the beginning of the file.
func NewCursor(file *source.File) Cursor {
	return Cursor{file: file}
}

// EOF reports whether the cursor is past the last byte.
func (c *Cursor) EOF() bool {
	return int(c.pos) >= len(c.file.Content)
}

// Peek returns the current byte without consuming it. 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.file.Content[c.pos]
}

// PeekAt returns the byte n positions ahead. 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	idx := int(c.pos) + int(n)
	if idx >= len(c.file.Content) {
		return 0
	}
	return c.file.Content[idx]
}

// Advance consumes one byte.
func (c *Cursor) Advance() {
	if !c.EOF() {
		c.pos++
	}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() uint32 {
	return c.pos
}

// SpanFrom builds a span from start to the current position.
func (c *Cursor) SpanFrom(start uint32) source.Span {
	return source.Span{File: c.file.ID, Start: start, End: c.pos}
}

// TextFrom returns the raw source text from start to the current position.
func (c *Cursor) TextFrom(start uint32) string {
	return string(c.file.Content[start:c.pos])
}

// Len returns the total content length as uint32.
func (c *Cursor) Len() uint32 {
	n, err := safecast.Conv[uint32](len(c.file.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}
