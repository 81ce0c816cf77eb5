package ast

import (
	"dimigrate/internal/source"
)

// Tree owns every node of one analyzed program. Node IDs are unique across
// the whole program, so sets keyed by ClassID distinguish same-named classes
// from different files and scopes.
type Tree struct {
	Files   *Arena[SourceFile]
	Classes *Arena[ClassDecl]
	Imports *Arena[ImportDecl]
}

// NewTree creates an empty tree sized for capHint files.
func NewTree(capHint uint) *Tree {
	return &Tree{
		Files:   NewArena[SourceFile](capHint),
		Classes: NewArena[ClassDecl](capHint * 4),
		Imports: NewArena[ImportDecl](capHint * 4),
	}
}

// SourceFile is the parsed view of one file: its imports and every class
// declaration reachable from the top level or nested scopes, in source order.
type SourceFile struct {
	File    source.FileID
	Span    source.Span
	Imports []ImportID
	Classes []ClassID
}

// NewFile allocates a SourceFile node.
func (t *Tree) NewFile(file source.FileID, span source.Span) FileID {
	return FileID(t.Files.Allocate(SourceFile{
		File:    file,
		Span:    span,
		Imports: make([]ImportID, 0),
		Classes: make([]ClassID, 0),
	}))
}

// File returns the SourceFile node for id.
func (t *Tree) File(id FileID) *SourceFile {
	return t.Files.Get(uint32(id))
}

// NewClass allocates a ClassDecl node and records it in its file.
func (t *Tree) NewClass(fileID FileID, decl ClassDecl) ClassID {
	id := ClassID(t.Classes.Allocate(decl))
	f := t.File(fileID)
	f.Classes = append(f.Classes, id)
	return id
}

// Class returns the ClassDecl node for id.
func (t *Tree) Class(id ClassID) *ClassDecl {
	return t.Classes.Get(uint32(id))
}

// NewImport allocates an ImportDecl node and records it in its file.
func (t *Tree) NewImport(fileID FileID, decl ImportDecl) ImportID {
	id := ImportID(t.Imports.Allocate(decl))
	f := t.File(fileID)
	f.Imports = append(f.Imports, id)
	return id
}

// Import returns the ImportDecl node for id.
func (t *Tree) Import(id ImportID) *ImportDecl {
	return t.Imports.Get(uint32(id))
}
