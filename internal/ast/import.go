package ast

import "dimigrate/internal/source"

// ImportDecl represents one import statement.
type ImportDecl struct {
	Span     source.Span
	Module   string // module specifier without quotes
	TypeOnly bool   // import type { ... }; never merged into, erased at runtime

	DefaultName   string // import Foo from '...'
	NamespaceName string // import * as foo from '...'

	HasNamed  bool
	Named     []ImportSpec
	NamedSpan source.Span // the text between the braces, braces excluded
}

// ImportSpec is one entry of a named-import clause.
type ImportSpec struct {
	Name  string // exported name
	Alias string // local alias, "" when none
	Span  source.Span
}

// LocalName returns the name this specifier binds in the importing file.
func (s ImportSpec) LocalName() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// HasSymbol reports whether the import binds the exported name sym under
// that same local name. An aliased specifier does not count: the file then
// has no binding called sym, only the alias.
func (d *ImportDecl) HasSymbol(sym string) bool {
	for _, spec := range d.Named {
		if spec.Name == sym && spec.Alias == "" {
			return true
		}
	}
	return false
}

// Binds reports whether the import makes local visible in the file.
func (d *ImportDecl) Binds(local string) bool {
	if local != "" && (d.DefaultName == local || d.NamespaceName == local) {
		return true
	}
	for _, spec := range d.Named {
		if spec.LocalName() == local {
			return true
		}
	}
	return false
}
