package sema

import (
	"path"
	"strings"

	"dimigrate/internal/ast"
	"dimigrate/internal/diag"
	"dimigrate/internal/source"
)

// Checker provides semantic lookups over one analyzed program: which class a
// name refers to, where an inheritance chain leads, and whether a
// constructor parameter's type can be traced to an importable symbol.
// State is per program and discarded with it.
type Checker struct {
	fset *source.FileSet
	tree *ast.Tree

	files         []ast.FileID
	classesByFile map[ast.FileID]map[string]ast.ClassID
	fileByPath    map[string]ast.FileID
	classOwner    map[ast.ClassID]ast.FileID
}

// erasedTypeNames are annotations that never correspond to a runtime value.
var erasedTypeNames = map[string]bool{
	"string": true, "number": true, "boolean": true, "symbol": true,
	"bigint": true, "any": true, "unknown": true, "never": true,
	"void": true, "null": true, "undefined": true, "object": true,
	"Object": true, "Function": true, "Array": true, "ReadonlyArray": true,
	"Partial": true, "Record": true, "Map": true, "Set": true, "Promise": true,
}

// NewChecker indexes the program's declarations. Structural inconsistencies
// (duplicate class names in one file, self-inheritance) are reported through
// reporter as structural diagnostics.
func NewChecker(fset *source.FileSet, tree *ast.Tree, files []ast.FileID, reporter diag.Reporter) *Checker {
	c := &Checker{
		fset:          fset,
		tree:          tree,
		files:         files,
		classesByFile: make(map[ast.FileID]map[string]ast.ClassID, len(files)),
		fileByPath:    make(map[string]ast.FileID, len(files)),
		classOwner:    make(map[ast.ClassID]ast.FileID),
	}

	for _, fid := range files {
		sf := tree.File(fid)
		srcFile := fset.Get(sf.File)
		c.fileByPath[srcFile.Path] = fid

		seenModules := make(map[string]source.Span, len(sf.Imports))
		for _, iid := range sf.Imports {
			imp := tree.Import(iid)
			if imp.TypeOnly {
				continue
			}
			if first, dup := seenModules[imp.Module]; dup {
				if reporter != nil {
					reporter.Report(diag.SemDuplicateImport, diag.SevWarning, imp.Span,
						"duplicate import from '"+imp.Module+"'",
						[]diag.Note{{Span: first, Msg: "first imported here"}})
				}
				continue
			}
			seenModules[imp.Module] = imp.Span
		}

		byName := make(map[string]ast.ClassID, len(sf.Classes))
		for _, cid := range sf.Classes {
			class := tree.Class(cid)
			c.classOwner[cid] = fid
			if prev, dup := byName[class.Name]; dup {
				if reporter != nil {
					reporter.Report(diag.SemDuplicateClass, diag.SevError, class.NameSpan,
						"duplicate class declaration '"+class.Name+"'",
						[]diag.Note{{Span: tree.Class(prev).NameSpan, Msg: "first declared here"}})
				}
				continue
			}
			byName[class.Name] = cid
			if class.Base == class.Name && !class.BaseComplex {
				if reporter != nil {
					reporter.Report(diag.SemSelfInheritance, diag.SevError, class.BaseSpan,
						"class '"+class.Name+"' extends itself", nil)
				}
			}
		}
		c.classesByFile[fid] = byName
	}
	return c
}

// Files returns the analyzed files in the order they were supplied.
func (c *Checker) Files() []ast.FileID { return c.files }

// Tree returns the program's syntax tree.
func (c *Checker) Tree() *ast.Tree { return c.tree }

// FileSet returns the program's file set.
func (c *Checker) FileSet() *source.FileSet { return c.fset }

// Owner returns the file a class was declared in.
func (c *Checker) Owner(id ast.ClassID) ast.FileID { return c.classOwner[id] }

// LookupClass finds a class named name declared in file fid.
func (c *Checker) LookupClass(fid ast.FileID, name string) (ast.ClassID, bool) {
	id, ok := c.classesByFile[fid][name]
	return id, ok
}

// BindsLocal reports whether name is already bound in file fid, either by a
// declaration or by any import.
func (c *Checker) BindsLocal(fid ast.FileID, name string) bool {
	if _, ok := c.classesByFile[fid][name]; ok {
		return true
	}
	sf := c.tree.File(fid)
	for _, iid := range sf.Imports {
		if c.tree.Import(iid).Binds(name) {
			return true
		}
	}
	return false
}

// resolveModule maps a module specifier, as written in file fid, to an
// analyzed file. Only relative specifiers can land inside the program.
func (c *Checker) resolveModule(fid ast.FileID, spec string) (ast.FileID, bool) {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return ast.NoFileID, false
	}
	sf := c.tree.File(fid)
	base := path.Dir(c.fset.Get(sf.File).Path)
	joined := path.Join(base, spec)

	for _, candidate := range []string{joined, joined + ".ts", joined + "/index.ts"} {
		if target, ok := c.fileByPath[candidate]; ok {
			return target, true
		}
	}
	return ast.NoFileID, false
}

// importBinding finds the import declaration in fid that binds local, along
// with the exported name behind a possible alias.
func (c *Checker) importBinding(fid ast.FileID, local string) (*ast.ImportDecl, string, bool) {
	sf := c.tree.File(fid)
	for _, iid := range sf.Imports {
		imp := c.tree.Import(iid)
		if imp.DefaultName == local || imp.NamespaceName == local {
			return imp, local, true
		}
		for _, spec := range imp.Named {
			if spec.LocalName() == local {
				return imp, spec.Name, true
			}
		}
	}
	return nil, "", false
}
