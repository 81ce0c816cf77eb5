package migrate

import (
	"fmt"
	"sort"
	"strings"

	"dimigrate/internal/ast"
	"dimigrate/internal/sema"
)

// ImportManager resolves the named imports new decorators require. It
// merges into an existing clause from the same module when one exists and
// queues a standalone statement otherwise. Requests are remembered per
// file, so a symbol queued while migrating one class is reused by every
// later class in the same file.
type ImportManager struct {
	checker   *sema.Checker
	recorders *RecorderSet
	queued    map[ast.FileID]map[string]bool // "module\x00symbol"
}

// NewImportManager creates a manager writing through recorders.
func NewImportManager(checker *sema.Checker, recorders *RecorderSet) *ImportManager {
	return &ImportManager{
		checker:   checker,
		recorders: recorders,
		queued:    make(map[ast.FileID]map[string]bool),
	}
}

func importKey(module, symbol string) string {
	return module + "\x00" + symbol
}

// Request makes symbol (exported by module) available in file fid. It is a
// no-op when the file already imports the symbol or an earlier request
// queued it.
func (m *ImportManager) Request(fid ast.FileID, symbol, module string) error {
	if m.queued[fid][importKey(module, symbol)] {
		return nil
	}

	tree := m.checker.Tree()
	sf := tree.File(fid)

	var target *ast.ImportDecl
	for _, iid := range sf.Imports {
		imp := tree.Import(iid)
		if imp.TypeOnly || imp.Module != module {
			continue
		}
		if imp.HasSymbol(symbol) {
			return nil // already imported
		}
		if imp.HasNamed && target == nil {
			target = imp
		}
	}

	rec, err := m.recorders.For(sf.File)
	if err != nil {
		return err
	}

	if target != nil {
		rec.UpdateExistingImport(target.NamedSpan, m.mergedList(fid, target, symbol))
	} else {
		rec.AddNewImport(0, fmt.Sprintf("import { %s } from '%s';\n", symbol, module))
	}

	if m.queued[fid] == nil {
		m.queued[fid] = make(map[string]bool)
	}
	m.queued[fid][importKey(module, symbol)] = true
	return nil
}

// mergedList rebuilds a named-import list with symbol added, keeping
// alphabetical order when the original list already had it and appending
// otherwise. The original leading/trailing spacing inside the braces is
// preserved.
func (m *ImportManager) mergedList(fid ast.FileID, imp *ast.ImportDecl, symbol string) string {
	parts := make([]string, 0, len(imp.Named)+1)
	names := make([]string, 0, len(imp.Named))
	for _, spec := range imp.Named {
		if spec.Alias != "" {
			parts = append(parts, spec.Name+" as "+spec.Alias)
		} else {
			parts = append(parts, spec.Name)
		}
		names = append(names, spec.Name)
	}

	if sort.StringsAreSorted(names) {
		inserted := false
		for i, name := range names {
			if symbol < name {
				parts = append(parts[:i], append([]string{symbol}, parts[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			parts = append(parts, symbol)
		}
	} else {
		parts = append(parts, symbol)
	}

	lead, trail := m.padding(fid, imp)
	return lead + strings.Join(parts, ", ") + trail
}

// padding recovers the spacing just inside the braces of the original
// clause, so "{ A }" merges to "{ A, B }" and "{A}" to "{A, B}".
func (m *ImportManager) padding(fid ast.FileID, imp *ast.ImportDecl) (lead, trail string) {
	sf := m.checker.Tree().File(fid)
	content := m.checker.FileSet().Get(sf.File).Content
	text := string(content[imp.NamedSpan.Start:imp.NamedSpan.End])
	trimmed := strings.TrimLeft(text, " \t\n")
	lead = text[:len(text)-len(trimmed)]
	trimmed = strings.TrimRight(text, " \t\n")
	trail = text[len(trimmed):]
	if len(lead)+len(trail) > len(text) {
		// the clause was pure whitespace
		lead, trail = " ", " "
	}
	return lead, trail
}
