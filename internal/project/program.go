package project

import (
	"errors"
	"strings"

	"dimigrate/internal/ast"
	"dimigrate/internal/diag"
	"dimigrate/internal/parser"
	"dimigrate/internal/sema"
	"dimigrate/internal/source"
	"dimigrate/internal/vfs"
)

// Program is one fully analyzed project, ready for migration.
type Program struct {
	Manifest *Manifest
	FileSet  *source.FileSet
	Tree     *ast.Tree
	Files    []ast.FileID
	Checker  *sema.Checker
	Diags    *diag.Bag
}

const diagLimit = 512

// CreateProgram loads the manifest at manifestPath and analyzes every file
// it selects from tree. The checks are staged: configuration first, then
// syntax, then structure. The first stage with errors stops the build and
// comes back as *ConfigError or *BuildError; warnings never stop it.
func CreateProgram(manifestPath string, tree vfs.Tree) (*Program, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	root := strings.TrimRight(toSlash(manifest.SourceRoot()), "/")
	paths, err := tree.List(root)
	if err != nil {
		return nil, &ConfigError{Path: manifest.Path, Code: diag.CfgUnreadable, Err: err}
	}

	selected := make([]string, 0, len(paths))
	for _, p := range paths {
		rel := strings.TrimPrefix(p, root+"/")
		if manifest.Selects(rel) {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return nil, &ConfigError{Path: manifest.Path, Code: diag.CfgNoSourceFiles, Err: errors.New("no source files matched [project].include")}
	}

	fset := source.NewFileSetWithBase(root)
	bag := diag.NewBag(diagLimit)
	reporter := diag.BagReporter{Bag: bag}
	astTree := ast.NewTree(uint(len(selected)))

	files := make([]ast.FileID, 0, len(selected))
	for _, p := range selected {
		content, readErr := tree.Read(p)
		if readErr != nil {
			bag.Add(diag.NewError(diag.CfgUnreadable, source.Span{}, p+": "+readErr.Error()))
			continue
		}
		// no CRLF/BOM normalization: edit offsets must index the exact
		// bytes the update handle will rewrite
		srcID := fset.Add(p, content, 0)
		files = append(files, parser.ParseFile(fset.Get(srcID), astTree, reporter))
	}

	if berr := stageError(manifest, fset, bag, diag.CatConfig); berr != nil {
		return nil, berr
	}
	if berr := stageError(manifest, fset, bag, diag.CatSyntactic); berr != nil {
		return nil, berr
	}

	checker := sema.NewChecker(fset, astTree, files, reporter)
	if berr := stageError(manifest, fset, bag, diag.CatStructural); berr != nil {
		return nil, berr
	}

	return &Program{
		Manifest: manifest,
		FileSet:  fset,
		Tree:     astTree,
		Files:    files,
		Checker:  checker,
		Diags:    bag,
	}, nil
}

func stageError(m *Manifest, fset *source.FileSet, bag *diag.Bag, cat diag.Category) *BuildError {
	errs := bag.ErrorsInCategory(cat)
	if len(errs) == 0 {
		return nil
	}
	return &BuildError{
		Project:  m.Config.Project.Name,
		Category: cat,
		Diags:    errs,
		FileSet:  fset,
	}
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
