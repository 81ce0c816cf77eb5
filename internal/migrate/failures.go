package migrate

import (
	"fmt"
	"sort"

	"dimigrate/internal/ast"
	"dimigrate/internal/source"
)

// Failure marks one class declaration that could not be migrated safely.
// It is data, not an error: other classes in the same file keep migrating.
type Failure struct {
	Class   ast.ClassID
	Span    source.Span
	Message string
}

// Format renders the failure as "<relative-path>@<line>:<column>: <message>".
func (f Failure) Format(fset *source.FileSet) string {
	file := fset.Get(f.Span.File)
	start, _ := fset.Resolve(f.Span)
	rel := file.FormatPath("relative", fset.BaseDir())
	return fmt.Sprintf("%s@%d:%d: %s", rel, start.Line, start.Col, f.Message)
}

// sortFailures orders failures by file, then position, for deterministic
// reporting.
func sortFailures(failures []Failure) {
	sort.SliceStable(failures, func(i, j int) bool {
		fi, fj := failures[i], failures[j]
		if fi.Span.File != fj.Span.File {
			return fi.Span.File < fj.Span.File
		}
		if fi.Span.Start != fj.Span.Start {
			return fi.Span.Start < fj.Span.Start
		}
		return fi.Message < fj.Message
	})
}
