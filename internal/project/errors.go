package project

import (
	"errors"
	"fmt"

	"dimigrate/internal/diag"
	"dimigrate/internal/source"
)

// ErrManifestNotFound marks a manifest path that does not exist.
var ErrManifestNotFound = errors.New("manifest not found")

// ConfigError is a manifest-level problem: the project cannot even be
// assembled. It always belongs to the configuration category.
type ConfigError struct {
	Path string
	Code diag.Code
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// BuildError reports that one of the staged checks found errors. The
// category tells which stage failed; earlier stages always mask later ones.
type BuildError struct {
	Project  string
	Category diag.Category
	Diags    []diag.Diagnostic
	FileSet  *source.FileSet
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("project %s: %d %s error(s)", e.Project, len(e.Diags), e.Category)
}
