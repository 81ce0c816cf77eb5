// Package driver runs the migration over one or more projects: assemble the
// program, run the engine, commit the edits, and report per-project results.
// Projects are processed strictly in the order given; a broken project never
// stops the ones after it.
package driver

import (
	"fmt"

	"dimigrate/internal/migrate"
	"dimigrate/internal/project"
	"dimigrate/internal/vfs"
)

// Options controls one Run invocation.
type Options struct {
	// DryRun analyzes and reports but never commits edits.
	DryRun bool
	// Cache, when non-nil, lets clean projects (no pending edits on the
	// previous run over identical sources) be skipped entirely.
	Cache *DiskCache
}

// ProjectResult is the outcome for one project.
type ProjectResult struct {
	Name         string
	ManifestPath string
	Failures     []string // formatted, position-sorted
	EditedFiles  []string // paths with committed (or pending, in dry-run) edits
	FromCache    bool
	Err          error // program-level error; Failures and edits are empty then
}

// Summary aggregates a whole Run.
type Summary struct {
	Results []ProjectResult
}

// Failed reports whether any project ended with a program-level error.
func (s *Summary) Failed() bool {
	for i := range s.Results {
		if s.Results[i].Err != nil {
			return true
		}
	}
	return false
}

// Totals returns the aggregate counts over all projects.
func (s *Summary) Totals() (edited, failures, broken int) {
	for i := range s.Results {
		r := &s.Results[i]
		edited += len(r.EditedFiles)
		failures += len(r.Failures)
		if r.Err != nil {
			broken++
		}
	}
	return
}

// Run migrates every manifest in order, writing through tree. Each project
// gets a fresh program and engine; per-class failures are data inside the
// project's result, while assembly and commit errors mark the project
// broken without aborting the run.
func Run(manifestPaths []string, tree vfs.Tree, opts Options) *Summary {
	summary := &Summary{Results: make([]ProjectResult, 0, len(manifestPaths))}
	for _, manifestPath := range manifestPaths {
		summary.Results = append(summary.Results, runOne(manifestPath, tree, opts))
	}
	return summary
}

func runOne(manifestPath string, tree vfs.Tree, opts Options) ProjectResult {
	res := ProjectResult{ManifestPath: manifestPath}

	prog, err := project.CreateProgram(manifestPath, tree)
	if err != nil {
		res.Err = err
		return res
	}
	res.Name = prog.Manifest.Config.Project.Name

	key := prog.ContentHash()
	if opts.Cache != nil {
		var payload ResultPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok && payload.Clean {
			res.Failures = payload.Failures
			res.FromCache = true
			return res
		}
	}

	engine := migrate.NewEngine(prog.Checker, tree)
	failures := engine.Run()
	for _, f := range failures {
		res.Failures = append(res.Failures, f.Format(prog.FileSet))
	}
	res.EditedFiles = engine.Recorders().Paths()

	if !opts.DryRun {
		if err := engine.Recorders().CommitAll(); err != nil {
			res.Err = fmt.Errorf("commit %s: %w", res.Name, err)
			return res
		}
	}

	if opts.Cache != nil {
		// a project with edits changes its own hash when committed, so
		// only a clean result is worth remembering
		payload := resultToPayload(res.Name, key, res.Failures, len(res.EditedFiles) == 0)
		_ = opts.Cache.Put(key, payload)
	}
	return res
}
