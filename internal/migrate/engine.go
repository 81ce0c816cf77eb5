package migrate

import (
	"fmt"

	"dimigrate/internal/ast"
	"dimigrate/internal/sema"
	"dimigrate/internal/source"
	"dimigrate/internal/vfs"
)

const (
	injectableDecorator = "Injectable"
	injectableModule    = "@angular/core"
	migrationComment    = "Decorated so this class can take part in dependency injection."

	// guard against degenerate inheritance chains
	maxChainDepth = 64
)

// Engine runs the three migration passes over one program's declarations.
// It emits edit intents through per-file recorders and failures as data;
// nothing is persisted until the caller commits the recorder set.
type Engine struct {
	checker   *sema.Checker
	sets      *DeclarationSets
	recorders *RecorderSet
	imports   *ImportManager

	failures  []Failure
	decorated map[ast.ClassID]bool // классы, получившие декоратор в этом прогоне
	failed    map[ast.ClassID]bool // targets already reported, to avoid repeats
}

// NewEngine prepares an engine writing through tree.
func NewEngine(checker *sema.Checker, tree vfs.Tree) *Engine {
	recorders := NewRecorderSet(tree, checker.FileSet())
	return &Engine{
		checker:   checker,
		recorders: recorders,
		imports:   NewImportManager(checker, recorders),
		decorated: make(map[ast.ClassID]bool),
		failed:    make(map[ast.ClassID]bool),
	}
}

// Recorders exposes the per-file recorders for committing.
func (e *Engine) Recorders() *RecorderSet { return e.recorders }

// Sets returns the declaration sets of the last Run.
func (e *Engine) Sets() *DeclarationSets { return e.sets }

// Run collects the program's declarations and applies the migration passes
// in their fixed order. Edits queued by an earlier pass (for example an
// import added for a directive's base) are visible to later passes in the
// same file. The returned failures are sorted by position.
func (e *Engine) Run() []Failure {
	e.sets = Collect(e.checker)

	e.migrateDecoratedDirectives()
	e.migrateDecoratedProviders()
	e.migrateUndecoratedDeclarations()

	sortFailures(e.failures)
	return e.failures
}

// migrateDecoratedDirectives validates every decorated directive: the
// decorator itself already implies injectability, so the pass only has to
// catch metadata it cannot vouch for — malformed arguments, or an
// inheritance chain that disappears into unanalyzable code while the
// directive has no constructor of its own.
func (e *Engine) migrateDecoratedDirectives() {
	for _, info := range e.sets.Directives {
		if !e.validateDecorator(info) {
			continue
		}
		if info.Decl.HasCtor {
			continue
		}
		if out := e.constructorOwner(info); out.failure != nil {
			e.fail(*out.failure)
		}
		// a resolvable undecorated owner needs no edit here: the owner is
		// in the undecorated set and the third pass decorates it
	}
}

// migrateDecoratedProviders is a consistency check: provider decorators
// confer injectability by definition, so only malformed existing metadata
// is reported, never edited.
func (e *Engine) migrateDecoratedProviders() {
	for _, info := range e.sets.Providers {
		e.validateDecorator(info)
	}
}

// migrateUndecoratedDeclarations decorates the class that actually owns the
// injected constructor, adding the minimal injectable-marking decorator, a
// short comment, and the import it requires. Anything that cannot be
// decided with confidence becomes a failure and produces zero edits.
func (e *Engine) migrateUndecoratedDeclarations() {
	for _, info := range e.sets.Undecorated {
		out := e.constructorOwner(info)
		if out.failure != nil {
			e.fail(*out.failure)
			continue
		}
		if !out.target.IsValid() {
			continue
		}
		e.decorate(out.target)
	}
}

// decorate queues the decorator, comment, and import for target. A target
// reached through several subclasses is decorated (or reported) once.
func (e *Engine) decorate(target ast.ClassID) {
	if e.decorated[target] || e.failed[target] {
		return
	}

	decl := e.checker.Tree().Class(target)
	owner := e.checker.Owner(target)

	for _, param := range decl.Params {
		res := e.checker.ResolveParam(owner, param)
		if res.OK {
			continue
		}
		e.failed[target] = true
		e.fail(Failure{
			Class:   target,
			Span:    param.Span,
			Message: fmt.Sprintf("class '%s' cannot be migrated: %s", decl.Name, res.Reason),
		})
		return
	}

	if e.checker.BindsLocal(owner, injectableDecorator) && !e.importsInjectable(owner) {
		e.failed[target] = true
		e.fail(Failure{
			Class:   target,
			Span:    decl.NameSpan,
			Message: fmt.Sprintf("class '%s' cannot be migrated: the name '%s' is already bound to something else in this file", decl.Name, injectableDecorator),
		})
		return
	}

	sf := e.checker.Tree().File(owner)
	rec, err := e.recorders.For(sf.File)
	if err != nil {
		e.failed[target] = true
		e.fail(Failure{Class: target, Span: decl.NameSpan, Message: fmt.Sprintf("class '%s' cannot be migrated: %v", decl.Name, err)})
		return
	}

	indent := leadingIndent(e.checker.FileSet().Get(sf.File).Content, decl.Span.Start)
	rec.AddClassComment(decl.Span.Start, "// "+migrationComment+"\n"+indent)
	rec.AddClassDecorator(decl.Span.Start, "@"+injectableDecorator+"()\n"+indent)

	if err := e.imports.Request(owner, injectableDecorator, injectableModule); err != nil {
		// the decorator edits are already queued for this recorder; an
		// import failure here means the file handle itself broke, which
		// the commit will surface
		e.fail(Failure{Class: target, Span: decl.NameSpan, Message: fmt.Sprintf("class '%s': %v", decl.Name, err)})
	}

	e.decorated[target] = true
}

// importsInjectable reports whether fid already binds the decorator symbol
// through an un-aliased runtime import from its module. Aliased or default
// bindings leave the symbol name itself taken by something the emitted
// decorator cannot use.
func (e *Engine) importsInjectable(fid ast.FileID) bool {
	tree := e.checker.Tree()
	for _, iid := range tree.File(fid).Imports {
		imp := tree.Import(iid)
		if !imp.TypeOnly && imp.Module == injectableModule && imp.HasSymbol(injectableDecorator) {
			return true
		}
	}
	return false
}

// validateDecorator checks the shape of an existing decorator invocation.
// Returns false when a failure was recorded.
func (e *Engine) validateDecorator(info *ClassInfo) bool {
	dec := info.Decorator
	if !dec.HasCall {
		e.fail(Failure{
			Class:   info.ID,
			Span:    dec.Span,
			Message: fmt.Sprintf("decorator @%s on class '%s' is not invoked; fix it manually", dec.Name, info.Decl.Name),
		})
		return false
	}
	for _, arg := range dec.Args {
		if !arg.IsObject {
			e.fail(Failure{
				Class:   info.ID,
				Span:    arg.Span,
				Message: fmt.Sprintf("decorator @%s on class '%s' has a non-object argument; its DI metadata cannot be verified", dec.Name, info.Decl.Name),
			})
			return false
		}
	}
	return true
}

type chainOutcome struct {
	target  ast.ClassID
	failure *Failure
}

// constructorOwner walks the inheritance chain of info upward and decides
// which class, if any, must carry the injectable decorator:
//
//   - the class itself, when it owns a constructor with parameters
//   - the nearest undecorated ancestor owning such a constructor
//   - nobody, when the chain ends benignly (no base, a parameterless
//     constructor, or an already-decorated ancestor)
//
// Chains leaving the analyzed program are never guessed at: external,
// unresolvable, complex, and cyclic bases all produce a failure.
func (e *Engine) constructorOwner(info *ClassInfo) chainOutcome {
	decl := info.Decl

	if decl.InjectableCtor() {
		return chainOutcome{target: info.ID}
	}
	if decl.HasCtor {
		return chainOutcome{}
	}
	if decl.BaseComplex {
		return chainOutcome{failure: &Failure{
			Class:   info.ID,
			Span:    failureSpan(decl),
			Message: fmt.Sprintf("class '%s' extends an expression that is not a plain identifier; cannot determine its injected dependencies", decl.Name),
		}}
	}
	if !decl.HasExtends() {
		return chainOutcome{}
	}

	visited := map[ast.ClassID]bool{info.ID: true}
	cur := info.ID
	for depth := 0; depth < maxChainDepth; depth++ {
		res := e.checker.ResolveBase(cur)
		switch res.Kind {
		case sema.BaseNone:
			return chainOutcome{}

		case sema.BaseComplex:
			return chainOutcome{failure: &Failure{
				Class:   info.ID,
				Span:    failureSpan(decl),
				Message: fmt.Sprintf("class '%s' inherits through an expression that is not a plain identifier; cannot determine its injected dependencies", decl.Name),
			}}

		case sema.BaseExternal:
			return chainOutcome{failure: &Failure{
				Class:   info.ID,
				Span:    failureSpan(decl),
				Message: fmt.Sprintf("base class '%s' of '%s' is defined outside the project (imported from '%s'); add the decorator there manually", res.Name, decl.Name, res.Module),
			}}

		case sema.BaseUnknown:
			return chainOutcome{failure: &Failure{
				Class:   info.ID,
				Span:    failureSpan(decl),
				Message: fmt.Sprintf("base class '%s' of '%s' cannot be resolved", res.Name, decl.Name),
			}}

		case sema.BaseLocal:
			base := e.checker.Tree().Class(res.Class)
			if _, ok := base.FindDecorator(directiveDecorators...); ok {
				return chainOutcome{}
			}
			if _, ok := base.FindDecorator(providerDecorators...); ok {
				return chainOutcome{}
			}
			if base.InjectableCtor() {
				return chainOutcome{target: res.Class}
			}
			if base.HasCtor {
				return chainOutcome{}
			}
			if visited[res.Class] {
				return chainOutcome{failure: &Failure{
					Class:   info.ID,
					Span:    failureSpan(decl),
					Message: fmt.Sprintf("inheritance chain of class '%s' is cyclic", decl.Name),
				}}
			}
			visited[res.Class] = true
			cur = res.Class
		}
	}

	return chainOutcome{failure: &Failure{
		Class:   info.ID,
		Span:    failureSpan(decl),
		Message: fmt.Sprintf("inheritance chain of class '%s' is too deep to migrate safely", decl.Name),
	}}
}

func (e *Engine) fail(f Failure) {
	e.failures = append(e.failures, f)
}

func failureSpan(decl *ast.ClassDecl) source.Span {
	return decl.NameSpan
}

// leadingIndent returns the whitespace run at the start of the line
// containing off.
func leadingIndent(content []byte, off uint32) string {
	lineStart := off
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	end := lineStart
	for end < off && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return string(content[lineStart:end])
}
