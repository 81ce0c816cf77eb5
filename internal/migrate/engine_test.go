package migrate

import (
	"strings"
	"testing"

	"dimigrate/internal/ast"
	"dimigrate/internal/diag"
	"dimigrate/internal/parser"
	"dimigrate/internal/sema"
	"dimigrate/internal/source"
	"dimigrate/internal/vfs"
)

// migration is one analyzed-and-run fixture over in-memory sources.
type migration struct {
	tree     *vfs.Mem
	checker  *sema.Checker
	failures []Failure
	fset     *source.FileSet
}

func analyze(t *testing.T, tree *vfs.Mem, paths []string) *sema.Checker {
	t.Helper()
	fset := source.NewFileSetWithBase("src")
	astTree := ast.NewTree(uint(len(paths)))
	bag := diag.NewBag(64)

	files := make([]ast.FileID, 0, len(paths))
	for _, p := range paths {
		content, err := tree.Read(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		id := fset.Add(p, content, 0)
		files = append(files, parser.ParseFile(fset.Get(id), astTree, diag.BagReporter{Bag: bag}))
	}
	if bag.HasErrors() {
		t.Fatalf("fixture does not parse cleanly: %v", bag.Items())
	}
	return sema.NewChecker(fset, astTree, files, diag.BagReporter{Bag: bag})
}

// runMigration parses sources, runs the engine, and commits the edits back
// into the returned in-memory tree.
func runMigration(t *testing.T, sources map[string]string) *migration {
	t.Helper()
	tree := vfs.NewMem()
	paths := make([]string, 0, len(sources))
	for p, content := range sources {
		tree.Write(p, []byte(content))
		paths = append(paths, p)
	}
	// deterministic order
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if paths[j] < paths[i] {
				paths[i], paths[j] = paths[j], paths[i]
			}
		}
	}

	checker := analyze(t, tree, paths)
	engine := NewEngine(checker, tree)
	failures := engine.Run()
	if err := engine.Recorders().CommitAll(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return &migration{tree: tree, checker: checker, failures: failures, fset: checker.FileSet()}
}

func (m *migration) content(t *testing.T, path string) string {
	t.Helper()
	out, err := m.tree.Read(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(out)
}

func (m *migration) failureTexts() []string {
	out := make([]string, 0, len(m.failures))
	for _, f := range m.failures {
		out = append(out, f.Format(m.fset))
	}
	return out
}

func TestMigrateServiceWithCtorParams(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/logger.ts": "export class Logger {}\n",
		"src/svc.ts": "import { Logger } from './logger';\n\n" +
			"export class OrderService {\n" +
			"  constructor(private log: Logger) {}\n" +
			"}\n",
	})
	if len(m.failures) != 0 {
		t.Fatalf("unexpected failures: %v", m.failureTexts())
	}

	out := m.content(t, "src/svc.ts")
	if !strings.Contains(out, "import { Injectable } from '@angular/core';\n") {
		t.Fatalf("missing core import:\n%s", out)
	}
	if !strings.Contains(out, "@Injectable()\nexport class OrderService") {
		t.Fatalf("decorator not attached to the class:\n%s", out)
	}
	if strings.Index(out, "@angular/core") > strings.Index(out, "@Injectable()") {
		t.Fatalf("import must precede the decorator:\n%s", out)
	}
	// Logger itself has no constructor parameters, nothing to decorate
	if strings.Contains(m.content(t, "src/logger.ts"), "@Injectable") {
		t.Fatal("dependency class without ctor params was decorated")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	sources := map[string]string{
		"src/dep.ts": "export class Dep {}\n",
		"src/a.ts": "import { Dep } from './dep';\n" +
			"export class A {\n" +
			"  constructor(d: Dep) {}\n" +
			"}\n",
	}
	first := runMigration(t, sources)
	once := first.content(t, "src/a.ts")

	second := runMigration(t, map[string]string{
		"src/dep.ts": first.content(t, "src/dep.ts"),
		"src/a.ts":   once,
	})
	if len(second.failures) != 0 {
		t.Fatalf("second run failed: %v", second.failureTexts())
	}
	if got := second.content(t, "src/a.ts"); got != once {
		t.Fatalf("second run changed output:\nfirst:\n%s\nsecond:\n%s", once, got)
	}
	if strings.Count(once, "@Injectable()") != 1 {
		t.Fatalf("expected exactly one decorator:\n%s", once)
	}
}

func TestMigrateSkipsParameterlessCtor(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/a.ts": "export class Plain {\n  constructor() {}\n}\n",
	})
	if len(m.failures) != 0 {
		t.Fatalf("unexpected failures: %v", m.failureTexts())
	}
	if strings.Contains(m.content(t, "src/a.ts"), "@Injectable") {
		t.Fatal("parameterless constructor must not be decorated")
	}
}

func TestMigrateLeavesDecoratedDirectiveAlone(t *testing.T) {
	src := "import { Component } from '@angular/core';\n" +
		"import { Dep } from './dep';\n" +
		"@Component({ selector: 'x', template: '' })\n" +
		"export class XComponent {\n" +
		"  constructor(d: Dep) {}\n" +
		"}\n"
	m := runMigration(t, map[string]string{
		"src/dep.ts": "export class Dep {}\n",
		"src/x.ts":   src,
	})
	if len(m.failures) != 0 {
		t.Fatalf("unexpected failures: %v", m.failureTexts())
	}
	if got := m.content(t, "src/x.ts"); got != src {
		t.Fatalf("decorated directive edited:\n%s", got)
	}
}

func TestMigrateDecoratesBaseNotSubclass(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/dep.ts": "export class Dep {}\n",
		"src/base.ts": "import { Dep } from './dep';\n" +
			"export class Base {\n" +
			"  constructor(protected dep: Dep) {}\n" +
			"}\n",
		"src/child.ts": "import { Base } from './base';\n" +
			"export class Child extends Base {}\n",
	})
	if len(m.failures) != 0 {
		t.Fatalf("unexpected failures: %v", m.failureTexts())
	}
	base := m.content(t, "src/base.ts")
	if !strings.Contains(base, "@Injectable()\nexport class Base") {
		t.Fatalf("base not decorated:\n%s", base)
	}
	child := m.content(t, "src/child.ts")
	if strings.Contains(child, "@Injectable") {
		t.Fatalf("subclass must stay untouched:\n%s", child)
	}
}

func TestMigrateBaseAndChildInOneFile(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/dep.ts": "export class Dep {}\n",
		"src/both.ts": "import { Dep } from './dep';\n" +
			"export class Base {\n" +
			"  constructor(d: Dep) {}\n" +
			"}\n" +
			"export class Child extends Base {}\n" +
			"export class GrandChild extends Child {}\n",
	})
	if len(m.failures) != 0 {
		t.Fatalf("unexpected failures: %v", m.failureTexts())
	}
	out := m.content(t, "src/both.ts")
	if strings.Count(out, "@Injectable()") != 1 {
		t.Fatalf("chain must decorate the ctor owner exactly once:\n%s", out)
	}
	if !strings.Contains(out, "@Injectable()\nexport class Base") {
		t.Fatalf("wrong class decorated:\n%s", out)
	}
	if strings.Count(out, "import { Injectable } from '@angular/core';") != 1 {
		t.Fatalf("import must be added once:\n%s", out)
	}
}

func TestMigrateExplicitParamlessCtorEndsChain(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/dep.ts": "export class Dep {}\n",
		"src/a.ts": "import { Dep } from './dep';\n" +
			"export class Top {\n" +
			"  constructor(d: Dep) {}\n" +
			"}\n" +
			"export class Mid extends Top {\n" +
			"  constructor() { super(new Dep()); }\n" +
			"}\n" +
			"export class Leaf extends Mid {}\n",
	})
	if len(m.failures) != 0 {
		t.Fatalf("unexpected failures: %v", m.failureTexts())
	}
	out := m.content(t, "src/a.ts")
	// Top is decorated for its own ctor; the Leaf chain stops at Mid's
	// explicit parameterless constructor and adds nothing
	if strings.Count(out, "@Injectable()") != 1 {
		t.Fatalf("expected a single decorator on Top:\n%s", out)
	}
	if !strings.Contains(out, "@Injectable()\nexport class Top") {
		t.Fatalf("decorator landed on the wrong class:\n%s", out)
	}
}

func TestMigrateExternalBaseFails(t *testing.T) {
	src := "import { Widget } from '@vendor/ui';\n" +
		"export class MyWidget extends Widget {}\n"
	m := runMigration(t, map[string]string{"src/w.ts": src})

	if len(m.failures) != 1 {
		t.Fatalf("failures = %v, want 1", m.failureTexts())
	}
	msg := m.failures[0].Message
	if !strings.Contains(msg, "@vendor/ui") || !strings.Contains(msg, "MyWidget") {
		t.Fatalf("failure message lacks context: %q", msg)
	}
	if got := m.content(t, "src/w.ts"); got != src {
		t.Fatalf("failing class must produce zero edits:\n%s", got)
	}
}

func TestMigrateComplexBaseFails(t *testing.T) {
	src := "export class M extends mixinBehavior(Object) {}\n"
	m := runMigration(t, map[string]string{"src/m.ts": src})
	if len(m.failures) != 1 {
		t.Fatalf("failures = %v, want 1", m.failureTexts())
	}
	if got := m.content(t, "src/m.ts"); got != src {
		t.Fatalf("file edited despite failure:\n%s", got)
	}
}

func TestMigrateUnresolvableParamFails(t *testing.T) {
	src := "export class S {\n" +
		"  constructor(a: number) {}\n" +
		"}\n"
	m := runMigration(t, map[string]string{"src/s.ts": src})
	if len(m.failures) != 1 {
		t.Fatalf("failures = %v, want 1", m.failureTexts())
	}
	if !strings.Contains(m.failures[0].Message, "erased type 'number'") {
		t.Fatalf("unexpected message %q", m.failures[0].Message)
	}
	if got := m.content(t, "src/s.ts"); got != src {
		t.Fatal("class with unresolvable param must not be edited")
	}
}

func TestMigrateMergesExistingCoreImport(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/dep.ts": "export class Dep {}\n",
		"src/a.ts": "import { Component } from '@angular/core';\n" +
			"import { Dep } from './dep';\n" +
			"export class Helper {\n" +
			"  constructor(d: Dep) {}\n" +
			"}\n",
	})
	if len(m.failures) != 0 {
		t.Fatalf("unexpected failures: %v", m.failureTexts())
	}
	out := m.content(t, "src/a.ts")
	if !strings.Contains(out, "import { Component, Injectable } from '@angular/core';") {
		t.Fatalf("symbol not merged into the existing import:\n%s", out)
	}
	if strings.Count(out, "@angular/core") != 1 {
		t.Fatalf("merge must not add a second core import:\n%s", out)
	}
}

func TestMigrateNameCollisionFails(t *testing.T) {
	src := "export class Injectable {}\n" +
		"export class Uses {\n" +
		"  constructor(i: Injectable) {}\n" +
		"}\n"
	m := runMigration(t, map[string]string{"src/c.ts": src})
	if len(m.failures) != 1 {
		t.Fatalf("failures = %v, want 1", m.failureTexts())
	}
	if !strings.Contains(m.failures[0].Message, "already bound") {
		t.Fatalf("unexpected message %q", m.failures[0].Message)
	}
	if got := m.content(t, "src/c.ts"); got != src {
		t.Fatal("collision must produce zero edits")
	}
}

func TestMigrateAliasedCoreImportStillBindsDecorator(t *testing.T) {
	// `Injectable as Inj` leaves the name Injectable itself unbound, so
	// the emitted decorator needs its own un-aliased specifier
	m := runMigration(t, map[string]string{
		"src/dep.ts": "export class Dep {}\n",
		"src/s.ts": "import { Injectable as Inj } from '@angular/core';\n" +
			"import { Dep } from './dep';\n" +
			"export class S {\n" +
			"  constructor(d: Dep) {}\n" +
			"}\n",
	})
	if len(m.failures) != 0 {
		t.Fatalf("unexpected failures: %v", m.failureTexts())
	}
	out := m.content(t, "src/s.ts")
	if !strings.Contains(out, "import { Injectable as Inj, Injectable } from '@angular/core';") {
		t.Fatalf("un-aliased specifier not added:\n%s", out)
	}
	if !strings.Contains(out, "@Injectable()\nexport class S") {
		t.Fatalf("decorator missing:\n%s", out)
	}
	if strings.Count(out, "@angular/core") != 1 {
		t.Fatalf("merge must not add a second core import:\n%s", out)
	}
}

func TestMigrateAliasShadowingDecoratorFails(t *testing.T) {
	src := "import { Component as Injectable } from '@angular/core';\n" +
		"import { Dep } from './dep';\n" +
		"export class S {\n" +
		"  constructor(d: Dep) {}\n" +
		"}\n"
	m := runMigration(t, map[string]string{
		"src/dep.ts": "export class Dep {}\n",
		"src/s.ts":   src,
	})
	if len(m.failures) != 1 {
		t.Fatalf("failures = %v, want 1", m.failureTexts())
	}
	if !strings.Contains(m.failures[0].Message, "already bound") {
		t.Fatalf("unexpected message %q", m.failures[0].Message)
	}
	if got := m.content(t, "src/s.ts"); got != src {
		t.Fatalf("shadowed name must produce zero edits:\n%s", got)
	}
}

func TestMigrateUninvokedDecoratorFails(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/p.ts": "import { Pipe } from '@angular/core';\n" +
			"@Pipe\n" +
			"export class BrokenPipe {}\n",
	})
	if len(m.failures) != 1 {
		t.Fatalf("failures = %v, want 1", m.failureTexts())
	}
	if !strings.Contains(m.failures[0].Message, "not invoked") {
		t.Fatalf("unexpected message %q", m.failures[0].Message)
	}
}

func TestMigrateCyclicInheritanceFails(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/x.ts": "import { B } from './y';\nexport class A extends B {}\n",
		"src/y.ts": "import { A } from './x';\nexport class B extends A {}\n",
	})
	if len(m.failures) == 0 {
		t.Fatal("cyclic chain must fail")
	}
	for _, f := range m.failures {
		if !strings.Contains(f.Message, "cyclic") {
			t.Fatalf("unexpected message %q", f.Message)
		}
	}
}

func TestMigratePreservesIndentation(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/dep.ts": "export class Dep {}\n",
		"src/n.ts": "import { Dep } from './dep';\n" +
			"export namespace app {\n" +
			"  export class Nested {\n" +
			"    constructor(d: Dep) {}\n" +
			"  }\n" +
			"}\n",
	})
	if len(m.failures) != 0 {
		t.Fatalf("unexpected failures: %v", m.failureTexts())
	}
	out := m.content(t, "src/n.ts")
	if !strings.Contains(out, "  @Injectable()\n  export class Nested") {
		t.Fatalf("inserted lines lost the class indentation:\n%s", out)
	}
}

func TestFailureFormat(t *testing.T) {
	m := runMigration(t, map[string]string{
		"src/w.ts": "import { W } from '@v/ui';\nexport class X extends W {}\n",
	})
	if len(m.failures) != 1 {
		t.Fatalf("failures = %v", m.failureTexts())
	}
	formatted := m.failures[0].Format(m.fset)
	// name span of X: line 2, after "export class "
	if !strings.HasPrefix(formatted, "w.ts@2:14: ") {
		t.Fatalf("failure format = %q", formatted)
	}
}
