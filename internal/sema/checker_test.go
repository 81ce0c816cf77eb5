package sema

import (
	"testing"

	"dimigrate/internal/ast"
	"dimigrate/internal/diag"
	"dimigrate/internal/parser"
	"dimigrate/internal/source"
)

// buildProgram parses the given path->source map into one checked program.
func buildProgram(t *testing.T, sources map[string]string) (*Checker, *ast.Tree, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	tree := ast.NewTree(uint(len(sources)))
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}

	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}
	// deterministic file order
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if paths[j] < paths[i] {
				paths[i], paths[j] = paths[j], paths[i]
			}
		}
	}

	files := make([]ast.FileID, 0, len(paths))
	for _, p := range paths {
		id := fset.Add(p, []byte(sources[p]), 0)
		files = append(files, parser.ParseFile(fset.Get(id), tree, reporter))
	}
	return NewChecker(fset, tree, files, reporter), tree, bag
}

func classNamed(t *testing.T, c *Checker, tree *ast.Tree, path, name string) ast.ClassID {
	t.Helper()
	for _, fid := range c.Files() {
		sf := tree.File(fid)
		if c.FileSet().Get(sf.File).Path != path {
			continue
		}
		if id, ok := c.LookupClass(fid, name); ok {
			return id
		}
	}
	t.Fatalf("class %s not found in %s", name, path)
	return ast.NoClassID
}

func fileOf(t *testing.T, c *Checker, tree *ast.Tree, path string) ast.FileID {
	t.Helper()
	for _, fid := range c.Files() {
		if c.FileSet().Get(tree.File(fid).File).Path == path {
			return fid
		}
	}
	t.Fatalf("file %s not analyzed", path)
	return ast.NoFileID
}

func TestResolveBaseLocalSameFile(t *testing.T) {
	c, tree, _ := buildProgram(t, map[string]string{
		"src/a.ts": "class Base {}\nclass Child extends Base {}\n",
	})
	child := classNamed(t, c, tree, "src/a.ts", "Child")
	res := c.ResolveBase(child)
	if res.Kind != BaseLocal {
		t.Fatalf("kind = %v, want BaseLocal", res.Kind)
	}
	if tree.Class(res.Class).Name != "Base" {
		t.Fatalf("resolved wrong class %q", tree.Class(res.Class).Name)
	}
}

func TestResolveBaseAcrossRelativeImport(t *testing.T) {
	c, tree, _ := buildProgram(t, map[string]string{
		"src/base.ts":  "export class Base {}\n",
		"src/child.ts": "import { Base } from './base';\nclass Child extends Base {}\n",
	})
	child := classNamed(t, c, tree, "src/child.ts", "Child")
	res := c.ResolveBase(child)
	if res.Kind != BaseLocal {
		t.Fatalf("kind = %v, want BaseLocal across import", res.Kind)
	}
	if tree.Class(res.Class).Name != "Base" {
		t.Fatalf("resolved wrong class %q", tree.Class(res.Class).Name)
	}
}

func TestResolveBaseExternalModule(t *testing.T) {
	c, tree, _ := buildProgram(t, map[string]string{
		"src/a.ts": "import { Widget } from 'thirdparty';\nclass W extends Widget {}\n",
	})
	w := classNamed(t, c, tree, "src/a.ts", "W")
	res := c.ResolveBase(w)
	if res.Kind != BaseExternal || res.Module != "thirdparty" {
		t.Fatalf("got %+v, want external from thirdparty", res)
	}
}

func TestResolveBaseUnknown(t *testing.T) {
	c, tree, _ := buildProgram(t, map[string]string{
		"src/a.ts": "class B extends Nowhere {}\n",
	})
	b := classNamed(t, c, tree, "src/a.ts", "B")
	if res := c.ResolveBase(b); res.Kind != BaseUnknown {
		t.Fatalf("kind = %v, want BaseUnknown", res.Kind)
	}
}

func TestResolveBaseTypeOnlyImportIsUnknown(t *testing.T) {
	c, tree, _ := buildProgram(t, map[string]string{
		"src/base.ts": "export class Base {}\n",
		"src/a.ts":    "import type { Base } from './base';\nclass B extends Base {}\n",
	})
	b := classNamed(t, c, tree, "src/a.ts", "B")
	res := c.ResolveBase(b)
	if res.Kind == BaseLocal {
		t.Fatalf("type-only import must not resolve to a runtime base: %+v", res)
	}
}

func TestResolveParamClassifications(t *testing.T) {
	c, tree, _ := buildProgram(t, map[string]string{
		"src/dep.ts": "export class Dep {}\nexport const value = 1;\n",
		"src/a.ts": "import { Dep } from './dep';\n" +
			"import { Http } from '@lib/http';\n" +
			"import type { Conf } from './dep';\n" +
			"class Local {}\n" +
			"class C {\n" +
			"  constructor(a: Dep, b: Http, c: Local, d: string, e, f: Missing, g: Conf) {}\n" +
			"}\n",
	})
	fid := fileOf(t, c, tree, "src/a.ts")
	cid := classNamed(t, c, tree, "src/a.ts", "C")
	params := tree.Class(cid).Params

	cases := []struct {
		idx int
		ok  bool
	}{
		{0, true},  // in-program class via import
		{1, true},  // external runtime import
		{2, true},  // class in the same file
		{3, false}, // erased primitive
		{4, false}, // no annotation
		{5, false}, // unresolvable name
		{6, false}, // type-only import
	}
	for _, tc := range cases {
		res := c.ResolveParam(fid, params[tc.idx])
		if res.OK != tc.ok {
			t.Errorf("param %d (%s): OK = %v, want %v (reason %q)",
				tc.idx, params[tc.idx].Name, res.OK, tc.ok, res.Reason)
		}
	}
}

func TestCheckerReportsDuplicateClass(t *testing.T) {
	_, _, bag := buildProgram(t, map[string]string{
		"src/a.ts": "class X {}\nclass X {}\n",
	})
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemDuplicateClass {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected duplicate class diagnostic, got %v", bag.Items())
	}
}

func TestCheckerReportsSelfInheritance(t *testing.T) {
	_, _, bag := buildProgram(t, map[string]string{
		"src/a.ts": "class Loop extends Loop {}\n",
	})
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemSelfInheritance {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected self-inheritance diagnostic, got %v", bag.Items())
	}
}

func TestCheckerWarnsDuplicateImportModule(t *testing.T) {
	_, _, bag := buildProgram(t, map[string]string{
		"src/b.ts": "export class B {}\nexport class B2 {}\n",
		"src/a.ts": "import { B } from './b';\nimport { B2 } from './b';\nclass A {}\n",
	})
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemDuplicateImport && d.Severity == diag.SevWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected duplicate import warning, got %v", bag.Items())
	}
	if bag.HasErrors() {
		t.Fatal("duplicate import must stay a warning")
	}
}

func TestResolveModuleIndexFile(t *testing.T) {
	c, tree, _ := buildProgram(t, map[string]string{
		"src/lib/index.ts": "export class Lib {}\n",
		"src/a.ts":         "import { Lib } from './lib';\nclass A extends Lib {}\n",
	})
	a := classNamed(t, c, tree, "src/a.ts", "A")
	res := c.ResolveBase(a)
	if res.Kind != BaseLocal {
		t.Fatalf("directory import with index.ts should resolve, got %+v", res)
	}
}
