package migrate

import (
	"testing"

	"dimigrate/internal/ast"
	"dimigrate/internal/vfs"
)

func TestCollectPartitionsClasses(t *testing.T) {
	tree := vfs.NewMem()
	tree.Write("src/all.ts", []byte(
		"import { Component, Injectable } from '@angular/core';\n"+
			"@Injectable()\n"+
			"export class Service {\n"+
			"  constructor() {}\n"+
			"}\n"+
			"@Component({ selector: 'w' })\n"+
			"export class Widget {\n"+
			"  constructor(s: Service) {}\n"+
			"}\n"+
			"export class Plain {}\n"+
			"export class Helper {\n"+
			"  constructor(s: Service) {}\n"+
			"}\n"+
			"export class Derived extends Helper {}\n"))

	checker := analyze(t, tree, []string{"src/all.ts"})
	sets := Collect(checker)

	fid := checker.Files()[0]
	idOf := func(name string) ast.ClassID {
		t.Helper()
		id, ok := checker.LookupClass(fid, name)
		if !ok {
			t.Fatalf("class %s not in the program", name)
		}
		return id
	}

	want := map[ast.ClassID]DeclKind{
		idOf("Widget"):  DecoratedDirective,
		idOf("Service"): DecoratedProvider,
		idOf("Helper"):  Undecorated,
		idOf("Derived"): Undecorated,
	}

	// every collected class sits in exactly one set, under its kind
	seen := make(map[ast.ClassID]int)
	for _, group := range [][]*ClassInfo{sets.Directives, sets.Providers, sets.Undecorated} {
		for _, info := range group {
			seen[info.ID]++
			kind, expected := want[info.ID]
			if !expected {
				t.Errorf("class '%s' collected but should not be", info.Decl.Name)
				continue
			}
			if info.Kind != kind {
				t.Errorf("class '%s' classified %v, want %v", info.Decl.Name, info.Kind, kind)
			}
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("class '%s' appears in %d sets", checker.Tree().Class(id).Name, n)
		}
	}
	if len(seen) != len(want) {
		t.Errorf("collected %d classes, want %d", len(seen), len(want))
	}

	if _, ok := sets.Lookup(idOf("Plain")); ok {
		t.Error("a class with no constructor and no base must not be collected")
	}
	if info, ok := sets.Lookup(idOf("Derived")); !ok || info.Kind != Undecorated {
		t.Error("a subclass of a constructor-owning base must be collected as undecorated")
	}
}
