package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dimigrate/internal/diag"
	"dimigrate/internal/vfs"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCreateProgramHappyPath(t *testing.T) {
	dir := writeProject(t, map[string]string{
		ManifestName:    "[project]\nname = \"demo\"\nroot = \"src\"\n",
		"src/a.ts":      "export class A {}\n",
		"src/b.ts":      "import { A } from './a';\nexport class B extends A {}\n",
		"src/skip.d.ts": "declare class Hidden {}\n",
	})
	prog, err := CreateProgram(filepath.Join(dir, ManifestName), vfs.NewHost())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Files) != 2 {
		t.Fatalf("analyzed %d files, want 2 (.d.ts excluded)", len(prog.Files))
	}
	if prog.Checker == nil {
		t.Fatal("checker missing")
	}
	if prog.ContentHash().IsZero() {
		t.Fatal("content hash must not be zero")
	}
}

func TestCreateProgramNoSources(t *testing.T) {
	dir := writeProject(t, map[string]string{
		ManifestName: "[project]\nname = \"empty\"\n",
	})
	_, err := CreateProgram(filepath.Join(dir, ManifestName), vfs.NewHost())
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Code != diag.CfgNoSourceFiles {
		t.Fatalf("code = %v, want CfgNoSourceFiles", cfgErr.Code)
	}
}

func TestCreateProgramSyntacticStageMasksStructural(t *testing.T) {
	// unbalanced braces AND a duplicate class: only the syntactic stage
	// may surface
	dir := writeProject(t, map[string]string{
		ManifestName: "[project]\nname = \"broken\"\n",
		"a.ts":       "class X {}\nclass X {}\nclass Y {\n",
	})
	_, err := CreateProgram(filepath.Join(dir, ManifestName), vfs.NewHost())
	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected BuildError, got %v", err)
	}
	if buildErr.Category != diag.CatSyntactic {
		t.Fatalf("category = %v, want syntactic", buildErr.Category)
	}
	for _, d := range buildErr.Diags {
		if diag.CategoryOf(d.Code) != diag.CatSyntactic {
			t.Fatalf("stage leaked %v diagnostic: %+v", diag.CategoryOf(d.Code), d)
		}
	}
}

func TestCreateProgramStructuralStage(t *testing.T) {
	dir := writeProject(t, map[string]string{
		ManifestName: "[project]\nname = \"dups\"\n",
		"a.ts":       "class X {}\nclass X {}\n",
	})
	_, err := CreateProgram(filepath.Join(dir, ManifestName), vfs.NewHost())
	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected BuildError, got %v", err)
	}
	if buildErr.Category != diag.CatStructural {
		t.Fatalf("category = %v, want structural", buildErr.Category)
	}
}

func TestCreateProgramHashTracksContent(t *testing.T) {
	files := map[string]string{
		ManifestName: "[project]\nname = \"h\"\n",
		"a.ts":       "class A {}\n",
	}
	dir := writeProject(t, files)
	manifest := filepath.Join(dir, ManifestName)

	p1, err := CreateProgram(manifest, vfs.NewHost())
	if err != nil {
		t.Fatal(err)
	}
	p2, err := CreateProgram(manifest, vfs.NewHost())
	if err != nil {
		t.Fatal(err)
	}
	if p1.ContentHash() != p2.ContentHash() {
		t.Fatal("identical sources must hash identically")
	}

	if err := os.WriteFile(filepath.Join(dir, "a.ts"), []byte("class A2 {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p3, err := CreateProgram(manifest, vfs.NewHost())
	if err != nil {
		t.Fatal(err)
	}
	if p1.ContentHash() == p3.ContentHash() {
		t.Fatal("changed sources must change the hash")
	}
}
