package modules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/symbols"
)

// writeTree creates files (path relative to root -> content) below root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResolveImports(t *testing.T) {
	file := &ast.File{Imports: []*ast.Import{
		{IsLib: true, Path: []string{"std", "string", "concat"}, Selection: ast.SelectThis},
		{IsLib: true, Path: []string{"std", "array", "concat"}, Selection: ast.SelectThis},
		{Path: []string{"util"}, Selection: ast.SelectItems, Items: []string{"double", "half"}},
	}}
	deps := map[string]symbols.IdPath{"std": {"std"}}

	imports, err := ResolveImports(file, deps, symbols.IdPath{"app"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	concat := imports["concat"]
	if len(concat) != 2 || concat[0].String() != "std.string" || concat[1].String() != "std.array" {
		t.Errorf("concat got=%v, want=[std.string std.array]", concat)
	}
	for _, name := range []string{"double", "half"} {
		if got := imports[name]; len(got) != 1 || got[0].String() != "app.util" {
			t.Errorf("%s got=%v, want=[app.util]", name, got)
		}
	}
}

func TestResolveImportsMissingLib(t *testing.T) {
	file := &ast.File{Imports: []*ast.Import{
		{IsLib: true, Path: []string{"net", "http"}, Selection: ast.SelectThis},
	}}
	_, err := ResolveImports(file, map[string]symbols.IdPath{}, symbols.IdPath{"app"}, nil)
	var libErr *LibNotInDepsError
	if !errors.As(err, &libErr) || libErr.Lib != "net" {
		t.Fatalf("got=%v, want *LibNotInDepsError for net", err)
	}
}

func TestSymbolResolverDedupe(t *testing.T) {
	r := make(SymbolResolver)
	r.Add("f", symbols.IdPath{"a", "b"})
	r.Add("f", symbols.IdPath{"a", "b"})
	if len(r["f"]) != 1 {
		t.Errorf("got=%v, want a single origin", r["f"])
	}
}

func TestModuleFind(t *testing.T) {
	m := NewModule(symbols.IdPath{"app"}, 0)
	m.AddFile(&FileInfo{AST: &ast.File{Items: []ast.Item{
		&ast.Function{Name: "f"},
		&ast.Test{Name: "f"},
	}}})
	m.AddFile(&FileInfo{AST: &ast.File{Items: []ast.Item{
		&ast.GlobalVar{Name: "f"},
	}}})

	got := m.Find("f")
	want := []symbols.SymbolID{{Module: "app", File: 0, Item: 0}, {Module: "app", File: 1, Item: 0}}
	if len(got) != len(want) {
		t.Fatalf("got=%v, want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] got=%v, want=%v", i, got[i], want[i])
		}
	}
	if len(m.Find("g")) != 0 {
		t.Errorf("g should not be found")
	}
}

func TestLoader(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/solar.yaml": "name: app\ndependencies:\n  std: ../std\n",
		"app/src/main.sol.yaml": `
imports:
  - use: std.io.println
    lib: true
  - use: util
    all: true
items:
  - fun: main
    body: {call: println, args: ["hi"]}
`,
		"app/src/util/util.sol.yaml": "items:\n  - fun: double\n    params: [x]\n    body: {call: buildin_add, args: [{ident: x}, {ident: x}]}\n",
		"std/solar.yaml":             "name: std\n",
		"std/src/io/io.sol.yaml":     "items:\n  - fun: println\n    params: [s]\n    body: {call: buildin_print, args: [{ident: s}, \"\\n\"]}\n",
	})

	info, reg, err := NewLoader().Load(filepath.Join(root, "app"))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(info.Projects) != 2 || info.Target().Name != "app" {
		t.Fatalf("projects got=%+v", info.Projects)
	}
	if info.Target().Deps["std"].String() != "std" {
		t.Errorf("std dep got=%v", info.Target().Deps["std"])
	}

	var keys []string
	for _, m := range reg.Modules() {
		keys = append(keys, m.Key())
	}
	want := []string{"app", "app/util", "std/io"}
	if len(keys) != len(want) {
		t.Fatalf("modules got=%v, want=%v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("module %d got=%s, want=%s", i, keys[i], want[i])
		}
	}

	app, err := reg.Get(symbols.IdPath{"app"})
	if err != nil {
		t.Fatal(err)
	}
	imports := app.Files[0].Imports
	if got := imports["println"]; len(got) != 1 || got[0].String() != "std.io" {
		t.Errorf("println origin got=%v, want=[std.io]", got)
	}
	if got := imports["double"]; len(got) != 1 || got[0].String() != "app.util" {
		t.Errorf("double origin got=%v, want=[app.util]", got)
	}

	if _, err := reg.Get(symbols.IdPath{"nope"}); err == nil {
		t.Errorf("expected ModuleNotFoundError")
	}
}

func TestLoaderDependencyCycle(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/solar.yaml":     "name: a\ndependencies:\n  b: ../b\n",
		"a/src/a.sol.yaml": "items: []\n",
		"b/solar.yaml":     "name: b\ndependencies:\n  a: ../a\n",
		"b/src/b.sol.yaml": "items: []\n",
	})
	if _, _, err := NewLoader().Load(filepath.Join(root, "a")); err == nil {
		t.Fatalf("expected a circular dependency error")
	}
}

func TestLoaderMissingSources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"solar.yaml": "name: app\n"})
	if _, _, err := NewLoader().Load(root); err == nil {
		t.Fatalf("expected an error for a project without src/")
	}
}
