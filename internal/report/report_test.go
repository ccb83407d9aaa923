package report

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/compiler"
	"github.com/solar-lang/solar-compiler/internal/modules"
	"github.com/solar-lang/solar-compiler/internal/symbols"
)

func compiledContext(t *testing.T, src string) *compiler.Context {
	t.Helper()
	info := &modules.ProjectInfo{}
	p := info.Add(&modules.Project{Name: "app", Base: symbols.IdPath{"app"}})
	reg := modules.NewRegistry()
	file, err := ast.Decode("main.sol.yaml", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	reg.AddFile(symbols.IdPath{"app"}, p.ID, file)
	if err := reg.Link(info); err != nil {
		t.Fatal(err)
	}
	cc := compiler.NewContext(info, reg)
	main, err := cc.FindTargetMain()
	if err != nil {
		t.Fatal(err)
	}
	cc.CompileSymbol(main, nil)
	return cc
}

const program = `
items:
  - fun: main
    body: {call: buildin_print, args: [{call: twice, args: ["ab"]}, {call: broken}]}
  - fun: twice
    params: [s]
    body: {call: buildin_str_concat, args: [{ident: s}, {ident: s}]}
  - fun: broken
    body: {call: nowhere}
`

func TestRows(t *testing.T) {
	rows := Rows(compiledContext(t, program))
	if len(rows) != 3 {
		t.Fatalf("rows got=%d, want=3: %+v", len(rows), rows)
	}
	byState := map[string][]Row{}
	for _, r := range rows {
		byState[r.State] = append(byState[r.State], r)
	}
	complete, failed := byState[compiler.Complete.String()], byState[compiler.Failed.String()]
	if len(complete) != 1 || complete[0].Name != "twice" || complete[0].Args != "String" || complete[0].Return != "String" {
		t.Errorf("complete rows got=%+v", complete)
	}
	if len(failed) != 2 {
		t.Fatalf("failed rows got=%+v", failed)
	}
	for _, r := range failed {
		if !strings.Contains(r.Body, "nowhere") {
			t.Errorf("failed row body got=%q, want the lookup error", r.Body)
		}
	}
}

func TestWriteAndLoad(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "report.db")
	rows := Rows(compiledContext(t, program))

	first, second := uuid.New(), uuid.New()
	if err := Write(ctx, dsn, first, "app", rows); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(ctx, dsn, second, "app", rows[:1]); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	got, err := Load(ctx, db, first)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("rows got=%d, want=%d", len(got), len(rows))
	}
	want := append([]Row(nil), rows...)
	sort.Slice(want, func(i, j int) bool { return want[i].Index < want[j].Index })
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d got=%+v, want=%+v", i, got[i], want[i])
		}
	}

	if got, _ := Load(ctx, db, second); len(got) != 1 {
		t.Errorf("second run rows got=%d, want=1", len(got))
	}
	var runs int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&runs); err != nil || runs != 2 {
		t.Errorf("runs got=%d err=%v, want=2", runs, err)
	}
}

func TestDuplicateRunIsRejected(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "report.db")
	id := uuid.New()
	if err := Write(ctx, dsn, id, "app", nil); err != nil {
		t.Fatal(err)
	}
	if err := Write(ctx, dsn, id, "app", nil); err == nil {
		t.Errorf("expected an error when reusing a run id")
	}
}
