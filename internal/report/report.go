// Package report stores the content of a function store in SQLite so that
// compilation runs can be inspected and compared after the fact.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/solar-lang/solar-compiler/internal/compiler"
	"github.com/solar-lang/solar-compiler/internal/mir"

	_ "modernc.org/sqlite"
)

// Row is one function store entry in printable form.
type Row struct {
	Index  uint32
	Symbol string
	Name   string
	Args   string
	Return string
	State  string
	Body   string
}

// Rows renders the store of cc in index order.
func Rows(cc *compiler.Context) []Row {
	entries := cc.Functions.Snapshot()
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		args := make([]string, len(e.SSID.Args))
		for i, a := range e.SSID.Args {
			args[i] = cc.Types.Name(a)
		}
		row := Row{
			Index:  uint32(e.ID),
			Symbol: e.SSID.Symbol.String(),
			Args:   strings.Join(args, ", "),
			State:  e.State.String(),
		}
		switch e.State {
		case compiler.Complete:
			row.Name = e.Function.Name
			row.Return = cc.Types.Name(e.Function.Return)
			row.Body = mir.Dump(e.Function, e.ID, cc.Types)
		case compiler.Failed:
			row.Body = e.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	target     TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS functions (
	run_id  TEXT    NOT NULL REFERENCES runs(id),
	idx     INTEGER NOT NULL,
	symbol  TEXT    NOT NULL,
	name    TEXT    NOT NULL,
	args    TEXT    NOT NULL,
	ret     TEXT    NOT NULL,
	state   TEXT    NOT NULL,
	body    TEXT    NOT NULL,
	PRIMARY KEY (run_id, idx)
);`

// Write opens the SQLite database at dsn and records rows under runID.
func Write(ctx context.Context, dsn string, runID uuid.UUID, target string, rows []Row) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open report database: %w", err)
	}
	defer db.Close()
	return Store(ctx, db, runID, target, rows)
}

// Store writes into an already open database in a single transaction.
func Store(ctx context.Context, db *sql.DB, runID uuid.UUID, target string, rows []Row) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create report schema: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, target) VALUES (?, ?)`, runID.String(), target); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO functions (run_id, idx, symbol, name, args, ret, state, body) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, runID.String(), r.Index, r.Symbol, r.Name, r.Args, r.Return, r.State, r.Body); err != nil {
			return fmt.Errorf("insert function #%d: %w", r.Index, err)
		}
	}
	return tx.Commit()
}

// Load reads back the rows of one run in index order.
func Load(ctx context.Context, db *sql.DB, runID uuid.UUID) ([]Row, error) {
	rs, err := db.QueryContext(ctx,
		`SELECT idx, symbol, name, args, ret, state, body FROM functions WHERE run_id = ? ORDER BY idx`, runID.String())
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []Row
	for rs.Next() {
		var r Row
		if err := rs.Scan(&r.Index, &r.Symbol, &r.Name, &r.Args, &r.Return, &r.State, &r.Body); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rs.Err()
}
