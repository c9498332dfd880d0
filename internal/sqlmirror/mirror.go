// Package sqlmirror mirrors the demo schema into an in-memory SQLite
// database so the same inserts can be judged by the engine's own
// constraints and compared with the application-level rules. Nothing is
// written to disk.
package sqlmirror

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/schemalab/internal/constraint"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// Reader is the part of the store Load copies from.
type Reader interface {
	GetRowIDs(table string) []string
	GetRow(table, rowID string) (types.Row, bool)
}

// Verdict is the engine's answer to one insert.
type Verdict struct {
	Accepted bool            `json:"accepted"`
	Kind     constraint.Kind `json:"kind,omitempty"`
	Detail   string          `json:"detail"`
}

// Mirror is an open in-memory database built from a schema.
type Mirror struct {
	db     *sql.DB
	schema types.Schema
	order  []string
}

// Open creates the in-memory database and every table with foreign keys
// enforced.
func Open(ctx context.Context, schema types.Schema) (*Mirror, error) {
	stmts, err := RenderDDL(schema)
	if err != nil {
		return nil, err
	}
	order, _ := loadOrder(schema)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "create table: %s", stmt)
		}
	}
	return &Mirror{db: db, schema: schema, order: order}, nil
}

// Close releases the database.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// Load copies every row of r into the mirror, parents first. A row the
// engine rejects aborts the load.
func (m *Mirror) Load(ctx context.Context, r Reader) error {
	for _, table := range m.order {
		for _, id := range r.GetRowIDs(table) {
			row, ok := r.GetRow(table, id)
			if !ok {
				continue
			}
			if err := m.exec(ctx, table, row); err != nil {
				return errors.Wrapf(err, "load %s row %s", table, id)
			}
		}
	}
	return nil
}

// Insert runs one INSERT and classifies the outcome. Only constraint
// failures become rejected verdicts; anything else is an error.
func (m *Mirror) Insert(ctx context.Context, table string, row types.Row) (Verdict, error) {
	ts, ok := m.schema.Table(table)
	if !ok {
		return Verdict{}, errors.Wrapf(types.ErrTableNotFound, "%s", table)
	}
	err := m.exec(ctx, table, row)
	if err == nil {
		return Verdict{Accepted: true, Detail: "accepted"}, nil
	}
	kind, ok := classify(ts, err)
	if !ok {
		return Verdict{}, errors.Wrapf(err, "insert into %s", table)
	}
	return Verdict{Kind: kind, Detail: engineMessage(err)}, nil
}

// Count returns the number of rows the engine holds for table.
func (m *Mirror) Count(ctx context.Context, table string) (int, error) {
	if _, ok := m.schema.Table(table); !ok {
		return 0, errors.Wrapf(types.ErrTableNotFound, "%s", table)
	}
	var n int
	err := m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+ident(table)).Scan(&n)
	return n, err
}

func (m *Mirror) exec(ctx context.Context, table string, row types.Row) error {
	cols := row.Columns()
	if len(cols) == 0 {
		_, err := m.db.ExecContext(ctx, "INSERT INTO "+ident(table)+" DEFAULT VALUES")
		return err
	}
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = "?"
		args[i] = bind(row[c])
	}
	q := "INSERT INTO " + ident(table) + " (" + identList(cols) + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	_, err := m.db.ExecContext(ctx, q, args...)
	return err
}

// bind passes whole numbers as integers so INTEGER PRIMARY KEY accepts them.
func bind(v types.Value) any {
	if f, ok := v.Float(); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	}
	s, _ := v.Str()
	return s
}

// classify maps an engine error onto a constraint kind.
func classify(ts types.TableSchema, err error) (constraint.Kind, bool) {
	msg := err.Error()
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return constraint.KindNotNull, true
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return constraint.KindPrimaryKey, true
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return constraint.KindForeignKey, true
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return uniqueKind(ts, msg), true
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return checkKind(msg), true
		}
	}
	switch {
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return constraint.KindNotNull, true
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return constraint.KindForeignKey, true
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return uniqueKind(ts, msg), true
	case strings.Contains(msg, "CHECK constraint failed"):
		return checkKind(msg), true
	}
	return "", false
}

// uniqueKind tells a duplicate primary key from a duplicate UNIQUE column.
// The message names the columns as "table.column, table.column".
func uniqueKind(ts types.TableSchema, msg string) constraint.Kind {
	_, cols, ok := strings.Cut(msg, "UNIQUE constraint failed: ")
	if !ok {
		return constraint.KindUnique
	}
	if i := strings.Index(cols, " ("); i >= 0 {
		cols = cols[:i]
	}
	for _, qualified := range strings.Split(cols, ", ") {
		_, col, _ := strings.Cut(strings.TrimSpace(qualified), ".")
		if !ts.IsPrimaryKey(col) {
			return constraint.KindUnique
		}
	}
	return constraint.KindPrimaryKey
}

func checkKind(msg string) constraint.Kind {
	if strings.Contains(msg, "CHECK constraint failed: "+notEmptyPrefix) {
		return constraint.KindNotNull
	}
	return constraint.KindCheck
}

// engineMessage strips the driver's prefix and result code.
func engineMessage(err error) string {
	msg := err.Error()
	if _, rest, ok := strings.Cut(msg, "constraint failed: "); ok && strings.Contains(rest, "constraint failed") {
		msg = rest
	}
	if i := strings.LastIndex(msg, " ("); i > 0 && strings.HasSuffix(msg, ")") {
		msg = msg[:i]
	}
	return msg
}
