package types

import (
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Row maps column names to cell values. Absent columns are simply missing
// from the map.
type Row map[string]Value

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Columns returns the row's column names in sorted order.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Table is a snapshot of one table: row identifiers in iteration order and
// the rows they name.
type Table struct {
	Name   string         `json:"name"`
	RowIDs []string       `json:"row_ids"`
	Rows   map[string]Row `json:"rows"`
}

// Len returns the number of rows in the snapshot.
func (t Table) Len() int { return len(t.RowIDs) }

// SortRowIDs orders numeric ids numerically and places them before
// non-numeric ids, which sort lexically.
func SortRowIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, aErr := strconv.ParseFloat(ids[i], 64)
		b, bErr := strconv.ParseFloat(ids[j], 64)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}

// Store write errors. These are the only errors a write can return; business
// rules are never enforced by the store.
var (
	ErrTableNotFound  = errors.New("table not found")
	ErrUnknownColumn  = errors.New("column not declared in table schema")
	ErrTypeMismatch   = errors.New("value kind does not match column type")
	ErrInvalidRowID   = errors.New("row id must not be empty")
	ErrInvalidKind    = errors.New("invalid value kind")
	ErrInvalidValue   = errors.New("invalid value")
	ErrDuplicateTable = errors.New("duplicate table in schema")
)
