// Package constraint implements the application-level integrity rules the
// demos run before writing to the store. A rule reads the current table
// state, and a rejected row is never written; there is nothing to roll back.
package constraint

import (
	"strings"

	set "github.com/hashicorp/go-set/v2"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// Reader is the read half of the table store that rules need.
type Reader interface {
	GetRowIDs(table string) []string
	GetCell(table, rowID, column string) (types.Value, bool)
	HasRow(table, rowID string) bool
}

// Rule checks one candidate row. It returns a *Violation on rejection.
type Rule interface {
	Check(r Reader, table, rowID string, row types.Row) error
}

// Validate runs rules in order and returns the first violation.
func Validate(r Reader, table, rowID string, row types.Row, rules ...Rule) error {
	for _, rule := range rules {
		if err := rule.Check(r, table, rowID, row); err != nil {
			return err
		}
	}
	return nil
}

// RulesFor derives every rule declared by a table schema in the order NOT
// NULL, PRIMARY KEY, UNIQUE, FOREIGN KEY, CHECK. Candidate keys are
// informational and produce no rule.
func RulesFor(ts types.TableSchema) []Rule {
	var rules []Rule
	if len(ts.NotNull) > 0 {
		rules = append(rules, NotNull(ts.NotNull...))
	}
	if len(ts.PrimaryKey) > 0 {
		rules = append(rules, PrimaryKey(ts.PrimaryKey...))
	}
	if len(ts.Unique) > 0 {
		rules = append(rules, Unique(ts.Unique...))
	}
	for _, fk := range ts.ForeignKeys {
		rules = append(rules, ForeignKey(fk.Column, fk.RefTable, fk.RefColumn))
	}
	for _, c := range ts.Checks {
		rules = append(rules, Check(c.Column, c.Min))
	}
	return rules
}

// NextID returns one more than the largest numeric value in column, or 1
// when the table has none.
func NextID(r Reader, table, column string) int64 {
	var hi int64
	for _, id := range r.GetRowIDs(table) {
		v, ok := r.GetCell(table, id, column)
		if !ok {
			continue
		}
		if f, ok := v.Float(); ok && int64(f) > hi {
			hi = int64(f)
		}
	}
	return hi + 1
}

// valueKey identifies a value across kinds so that 1 and "1" differ.
func valueKey(v types.Value) string {
	return v.Kind().String() + ":" + v.String()
}

// columnValues collects the keys of every value stored in column.
func columnValues(r Reader, table, column string) *set.Set[string] {
	ids := r.GetRowIDs(table)
	s := set.New[string](len(ids))
	for _, id := range ids {
		if v, ok := r.GetCell(table, id, column); ok {
			s.Insert(valueKey(v))
		}
	}
	return s
}

// UniqueColumns reports, per column, whether no two rows of table share a
// non-empty value. Used by the candidate-key demo.
func UniqueColumns(r Reader, table string, columns ...string) map[string]bool {
	out := make(map[string]bool, len(columns))
	ids := r.GetRowIDs(table)
	for _, col := range columns {
		seen := set.New[string](len(ids))
		unique := true
		for _, id := range ids {
			v, ok := r.GetCell(table, id, col)
			if !ok || v.IsEmpty() {
				continue
			}
			if !seen.Insert(valueKey(v)) {
				unique = false
				break
			}
		}
		out[col] = unique
	}
	return out
}

func joinValues(vals []types.Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
