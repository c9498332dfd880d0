package constraint

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

type notNullRule struct{ columns []string }

// NotNull rejects rows where any of columns is absent or blank text.
func NotNull(columns ...string) Rule { return notNullRule{columns: columns} }

func (n notNullRule) Check(_ Reader, table, _ string, row types.Row) error {
	for _, col := range n.columns {
		v, ok := row[col]
		if !ok || v.IsEmpty() {
			return newViolation(KindNotNull, table, col, v, "%s is required (NULL not allowed)", col)
		}
	}
	return nil
}

type primaryKeyRule struct{ columns []string }

// PrimaryKey rejects rows whose key is empty, whose row id is taken, or
// whose key values match another row.
func PrimaryKey(columns ...string) Rule { return primaryKeyRule{columns: columns} }

func (p primaryKeyRule) Check(r Reader, table, rowID string, row types.Row) error {
	key := make([]types.Value, len(p.columns))
	for i, col := range p.columns {
		v, ok := row[col]
		if !ok || v.IsEmpty() {
			return newViolation(KindPrimaryKey, table, col, v, "%s is required (primary key cannot be NULL)", col)
		}
		key[i] = v
	}

	taken := r.HasRow(table, rowID)
	if !taken {
		for _, id := range r.GetRowIDs(table) {
			if id != rowID && p.sameKey(r, table, id, key) {
				taken = true
				break
			}
		}
	}
	if !taken {
		return nil
	}
	if len(p.columns) == 1 {
		return newViolation(KindPrimaryKey, table, p.columns[0], key[0],
			"%s %s already exists (uniqueness constraint)", p.columns[0], key[0])
	}
	return newViolation(KindPrimaryKey, table, strings.Join(p.columns, ","), key[0],
		"(%s) (%s) already exists (uniqueness constraint)", strings.Join(p.columns, ", "), joinValues(key))
}

func (p primaryKeyRule) sameKey(r Reader, table, rowID string, key []types.Value) bool {
	for i, col := range p.columns {
		v, ok := r.GetCell(table, rowID, col)
		if !ok || !v.Equal(key[i]) {
			return false
		}
	}
	return true
}

type uniqueRule struct{ columns []string }

// Unique rejects a non-empty value that already appears in another row.
// Each column is checked on its own. Absent values never collide.
func Unique(columns ...string) Rule { return uniqueRule{columns: columns} }

func (u uniqueRule) Check(r Reader, table, rowID string, row types.Row) error {
	ids := r.GetRowIDs(table)
	for _, col := range u.columns {
		v, ok := row[col]
		if !ok || v.IsEmpty() {
			continue
		}
		for _, id := range ids {
			if id == rowID {
				continue
			}
			if existing, ok := r.GetCell(table, id, col); ok && existing.Equal(v) {
				return newViolation(KindUnique, table, col, v, "%s %s already exists (duplicates not allowed)", col, display(v))
			}
		}
	}
	return nil
}

type foreignKeyRule struct {
	column, refTable, refColumn string
}

// ForeignKey rejects a value of column that does not appear in
// refTable.refColumn. An absent value is left to NotNull.
func ForeignKey(column, refTable, refColumn string) Rule {
	return foreignKeyRule{column: column, refTable: refTable, refColumn: refColumn}
}

func (f foreignKeyRule) Check(r Reader, table, _ string, row types.Row) error {
	v, ok := row[f.column]
	if !ok || v.IsEmpty() {
		return nil
	}
	if columnValues(r, f.refTable, f.refColumn).Contains(valueKey(v)) {
		return nil
	}
	return newViolation(KindForeignKey, table, f.column, v,
		"%s %s does not exist in the %s table (referential integrity violation)", f.column, v, f.refTable)
}

type checkRule struct {
	column string
	min    float64
}

// Check rejects a numeric value of column below min. Non-numeric and absent
// values are left to the type check and NotNull.
func Check(column string, minimum float64) Rule { return checkRule{column: column, min: minimum} }

func (c checkRule) Check(_ Reader, table, _ string, row types.Row) error {
	v, ok := row[c.column]
	if !ok {
		return nil
	}
	f, ok := v.Float()
	if !ok || f >= c.min {
		return nil
	}
	return newViolation(KindCheck, table, c.column, v, "%s must be %s or greater",
		c.column, strconv.FormatFloat(c.min, 'f', -1, 64))
}
