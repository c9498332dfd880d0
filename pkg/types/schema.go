package types

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Column declares one typed column of a table.
type Column struct {
	Name string
	Type Kind
}

// ForeignKey ties Column to RefColumn of RefTable.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Check is a lower-bound range rule: Column >= Min.
type Check struct {
	Column string
	Min    float64
}

// Default is the value a column takes when the caller leaves it empty.
// CurrentTime defaults are computed by the caller at insert time.
type Default struct {
	Column      string
	Value       Value
	CurrentTime bool
}

// TableSchema describes a table's columns and the constraint metadata that
// callers may choose to enforce. The store itself reads only Columns.
type TableSchema struct {
	Name          string
	Columns       []Column
	PrimaryKey    []string
	NotNull       []string
	Unique        []string
	CandidateKeys []string
	ForeignKeys   []ForeignKey
	Checks        []Check
	Defaults      []Default
}

// Column returns the declared column named name.
func (s TableSchema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order.
func (s TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// IsPrimaryKey reports whether col is part of the primary key.
func (s TableSchema) IsPrimaryKey(col string) bool {
	return slices.Contains(s.PrimaryKey, col)
}

// IsNotNull reports whether col is required. Primary-key columns are
// always required.
func (s TableSchema) IsNotNull(col string) bool {
	return slices.Contains(s.NotNull, col) || s.IsPrimaryKey(col)
}

// IsUnique reports whether col carries a single-column UNIQUE constraint.
func (s TableSchema) IsUnique(col string) bool {
	return slices.Contains(s.Unique, col)
}

// ForeignKeyFor returns the foreign key declared on col, if any.
func (s TableSchema) ForeignKeyFor(col string) (ForeignKey, bool) {
	for _, fk := range s.ForeignKeys {
		if fk.Column == col {
			return fk, true
		}
	}
	return ForeignKey{}, false
}

// DefaultFor returns the default declared on col, if any.
func (s TableSchema) DefaultFor(col string) (Default, bool) {
	for _, d := range s.Defaults {
		if d.Column == col {
			return d, true
		}
	}
	return Default{}, false
}

// Schema is an ordered set of table schemas.
type Schema []TableSchema

// Table looks up a table schema by name.
func (s Schema) Table(name string) (TableSchema, bool) {
	for _, t := range s {
		if t.Name == name {
			return t, true
		}
	}
	return TableSchema{}, false
}

// Names returns the table names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.Name
	}
	return names
}

// Validate checks that table names are unique and that every key,
// constraint, and foreign key refers to a declared column.
func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, t := range s {
		if seen[t.Name] {
			return errors.Wrapf(ErrDuplicateTable, "%s", t.Name)
		}
		seen[t.Name] = true
	}
	for _, t := range s {
		cols := make([]string, 0)
		cols = append(cols, t.PrimaryKey...)
		cols = append(cols, t.NotNull...)
		cols = append(cols, t.Unique...)
		cols = append(cols, t.CandidateKeys...)
		for _, c := range t.Checks {
			cols = append(cols, c.Column)
		}
		for _, d := range t.Defaults {
			cols = append(cols, d.Column)
		}
		for _, fk := range t.ForeignKeys {
			cols = append(cols, fk.Column)
			ref, ok := s.Table(fk.RefTable)
			if !ok {
				return errors.Wrapf(ErrTableNotFound, "%s.%s references %s", t.Name, fk.Column, fk.RefTable)
			}
			if _, ok := ref.Column(fk.RefColumn); !ok {
				return errors.Wrapf(ErrUnknownColumn, "%s.%s references %s.%s", t.Name, fk.Column, fk.RefTable, fk.RefColumn)
			}
		}
		for _, c := range cols {
			if _, ok := t.Column(c); !ok {
				return errors.Wrapf(ErrUnknownColumn, "%s.%s", t.Name, c)
			}
		}
	}
	return nil
}
