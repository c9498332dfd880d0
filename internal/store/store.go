// Package store implements the in-memory table store behind every demo.
// The store is a container: it checks that written values match the declared
// column types and nothing else. Constraint rules live with the callers.
package store

import (
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// tableData holds the rows of one table plus their insertion order.
type tableData struct {
	schema types.TableSchema
	order  []string
	rows   map[string]types.Row
}

// Store holds named tables of rows. A Store is created with New, seeded, and
// then read and written by one session; it is never shared through a global.
type Store struct {
	mu     sync.RWMutex
	schema types.Schema
	tables map[string]*tableData

	listeners listenerRegistry
}

// New creates an empty store for the given schema.
// Returns an error if the schema is inconsistent.
func New(schema types.Schema) (*Store, error) {
	if err := schema.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate schema")
	}
	s := &Store{
		schema: schema,
		tables: make(map[string]*tableData, len(schema)),
	}
	for _, ts := range schema {
		s.tables[ts.Name] = &tableData{
			schema: ts,
			rows:   make(map[string]types.Row),
		}
	}
	s.listeners.init()
	return s, nil
}

// Schema returns the schema the store was created with.
func (s *Store) Schema() types.Schema {
	return s.schema
}

// GetTableIDs returns the table names in schema order.
func (s *Store) GetTableIDs() []string {
	return s.schema.Names()
}

// GetTable returns a snapshot of the named table. A missing table yields an
// empty snapshot.
func (s *Store) GetTable(name string) types.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := types.Table{Name: name, Rows: map[string]types.Row{}}
	td, ok := s.tables[name]
	if !ok {
		out.RowIDs = []string{}
		return out
	}
	out.RowIDs = slices.Clone(td.order)
	for id, row := range td.rows {
		out.Rows[id] = row.Clone()
	}
	return out
}

// GetRowIDs returns the row identifiers of a table in insertion order.
func (s *Store) GetRowIDs(table string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	td, ok := s.tables[table]
	if !ok {
		return []string{}
	}
	return slices.Clone(td.order)
}

// RowCount returns the number of rows in a table.
func (s *Store) RowCount(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if td, ok := s.tables[table]; ok {
		return len(td.order)
	}
	return 0
}

// GetRow returns a copy of a row.
func (s *Store) GetRow(table, rowID string) (types.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	td, ok := s.tables[table]
	if !ok {
		return nil, false
	}
	row, ok := td.rows[rowID]
	if !ok {
		return nil, false
	}
	return row.Clone(), true
}

// GetCell returns one cell. ok is false when the table, row, or column is
// missing.
func (s *Store) GetCell(table, rowID, column string) (types.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	td, ok := s.tables[table]
	if !ok {
		return types.Value{}, false
	}
	row, ok := td.rows[rowID]
	if !ok {
		return types.Value{}, false
	}
	v, ok := row[column]
	return v, ok
}

// HasRow reports whether the row exists.
func (s *Store) HasRow(table, rowID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	td, ok := s.tables[table]
	if !ok {
		return false
	}
	_, ok = td.rows[rowID]
	return ok
}

// SetRow creates or replaces a row. Only column declarations and value kinds
// are checked; constraint rules are the caller's job.
func (s *Store) SetRow(table, rowID string, row types.Row) error {
	if rowID == "" {
		return types.ErrInvalidRowID
	}
	s.mu.Lock()
	td, ok := s.tables[table]
	if !ok {
		s.mu.Unlock()
		return errors.Wrapf(types.ErrTableNotFound, "%s", table)
	}
	if err := checkRow(td.schema, row); err != nil {
		s.mu.Unlock()
		return err
	}
	old, existed := td.rows[rowID]
	td.rows[rowID] = row.Clone()
	if !existed {
		td.order = append(td.order, rowID)
	}
	changes := diffRows(table, rowID, old, row)
	s.mu.Unlock()

	s.listeners.notify(changes, table, !existed)
	return nil
}

// SetCell updates a single cell, creating the row if it does not exist.
func (s *Store) SetCell(table, rowID, column string, value types.Value) error {
	if rowID == "" {
		return types.ErrInvalidRowID
	}
	s.mu.Lock()
	td, ok := s.tables[table]
	if !ok {
		s.mu.Unlock()
		return errors.Wrapf(types.ErrTableNotFound, "%s", table)
	}
	if err := checkCell(td.schema, column, value); err != nil {
		s.mu.Unlock()
		return err
	}
	row, existed := td.rows[rowID]
	if !existed {
		row = types.Row{}
		td.rows[rowID] = row
		td.order = append(td.order, rowID)
	}
	old, had := row[column]
	row[column] = value
	var changes []Change
	if !had || !old.Equal(value) {
		changes = []Change{{
			Table: table, RowID: rowID, Column: column,
			Old: old, HadOld: had, New: value, HasNew: true,
		}}
	}
	s.mu.Unlock()

	s.listeners.notify(changes, table, !existed)
	return nil
}

// SetTable replaces every row of a table. Row identifiers are ordered
// numerically when they are numbers, lexically otherwise.
func (s *Store) SetTable(table string, rows map[string]types.Row) error {
	s.mu.Lock()
	td, ok := s.tables[table]
	if !ok {
		s.mu.Unlock()
		return errors.Wrapf(types.ErrTableNotFound, "%s", table)
	}
	for id, row := range rows {
		if id == "" {
			s.mu.Unlock()
			return types.ErrInvalidRowID
		}
		if err := checkRow(td.schema, row); err != nil {
			s.mu.Unlock()
			return errors.Wrapf(err, "row %s", id)
		}
	}

	var changes []Change
	for _, id := range td.order {
		if _, keep := rows[id]; !keep {
			changes = append(changes, diffRows(table, id, td.rows[id], nil)...)
		}
	}
	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	types.SortRowIDs(ids)
	newRows := make(map[string]types.Row, len(rows))
	for _, id := range ids {
		changes = append(changes, diffRows(table, id, td.rows[id], rows[id])...)
		newRows[id] = rows[id].Clone()
	}
	idsChanged := !slices.Equal(td.order, ids)
	td.order = ids
	td.rows = newRows
	s.mu.Unlock()

	s.listeners.notify(changes, table, idsChanged)
	return nil
}

// DelRow removes a row. There is no cascade and no referential check;
// deleting a missing row does nothing.
func (s *Store) DelRow(table, rowID string) {
	s.mu.Lock()
	td, ok := s.tables[table]
	if !ok {
		s.mu.Unlock()
		return
	}
	old, existed := td.rows[rowID]
	if !existed {
		s.mu.Unlock()
		return
	}
	delete(td.rows, rowID)
	td.order = slices.DeleteFunc(td.order, func(id string) bool { return id == rowID })
	changes := diffRows(table, rowID, old, nil)
	s.mu.Unlock()

	s.listeners.notify(changes, table, true)
}

func checkRow(ts types.TableSchema, row types.Row) error {
	for col, v := range row {
		if err := checkCell(ts, col, v); err != nil {
			return err
		}
	}
	return nil
}

func checkCell(ts types.TableSchema, column string, v types.Value) error {
	col, ok := ts.Column(column)
	if !ok {
		return errors.Wrapf(types.ErrUnknownColumn, "%s.%s", ts.Name, column)
	}
	if v.Kind() != col.Type {
		return errors.Wrapf(types.ErrTypeMismatch, "%s.%s is %s, got %s", ts.Name, column, col.Type, v.Kind())
	}
	if f, ok := v.Float(); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return errors.Wrapf(types.ErrInvalidValue, "%s.%s is %v", ts.Name, column, f)
	}
	return nil
}

// diffRows lists the cell changes that turn old into next. A nil next row
// means the row was removed.
func diffRows(table, rowID string, old, next types.Row) []Change {
	var changes []Change
	for col, nv := range next {
		ov, had := old[col]
		if had && ov.Equal(nv) {
			continue
		}
		changes = append(changes, Change{
			Table: table, RowID: rowID, Column: col,
			Old: ov, HadOld: had, New: nv, HasNew: true,
		})
	}
	for col, ov := range old {
		if _, still := next[col]; still {
			continue
		}
		changes = append(changes, Change{
			Table: table, RowID: rowID, Column: col,
			Old: ov, HadOld: true,
		})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Column < changes[j].Column })
	return changes
}
