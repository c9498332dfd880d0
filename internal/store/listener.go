package store

import (
	"sort"
	"sync"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// Change describes one cell write. HadOld is false when the cell did not
// exist before; HasNew is false when the cell was removed.
type Change struct {
	Table  string
	RowID  string
	Column string
	Old    types.Value
	HadOld bool
	New    types.Value
	HasNew bool
}

// CellListener is called synchronously after a matching cell changes.
type CellListener func(Change)

// RowIDsListener is called synchronously after rows are added to or removed
// from a table.
type RowIDsListener func(table string)

// ListenerID identifies a registered listener for DelListener.
type ListenerID uint64

type cellSubscription struct {
	table, rowID, column string
	fn                   CellListener
}

type rowIDsSubscription struct {
	table string
	fn    RowIDsListener
}

// listenerRegistry keeps subscriptions apart from the table lock so
// listeners can read the store while they run.
type listenerRegistry struct {
	mu     sync.Mutex
	nextID ListenerID
	cells  map[ListenerID]cellSubscription
	rowIDs map[ListenerID]rowIDsSubscription
}

func (r *listenerRegistry) init() {
	r.cells = make(map[ListenerID]cellSubscription)
	r.rowIDs = make(map[ListenerID]rowIDsSubscription)
}

// AddCellListener registers fn for writes to (table, rowID, column). An
// empty string matches any value in that position.
func (s *Store) AddCellListener(table, rowID, column string, fn CellListener) ListenerID {
	r := &s.listeners
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.cells[r.nextID] = cellSubscription{table: table, rowID: rowID, column: column, fn: fn}
	return r.nextID
}

// AddRowIDsListener registers fn for row additions and removals in table.
// An empty table matches every table.
func (s *Store) AddRowIDsListener(table string, fn RowIDsListener) ListenerID {
	r := &s.listeners
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.rowIDs[r.nextID] = rowIDsSubscription{table: table, fn: fn}
	return r.nextID
}

// DelListener removes a listener. Removing an unknown id does nothing.
func (s *Store) DelListener(id ListenerID) {
	r := &s.listeners
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cells, id)
	delete(r.rowIDs, id)
}

func (c cellSubscription) matches(ch Change) bool {
	return (c.table == "" || c.table == ch.Table) &&
		(c.rowID == "" || c.rowID == ch.RowID) &&
		(c.column == "" || c.column == ch.Column)
}

// notify calls listeners in registration order. The caller must not hold
// the store lock.
func (r *listenerRegistry) notify(changes []Change, table string, idsChanged bool) {
	if len(changes) == 0 && !idsChanged {
		return
	}
	r.mu.Lock()
	cellIDs := make([]ListenerID, 0, len(r.cells))
	for id := range r.cells {
		cellIDs = append(cellIDs, id)
	}
	sort.Slice(cellIDs, func(i, j int) bool { return cellIDs[i] < cellIDs[j] })
	cells := make([]cellSubscription, len(cellIDs))
	for i, id := range cellIDs {
		cells[i] = r.cells[id]
	}
	var rowIDs []RowIDsListener
	if idsChanged {
		ids := make([]ListenerID, 0, len(r.rowIDs))
		for id, sub := range r.rowIDs {
			if sub.table == "" || sub.table == table {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			rowIDs = append(rowIDs, r.rowIDs[id].fn)
		}
	}
	r.mu.Unlock()

	for _, ch := range changes {
		for _, sub := range cells {
			if sub.matches(ch) {
				sub.fn(ch)
			}
		}
	}
	for _, fn := range rowIDs {
		fn(table)
	}
}
