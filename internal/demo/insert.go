package demo

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/schemalab/internal/constraint"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// Scenario is a canned insert with the constraint it is expected to trip.
// An empty Expect means the row should be accepted.
type Scenario struct {
	Name   string          `json:"name"`
	Table  string          `json:"table"`
	Row    types.Row       `json:"row"`
	Expect constraint.Kind `json:"expect,omitempty"`
}

// Insert validates row against every rule its table declares and writes it.
// The row id is the primary-key value; composite keys join with "-", and
// tables without a key get the next free numeric id. DEFAULT columns are
// filled before validation.
func (s *Session) Insert(table string, row types.Row) Result {
	ts, ok := s.store.Schema().Table(table)
	if !ok {
		return fail(errors.Wrapf(types.ErrTableNotFound, "%s", table).Error())
	}
	row = row.Clone()
	s.applyDefaults(ts, row)
	rowID := s.rowIDFor(ts, row)
	return s.write(table, rowID, row, constraint.RulesFor(ts),
		fmt.Sprintf("row %s inserted into %s", rowID, table))
}

// ParseRow turns col=value pairs into a row typed by the table schema.
func ParseRow(ts types.TableSchema, pairs []string) (types.Row, error) {
	row := types.Row{}
	for _, p := range pairs {
		col, raw, ok := strings.Cut(p, "=")
		if !ok {
			return nil, errors.Newf("expected column=value, got %q", p)
		}
		c, ok := ts.Column(col)
		if !ok {
			return nil, errors.Wrapf(types.ErrUnknownColumn, "%s.%s", ts.Name, col)
		}
		v, err := types.ParseValue(c.Type, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", col)
		}
		row[col] = v
	}
	return row, nil
}

func (s *Session) rowIDFor(ts types.TableSchema, row types.Row) string {
	if len(ts.PrimaryKey) == 0 {
		return idString(nextRowID(s.store.GetRowIDs(ts.Name)))
	}
	parts := make([]string, len(ts.PrimaryKey))
	for i, col := range ts.PrimaryKey {
		parts[i] = row[col].String()
	}
	return strings.Join(parts, "-")
}

func nextRowID(ids []string) int64 {
	var hi int64
	for _, id := range ids {
		if n, ok := parseInt(id); ok && n > hi {
			hi = n
		}
	}
	return hi + 1
}

// Scenarios returns the canonical constraint scenarios against the seeded
// data. Accepted rows come last so earlier scenarios see the seed state.
func Scenarios() []Scenario {
	n, t := types.Number, types.Text
	return []Scenario{
		{
			Name:   "duplicate primary key",
			Table:  types.TableUsersConstraints,
			Row:    types.Row{"user_id": n(1), "username": t("carol"), "email": t("carol@example.com")},
			Expect: constraint.KindPrimaryKey,
		},
		{
			Name:   "missing username",
			Table:  types.TableUsersConstraints,
			Row:    types.Row{"user_id": n(3), "email": t("carol@example.com")},
			Expect: constraint.KindNotNull,
		},
		{
			Name:   "duplicate username",
			Table:  types.TableUsersConstraints,
			Row:    types.Row{"user_id": n(3), "username": t("alice"), "email": t("alice2@example.com")},
			Expect: constraint.KindUnique,
		},
		{
			Name:   "unknown customer",
			Table:  types.TableOrdersConstraints,
			Row:    types.Row{"order_id": n(3), "customer_id": n(999), "total_amount": n(10)},
			Expect: constraint.KindForeignKey,
		},
		{
			Name:   "negative price",
			Table:  types.TableProductsConstraints,
			Row:    types.Row{"product_id": n(3), "name": t("Product C"), "price": n(-1), "stock": n(1)},
			Expect: constraint.KindCheck,
		},
		{
			Name:   "negative stock",
			Table:  types.TableProductsConstraints,
			Row:    types.Row{"product_id": n(3), "name": t("Product C"), "price": n(1), "stock": n(-5)},
			Expect: constraint.KindCheck,
		},
		{
			Name:  "valid user",
			Table: types.TableUsersConstraints,
			Row:   types.Row{"user_id": n(3), "username": t("carol"), "email": t("carol@example.com")},
		},
		{
			Name:  "valid order with defaults",
			Table: types.TableOrdersConstraints,
			Row:   types.Row{"order_id": n(3), "customer_id": n(101), "total_amount": n(10)},
		},
	}
}

// Evaluate runs one scenario through Insert and reports the violated kind,
// or "" when the row was accepted.
func (s *Session) Evaluate(sc Scenario) (constraint.Kind, Result) {
	ts, ok := s.store.Schema().Table(sc.Table)
	if !ok {
		return "", fail(errors.Wrapf(types.ErrTableNotFound, "%s", sc.Table).Error())
	}
	row := sc.Row.Clone()
	s.applyDefaults(ts, row)
	err := constraint.Validate(s.store, sc.Table, s.rowIDFor(ts, row), row, constraint.RulesFor(ts)...)
	if v, ok := constraint.AsViolation(err); ok {
		return v.Kind, fail(v.Message)
	}
	return "", s.Insert(sc.Table, sc.Row)
}
