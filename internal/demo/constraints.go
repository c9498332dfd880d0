package demo

import (
	"fmt"

	"github.com/mesh-intelligence/schemalab/internal/constraint"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// AddUserNotNull adds to users_constraints checking only NOT NULL.
func (s *Session) AddUserNotNull(username, email string) Result {
	id := constraint.NextID(s.store, types.TableUsersConstraints, "user_id")
	row := types.Row{
		"user_id":  types.Number(float64(id)),
		"username": types.Text(username),
		"email":    types.Text(email),
	}
	return s.write(types.TableUsersConstraints, idString(id), row,
		[]constraint.Rule{constraint.NotNull("username", "email")},
		fmt.Sprintf("user %s added", quoted(username)))
}

// AddUserUnique adds to users_constraints checking UNIQUE on username and
// email.
func (s *Session) AddUserUnique(username, email string) Result {
	if blank(username, email) {
		return fail("username and email are required")
	}
	id := constraint.NextID(s.store, types.TableUsersConstraints, "user_id")
	row := types.Row{
		"user_id":  types.Number(float64(id)),
		"username": types.Text(username),
		"email":    types.Text(email),
	}
	return s.write(types.TableUsersConstraints, idString(id), row,
		[]constraint.Rule{constraint.Unique("username", "email")},
		fmt.Sprintf("user %s added", quoted(username)))
}

// AddOrderFK adds to orders_constraints checking that customer_id exists
// in customers.
func (s *Session) AddOrderFK(customerID, amount string) Result {
	if blank(customerID, amount) {
		return fail("customer_id and total_amount are required")
	}
	cid, ok := parseInt(customerID)
	if !ok {
		return fail("customer_id must be a number")
	}
	total, ok := parseFloat(amount)
	if !ok {
		return fail("total_amount must be a number")
	}
	id := constraint.NextID(s.store, types.TableOrdersConstraints, "order_id")
	row := types.Row{
		"order_id":     types.Number(float64(id)),
		"customer_id":  types.Number(float64(cid)),
		"status":       types.Text(types.StatusPending),
		"created_at":   types.Text(s.localTime()),
		"total_amount": types.Number(total),
	}
	return s.write(types.TableOrdersConstraints, idString(id), row,
		[]constraint.Rule{
			constraint.ForeignKey("customer_id", types.TableCustomers, "customer_id"),
			constraint.Check("total_amount", 0),
		},
		fmt.Sprintf("order id %d added", id))
}

// AddProductCheck adds to products_constraints checking price >= 0 and
// stock >= 0.
func (s *Session) AddProductCheck(name, price, stock string) Result {
	if blank(name, price, stock) {
		return fail("all fields are required")
	}
	p, ok := parseFloat(price)
	if !ok {
		return fail("price must be a number")
	}
	n, ok := parseInt(stock)
	if !ok {
		return fail("stock must be a whole number")
	}
	id := constraint.NextID(s.store, types.TableProductsConstraints, "product_id")
	row := types.Row{
		"product_id": types.Number(float64(id)),
		"name":       types.Text(name),
		"price":      types.Number(p),
		"stock":      types.Number(float64(n)),
	}
	return s.write(types.TableProductsConstraints, idString(id), row,
		[]constraint.Rule{constraint.Check("price", 0), constraint.Check("stock", 0)},
		fmt.Sprintf("product %s added", quoted(name)))
}

// AddOrderDefault adds to orders_constraints leaving status and created_at
// to their defaults when not given.
func (s *Session) AddOrderDefault(customerID, status string) Result {
	if blank(customerID) {
		return fail("customer_id is required")
	}
	cid, ok := parseInt(customerID)
	if !ok {
		return fail("customer_id must be a number")
	}
	id := constraint.NextID(s.store, types.TableOrdersConstraints, "order_id")
	row := types.Row{
		"order_id":    types.Number(float64(id)),
		"customer_id": types.Number(float64(cid)),
	}
	if !blank(status) {
		row["status"] = types.Text(status)
	}
	ts, _ := s.store.Schema().Table(types.TableOrdersConstraints)
	s.applyDefaults(ts, row)
	return s.write(types.TableOrdersConstraints, idString(id), row, constraint.RulesFor(ts),
		fmt.Sprintf("order id %d added (created_at set automatically)", id))
}

// applyDefaults fills absent columns that declare a DEFAULT.
func (s *Session) applyDefaults(ts types.TableSchema, row types.Row) {
	for _, d := range ts.Defaults {
		if _, ok := row[d.Column]; ok {
			continue
		}
		if d.CurrentTime {
			row[d.Column] = types.Text(s.localTime())
			continue
		}
		row[d.Column] = d.Value
	}
}
