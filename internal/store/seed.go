package store

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/schemalab/internal/normalize"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// NewSeeded creates a store for the demo schema and loads the sample data.
func NewSeeded(now time.Time) (*Store, error) {
	st, err := New(types.DemoSchema())
	if err != nil {
		return nil, err
	}
	if err := Seed(st, now); err != nil {
		return nil, err
	}
	return st, nil
}

// Seed replaces every demo table with its sample rows. now stamps the
// order_date of the sample orders. The normalized employee tables are
// derived from employees_unnormalized rather than written by hand.
func Seed(st *Store, now time.Time) error {
	n, t := types.Number, types.Text
	orderDate := t(now.UTC().Format(types.ISOTimestamp))

	tables := []struct {
		name string
		rows []types.Row
	}{
		{types.TableProducts, []types.Row{
			{"product_id": n(1), "name": t("Selfie Toaster"), "price": n(24.99), "description": t("A toaster that takes selfies")},
			{"product_id": n(2), "name": t("Cat-Poop Coffee"), "price": n(29.99), "description": t("Coffee brewed from beans passed by civet cats")},
		}},
		{types.TableCustomers, []types.Row{
			{"customer_id": n(101), "name": t("John Doe"), "email": t("john.doe@email.com")},
			{"customer_id": n(102), "name": t("Jane Smith"), "email": t("jane.smith@email.com")},
			{"customer_id": n(103), "name": t("Peter Jones"), "email": t("peter.jones@email.com")},
		}},
		{types.TableOrders, []types.Row{
			{"order_id": n(1), "customer_id": n(101), "order_date": orderDate, "total_amount": n(24.99)},
			{"order_id": n(2), "customer_id": n(102), "order_date": orderDate, "total_amount": n(29.99)},
			{"order_id": n(3), "customer_id": n(103), "order_date": orderDate, "total_amount": n(24.99)},
		}},
		{types.TableOrderItems, []types.Row{
			{"order_item_id": n(1), "order_id": n(1), "product_id": n(1), "quantity": n(1), "unit_price": n(24.99)},
			{"order_item_id": n(2), "order_id": n(2), "product_id": n(2), "quantity": n(1), "unit_price": n(29.99)},
			{"order_item_id": n(3), "order_id": n(3), "product_id": n(1), "quantity": n(1), "unit_price": n(24.99)},
		}},
		{types.TableBadDesign, []types.Row{
			{"product_id": n(1), "name": t("Selfie Toaster"), "price": n(24.99), "customer_id": n(101), "customer_name": t("John Doe"), "customer_email": t("john.doe@email.com")},
			{"product_id": n(2), "name": t("Cat-Poop Coffee"), "price": n(29.99), "customer_id": n(102), "customer_name": t("Jane Smith"), "customer_email": t("jane.smith@email.com")},
			{"product_id": n(1), "name": t("Selfie Toaster"), "price": n(24.99), "customer_id": n(103), "customer_name": t("Peter Jones"), "customer_email": t("peter.jones@email.com")},
		}},
		{types.TableUsers, []types.Row{
			{"user_id": n(1), "username": t("alice"), "email": t("alice@example.com"), "phone": t("090-1234-5678")},
			{"user_id": n(2), "username": t("bob"), "email": t("bob@example.com"), "phone": t("090-2345-6789")},
			{"user_id": n(3), "username": t("charlie"), "email": t("charlie@example.com"), "phone": t("090-3456-7890")},
		}},
		{types.TableProductsSurrogate, []types.Row{
			{"product_id": n(1), "sku": t("PROD-001"), "name": t("Selfie Toaster"), "price": n(24.99)},
			{"product_id": n(2), "sku": t("PROD-002"), "name": t("Cat-Poop Coffee"), "price": n(29.99)},
			{"product_id": n(3), "sku": t("PROD-003"), "name": t("Unicorn Horn"), "price": n(39.99)},
		}},
		{types.TableEmployeesUnnormalized, []types.Row{
			{"employee_id": n(1), "employee_name": t("Taro Yamada"), "department_id": n(101), "department_name": t("Sales"), "skills": t("SQL, JavaScript, Python")},
			{"employee_id": n(2), "employee_name": t("Hanako Sato"), "department_id": n(101), "department_name": t("Sales"), "skills": t("Java, TypeScript")},
			{"employee_id": n(3), "employee_name": t("Ichiro Suzuki"), "department_id": n(102), "department_name": t("Engineering"), "skills": t("Python, Go")},
		}},
		{types.TableUsersConstraints, []types.Row{
			{"user_id": n(1), "username": t("alice"), "email": t("alice@example.com")},
			{"user_id": n(2), "username": t("bob"), "email": t("bob@example.com")},
		}},
		{types.TableProductsConstraints, []types.Row{
			{"product_id": n(1), "name": t("Product A"), "price": n(24.99), "stock": n(10)},
			{"product_id": n(2), "name": t("Product B"), "price": n(29.99), "stock": n(5)},
		}},
		{types.TableOrdersConstraints, []types.Row{
			{"order_id": n(1), "customer_id": n(101), "status": t(types.StatusPending), "created_at": t("2024-01-15 10:30:00"), "total_amount": n(24.99)},
			{"order_id": n(2), "customer_id": n(102), "status": t("completed"), "created_at": t("2024-01-15 11:00:00"), "total_amount": n(29.99)},
		}},
	}

	for _, tbl := range tables {
		ts, ok := st.schema.Table(tbl.name)
		if !ok {
			return errors.Wrapf(types.ErrTableNotFound, "%s", tbl.name)
		}
		rows := make(map[string]types.Row, len(tbl.rows))
		for i, row := range tbl.rows {
			rows[seedRowID(ts, row, i)] = row
		}
		if err := st.SetTable(tbl.name, rows); err != nil {
			return errors.Wrapf(err, "seed %s", tbl.name)
		}
	}

	if _, err := normalize.Apply(st, st); err != nil {
		return errors.Wrap(err, "seed normalized tables")
	}
	return nil
}

// seedRowID keys a row by its single-column primary key. Tables without one
// fall back to the 1-based position.
func seedRowID(ts types.TableSchema, row types.Row, i int) string {
	if len(ts.PrimaryKey) == 1 {
		if v, ok := row[ts.PrimaryKey[0]]; ok {
			return v.String()
		}
	}
	return fmt.Sprint(i + 1)
}
