package demo

import (
	"fmt"

	"github.com/mesh-intelligence/schemalab/internal/constraint"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// BadInsertProduct tries to add a product to bad_design. The mixed table
// cannot hold a product without a customer, so it always fails.
func (s *Session) BadInsertProduct(name, price string) Result {
	if blank(name, price) {
		return fail("insertion anomaly: adding a product also requires customer data")
	}
	return fail("insertion anomaly: product data cannot be inserted on its own")
}

// BadUpdatePrice sets the price on every bad_design row holding the same
// product as rowID.
func (s *Session) BadUpdatePrice(rowID string, price float64) Result {
	if !s.store.HasRow(types.TableBadDesign, rowID) {
		return fail(fmt.Sprintf("row %s does not exist", rowID))
	}
	name := cellText(s.store, types.TableBadDesign, rowID, "name")
	updated := 0
	for _, id := range s.store.GetRowIDs(types.TableBadDesign) {
		if cellText(s.store, types.TableBadDesign, id, "name") != name {
			continue
		}
		if err := s.store.SetCell(types.TableBadDesign, id, "price", types.Number(price)); err != nil {
			return fail(err.Error())
		}
		updated++
	}
	if updated > 1 {
		return Result{
			OK:      true,
			Message: fmt.Sprintf("update anomaly: the same product appears in %d rows and every one had to be updated", updated),
			RowID:   rowID,
		}
	}
	return Result{OK: true, Message: "price updated in 1 row", RowID: rowID}
}

// BadDelete removes a bad_design row unless it is the last row holding a
// customer or a product.
func (s *Session) BadDelete(rowID string) Result {
	if !s.store.HasRow(types.TableBadDesign, rowID) {
		return fail(fmt.Sprintf("row %s does not exist", rowID))
	}
	customer := cellText(s.store, types.TableBadDesign, rowID, "customer_name")
	product := cellText(s.store, types.TableBadDesign, rowID, "name")

	var customerRows, productRows int
	for _, id := range s.store.GetRowIDs(types.TableBadDesign) {
		if cellText(s.store, types.TableBadDesign, id, "customer_name") == customer {
			customerRows++
		}
		if cellText(s.store, types.TableBadDesign, id, "name") == product {
			productRows++
		}
	}
	switch {
	case customerRows == 1:
		return fail(fmt.Sprintf("deletion anomaly: deleting this row also loses customer %s", quoted(customer)))
	case productRows == 1:
		return fail(fmt.Sprintf("deletion anomaly: deleting this row also loses product %s", quoted(product)))
	}
	s.store.DelRow(types.TableBadDesign, rowID)
	return Result{OK: true, Message: fmt.Sprintf("row %s deleted", rowID), RowID: rowID}
}

// GoodInsertProduct adds a product to the separated products table.
func (s *Session) GoodInsertProduct(name, price string) Result {
	if blank(name, price) {
		return fail("name and price are required")
	}
	p, ok := parseFloat(price)
	if !ok {
		return fail("price must be a number")
	}
	id := constraint.NextID(s.store, types.TableProducts, "product_id")
	row := types.Row{
		"product_id":  types.Number(float64(id)),
		"name":        types.Text(name),
		"price":       types.Number(p),
		"description": types.Text(""),
	}
	ts, _ := s.store.Schema().Table(types.TableProducts)
	return s.write(types.TableProducts, idString(id), row, constraint.RulesFor(ts),
		fmt.Sprintf("product %s added (no customer data needed)", quoted(name)))
}

// GoodUpdatePrice changes one product's price in exactly one place.
func (s *Session) GoodUpdatePrice(rowID string, price float64) Result {
	if !s.store.HasRow(types.TableProducts, rowID) {
		return fail(fmt.Sprintf("product %s does not exist", rowID))
	}
	row := types.Row{"price": types.Number(price)}
	if err := constraint.Check("price", 0).Check(s.store, types.TableProducts, rowID, row); err != nil {
		return s.reject(types.TableProducts, err)
	}
	if err := s.store.SetCell(types.TableProducts, rowID, "price", types.Number(price)); err != nil {
		return fail(err.Error())
	}
	return Result{OK: true, Message: "price updated in exactly 1 place", RowID: rowID}
}

// GoodDeleteProduct removes a product without touching customers.
func (s *Session) GoodDeleteProduct(rowID string) Result {
	if !s.store.HasRow(types.TableProducts, rowID) {
		return fail(fmt.Sprintf("product %s does not exist", rowID))
	}
	name := cellText(s.store, types.TableProducts, rowID, "name")
	s.store.DelRow(types.TableProducts, rowID)
	return Result{
		OK:      true,
		Message: fmt.Sprintf("product %s deleted (customer data unaffected)", quoted(name)),
		RowID:   rowID,
	}
}
