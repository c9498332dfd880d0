package demo

import (
	"time"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// OrderView is an order joined to its customer.
type OrderView struct {
	OrderID       string  `json:"order_id"`
	CustomerID    string  `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	OrderDate     string  `json:"order_date"`
	TotalAmount   float64 `json:"total_amount"`
}

// OrderLine is one order_items row joined to its product.
type OrderLine struct {
	OrderItemID string  `json:"order_item_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// OrdersWithCustomers follows orders.customer_id to customers. An order
// whose customer is gone keeps an empty name, which is what a missing
// foreign-key check looks like to a reader.
func (s *Session) OrdersWithCustomers() []OrderView {
	var out []OrderView
	for _, id := range s.store.GetRowIDs(types.TableOrders) {
		cid := cellText(s.store, types.TableOrders, id, "customer_id")
		out = append(out, OrderView{
			OrderID:       cellText(s.store, types.TableOrders, id, "order_id"),
			CustomerID:    cid,
			CustomerName:  cellText(s.store, types.TableCustomers, cid, "name"),
			CustomerEmail: cellText(s.store, types.TableCustomers, cid, "email"),
			OrderDate:     s.localDateTime(cellText(s.store, types.TableOrders, id, "order_date")),
			TotalAmount:   cellFloat(s.store, types.TableOrders, id, "total_amount"),
		})
	}
	return out
}

// OrderLines lists the products of one order through the order_items
// junction table.
func (s *Session) OrderLines(orderID string) []OrderLine {
	var out []OrderLine
	for _, id := range s.store.GetRowIDs(types.TableOrderItems) {
		if cellText(s.store, types.TableOrderItems, id, "order_id") != orderID {
			continue
		}
		pid := cellText(s.store, types.TableOrderItems, id, "product_id")
		qty := cellFloat(s.store, types.TableOrderItems, id, "quantity")
		price := cellFloat(s.store, types.TableOrderItems, id, "unit_price")
		out = append(out, OrderLine{
			OrderItemID: cellText(s.store, types.TableOrderItems, id, "order_item_id"),
			ProductID:   pid,
			ProductName: cellText(s.store, types.TableProducts, pid, "name"),
			Quantity:    qty,
			UnitPrice:   price,
			Subtotal:    qty * price,
		})
	}
	return out
}

// localDateTime renders a stored ISO timestamp in the session zone. Text
// that does not parse is shown as-is.
func (s *Session) localDateTime(iso string) string {
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return iso
	}
	return t.In(s.loc).Format(types.LocalDateTime)
}
