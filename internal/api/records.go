package api

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/guregu/null/v5"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// Product is one entry of GET /products.
type Product struct {
	ProductID   int         `json:"product_id" validate:"gt=0"`
	Name        string      `json:"name" validate:"required,min=1,max=255"`
	Price       float64     `json:"price" validate:"gte=0"`
	Description null.String `json:"description,omitzero"`
}

// Customer is one entry of GET /customers.
type Customer struct {
	CustomerID int    `json:"customer_id" validate:"gt=0"`
	Name       string `json:"name" validate:"required,min=1,max=255"`
	Email      string `json:"email" validate:"required,email"`
}

// Order is one entry of GET /orders.
type Order struct {
	OrderID     int     `json:"order_id" validate:"gt=0"`
	CustomerID  int     `json:"customer_id" validate:"gt=0"`
	OrderDate   string  `json:"order_date" validate:"required,datetime=2006-01-02T15:04:05.000Z07:00"`
	TotalAmount float64 `json:"total_amount" validate:"gte=0"`
}

// Health is the GET /health payload.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func sampleProducts() []Product {
	return []Product{
		{ProductID: 1, Name: "Selfie Toaster", Price: 24.99, Description: null.StringFrom("A toaster that prints your selfie on bread")},
		{ProductID: 2, Name: "Cat-Poop Coffee", Price: 29.99, Description: null.StringFrom("Coffee made from beans eaten by civet cats")},
	}
}

func sampleCustomers() []Customer {
	return []Customer{
		{CustomerID: 101, Name: "John Doe", Email: "john.doe@email.com"},
		{CustomerID: 102, Name: "Jane Smith", Email: "jane.smith@email.com"},
		{CustomerID: 103, Name: "Peter Jones", Email: "peter.jones@email.com"},
	}
}

// sampleOrders stamps every order with now.
func sampleOrders(now time.Time) []Order {
	date := now.UTC().Format(types.ISOTimestamp)
	return []Order{
		{OrderID: 1, CustomerID: 101, OrderDate: date, TotalAmount: 24.99},
		{OrderID: 2, CustomerID: 102, OrderDate: date, TotalAmount: 29.99},
		{OrderID: 3, CustomerID: 103, OrderDate: date, TotalAmount: 24.99},
	}
}

// validateAll checks every record and reports the first failure.
func validateAll[T any](records []T) error {
	for i := range records {
		if err := validate.Struct(records[i]); err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
	}
	return nil
}
