// Package store holds the authoritative keyed collections for customers,
// products and orders. Two implementations share the Storage contract: the
// default in-memory store and a sqlite-backed store selected via DB_DSN.
package store

import (
	"errors"

	"orderdesk/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup by id or order number matches
	// nothing. Callers branch on it; it is never fatal.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken is returned by CreateCustomer when the email is already
	// registered. Email uniqueness is case-sensitive as stored.
	ErrEmailTaken = errors.New("customer email already registered")
)

// ValidationError reports malformed or out-of-range input for a single field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

// Storage is the full Entity Store contract. Mutations go through the
// Create/Update/Delete operations only; list and lookup calls return
// snapshot copies that later writes never touch.
type Storage interface {
	// Customers. Created explicitly, or implicitly by CreateOrder when an
	// order references an email not yet on file. Never updated or deleted.
	Customer(id string) (domain.Customer, error)
	CustomerByEmail(email string) (domain.Customer, error)
	CreateCustomer(in domain.NewCustomer) (domain.Customer, error)
	Customers() ([]domain.Customer, error)

	// Products.
	Product(id string) (domain.Product, error)
	CreateProduct(in domain.NewProduct) (domain.Product, error)
	UpdateProduct(id string, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(id string) (bool, error)
	Products() ([]domain.Product, error)

	// Orders. CreateOrder resolves the customer by email (creating one if
	// absent), allocates the next order number and stamps both timestamps,
	// all inside one critical section. Status and invoice-URL updates bump
	// UpdatedAt. No delete path.
	Order(id string) (domain.Order, error)
	OrderByNumber(number string) (domain.Order, error)
	CreateOrder(in domain.NewOrder) (domain.Order, error)
	UpdateOrderStatus(id, status string) (domain.Order, error)
	UpdateOrderInvoiceURL(id, url string) (domain.Order, error)
	Orders() ([]domain.Order, error)
}

// checkNewOrder enforces the invariants the store defends regardless of the
// request-validation layer: a customer contact, a non-empty item list, and
// non-negative money values.
func checkNewOrder(in domain.NewOrder) error {
	if in.CustomerEmail == "" {
		return &ValidationError{Field: "customerEmail", Msg: "required"}
	}
	if in.CustomerName == "" {
		return &ValidationError{Field: "customerName", Msg: "required"}
	}
	if len(in.Items) == 0 {
		return &ValidationError{Field: "items", Msg: "order needs at least one item"}
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return &ValidationError{Field: "items", Msg: "quantity must be at least 1"}
		}
		if it.Price.IsNegative() {
			return &ValidationError{Field: "items", Msg: "price must not be negative"}
		}
	}
	if in.TotalAmount.IsNegative() {
		return &ValidationError{Field: "totalAmount", Msg: "must not be negative"}
	}
	if in.Status != "" && !domain.ValidStatus(in.Status) {
		return &ValidationError{Field: "status", Msg: "unknown status " + in.Status}
	}
	return nil
}

func checkNewCustomer(in domain.NewCustomer) error {
	if in.Email == "" {
		return &ValidationError{Field: "email", Msg: "required"}
	}
	if in.Name == "" {
		return &ValidationError{Field: "name", Msg: "required"}
	}
	return nil
}
