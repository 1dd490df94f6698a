package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses. Any status may be set directly; there is no
// transition guard beyond membership in this set.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Statuses lists every accepted order status.
var Statuses = []string{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ValidStatus reports whether s is an accepted order status.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Customer struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Address   string    `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURL    string          `json:"imageUrl,omitempty" db:"image_url"`
	Category    string          `json:"category,omitempty" db:"category"`
	Stock       string          `json:"stock" db:"stock"` // non-negative integer count, decimal-compatible string
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem is a line item snapshotted onto the order at creation time.
// Later product edits or deletions do not touch it.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Order struct {
	ID            string          `json:"id" db:"id"`
	OrderNumber   string          `json:"orderNumber" db:"order_number"`
	CustomerID    string          `json:"customerId" db:"customer_id"`
	CustomerName  string          `json:"customerName" db:"customer_name"`
	CustomerEmail string          `json:"customerEmail" db:"customer_email"`
	Status        string          `json:"status" db:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Items         []OrderItem     `json:"items"`
	InvoiceURL    string          `json:"invoiceUrl,omitempty" db:"invoice_url"`
	Notes         string          `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// NewCustomer carries the fields a caller supplies when creating a customer.
type NewCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// NewProduct carries the fields a caller supplies when creating a product.
type NewProduct struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Stock       string          `json:"stock"`
}

// ProductPatch is a partial product update; nil fields are left unchanged.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"imageUrl"`
	Category    *string          `json:"category"`
	Stock       *string          `json:"stock"`
}

// NewOrder carries the caller-supplied fields for order creation. Identifier,
// order number, customer linkage and timestamps are assigned by the store.
type NewOrder struct {
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Items         []OrderItem     `json:"items"`
	Notes         string          `json:"notes"`
}

// OrderSearch is the filter/sort/pagination parameter set for order search.
// Every field is optional; filters are conjunctive.
type OrderSearch struct {
	Search    string
	Status    string
	DateFrom  string // inclusive calendar date, YYYY-MM-DD
	DateTo    string // inclusive calendar date, YYYY-MM-DD
	SortBy    string // createdAt (default) | totalAmount | customerName
	SortOrder string // asc | desc (default)
	Page      int    // 1-indexed, default 1
	Limit     int    // default 10
}

// OrderPage is one page of search results plus the pre-pagination match count.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

// OrderStats is the dashboard aggregate over all orders.
type OrderStats struct {
	TotalOrders  int             `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	ActiveOrders int             `json:"activeOrders"`
	RecentOrders []Order         `json:"recentOrders"`
}
