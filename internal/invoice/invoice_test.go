package invoice_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
	"orderdesk/internal/invoice"
)

func sampleOrder(t *testing.T) domain.Order {
	t.Helper()
	price, err := decimal.NewFromString("50.00")
	if err != nil {
		t.Fatal(err)
	}
	return domain.Order{
		ID:            "o-1",
		OrderNumber:   "ORD-2026-1001",
		CustomerName:  "Alice",
		CustomerEmail: "a@x.com",
		TotalAmount:   price.Mul(decimal.NewFromInt(2)),
		Status:        domain.StatusPending,
		Items: []domain.OrderItem{
			{ProductID: "p-1", ProductName: "Widget", Quantity: 2, Price: price},
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	pdf, err := invoice.Render(sampleOrder(t))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
	if len(pdf) < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(pdf))
	}
}

func TestRenderNoItems(t *testing.T) {
	o := sampleOrder(t)
	o.Items = nil
	pdf, err := invoice.Render(o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output does not start with a PDF header")
	}
}

func TestCache(t *testing.T) {
	c := invoice.NewCache()
	if _, ok := c.Get("o-1"); ok {
		t.Fatal("empty cache reported a hit")
	}
	c.Put("o-1", []byte("%PDF-fake"))
	got, ok := c.Get("o-1")
	if !ok || string(got) != "%PDF-fake" {
		t.Fatalf("cache miss after put: %q %v", got, ok)
	}
	if _, ok := c.Get("o-2"); ok {
		t.Fatal("hit for a different order")
	}
}

func TestURLFor(t *testing.T) {
	if got := invoice.URLFor("abc"); got != "/api/invoices/abc" {
		t.Fatalf("URLFor: %q", got)
	}
}
