// Package invoice renders order invoices as PDF byte buffers and caches them
// per order. The store only ever sees the resulting invoice URL; the bytes
// live here.
package invoice

import (
	"bytes"
	"strconv"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
)

// URLFor is the path the HTTP layer serves the PDF from.
func URLFor(orderID string) string {
	return "/api/invoices/" + orderID
}

// Render produces the invoice PDF for an order.
func Render(o domain.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Order #: "+o.OrderNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Date: "+o.CreatedAt.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, o.CustomerName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, o.CustomerEmail, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Order Items:", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range o.Items {
		lineTotal := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		pdf.CellFormat(90, 7, it.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, strconv.Itoa(it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, "$"+it.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, "$"+lineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(145, 8, "Total Amount:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "$"+o.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Thank you for your business!", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "OrderDesk Management System", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Cache keeps generated invoice bytes keyed by order id.
type Cache struct {
	mu      sync.RWMutex
	byOrder map[string][]byte
}

func NewCache() *Cache {
	return &Cache{byOrder: make(map[string][]byte)}
}

func (c *Cache) Put(orderID string, pdf []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byOrder[orderID] = pdf
}

func (c *Cache) Get(orderID string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byOrder[orderID]
	return b, ok
}
