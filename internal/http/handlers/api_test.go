package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"orderdesk/internal/domain"
	"orderdesk/internal/http/handlers"
	"orderdesk/internal/store"
)

// newTestApp wires the API the way main does, minus rate limiting.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(requestid.New())

	deps := handlers.NewDeps(store.NewMemStore())
	api := app.Group("/api")

	orders := api.Group("/orders")
	orders.Get("/stats/dashboard", deps.OrderHandler.Stats)
	orders.Get("/export/json", deps.OrderHandler.ExportJSON)
	orders.Get("/export/csv", deps.OrderHandler.ExportCSV)
	orders.Get("/", deps.OrderHandler.Search)
	orders.Post("/", deps.OrderHandler.Create)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Put("/:id/status", deps.OrderHandler.UpdateStatus)

	products := api.Group("/products")
	products.Get("/", deps.ProductHandler.List)
	products.Post("/", deps.ProductHandler.Create)
	products.Get("/:id", deps.ProductHandler.Get)
	products.Put("/:id", deps.ProductHandler.Update)
	products.Delete("/:id", deps.ProductHandler.Delete)

	customers := api.Group("/customers")
	customers.Get("/", deps.CustomerHandler.List)
	customers.Post("/", deps.CustomerHandler.Create)
	customers.Get("/:id/orders", deps.CustomerHandler.CustomerOrders)

	api.Get("/invoices/:id", deps.InvoiceHandler.Get)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

const orderBody = `{
	"customerName": "Alice",
	"customerEmail": "a@x.com",
	"totalAmount": "100.00",
	"items": [{"productId": "p-1", "productName": "Widget", "quantity": 2, "price": "50.00"}]
}`

func TestOrderLifecycle(t *testing.T) {
	app := newTestApp(t)

	// create
	resp := doJSON(t, app, "POST", "/api/orders", orderBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: want 201, got %d", resp.StatusCode)
	}
	o := decode[domain.Order](t, resp)
	if !strings.HasPrefix(o.OrderNumber, "ORD-") {
		t.Fatalf("bad order number %q", o.OrderNumber)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("want pending, got %q", o.Status)
	}
	if o.InvoiceURL == "" {
		t.Fatal("invoice url not attached on create")
	}

	// read back
	resp = doJSON(t, app, "GET", "/api/orders/"+o.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: want 200, got %d", resp.StatusCode)
	}

	// status update
	resp = doJSON(t, app, "PUT", "/api/orders/"+o.ID+"/status", `{"status":"shipped"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: want 200, got %d", resp.StatusCode)
	}
	updated := decode[domain.Order](t, resp)
	if updated.Status != domain.StatusShipped {
		t.Fatalf("want shipped, got %q", updated.Status)
	}

	// search finds it by customer name
	resp = doJSON(t, app, "GET", "/api/orders?search=alice", "")
	page := decode[domain.OrderPage](t, resp)
	if page.Total != 1 {
		t.Fatalf("search: want 1, got %d", page.Total)
	}

	// dashboard stats
	resp = doJSON(t, app, "GET", "/api/orders/stats/dashboard", "")
	stats := decode[domain.OrderStats](t, resp)
	if stats.TotalOrders != 1 || stats.ActiveOrders != 1 {
		t.Fatalf("stats: %+v", stats)
	}

	// invoice PDF
	resp = doJSON(t, app, "GET", "/api/invoices/"+o.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("invoice: want 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("invoice content type %q", ct)
	}
	pdf, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("invoice is not a PDF")
	}

	// CSV export carries the order row
	resp = doJSON(t, app, "GET", "/api/orders/export/csv", "")
	csvBody, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(csvBody), o.OrderNumber) {
		t.Fatalf("csv export missing order: %s", csvBody)
	}
	if !strings.HasPrefix(string(csvBody), "Order Number,") {
		t.Fatalf("csv header: %s", csvBody)
	}
}

func TestOrderValidationAndErrors(t *testing.T) {
	app := newTestApp(t)

	// empty item list is rejected by the core
	resp := doJSON(t, app, "POST", "/api/orders",
		`{"customerName":"A","customerEmail":"a@x.com","totalAmount":"1.00","items":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty items: want 400, got %d", resp.StatusCode)
	}

	// negative amount
	resp = doJSON(t, app, "POST", "/api/orders",
		`{"customerName":"A","customerEmail":"a@x.com","totalAmount":"-1.00","items":[{"productId":"p","productName":"W","quantity":1,"price":"1.00"}]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative amount: want 400, got %d", resp.StatusCode)
	}

	// unknown order
	resp = doJSON(t, app, "GET", "/api/orders/does-not-exist", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing order: want 404, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "PUT", "/api/orders/does-not-exist/status", `{"status":"shipped"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing order status: want 404, got %d", resp.StatusCode)
	}

	// malformed query filters
	resp = doJSON(t, app, "GET", "/api/orders?status=teleported", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad status filter: want 400, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/orders?dateFrom=01/02/2026", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date: want 400, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/orders?sortBy=bogus", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad sortBy: want 400, got %d", resp.StatusCode)
	}
}

func TestCustomerRoutes(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/customers", `{"name":"A","email":"a@x.com","phone":"555"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create customer: want 201, got %d", resp.StatusCode)
	}
	cust := decode[domain.Customer](t, resp)

	// duplicate email conflicts
	resp = doJSON(t, app, "POST", "/api/customers", `{"name":"B","email":"a@x.com"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate: want 409, got %d", resp.StatusCode)
	}

	// malformed email rejected before the store sees it
	resp = doJSON(t, app, "POST", "/api/customers", `{"name":"B","email":"not-an-email"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad email: want 400, got %d", resp.StatusCode)
	}

	// an order from that email lands on the existing customer
	doJSON(t, app, "POST", "/api/orders", orderBody)
	resp = doJSON(t, app, "GET", "/api/customers/"+cust.ID+"/orders", "")
	orders := decode[[]domain.Order](t, resp)
	if len(orders) != 1 {
		t.Fatalf("customer orders: want 1, got %d", len(orders))
	}

	resp = doJSON(t, app, "GET", "/api/customers", "")
	customers := decode[[]domain.Customer](t, resp)
	if len(customers) != 1 {
		t.Fatalf("customers: want 1, got %d", len(customers))
	}
}

func TestProductRoutes(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/products",
		`{"name":"Widget","description":"round","price":"50.00","category":"Tools","stock":"10"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: want 201, got %d", resp.StatusCode)
	}
	p := decode[domain.Product](t, resp)

	// bad stock string
	resp = doJSON(t, app, "POST", "/api/products", `{"name":"X","price":"1.00","stock":"lots"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad stock: want 400, got %d", resp.StatusCode)
	}

	// search hits category
	resp = doJSON(t, app, "GET", "/api/products?search=tools", "")
	found := decode[[]domain.Product](t, resp)
	if len(found) != 1 {
		t.Fatalf("product search: want 1, got %d", len(found))
	}

	// partial update leaves other fields alone
	resp = doJSON(t, app, "PUT", "/api/products/"+p.ID, `{"price":"44.99"}`)
	updated := decode[domain.Product](t, resp)
	if updated.Name != "Widget" || updated.Price.String() != "44.99" {
		t.Fatalf("merge update: %+v", updated)
	}

	// delete, then 404
	resp = doJSON(t, app, "DELETE", "/api/products/"+p.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: want 204, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "DELETE", "/api/products/"+p.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: want 404, got %d", resp.StatusCode)
	}
}
