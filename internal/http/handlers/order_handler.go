package handlers

import (
	"bytes"
	"strings"

	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
	"orderdesk/internal/export"
	"orderdesk/internal/invoice"
	applog "orderdesk/internal/log"
	"orderdesk/internal/services"
	"orderdesk/internal/validate"
)

type OrderHandler struct {
	Orders   *services.OrderService
	Invoices *invoice.Cache
}

// Search handles GET /api/orders.
func (h *OrderHandler) Search(c *fiber.Ctx) error {
	p := domain.OrderSearch{
		Search: validate.Q(c.Query("search")),
		Page:   validate.Page(c.Query("page")),
		Limit:  validate.Limit(c.Query("limit")),
	}

	if s := strings.TrimSpace(c.Query("status")); s != "" {
		if !domain.ValidStatus(s) {
			applog.Security(c, "validation.fail", map[string]any{"field": "status", "value": s})
			return jsonMsg(c, fiber.StatusBadRequest, "invalid status filter")
		}
		p.Status = s
	}
	var ok bool
	if p.DateFrom, ok = validate.Date(c.Query("dateFrom")); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "dateFrom"})
		return jsonMsg(c, fiber.StatusBadRequest, "dateFrom must be YYYY-MM-DD")
	}
	if p.DateTo, ok = validate.Date(c.Query("dateTo")); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "dateTo"})
		return jsonMsg(c, fiber.StatusBadRequest, "dateTo must be YYYY-MM-DD")
	}
	if p.SortBy, ok = validate.SortBy(c.Query("sortBy")); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "sortBy"})
		return jsonMsg(c, fiber.StatusBadRequest, "invalid sortBy")
	}
	if p.SortOrder, ok = validate.SortOrder(c.Query("sortOrder")); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "sortOrder"})
		return jsonMsg(c, fiber.StatusBadRequest, "invalid sortOrder")
	}

	page, err := h.Orders.Search(p)
	if err != nil {
		return respondErr(c, "orders.search", err)
	}
	return c.JSON(page)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.Params("id"))
	if err != nil {
		return respondErr(c, "orders.get", err)
	}
	return c.JSON(o)
}

// Create handles POST /api/orders: store the order, render its invoice,
// attach the invoice URL and emit the notification event.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in domain.NewOrder
	if err := c.BodyParser(&in); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body", "error": err.Error()})
		return jsonMsg(c, fiber.StatusBadRequest, "invalid order payload")
	}

	o, err := h.Orders.Create(in)
	if err != nil {
		return respondErr(c, "order.create", err)
	}

	if pdf, rerr := invoice.Render(o); rerr != nil {
		// The order stands even when rendering fails; the invoice route
		// retries on demand.
		applog.Error(c, "invoice.render", rerr, map[string]any{"order_id": o.ID})
	} else {
		h.Invoices.Put(o.ID, pdf)
		if updated, aerr := h.Orders.AttachInvoice(o.ID, invoice.URLFor(o.ID)); aerr == nil {
			o = updated
		}
	}

	applog.Audit(c, "order.create", map[string]any{"order_id": o.ID, "order_number": o.OrderNumber})
	applog.Info(c, "notify.order.created", map[string]any{"order_number": o.OrderNumber, "email": o.CustomerEmail})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body", "error": err.Error()})
		return jsonMsg(c, fiber.StatusBadRequest, "invalid status payload")
	}
	o, err := h.Orders.UpdateStatus(c.Params("id"), body.Status)
	if err != nil {
		return respondErr(c, "order.status", err)
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": o.ID, "status": o.Status})
	applog.Info(c, "notify.order.status", map[string]any{"order_number": o.OrderNumber, "status": o.Status})
	return c.JSON(o)
}

// Stats handles GET /api/orders/stats/dashboard.
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Orders.Stats()
	if err != nil {
		return respondErr(c, "orders.stats", err)
	}
	return c.JSON(st)
}

// ExportJSON handles GET /api/orders/export/json with the full unpaginated
// order list.
func (h *OrderHandler) ExportJSON(c *fiber.Ctx) error {
	orders, err := h.Orders.All()
	if err != nil {
		return respondErr(c, "export.json", err)
	}
	applog.Info(c, "export.json", map[string]any{"count": len(orders)})
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="orders-export.json"`)
	return c.JSON(orders)
}

// ExportCSV handles GET /api/orders/export/csv.
func (h *OrderHandler) ExportCSV(c *fiber.Ctx) error {
	orders, err := h.Orders.All()
	if err != nil {
		return respondErr(c, "export.csv", err)
	}
	var buf bytes.Buffer
	if err := export.OrdersCSV(&buf, orders); err != nil {
		return respondErr(c, "export.csv", err)
	}
	applog.Info(c, "export.csv", map[string]any{"count": len(orders)})
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="orders-export.csv"`)
	return c.Send(buf.Bytes())
}
