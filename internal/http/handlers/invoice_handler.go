package handlers

import (
	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/invoice"
	applog "orderdesk/internal/log"
	"orderdesk/internal/services"
)

type InvoiceHandler struct {
	Orders *services.OrderService
	Cache  *invoice.Cache
}

// Get handles GET /api/invoices/:id, serving the cached PDF or rendering it
// on demand.
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.Params("id"))
	if err != nil {
		return respondErr(c, "invoice.get", err)
	}

	pdf, ok := h.Cache.Get(o.ID)
	if !ok {
		pdf, err = invoice.Render(o)
		if err != nil {
			return respondErr(c, "invoice.render", err)
		}
		h.Cache.Put(o.ID, pdf)
		if o.InvoiceURL == "" {
			if updated, aerr := h.Orders.AttachInvoice(o.ID, invoice.URLFor(o.ID)); aerr == nil {
				o = updated
			}
		}
		applog.Info(c, "invoice.rendered", map[string]any{"order_id": o.ID})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoice-`+o.OrderNumber+`.pdf"`)
	return c.Send(pdf)
}
