package handlers

import (
	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/services"
	"orderdesk/internal/store"
	"orderdesk/internal/validate"
)

type CustomerHandler struct {
	Store  store.Storage
	Orders *services.OrderService
}

// List handles GET /api/customers.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	customers, err := h.Store.Customers()
	if err != nil {
		return respondErr(c, "customers.list", err)
	}
	return c.JSON(customers)
}

// Create handles POST /api/customers, the explicit creation path. Duplicate
// emails are a 409.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in domain.NewCustomer
	if err := c.BodyParser(&in); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body", "error": err.Error()})
		return jsonMsg(c, fiber.StatusBadRequest, "invalid customer payload")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return jsonMsg(c, fiber.StatusBadRequest, "invalid email")
	}
	in.Email = email

	cust, err := h.Store.CreateCustomer(in)
	if err != nil {
		return respondErr(c, "customer.create", err)
	}
	applog.Audit(c, "customer.create", map[string]any{"customer_id": cust.ID})
	return c.Status(fiber.StatusCreated).JSON(cust)
}

// CustomerOrders handles GET /api/customers/:id/orders, newest first.
func (h *CustomerHandler) CustomerOrders(c *fiber.Ctx) error {
	orders, err := h.Orders.ByCustomer(c.Params("id"))
	if err != nil {
		return respondErr(c, "customers.orders", err)
	}
	return c.JSON(orders)
}
