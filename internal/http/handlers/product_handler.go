package handlers

import (
	"github.com/gofiber/fiber/v2"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/services"
	"orderdesk/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// List handles GET /api/products; ?search= narrows by name, description or
// category.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.Search(validate.Q(c.Query("search")))
	if err != nil {
		return respondErr(c, "products.list", err)
	}
	return c.JSON(products)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.Catalog.Get(c.Params("id"))
	if err != nil {
		return respondErr(c, "products.get", err)
	}
	return c.JSON(p)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in domain.NewProduct
	if err := c.BodyParser(&in); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body", "error": err.Error()})
		return jsonMsg(c, fiber.StatusBadRequest, "invalid product payload")
	}
	stock, ok := validate.Stock(in.Stock)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "stock", "value": in.Stock})
		return jsonMsg(c, fiber.StatusBadRequest, "stock must be a non-negative integer")
	}
	in.Stock = stock

	p, err := h.Catalog.Create(in)
	if err != nil {
		return respondErr(c, "product.create", err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update handles PUT /api/products/:id as a partial merge.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var patch domain.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body", "error": err.Error()})
		return jsonMsg(c, fiber.StatusBadRequest, "invalid product payload")
	}
	if patch.Stock != nil {
		stock, ok := validate.Stock(*patch.Stock)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "stock", "value": *patch.Stock})
			return jsonMsg(c, fiber.StatusBadRequest, "stock must be a non-negative integer")
		}
		patch.Stock = &stock
	}

	p, err := h.Catalog.Update(c.Params("id"), patch)
	if err != nil {
		return respondErr(c, "product.update", err)
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": p.ID})
	return c.JSON(p)
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	existed, err := h.Catalog.Delete(c.Params("id"))
	if err != nil {
		return respondErr(c, "product.delete", err)
	}
	if !existed {
		return jsonMsg(c, fiber.StatusNotFound, "not found")
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": c.Params("id")})
	return c.SendStatus(fiber.StatusNoContent)
}
