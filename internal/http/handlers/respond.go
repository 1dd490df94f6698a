package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "orderdesk/internal/log"
	"orderdesk/internal/store"
)

func jsonMsg(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"message": msg})
}

// respondErr maps core errors onto status codes: absent is 404, conflicting
// is 409, invalid is 400, everything else is a logged 500.
func respondErr(c *fiber.Ctx, action string, err error) error {
	var ve *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return jsonMsg(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, store.ErrEmailTaken):
		return jsonMsg(c, fiber.StatusConflict, "email already registered")
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"field": ve.Field, "msg": ve.Msg})
		return jsonMsg(c, fiber.StatusBadRequest, ve.Error())
	default:
		applog.Error(c, action, err, nil)
		return jsonMsg(c, fiber.StatusInternalServerError, "internal error")
	}
}
