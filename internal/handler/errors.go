package handler

import (
	"errors"

	"go-pharmacy-inventory/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError is the single place error kinds become HTTP statuses.
// Internal detail never leaks to callers.
func respondError(c *fiber.Ctx, err error) error {
	var verr *apperr.ValidationError
	var nferr *apperr.NotFoundError

	switch {
	case errors.As(err, &verr):
		return c.Status(400).JSON(fiber.Map{"error": verr.Message})
	case errors.As(err, &nferr):
		return c.Status(404).JSON(fiber.Map{"error": nferr.Error()})
	case errors.Is(err, apperr.ErrDuplicateBarcode):
		return c.Status(400).JSON(fiber.Map{"error": "Product with this barcode already exists"})
	case errors.Is(err, apperr.ErrInsufficientStock):
		return c.Status(400).JSON(fiber.Map{"error": "Insufficient stock"})
	case errors.Is(err, apperr.ErrTransientStore):
		return c.Status(503).JSON(fiber.Map{"error": "Store busy, please retry"})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

// actorID extracts the authenticated user's id set by the auth
// middleware.
func actorID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, errors.New("missing actor")
	}
	return uuid.Parse(raw)
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
