package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError turns an error coming out of a Transaction into the standard JSON shape.
// *fiber.Error keeps its code; PG constraint errors are mapped; anything else is a 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	if code, msg, ok := MapPGError(err); ok {
		return JsonError(c, code, msg)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return JsonError(c, fiber.StatusInternalServerError, "Error interno del servidor")
}
