package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "examplanner_backend/internals/helpers"
)

// RoleMiddlewareWithCustomError checks Locals("userRole") against allowedRoles.
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetUserRole(c)
		if role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Falta la información de rol")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "No tiene permisos para acceder a este recurso"
		}
		log.Printf("[WARN] role %q denied on %s %s", role, c.Method(), c.Path())
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}

func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
