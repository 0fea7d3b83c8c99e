// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examplanner_backend/internals/configs"
	authRepo "examplanner_backend/internals/features/users/auth/repository"
	authService "examplanner_backend/internals/features/users/auth/service"
	helper "examplanner_backend/internals/helpers"
)

func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Authorization header, else cookie
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		tx := db.WithContext(c.UserContext())

		// 2) Blacklist (once per request)
		if c.Locals("token_checked") == nil {
			blacklisted, err := authRepo.IsTokenBlacklisted(tx, tokenString)
			if err != nil {
				log.Println("[ERROR] blacklist lookup:", err)
				return helper.JsonError(c, fiber.StatusInternalServerError, "Error interno del servidor")
			}
			if blacklisted {
				log.Println("[WARN] token found in blacklist")
				return helper.JsonError(c, fiber.StatusUnauthorized, "Sesión cerrada, vuelva a iniciar sesión")
			}
			c.Locals("token_checked", true)
		}

		// 3) Signature + exp
		if configs.JWTSecret == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Missing JWT Secret")
		}
		claims, err := authService.ParseAccessToken(configs.JWTSecret, tokenString, time.Now())
		if err != nil {
			log.Println("[WARN] token rejected:", err)
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token inválido o expirado")
		}

		// 4) User still exists and is active; role comes from the row
		role, err := loadActiveUser(tx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Usuario no encontrado")
			}
			if errors.Is(err, errUserInactive) {
				return helper.JsonError(c, fiber.StatusForbidden, "La cuenta está desactivada")
			}
			log.Println("[ERROR] loadActiveUser:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Error interno del servidor")
		}

		storeClaimsToLocals(c, claims, role)
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}
