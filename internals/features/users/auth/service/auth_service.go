// internals/features/users/auth/service/auth_service.go
package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examplanner_backend/internals/configs"
	authRepo "examplanner_backend/internals/features/users/auth/repository"
	helpers "examplanner_backend/internals/helpers"
)

type LoginRequest struct {
	UserName string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
	UserRole string    `json:"user_role"`
}

// ========================== LOGIN ==========================
func Login(db *gorm.DB, v *validator.Validate, c *fiber.Ctx) error {
	var input LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	input.UserName = strings.TrimSpace(input.UserName)
	if err := v.Struct(input); err != nil {
		return helpers.ValidationError(c, err)
	}

	user, err := authRepo.FindUserByUserName(db, input.UserName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] login lookup: %v", err)
		}
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Usuario o contraseña incorrectos")
	}
	if !user.UserIsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "La cuenta está desactivada")
	}
	if err := CheckPasswordHash(user.UserPassword, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Usuario o contraseña incorrectos")
	}

	token, exp, err := IssueAccessToken(configs.JWTSecret, *user, time.Now())
	if err != nil {
		log.Printf("[ERROR] issue token: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "No se pudo generar el token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     helpers.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   configs.GetEnvBool("COOKIE_SECURE", false),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Printf("[INFO] login %s (%s)", user.UserName, user.UserRole)
	return helpers.JsonOK(c, "Sesión iniciada", fiber.Map{
		"access_token": token,
		"expires_at":   exp,
		"user": UserResponse{
			UserID:   user.UserID,
			UserName: user.UserName,
			UserRole: user.UserRole,
		},
	})
}

// ========================== LOGOUT ==========================
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	raw := helpers.GetRawAccessToken(c)
	if raw != "" {
		exp := time.Now().Add(AccessTokenTTL)
		if claims, err := ParseAccessToken(configs.JWTSecret, raw, time.Now()); err == nil {
			exp = claims.ExpiresAt
		}
		if err := authRepo.BlacklistToken(db, raw, exp); err != nil {
			log.Printf("[ERROR] blacklist token: %v", err)
			return helpers.JsonError(c, fiber.StatusInternalServerError, "No se pudo cerrar la sesión")
		}
	}
	if n, err := authRepo.CleanupExpiredBlacklist(db); err != nil {
		log.Printf("[WARN] cleanup blacklist: %v", err)
	} else if n > 0 {
		log.Printf("[INFO] cleanup blacklist: %d expired tokens removed", n)
	}

	c.Cookie(&fiber.Cookie{
		Name:     helpers.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return helpers.JsonOK(c, "Sesión cerrada", nil)
}

// ========================== ME ==========================
func Me(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helpers.GetUserIDFromToken(c)
	if err != nil {
		return helpers.FromFiberError(c, err)
	}
	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.JsonError(c, fiber.StatusNotFound, "Usuario no encontrado")
		}
		return helpers.FromFiberError(c, err)
	}
	return helpers.JsonOK(c, "ok", UserResponse{
		UserID:   user.UserID,
		UserName: user.UserName,
		UserRole: user.UserRole,
	})
}
