// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "examplanner_backend/internals/features/users/auth/controller"
	rateLimiter "examplanner_backend/internals/middlewares"
	authMiddleware "examplanner_backend/internals/middlewares/auth"
)

// Base: /api/auth
func AuthRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	authController := controller.NewAuthController(db, v)

	baseAuth := api.Group("/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)

	requireAuth := authMiddleware.AuthMiddleware(db)
	baseAuth.Post("/logout", requireAuth, authController.Logout)
	baseAuth.Get("/me", requireAuth, authController.Me)
}
