package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "examplanner_backend/internals/features/users/auth/route"
)

func AuthRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	authRoute.AuthRoutes(api, db, v)
}
