package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userRoute "examplanner_backend/internals/features/users/user/route"
)

func UserRoutes(private fiber.Router, db *gorm.DB, v *validator.Validate) {
	userRoute.UserAdminRoutes(private, db, v)
}
