package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examplanner_backend/internals/constants"
	userController "examplanner_backend/internals/features/users/user/controller"
	authMiddleware "examplanner_backend/internals/middlewares/auth"
)

// UserAdminRoutes: account management, admins only.
func UserAdminRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := userController.NewUserController(db, v)

	users := r.Group("/users",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("usuarios"), constants.AdminOnly...),
	)
	users.Get("/", ctl.GetUsers)         // GET    /api/users?q=&role=
	users.Post("/", ctl.CreateUser)      // POST   /api/users
	users.Patch("/:id", ctl.UpdateUser)  // PATCH  /api/users/:id
	users.Delete("/:id", ctl.DeleteUser) // DELETE /api/users/:id
}
