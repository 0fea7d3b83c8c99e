package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examplanner_backend/internals/constants"
	ruleController "examplanner_backend/internals/features/exams/rules/controller"
	authMiddleware "examplanner_backend/internals/middlewares/auth"
)

func RuleRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := ruleController.NewRuleController(db, v)
	canWrite := authMiddleware.OnlyRoles(constants.RoleErrorEditor("reglas"), constants.EditorAndAbove...)

	rules := r.Group("/rules")
	rules.Get("/", ctl.ListRules)                  // GET    /api/rules?calendar_id=&enabled=
	rules.Get("/:id", ctl.GetRule)                 // GET    /api/rules/:id
	rules.Post("/", canWrite, ctl.CreateRule)      // POST   /api/rules
	rules.Patch("/:id", canWrite, ctl.UpdateRule)  // PATCH  /api/rules/:id
	rules.Delete("/:id", canWrite, ctl.DeleteRule) // DELETE /api/rules/:id
}
