package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examplanner_backend/internals/constants"
	subjectController "examplanner_backend/internals/features/exams/subjects/controller"
	authMiddleware "examplanner_backend/internals/middlewares/auth"
)

// SubjectRoutes mounts /subjects under an already authenticated router.
func SubjectRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := subjectController.NewSubjectController(db, v)
	canWrite := authMiddleware.OnlyRoles(constants.RoleErrorEditor("materias"), constants.EditorAndAbove...)

	subjects := r.Group("/subjects")
	subjects.Get("/", ctl.ListSubjects)                  // GET    /api/subjects?q=&semester_group=&page=
	subjects.Get("/:id", ctl.GetSubject)                 // GET    /api/subjects/:id
	subjects.Post("/", canWrite, ctl.CreateSubject)      // POST   /api/subjects
	subjects.Patch("/:id", canWrite, ctl.UpdateSubject)  // PATCH  /api/subjects/:id
	subjects.Delete("/:id", canWrite, ctl.DeleteSubject) // DELETE /api/subjects/:id
}
