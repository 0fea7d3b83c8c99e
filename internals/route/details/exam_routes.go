package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	calendarRoute "examplanner_backend/internals/features/exams/calendars/route"
	ruleRoute "examplanner_backend/internals/features/exams/rules/route"
	subjectRoute "examplanner_backend/internals/features/exams/subjects/route"
	versionRoute "examplanner_backend/internals/features/exams/versions/route"
)

// ExamRoutes mounts the planner on an authenticated /api router.
// Reads are open to every role; writes are guarded per route.
func ExamRoutes(private fiber.Router, db *gorm.DB, v *validator.Validate) {
	subjectRoute.SubjectRoutes(private, db, v)
	calendarRoute.CalendarRoutes(private, db, v)
	ruleRoute.RuleRoutes(private, db, v)
	versionRoute.VersionRoutes(private, db, v)
}
