package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examplanner_backend/internals/constants"
	calendarController "examplanner_backend/internals/features/exams/calendars/controller"
	exportRoute "examplanner_backend/internals/features/exams/exports/route"
	versionRoute "examplanner_backend/internals/features/exams/versions/route"
	authMiddleware "examplanner_backend/internals/middlewares/auth"
)

// CalendarRoutes mounts /calendars (and its assignment, version and export actions)
// under an already authenticated router.
func CalendarRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	calCtl := calendarController.NewCalendarController(db, v)
	asgCtl := calendarController.NewAssignmentController(db, v)
	canWrite := authMiddleware.OnlyRoles(constants.RoleErrorEditor("calendarios"), constants.EditorAndAbove...)

	calendars := r.Group("/calendars")
	calendars.Get("/", calCtl.ListCalendars)
	calendars.Get("/:id", calCtl.GetCalendar)
	calendars.Post("/", canWrite, calCtl.CreateCalendar)
	calendars.Patch("/:id", canWrite, calCtl.UpdateCalendar)
	calendars.Delete("/:id", canWrite, calCtl.DeleteCalendar)

	// dry run is a read: viewers may ask
	calendars.Post("/:id/validate_assignment", asgCtl.ValidateAssignment)
	calendars.Post("/:id/assign_event", canWrite, asgCtl.AssignEvent)
	calendars.Post("/:id/toggle_blocked_day", canWrite, asgCtl.ToggleBlockedDay)
	calendars.Delete("/:id/events/:event_id", canWrite, asgCtl.RemoveEvent)

	versionRoute.CalendarVersionRoutes(calendars, db, v)
	exportRoute.CalendarExportRoutes(calendars, db)
}
