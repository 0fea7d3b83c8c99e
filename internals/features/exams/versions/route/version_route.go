package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examplanner_backend/internals/constants"
	versionController "examplanner_backend/internals/features/exams/versions/controller"
	authMiddleware "examplanner_backend/internals/middlewares/auth"
)

// CalendarVersionRoutes mounts the version actions of one calendar on the /calendars group.
func CalendarVersionRoutes(calendars fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := versionController.NewVersionController(db, v)
	canWrite := authMiddleware.OnlyRoles(constants.RoleErrorEditor("versiones"), constants.EditorAndAbove...)

	calendars.Get("/:id/versions", ctl.ListCalendarVersions)
	calendars.Post("/:id/save_version", canWrite, ctl.SaveVersion)
	calendars.Post("/:id/restore_version/:version_id", canWrite, ctl.RestoreVersion)
	calendars.Delete("/:id/versions/:version_id", canWrite, ctl.DeleteVersion)
}

// VersionRoutes: read-only /versions.
func VersionRoutes(r fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := versionController.NewVersionController(db, v)

	versions := r.Group("/versions")
	versions.Get("/", ctl.ListVersions)  // GET /api/versions?calendar_id=
	versions.Get("/:id", ctl.GetVersion) // GET /api/versions/:id
}
