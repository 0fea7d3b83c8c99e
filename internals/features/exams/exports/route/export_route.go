package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	exportController "examplanner_backend/internals/features/exams/exports/controller"
	"examplanner_backend/internals/middlewares"
)

// CalendarExportRoutes mounts /:id/export/* on the /calendars group.
func CalendarExportRoutes(calendars fiber.Router, db *gorm.DB) {
	ctl := exportController.NewExportController(db)
	limit := middlewares.ExportRateLimiter()

	calendars.Get("/:id/export/excel", limit, ctl.ExportExcel)
	calendars.Get("/:id/export/pdf", limit, ctl.ExportPDF)
	calendars.Get("/:id/export/report", ctl.ExportReport)
}
