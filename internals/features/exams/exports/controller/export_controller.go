// internals/features/exams/exports/controller/export_controller.go
package controller

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	calendarService "examplanner_backend/internals/features/exams/calendars/service"
	exportService "examplanner_backend/internals/features/exams/exports/service"
	"examplanner_backend/internals/features/exams/store"
	versionService "examplanner_backend/internals/features/exams/versions/service"
	helper "examplanner_backend/internals/helpers"
	"examplanner_backend/internals/metrics"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

type ExportController struct {
	Service *exportService.Service
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{Service: exportService.New(store.NewGormStore(db))}
}

// buildReport reads :id and the optional ?version_id=.
func (h *ExportController) buildReport(c *fiber.Ctx) (*exportService.Report, error) {
	calendarID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var versionID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("version_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "version_id inválido")
		}
		versionID = &id
	}
	return h.Service.Build(c.UserContext(), calendarID, versionID)
}

func writeServiceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, calendarService.ErrCalendarNotFound) || errors.Is(err, versionService.ErrVersionNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	}
	return helper.FromFiberError(c, err)
}

func sendFile(c *fiber.Ctx, mime, name string, body []byte) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).Send(body)
}

/* =========================================================
   GET /api/calendars/:id/export/excel[?version_id=]
   ========================================================= */
func (h *ExportController) ExportExcel(c *fiber.Ctx) error {
	rep, err := h.buildReport(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	var buf bytes.Buffer
	if err := exportService.WriteExcel(&buf, rep); err != nil {
		log.Printf("[ERROR] excel export %s: %v", rep.CalendarID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo generar el Excel")
	}
	metrics.Default.ObserveExport("xlsx", rep.VersionID != nil)
	return sendFile(c, mimeXLSX, rep.FileName("xlsx"), buf.Bytes())
}

/* =========================================================
   GET /api/calendars/:id/export/pdf[?version_id=]
   ========================================================= */
func (h *ExportController) ExportPDF(c *fiber.Ctx) error {
	rep, err := h.buildReport(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	var buf bytes.Buffer
	if err := exportService.WritePDF(&buf, rep); err != nil {
		log.Printf("[ERROR] pdf export %s: %v", rep.CalendarID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo generar el PDF")
	}
	metrics.Default.ObserveExport("pdf", rep.VersionID != nil)
	return sendFile(c, mimePDF, rep.FileName("pdf"), buf.Bytes())
}

/* =========================================================
   GET /api/calendars/:id/export/report[?version_id=]
   Same grouping as the PDF, as JSON.
   ========================================================= */
func (h *ExportController) ExportReport(c *fiber.Ctx) error {
	rep, err := h.buildReport(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", rep)
}
