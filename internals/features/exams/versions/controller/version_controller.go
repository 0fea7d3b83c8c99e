// internals/features/exams/versions/controller/version_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	calendarService "examplanner_backend/internals/features/exams/calendars/service"
	"examplanner_backend/internals/features/exams/store"
	versionDTO "examplanner_backend/internals/features/exams/versions/dto"
	versionModel "examplanner_backend/internals/features/exams/versions/model"
	versionService "examplanner_backend/internals/features/exams/versions/service"
	helper "examplanner_backend/internals/helpers"
	"examplanner_backend/internals/metrics"
)

type VersionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *versionService.Service
}

func NewVersionController(db *gorm.DB, v *validator.Validate) *VersionController {
	return &VersionController{DB: db, Validator: v, Service: versionService.New(store.NewGormStore(db))}
}

func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, calendarService.ErrCalendarNotFound),
		errors.Is(err, versionService.ErrVersionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, versionService.ErrVersionConflict):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	}
	return helper.FromFiberError(c, err)
}

/* =========================================================
   SAVE
   POST /api/calendars/:id/save_version
   ========================================================= */
func (h *VersionController) SaveVersion(c *fiber.Ctx) error {
	calendarID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req versionDTO.SaveVersionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
		}
	}
	req.Label = helper.NormalizeText(req.Label)
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	v, err := h.Service.Save(c.UserContext(), calendarID, req.Label, userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	metrics.Default.ObserveVersionOp("save")
	return helper.JsonCreated(c, "Versión guardada", versionDTO.FromVersionModel(*v))
}

/* =========================================================
   RESTORE
   POST /api/calendars/:id/restore_version/:version_id
   ========================================================= */
func (h *VersionController) RestoreVersion(c *fiber.Ctx) error {
	calendarID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	versionID, err := helper.ParseUUIDParam(c, "version_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	v, err := h.Service.Restore(c.UserContext(), calendarID, versionID)
	if err != nil {
		return writeServiceError(c, err)
	}
	metrics.Default.ObserveVersionOp("restore")
	return helper.JsonOK(c, "Versión restaurada", versionDTO.FromVersionModel(*v))
}

/* =========================================================
   DELETE
   DELETE /api/calendars/:id/versions/:version_id
   ========================================================= */
func (h *VersionController) DeleteVersion(c *fiber.Ctx) error {
	calendarID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	versionID, err := helper.ParseUUIDParam(c, "version_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := h.Service.Delete(c.UserContext(), calendarID, versionID); err != nil {
		return writeServiceError(c, err)
	}
	metrics.Default.ObserveVersionOp("delete")
	return helper.JsonDeleted(c, "Versión eliminada", fiber.Map{"calendar_version_id": versionID})
}

/* =========================================================
   LIST (newest first)
   GET /api/calendars/:id/versions
   GET /api/versions?calendar_id=
   ========================================================= */
func (h *VersionController) ListCalendarVersions(c *fiber.Ctx) error {
	calendarID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return h.list(c, calendarID.String())
}

func (h *VersionController) ListVersions(c *fiber.Ctx) error {
	var q versionDTO.ListVersionQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parámetros de consulta inválidos")
	}
	if err := h.Validator.Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}
	calendarID := ""
	if q.CalendarID != nil {
		calendarID = strings.TrimSpace(*q.CalendarID)
	}
	return h.list(c, calendarID)
}

func (h *VersionController) list(c *fiber.Ctx, calendarID string) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := h.DB.WithContext(c.UserContext()).Model(&versionModel.CalendarVersionModel{})
	if calendarID != "" {
		tx = tx.Where("calendar_version_calendar_id = ?", calendarID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	var rows []versionModel.CalendarVersionModel
	if err := tx.Order("calendar_version_created_at DESC").
		Order("calendar_version_number DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "ok", versionDTO.FromVersionModels(rows), &pg)
}

/* =========================================================
   DETAIL (with snapshot)
   GET /api/versions/:id
   ========================================================= */
func (h *VersionController) GetVersion(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m versionModel.CalendarVersionModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "calendar_version_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return writeServiceError(c, versionService.ErrVersionNotFound)
		}
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", versionDTO.NewVersionDetail(m))
}
