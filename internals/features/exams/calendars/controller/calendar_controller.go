// internals/features/exams/calendars/controller/calendar_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examplanner_backend/internals/configs"
	calendarDTO "examplanner_backend/internals/features/exams/calendars/dto"
	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	calendarService "examplanner_backend/internals/features/exams/calendars/service"
	"examplanner_backend/internals/features/exams/store"
	helper "examplanner_backend/internals/helpers"
	"examplanner_backend/internals/helpers/dbtime"
)

type CalendarController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Store     store.Store
}

func NewCalendarController(db *gorm.DB, v *validator.Validate) *CalendarController {
	return &CalendarController{DB: db, Validator: v, Store: store.NewGormStore(db)}
}

/* =========================================================
   LIST
   GET /api/calendars?period_type=&page=&per_page=
   ========================================================= */
func (h *CalendarController) ListCalendars(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := h.DB.WithContext(c.UserContext()).Model(&calendarModel.ExamCalendarModel{})
	if pt := strings.ToUpper(strings.TrimSpace(c.Query("period_type"))); pt != "" {
		if !calendarModel.PeriodType(pt).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "period_type inválido")
		}
		tx = tx.Where("exam_calendar_period_type = ?", pt)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	var rows []calendarModel.ExamCalendarModel
	if err := tx.Order("exam_calendar_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "ok", calendarDTO.FromCalendarModels(rows), &pg)
}

/* =========================================================
   DETAIL (with events and blocked days)
   GET /api/calendars/:id
   ========================================================= */
func (h *CalendarController) GetCalendar(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()

	cal, err := h.Store.GetCalendar(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return writeServiceError(c, calendarService.ErrCalendarNotFound)
		}
		return helper.FromFiberError(c, err)
	}
	events, err := h.Store.ListEvents(ctx, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	blocked, err := h.Store.ListBlockedDays(ctx, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", calendarDTO.NewCalendarDetail(*cal, events, blocked))
}

/* =========================================================
   CREATE
   POST /api/calendars
   ========================================================= */
func (h *CalendarController) CreateCalendar(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req calendarDTO.CreateCalendarRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	start, end, err := calendarService.ResolveWindow(req.StartDate, req.EndDate, dbtime.Today(configs.Location()))
	if err != nil {
		return writeServiceError(c, err)
	}

	m := calendarModel.ExamCalendarModel{
		ExamCalendarName:       req.Name,
		ExamCalendarPeriodType: calendarModel.PeriodType(req.PeriodType),
		ExamCalendarStartDate:  start,
		ExamCalendarEndDate:    end,
		ExamCalendarCreatedBy:  userID,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	log.Printf("[INFO] calendar created %s (%s %s..%s)", m.ExamCalendarID, m.ExamCalendarName, start, end)
	return helper.JsonCreated(c, "Calendario creado", calendarDTO.FromCalendarModel(m))
}

/* =========================================================
   UPDATE (partial)
   PATCH /api/calendars/:id
   ========================================================= */
func (h *CalendarController) UpdateCalendar(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req calendarDTO.UpdateCalendarRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Normalize()
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m calendarModel.ExamCalendarModel
	if err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "exam_calendar_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return calendarService.ErrCalendarNotFound
			}
			return err
		}
		req.Apply(&m)
		if m.ExamCalendarEndDate.Before(m.ExamCalendarStartDate) {
			return calendarService.ErrInvalidWindow
		}
		return tx.Omit("Events", "BlockedDays").Save(&m).Error
	}); err != nil {
		return writeServiceError(c, err)
	}

	return helper.JsonUpdated(c, "Calendario actualizado", calendarDTO.FromCalendarModel(m))
}

/* =========================================================
   DELETE (events, blocked days, rules and versions cascade)
   DELETE /api/calendars/:id
   ========================================================= */
func (h *CalendarController) DeleteCalendar(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := h.DB.WithContext(c.UserContext()).
		Where("exam_calendar_id = ?", id).
		Delete(&calendarModel.ExamCalendarModel{})
	if res.Error != nil {
		return helper.FromFiberError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return writeServiceError(c, calendarService.ErrCalendarNotFound)
	}

	log.Printf("[INFO] calendar deleted %s", id)
	return helper.JsonDeleted(c, "Calendario eliminado", fiber.Map{"exam_calendar_id": id})
}
