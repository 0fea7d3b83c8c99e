// internals/features/exams/calendars/controller/assignment_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	calendarDTO "examplanner_backend/internals/features/exams/calendars/dto"
	calendarService "examplanner_backend/internals/features/exams/calendars/service"
	"examplanner_backend/internals/features/exams/store"
	helper "examplanner_backend/internals/helpers"
	"examplanner_backend/internals/helpers/dbtime"
	"examplanner_backend/internals/metrics"
)

type AssignmentController struct {
	Validator *validator.Validate
	Service   *calendarService.Service
}

func NewAssignmentController(db *gorm.DB, v *validator.Validate) *AssignmentController {
	return &AssignmentController{Validator: v, Service: calendarService.New(store.NewGormStore(db))}
}

func (h *AssignmentController) parsePlacement(c *fiber.Ctx) (calendarService.Placement, error) {
	calendarID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return calendarService.Placement{}, err
	}

	var req calendarDTO.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return calendarService.Placement{}, fiber.NewError(fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.SubjectID = strings.TrimSpace(req.SubjectID)
	req.Date = strings.TrimSpace(req.Date)
	if err := h.Validator.Struct(req); err != nil {
		return calendarService.Placement{}, err
	}

	p := calendarService.Placement{
		CalendarID: calendarID,
		SubjectID:  uuid.MustParse(req.SubjectID),
		Date:       dbtime.MustParseDate(req.Date),
	}
	if req.EventID != nil {
		ev := uuid.MustParse(*req.EventID)
		p.EventID = &ev
	}
	return p, nil
}

func (h *AssignmentController) placementError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return helper.ValidationError(c, err)
	}
	return writeServiceError(c, err)
}

/* =========================================================
   VALIDATE (dry run)
   POST /api/calendars/:id/validate_assignment
   Always 200: the verdict is the answer.
   ========================================================= */
func (h *AssignmentController) ValidateAssignment(c *fiber.Ctx) error {
	p, err := h.parsePlacement(c)
	if err != nil {
		return h.placementError(c, err)
	}
	v, err := h.Service.Validate(c.UserContext(), p)
	if err != nil {
		return writeServiceError(c, err)
	}
	metrics.Default.ObserveVerdict("validate", v.IsValid, v.IsSoft())
	return helper.JsonOK(c, v.Message, v)
}

/* =========================================================
   ASSIGN (validate + create or move)
   POST /api/calendars/:id/assign_event
   ========================================================= */
func (h *AssignmentController) AssignEvent(c *fiber.Ctx) error {
	p, err := h.parsePlacement(c)
	if err != nil {
		return h.placementError(c, err)
	}
	res, err := h.Service.Assign(c.UserContext(), p)
	if err != nil {
		return writeServiceError(c, err)
	}
	metrics.Default.ObserveVerdict("assign", res.Verdict.IsValid, res.Verdict.IsSoft())
	if !res.Verdict.IsValid {
		return helper.JsonErrorWithData(c, fiber.StatusBadRequest, res.Verdict.Message, res.Verdict)
	}

	var warning any
	if res.Verdict.IsSoft() {
		warning = res.Verdict
	}
	return helper.JsonOK(c, "Examen asignado", fiber.Map{
		"event":   calendarDTO.FromEventModel(*res.Event),
		"warning": warning,
	})
}

/* =========================================================
   TOGGLE BLOCKED DAY
   POST /api/calendars/:id/toggle_blocked_day
   ========================================================= */
func (h *AssignmentController) ToggleBlockedDay(c *fiber.Ctx) error {
	calendarID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req calendarDTO.ToggleBlockedDayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Date = strings.TrimSpace(req.Date)
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	day := dbtime.MustParseDate(req.Date)
	blocked, err := h.Service.ToggleBlockedDay(c.UserContext(), calendarID, day, req.Reason)
	if err != nil {
		return writeServiceError(c, err)
	}

	log.Printf("[INFO] calendar %s: %s blocked=%t", calendarID, day, blocked)
	return helper.JsonOK(c, "ok", fiber.Map{"blocked": blocked, "date": day})
}

/* =========================================================
   REMOVE EVENT
   DELETE /api/calendars/:id/events/:event_id
   ========================================================= */
func (h *AssignmentController) RemoveEvent(c *fiber.Ctx) error {
	calendarID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.Service.RemoveEvent(c.UserContext(), calendarID, eventID); err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Examen quitado del calendario", fiber.Map{"exam_event_id": eventID})
}
