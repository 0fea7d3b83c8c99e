package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	calendarService "examplanner_backend/internals/features/exams/calendars/service"
	"examplanner_backend/internals/features/exams/store"
	helper "examplanner_backend/internals/helpers"
)

// writeServiceError maps planner sentinel errors to HTTP; anything else goes through FromFiberError.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, calendarService.ErrCalendarNotFound),
		errors.Is(err, calendarService.ErrSubjectNotFound),
		errors.Is(err, calendarService.ErrEventNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Registro no encontrado")
	case errors.Is(err, calendarService.ErrEventSubjectMismatch),
		errors.Is(err, calendarService.ErrInvalidWindow):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.FromFiberError(c, err)
}
