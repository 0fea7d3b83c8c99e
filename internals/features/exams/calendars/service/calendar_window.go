// file: internals/features/exams/calendars/service/calendar_window.go
package service

import (
	"errors"

	"examplanner_backend/internals/helpers/dbtime"
)

// WindowDays is the length of a derived calendar window, both ends included.
const WindowDays = 28

var ErrInvalidWindow = errors.New("la fecha de fin debe ser igual o posterior a la de inicio")

// ResolveWindow fills a missing bound with a 28-day window from the one given,
// or starts at today when neither is given. today comes from the caller.
func ResolveWindow(start, end *dbtime.Date, today dbtime.Date) (dbtime.Date, dbtime.Date, error) {
	var s, e dbtime.Date
	switch {
	case start != nil && end != nil:
		s, e = *start, *end
	case start != nil:
		s = *start
		e = s.AddDays(WindowDays - 1)
	case end != nil:
		e = *end
		s = e.AddDays(-(WindowDays - 1))
	default:
		s = today
		e = today.AddDays(WindowDays - 1)
	}
	if e.Before(s) {
		return dbtime.Date{}, dbtime.Date{}, ErrInvalidWindow
	}
	return s, e, nil
}
