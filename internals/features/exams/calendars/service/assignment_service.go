// file: internals/features/exams/calendars/service/assignment_service.go
package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	"examplanner_backend/internals/features/exams/store"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	"examplanner_backend/internals/features/exams/validation"
	"examplanner_backend/internals/helpers/dbtime"
)

var (
	ErrCalendarNotFound     = errors.New("calendario no encontrado")
	ErrSubjectNotFound      = errors.New("materia no encontrada")
	ErrEventNotFound        = errors.New("evento no encontrado")
	ErrEventSubjectMismatch = errors.New("el evento no corresponde a la materia indicada")
)

type Service struct {
	Store store.Store
}

func New(st store.Store) *Service { return &Service{Store: st} }

// Placement is one proposed (subject, date) for a calendar. EventID marks a
// move of an existing event.
type Placement struct {
	CalendarID uuid.UUID
	SubjectID  uuid.UUID
	Date       dbtime.Date
	EventID    *uuid.UUID
}

// AssignResult: Event is nil when the verdict rejected the placement.
type AssignResult struct {
	Verdict validation.Verdict
	Event   *calendarModel.ExamEventModel
}

type resolved struct {
	calendar *calendarModel.ExamCalendarModel
	subject  *subjectModel.SubjectModel
	event    *calendarModel.ExamEventModel
}

func resolve(ctx context.Context, st store.Store, p Placement) (*resolved, error) {
	cal, err := st.GetCalendar(ctx, p.CalendarID)
	if err != nil {
		return nil, mapNotFound(err, ErrCalendarNotFound)
	}
	sub, err := st.GetSubject(ctx, p.SubjectID)
	if err != nil {
		return nil, mapNotFound(err, ErrSubjectNotFound)
	}
	out := &resolved{calendar: cal, subject: sub}
	if p.EventID != nil {
		ev, err := st.GetEvent(ctx, p.CalendarID, *p.EventID)
		if err != nil {
			return nil, mapNotFound(err, ErrEventNotFound)
		}
		if ev.ExamEventSubjectID != sub.SubjectID {
			return nil, ErrEventSubjectMismatch
		}
		out.event = ev
	}
	return out, nil
}

func mapNotFound(err, target error) error {
	if errors.Is(err, store.ErrNotFound) {
		return target
	}
	return err
}

// Validate answers whether the placement would be accepted, without writing.
func (s *Service) Validate(ctx context.Context, p Placement) (validation.Verdict, error) {
	r, err := resolve(ctx, s.Store, p)
	if err != nil {
		return validation.Verdict{}, err
	}
	return validation.Validate(ctx, s.Store, validation.Input{
		Calendar:       r.calendar,
		Subject:        r.subject,
		Date:           p.Date,
		ExcludeEventID: p.EventID,
	})
}

// Assign validates and, when accepted, creates or moves the subject's event in
// the same unit of work. A rejected placement leaves the store untouched.
func (s *Service) Assign(ctx context.Context, p Placement) (AssignResult, error) {
	var res AssignResult
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		r, err := resolve(ctx, tx, p)
		if err != nil {
			return err
		}

		v, err := validation.Validate(ctx, tx, validation.Input{
			Calendar:       r.calendar,
			Subject:        r.subject,
			Date:           p.Date,
			ExcludeEventID: p.EventID,
		})
		if err != nil {
			return err
		}
		res.Verdict = v
		if !v.IsValid {
			return nil
		}

		if r.event != nil {
			if err := tx.MoveEvent(ctx, r.event, p.Date); err != nil {
				return err
			}
			res.Event = r.event
			return nil
		}
		ev, err := tx.UpsertEvent(ctx, p.CalendarID, p.SubjectID, p.Date)
		if err != nil {
			return err
		}
		res.Event = ev
		return nil
	})
	if err != nil {
		return AssignResult{}, err
	}
	if res.Event != nil {
		log.Printf("[INFO] calendar %s: %s placed on %s (%s)",
			p.CalendarID, p.SubjectID, p.Date, res.Verdict.Message)
	}
	return res, nil
}

// ToggleBlockedDay flips the blocked state of a date; returns the new state.
func (s *Service) ToggleBlockedDay(ctx context.Context, calendarID uuid.UUID, day dbtime.Date, reason string) (bool, error) {
	var blocked bool
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetCalendar(ctx, calendarID); err != nil {
			return mapNotFound(err, ErrCalendarNotFound)
		}
		b, err := tx.ToggleBlockedDay(ctx, calendarID, day, reason)
		blocked = b
		return err
	})
	return blocked, err
}

func (s *Service) RemoveEvent(ctx context.Context, calendarID, eventID uuid.UUID) error {
	return mapNotFound(s.Store.DeleteEvent(ctx, calendarID, eventID), ErrEventNotFound)
}
