// file: internals/features/exams/validation/validator.go
package validation

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	"examplanner_backend/internals/features/exams/store"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	"examplanner_backend/internals/helpers/dbtime"
)

// Source is the read side the validator needs; store.Store satisfies it.
type Source interface {
	IsBlocked(ctx context.Context, calendarID uuid.UUID, day dbtime.Date) (bool, error)
	EventsBetween(ctx context.Context, calendarID uuid.UUID, from, to dbtime.Date) ([]store.PlacedEvent, error)
	ActiveRules(ctx context.Context, calendarID uuid.UUID) ([]ruleModel.RuleModel, error)
}

// Input: already-resolved entities plus the candidate date. ExcludeEventID is
// the event being moved, if any.
type Input struct {
	Calendar       *calendarModel.ExamCalendarModel
	Subject        *subjectModel.SubjectModel
	Date           dbtime.Date
	ExcludeEventID *uuid.UUID
}

// Facts is everything Evaluate reads, loaded up front.
type Facts struct {
	Blocked bool
	// Events on date-1 .. date+1 of the same calendar.
	Nearby []store.PlacedEvent
	Rules  []Rule
}

type placedSubject struct {
	ID      uuid.UUID
	Name    string
	IsHeavy bool
}

type placement struct {
	subject placedSubject
	date    dbtime.Date
	others  []store.PlacedEvent
}

func (p *placement) hasSubjectOn(subjectID uuid.UUID, day dbtime.Date) bool {
	for _, e := range p.others {
		if e.SubjectID == subjectID && e.Date.Equal(day) {
			return true
		}
	}
	return false
}

func (p *placement) heavyOn(day dbtime.Date) bool {
	for _, e := range p.others {
		if e.IsHeavy && e.Date.Equal(day) {
			return true
		}
	}
	return false
}

// Validate loads the facts for one placement and evaluates it.
func Validate(ctx context.Context, src Source, in Input) (Verdict, error) {
	if in.Calendar == nil || in.Subject == nil {
		return Verdict{}, fmt.Errorf("validate: calendar and subject are required")
	}
	calID := in.Calendar.ExamCalendarID

	blocked, err := src.IsBlocked(ctx, calID, in.Date)
	if err != nil {
		return Verdict{}, fmt.Errorf("load blocked day: %w", err)
	}
	nearby, err := src.EventsBetween(ctx, calID, in.Date.AddDays(-1), in.Date.AddDays(1))
	if err != nil {
		return Verdict{}, fmt.Errorf("load events: %w", err)
	}
	rules, err := LoadRules(ctx, src, calID)
	if err != nil {
		return Verdict{}, err
	}

	return Evaluate(in, Facts{Blocked: blocked, Nearby: nearby, Rules: rules}), nil
}

// LoadRules decodes the active rules of a calendar. A rule whose params no
// longer decode is skipped and logged.
func LoadRules(ctx context.Context, src Source, calendarID uuid.UUID) ([]Rule, error) {
	models, err := src.ActiveRules(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	out := make([]Rule, 0, len(models))
	for _, m := range models {
		r, err := FromModel(m)
		if err != nil {
			log.Printf("[WARN] skipping rule %s (%s): %v", m.RuleID, m.RuleKind, err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Evaluate runs every check; conflicts accumulate instead of short-circuiting.
func Evaluate(in Input, f Facts) Verdict {
	out := newConflicts()
	cal, sub, day := in.Calendar, in.Subject, in.Date

	if !cal.Contains(day) {
		out.hardf("La fecha está fuera del rango del calendario.")
	}
	if day.WeekdayName() == "Sunday" {
		out.hardf("No se permiten exámenes los domingos.")
	}
	if f.Blocked {
		out.hardf("El día está marcado como feriado/bloqueado.")
	}
	if !sub.AllowsWeekday(day) {
		out.hardf(fmt.Sprintf("%s solo puede rendirse en: %s.",
			sub.SubjectName, dbtime.LocalizeWeekdays(sub.SubjectAllowedWeekdays)))
	}
	if !sub.AllowsDate(day) {
		out.hardf(fmt.Sprintf("%s solo permite fechas específicas.", sub.SubjectName))
	}

	p := &placement{
		subject: placedSubject{ID: sub.SubjectID, Name: sub.SubjectName, IsHeavy: sub.SubjectIsHeavy},
		date:    day,
		others:  make([]store.PlacedEvent, 0, len(f.Nearby)),
	}
	for _, e := range f.Nearby {
		if in.ExcludeEventID != nil && e.EventID == *in.ExcludeEventID {
			continue
		}
		if e.SubjectID == sub.SubjectID {
			continue
		}
		p.others = append(p.others, e)
	}

	for _, r := range f.Rules {
		r.evaluate(p, out)
	}
	return out.verdict()
}
