// internals/features/exams/calendars/dto/calendar_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	"examplanner_backend/internals/helpers/dbtime"
)

/* =========================================================
   1) REQUEST DTO
   ========================================================= */

// Missing dates are derived from a 28-day window (see service.ResolveWindow).
type CreateCalendarRequest struct {
	Name       string       `json:"exam_calendar_name" validate:"required,max=120"`
	PeriodType string       `json:"exam_calendar_period_type" validate:"required,oneof=P1 P2 F1 F2"`
	StartDate  *dbtime.Date `json:"exam_calendar_start_date"`
	EndDate    *dbtime.Date `json:"exam_calendar_end_date"`
}

type UpdateCalendarRequest struct {
	Name       *string      `json:"exam_calendar_name" validate:"omitnil,min=1,max=120"`
	PeriodType *string      `json:"exam_calendar_period_type" validate:"omitempty,oneof=P1 P2 F1 F2"`
	StartDate  *dbtime.Date `json:"exam_calendar_start_date"`
	EndDate    *dbtime.Date `json:"exam_calendar_end_date"`
}

func (r *UpdateCalendarRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
}

// Apply updates only provided (non-nil) fields to model.
func (r UpdateCalendarRequest) Apply(m *calendarModel.ExamCalendarModel) {
	if r.Name != nil {
		m.ExamCalendarName = strings.TrimSpace(*r.Name)
	}
	if r.PeriodType != nil {
		m.ExamCalendarPeriodType = calendarModel.PeriodType(*r.PeriodType)
	}
	if r.StartDate != nil {
		m.ExamCalendarStartDate = *r.StartDate
	}
	if r.EndDate != nil {
		m.ExamCalendarEndDate = *r.EndDate
	}
}

type AssignmentRequest struct {
	SubjectID string  `json:"subject" validate:"required,uuid"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	EventID   *string `json:"event_id" validate:"omitempty,uuid"`
}

type ToggleBlockedDayRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Reason string `json:"reason" validate:"omitempty,max=120"`
}

/* =========================================================
   2) RESPONSE DTO
   ========================================================= */

type CalendarResponse struct {
	ID          uuid.UUID   `json:"exam_calendar_id"`
	Name        string      `json:"exam_calendar_name"`
	PeriodType  string      `json:"exam_calendar_period_type"`
	PeriodLabel string      `json:"exam_calendar_period_label"`
	StartDate   dbtime.Date `json:"exam_calendar_start_date"`
	EndDate     dbtime.Date `json:"exam_calendar_end_date"`
	CreatedBy   uuid.UUID   `json:"exam_calendar_created_by"`
	CreatedAt   time.Time   `json:"exam_calendar_created_at"`
	UpdatedAt   time.Time   `json:"exam_calendar_updated_at"`
}

type EventResponse struct {
	ID            uuid.UUID   `json:"exam_event_id"`
	SubjectID     uuid.UUID   `json:"exam_event_subject_id"`
	SubjectName   string      `json:"subject_name,omitempty"`
	SemesterGroup string      `json:"subject_semester_group,omitempty"`
	IsHeavy       bool        `json:"subject_is_heavy"`
	Date          dbtime.Date `json:"exam_event_date"`
	Weekday       string      `json:"weekday"`
}

type BlockedDayResponse struct {
	ID     uuid.UUID   `json:"blocked_day_id"`
	Date   dbtime.Date `json:"blocked_day_date"`
	Reason string      `json:"blocked_day_reason"`
}

type CalendarDetailResponse struct {
	CalendarResponse
	Events      []EventResponse      `json:"events"`
	BlockedDays []BlockedDayResponse `json:"blocked_days"`
}

/* =========================================================
   3) MAPPERS
   ========================================================= */

func FromCalendarModel(m calendarModel.ExamCalendarModel) CalendarResponse {
	return CalendarResponse{
		ID:          m.ExamCalendarID,
		Name:        m.ExamCalendarName,
		PeriodType:  string(m.ExamCalendarPeriodType),
		PeriodLabel: m.ExamCalendarPeriodType.Label(),
		StartDate:   m.ExamCalendarStartDate,
		EndDate:     m.ExamCalendarEndDate,
		CreatedBy:   m.ExamCalendarCreatedBy,
		CreatedAt:   m.ExamCalendarCreatedAt,
		UpdatedAt:   m.ExamCalendarUpdatedAt,
	}
}

func FromCalendarModels(ms []calendarModel.ExamCalendarModel) []CalendarResponse {
	out := make([]CalendarResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromCalendarModel(m))
	}
	return out
}

func FromEventModel(e calendarModel.ExamEventModel) EventResponse {
	r := EventResponse{
		ID:        e.ExamEventID,
		SubjectID: e.ExamEventSubjectID,
		Date:      e.ExamEventDate,
		Weekday:   dbtime.SpanishDayName(e.ExamEventDate),
	}
	if e.Subject != nil {
		r.SubjectName = e.Subject.SubjectName
		r.SemesterGroup = string(e.Subject.SubjectSemesterGroup)
		r.IsHeavy = e.Subject.SubjectIsHeavy
	}
	return r
}

func NewCalendarDetail(
	m calendarModel.ExamCalendarModel,
	events []calendarModel.ExamEventModel,
	blocked []calendarModel.CalendarBlockedDayModel,
) CalendarDetailResponse {
	out := CalendarDetailResponse{
		CalendarResponse: FromCalendarModel(m),
		Events:           make([]EventResponse, 0, len(events)),
		BlockedDays:      make([]BlockedDayResponse, 0, len(blocked)),
	}
	for _, e := range events {
		out.Events = append(out.Events, FromEventModel(e))
	}
	for _, b := range blocked {
		out.BlockedDays = append(out.BlockedDays, BlockedDayResponse{
			ID:     b.BlockedDayID,
			Date:   b.BlockedDayDate,
			Reason: b.BlockedDayReason,
		})
	}
	return out
}
