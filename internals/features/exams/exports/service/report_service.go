// file: internals/features/exams/exports/service/report_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	calendarService "examplanner_backend/internals/features/exams/calendars/service"
	"examplanner_backend/internals/features/exams/store"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	versionService "examplanner_backend/internals/features/exams/versions/service"
	"examplanner_backend/internals/features/exams/versions/snapshot"
	helper "examplanner_backend/internals/helpers"
	"examplanner_backend/internals/helpers/dbtime"
)

const (
	ReportTitle         = "FIUNA - Planificador de Exámenes"
	DeletedSubjectLabel = "(materia eliminada)"
)

type Row struct {
	Date          dbtime.Date `json:"date"`
	Weekday       string      `json:"weekday"`
	SubjectID     uuid.UUID   `json:"subject_id"`
	SubjectName   string      `json:"subject_name"`
	SemesterGroup string      `json:"semester_group"`
	IsHeavy       bool        `json:"is_heavy"`
}

func (r Row) HeavyLabel() string {
	if r.IsHeavy {
		return "Sí"
	}
	return "No"
}

type DayGroup struct {
	Date          dbtime.Date `json:"date"`
	Weekday       string      `json:"weekday"`
	Subjects      []string    `json:"subjects"`
	Blocked       bool        `json:"blocked"`
	BlockedReason string      `json:"blocked_reason,omitempty"`
}

// Label: subjects joined, with " (reason)" on blocked dates.
func (g DayGroup) Label() string {
	s := strings.Join(g.Subjects, ", ")
	if g.Blocked {
		s += " (" + g.BlockedReason + ")"
	}
	return s
}

type SummaryRow struct {
	Date  dbtime.Date `json:"date"`
	Count int         `json:"count"`
}

type Report struct {
	CalendarID    uuid.UUID   `json:"calendar_id"`
	CalendarName  string      `json:"calendar_name"`
	PeriodType    string      `json:"period_type"`
	PeriodLabel   string      `json:"period_label"`
	StartDate     dbtime.Date `json:"start_date"`
	EndDate       dbtime.Date `json:"end_date"`
	VersionID     *uuid.UUID  `json:"version_id,omitempty"`
	VersionNumber *int        `json:"version_number,omitempty"`

	Rows    []Row        `json:"rows"`
	Days    []DayGroup   `json:"days"`
	Summary []SummaryRow `json:"summary"`
}

// FileName: "<calendar-slug>[-vN].<ext>".
func (r *Report) FileName(ext string) string {
	base := helper.Slugify(r.CalendarName, 60)
	if r.VersionNumber != nil {
		base = fmt.Sprintf("%s-v%d", base, *r.VersionNumber)
	}
	return base + "." + ext
}

type Service struct {
	Store store.Store
}

func New(st store.Store) *Service { return &Service{Store: st} }

// Build reads live content, or the given version's snapshot.
func (s *Service) Build(ctx context.Context, calendarID uuid.UUID, versionID *uuid.UUID) (*Report, error) {
	cal, err := s.Store.GetCalendar(ctx, calendarID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, calendarService.ErrCalendarNotFound
		}
		return nil, err
	}
	rep := &Report{
		CalendarID:   cal.ExamCalendarID,
		CalendarName: cal.ExamCalendarName,
		PeriodType:   string(cal.ExamCalendarPeriodType),
		PeriodLabel:  cal.ExamCalendarPeriodType.Label(),
		StartDate:    cal.ExamCalendarStartDate,
		EndDate:      cal.ExamCalendarEndDate,
	}

	var blocked map[string]string
	if versionID != nil {
		v, err := s.Store.GetVersion(ctx, calendarID, *versionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, versionService.ErrVersionNotFound
			}
			return nil, err
		}
		snap := v.Snapshot()
		ids := make([]uuid.UUID, 0, len(snap.Events))
		for _, e := range snap.Events {
			ids = append(ids, e.SubjectID)
		}
		subjects, err := s.Store.SubjectsByID(ctx, ids)
		if err != nil {
			return nil, err
		}
		rep.VersionID = &v.CalendarVersionID
		n := v.CalendarVersionNumber
		rep.VersionNumber = &n
		rep.Rows = RowsFromSnapshot(snap.Events, subjects)
		blocked = snap.BlockedReasons()
	} else {
		events, err := s.Store.ListEvents(ctx, calendarID)
		if err != nil {
			return nil, err
		}
		days, err := s.Store.ListBlockedDays(ctx, calendarID)
		if err != nil {
			return nil, err
		}
		rep.Rows = RowsFromEvents(events)
		blocked = make(map[string]string, len(days))
		for _, b := range days {
			blocked[b.BlockedDayDate.String()] = b.BlockedDayReason
		}
	}

	rep.Days = GroupByDay(rep.Rows, blocked)
	rep.Summary = Summarize(rep.Rows)
	return rep, nil
}

func newRow(day dbtime.Date, subjectID uuid.UUID, sub *subjectModel.SubjectModel) Row {
	r := Row{
		Date:        day,
		Weekday:     dbtime.SpanishDayName(day),
		SubjectID:   subjectID,
		SubjectName: DeletedSubjectLabel,
	}
	if sub != nil {
		r.SubjectName = sub.SubjectName
		r.SemesterGroup = string(sub.SubjectSemesterGroup)
		r.IsHeavy = sub.SubjectIsHeavy
	}
	return r
}

func RowsFromEvents(events []calendarModel.ExamEventModel) []Row {
	rows := make([]Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, newRow(e.ExamEventDate, e.ExamEventSubjectID, e.Subject))
	}
	SortRows(rows)
	return rows
}

func RowsFromSnapshot(events []snapshot.Event, subjects map[uuid.UUID]subjectModel.SubjectModel) []Row {
	rows := make([]Row, 0, len(events))
	for _, e := range events {
		var sub *subjectModel.SubjectModel
		if s, ok := subjects[e.SubjectID]; ok {
			sub = &s
		}
		rows = append(rows, newRow(e.Date, e.SubjectID, sub))
	}
	SortRows(rows)
	return rows
}

// SortRows orders by date, then subject name.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].SubjectName < rows[j].SubjectName
	})
}

// GroupByDay expects sorted rows. Only dates with at least one exam appear.
func GroupByDay(rows []Row, blocked map[string]string) []DayGroup {
	out := []DayGroup{}
	for _, r := range rows {
		if n := len(out); n > 0 && out[n-1].Date.Equal(r.Date) {
			out[n-1].Subjects = append(out[n-1].Subjects, r.SubjectName)
			continue
		}
		g := DayGroup{Date: r.Date, Weekday: r.Weekday, Subjects: []string{r.SubjectName}}
		if reason, ok := blocked[r.Date.String()]; ok {
			g.Blocked = true
			g.BlockedReason = reason
		}
		out = append(out, g)
	}
	return out
}

func Summarize(rows []Row) []SummaryRow {
	counts := map[string]int{}
	dates := map[string]dbtime.Date{}
	for _, r := range rows {
		k := r.Date.String()
		counts[k]++
		dates[k] = r.Date
	}
	out := make([]SummaryRow, 0, len(counts))
	for k, n := range counts {
		out = append(out, SummaryRow{Date: dates[k], Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
