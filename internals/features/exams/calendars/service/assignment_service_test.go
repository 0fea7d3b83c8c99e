package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	"examplanner_backend/internals/features/exams/store/storetest"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	"examplanner_backend/internals/features/exams/validation"
	"examplanner_backend/internals/helpers/dbtime"
)

type env struct {
	svc *Service
	mem *storetest.Memory
	cal calendarModel.ExamCalendarModel
}

func newEnv() *env {
	mem := storetest.New()
	cal := mem.AddCalendar(calendarModel.ExamCalendarModel{
		ExamCalendarName:      "2026-1",
		ExamCalendarStartDate: dbtime.MustParseDate("2026-02-01"),
		ExamCalendarEndDate:   dbtime.MustParseDate("2026-02-28"),
	})
	return &env{svc: New(mem), mem: mem, cal: cal}
}

func (e *env) place(subjectID uuid.UUID, date string, eventID *uuid.UUID) Placement {
	return Placement{
		CalendarID: e.cal.ExamCalendarID,
		SubjectID:  subjectID,
		Date:       dbtime.MustParseDate(date),
		EventID:    eventID,
	}
}

func TestAssign_IsIdempotentPerSubject(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	sub := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "Cálculo I"})

	first, err := e.svc.Assign(ctx, e.place(sub.SubjectID, "2026-02-12", nil))
	require.NoError(t, err)
	require.NotNil(t, first.Event)

	second, err := e.svc.Assign(ctx, e.place(sub.SubjectID, "2026-02-12", nil))
	require.NoError(t, err)
	require.NotNil(t, second.Event)

	assert.Equal(t, first.Event.ExamEventID, second.Event.ExamEventID)
	assert.Equal(t, 1, e.mem.CountEvents(e.cal.ExamCalendarID, &sub.SubjectID))

	// placing again elsewhere moves it
	third, err := e.svc.Assign(ctx, e.place(sub.SubjectID, "2026-02-16", nil))
	require.NoError(t, err)
	assert.Equal(t, first.Event.ExamEventID, third.Event.ExamEventID)
	assert.Equal(t, "2026-02-16", third.Event.ExamEventDate.String())
	assert.Equal(t, 1, e.mem.CountEvents(e.cal.ExamCalendarID, nil))
}

func TestAssign_MovesExistingEvent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	sub := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "Física", SubjectIsHeavy: true})
	ev := e.mem.AddEvent(e.cal.ExamCalendarID, sub.SubjectID, dbtime.MustParseDate("2026-02-12"))

	res, err := e.svc.Assign(ctx, e.place(sub.SubjectID, "2026-02-13", &ev.ExamEventID))
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.Equal(t, ev.ExamEventID, res.Event.ExamEventID)

	stored, err := e.mem.GetEvent(ctx, e.cal.ExamCalendarID, ev.ExamEventID)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-13", stored.ExamEventDate.String())
}

func TestAssign_HardVerdictDoesNotWrite(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	sub := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "Cálculo I"})
	ev := e.mem.AddEvent(e.cal.ExamCalendarID, sub.SubjectID, dbtime.MustParseDate("2026-02-12"))

	res, err := e.svc.Assign(ctx, e.place(sub.SubjectID, "2026-02-08", &ev.ExamEventID))
	require.NoError(t, err)
	assert.Nil(t, res.Event)
	assert.False(t, res.Verdict.IsValid)
	assert.Equal(t, "No se permiten exámenes los domingos.", res.Verdict.Message)

	stored, err := e.mem.GetEvent(ctx, e.cal.ExamCalendarID, ev.ExamEventID)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-12", stored.ExamEventDate.String())
}

func TestAssign_SoftVerdictWritesWithWarning(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	h1 := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "Cálculo I", SubjectIsHeavy: true})
	h2 := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "Álgebra Lineal", SubjectIsHeavy: true})
	e.mem.AddRule(ruleModel.RuleModel{RuleGlobal: true, RuleKind: ruleModel.KindHeavyNotSameDay, RuleEnabled: true})
	e.mem.AddEvent(e.cal.ExamCalendarID, h1.SubjectID, dbtime.MustParseDate("2026-02-05"))

	res, err := e.svc.Assign(ctx, e.place(h2.SubjectID, "2026-02-06", nil))
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.True(t, res.Verdict.IsSoft())
	assert.Contains(t, res.Verdict.Message, "1 día de separación")
	assert.Equal(t, 2, e.mem.CountEvents(e.cal.ExamCalendarID, nil))
}

func TestAssign_ResolutionErrors(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	a := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "A"})
	b := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "B"})
	evB := e.mem.AddEvent(e.cal.ExamCalendarID, b.SubjectID, dbtime.MustParseDate("2026-02-12"))
	missing := uuid.New()

	_, err := e.svc.Assign(ctx, Placement{CalendarID: uuid.New(), SubjectID: a.SubjectID, Date: dbtime.MustParseDate("2026-02-12")})
	assert.ErrorIs(t, err, ErrCalendarNotFound)

	_, err = e.svc.Assign(ctx, e.place(uuid.New(), "2026-02-12", nil))
	assert.ErrorIs(t, err, ErrSubjectNotFound)

	_, err = e.svc.Assign(ctx, e.place(a.SubjectID, "2026-02-12", &missing))
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = e.svc.Assign(ctx, e.place(a.SubjectID, "2026-02-12", &evB.ExamEventID))
	assert.ErrorIs(t, err, ErrEventSubjectMismatch)

	assert.Equal(t, 1, e.mem.CountEvents(e.cal.ExamCalendarID, nil))
}

func TestValidate_DoesNotWrite(t *testing.T) {
	e := newEnv()
	sub := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "A"})

	v, err := e.svc.Validate(context.Background(), e.place(sub.SubjectID, "2026-02-12", nil))
	require.NoError(t, err)
	assert.Equal(t, validation.Verdict{IsValid: true, Message: validation.MessageOK}, v)
	assert.Zero(t, e.mem.CountEvents(e.cal.ExamCalendarID, nil))
}

func TestToggleBlockedDay(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	day := dbtime.MustParseDate("2026-02-10")

	blocked, err := e.svc.ToggleBlockedDay(ctx, e.cal.ExamCalendarID, day, "")
	require.NoError(t, err)
	assert.True(t, blocked)

	list, err := e.mem.ListBlockedDays(ctx, e.cal.ExamCalendarID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, calendarModel.DefaultBlockedReason, list[0].BlockedDayReason)

	blocked, err = e.svc.ToggleBlockedDay(ctx, e.cal.ExamCalendarID, day, "")
	require.NoError(t, err)
	assert.False(t, blocked)

	_, err = e.svc.ToggleBlockedDay(ctx, uuid.New(), day, "")
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}

func TestRemoveEvent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	sub := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "A"})
	ev := e.mem.AddEvent(e.cal.ExamCalendarID, sub.SubjectID, dbtime.MustParseDate("2026-02-12"))

	require.NoError(t, e.svc.RemoveEvent(ctx, e.cal.ExamCalendarID, ev.ExamEventID))
	assert.ErrorIs(t, e.svc.RemoveEvent(ctx, e.cal.ExamCalendarID, ev.ExamEventID), ErrEventNotFound)
}
