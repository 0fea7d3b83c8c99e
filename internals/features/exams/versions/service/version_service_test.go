package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	calendarService "examplanner_backend/internals/features/exams/calendars/service"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	"examplanner_backend/internals/features/exams/store/storetest"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	"examplanner_backend/internals/helpers/dbtime"
)

type env struct {
	svc  *Service
	mem  *storetest.Memory
	cal  calendarModel.ExamCalendarModel
	user uuid.UUID
}

func newEnv() *env {
	mem := storetest.New()
	cal := mem.AddCalendar(calendarModel.ExamCalendarModel{
		ExamCalendarName:      "2026-1",
		ExamCalendarStartDate: dbtime.MustParseDate("2026-02-01"),
		ExamCalendarEndDate:   dbtime.MustParseDate("2026-02-28"),
	})
	return &env{svc: New(mem), mem: mem, cal: cal, user: uuid.New()}
}

func (e *env) calID() uuid.UUID { return e.cal.ExamCalendarID }

func TestSave_NumbersVersionsPerCalendar(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	other := e.mem.AddCalendar(calendarModel.ExamCalendarModel{ExamCalendarName: "otro"})

	v1, err := e.svc.Save(ctx, e.calID(), "primera", e.user)
	require.NoError(t, err)
	assert.Equal(t, 1, v1.CalendarVersionNumber)
	assert.Equal(t, "primera", v1.CalendarVersionLabel)
	assert.Equal(t, e.user, v1.CalendarVersionCreatedBy)

	v2, err := e.svc.Save(ctx, e.calID(), "", e.user)
	require.NoError(t, err)
	assert.Equal(t, 2, v2.CalendarVersionNumber)

	o1, err := e.svc.Save(ctx, other.ExamCalendarID, "", e.user)
	require.NoError(t, err)
	assert.Equal(t, 1, o1.CalendarVersionNumber)

	// numbering continues from the max, not the count
	require.NoError(t, e.svc.Delete(ctx, e.calID(), v1.CalendarVersionID))
	v3, err := e.svc.Save(ctx, e.calID(), "", e.user)
	require.NoError(t, err)
	assert.Equal(t, 3, v3.CalendarVersionNumber)

	_, err = e.svc.Save(ctx, uuid.New(), "", e.user)
	assert.ErrorIs(t, err, calendarService.ErrCalendarNotFound)
}

func TestSave_SnapshotsOnlyEnabledCalendarRules(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	a := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "A"})
	b := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "B"})
	otherCal := e.mem.AddCalendar(calendarModel.ExamCalendarModel{ExamCalendarName: "otro"})
	calID := e.calID()

	kept := e.mem.AddRule(ruleModel.RuleModel{
		RuleCalendarID: &calID,
		RuleKind:       ruleModel.KindSameDay,
		RuleSeverity:   ruleModel.SeverityHard,
		RuleSubjectAID: &a.SubjectID,
		RuleSubjectBID: &b.SubjectID,
		RuleParams:     datatypes.JSON(`{}`),
		RuleEnabled:    true,
	})
	e.mem.AddRule(ruleModel.RuleModel{RuleCalendarID: &calID, RuleKind: ruleModel.KindHeavyNotSameDay})
	e.mem.AddRule(ruleModel.RuleModel{RuleCalendarID: &otherCal.ExamCalendarID, RuleKind: ruleModel.KindHeavyNotSameDay, RuleEnabled: true})
	e.mem.AddRule(ruleModel.RuleModel{RuleGlobal: true, RuleKind: ruleModel.KindHeavyNotSameDay, RuleEnabled: true})

	e.mem.AddEvent(calID, b.SubjectID, dbtime.MustParseDate("2026-02-12"))
	e.mem.AddEvent(calID, a.SubjectID, dbtime.MustParseDate("2026-02-11"))
	e.mem.AddBlockedDay(calID, dbtime.MustParseDate("2026-02-10"), "Feriado")

	v, err := e.svc.Save(ctx, calID, "", e.user)
	require.NoError(t, err)
	snap := v.Snapshot()

	require.Len(t, snap.Rules, 1)
	r := snap.Rules[0]
	assert.Equal(t, kept.RuleID, r.ID)
	assert.Equal(t, ruleModel.KindSameDay, r.RuleType)
	assert.Equal(t, ruleModel.SeverityHard, r.Severity)
	assert.Equal(t, &a.SubjectID, r.SubjectAID)
	assert.Equal(t, &b.SubjectID, r.SubjectBID)
	assert.JSONEq(t, `{}`, string(r.Params))
	assert.False(t, r.GlobalRule)
	assert.True(t, r.Enabled)

	require.Len(t, snap.Events, 2)
	assert.Equal(t, a.SubjectID, snap.Events[0].SubjectID)
	assert.Equal(t, "2026-02-11", snap.Events[0].Date.String())
	require.Len(t, snap.BlockedDays, 1)
	assert.Equal(t, "Feriado", snap.BlockedDays[0].Reason)
}

func TestRestore_ThenSaveReproducesContent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	calID := e.calID()
	a := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "A"})
	b := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "B"})
	c := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "C"})

	e.mem.AddEvent(calID, a.SubjectID, dbtime.MustParseDate("2026-02-11"))
	e.mem.AddEvent(calID, b.SubjectID, dbtime.MustParseDate("2026-02-11"))
	e.mem.AddBlockedDay(calID, dbtime.MustParseDate("2026-02-10"), "")
	saved, err := e.svc.Save(ctx, calID, "base", e.user)
	require.NoError(t, err)

	// diverge
	e.mem.AddEvent(calID, a.SubjectID, dbtime.MustParseDate("2026-02-20"))
	e.mem.AddEvent(calID, c.SubjectID, dbtime.MustParseDate("2026-02-21"))
	_, err = e.mem.ToggleBlockedDay(ctx, calID, dbtime.MustParseDate("2026-02-10"), "")
	require.NoError(t, err)
	e.mem.AddRule(ruleModel.RuleModel{RuleCalendarID: &calID, RuleKind: ruleModel.KindHeavyNotSameDay, RuleEnabled: true})

	restored, err := e.svc.Restore(ctx, calID, saved.CalendarVersionID)
	require.NoError(t, err)
	assert.Equal(t, saved.CalendarVersionID, restored.CalendarVersionID)

	again, err := e.svc.Save(ctx, calID, "", e.user)
	require.NoError(t, err)

	want, got := saved.Snapshot(), again.Snapshot()
	assert.Equal(t, want.Events, got.Events)
	assert.Equal(t, want.BlockedDays, got.BlockedDays)
	// live rules survive a restore
	assert.Len(t, got.Rules, 1)
	assert.Empty(t, want.Rules)
}

func TestRestore_UnknownVersionDeletesNothing(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	calID := e.calID()
	a := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "A"})
	e.mem.AddEvent(calID, a.SubjectID, dbtime.MustParseDate("2026-02-11"))
	e.mem.AddBlockedDay(calID, dbtime.MustParseDate("2026-02-10"), "")

	other := e.mem.AddCalendar(calendarModel.ExamCalendarModel{ExamCalendarName: "otro"})
	foreign, err := e.svc.Save(ctx, other.ExamCalendarID, "", e.user)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{uuid.New(), foreign.CalendarVersionID} {
		_, err := e.svc.Restore(ctx, calID, id)
		assert.ErrorIs(t, err, ErrVersionNotFound)
	}

	assert.Equal(t, 1, e.mem.CountEvents(calID, nil))
	blocked, err := e.mem.IsBlocked(ctx, calID, dbtime.MustParseDate("2026-02-10"))
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestRestore_IsAllOrNothing(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	calID := e.calID()
	a := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "A"})
	v, err := e.svc.Save(ctx, calID, "vacío", e.user)
	require.NoError(t, err)
	e.mem.AddEvent(calID, a.SubjectID, dbtime.MustParseDate("2026-02-11"))

	boom := errors.New("write failed")
	e.mem.ReplaceErr = boom
	_, err = e.svc.Restore(ctx, calID, v.CalendarVersionID)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, e.mem.CountEvents(calID, nil))
}

func TestRestore_SkipsDeletedSubjects(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	calID := e.calID()
	a := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "A"})
	gone := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "Gone"})
	e.mem.AddEvent(calID, a.SubjectID, dbtime.MustParseDate("2026-02-11"))
	e.mem.AddEvent(calID, gone.SubjectID, dbtime.MustParseDate("2026-02-12"))
	v, err := e.svc.Save(ctx, calID, "", e.user)
	require.NoError(t, err)

	require.NoError(t, e.mem.DeleteEvent(ctx, calID, mustEventOf(t, e, gone.SubjectID)))
	require.NoError(t, e.mem.DeleteSubject(ctx, gone.SubjectID))

	_, err = e.svc.Restore(ctx, calID, v.CalendarVersionID)
	require.NoError(t, err)
	assert.Equal(t, 1, e.mem.CountEvents(calID, nil))
	assert.Equal(t, 1, e.mem.CountEvents(calID, &a.SubjectID))
}

func mustEventOf(t *testing.T, e *env, subjectID uuid.UUID) uuid.UUID {
	t.Helper()
	events, err := e.mem.ListEvents(context.Background(), e.calID())
	require.NoError(t, err)
	for _, ev := range events {
		if ev.ExamEventSubjectID == subjectID {
			return ev.ExamEventID
		}
	}
	t.Fatalf("no event for subject %s", subjectID)
	return uuid.Nil
}

func TestDelete_LeavesContentAlone(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	calID := e.calID()
	a := e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "A"})
	e.mem.AddEvent(calID, a.SubjectID, dbtime.MustParseDate("2026-02-11"))
	v, err := e.svc.Save(ctx, calID, "", e.user)
	require.NoError(t, err)

	require.NoError(t, e.svc.Delete(ctx, calID, v.CalendarVersionID))
	assert.ErrorIs(t, e.svc.Delete(ctx, calID, v.CalendarVersionID), ErrVersionNotFound)
	assert.Equal(t, 1, e.mem.CountEvents(calID, nil))
}
