package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	"examplanner_backend/internals/features/exams/store/storetest"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	versionService "examplanner_backend/internals/features/exams/versions/service"
	"examplanner_backend/internals/helpers/dbtime"
)

type env struct {
	mem *storetest.Memory
	cal calendarModel.ExamCalendarModel
	svc *Service
}

func newEnv() *env {
	mem := storetest.New()
	cal := mem.AddCalendar(calendarModel.ExamCalendarModel{
		ExamCalendarName:       "2026-1",
		ExamCalendarPeriodType: calendarModel.PeriodP1,
		ExamCalendarStartDate:  dbtime.MustParseDate("2026-02-01"),
		ExamCalendarEndDate:    dbtime.MustParseDate("2026-02-28"),
	})
	return &env{mem: mem, cal: cal, svc: New(mem)}
}

func (e *env) seed() (zeta, alfa, beta subjectModel.SubjectModel) {
	id := e.cal.ExamCalendarID
	zeta = e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "Zeta", SubjectSemesterGroup: subjectModel.SemesterGroupSEM4, SubjectIsHeavy: true})
	alfa = e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "Alfa", SubjectSemesterGroup: subjectModel.SemesterGroupSEM2})
	beta = e.mem.AddSubject(subjectModel.SubjectModel{SubjectName: "Beta", SubjectSemesterGroup: subjectModel.SemesterGroupExtra})
	e.mem.AddEvent(id, zeta.SubjectID, dbtime.MustParseDate("2026-02-10"))
	e.mem.AddEvent(id, alfa.SubjectID, dbtime.MustParseDate("2026-02-10"))
	e.mem.AddEvent(id, beta.SubjectID, dbtime.MustParseDate("2026-02-03"))
	e.mem.AddBlockedDay(id, dbtime.MustParseDate("2026-02-10"), "Feriado")
	e.mem.AddBlockedDay(id, dbtime.MustParseDate("2026-02-20"), "")
	return
}

func TestBuild_LiveGroupsByDateThenName(t *testing.T) {
	e := newEnv()
	e.seed()

	rep, err := e.svc.Build(context.Background(), e.cal.ExamCalendarID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Parcial 1", rep.PeriodLabel)
	assert.Nil(t, rep.VersionNumber)

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, []string{"Beta", "Alfa", "Zeta"},
		[]string{rep.Rows[0].SubjectName, rep.Rows[1].SubjectName, rep.Rows[2].SubjectName})
	assert.Equal(t, "Martes", rep.Rows[0].Weekday)
	assert.Equal(t, "Sí", rep.Rows[2].HeavyLabel())
	assert.Equal(t, "SEM4", rep.Rows[2].SemesterGroup)

	// blocked dates without exams are not listed
	require.Len(t, rep.Days, 2)
	assert.Equal(t, "Beta", rep.Days[0].Label())
	assert.False(t, rep.Days[0].Blocked)
	assert.Equal(t, "Alfa, Zeta (Feriado)", rep.Days[1].Label())

	require.Len(t, rep.Summary, 2)
	assert.Equal(t, "2026-02-03", rep.Summary[0].Date.String())
	assert.Equal(t, 1, rep.Summary[0].Count)
	assert.Equal(t, 2, rep.Summary[1].Count)

	assert.Equal(t, "2026-1.xlsx", rep.FileName("xlsx"))
}

func TestBuild_FromVersionSnapshot(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	_, alfa, beta := e.seed()

	v, err := versionService.New(e.mem).Save(ctx, e.cal.ExamCalendarID, "", uuid.New())
	require.NoError(t, err)

	// live changes after the save do not leak into the version report
	e.mem.AddEvent(e.cal.ExamCalendarID, alfa.SubjectID, dbtime.MustParseDate("2026-02-25"))
	require.NoError(t, e.mem.DeleteEvent(ctx, e.cal.ExamCalendarID, eventOf(t, e, beta.SubjectID)))
	require.NoError(t, e.mem.DeleteSubject(ctx, beta.SubjectID))

	rep, err := e.svc.Build(ctx, e.cal.ExamCalendarID, &v.CalendarVersionID)
	require.NoError(t, err)
	require.NotNil(t, rep.VersionNumber)
	assert.Equal(t, 1, *rep.VersionNumber)
	assert.Equal(t, "2026-1-v1.pdf", rep.FileName("pdf"))

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, DeletedSubjectLabel, rep.Rows[0].SubjectName)
	assert.Equal(t, "2026-02-10", rep.Rows[1].Date.String())
	assert.Equal(t, "Alfa", rep.Rows[1].SubjectName)
	assert.Equal(t, "Alfa, Zeta (Feriado)", rep.Days[1].Label())

	missing := uuid.New()
	_, err = e.svc.Build(ctx, e.cal.ExamCalendarID, &missing)
	assert.ErrorIs(t, err, versionService.ErrVersionNotFound)
}

func eventOf(t *testing.T, e *env, subjectID uuid.UUID) uuid.UUID {
	t.Helper()
	events, err := e.mem.ListEvents(context.Background(), e.cal.ExamCalendarID)
	require.NoError(t, err)
	for _, ev := range events {
		if ev.ExamEventSubjectID == subjectID {
			return ev.ExamEventID
		}
	}
	t.Fatalf("no event for %s", subjectID)
	return uuid.Nil
}

func TestWriteExcel(t *testing.T) {
	e := newEnv()
	e.seed()
	rep, err := e.svc.Build(context.Background(), e.cal.ExamCalendarID, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetExams, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetExams)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, examHeaders, rows[0])
	assert.Equal(t, []string{"Parcial 1", "2026-1", "2026-02-03", "Martes", "Beta", "EXTRA", "No"}, rows[1])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Fecha", "Cantidad"}, {"2026-02-03", "1"}, {"2026-02-10", "2"}}, summary)
}

func TestWritePDF(t *testing.T) {
	e := newEnv()
	e.seed()
	rep, err := e.svc.Build(context.Background(), e.cal.ExamCalendarID, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, rep))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestBuild_UnknownCalendar(t *testing.T) {
	e := newEnv()
	_, err := e.svc.Build(context.Background(), uuid.New(), nil)
	assert.Error(t, err)
}
