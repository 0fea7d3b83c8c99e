package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	"examplanner_backend/internals/features/exams/store"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	"examplanner_backend/internals/helpers/dbtime"
)

var (
	propStart = dbtime.MustParseDate("2026-02-01")
	propEnd   = dbtime.MustParseDate("2026-02-28")
)

func propCalendar() *calendarModel.ExamCalendarModel {
	return &calendarModel.ExamCalendarModel{
		ExamCalendarID:        uuid.New(),
		ExamCalendarStartDate: propStart,
		ExamCalendarEndDate:   propEnd,
	}
}

func propSubject(name string, heavy bool) *subjectModel.SubjectModel {
	return &subjectModel.SubjectModel{SubjectID: uuid.New(), SubjectName: name, SubjectIsHeavy: heavy}
}

func ref(s *subjectModel.SubjectModel) *SubjectRef {
	return &SubjectRef{ID: s.SubjectID, Name: s.SubjectName}
}

func propParams() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func TestProperty_OutsideWindowIsHard(t *testing.T) {
	properties := propParams()

	properties.Property("dates outside the calendar range are rejected as hard", prop.ForAll(
		func(offset int, after bool, heavy bool) bool {
			day := propStart.AddDays(-offset)
			if after {
				day = propEnd.AddDays(offset)
			}
			v := Evaluate(Input{Calendar: propCalendar(), Subject: propSubject("X", heavy), Date: day}, Facts{
				Rules: []Rule{HeavyNotSameDay{}},
			})
			return !v.IsValid && v.IsHard() &&
				strings.Contains(v.Message, "fuera del rango")
		},
		gen.IntRange(1, 400),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_SundayIsHard(t *testing.T) {
	properties := propParams()
	firstSunday := dbtime.MustParseDate("2026-02-01")

	properties.Property("sundays are rejected as hard whatever the rules say", prop.ForAll(
		func(week int, soft bool) bool {
			day := firstSunday.AddDays(7 * week)
			a := propSubject("A", true)
			b := propSubject("B", true)
			sev := ruleModel.SeverityHard
			if soft {
				sev = ruleModel.SeveritySoft
			}
			v := Evaluate(Input{Calendar: propCalendar(), Subject: a, Date: day}, Facts{
				Nearby: []store.PlacedEvent{{EventID: uuid.New(), SubjectID: b.SubjectID, Date: day, IsHeavy: true}},
				Rules: []Rule{
					SameDay{Severity: sev, pair: pair{A: ref(a), B: ref(b)}},
					HeavyNotSameDay{},
				},
			})
			return !v.IsValid && v.IsHard() &&
				strings.Contains(v.Message, "domingos")
		},
		gen.IntRange(-30, 30),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_OwnPlacementNeverConflicts(t *testing.T) {
	properties := propParams()

	properties.Property("an event never conflicts with itself", prop.ForAll(
		func(offset int, excluded bool) bool {
			day := propStart.AddDays(offset)
			a := propSubject("A", true)
			own := store.PlacedEvent{EventID: uuid.New(), SubjectID: a.SubjectID, Date: day, IsHeavy: true}
			in := Input{Calendar: propCalendar(), Subject: a, Date: day}
			if excluded {
				in.ExcludeEventID = &own.EventID
			}
			v := Evaluate(in, Facts{
				Nearby: []store.PlacedEvent{own},
				Rules: []Rule{
					HeavyNotSameDay{},
					PreferSameDay{pair: pair{A: ref(a), B: ref(a)}},
					SameDay{Severity: ruleModel.SeverityHard, pair: pair{A: ref(a), B: ref(a)}},
				},
			})
			return v.IsValid && v.Severity == nil
		},
		gen.IntRange(0, 27).SuchThat(func(o int) bool {
			return propStart.AddDays(o).WeekdayName() != "Sunday"
		}),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_DuplicateConflictsListedOnce(t *testing.T) {
	properties := propParams()
	day := dbtime.MustParseDate("2026-02-10")

	properties.Property("identical conflicts from several rules collapse into one", prop.ForAll(
		func(copies int) bool {
			a := propSubject("A", true)
			facts := Facts{
				Nearby: []store.PlacedEvent{{EventID: uuid.New(), SubjectID: uuid.New(), Date: day, IsHeavy: true}},
			}
			for i := 0; i < copies; i++ {
				facts.Rules = append(facts.Rules, HeavyNotSameDay{})
			}
			v := Evaluate(Input{Calendar: propCalendar(), Subject: a, Date: day}, facts)
			return v.IsValid && v.IsSoft() &&
				strings.Count(v.Message, "mismo día") == 1
		},
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}

func TestProperty_SoftRulesNeverReject(t *testing.T) {
	properties := propParams()

	properties.Property("adding the heavy spacing rule never changes acceptance", prop.ForAll(
		func(offset, neighbour int, heavy bool) bool {
			day := propStart.AddDays(offset)
			a := propSubject("A", heavy)
			in := Input{Calendar: propCalendar(), Subject: a, Date: day}
			facts := Facts{
				Nearby: []store.PlacedEvent{{EventID: uuid.New(), SubjectID: uuid.New(), Date: day.AddDays(neighbour), IsHeavy: true}},
			}
			before := Evaluate(in, facts)
			facts.Rules = []Rule{HeavyNotSameDay{}}
			after := Evaluate(in, facts)
			return before.IsValid == after.IsValid
		},
		gen.IntRange(-5, 32),
		gen.IntRange(-1, 1),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
