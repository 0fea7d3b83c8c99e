package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	ruleModel "examplanner_backend/internals/features/exams/rules/model"
)

func calendarRule(kind ruleModel.Kind) ruleModel.RuleModel {
	cal := uuid.New()
	return ruleModel.RuleModel{
		RuleKind:       kind,
		RuleSeverity:   ruleModel.SeveritySoft,
		RuleCalendarID: &cal,
		RuleParams:     datatypes.JSON("{}"),
	}
}

func TestCheck_Scope(t *testing.T) {
	r := calendarRule(ruleModel.KindHeavyNotSameDay)
	assert.Empty(t, Check(r))

	r.RuleGlobal = true
	assert.Contains(t, Check(r), "rule_calendar_id")

	r.RuleCalendarID = nil
	assert.Empty(t, Check(r))

	r.RuleGlobal = false
	assert.Contains(t, Check(r), "rule_calendar_id")
}

func TestCheck_PairWithMissingSideIsStorable(t *testing.T) {
	r := calendarRule(ruleModel.KindSameDay)
	a := uuid.New()
	r.RuleSubjectAID = &a
	assert.Empty(t, Check(r))
}

func TestCheck_WeekdaysParams(t *testing.T) {
	a := uuid.New()
	cases := []struct {
		name   string
		params string
		ok     bool
	}{
		{"list", `{"weekdays":["Monday","Friday"]}`, true},
		{"bare string", `{"weekdays":"Wednesday"}`, true},
		{"empty bag", `{}`, false},
		{"spanish name", `{"weekdays":["Lunes"]}`, false},
		{"wrong type", `{"weekdays":3}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := calendarRule(ruleModel.KindSubjectOnlyWeekdays)
			r.RuleSubjectAID = &a
			r.RuleParams = datatypes.JSON(tc.params)
			errs := Check(r)
			if tc.ok {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, "rule_params")
			}
		})
	}
}

func TestCheck_SubjectRulesNeedSubject(t *testing.T) {
	r := calendarRule(ruleModel.KindSubjectOnlyFixedDates)
	assert.Contains(t, Check(r), "rule_subject_a_id")
}

func TestCheck_UnknownKindAndSeverity(t *testing.T) {
	r := calendarRule("NOPE")
	r.RuleSeverity = "MEDIUM"
	errs := Check(r)
	assert.Contains(t, errs, "rule_kind")
	assert.Contains(t, errs, "rule_severity")
	assert.NotContains(t, errs, "rule_params")
}
