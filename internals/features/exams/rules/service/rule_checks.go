// internals/features/exams/rules/service/rule_checks.go
package service

import (
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
)

// Check returns per-field problems of a rule about to be stored, keyed by JSON
// field name. An empty map means the rule is storable. Pair rules with a missing
// side are storable and simply never fire.
func Check(m ruleModel.RuleModel) map[string][]string {
	errs := map[string][]string{}
	add := func(field, msg string) { errs[field] = append(errs[field], msg) }

	if !m.RuleKind.Valid() {
		add("rule_kind", "tipo de regla desconocido")
	}
	if m.RuleSeverity != "" && !m.RuleSeverity.Valid() {
		add("rule_severity", "debe ser HARD o SOFT")
	}

	switch {
	case m.RuleGlobal && m.RuleCalendarID != nil:
		add("rule_calendar_id", "una regla global no puede pertenecer a un calendario")
	case !m.RuleGlobal && m.RuleCalendarID == nil:
		add("rule_calendar_id", "es obligatorio para reglas no globales")
	}

	switch m.RuleKind {
	case ruleModel.KindSubjectOnlyWeekdays, ruleModel.KindSubjectOnlyFixedDates:
		if m.RuleSubjectAID == nil {
			add("rule_subject_a_id", "es obligatorio para este tipo de regla")
		}
	}

	if m.RuleKind.Valid() {
		if _, err := ruleModel.DecodeParams(m.RuleKind, m.RuleParams); err != nil {
			add("rule_params", err.Error())
		}
	}
	return errs
}
