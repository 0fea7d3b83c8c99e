// file: internals/features/exams/validation/kinds.go
package validation

import (
	"fmt"

	"github.com/google/uuid"

	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	"examplanner_backend/internals/helpers/dbtime"
)

// Rule is the closed set of evaluable rule variants. The unexported method
// keeps new kinds inside this package, next to their evaluation.
type Rule interface {
	Kind() ruleModel.Kind
	evaluate(in *placement, out *conflicts)
}

// SubjectRef is the part of a subject a rule message needs.
type SubjectRef struct {
	ID   uuid.UUID
	Name string
}

// pair links two subjects. It is inert when either side is missing or both
// sides are the same subject.
type pair struct {
	A *SubjectRef
	B *SubjectRef
}

func (p pair) counterpart(subjectID uuid.UUID) (SubjectRef, bool) {
	if p.A == nil || p.B == nil || p.A.ID == p.B.ID {
		return SubjectRef{}, false
	}
	switch subjectID {
	case p.A.ID:
		return *p.B, true
	case p.B.ID:
		return *p.A, true
	}
	return SubjectRef{}, false
}

/* =========================
   Variants
   ========================= */

// SameDay: both subjects must share a date.
type SameDay struct {
	Severity ruleModel.Severity
	pair
}

func (SameDay) Kind() ruleModel.Kind { return ruleModel.KindSameDay }

func (r SameDay) evaluate(in *placement, out *conflicts) {
	other, ok := r.counterpart(in.subject.ID)
	if !ok || in.hasSubjectOn(other.ID, in.date) {
		return
	}
	out.add(r.Severity, fmt.Sprintf("Regla SAME_DAY: %s debe rendirse junto a %s.", in.subject.Name, other.Name))
}

// PreferSameDay: like SameDay but always advisory.
type PreferSameDay struct {
	pair
}

func (PreferSameDay) Kind() ruleModel.Kind { return ruleModel.KindPreferSameDay }

func (r PreferSameDay) evaluate(in *placement, out *conflicts) {
	other, ok := r.counterpart(in.subject.ID)
	if !ok || in.hasSubjectOn(other.ID, in.date) {
		return
	}
	out.softf(fmt.Sprintf("Preferencia: %s idealmente coincide con %s.", in.subject.Name, other.Name))
}

// ForbidSameDay is declared but evaluates nothing yet.
type ForbidSameDay struct {
	Severity ruleModel.Severity
	pair
}

func (ForbidSameDay) Kind() ruleModel.Kind            { return ruleModel.KindForbidSameDay }
func (ForbidSameDay) evaluate(*placement, *conflicts) {}

// HeavyNotSameDay: spacing advice between heavy subjects, always SOFT.
type HeavyNotSameDay struct{}

func (HeavyNotSameDay) Kind() ruleModel.Kind { return ruleModel.KindHeavyNotSameDay }

func (HeavyNotSameDay) evaluate(in *placement, out *conflicts) {
	if !in.subject.IsHeavy {
		return
	}
	if in.heavyOn(in.date) {
		out.softf("Hay más de una materia pesada en el mismo día.")
	}
	if in.heavyOn(in.date.AddDays(-1)) || in.heavyOn(in.date.AddDays(1)) {
		out.softf("Hay otra materia pesada con solo 1 día de separación.")
	}
}

// SubjectOnlyWeekdays restricts its primary subject to the listed weekdays.
type SubjectOnlyWeekdays struct {
	Severity ruleModel.Severity
	Subject  *SubjectRef
	Params   ruleModel.WeekdaysParams
}

func (SubjectOnlyWeekdays) Kind() ruleModel.Kind { return ruleModel.KindSubjectOnlyWeekdays }

func (r SubjectOnlyWeekdays) evaluate(in *placement, out *conflicts) {
	if r.Subject == nil || r.Subject.ID != in.subject.ID || r.Params.Allows(in.date) {
		return
	}
	out.add(r.Severity, fmt.Sprintf("Regla SUBJECT_ONLY_WEEKDAYS: %s solo puede rendirse en: %s.",
		in.subject.Name, dbtime.LocalizeWeekdays(r.Params.Weekdays)))
}

// SubjectOnlyFixedDates is declared but evaluates nothing yet.
type SubjectOnlyFixedDates struct {
	Severity ruleModel.Severity
	Subject  *SubjectRef
}

func (SubjectOnlyFixedDates) Kind() ruleModel.Kind            { return ruleModel.KindSubjectOnlyFixedDates }
func (SubjectOnlyFixedDates) evaluate(*placement, *conflicts) {}

/* =========================
   Decoding
   ========================= */

// FromModel turns a stored rule into its variant, decoding the param bag.
func FromModel(m ruleModel.RuleModel) (Rule, error) {
	sev := m.RuleSeverity
	if sev == "" {
		sev = ruleModel.SeveritySoft
	}
	p := pair{
		A: subjectRef(m.RuleSubjectAID, m.SubjectA),
		B: subjectRef(m.RuleSubjectBID, m.SubjectB),
	}

	switch m.RuleKind {
	case ruleModel.KindSameDay:
		return SameDay{Severity: sev, pair: p}, nil
	case ruleModel.KindPreferSameDay:
		return PreferSameDay{pair: p}, nil
	case ruleModel.KindForbidSameDay:
		return ForbidSameDay{Severity: sev, pair: p}, nil
	case ruleModel.KindHeavyNotSameDay:
		return HeavyNotSameDay{}, nil
	case ruleModel.KindSubjectOnlyWeekdays:
		raw, err := ruleModel.DecodeParams(m.RuleKind, m.RuleParams)
		if err != nil {
			return nil, err
		}
		return SubjectOnlyWeekdays{Severity: sev, Subject: p.A, Params: raw.(ruleModel.WeekdaysParams)}, nil
	case ruleModel.KindSubjectOnlyFixedDates:
		return SubjectOnlyFixedDates{Severity: sev, Subject: p.A}, nil
	}
	return nil, fmt.Errorf("unknown rule kind %q", m.RuleKind)
}

func subjectRef(id *uuid.UUID, loaded *subjectModel.SubjectModel) *SubjectRef {
	if id == nil {
		return nil
	}
	ref := &SubjectRef{ID: *id, Name: id.String()}
	if loaded != nil && loaded.SubjectName != "" {
		ref.Name = loaded.SubjectName
	}
	return ref
}
