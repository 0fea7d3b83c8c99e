// internals/features/exams/rules/dto/rule_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	ruleModel "examplanner_backend/internals/features/exams/rules/model"
)

/* =========================================================
   1) REQUEST DTO
   ========================================================= */

type CreateRuleRequest struct {
	Kind       string          `json:"rule_kind" validate:"required,oneof=SAME_DAY PREFER_SAME_DAY FORBID_SAME_DAY HEAVY_NOT_SAME_DAY SUBJECT_ONLY_WEEKDAYS SUBJECT_ONLY_FIXED_DATES"`
	Severity   string          `json:"rule_severity" validate:"omitempty,oneof=HARD SOFT"`
	Global     bool            `json:"rule_global"`
	CalendarID *uuid.UUID      `json:"rule_calendar_id"`
	SubjectAID *uuid.UUID      `json:"rule_subject_a_id"`
	SubjectBID *uuid.UUID      `json:"rule_subject_b_id"`
	Params     json.RawMessage `json:"rule_params"`
	Enabled    *bool           `json:"rule_enabled"`
}

// Update (partial). Scope (global/calendar) is fixed at creation.
type UpdateRuleRequest struct {
	Kind       *string         `json:"rule_kind" validate:"omitempty,oneof=SAME_DAY PREFER_SAME_DAY FORBID_SAME_DAY HEAVY_NOT_SAME_DAY SUBJECT_ONLY_WEEKDAYS SUBJECT_ONLY_FIXED_DATES"`
	Severity   *string         `json:"rule_severity" validate:"omitempty,oneof=HARD SOFT"`
	SubjectAID *uuid.UUID      `json:"rule_subject_a_id"`
	SubjectBID *uuid.UUID      `json:"rule_subject_b_id"`
	Params     json.RawMessage `json:"rule_params"`
	Enabled    *bool           `json:"rule_enabled"`
}

type ListRuleQuery struct {
	CalendarID *string `query:"calendar_id" validate:"omitempty,uuid"`
	Enabled    *bool   `query:"enabled"`
	Kind       *string `query:"kind" validate:"omitempty,oneof=SAME_DAY PREFER_SAME_DAY FORBID_SAME_DAY HEAVY_NOT_SAME_DAY SUBJECT_ONLY_WEEKDAYS SUBJECT_ONLY_FIXED_DATES"`
}

func (r CreateRuleRequest) ToModel() ruleModel.RuleModel {
	m := ruleModel.RuleModel{
		RuleKind:       ruleModel.Kind(r.Kind),
		RuleSeverity:   ruleModel.Severity(r.Severity),
		RuleGlobal:     r.Global,
		RuleCalendarID: r.CalendarID,
		RuleSubjectAID: r.SubjectAID,
		RuleSubjectBID: r.SubjectBID,
		RuleParams:     paramsOrEmpty(r.Params),
		RuleEnabled:    true,
	}
	if m.RuleSeverity == "" {
		m.RuleSeverity = ruleModel.SeveritySoft
	}
	if r.Enabled != nil {
		m.RuleEnabled = *r.Enabled
	}
	return m
}

// Apply updates only provided (non-nil) fields to model.
func (r UpdateRuleRequest) Apply(m *ruleModel.RuleModel) {
	if r.Kind != nil {
		m.RuleKind = ruleModel.Kind(*r.Kind)
	}
	if r.Severity != nil {
		m.RuleSeverity = ruleModel.Severity(*r.Severity)
	}
	if r.SubjectAID != nil {
		m.RuleSubjectAID = r.SubjectAID
	}
	if r.SubjectBID != nil {
		m.RuleSubjectBID = r.SubjectBID
	}
	if r.Params != nil {
		m.RuleParams = paramsOrEmpty(r.Params)
	}
	if r.Enabled != nil {
		m.RuleEnabled = *r.Enabled
	}
}

func paramsOrEmpty(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

/* =========================================================
   2) RESPONSE DTO
   ========================================================= */

type SubjectBrief struct {
	ID   uuid.UUID `json:"subject_id"`
	Name string    `json:"subject_name"`
}

type RuleResponse struct {
	ID         uuid.UUID      `json:"rule_id"`
	Kind       string         `json:"rule_kind"`
	KindLabel  string         `json:"rule_kind_label"`
	Severity   string         `json:"rule_severity"`
	Global     bool           `json:"rule_global"`
	CalendarID *uuid.UUID     `json:"rule_calendar_id"`
	SubjectA   *SubjectBrief  `json:"rule_subject_a"`
	SubjectB   *SubjectBrief  `json:"rule_subject_b"`
	Params     datatypes.JSON `json:"rule_params"`
	Enabled    bool           `json:"rule_enabled"`
	CreatedAt  time.Time      `json:"rule_created_at"`
	UpdatedAt  time.Time      `json:"rule_updated_at"`
}

func FromRuleModel(m ruleModel.RuleModel) RuleResponse {
	out := RuleResponse{
		ID:         m.RuleID,
		Kind:       string(m.RuleKind),
		KindLabel:  m.RuleKind.Label(),
		Severity:   string(m.RuleSeverity),
		Global:     m.RuleGlobal,
		CalendarID: m.RuleCalendarID,
		Params:     m.RuleParams,
		Enabled:    m.RuleEnabled,
		CreatedAt:  m.RuleCreatedAt,
		UpdatedAt:  m.RuleUpdatedAt,
	}
	if m.RuleSubjectAID != nil {
		out.SubjectA = &SubjectBrief{ID: *m.RuleSubjectAID}
		if m.SubjectA != nil {
			out.SubjectA.Name = m.SubjectA.SubjectName
		}
	}
	if m.RuleSubjectBID != nil {
		out.SubjectB = &SubjectBrief{ID: *m.RuleSubjectBID}
		if m.SubjectB != nil {
			out.SubjectB.Name = m.SubjectB.SubjectName
		}
	}
	return out
}

func FromRuleModels(ms []ruleModel.RuleModel) []RuleResponse {
	out := make([]RuleResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromRuleModel(m))
	}
	return out
}
