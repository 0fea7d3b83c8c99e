// file: internals/features/exams/rules/model/rule_model.go
package model

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
)

type Kind string

const (
	KindSameDay               Kind = "SAME_DAY"
	KindPreferSameDay         Kind = "PREFER_SAME_DAY"
	KindForbidSameDay         Kind = "FORBID_SAME_DAY"
	KindHeavyNotSameDay       Kind = "HEAVY_NOT_SAME_DAY"
	KindSubjectOnlyWeekdays   Kind = "SUBJECT_ONLY_WEEKDAYS"
	KindSubjectOnlyFixedDates Kind = "SUBJECT_ONLY_FIXED_DATES"
)

var kindLabels = map[Kind]string{
	KindSameDay:               "Mismo día",
	KindPreferSameDay:         "Preferir mismo día",
	KindForbidSameDay:         "Prohibir mismo día",
	KindHeavyNotSameDay:       "Pesadas no mismo día",
	KindSubjectOnlyWeekdays:   "Solo días permitidos",
	KindSubjectOnlyFixedDates: "Solo fechas fijas",
}

func (k Kind) Valid() bool { _, ok := kindLabels[k]; return ok }
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// IsPair: kinds that link two subjects (inert unless both are set).
func (k Kind) IsPair() bool {
	return k == KindSameDay || k == KindPreferSameDay || k == KindForbidSameDay
}

type Severity string

const (
	SeverityHard Severity = "HARD"
	SeveritySoft Severity = "SOFT"
)

func (s Severity) Valid() bool { return s == SeverityHard || s == SeveritySoft }

type RuleModel struct {
	RuleID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:rule_id" json:"rule_id"`
	RuleCalendarID *uuid.UUID `gorm:"type:uuid;index;column:rule_calendar_id" json:"rule_calendar_id,omitempty"`
	RuleGlobal     bool       `gorm:"not null;default:false;column:rule_global" json:"rule_global"`
	RuleKind       Kind       `gorm:"type:varchar(40);not null;column:rule_kind" json:"rule_kind"`
	RuleSeverity   Severity   `gorm:"type:varchar(10);not null;default:'SOFT';column:rule_severity" json:"rule_severity"`
	RuleSubjectAID *uuid.UUID `gorm:"type:uuid;column:rule_subject_a_id" json:"rule_subject_a_id,omitempty"`
	RuleSubjectBID *uuid.UUID `gorm:"type:uuid;column:rule_subject_b_id" json:"rule_subject_b_id,omitempty"`

	// Variant payload, decoded per kind (see DecodeParams)
	RuleParams  datatypes.JSON `gorm:"type:jsonb;not null;default:'{}';column:rule_params" json:"rule_params"`
	RuleEnabled bool           `gorm:"not null;index;column:rule_enabled" json:"rule_enabled"`

	RuleCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:rule_created_at" json:"rule_created_at"`
	RuleUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:rule_updated_at" json:"rule_updated_at"`

	Calendar *calendarModel.ExamCalendarModel `gorm:"foreignKey:RuleCalendarID;references:ExamCalendarID;constraint:OnDelete:CASCADE" json:"-"`
	SubjectA *subjectModel.SubjectModel       `gorm:"foreignKey:RuleSubjectAID;references:SubjectID;constraint:OnDelete:RESTRICT" json:"subject_a,omitempty"`
	SubjectB *subjectModel.SubjectModel       `gorm:"foreignKey:RuleSubjectBID;references:SubjectID;constraint:OnDelete:RESTRICT" json:"subject_b,omitempty"`
}

func (RuleModel) TableName() string { return "rules" }

// HasPair: both subject references set.
func (m *RuleModel) HasPair() bool {
	return m.RuleSubjectAID != nil && m.RuleSubjectBID != nil
}

func (m *RuleModel) BeforeSave(tx *gorm.DB) error {
	if !m.RuleKind.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid rule_kind %q", m.RuleKind))
	}
	if m.RuleSeverity == "" {
		m.RuleSeverity = SeveritySoft
	}
	if !m.RuleSeverity.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid rule_severity %q", m.RuleSeverity))
	}
	if m.RuleGlobal && m.RuleCalendarID != nil {
		return fiber.NewError(fiber.StatusBadRequest, "a global rule cannot be scoped to a calendar")
	}
	if !m.RuleGlobal && m.RuleCalendarID == nil {
		return fiber.NewError(fiber.StatusBadRequest, "rule_calendar_id is required for non-global rules")
	}
	if len(m.RuleParams) == 0 {
		m.RuleParams = datatypes.JSON("{}")
	}
	if _, err := DecodeParams(m.RuleKind, m.RuleParams); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
