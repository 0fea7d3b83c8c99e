// file: internals/features/exams/calendars/model/exam_calendar_model.go
package model

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "examplanner_backend/internals/helpers"
	"examplanner_backend/internals/helpers/dbtime"
)

type PeriodType string

const (
	PeriodP1 PeriodType = "P1"
	PeriodP2 PeriodType = "P2"
	PeriodF1 PeriodType = "F1"
	PeriodF2 PeriodType = "F2"
)

var periodLabels = map[PeriodType]string{
	PeriodP1: "Parcial 1",
	PeriodP2: "Parcial 2",
	PeriodF1: "Final 1",
	PeriodF2: "Final 2",
}

func (p PeriodType) Valid() bool { _, ok := periodLabels[p]; return ok }
func (p PeriodType) Label() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return string(p)
}

type ExamCalendarModel struct {
	ExamCalendarID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:exam_calendar_id" json:"exam_calendar_id"`
	ExamCalendarName       string      `gorm:"type:varchar(120);not null;column:exam_calendar_name" json:"exam_calendar_name"`
	ExamCalendarPeriodType PeriodType  `gorm:"type:varchar(2);not null;column:exam_calendar_period_type" json:"exam_calendar_period_type"`
	ExamCalendarStartDate  dbtime.Date `gorm:"type:date;not null;column:exam_calendar_start_date" json:"exam_calendar_start_date"`
	ExamCalendarEndDate    dbtime.Date `gorm:"type:date;not null;column:exam_calendar_end_date" json:"exam_calendar_end_date"`
	ExamCalendarCreatedBy  uuid.UUID   `gorm:"type:uuid;not null;column:exam_calendar_created_by" json:"exam_calendar_created_by"`

	ExamCalendarCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:exam_calendar_created_at" json:"exam_calendar_created_at"`
	ExamCalendarUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:exam_calendar_updated_at" json:"exam_calendar_updated_at"`

	// Owned rows (cascade on delete)
	Events      []ExamEventModel          `gorm:"foreignKey:ExamEventCalendarID;references:ExamCalendarID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
	BlockedDays []CalendarBlockedDayModel `gorm:"foreignKey:BlockedDayCalendarID;references:ExamCalendarID;constraint:OnDelete:CASCADE" json:"blocked_days,omitempty"`
}

func (ExamCalendarModel) TableName() string { return "exam_calendars" }

// Contains: inclusive range check.
func (m *ExamCalendarModel) Contains(d dbtime.Date) bool {
	return !d.Before(m.ExamCalendarStartDate) && !d.After(m.ExamCalendarEndDate)
}

// ============ Hooks: mirror CHECK (start <= end) ============
func (m *ExamCalendarModel) BeforeSave(tx *gorm.DB) error {
	m.ExamCalendarName = helper.NormalizeText(m.ExamCalendarName)
	if m.ExamCalendarName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "exam_calendar_name is required")
	}
	if !m.ExamCalendarPeriodType.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid exam_calendar_period_type %q", m.ExamCalendarPeriodType))
	}
	if m.ExamCalendarEndDate.Before(m.ExamCalendarStartDate) {
		return fiber.NewError(fiber.StatusBadRequest, "exam_calendar_end_date must be >= exam_calendar_start_date")
	}
	return nil
}
