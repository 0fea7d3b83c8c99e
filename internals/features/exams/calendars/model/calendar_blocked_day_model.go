package model

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"examplanner_backend/internals/helpers/dbtime"
)

const DefaultBlockedReason = "FERIADO/BLOQUEADO"

// CalendarBlockedDayModel: no exam may be placed on this date. Unique per (calendar, date).
type CalendarBlockedDayModel struct {
	BlockedDayID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:blocked_day_id" json:"blocked_day_id"`
	BlockedDayCalendarID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uq_blocked_day_calendar_date,priority:1;column:blocked_day_calendar_id" json:"blocked_day_calendar_id"`
	BlockedDayDate       dbtime.Date `gorm:"type:date;not null;uniqueIndex:uq_blocked_day_calendar_date,priority:2;column:blocked_day_date" json:"blocked_day_date"`
	BlockedDayReason     string      `gorm:"type:varchar(120);not null;default:'FERIADO/BLOQUEADO';column:blocked_day_reason" json:"blocked_day_reason"`
}

func (CalendarBlockedDayModel) TableName() string { return "calendar_blocked_days" }

func (m *CalendarBlockedDayModel) BeforeSave(tx *gorm.DB) error {
	m.BlockedDayReason = strings.TrimSpace(m.BlockedDayReason)
	if m.BlockedDayReason == "" {
		m.BlockedDayReason = DefaultBlockedReason
	}
	return nil
}
