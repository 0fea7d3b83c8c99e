// file: internals/features/exams/versions/model/calendar_version_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	"examplanner_backend/internals/features/exams/versions/snapshot"
)

// CalendarVersionModel is immutable once created: rows are only inserted or deleted.
type CalendarVersionModel struct {
	CalendarVersionID         uuid.UUID                             `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:calendar_version_id" json:"calendar_version_id"`
	CalendarVersionCalendarID uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex:uq_calendar_version_number,priority:1;column:calendar_version_calendar_id" json:"calendar_version_calendar_id"`
	CalendarVersionNumber     int                                   `gorm:"not null;uniqueIndex:uq_calendar_version_number,priority:2;column:calendar_version_number" json:"calendar_version_number"`
	CalendarVersionLabel      string                                `gorm:"type:varchar(120);not null;default:'';column:calendar_version_label" json:"calendar_version_label"`
	CalendarVersionSnapshot   datatypes.JSONType[snapshot.Snapshot] `gorm:"type:jsonb;not null;column:calendar_version_snapshot" json:"calendar_version_snapshot"`
	CalendarVersionCreatedBy  uuid.UUID                             `gorm:"type:uuid;not null;column:calendar_version_created_by" json:"calendar_version_created_by"`
	CalendarVersionCreatedAt  time.Time                             `gorm:"type:timestamptz;not null;autoCreateTime;column:calendar_version_created_at" json:"calendar_version_created_at"`

	Calendar *calendarModel.ExamCalendarModel `gorm:"foreignKey:CalendarVersionCalendarID;references:ExamCalendarID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CalendarVersionModel) TableName() string { return "calendar_versions" }

func (m *CalendarVersionModel) Snapshot() snapshot.Snapshot {
	return m.CalendarVersionSnapshot.Data()
}
