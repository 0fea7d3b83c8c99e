package model

import (
	"time"

	"github.com/google/uuid"

	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	"examplanner_backend/internals/helpers/dbtime"
)

// ExamEventModel places one subject on one date of a calendar.
// At most one per (calendar, subject): placing again moves it.
type ExamEventModel struct {
	ExamEventID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:exam_event_id" json:"exam_event_id"`
	ExamEventCalendarID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uq_exam_event_calendar_subject,priority:1;index:idx_exam_event_calendar_date,priority:1;column:exam_event_calendar_id" json:"exam_event_calendar_id"`
	ExamEventSubjectID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uq_exam_event_calendar_subject,priority:2;column:exam_event_subject_id" json:"exam_event_subject_id"`
	ExamEventDate       dbtime.Date `gorm:"type:date;not null;index:idx_exam_event_calendar_date,priority:2;column:exam_event_date" json:"exam_event_date"`

	ExamEventCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:exam_event_created_at" json:"exam_event_created_at"`
	ExamEventUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:exam_event_updated_at" json:"exam_event_updated_at"`

	// Referenced, never owned: deleting a placed subject is refused.
	Subject *subjectModel.SubjectModel `gorm:"foreignKey:ExamEventSubjectID;references:SubjectID;constraint:OnDelete:RESTRICT" json:"subject,omitempty"`
}

func (ExamEventModel) TableName() string { return "exam_events" }
