// file: internals/features/exams/store/store.go
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	versionModel "examplanner_backend/internals/features/exams/versions/model"
	"examplanner_backend/internals/features/exams/versions/snapshot"
	"examplanner_backend/internals/helpers/dbtime"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrSubjectInUse = errors.New("subject is still referenced by events or rules")
	ErrDuplicate    = errors.New("duplicate record")
)

// PlacedEvent is the light projection the validator reads: one existing
// exam with the heavy flag of its subject.
type PlacedEvent struct {
	EventID   uuid.UUID   `gorm:"column:event_id"`
	SubjectID uuid.UUID   `gorm:"column:subject_id"`
	Date      dbtime.Date `gorm:"column:event_date"`
	IsHeavy   bool        `gorm:"column:is_heavy"`
}

// Store is the persistence boundary of the exam planner. Uniqueness of
// (calendar, subject) events and (calendar, version_number) versions is
// enforced by the implementation, not by callers.
type Store interface {
	// Transaction runs fn against a store bound to one unit of work.
	// A non-nil error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	GetCalendar(ctx context.Context, calendarID uuid.UUID) (*calendarModel.ExamCalendarModel, error)
	GetSubject(ctx context.Context, subjectID uuid.UUID) (*subjectModel.SubjectModel, error)
	SubjectsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]subjectModel.SubjectModel, error)
	// DeleteSubject refuses with ErrSubjectInUse while events or rules point at it.
	DeleteSubject(ctx context.Context, subjectID uuid.UUID) error

	IsBlocked(ctx context.Context, calendarID uuid.UUID, day dbtime.Date) (bool, error)
	ListBlockedDays(ctx context.Context, calendarID uuid.UUID) ([]calendarModel.CalendarBlockedDayModel, error)
	// ToggleBlockedDay blocks the day if free, unblocks it otherwise; returns the new state.
	ToggleBlockedDay(ctx context.Context, calendarID uuid.UUID, day dbtime.Date, reason string) (bool, error)

	// ListEvents returns events with Subject loaded, ordered by date then subject name.
	ListEvents(ctx context.Context, calendarID uuid.UUID) ([]calendarModel.ExamEventModel, error)
	// EventsBetween returns events with from <= date <= to.
	EventsBetween(ctx context.Context, calendarID uuid.UUID, from, to dbtime.Date) ([]PlacedEvent, error)
	GetEvent(ctx context.Context, calendarID, eventID uuid.UUID) (*calendarModel.ExamEventModel, error)
	// UpsertEvent inserts or moves the single event of (calendar, subject).
	UpsertEvent(ctx context.Context, calendarID, subjectID uuid.UUID, day dbtime.Date) (*calendarModel.ExamEventModel, error)
	MoveEvent(ctx context.Context, ev *calendarModel.ExamEventModel, day dbtime.Date) error
	DeleteEvent(ctx context.Context, calendarID, eventID uuid.UUID) error

	// ActiveRules: enabled rules that are global or scoped to the calendar, subjects loaded.
	ActiveRules(ctx context.Context, calendarID uuid.UUID) ([]ruleModel.RuleModel, error)
	// CalendarRules: enabled rules scoped to the calendar only.
	CalendarRules(ctx context.Context, calendarID uuid.UUID) ([]ruleModel.RuleModel, error)

	MaxVersionNumber(ctx context.Context, calendarID uuid.UUID) (int, error)
	CreateVersion(ctx context.Context, v *versionModel.CalendarVersionModel) error
	GetVersion(ctx context.Context, calendarID, versionID uuid.UUID) (*versionModel.CalendarVersionModel, error)
	DeleteVersion(ctx context.Context, calendarID, versionID uuid.UUID) error
	// ReplaceContent deletes every event and blocked day of the calendar and recreates them.
	ReplaceContent(ctx context.Context, calendarID uuid.UUID, events []snapshot.Event, blocked []snapshot.BlockedDay) error
}
