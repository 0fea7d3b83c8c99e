// file: internals/features/exams/store/gorm_store.go
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	versionModel "examplanner_backend/internals/features/exams/versions/model"
	"examplanner_backend/internals/features/exams/versions/snapshot"
	helper "examplanner_backend/internals/helpers"
	"examplanner_backend/internals/helpers/dbtime"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

var _ Store = (*GormStore)(nil)

func (s *GormStore) q(ctx context.Context) *gorm.DB { return s.DB.WithContext(ctx) }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

/* =========================
   Calendars & subjects
   ========================= */

func (s *GormStore) GetCalendar(ctx context.Context, calendarID uuid.UUID) (*calendarModel.ExamCalendarModel, error) {
	var cal calendarModel.ExamCalendarModel
	if err := s.q(ctx).Where("exam_calendar_id = ?", calendarID).Take(&cal).Error; err != nil {
		return nil, notFound(err)
	}
	return &cal, nil
}

func (s *GormStore) GetSubject(ctx context.Context, subjectID uuid.UUID) (*subjectModel.SubjectModel, error) {
	var sub subjectModel.SubjectModel
	if err := s.q(ctx).Where("subject_id = ?", subjectID).Take(&sub).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (s *GormStore) SubjectsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]subjectModel.SubjectModel, error) {
	out := make(map[uuid.UUID]subjectModel.SubjectModel, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []subjectModel.SubjectModel
	if err := s.q(ctx).Where("subject_id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, sub := range list {
		out[sub.SubjectID] = sub
	}
	return out, nil
}

func (s *GormStore) DeleteSubject(ctx context.Context, subjectID uuid.UUID) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&calendarModel.ExamEventModel{}).
			Where("exam_event_subject_id = ?", subjectID).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs == 0 {
			if err := tx.Model(&ruleModel.RuleModel{}).
				Where("rule_subject_a_id = ? OR rule_subject_b_id = ?", subjectID, subjectID).
				Count(&refs).Error; err != nil {
				return err
			}
		}
		if refs > 0 {
			return ErrSubjectInUse
		}

		res := tx.Where("subject_id = ?", subjectID).Delete(&subjectModel.SubjectModel{})
		if res.Error != nil {
			// a concurrent insert can still trip the FK
			if helper.IsForeignKeyViolation(res.Error) {
				return ErrSubjectInUse
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

/* =========================
   Blocked days
   ========================= */

func (s *GormStore) IsBlocked(ctx context.Context, calendarID uuid.UUID, day dbtime.Date) (bool, error) {
	var n int64
	err := s.q(ctx).Model(&calendarModel.CalendarBlockedDayModel{}).
		Where("blocked_day_calendar_id = ? AND blocked_day_date = ?", calendarID, day).
		Count(&n).Error
	return n > 0, err
}

func (s *GormStore) ListBlockedDays(ctx context.Context, calendarID uuid.UUID) ([]calendarModel.CalendarBlockedDayModel, error) {
	var list []calendarModel.CalendarBlockedDayModel
	err := s.q(ctx).
		Where("blocked_day_calendar_id = ?", calendarID).
		Order("blocked_day_date ASC").
		Find(&list).Error
	return list, err
}

func (s *GormStore) ToggleBlockedDay(ctx context.Context, calendarID uuid.UUID, day dbtime.Date, reason string) (bool, error) {
	res := s.q(ctx).
		Where("blocked_day_calendar_id = ? AND blocked_day_date = ?", calendarID, day).
		Delete(&calendarModel.CalendarBlockedDayModel{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	row := calendarModel.CalendarBlockedDayModel{
		BlockedDayCalendarID: calendarID,
		BlockedDayDate:       day,
		BlockedDayReason:     reason,
	}
	if err := s.q(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return false, err
	}
	return true, nil
}

/* =========================
   Events
   ========================= */

func (s *GormStore) ListEvents(ctx context.Context, calendarID uuid.UUID) ([]calendarModel.ExamEventModel, error) {
	var list []calendarModel.ExamEventModel
	err := s.q(ctx).
		Joins("Subject").
		Where("exam_events.exam_event_calendar_id = ?", calendarID).
		Order("exam_events.exam_event_date ASC").
		Order(`"Subject"."subject_name" ASC`).
		Find(&list).Error
	return list, err
}

func (s *GormStore) EventsBetween(ctx context.Context, calendarID uuid.UUID, from, to dbtime.Date) ([]PlacedEvent, error) {
	var rows []PlacedEvent
	err := s.q(ctx).
		Table("exam_events AS e").
		Select(`e.exam_event_id AS event_id,
		        e.exam_event_subject_id AS subject_id,
		        e.exam_event_date AS event_date,
		        s.subject_is_heavy AS is_heavy`).
		Joins("JOIN subjects AS s ON s.subject_id = e.exam_event_subject_id").
		Where("e.exam_event_calendar_id = ? AND e.exam_event_date BETWEEN ? AND ?", calendarID, from, to).
		Order("e.exam_event_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *GormStore) GetEvent(ctx context.Context, calendarID, eventID uuid.UUID) (*calendarModel.ExamEventModel, error) {
	var ev calendarModel.ExamEventModel
	if err := s.q(ctx).
		Where("exam_event_id = ? AND exam_event_calendar_id = ?", eventID, calendarID).
		Take(&ev).Error; err != nil {
		return nil, notFound(err)
	}
	return &ev, nil
}

func (s *GormStore) UpsertEvent(ctx context.Context, calendarID, subjectID uuid.UUID, day dbtime.Date) (*calendarModel.ExamEventModel, error) {
	ev := calendarModel.ExamEventModel{
		ExamEventCalendarID: calendarID,
		ExamEventSubjectID:  subjectID,
		ExamEventDate:       day,
	}
	if err := s.q(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "exam_event_calendar_id"},
			{Name: "exam_event_subject_id"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"exam_event_date":       day,
			"exam_event_updated_at": time.Now(),
		}),
	}).Create(&ev).Error; err != nil {
		return nil, err
	}

	var out calendarModel.ExamEventModel
	if err := s.q(ctx).
		Where("exam_event_calendar_id = ? AND exam_event_subject_id = ?", calendarID, subjectID).
		Take(&out).Error; err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (s *GormStore) MoveEvent(ctx context.Context, ev *calendarModel.ExamEventModel, day dbtime.Date) error {
	now := time.Now()
	if err := s.q(ctx).Model(&calendarModel.ExamEventModel{}).
		Where("exam_event_id = ?", ev.ExamEventID).
		Updates(map[string]interface{}{
			"exam_event_date":       day,
			"exam_event_updated_at": now,
		}).Error; err != nil {
		return err
	}
	ev.ExamEventDate = day
	ev.ExamEventUpdatedAt = now
	return nil
}

func (s *GormStore) DeleteEvent(ctx context.Context, calendarID, eventID uuid.UUID) error {
	res := s.q(ctx).
		Where("exam_event_id = ? AND exam_event_calendar_id = ?", eventID, calendarID).
		Delete(&calendarModel.ExamEventModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

/* =========================
   Rules
   ========================= */

func (s *GormStore) ActiveRules(ctx context.Context, calendarID uuid.UUID) ([]ruleModel.RuleModel, error) {
	var list []ruleModel.RuleModel
	err := s.q(ctx).
		Preload("SubjectA").
		Preload("SubjectB").
		Where("rule_enabled = ? AND (rule_global = ? OR rule_calendar_id = ?)", true, true, calendarID).
		Order("rule_created_at ASC").
		Find(&list).Error
	return list, err
}

func (s *GormStore) CalendarRules(ctx context.Context, calendarID uuid.UUID) ([]ruleModel.RuleModel, error) {
	var list []ruleModel.RuleModel
	err := s.q(ctx).
		Where("rule_enabled = ? AND rule_calendar_id = ?", true, calendarID).
		Order("rule_created_at ASC").
		Find(&list).Error
	return list, err
}

/* =========================
   Versions
   ========================= */

func (s *GormStore) MaxVersionNumber(ctx context.Context, calendarID uuid.UUID) (int, error) {
	var max int
	err := s.q(ctx).Model(&versionModel.CalendarVersionModel{}).
		Select("COALESCE(MAX(calendar_version_number), 0)").
		Where("calendar_version_calendar_id = ?", calendarID).
		Scan(&max).Error
	return max, err
}

func (s *GormStore) CreateVersion(ctx context.Context, v *versionModel.CalendarVersionModel) error {
	if err := s.q(ctx).Create(v).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *GormStore) GetVersion(ctx context.Context, calendarID, versionID uuid.UUID) (*versionModel.CalendarVersionModel, error) {
	var v versionModel.CalendarVersionModel
	if err := s.q(ctx).
		Where("calendar_version_id = ? AND calendar_version_calendar_id = ?", versionID, calendarID).
		Take(&v).Error; err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (s *GormStore) DeleteVersion(ctx context.Context, calendarID, versionID uuid.UUID) error {
	res := s.q(ctx).
		Where("calendar_version_id = ? AND calendar_version_calendar_id = ?", versionID, calendarID).
		Delete(&versionModel.CalendarVersionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ReplaceContent(ctx context.Context, calendarID uuid.UUID, events []snapshot.Event, blocked []snapshot.BlockedDay) error {
	db := s.q(ctx)
	if err := db.Where("exam_event_calendar_id = ?", calendarID).
		Delete(&calendarModel.ExamEventModel{}).Error; err != nil {
		return err
	}
	if err := db.Where("blocked_day_calendar_id = ?", calendarID).
		Delete(&calendarModel.CalendarBlockedDayModel{}).Error; err != nil {
		return err
	}

	if len(blocked) > 0 {
		rows := make([]calendarModel.CalendarBlockedDayModel, 0, len(blocked))
		for _, b := range blocked {
			rows = append(rows, calendarModel.CalendarBlockedDayModel{
				BlockedDayCalendarID: calendarID,
				BlockedDayDate:       b.Date,
				BlockedDayReason:     b.Reason,
			})
		}
		if err := db.CreateInBatches(&rows, 200).Error; err != nil {
			return err
		}
	}
	if len(events) > 0 {
		rows := make([]calendarModel.ExamEventModel, 0, len(events))
		for _, e := range events {
			rows = append(rows, calendarModel.ExamEventModel{
				ExamEventCalendarID: calendarID,
				ExamEventSubjectID:  e.SubjectID,
				ExamEventDate:       e.Date,
			})
		}
		if err := db.CreateInBatches(&rows, 200).Error; err != nil {
			return err
		}
	}
	return nil
}
