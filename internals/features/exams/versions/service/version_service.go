// file: internals/features/exams/versions/service/version_service.go
package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	calendarService "examplanner_backend/internals/features/exams/calendars/service"
	"examplanner_backend/internals/features/exams/store"
	versionModel "examplanner_backend/internals/features/exams/versions/model"
	"examplanner_backend/internals/features/exams/versions/snapshot"
)

var (
	ErrVersionNotFound = errors.New("versión no encontrada")
	ErrVersionConflict = errors.New("otra versión se guardó al mismo tiempo, reintente")
)

type Service struct {
	Store store.Store
}

func New(st store.Store) *Service { return &Service{Store: st} }

// BuildSnapshot captures events, blocked days and the enabled rules scoped to
// the calendar. Global and disabled rules are left out.
func BuildSnapshot(ctx context.Context, st store.Store, calendarID uuid.UUID) (snapshot.Snapshot, error) {
	events, err := st.ListEvents(ctx, calendarID)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	blocked, err := st.ListBlockedDays(ctx, calendarID)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	rules, err := st.CalendarRules(ctx, calendarID)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.Build(events, blocked, rules), nil
}

func (s *Service) Save(ctx context.Context, calendarID uuid.UUID, label string, creator uuid.UUID) (*versionModel.CalendarVersionModel, error) {
	var out *versionModel.CalendarVersionModel
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetCalendar(ctx, calendarID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return calendarService.ErrCalendarNotFound
			}
			return err
		}

		snap, err := BuildSnapshot(ctx, tx, calendarID)
		if err != nil {
			return err
		}
		max, err := tx.MaxVersionNumber(ctx, calendarID)
		if err != nil {
			return err
		}

		v := &versionModel.CalendarVersionModel{
			CalendarVersionCalendarID: calendarID,
			CalendarVersionNumber:     max + 1,
			CalendarVersionLabel:      label,
			CalendarVersionSnapshot:   datatypes.NewJSONType(snap),
			CalendarVersionCreatedBy:  creator,
		}
		if err := tx.CreateVersion(ctx, v); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrVersionConflict
			}
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] calendar %s: saved version %d", calendarID, out.CalendarVersionNumber)
	return out, nil
}

// Restore replaces the calendar's events and blocked days with the version's.
// The version is resolved before anything is deleted; rules are not touched.
func (s *Service) Restore(ctx context.Context, calendarID, versionID uuid.UUID) (*versionModel.CalendarVersionModel, error) {
	var out *versionModel.CalendarVersionModel
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		v, err := tx.GetVersion(ctx, calendarID, versionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrVersionNotFound
			}
			return err
		}
		snap := v.Snapshot()

		events, err := liveSubjectsOnly(ctx, tx, calendarID, snap.Events)
		if err != nil {
			return err
		}
		blocked := make([]snapshot.BlockedDay, 0, len(snap.BlockedDays))
		for _, b := range snap.BlockedDays {
			if b.Reason == "" {
				b.Reason = calendarModel.DefaultBlockedReason
			}
			blocked = append(blocked, b)
		}

		if err := tx.ReplaceContent(ctx, calendarID, events, blocked); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] calendar %s: restored version %d", calendarID, out.CalendarVersionNumber)
	return out, nil
}

// liveSubjectsOnly drops snapshot events whose subject was deleted since.
func liveSubjectsOnly(ctx context.Context, st store.Store, calendarID uuid.UUID, events []snapshot.Event) ([]snapshot.Event, error) {
	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.SubjectID)
	}
	subjects, err := st.SubjectsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]snapshot.Event, 0, len(events))
	for _, e := range events {
		if _, ok := subjects[e.SubjectID]; !ok {
			log.Printf("[WARN] calendar %s: restore skips deleted subject %s", calendarID, e.SubjectID)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, calendarID, versionID uuid.UUID) error {
	if err := s.Store.DeleteVersion(ctx, calendarID, versionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVersionNotFound
		}
		return err
	}
	return nil
}
