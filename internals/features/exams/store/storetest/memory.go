// file: internals/features/exams/store/storetest/memory.go
// Package storetest provides an in-memory store.Store for service tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	"examplanner_backend/internals/features/exams/store"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	versionModel "examplanner_backend/internals/features/exams/versions/model"
	"examplanner_backend/internals/features/exams/versions/snapshot"
	"examplanner_backend/internals/helpers/dbtime"
)

type state struct {
	subjects  map[uuid.UUID]subjectModel.SubjectModel
	calendars map[uuid.UUID]calendarModel.ExamCalendarModel
	blocked   []calendarModel.CalendarBlockedDayModel
	events    []calendarModel.ExamEventModel
	rules     []ruleModel.RuleModel
	versions  []versionModel.CalendarVersionModel
}

func newState() *state {
	return &state{
		subjects:  map[uuid.UUID]subjectModel.SubjectModel{},
		calendars: map[uuid.UUID]calendarModel.ExamCalendarModel{},
	}
}

func (s *state) clone() *state {
	cp := newState()
	for k, v := range s.subjects {
		cp.subjects[k] = v
	}
	for k, v := range s.calendars {
		cp.calendars[k] = v
	}
	cp.blocked = append(cp.blocked, s.blocked...)
	cp.events = append(cp.events, s.events...)
	cp.rules = append(cp.rules, s.rules...)
	cp.versions = append(cp.versions, s.versions...)
	return cp
}

// Memory keeps everything in maps and slices. Transactions work on a copy
// that replaces the live state only when fn returns nil.
type Memory struct {
	mu   *sync.Mutex
	txMu *sync.Mutex
	st   *state

	// ReplaceErr, when set, makes ReplaceContent fail after deleting.
	ReplaceErr error
}

var _ store.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{mu: &sync.Mutex{}, txMu: &sync.Mutex{}, st: newState()}
}

func (m *Memory) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	tx := &Memory{mu: &sync.Mutex{}, txMu: &sync.Mutex{}, st: m.st.clone(), ReplaceErr: m.ReplaceErr}
	m.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}
	m.mu.Lock()
	m.st = tx.st
	m.mu.Unlock()
	return nil
}

/* =========================
   Fixtures
   ========================= */

func (m *Memory) AddSubject(sub subjectModel.SubjectModel) subjectModel.SubjectModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub.SubjectID == uuid.Nil {
		sub.SubjectID = uuid.New()
	}
	if sub.SubjectSemesterGroup == "" {
		sub.SubjectSemesterGroup = subjectModel.SemesterGroupSEM2
	}
	m.st.subjects[sub.SubjectID] = sub
	return sub
}

func (m *Memory) AddCalendar(cal calendarModel.ExamCalendarModel) calendarModel.ExamCalendarModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cal.ExamCalendarID == uuid.Nil {
		cal.ExamCalendarID = uuid.New()
	}
	if cal.ExamCalendarPeriodType == "" {
		cal.ExamCalendarPeriodType = calendarModel.PeriodP1
	}
	m.st.calendars[cal.ExamCalendarID] = cal
	return cal
}

func (m *Memory) AddRule(r ruleModel.RuleModel) ruleModel.RuleModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.RuleID == uuid.Nil {
		r.RuleID = uuid.New()
	}
	if r.RuleSeverity == "" {
		r.RuleSeverity = ruleModel.SeveritySoft
	}
	r.RuleCreatedAt = time.Now()
	m.st.rules = append(m.st.rules, r)
	return r
}

func (m *Memory) AddBlockedDay(calendarID uuid.UUID, day dbtime.Date, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reason == "" {
		reason = calendarModel.DefaultBlockedReason
	}
	m.st.blocked = append(m.st.blocked, calendarModel.CalendarBlockedDayModel{
		BlockedDayID:         uuid.New(),
		BlockedDayCalendarID: calendarID,
		BlockedDayDate:       day,
		BlockedDayReason:     reason,
	})
}

// AddEvent places a subject directly, bypassing validation.
func (m *Memory) AddEvent(calendarID, subjectID uuid.UUID, day dbtime.Date) calendarModel.ExamEventModel {
	ev, err := m.UpsertEvent(context.Background(), calendarID, subjectID, day)
	if err != nil {
		panic(err)
	}
	return *ev
}

// CountEvents counts events of a calendar, optionally for one subject.
func (m *Memory) CountEvents(calendarID uuid.UUID, subjectID *uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.st.events {
		if e.ExamEventCalendarID != calendarID {
			continue
		}
		if subjectID != nil && e.ExamEventSubjectID != *subjectID {
			continue
		}
		n++
	}
	return n
}

/* =========================
   Calendars & subjects
   ========================= */

func (m *Memory) GetCalendar(ctx context.Context, calendarID uuid.UUID) (*calendarModel.ExamCalendarModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cal, ok := m.st.calendars[calendarID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &cal, nil
}

func (m *Memory) GetSubject(ctx context.Context, subjectID uuid.UUID) (*subjectModel.SubjectModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.st.subjects[subjectID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sub, nil
}

func (m *Memory) SubjectsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]subjectModel.SubjectModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]subjectModel.SubjectModel, len(ids))
	for _, id := range ids {
		if sub, ok := m.st.subjects[id]; ok {
			out[id] = sub
		}
	}
	return out, nil
}

func (m *Memory) DeleteSubject(ctx context.Context, subjectID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.st.subjects[subjectID]; !ok {
		return store.ErrNotFound
	}
	for _, e := range m.st.events {
		if e.ExamEventSubjectID == subjectID {
			return store.ErrSubjectInUse
		}
	}
	for _, r := range m.st.rules {
		if (r.RuleSubjectAID != nil && *r.RuleSubjectAID == subjectID) ||
			(r.RuleSubjectBID != nil && *r.RuleSubjectBID == subjectID) {
			return store.ErrSubjectInUse
		}
	}
	delete(m.st.subjects, subjectID)
	return nil
}

/* =========================
   Blocked days
   ========================= */

func (m *Memory) IsBlocked(ctx context.Context, calendarID uuid.UUID, day dbtime.Date) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blockedIndex(calendarID, day) >= 0, nil
}

func (m *Memory) blockedIndex(calendarID uuid.UUID, day dbtime.Date) int {
	for i, b := range m.st.blocked {
		if b.BlockedDayCalendarID == calendarID && b.BlockedDayDate.Equal(day) {
			return i
		}
	}
	return -1
}

func (m *Memory) ListBlockedDays(ctx context.Context, calendarID uuid.UUID) ([]calendarModel.CalendarBlockedDayModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []calendarModel.CalendarBlockedDayModel{}
	for _, b := range m.st.blocked {
		if b.BlockedDayCalendarID == calendarID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BlockedDayDate.Before(out[j].BlockedDayDate) })
	return out, nil
}

func (m *Memory) ToggleBlockedDay(ctx context.Context, calendarID uuid.UUID, day dbtime.Date, reason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.blockedIndex(calendarID, day); i >= 0 {
		m.st.blocked = append(m.st.blocked[:i:i], m.st.blocked[i+1:]...)
		return false, nil
	}
	if reason == "" {
		reason = calendarModel.DefaultBlockedReason
	}
	m.st.blocked = append(m.st.blocked, calendarModel.CalendarBlockedDayModel{
		BlockedDayID:         uuid.New(),
		BlockedDayCalendarID: calendarID,
		BlockedDayDate:       day,
		BlockedDayReason:     reason,
	})
	return true, nil
}

/* =========================
   Events
   ========================= */

func (m *Memory) ListEvents(ctx context.Context, calendarID uuid.UUID) ([]calendarModel.ExamEventModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []calendarModel.ExamEventModel{}
	for _, e := range m.st.events {
		if e.ExamEventCalendarID != calendarID {
			continue
		}
		if sub, ok := m.st.subjects[e.ExamEventSubjectID]; ok {
			e.Subject = &sub
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.ExamEventDate.Equal(b.ExamEventDate) {
			return a.ExamEventDate.Before(b.ExamEventDate)
		}
		return subjectName(a) < subjectName(b)
	})
	return out, nil
}

func subjectName(e calendarModel.ExamEventModel) string {
	if e.Subject == nil {
		return ""
	}
	return e.Subject.SubjectName
}

func (m *Memory) EventsBetween(ctx context.Context, calendarID uuid.UUID, from, to dbtime.Date) ([]store.PlacedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.PlacedEvent{}
	for _, e := range m.st.events {
		if e.ExamEventCalendarID != calendarID || e.ExamEventDate.Before(from) || e.ExamEventDate.After(to) {
			continue
		}
		out = append(out, store.PlacedEvent{
			EventID:   e.ExamEventID,
			SubjectID: e.ExamEventSubjectID,
			Date:      e.ExamEventDate,
			IsHeavy:   m.st.subjects[e.ExamEventSubjectID].SubjectIsHeavy,
		})
	}
	return out, nil
}

func (m *Memory) GetEvent(ctx context.Context, calendarID, eventID uuid.UUID) (*calendarModel.ExamEventModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.st.events {
		if e.ExamEventID == eventID && e.ExamEventCalendarID == calendarID {
			return &e, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Memory) UpsertEvent(ctx context.Context, calendarID, subjectID uuid.UUID, day dbtime.Date) (*calendarModel.ExamEventModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for i, e := range m.st.events {
		if e.ExamEventCalendarID == calendarID && e.ExamEventSubjectID == subjectID {
			m.st.events[i].ExamEventDate = day
			m.st.events[i].ExamEventUpdatedAt = now
			out := m.st.events[i]
			return &out, nil
		}
	}
	ev := calendarModel.ExamEventModel{
		ExamEventID:         uuid.New(),
		ExamEventCalendarID: calendarID,
		ExamEventSubjectID:  subjectID,
		ExamEventDate:       day,
		ExamEventCreatedAt:  now,
		ExamEventUpdatedAt:  now,
	}
	m.st.events = append(m.st.events, ev)
	return &ev, nil
}

func (m *Memory) MoveEvent(ctx context.Context, ev *calendarModel.ExamEventModel, day dbtime.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.st.events {
		if e.ExamEventID == ev.ExamEventID {
			m.st.events[i].ExamEventDate = day
			m.st.events[i].ExamEventUpdatedAt = time.Now()
			ev.ExamEventDate = day
			ev.ExamEventUpdatedAt = m.st.events[i].ExamEventUpdatedAt
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *Memory) DeleteEvent(ctx context.Context, calendarID, eventID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.st.events {
		if e.ExamEventID == eventID && e.ExamEventCalendarID == calendarID {
			m.st.events = append(m.st.events[:i:i], m.st.events[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

/* =========================
   Rules
   ========================= */

func (m *Memory) withSubjects(r ruleModel.RuleModel) ruleModel.RuleModel {
	if r.RuleSubjectAID != nil {
		if sub, ok := m.st.subjects[*r.RuleSubjectAID]; ok {
			r.SubjectA = &sub
		}
	}
	if r.RuleSubjectBID != nil {
		if sub, ok := m.st.subjects[*r.RuleSubjectBID]; ok {
			r.SubjectB = &sub
		}
	}
	return r
}

func (m *Memory) ActiveRules(ctx context.Context, calendarID uuid.UUID) ([]ruleModel.RuleModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []ruleModel.RuleModel{}
	for _, r := range m.st.rules {
		if !r.RuleEnabled {
			continue
		}
		if r.RuleGlobal || (r.RuleCalendarID != nil && *r.RuleCalendarID == calendarID) {
			out = append(out, m.withSubjects(r))
		}
	}
	return out, nil
}

func (m *Memory) CalendarRules(ctx context.Context, calendarID uuid.UUID) ([]ruleModel.RuleModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []ruleModel.RuleModel{}
	for _, r := range m.st.rules {
		if r.RuleEnabled && r.RuleCalendarID != nil && *r.RuleCalendarID == calendarID {
			out = append(out, r)
		}
	}
	return out, nil
}

/* =========================
   Versions
   ========================= */

func (m *Memory) MaxVersionNumber(ctx context.Context, calendarID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	max := 0
	for _, v := range m.st.versions {
		if v.CalendarVersionCalendarID == calendarID && v.CalendarVersionNumber > max {
			max = v.CalendarVersionNumber
		}
	}
	return max, nil
}

func (m *Memory) CreateVersion(ctx context.Context, v *versionModel.CalendarVersionModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.st.versions {
		if x.CalendarVersionCalendarID == v.CalendarVersionCalendarID && x.CalendarVersionNumber == v.CalendarVersionNumber {
			return store.ErrDuplicate
		}
	}
	if v.CalendarVersionID == uuid.Nil {
		v.CalendarVersionID = uuid.New()
	}
	v.CalendarVersionCreatedAt = time.Now()
	m.st.versions = append(m.st.versions, *v)
	return nil
}

func (m *Memory) GetVersion(ctx context.Context, calendarID, versionID uuid.UUID) (*versionModel.CalendarVersionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.st.versions {
		if v.CalendarVersionID == versionID && v.CalendarVersionCalendarID == calendarID {
			return &v, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Memory) DeleteVersion(ctx context.Context, calendarID, versionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range m.st.versions {
		if v.CalendarVersionID == versionID && v.CalendarVersionCalendarID == calendarID {
			m.st.versions = append(m.st.versions[:i:i], m.st.versions[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *Memory) ReplaceContent(ctx context.Context, calendarID uuid.UUID, events []snapshot.Event, blocked []snapshot.BlockedDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	keptEvents := m.st.events[:0:0]
	for _, e := range m.st.events {
		if e.ExamEventCalendarID != calendarID {
			keptEvents = append(keptEvents, e)
		}
	}
	keptBlocked := m.st.blocked[:0:0]
	for _, b := range m.st.blocked {
		if b.BlockedDayCalendarID != calendarID {
			keptBlocked = append(keptBlocked, b)
		}
	}
	m.st.events, m.st.blocked = keptEvents, keptBlocked

	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}

	now := time.Now()
	for _, b := range blocked {
		m.st.blocked = append(m.st.blocked, calendarModel.CalendarBlockedDayModel{
			BlockedDayID:         uuid.New(),
			BlockedDayCalendarID: calendarID,
			BlockedDayDate:       b.Date,
			BlockedDayReason:     b.Reason,
		})
	}
	for _, e := range events {
		m.st.events = append(m.st.events, calendarModel.ExamEventModel{
			ExamEventID:         uuid.New(),
			ExamEventCalendarID: calendarID,
			ExamEventSubjectID:  e.SubjectID,
			ExamEventDate:       e.Date,
			ExamEventCreatedAt:  now,
			ExamEventUpdatedAt:  now,
		})
	}
	return nil
}
