// file: internals/features/exams/versions/snapshot/calendar_snapshot.go
package snapshot

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	"examplanner_backend/internals/helpers/dbtime"
)

// Snapshot is the persisted shape of a calendar version. Field names are part
// of the stored JSON and must not change.
type Snapshot struct {
	Events      []Event      `json:"events"`
	BlockedDays []BlockedDay `json:"blocked_days"`
	Rules       []Rule       `json:"rules"`
}

type Event struct {
	SubjectID uuid.UUID   `json:"subject_id"`
	Date      dbtime.Date `json:"date"`
}

type BlockedDay struct {
	Date   dbtime.Date `json:"date"`
	Reason string      `json:"reason"`
}

type Rule struct {
	ID         uuid.UUID          `json:"id"`
	RuleType   ruleModel.Kind     `json:"rule_type"`
	Severity   ruleModel.Severity `json:"severity"`
	SubjectAID *uuid.UUID         `json:"subject_a_id"`
	SubjectBID *uuid.UUID         `json:"subject_b_id"`
	Params     json.RawMessage    `json:"params"`
	GlobalRule bool               `json:"global_rule"`
	Enabled    bool               `json:"enabled"`
}

// Build denormalizes current calendar content. Rules passed in must already be
// the enabled rules scoped to this calendar.
func Build(events []calendarModel.ExamEventModel, blocked []calendarModel.CalendarBlockedDayModel, rules []ruleModel.RuleModel) Snapshot {
	s := Snapshot{
		Events:      make([]Event, 0, len(events)),
		BlockedDays: make([]BlockedDay, 0, len(blocked)),
		Rules:       make([]Rule, 0, len(rules)),
	}
	for _, e := range events {
		s.Events = append(s.Events, Event{SubjectID: e.ExamEventSubjectID, Date: e.ExamEventDate})
	}
	for _, b := range blocked {
		s.BlockedDays = append(s.BlockedDays, BlockedDay{Date: b.BlockedDayDate, Reason: b.BlockedDayReason})
	}
	for _, r := range rules {
		params := json.RawMessage(r.RuleParams)
		if len(params) == 0 {
			params = json.RawMessage("{}")
		}
		s.Rules = append(s.Rules, Rule{
			ID:         r.RuleID,
			RuleType:   r.RuleKind,
			Severity:   r.RuleSeverity,
			SubjectAID: r.RuleSubjectAID,
			SubjectBID: r.RuleSubjectBID,
			Params:     params,
			GlobalRule: r.RuleGlobal,
			Enabled:    r.RuleEnabled,
		})
	}
	s.Sort()
	return s
}

// Sort orders events by (date, subject id) and blocked days by date so two
// snapshots of the same content compare equal.
func (s *Snapshot) Sort() {
	sort.SliceStable(s.Events, func(i, j int) bool {
		a, b := s.Events[i], s.Events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.SubjectID.String() < b.SubjectID.String()
	})
	sort.SliceStable(s.BlockedDays, func(i, j int) bool {
		return s.BlockedDays[i].Date.Before(s.BlockedDays[j].Date)
	})
}

// BlockedReasons: ISO date → reason.
func (s *Snapshot) BlockedReasons() map[string]string {
	out := make(map[string]string, len(s.BlockedDays))
	for _, b := range s.BlockedDays {
		reason := b.Reason
		if reason == "" {
			reason = calendarModel.DefaultBlockedReason
		}
		out[b.Date.String()] = reason
	}
	return out
}
