package dto

import (
	"time"

	"github.com/google/uuid"

	versionModel "examplanner_backend/internals/features/exams/versions/model"
	"examplanner_backend/internals/features/exams/versions/snapshot"
)

type SaveVersionRequest struct {
	Label string `json:"label" validate:"omitempty,max=120"`
}

type ListVersionQuery struct {
	CalendarID *string `query:"calendar_id" validate:"omitempty,uuid"`
}

// VersionResponse leaves the snapshot out; the detail endpoint adds it.
type VersionResponse struct {
	ID          uuid.UUID `json:"calendar_version_id"`
	CalendarID  uuid.UUID `json:"calendar_version_calendar_id"`
	Number      int       `json:"calendar_version_number"`
	Label       string    `json:"calendar_version_label"`
	EventCount  int       `json:"event_count"`
	BlockedDays int       `json:"blocked_day_count"`
	CreatedBy   uuid.UUID `json:"calendar_version_created_by"`
	CreatedAt   time.Time `json:"calendar_version_created_at"`
}

type VersionDetailResponse struct {
	VersionResponse
	Snapshot snapshot.Snapshot `json:"calendar_version_snapshot"`
}

func FromVersionModel(m versionModel.CalendarVersionModel) VersionResponse {
	snap := m.Snapshot()
	return VersionResponse{
		ID:          m.CalendarVersionID,
		CalendarID:  m.CalendarVersionCalendarID,
		Number:      m.CalendarVersionNumber,
		Label:       m.CalendarVersionLabel,
		EventCount:  len(snap.Events),
		BlockedDays: len(snap.BlockedDays),
		CreatedBy:   m.CalendarVersionCreatedBy,
		CreatedAt:   m.CalendarVersionCreatedAt,
	}
}

func FromVersionModels(ms []versionModel.CalendarVersionModel) []VersionResponse {
	out := make([]VersionResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromVersionModel(m))
	}
	return out
}

func NewVersionDetail(m versionModel.CalendarVersionModel) VersionDetailResponse {
	return VersionDetailResponse{
		VersionResponse: FromVersionModel(m),
		Snapshot:        m.Snapshot(),
	}
}
