// internals/features/exams/subjects/dto/subject_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
)

/* =========================================================
   1) REQUEST DTO
   ========================================================= */

type CreateSubjectRequest struct {
	Name            string   `json:"subject_name" validate:"required,max=200"`
	Code            *string  `json:"subject_code" validate:"omitempty,max=40"`
	SemesterGroup   string   `json:"subject_semester_group" validate:"required,oneof=SEM2 SEM4 EXTRA"`
	IsHeavy         *bool    `json:"subject_is_heavy" validate:"omitempty"`
	AllowedWeekdays []string `json:"subject_allowed_weekdays" validate:"omitempty,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	FixedDates      []string `json:"subject_fixed_dates" validate:"omitempty,dive,datetime=2006-01-02"`
}

// Update (partial)
type UpdateSubjectRequest struct {
	Name            *string   `json:"subject_name" validate:"omitnil,min=1,max=200"`
	Code            *string   `json:"subject_code" validate:"omitempty,max=40"`
	SemesterGroup   *string   `json:"subject_semester_group" validate:"omitempty,oneof=SEM2 SEM4 EXTRA"`
	IsHeavy         *bool     `json:"subject_is_heavy" validate:"omitempty"`
	AllowedWeekdays *[]string `json:"subject_allowed_weekdays" validate:"omitempty,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	FixedDates      *[]string `json:"subject_fixed_dates" validate:"omitempty,dive,datetime=2006-01-02"`
}

type ListSubjectQuery struct {
	Q             *string `query:"q" validate:"omitempty,max=100"`
	SemesterGroup *string `query:"semester_group" validate:"omitempty,oneof=SEM2 SEM4 EXTRA"`
	IsHeavy       *bool   `query:"is_heavy"`
}

/* =========================================================
   2) RESPONSE DTO
   ========================================================= */

type SubjectResponse struct {
	ID                 uuid.UUID `json:"subject_id"`
	Name               string    `json:"subject_name"`
	Code               *string   `json:"subject_code,omitempty"`
	SemesterGroup      string    `json:"subject_semester_group"`
	SemesterGroupLabel string    `json:"subject_semester_group_label"`
	IsHeavy            bool      `json:"subject_is_heavy"`
	AllowedWeekdays    []string  `json:"subject_allowed_weekdays"`
	FixedDates         []string  `json:"subject_fixed_dates"`
	CreatedAt          time.Time `json:"subject_created_at"`
	UpdatedAt          time.Time `json:"subject_updated_at"`
}

/* =========================================================
   3) MAPPERS
   ========================================================= */

func (r CreateSubjectRequest) ToModel() subjectModel.SubjectModel {
	isHeavy := false
	if r.IsHeavy != nil {
		isHeavy = *r.IsHeavy
	}
	return subjectModel.SubjectModel{
		SubjectName:            strings.TrimSpace(r.Name),
		SubjectCode:            r.Code,
		SubjectSemesterGroup:   subjectModel.SemesterGroup(r.SemesterGroup),
		SubjectIsHeavy:         isHeavy,
		SubjectAllowedWeekdays: uniqueStrings(r.AllowedWeekdays),
		SubjectFixedDates:      uniqueStrings(r.FixedDates),
	}
}

// Normalize trims the name in place so a blank one fails validation.
func (r *UpdateSubjectRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
}

// Apply updates only provided (non-nil) fields to model.
func (r UpdateSubjectRequest) Apply(m *subjectModel.SubjectModel) {
	if r.Name != nil {
		m.SubjectName = strings.TrimSpace(*r.Name)
	}
	if r.Code != nil {
		m.SubjectCode = r.Code // empty string becomes NULL in BeforeSave
	}
	if r.SemesterGroup != nil {
		m.SubjectSemesterGroup = subjectModel.SemesterGroup(*r.SemesterGroup)
	}
	if r.IsHeavy != nil {
		m.SubjectIsHeavy = *r.IsHeavy
	}
	if r.AllowedWeekdays != nil {
		m.SubjectAllowedWeekdays = uniqueStrings(*r.AllowedWeekdays)
	}
	if r.FixedDates != nil {
		m.SubjectFixedDates = uniqueStrings(*r.FixedDates)
	}
}

func FromSubjectModel(m subjectModel.SubjectModel) SubjectResponse {
	return SubjectResponse{
		ID:                 m.SubjectID,
		Name:               m.SubjectName,
		Code:               m.SubjectCode,
		SemesterGroup:      string(m.SubjectSemesterGroup),
		SemesterGroupLabel: m.SubjectSemesterGroup.Label(),
		IsHeavy:            m.SubjectIsHeavy,
		AllowedWeekdays:    nonNil(m.SubjectAllowedWeekdays),
		FixedDates:         nonNil(m.SubjectFixedDates),
		CreatedAt:          m.SubjectCreatedAt,
		UpdatedAt:          m.SubjectUpdatedAt,
	}
}

func FromSubjectModels(models []subjectModel.SubjectModel) []SubjectResponse {
	out := make([]SubjectResponse, 0, len(models))
	for _, m := range models {
		out = append(out, FromSubjectModel(m))
	}
	return out
}

func uniqueStrings(in []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func nonNil(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return a
}
