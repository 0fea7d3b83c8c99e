// file: internals/features/exams/subjects/model/subject_model.go
package model

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	helper "examplanner_backend/internals/helpers"
	"examplanner_backend/internals/helpers/dbtime"
)

type SemesterGroup string

const (
	SemesterGroupSEM2  SemesterGroup = "SEM2"
	SemesterGroupSEM4  SemesterGroup = "SEM4"
	SemesterGroupExtra SemesterGroup = "EXTRA"
)

var semesterGroupLabels = map[SemesterGroup]string{
	SemesterGroupSEM2:  "2do semestre",
	SemesterGroupSEM4:  "4to semestre",
	SemesterGroupExtra: "Extra",
}

func (g SemesterGroup) Valid() bool { _, ok := semesterGroupLabels[g]; return ok }
func (g SemesterGroup) Label() string {
	if l, ok := semesterGroupLabels[g]; ok {
		return l
	}
	return string(g)
}

type SubjectModel struct {
	SubjectID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:subject_id" json:"subject_id"`
	SubjectName string    `gorm:"type:varchar(200);not null;column:subject_name" json:"subject_name"`
	SubjectCode *string   `gorm:"type:varchar(40);column:subject_code" json:"subject_code,omitempty"`

	SubjectSemesterGroup SemesterGroup `gorm:"type:varchar(8);not null;column:subject_semester_group" json:"subject_semester_group"`
	SubjectIsHeavy       bool          `gorm:"not null;default:false;column:subject_is_heavy" json:"subject_is_heavy"`

	// Empty = unrestricted. When both are set, both must hold.
	SubjectAllowedWeekdays pq.StringArray `gorm:"type:text[];not null;default:'{}';column:subject_allowed_weekdays" json:"subject_allowed_weekdays"`
	SubjectFixedDates      pq.StringArray `gorm:"type:text[];not null;default:'{}';column:subject_fixed_dates" json:"subject_fixed_dates"`

	SubjectCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:subject_created_at" json:"subject_created_at"`
	SubjectUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:subject_updated_at" json:"subject_updated_at"`
}

func (SubjectModel) TableName() string { return "subjects" }

// AllowsWeekday: true when unrestricted or the weekday is listed.
func (m *SubjectModel) AllowsWeekday(d dbtime.Date) bool {
	if len(m.SubjectAllowedWeekdays) == 0 {
		return true
	}
	name := d.WeekdayName()
	for _, w := range m.SubjectAllowedWeekdays {
		if w == name {
			return true
		}
	}
	return false
}

// AllowsDate: true when unrestricted or the ISO date is listed.
func (m *SubjectModel) AllowsDate(d dbtime.Date) bool {
	if len(m.SubjectFixedDates) == 0 {
		return true
	}
	iso := d.String()
	for _, f := range m.SubjectFixedDates {
		if f == iso {
			return true
		}
	}
	return false
}

// ============ Hooks: validation & light normalization ============
func (m *SubjectModel) BeforeSave(tx *gorm.DB) error {
	m.SubjectName = helper.NormalizeText(m.SubjectName)
	if m.SubjectName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "subject_name is required")
	}
	if !m.SubjectSemesterGroup.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid subject_semester_group %q", m.SubjectSemesterGroup))
	}
	if m.SubjectCode != nil {
		c := helper.NormalizeText(*m.SubjectCode)
		if c == "" {
			m.SubjectCode = nil
		} else {
			m.SubjectCode = &c
		}
	}
	if m.SubjectAllowedWeekdays == nil {
		m.SubjectAllowedWeekdays = pq.StringArray{}
	}
	for _, w := range m.SubjectAllowedWeekdays {
		if !dbtime.IsWeekdayName(w) {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid weekday %q", w))
		}
	}
	if m.SubjectFixedDates == nil {
		m.SubjectFixedDates = pq.StringArray{}
	}
	for i, f := range m.SubjectFixedDates {
		d, err := dbtime.ParseDate(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid fixed date %q", f))
		}
		m.SubjectFixedDates[i] = d.String()
	}
	return nil
}
