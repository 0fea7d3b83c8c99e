package demo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	authModel "examplanner_backend/internals/features/users/auth/model"
	authService "examplanner_backend/internals/features/users/auth/service"
	"examplanner_backend/internals/helpers/dbtime"
)

type DemoSeed struct {
	Admin struct {
		UserName string `json:"user_name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	} `json:"admin"`
	Subjects []struct {
		Name            string   `json:"name"`
		SemesterGroup   string   `json:"semester_group"`
		IsHeavy         bool     `json:"is_heavy"`
		AllowedWeekdays []string `json:"allowed_weekdays"`
	} `json:"subjects"`
	Calendar struct {
		Name        string   `json:"name"`
		PeriodType  string   `json:"period_type"`
		StartDate   string   `json:"start_date"`
		EndDate     string   `json:"end_date"`
		BlockedDays []string `json:"blocked_days"`
	} `json:"calendar"`
	Rules []struct {
		Kind     string `json:"kind"`
		Severity string `json:"severity"`
		SubjectA string `json:"subject_a"`
		SubjectB string `json:"subject_b"`
	} `json:"rules"`
}

// SeedDemoFromJSON loads the demo data set. Running it twice changes nothing.
func SeedDemoFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading file:", filePath)
	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Failed to read JSON file: %v", err)
	}
	var seed DemoSeed
	if err := json.Unmarshal(file, &seed); err != nil {
		log.Fatalf("❌ Failed to decode JSON: %v", err)
	}
	if err := db.Transaction(func(tx *gorm.DB) error { return Seed(tx, seed) }); err != nil {
		log.Fatalf("❌ Demo seed failed: %v", err)
	}
	log.Printf("✅ Demo seed loaded. User %s/%s", seed.Admin.UserName, seed.Admin.Password)
}

func Seed(tx *gorm.DB, seed DemoSeed) error {
	admin, err := seedAdmin(tx, seed)
	if err != nil {
		return fmt.Errorf("admin: %w", err)
	}

	subjects := make(map[string]uuid.UUID, len(seed.Subjects))
	for _, s := range seed.Subjects {
		m := subjectModel.SubjectModel{
			SubjectName:            s.Name,
			SubjectSemesterGroup:   subjectModel.SemesterGroup(s.SemesterGroup),
			SubjectIsHeavy:         s.IsHeavy,
			SubjectAllowedWeekdays: pq.StringArray(s.AllowedWeekdays),
		}
		if err := tx.Where("subject_name = ?", s.Name).
			Attrs(m).FirstOrCreate(&m).Error; err != nil {
			return fmt.Errorf("subject %q: %w", s.Name, err)
		}
		subjects[s.Name] = m.SubjectID
	}

	start, err := dbtime.ParseDate(seed.Calendar.StartDate)
	if err != nil {
		return err
	}
	end, err := dbtime.ParseDate(seed.Calendar.EndDate)
	if err != nil {
		return err
	}
	cal := calendarModel.ExamCalendarModel{
		ExamCalendarName:       seed.Calendar.Name,
		ExamCalendarPeriodType: calendarModel.PeriodType(seed.Calendar.PeriodType),
		ExamCalendarStartDate:  start,
		ExamCalendarEndDate:    end,
		ExamCalendarCreatedBy:  admin.UserID,
	}
	if err := tx.Where("exam_calendar_name = ? AND exam_calendar_period_type = ?", cal.ExamCalendarName, cal.ExamCalendarPeriodType).
		Attrs(cal).FirstOrCreate(&cal).Error; err != nil {
		return fmt.Errorf("calendar: %w", err)
	}

	for _, raw := range seed.Calendar.BlockedDays {
		day, err := dbtime.ParseDate(raw)
		if err != nil {
			return err
		}
		b := calendarModel.CalendarBlockedDayModel{BlockedDayCalendarID: cal.ExamCalendarID, BlockedDayDate: day}
		if err := tx.Where("blocked_day_calendar_id = ? AND blocked_day_date = ?", cal.ExamCalendarID, day).
			Attrs(b).FirstOrCreate(&b).Error; err != nil {
			return fmt.Errorf("blocked day %s: %w", raw, err)
		}
	}

	for _, r := range seed.Rules {
		m := ruleModel.RuleModel{
			RuleCalendarID: &cal.ExamCalendarID,
			RuleKind:       ruleModel.Kind(r.Kind),
			RuleSeverity:   ruleModel.Severity(r.Severity),
			RuleParams:     datatypes.JSON("{}"),
			RuleEnabled:    true,
		}
		q := tx.Where("rule_calendar_id = ? AND rule_kind = ?", cal.ExamCalendarID, m.RuleKind)
		if r.SubjectA != "" {
			id, ok := subjects[r.SubjectA]
			if !ok {
				return fmt.Errorf("rule %s: unknown subject %q", r.Kind, r.SubjectA)
			}
			m.RuleSubjectAID = &id
			q = q.Where("rule_subject_a_id = ?", id)
		}
		if r.SubjectB != "" {
			id, ok := subjects[r.SubjectB]
			if !ok {
				return fmt.Errorf("rule %s: unknown subject %q", r.Kind, r.SubjectB)
			}
			m.RuleSubjectBID = &id
			q = q.Where("rule_subject_b_id = ?", id)
		}
		if err := q.Attrs(m).FirstOrCreate(&m).Error; err != nil {
			return fmt.Errorf("rule %s: %w", r.Kind, err)
		}
	}
	return nil
}

func seedAdmin(tx *gorm.DB, seed DemoSeed) (*authModel.UserModel, error) {
	var user authModel.UserModel
	err := tx.Where("user_name = ?", seed.Admin.UserName).First(&user).Error
	if err == nil {
		log.Printf("ℹ️ user %q already exists, skipped", user.UserName)
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := authService.HashPassword(seed.Admin.Password)
	if err != nil {
		return nil, err
	}
	user = authModel.UserModel{
		UserName:     seed.Admin.UserName,
		UserPassword: hash,
		UserRole:     seed.Admin.Role,
		UserIsActive: true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
