package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	versionModel "examplanner_backend/internals/features/exams/versions/model"
	authModel "examplanner_backend/internals/features/users/auth/model"
)

// Constraints GORM tags cannot express.
var extraConstraints = []struct {
	Table string
	Name  string
	DDL   string
}{
	{
		Table: "exam_calendars",
		Name:  "ck_exam_calendar_range",
		DDL:   "CHECK (exam_calendar_start_date <= exam_calendar_end_date)",
	},
	{
		Table: "exam_calendars",
		Name:  "fk_exam_calendar_created_by",
		DDL:   "FOREIGN KEY (exam_calendar_created_by) REFERENCES users(user_id) ON DELETE RESTRICT",
	},
	{
		Table: "calendar_versions",
		Name:  "fk_calendar_version_created_by",
		DDL:   "FOREIGN KEY (calendar_version_created_by) REFERENCES users(user_id) ON DELETE RESTRICT",
	},
	{
		Table: "rules",
		Name:  "ck_rule_scope",
		DDL:   "CHECK ((rule_global AND rule_calendar_id IS NULL) OR (NOT rule_global AND rule_calendar_id IS NOT NULL))",
	},
}

// AutoMigrate creates/updates every table, unique index and constraint the planner relies on.
func AutoMigrate(db *gorm.DB) error {
	log.Println("[INFO] Running migrations...")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&authModel.UserModel{},
		&authModel.TokenBlacklist{},
		&subjectModel.SubjectModel{},
		&calendarModel.ExamCalendarModel{},
		&calendarModel.CalendarBlockedDayModel{},
		&calendarModel.ExamEventModel{},
		&ruleModel.RuleModel{},
		&versionModel.CalendarVersionModel{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, c := range extraConstraints {
		var n int64
		if err := db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, c.Name).Scan(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		sql := fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s %s`, c.Table, c.Name, c.DDL)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", c.Name, err)
		}
		log.Printf("[INFO] constraint %s added", c.Name)
	}

	log.Println("[INFO] Migrations done.")
	return nil
}
