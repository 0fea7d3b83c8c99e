package seeds

import (
	"gorm.io/gorm"

	"examplanner_backend/internals/seeds/demo"
)

const DemoDataPath = "internals/seeds/demo/data_demo.json"

func RunAllSeeds(db *gorm.DB, demoPath string) {
	if demoPath == "" {
		demoPath = DemoDataPath
	}

	//* Demo planner data (admin, subjects, calendar 2026-1, rules)
	demo.SeedDemoFromJSON(db, demoPath)
}
