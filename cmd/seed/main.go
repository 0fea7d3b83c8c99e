package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"examplanner_backend/internals/configs"
	database "examplanner_backend/internals/databases"
	"examplanner_backend/internals/seeds"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Database maintenance for the exam planner",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newDemoCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the planner tables and constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(database.AutoMigrate)
		},
	}
}

func newDemoCmd() *cobra.Command {
	var (
		dataPath string
		migrate  bool
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Load the demo data set (admin user, subjects, calendar 2026-1, rules)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				if migrate {
					if err := database.AutoMigrate(db); err != nil {
						return err
					}
				}
				seeds.RunAllSeeds(db, dataPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", seeds.DemoDataPath, "path to the demo JSON data set")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run migrations before seeding")
	return cmd
}

func withDB(fn func(db *gorm.DB) error) error {
	configs.LoadEnv()
	db := configs.InitSeederDB()
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := fn(db); err != nil {
		log.Printf("❌ %v", err)
		return err
	}
	return nil
}
