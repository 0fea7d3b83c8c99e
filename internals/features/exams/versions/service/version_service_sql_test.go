package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"examplanner_backend/internals/features/exams/store"
	helper "examplanner_backend/internals/helpers"
)

func TestSave_ConcurrentNumberIsConflict(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	calID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "exam_calendars" WHERE exam_calendar_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"exam_calendar_id", "exam_calendar_name"}).AddRow(calID.String(), "2026-1"))
	mock.ExpectQuery(`FROM "exam_events" LEFT JOIN "subjects" "Subject"`).
		WillReturnRows(sqlmock.NewRows([]string{"exam_event_id"}))
	mock.ExpectQuery(`SELECT \* FROM "calendar_blocked_days"`).
		WillReturnRows(sqlmock.NewRows([]string{"blocked_day_id"}))
	mock.ExpectQuery(`SELECT \* FROM "rules" WHERE rule_enabled = \$1 AND rule_calendar_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"rule_id"}))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(calendar_version_number\), 0\) FROM "calendar_versions"`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(1))
	// another request committed version 2 first
	mock.ExpectQuery(`INSERT INTO "calendar_versions"`).
		WillReturnError(&pgconn.PgError{Code: helper.PGUniqueViolation})
	mock.ExpectRollback()

	v, err := New(store.NewGormStore(db)).Save(context.Background(), calID, "", uuid.New())
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
