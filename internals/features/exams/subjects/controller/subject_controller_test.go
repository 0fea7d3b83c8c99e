package controller

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSubjectApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	h := NewSubjectController(db, validator.New())
	app := fiber.New()
	app.Patch("/subjects/:id", h.UpdateSubject)
	return app, mock
}

func patchSubject(t *testing.T, app *fiber.App, id uuid.UUID, body string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPatch, "/subjects/"+id.String(), strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestUpdateSubject_BlankNameRejected(t *testing.T) {
	app, mock := newSubjectApp(t)

	code := patchSubject(t, app, uuid.New(), `{"subject_name":"   "}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	// rejected before any query
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSubject_HookErrorIsBadRequest(t *testing.T) {
	app, mock := newSubjectApp(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "subjects" WHERE subject_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "subject_name", "subject_semester_group"}).
			AddRow(id.String(), "Anatomía", "SEM9"))
	mock.ExpectRollback()

	code := patchSubject(t, app, id, `{"subject_is_heavy":true}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
