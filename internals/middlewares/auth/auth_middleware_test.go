package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"examplanner_backend/internals/configs"
	"examplanner_backend/internals/constants"
	authModel "examplanner_backend/internals/features/users/auth/model"
	authService "examplanner_backend/internals/features/users/auth/service"
	helper "examplanner_backend/internals/helpers"
)

const testSecret = "middleware-test-secret"

func newAuthDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func editorToken(t *testing.T) (string, uuid.UUID) {
	t.Helper()
	prev := configs.JWTSecret
	configs.JWTSecret = testSecret
	t.Cleanup(func() { configs.JWTSecret = prev })

	user := authModel.UserModel{UserID: uuid.New(), UserName: "editor1", UserRole: constants.RoleEditor}
	tok, _, err := authService.IssueAccessToken(testSecret, user, time.Now())
	require.NoError(t, err)
	return tok, user.UserID
}

func expectAccountLookup(mock sqlmock.Sqlmock, role string, active bool) {
	mock.ExpectQuery(`SELECT count\(\*\) FROM "token_blacklist"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT "user_role","user_is_active" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_role", "user_is_active"}).AddRow(role, active))
}

func editorRoute(db *gorm.DB, pre ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append(pre,
		AuthMiddleware(db),
		OnlyRoles(constants.RoleErrorEditor("calendarios"), constants.EditorAndAbove...),
		func(c *fiber.Ctx) error { return c.SendString(helper.GetUserRole(c)) },
	)
	app.Post("/calendars", handlers...)
	return app
}

func send(t *testing.T, app *fiber.App, tok string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/calendars", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware_RoleFromAccountRow(t *testing.T) {
	tok, _ := editorToken(t)

	t.Run("still editor", func(t *testing.T) {
		db, mock := newAuthDB(t)
		expectAccountLookup(mock, constants.RoleEditor, true)
		assert.Equal(t, fiber.StatusOK, send(t, editorRoute(db), tok))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("demoted to viewer after the token was issued", func(t *testing.T) {
		db, mock := newAuthDB(t)
		expectAccountLookup(mock, constants.RoleViewer, true)
		assert.Equal(t, fiber.StatusForbidden, send(t, editorRoute(db), tok))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deactivated", func(t *testing.T) {
		db, mock := newAuthDB(t)
		expectAccountLookup(mock, constants.RoleEditor, false)
		assert.Equal(t, fiber.StatusForbidden, send(t, editorRoute(db), tok))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthMiddleware_UsesRequestContext(t *testing.T) {
	tok, _ := editorToken(t)
	db, mock := newAuthDB(t)
	expectAccountLookup(mock, constants.RoleEditor, true)

	expired := func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(c.UserContext())
		cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
	assert.Equal(t, fiber.StatusInternalServerError, send(t, editorRoute(db, expired), tok))
	// the cancelled context stops the lookup before it reaches the driver
	assert.Error(t, mock.ExpectationsWereMet())
}
