package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authModel "examplanner_backend/internals/features/users/auth/model"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	user := authModel.UserModel{UserID: uuid.New(), UserName: "admin", UserRole: "admin"}
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	tok, exp, err := IssueAccessToken("secret", user, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(AccessTokenTTL), exp)

	claims, err := ParseAccessToken("secret", tok, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.UserID)
	assert.Equal(t, "admin", claims.UserName)
	assert.Equal(t, "admin", claims.Role)
}

func TestAccessToken_Rejects(t *testing.T) {
	user := authModel.UserModel{UserID: uuid.New(), UserName: "editor", UserRole: "editor"}
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	tok, _, err := IssueAccessToken("secret", user, now)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", tok, now)
	assert.Error(t, err)

	_, err = ParseAccessToken("secret", tok, now.Add(AccessTokenTTL+time.Minute))
	assert.Error(t, err)

	_, _, err = IssueAccessToken("", user, now)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NoError(t, CheckPasswordHash(h, "admin123"))
	assert.Error(t, CheckPasswordHash(h, "nope"))
}
