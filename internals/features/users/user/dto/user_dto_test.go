package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validation(t *testing.T) {
	v := validator.New()

	ok := CreateUserRequest{UserName: "editor1", Password: "secret1", Role: "editor"}
	require.NoError(t, v.Struct(ok))

	bad := ok
	bad.Role = "owner"
	assert.Error(t, v.Struct(bad))

	short := ok
	short.Password = "123"
	assert.Error(t, v.Struct(short))
}

func TestCreateUserRequest_ToModelDefaultsActive(t *testing.T) {
	m := CreateUserRequest{UserName: "  viewer1 ", Password: "secret1", Role: "viewer"}.ToModel()
	assert.Equal(t, "viewer1", m.UserName)
	assert.True(t, m.UserIsActive)
	assert.Empty(t, m.UserPassword)

	off := false
	m = CreateUserRequest{UserName: "x12", Password: "secret1", Role: "viewer", IsActive: &off}.ToModel()
	assert.False(t, m.UserIsActive)
}

func TestUpdateUserRequest_AllOptional(t *testing.T) {
	v := validator.New()
	assert.NoError(t, v.Struct(UpdateUserRequest{}))

	role := "root"
	assert.Error(t, v.Struct(UpdateUserRequest{Role: &role}))
}
