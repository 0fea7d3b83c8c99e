package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	authModel "examplanner_backend/internals/features/users/auth/model"
)

type CreateUserRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"user_role" validate:"required,oneof=admin editor viewer"`
	IsActive *bool  `json:"user_is_active"`
}

type UpdateUserRequest struct {
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"user_role" validate:"omitempty,oneof=admin editor viewer"`
	IsActive *bool   `json:"user_is_active"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Role      string    `json:"user_role"`
	IsActive  bool      `json:"user_is_active"`
	CreatedAt time.Time `json:"user_created_at"`
	UpdatedAt time.Time `json:"user_updated_at"`
}

// ToModel leaves the password hash to the caller.
func (r CreateUserRequest) ToModel() authModel.UserModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return authModel.UserModel{
		UserName:     strings.TrimSpace(r.UserName),
		UserRole:     r.Role,
		UserIsActive: active,
	}
}

func FromUserModel(m authModel.UserModel) UserResponse {
	return UserResponse{
		ID:        m.UserID,
		UserName:  m.UserName,
		Role:      m.UserRole,
		IsActive:  m.UserIsActive,
		CreatedAt: m.UserCreatedAt,
		UpdatedAt: m.UserUpdatedAt,
	}
}

func FromUserModels(ms []authModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromUserModel(m))
	}
	return out
}
