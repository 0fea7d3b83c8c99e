package model

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examplanner_backend/internals/constants"
)

// UserModel is an account of the planner (admin, editor or viewer).
type UserModel struct {
	UserID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:user_id" json:"user_id"`
	UserName      string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_users_user_name;column:user_name" json:"user_name"`
	UserPassword  string    `gorm:"type:text;not null;column:user_password" json:"-"`
	UserRole      string    `gorm:"type:varchar(20);not null;default:'viewer';column:user_role" json:"user_role"`
	UserIsActive  bool      `gorm:"not null;column:user_is_active" json:"user_is_active"`
	UserCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:user_updated_at" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeSave(tx *gorm.DB) error {
	u.UserName = strings.TrimSpace(u.UserName)
	if u.UserName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_name is required")
	}
	if u.UserRole == "" {
		u.UserRole = constants.RoleViewer
	}
	if !constants.IsValidRole(u.UserRole) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user_role")
	}
	return nil
}
