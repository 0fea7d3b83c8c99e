package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authModel "examplanner_backend/internals/features/users/auth/model"
	authService "examplanner_backend/internals/features/users/auth/service"
	userDTO "examplanner_backend/internals/features/users/user/dto"
	helper "examplanner_backend/internals/helpers"
)

type UserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewUserController(db *gorm.DB, v *validator.Validate) *UserController {
	return &UserController{DB: db, Validator: v}
}

// GET /api/users?q=&role=
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)

	tx := uc.DB.WithContext(c.UserContext()).Model(&authModel.UserModel{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("user_name ILIKE ?", "%"+q+"%")
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		tx = tx.Where("user_role = ?", role)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	var users []authModel.UserModel
	if err := tx.Order("user_name ASC").Limit(paging.Limit).Offset(paging.Offset).Find(&users).Error; err != nil {
		log.Println("[ERROR] Failed to fetch users:", err)
		return helper.FromFiberError(c, err)
	}

	pg := helper.BuildPagination(total, paging, len(users))
	return helper.JsonList(c, "ok", userDTO.FromUserModels(users), &pg)
}

// POST /api/users
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req userDTO.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.UserName = strings.TrimSpace(req.UserName)
	if err := uc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user := req.ToModel()
	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user.UserPassword = hash

	if err := uc.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "El nombre de usuario ya existe")
		}
		return helper.FromFiberError(c, err)
	}

	log.Printf("[INFO] user created %s (%s)", user.UserName, user.UserRole)
	return helper.JsonCreated(c, "Usuario creado", userDTO.FromUserModel(user))
}

// PATCH /api/users/:id
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req userDTO.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	if err := uc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	self, _ := helper.GetUserIDFromToken(c)
	if self == id && ((req.Role != nil && *req.Role != helper.GetUserRole(c)) || (req.IsActive != nil && !*req.IsActive)) {
		return helper.JsonError(c, fiber.StatusBadRequest, "No puede cambiar su propio rol ni desactivarse")
	}

	var user authModel.UserModel
	if err := uc.DB.WithContext(c.UserContext()).First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Usuario no encontrado")
		}
		return helper.FromFiberError(c, err)
	}
	if req.Password != nil {
		hash, err := authService.HashPassword(*req.Password)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		user.UserPassword = hash
	}
	if req.Role != nil {
		user.UserRole = *req.Role
	}
	if req.IsActive != nil {
		user.UserIsActive = *req.IsActive
	}
	if err := uc.DB.WithContext(c.UserContext()).Save(&user).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Usuario actualizado", userDTO.FromUserModel(user))
}

// DELETE /api/users/:id. Refused while the user still owns calendars or versions.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if self, _ := helper.GetUserIDFromToken(c); self == id {
		return helper.JsonError(c, fiber.StatusBadRequest, "No puede eliminar su propia cuenta")
	}

	res := uc.DB.WithContext(c.UserContext()).Where("user_id = ?", id).Delete(&authModel.UserModel{})
	if res.Error != nil {
		if helper.IsForeignKeyViolation(res.Error) {
			return helper.JsonError(c, fiber.StatusConflict, "El usuario tiene calendarios o versiones a su nombre; desactívelo en su lugar.")
		}
		return helper.FromFiberError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Usuario no encontrado")
	}
	return helper.JsonDeleted(c, "Usuario eliminado", fiber.Map{"user_id": id})
}
