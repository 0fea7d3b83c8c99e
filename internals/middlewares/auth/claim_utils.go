// internals/middlewares/auth/claim_utils.go
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authService "examplanner_backend/internals/features/users/auth/service"
	helper "examplanner_backend/internals/helpers"
)

var errUserInactive = errors.New("user inactive")

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies(helper.AccessTokenCookie); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errors.New("No se envió el token de acceso")
	}

	// tolerate double spaces and lowercase "bearer"
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errors.New("Formato de token inválido")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errors.New("Token vacío")
	}
	return tok, nil
}

// loadActiveUser re-reads the account so deactivation and role changes apply
// to tokens issued before them. Returns the current role.
func loadActiveUser(db *gorm.DB, userID uuid.UUID) (string, error) {
	var user struct {
		UserRole     string
		UserIsActive bool
	}
	if err := db.Table("users").
		Select("user_role", "user_is_active").
		Where("user_id = ?", userID).
		Take(&user).Error; err != nil {
		return "", err
	}
	if !user.UserIsActive {
		return "", errUserInactive
	}
	return user.UserRole, nil
}

/* ======== Store claims to Locals ======== */

// The stored role is the one from the users row, not the token.
func storeClaimsToLocals(c *fiber.Ctx, claims *authService.AccessClaims, role string) {
	c.Locals(helper.LocUserID, claims.UserID.String())
	if role != "" {
		c.Locals(helper.LocUserRole, role)
	}
	if claims.UserName != "" {
		c.Locals(helper.LocUserName, claims.UserName)
	}
}
