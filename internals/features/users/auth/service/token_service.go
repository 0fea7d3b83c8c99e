// internals/features/users/auth/service/token_service.go
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	authModel "examplanner_backend/internals/features/users/auth/model"
)

const AccessTokenTTL = 12 * time.Hour

// AccessClaims is what the auth middleware needs back from a token.
type AccessClaims struct {
	UserID    uuid.UUID
	UserName  string
	Role      string
	ExpiresAt time.Time
}

func IssueAccessToken(secret string, user authModel.UserModel, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("JWT_SECRET is empty")
	}
	exp := now.Add(AccessTokenTTL)
	claims := jwt.MapClaims{
		"id":        user.UserID.String(),
		"user_name": user.UserName,
		"role":      user.UserRole,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// ParseAccessToken verifies signature and expiry (with a small clock skew).
func ParseAccessToken(secret, raw string, now time.Time) (*AccessClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is empty")
	}
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}); err != nil {
		return nil, err
	}

	expF, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("token has no exp")
	}
	exp := time.Unix(int64(expF), 0)
	if now.After(exp.Add(30 * time.Second)) {
		return nil, fmt.Errorf("token expired at %v", exp.UTC())
	}

	idStr, _ := claims["id"].(string)
	id, err := uuid.Parse(strings.TrimSpace(idStr))
	if err != nil {
		return nil, errors.New("invalid user id")
	}
	out := &AccessClaims{UserID: id, ExpiresAt: exp}
	out.UserName, _ = claims["user_name"].(string)
	out.Role, _ = claims["role"].(string)
	return out, nil
}
