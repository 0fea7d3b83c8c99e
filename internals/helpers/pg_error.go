// file: internals/helpers/pg_error.go
package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	PGUniqueViolation     = "23505"
	PGForeignKeyViolation = "23503"
	PGCheckViolation      = "23514"
)

// PGCode extracts the SQLSTATE from a pgx or lib/pq error ("" if none).
func PGCode(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsUniqueViolation(err error) bool     { return PGCode(err) == PGUniqueViolation }
func IsForeignKeyViolation(err error) bool { return PGCode(err) == PGForeignKeyViolation }

// MapPGError maps constraint violations to an HTTP status + message.
func MapPGError(err error) (int, string, bool) {
	switch PGCode(err) {
	case PGUniqueViolation:
		return fiber.StatusConflict, "Registro duplicado.", true
	case PGForeignKeyViolation:
		return fiber.StatusConflict, "El registro está referenciado por otros registros.", true
	case PGCheckViolation:
		return fiber.StatusBadRequest, "Datos inconsistentes (restricción CHECK).", true
	}
	return 0, "", false
}
