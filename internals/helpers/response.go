package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidationError renders validator.ValidationErrors as a 422 keyed by JSON field name.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Datos inválidos")
	}

	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		key := fe.Field()
		fields[key] = append(fields[key], describeTag(fe))
	}
	return JsonValidationError(c, fields)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "fecha inválida, formato esperado YYYY-MM-DD"
	case "max":
		return fmt.Sprintf("máximo %s", fe.Param())
	case "min":
		return fmt.Sprintf("mínimo %s", fe.Param())
	case "uuid", "uuid4":
		return "identificador inválido"
	default:
		return fe.Tag()
	}
}
