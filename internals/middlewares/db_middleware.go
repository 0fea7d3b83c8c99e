package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const LocDB = "db"

// DBMiddleware puts the connection in Locals for handlers that are not controller-bound (health).
func DBMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocDB, db)
		return c.Next()
	}
}

func DBFromCtx(c *fiber.Ctx) *gorm.DB {
	db, _ := c.Locals(LocDB).(*gorm.DB)
	return db
}
