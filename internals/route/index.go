// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authMiddleware "examplanner_backend/internals/middlewares/auth"
	routeDetails "examplanner_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()
	v := validator.New()

	BaseRoutes(app, db)

	api := app.Group("/api")

	// ===================== AUTH (public login) =====================
	// Mounted first: the private group below matches every /api path it does not answer.
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(api, db, v)

	// ===================== PRIVATE =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api", authMiddleware.AuthMiddleware(db))

	log.Println("[INFO] Mounting Exam routes...")
	routeDetails.ExamRoutes(private, db, v)

	log.Println("[INFO] Mounting User admin routes...")
	routeDetails.UserRoutes(private, db, v)
}
