package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"examplanner_backend/internals/metrics"
	"examplanner_backend/internals/middlewares/logger"
)

func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(metrics.Default.Middleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
