package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"checkride_backend/internals/middlewares/logger"
)

// SetupMiddlewares mounts the base middleware chain in order.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
