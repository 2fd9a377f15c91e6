package notificationRoutes

import (
	notificationControllers "lms/controllers/notification"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notifications", middleware.JWTMiddleware)

	notificationGroup.Get("/", notificationControllers.GetNotifications)
	notificationGroup.Patch("/mark-all-read", notificationControllers.MarkAllRead)
	notificationGroup.Patch("/:id/read", notificationControllers.MarkRead)
}
