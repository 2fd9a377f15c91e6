package userRoutes

import (
	userControllers "lms/controllers/users"
	"lms/middleware"
	"lms/models"
	userValidators "lms/validators/users"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	adminGate := middleware.RequireRole(models.RoleOrgAdmin, models.RoleSystemAdmin)
	userGroup := app.Group("/users", middleware.JWTMiddleware, adminGate)

	userGroup.Get("/", userControllers.GetUsers)
	userGroup.Post("/", userValidators.CreateUser(), userControllers.CreateUser)
	userGroup.Post("/bulk", userValidators.BulkCreateUsers(), userControllers.BulkCreateUsers)
}
