package adminRoutes

import (
	adminControllers "lms/controllers/admin"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGate := middleware.RequireRole(models.RoleSystemAdmin)
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, adminGate)

	adminGroup.Get("/organizations", adminControllers.GetOrganizations)
	adminGroup.Get("/purchases", adminControllers.GetPurchases)
	adminGroup.Get("/pricing", adminControllers.GetPricing)
	adminGroup.Put("/pricing", adminControllers.UpdatePricing)
	adminGroup.Delete("/pricing/:packageType", adminControllers.DeletePricing)
}
