package contactRoutes

import (
	contactControllers "lms/controllers/contact"
	"lms/middleware"
	"lms/models"
	contactValidators "lms/validators/contact"

	"github.com/gofiber/fiber/v2"
)

func SetupContactRoutes(app *fiber.App) {
	contactGroup := app.Group("/contact")

	contactGroup.Post("/", contactValidators.CreateContact(), contactControllers.CreateContact)

	adminGate := middleware.RequireRole(models.RoleSystemAdmin)
	contactGroup.Get("/", middleware.JWTMiddleware, adminGate, contactControllers.GetContacts)
	contactGroup.Patch("/:id/read", middleware.JWTMiddleware, adminGate, contactControllers.MarkContactRead)
	contactGroup.Delete("/:id", middleware.JWTMiddleware, adminGate, contactControllers.DeleteContact)
}
