package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up system-admin module management
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGate := middleware.RequireRole(models.RoleSystemAdmin)
	moduleGroup := app.Group("/modules", middleware.JWTMiddleware, adminGate)

	moduleGroup.Get("/", controllers.ListModules)
	moduleGroup.Post("/", validators.CreateModule(), controllers.CreateModule)
	moduleGroup.Post("/upload", controllers.UploadMedia)
	moduleGroup.Put("/files/:id", validators.UpdateModuleFile(), controllers.UpdateModuleFile)
	moduleGroup.Delete("/files/:id", controllers.DeleteModuleFile)
	moduleGroup.Post("/:id/files", validators.AddModuleFile(), controllers.AddModuleFile)
	moduleGroup.Put("/:id", validators.UpdateModule(), controllers.UpdateModule)
	moduleGroup.Delete("/:id", controllers.DeleteModule)
}
