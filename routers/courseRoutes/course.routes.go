package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the learner-facing module routes
func SetupCourseRoutes(app *fiber.App) {
	moduleGroup := app.Group("/modules")

	// Minimal public listing for the marketing site
	moduleGroup.Get("/public", controllers.GetPublicModules)

	// Learner progression
	meGroup := moduleGroup.Group("/me", middleware.JWTMiddleware)
	meGroup.Get("/", controllers.GetMyModules)
	meGroup.Post("/:id/start", controllers.StartModule)
	meGroup.Post("/:id/complete", controllers.CompleteModule)
	meGroup.Post("/files/:id/start", controllers.StartModuleFile)
	meGroup.Post("/files/:id/complete", controllers.CompleteModuleFile)

	// Completion summary + certificate payload
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)
	progressGroup.Get("/certificate", controllers.GetMyCertificate)
}
