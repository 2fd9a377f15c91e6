package authRoutes

import (
	authControllers "lms/controllers/auth"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/forgot-password", authValidators.ForgotPassword(), authControllers.ForgotPassword)
	authGroup.Get("/verify-reset-token", authControllers.VerifyResetToken)
	authGroup.Post("/reset-password", authValidators.ResetPassword(), authControllers.ResetPassword)
}
