package purchaseRoutes

import (
	purchaseControllers "lms/controllers/purchase"
	purchaseValidators "lms/validators/purchase"

	"github.com/gofiber/fiber/v2"
)

func SetupPurchaseRoutes(app *fiber.App) {
	purchaseGroup := app.Group("/purchases")

	purchaseGroup.Post("/", purchaseValidators.CreatePurchase(), purchaseControllers.CreatePurchase)
	purchaseGroup.Get("/pricing", purchaseControllers.GetPricing)
}
