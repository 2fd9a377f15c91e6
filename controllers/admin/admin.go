package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// GetOrganizations handles GET /admin/organizations
func GetOrganizations(c *fiber.Ctx) error {
	var organizations []models.Organization
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("created_at desc").Find(&organizations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch organizations!", nil)
	}

	type OrganizationWithUsage struct {
		models.Organization
		UsedSeats int64 `json:"used_seats"`
	}

	result := make([]OrganizationWithUsage, len(organizations))
	for i, org := range organizations {
		var used int64
		database.Database.Db.Model(&models.User{}).
			Where("organization_id = ? AND role = ? AND is_deleted = ?", org.ID, models.RoleOrgUser, false).
			Count(&used)
		result[i] = OrganizationWithUsage{Organization: org, UsedSeats: used}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organizations fetched successfully!", fiber.Map{
		"organizations": result,
	})
}

// GetPurchases handles GET /admin/purchases
func GetPurchases(c *fiber.Ctx) error {
	var purchases []models.PackagePurchase
	if err := database.Database.Db.Order("purchased_at desc").Find(&purchases).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch purchases!", nil)
	}

	type PurchaseWithNames struct {
		models.PackagePurchase
		OrganizationName string `json:"organization_name"`
		PurchasedBy      string `json:"purchased_by"`
	}

	result := make([]PurchaseWithNames, len(purchases))
	for i, purchase := range purchases {
		var org models.Organization
		database.Database.Db.Where("id = ?", purchase.OrganizationID).First(&org)
		var buyer models.User
		database.Database.Db.Where("id = ?", purchase.PurchasedByID).First(&buyer)
		result[i] = PurchaseWithNames{
			PackagePurchase:  purchase,
			OrganizationName: org.Name,
			PurchasedBy:      buyer.Name,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchases fetched successfully!", fiber.Map{
		"purchases": result,
	})
}

// GetPricing handles GET /admin/pricing
func GetPricing(c *fiber.Ctx) error {
	var prices []models.PackagePrice
	if err := database.Database.Db.Order("amount asc").Find(&prices).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pricing!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pricing fetched successfully!", fiber.Map{
		"pricing": prices,
	})
}

// UpdatePricing handles PUT /admin/pricing, upserting one package type
func UpdatePricing(c *fiber.Ctx) error {
	reqData := new(struct {
		PackageType string  `json:"package_type"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Currency    string  `json:"currency"`
		MaxUsers    int     `json:"max_users"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.PackageType == "" || reqData.MaxUsers < 1 || reqData.Amount < 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid pricing data!", nil)
	}

	var price models.PackagePrice
	if err := database.Database.Db.Where("package_type = ?", reqData.PackageType).First(&price).Error; err != nil {
		price = models.PackagePrice{PackageType: reqData.PackageType}
	}

	price.Title = reqData.Title
	price.Description = reqData.Description
	price.Amount = reqData.Amount
	if reqData.Currency != "" {
		price.Currency = reqData.Currency
	}
	price.MaxUsers = reqData.MaxUsers

	if err := database.Database.Db.Save(&price).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update pricing!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pricing updated successfully!", price)
}

// DeletePricing handles DELETE /admin/pricing/:packageType. A package with
// purchase history stays: the audit rows reference it.
func DeletePricing(c *fiber.Ctx) error {
	packageType := c.Params("packageType")

	var price models.PackagePrice
	if err := database.Database.Db.Where("package_type = ?", packageType).First(&price).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Package not found!", nil)
	}

	var inUse int64
	database.Database.Db.Model(&models.PackagePurchase{}).Where("package_type = ?", packageType).Count(&inUse)
	if inUse > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Package is in use and cannot be deleted!", nil)
	}

	if err := database.Database.Db.Unscoped().Delete(&price).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete package!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Package deleted successfully!", nil)
}
