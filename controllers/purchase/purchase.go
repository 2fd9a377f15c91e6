package controllers

import (
	"strings"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	purchaseValidators "lms/validators/purchase"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultMaxUsers applies when the price list has no row for a package type
var defaultMaxUsers = map[string]int{
	models.PackageSingle:      1,
	models.PackageGroup:       5,
	models.PackageInstitution: 30,
}

// PurchaseResult bundles the rows written by one purchase
type PurchaseResult struct {
	Organization models.Organization    `json:"organization"`
	Admin        models.User            `json:"admin"`
	Purchase     models.PackagePurchase `json:"purchase"`
}

// createPurchase provisions organization + admin user + audit row in a
// single transaction so a failure can never leave an organization without
// an admin.
func createPurchase(db *gorm.DB, reqData *purchaseValidators.CreatePurchaseRequest) (*PurchaseResult, error) {
	var existing models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&existing).Error; err == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Email already registered!")
	}

	maxUsers := defaultMaxUsers[reqData.PackageType]
	amount := 0.0
	currency := "USD"
	var price models.PackagePrice
	if err := db.Where("package_type = ?", reqData.PackageType).First(&price).Error; err == nil {
		maxUsers = price.MaxUsers
		amount = price.Amount
		currency = price.Currency
	}

	orgName := reqData.OrganizationName
	if reqData.PackageType == models.PackageInstitution {
		orgName = reqData.InstituteName
	}

	adminName := reqData.Name
	if reqData.RoleAtSchool != "" && !strings.Contains(adminName, reqData.RoleAtSchool) {
		adminName = adminName + " (" + reqData.RoleAtSchool + ")"
	}

	// A one-seat package leaves nobody to administer, so the buyer is the
	// learner; otherwise the buyer administers the organization.
	role := models.RoleOrgAdmin
	if maxUsers <= 1 {
		role = models.RoleOrgUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password!")
	}

	result := &PurchaseResult{}

	err = db.Transaction(func(tx *gorm.DB) error {
		organization := models.Organization{
			Name:      orgName,
			Type:      reqData.PackageType,
			MaxUsers:  maxUsers,
			StartDate: time.Now(),
		}
		if err := tx.Create(&organization).Error; err != nil {
			return err
		}

		admin := models.User{
			Name:           adminName,
			Email:          reqData.Email,
			Password:       string(hashedPassword),
			Role:           role,
			OrganizationID: &organization.ID,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		purchase := models.PackagePurchase{
			OrganizationID: organization.ID,
			PackageType:    reqData.PackageType,
			PurchasedByID:  admin.ID,
			Amount:         amount,
			Currency:       currency,
			PurchasedAt:    time.Now(),
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		result.Organization = organization
		result.Admin = admin
		result.Purchase = purchase
		return nil
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create purchase!")
	}

	return result, nil
}

// CreatePurchase handles POST /purchases (public)
func CreatePurchase(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPurchase").(*purchaseValidators.CreatePurchaseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := createPurchase(database.Database.Db, reqData)
	if err != nil {
		return middleware.FiberErrorResponse(c, err)
	}

	utils.SendWelcomeEmail(result.Admin.Email, result.Admin.Name, "")
	utils.NotifyRole(models.RoleSystemAdmin, nil, "New signup",
		result.Organization.Name+" purchased the "+result.Purchase.PackageType+" package.",
		map[string]interface{}{"organizationId": result.Organization.ID})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Purchase completed successfully!", result)
}

// GetPricing handles GET /purchases/pricing (public price list)
func GetPricing(c *fiber.Ctx) error {
	var prices []models.PackagePrice
	if err := database.Database.Db.Order("amount asc").Find(&prices).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pricing!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pricing fetched successfully!", fiber.Map{
		"pricing": prices,
	})
}
