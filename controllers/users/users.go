package controllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	userValidators "lms/validators/users"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seatCheck verifies the organization can absorb `adding` more learners.
// Bulk additions are checked as a whole: either every seat fits or none are
// created.
func seatCheck(db *gorm.DB, organizationID uint, adding int) (*models.Organization, error) {
	var organization models.Organization
	if err := db.Where("id = ? AND is_deleted = ?", organizationID, false).First(&organization).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Organization not found!")
	}

	var used int64
	if err := db.Model(&models.User{}).
		Where("organization_id = ? AND role = ? AND is_deleted = ?", organizationID, models.RoleOrgUser, false).
		Count(&used).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to count users!")
	}

	if used+int64(adding) > int64(organization.MaxUsers) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Seat limit reached for your organization!")
	}
	return &organization, nil
}

// createLearners writes the given learners in one transaction after the
// aggregate seat check. Duplicate emails fail the whole batch.
func createLearners(db *gorm.DB, organizationID uint, requests []userValidators.CreateUserRequest) ([]models.User, error) {
	if _, err := seatCheck(db, organizationID, len(requests)); err != nil {
		return nil, err
	}

	for _, reqData := range requests {
		var existing models.User
		if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&existing).Error; err == nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Email already registered: "+reqData.Email)
		}
	}

	users := make([]models.User, 0, len(requests))
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, reqData := range requests {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
			if err != nil {
				return err
			}
			orgID := organizationID
			user := models.User{
				Name:           reqData.Name,
				Email:          reqData.Email,
				Password:       string(hashedPassword),
				Role:           models.RoleOrgUser,
				OrganizationID: &orgID,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create users!")
	}

	return users, nil
}

func callerOrganizationID(c *fiber.Ctx) (uint, bool) {
	orgID, ok := c.Locals("organizationId").(uint)
	return orgID, ok
}

// GetUsers handles GET /users (org-admin scoped learner list)
func GetUsers(c *fiber.Ctx) error {
	organizationID, ok := callerOrganizationID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User does not belong to an organization!", nil)
	}

	var users []models.User
	if err := database.Database.Db.
		Where("organization_id = ? AND role = ? AND is_deleted = ?", organizationID, models.RoleOrgUser, false).
		Order("created_at asc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	var organization models.Organization
	database.Database.Db.Where("id = ?", organizationID).First(&organization)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users":     users,
		"used":      len(users),
		"max_users": organization.MaxUsers,
	})
}

// CreateUser handles POST /users
func CreateUser(c *fiber.Ctx) error {
	organizationID, ok := callerOrganizationID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User does not belong to an organization!", nil)
	}

	reqData, ok := c.Locals("validatedUser").(*userValidators.CreateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	users, err := createLearners(database.Database.Db, organizationID, []userValidators.CreateUserRequest{*reqData})
	if err != nil {
		return middleware.FiberErrorResponse(c, err)
	}

	utils.SendWelcomeEmail(users[0].Email, users[0].Name, reqData.Password)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully!", users[0])
}

// BulkCreateUsers handles POST /users/bulk
func BulkCreateUsers(c *fiber.Ctx) error {
	organizationID, ok := callerOrganizationID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User does not belong to an organization!", nil)
	}

	reqData, ok := c.Locals("validatedBulkUsers").(*userValidators.BulkCreateUsersRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	users, err := createLearners(database.Database.Db, organizationID, reqData.Users)
	if err != nil {
		return middleware.FiberErrorResponse(c, err)
	}

	for i, user := range users {
		utils.SendWelcomeEmail(user.Email, user.Name, reqData.Users[i].Password)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Users created successfully!", fiber.Map{
		"users": users,
		"count": len(users),
	})
}
