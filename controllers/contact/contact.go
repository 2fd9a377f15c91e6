package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	contactValidators "lms/validators/contact"

	"github.com/gofiber/fiber/v2"
)

// CreateContact handles POST /contact (public contact form)
func CreateContact(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedContact").(*contactValidators.CreateContactRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	message := models.ContactMessage{
		Name:    reqData.Name,
		Email:   reqData.Email,
		Subject: reqData.Subject,
		Message: reqData.Message,
	}
	if err := database.Database.Db.Create(&message).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit message!", nil)
	}

	utils.NotifyRole(models.RoleSystemAdmin, nil, "New contact message",
		reqData.Name+" sent a message: "+reqData.Subject,
		map[string]interface{}{"contactId": message.ID})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message submitted successfully!", message)
}

// GetContacts handles GET /contact (system admin)
func GetContacts(c *fiber.Ctx) error {
	var messages []models.ContactMessage
	if err := database.Database.Db.Order("created_at desc").Find(&messages).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch messages!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Messages fetched successfully!", fiber.Map{
		"messages": messages,
	})
}

// MarkContactRead handles PATCH /contact/:id/read
func MarkContactRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid message id!", nil)
	}

	var message models.ContactMessage
	if err := database.Database.Db.Where("id = ?", id).First(&message).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found!", nil)
	}

	message.IsRead = true
	if err := database.Database.Db.Save(&message).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update message!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message marked as read!", message)
}

// DeleteContact handles DELETE /contact/:id
func DeleteContact(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid message id!", nil)
	}

	var message models.ContactMessage
	if err := database.Database.Db.Where("id = ?", id).First(&message).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found!", nil)
	}

	if err := database.Database.Db.Unscoped().Delete(&message).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete message!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message deleted successfully!", nil)
}
