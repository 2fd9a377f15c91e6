package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// scopeForCaller narrows the notification table to rows visible to the
// caller: rows addressed to them directly, plus role-targeted rows matching
// their role and, when org-scoped, their organization.
func scopeForCaller(db *gorm.DB, c *fiber.Ctx) *gorm.DB {
	userID := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)

	query := db.Model(&models.Notification{})
	if orgID, ok := c.Locals("organizationId").(uint); ok {
		return query.Where(
			"user_id = ? OR (role = ? AND (organization_id IS NULL OR organization_id = ?))",
			userID, role, orgID,
		)
	}
	return query.Where("user_id = ? OR (role = ? AND organization_id IS NULL)", userID, role)
}

// GetNotifications handles GET /notifications
func GetNotifications(c *fiber.Ctx) error {
	var notifications []models.Notification
	if err := scopeForCaller(database.Database.Db, c).
		Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	var unread int64
	scopeForCaller(database.Database.Db, c).Where("is_read = ?", false).Count(&unread)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", fiber.Map{
		"notifications": notifications,
		"unread":        unread,
	})
}

// MarkRead handles PATCH /notifications/:id/read
func MarkRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notification id!", nil)
	}

	var notification models.Notification
	if err := scopeForCaller(database.Database.Db, c).Where("id = ?", id).First(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
	}

	notification.IsRead = true
	if err := database.Database.Db.Save(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read!", notification)
}

// MarkAllRead handles PATCH /notifications/mark-all-read
func MarkAllRead(c *fiber.Ctx) error {
	if err := scopeForCaller(database.Database.Db, c).
		Where("is_read = ?", false).Update("is_read", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All notifications marked as read!", nil)
}
