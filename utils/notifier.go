package utils

import (
	"encoding/json"
	"log"

	"lms/database"
	"lms/models"

	"gorm.io/datatypes"
)

// buildMetadata marshals deep-link ids for the frontend. A marshal failure
// only drops the metadata, never the notification.
func buildMetadata(meta map[string]interface{}) datatypes.JSON {
	if meta == nil {
		return nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		log.Printf("[NOTIFIER] Failed to marshal metadata: %v", err)
		return nil
	}
	return datatypes.JSON(raw)
}

// NotifyRole writes a notification row for every user holding role,
// optionally scoped to one organization. Fire-and-forget: the caller never
// sees a failure.
func NotifyRole(role string, organizationID *uint, title, message string, meta map[string]interface{}) {
	notification := models.Notification{
		Role:           role,
		OrganizationID: organizationID,
		Title:          title,
		Message:        message,
		Metadata:       buildMetadata(meta),
	}

	go func() {
		if err := database.Database.Db.Create(&notification).Error; err != nil {
			log.Printf("[NOTIFIER] Failed to create %s notification: %v", role, err)
		}
	}()
}

// NotifyUser writes a notification row addressed to a single user
func NotifyUser(userID uint, title, message string, meta map[string]interface{}) {
	notification := models.Notification{
		UserID:   &userID,
		Title:    title,
		Message:  message,
		Metadata: buildMetadata(meta),
	}

	go func() {
		if err := database.Database.Db.Create(&notification).Error; err != nil {
			log.Printf("[NOTIFIER] Failed to create user notification: %v", err)
		}
	}()
}
