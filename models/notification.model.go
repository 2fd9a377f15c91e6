package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification targets either a single user (UserID set) or every user
// holding Role, optionally scoped to one organization.
type Notification struct {
	gorm.Model
	UserID         *uint          `json:"user_id" gorm:"index"`
	Role           string         `json:"role" gorm:"index;default:''"`
	OrganizationID *uint          `json:"organization_id" gorm:"index"`
	Title          string         `json:"title" gorm:"not null"`
	Message        string         `json:"message"`
	Metadata       datatypes.JSON `json:"metadata"` // deep-link ids for the frontend
	IsRead         bool           `json:"is_read" gorm:"default:false"`
}
