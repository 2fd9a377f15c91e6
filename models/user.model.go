package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleSystemAdmin = "SYSTEM_ADMIN"
	RoleOrgAdmin    = "ORG_ADMIN"
	RoleOrgUser     = "ORG_USER"
)

type User struct {
	gorm.Model
	Name           string     `json:"name" gorm:"default:''"`
	Email          string     `json:"email" gorm:"unique;not null"`
	Password       string     `json:"-" gorm:"not null"`
	Role           string     `json:"role" gorm:"default:'ORG_USER'"` // SYSTEM_ADMIN, ORG_ADMIN, ORG_USER
	OrganizationID *uint      `json:"organization_id" gorm:"index"`
	LastLogin      *time.Time `json:"last_login"`
	IsDeleted      bool       `json:"-" gorm:"default:false"`
}
