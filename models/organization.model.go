package models

import (
	"time"

	"gorm.io/gorm"
)

// Package types
const (
	PackageSingle      = "SINGLE"
	PackageGroup       = "GROUP"
	PackageInstitution = "INSTITUTION"
)

type Organization struct {
	gorm.Model
	Name      string    `json:"name" gorm:"not null"`
	Type      string    `json:"type" gorm:"default:'SINGLE'"` // SINGLE, GROUP, INSTITUTION
	MaxUsers  int       `json:"max_users" gorm:"default:1"`
	StartDate time.Time `json:"start_date"`
	IsDeleted bool      `json:"-" gorm:"default:false"`
}
