package models

import (
	"time"

	"gorm.io/gorm"
)

// PackagePrice holds the public price list. One row per package type.
type PackagePrice struct {
	gorm.Model
	PackageType string  `json:"package_type" gorm:"unique;not null"` // SINGLE, GROUP, INSTITUTION
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" gorm:"default:0"`
	Currency    string  `json:"currency" gorm:"default:'USD'"`
	MaxUsers    int     `json:"max_users" gorm:"default:1"`
}

// PackagePurchase is the audit row written when a package is bought
type PackagePurchase struct {
	gorm.Model
	OrganizationID uint      `json:"organization_id" gorm:"index;not null"`
	PackageType    string    `json:"package_type" gorm:"not null"`
	PurchasedByID  uint      `json:"purchased_by_id" gorm:"index;not null"`
	Amount         float64   `json:"amount" gorm:"default:0"`
	Currency       string    `json:"currency" gorm:"default:'USD'"`
	PurchasedAt    time.Time `json:"purchased_at"`
}
