package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued at most once per user and never updated afterwards.
// TotalModules snapshots the curriculum size at issuance time; the unique
// index on UserID is what makes concurrent double-issuance safe.
type Certificate struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	SerialNumber string    `json:"serial_number" gorm:"uniqueIndex"`
	TotalModules int       `json:"total_modules" gorm:"not null"`
	IssuedAt     time.Time `json:"issued_at"`
}
