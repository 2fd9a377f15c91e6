package models

import (
	"time"

	"gorm.io/gorm"
)

// PasswordResetToken is single-use and time-limited
type PasswordResetToken struct {
	gorm.Model
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	Token     string     `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
}
