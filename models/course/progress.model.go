package course

import (
	"time"

	"gorm.io/gorm"
)

// Progress statuses
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// ModuleProgress holds one row per (user, module). Rows are created lazily
// on the first start/complete action, never pre-seeded.
type ModuleProgress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_module"`
	ModuleID    uint       `json:"module_id" gorm:"not null;uniqueIndex:idx_user_module"`
	Status      string     `json:"status" gorm:"default:'NOT_STARTED'"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ModuleFileProgress holds one row per (user, file)
type ModuleFileProgress struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_module_file"`
	ModuleFileID uint       `json:"module_file_id" gorm:"not null;uniqueIndex:idx_user_module_file"`
	Status       string     `json:"status" gorm:"default:'NOT_STARTED'"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}
