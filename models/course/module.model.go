package course

import "gorm.io/gorm"

// CourseModule is one step of the sequential training track. OrderIndex is
// globally unique and drives the unlock walk.
type CourseModule struct {
	gorm.Model
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	OrderIndex   int          `json:"order_index" gorm:"uniqueIndex;not null"`
	DeadlineDays int          `json:"deadline_days" gorm:"default:0"`
	MediaType    string       `json:"media_type" gorm:"default:'VIDEO'"` // VIDEO, PRESENTATION
	MediaURL     string       `json:"media_url"`
	CreatedByID  uint         `json:"created_by_id" gorm:"index"`
	Files        []ModuleFile `json:"files" gorm:"foreignKey:ModuleID"`
}

// ModuleFile is a finer-grained content unit inside a module. OrderIndex is
// unique within the parent module.
type ModuleFile struct {
	gorm.Model
	ModuleID   uint   `json:"module_id" gorm:"not null;uniqueIndex:idx_module_file_order"`
	OrderIndex int    `json:"order_index" gorm:"not null;uniqueIndex:idx_module_file_order"`
	Title      string `json:"title"`
	MediaType  string `json:"media_type" gorm:"default:'VIDEO'"`
	MediaURL   string `json:"media_url"`
}
