package models

import "gorm.io/gorm"

// ContactMessage is submitted from the public contact form
type ContactMessage struct {
	gorm.Model
	Name    string `json:"name"`
	Email   string `json:"email" gorm:"not null"`
	Subject string `json:"subject"`
	Message string `json:"message" gorm:"type:text"`
	IsRead  bool   `json:"is_read" gorm:"default:false"`
}
