package database

import (
	"log"

	"lms/config"
	"lms/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedBootstrapAdmin creates the first SYSTEM_ADMIN from the bootstrap key
// when none exists yet. No-op otherwise.
func SeedBootstrapAdmin() {
	if config.AppConfig.BootstrapAdminKey == "" {
		return
	}

	var count int64
	if err := Database.Db.Model(&models.User{}).
		Where("role = ? AND is_deleted = ?", models.RoleSystemAdmin, false).
		Count(&count).Error; err != nil {
		log.Printf("Bootstrap admin check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(config.AppConfig.BootstrapAdminKey), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Bootstrap admin hash failed: %v", err)
		return
	}

	admin := models.User{
		Name:     "System Admin",
		Email:    "admin@safesteps.local",
		Password: string(hashedPassword),
		Role:     models.RoleSystemAdmin,
	}
	if err := Database.Db.Create(&admin).Error; err != nil {
		log.Printf("Bootstrap admin creation failed: %v", err)
		return
	}

	log.Println("Bootstrap SYSTEM_ADMIN created:", admin.Email)
}
