package controllers

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Login handles POST /auth/login
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidators.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := database.Database.Db.Save(&user).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.OrganizationID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// ForgotPassword handles POST /auth/forgot-password. Mail delivery is a hard
// dependency here: if the reset email cannot be sent the request fails.
func ForgotPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedForgotPassword").(*authValidators.ForgotPasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No account found with this email!", nil)
	}

	resetToken := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := database.Database.Db.Create(&resetToken).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create reset token!", nil)
	}

	if err := utils.SendPasswordResetEmail(user.Email, user.Name, resetToken.Token); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to send reset email. Please try again later.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset email sent!", nil)
}

func findUsableResetToken(token string) (*models.PasswordResetToken, string) {
	var resetToken models.PasswordResetToken
	if err := database.Database.Db.Where("token = ?", token).First(&resetToken).Error; err != nil {
		return nil, "Invalid reset token!"
	}
	if resetToken.UsedAt != nil {
		return nil, "Reset token has already been used!"
	}
	if time.Now().After(resetToken.ExpiresAt) {
		return nil, "Reset token has expired!"
	}
	return &resetToken, ""
}

// VerifyResetToken handles GET /auth/verify-reset-token?token=...
func VerifyResetToken(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Reset token is required!", nil)
	}

	if _, msg := findUsableResetToken(token); msg != "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, msg, nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reset token is valid!", nil)
}

// ResetPassword handles POST /auth/reset-password
func ResetPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedResetPassword").(*authValidators.ResetPasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	resetToken, msg := findUsableResetToken(reqData.Token)
	if msg != "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, msg, nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", resetToken.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to hash password!", nil)
	}

	user.Password = string(hashedPassword)
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	now := time.Now()
	resetToken.UsedAt = &now
	if err := database.Database.Db.Save(resetToken).Error; err != nil {
		log.Printf("Error marking reset token used: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successful!", nil)
}
