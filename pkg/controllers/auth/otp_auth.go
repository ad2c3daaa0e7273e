package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"radhe_backend/pkg/database"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/services"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// reset_token holds the emailed OTP under this prefix until it is exchanged
// for a random reset token, so the OTP alone cannot reset a password.
const resetOTPPrefix = "otp:"

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP promotes a staged registration into a customer account
func (ac *Controller) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required."})
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		email = pendingEmail(c)
	}
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required."})
		return
	}
	ctx := c.Request.Context()

	var staged models.PendingRegistration
	err := ac.DB.WithContext(ctx).Where("email = ?", email).First(&staged).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}
	if err != nil {
		log.Printf("Error fetching staged registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := services.CheckOTP(staged.OTP, code, staged.OTPExpiration, ac.now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP."})
		return
	}

	var exists int64
	if err := ac.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&exists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if exists > 0 {
		c.JSON(http.StatusConflict, gin.H{"status": "Error", "message": "Email already Exists"})
		return
	}

	user := staged.ToUser()
	err = database.WithTransaction(ctx, ac.DB, func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Delete(&staged).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusConflict, gin.H{"status": "Error", "message": "Email already Exists"})
		return
	}
	if err != nil {
		log.Printf("Error creating user %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	forgetPendingEmail(c)
	log.Printf("✅ Registered customer %d (%s)", user.ID, email)
	utils.SuccessResponse(c, "User registered successfully!")
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword emails a password reset OTP
func (ac *Controller) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required."})
		return
	}
	ctx := c.Request.Context()

	user, ok := ac.findUserByEmail(c, req.Email)
	if !ok {
		return
	}

	now := ac.now()
	code, err := ac.OTP.Generate(now)
	if err != nil {
		log.Printf("Error generating reset OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	expiry := now.Add(services.PasswordResetTTL)
	err = ac.DB.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", user.ID).Updates(map[string]interface{}{
		"reset_token":         resetOTPPrefix + code,
		"reset_token_expires": expiry,
	}).Error
	if err != nil {
		log.Printf("Error storing reset OTP for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	subject, body := services.PasswordResetOTPEmail(code)
	if err := ac.Mailer.Send(ctx, user.Email, subject, body); err != nil {
		log.Printf("❌ Error sending reset OTP to %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending OTP email. Please try again."})
		return
	}

	utils.SuccessResponse(c, "OTP sent to your email!")
}

type verifyResetOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyResetOTP exchanges a valid reset OTP for a reset token
func (ac *Controller) VerifyResetOTP(c *gin.Context) {
	var req verifyResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required."})
		return
	}

	user, ok := ac.findUserByEmail(c, req.Email)
	if !ok {
		return
	}

	stored := ""
	if user.ResetToken != nil && strings.HasPrefix(*user.ResetToken, resetOTPPrefix) {
		stored = *user.ResetToken
	}
	if user.ResetTokenExpiry == nil ||
		services.CheckOTP(stored, resetOTPPrefix+strings.TrimSpace(req.OTP), *user.ResetTokenExpiry, ac.now()) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP."})
		return
	}

	resetToken, err := services.NewResetToken()
	if err != nil {
		log.Printf("Error generating reset token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	err = ac.DB.WithContext(c.Request.Context()).Model(&models.User{}).Where("user_id = ?", user.ID).Updates(map[string]interface{}{
		"reset_token":         resetToken,
		"reset_token_expires": ac.now().Add(services.PasswordResetTTL),
	}).Error
	if err != nil {
		log.Printf("Error storing reset token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "Success",
		"message":    "OTP verified successfully.",
		"resetToken": resetToken,
	})
}

type resetPasswordRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"user_password" binding:"required"`
	ResetToken string `json:"resetToken" binding:"required"`
}

// ResetPassword sets a new password given a valid reset token
func (ac *Controller) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email, password and reset token are required."})
		return
	}
	if !utils.IsStrongPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters long, contain a number and a special character."})
		return
	}

	user, ok := ac.findUserByEmail(c, req.Email)
	if !ok {
		return
	}

	stored := ""
	if user.ResetToken != nil && !strings.HasPrefix(*user.ResetToken, resetOTPPrefix) {
		stored = *user.ResetToken
	}
	if user.ResetTokenExpiry == nil ||
		services.CheckOTP(stored, req.ResetToken, *user.ResetTokenExpiry, ac.now()) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token."})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	err = ac.DB.WithContext(c.Request.Context()).Model(&models.User{}).Where("user_id = ?", user.ID).Updates(map[string]interface{}{
		"user_password":       hashedPassword,
		"reset_token":         nil,
		"reset_token_expires": nil,
	}).Error
	if err != nil {
		log.Printf("Error resetting password for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	utils.SuccessResponse(c, "Password reset successfully!")
}

func (ac *Controller) findUserByEmail(c *gin.Context, email string) (*models.User, bool) {
	var user models.User
	err := ac.DB.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found!"})
		return nil, false
	}
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return nil, false
	}
	return &user, true
}
