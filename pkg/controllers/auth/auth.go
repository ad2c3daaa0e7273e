package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"radhe_backend/pkg/database"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/services"
	"radhe_backend/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pendingEmailKey = "pending_email"

// Controller serves account registration, login and password recovery
type Controller struct {
	DB           *gorm.DB
	Tokens       *utils.TokenManager
	Mailer       services.Mailer
	OTP          services.OTPGenerator
	CookieSecure bool

	now func() time.Time
}

func New(db *gorm.DB, tokens *utils.TokenManager, mailer services.Mailer, otp services.OTPGenerator, cookieSecure bool) *Controller {
	return &Controller{
		DB:           db,
		Tokens:       tokens,
		Mailer:       mailer,
		OTP:          otp,
		CookieSecure: cookieSecure,
		now:          time.Now,
	}
}

type registerRequest struct {
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	Email          string  `json:"email" binding:"required,account_email"`
	PhoneNumber    string  `json:"phone_number" binding:"required,phone_e164"`
	Password       string  `json:"user_password" binding:"required,strong_password"`
	CompanyName    *string `json:"company_name"`
	CompanyAddress *string `json:"company_address"`
	AddressCity    *string `json:"address_city"`
	AddressState   *string `json:"address_state"`
	AddressCountry *string `json:"address_country"`
	Pincode        *string `json:"pincode"`
	GSTNo          *string `json:"GST_no"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stages a signup and emails its OTP
func (ac *Controller) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
		return
	}
	email := normalizeEmail(req.Email)
	ctx := c.Request.Context()

	var count int64
	if err := ac.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Printf("Error checking email %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already exists."})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	now := ac.now()
	code, err := ac.OTP.Generate(now)
	if err != nil {
		log.Printf("Error generating OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	staged := models.PendingRegistration{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          email,
		PhoneNumber:    req.PhoneNumber,
		CompanyName:    req.CompanyName,
		CompanyAddress: req.CompanyAddress,
		AddressCity:    req.AddressCity,
		AddressState:   req.AddressState,
		AddressCountry: req.AddressCountry,
		Pincode:        req.Pincode,
		GSTNo:          req.GSTNo,
		Password:       hashedPassword,
		OTP:            code,
		OTPExpiration:  now.Add(services.RegistrationOTPTTL),
	}

	// A repeated signup replaces the earlier staged row and its OTP
	err = database.WithTransaction(ctx, ac.DB, func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.PendingRegistration{}).Error; err != nil {
			return err
		}
		return tx.Create(&staged).Error
	})
	if err != nil {
		log.Printf("Error staging registration for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	subject, body := services.RegistrationOTPEmail(code)
	if err := ac.Mailer.Send(ctx, email, subject, body); err != nil {
		log.Printf("❌ Error sending OTP email to %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending OTP email. Please try again."})
		return
	}

	rememberPendingEmail(c, email)
	c.JSON(http.StatusOK, gin.H{
		"status":  "Success",
		"message": "OTP sent to your email. Please verify to complete registration.",
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"user_password" binding:"required"`
}

// Login checks credentials and sets the session cookie
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required."})
		return
	}

	var user models.User
	err := ac.DB.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Email not found, Please Register!"})
		return
	}
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := utils.ComparePassword(user.Password, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Email or Password!"})
		return
	}

	token, err := ac.Tokens.Generate(&user)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.SetCookie(
		middleware.TokenCookie,
		token,
		int(ac.Tokens.TTL()/time.Second),
		"/",
		"",
		ac.CookieSecure,
		true, // httpOnly
	)

	c.JSON(http.StatusOK, gin.H{
		"status":    "Success",
		"user_type": user.UserType,
	})
}

// Logout clears the session cookie
func (ac *Controller) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", ac.CookieSecure, true)
	if session := sessionFrom(c); session != nil {
		session.Clear()
		if err := session.Save(); err != nil {
			log.Printf("Error clearing session: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "Success"})
}

// Status reports the authenticated caller's display name
func (ac *Controller) Status(c *gin.Context) {
	name := ""
	if claims := middleware.CurrentClaims(c); claims != nil {
		name = claims.Name
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "Authenticated",
		"name":   name,
	})
}

type profileResponse struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	CompanyName    *string `json:"company_name"`
	CompanyAddress *string `json:"company_address"`
	AddressCity    *string `json:"address_city"`
	AddressState   *string `json:"address_state"`
	AddressCountry *string `json:"address_country"`
	Pincode        *string `json:"pincode"`
	GSTNo          *string `json:"GST_no"`
	UserType       string  `json:"user_type"`
}

// Profile returns the caller's profile fields
func (ac *Controller) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"status": "Success",
		"data": profileResponse{
			FirstName:      user.FirstName,
			LastName:       user.LastName,
			Email:          user.Email,
			PhoneNumber:    user.PhoneNumber,
			CompanyName:    user.CompanyName,
			CompanyAddress: user.CompanyAddress,
			AddressCity:    user.AddressCity,
			AddressState:   user.AddressState,
			AddressCountry: user.AddressCountry,
			Pincode:        user.Pincode,
			GSTNo:          user.GSTNo,
			UserType:       string(user.UserType),
		},
	})
}

type updateProfileRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	PhoneNumber    *string `json:"phone_number"`
	CompanyName    *string `json:"company_name"`
	CompanyAddress *string `json:"company_address"`
	AddressCity    *string `json:"address_city"`
	AddressState   *string `json:"address_state"`
	AddressCountry *string `json:"address_country"`
	Pincode        *string `json:"pincode"`
	GSTNo          *string `json:"GST_no"`
}

// UpdateProfile changes the caller's own profile; email and role are fixed
func (ac *Controller) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "First name cannot be empty."})
			return
		}
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Last name cannot be empty."})
			return
		}
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		if !utils.IsValidPhone(*req.PhoneNumber) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid phone number format. Please include country code."})
			return
		}
		updates["phone_number"] = *req.PhoneNumber
	}
	optional := map[string]*string{
		"company_name":    req.CompanyName,
		"company_address": req.CompanyAddress,
		"address_city":    req.AddressCity,
		"address_state":   req.AddressState,
		"address_country": req.AddressCountry,
		"pincode":         req.Pincode,
		"gst_no":          req.GSTNo,
	}
	for column, value := range optional {
		if value != nil {
			updates[column] = *value
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No profile fields to update."})
		return
	}

	user := middleware.CurrentUser(c)
	if err := ac.DB.WithContext(c.Request.Context()).Model(&models.User{}).Where("user_id = ?", user.ID).Updates(updates).Error; err != nil {
		log.Printf("Error updating profile for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully!")
}

func sessionFrom(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

func rememberPendingEmail(c *gin.Context, email string) {
	session := sessionFrom(c)
	if session == nil {
		return
	}
	session.Set(pendingEmailKey, email)
	if err := session.Save(); err != nil {
		log.Printf("Error saving session: %v", err)
	}
}

func pendingEmail(c *gin.Context) string {
	session := sessionFrom(c)
	if session == nil {
		return ""
	}
	email, _ := session.Get(pendingEmailKey).(string)
	return email
}

func forgetPendingEmail(c *gin.Context) {
	session := sessionFrom(c)
	if session == nil {
		return
	}
	session.Delete(pendingEmailKey)
	if err := session.Save(); err != nil {
		log.Printf("Error saving session: %v", err)
	}
}
