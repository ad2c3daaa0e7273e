package main

import (
	"errors"
	"log"
	"os"
	"strings"

	"radhe_backend/pkg/config"
	"radhe_backend/pkg/database"
	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	seedOwner(db)
}

// seedOwner creates the Owner account from OWNER_* variables, or promotes an existing one
func seedOwner(db *gorm.DB) {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("OWNER_EMAIL")))
	password := os.Getenv("OWNER_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("OWNER_EMAIL and OWNER_PASSWORD are required")
	}
	if !utils.IsStrongPassword(password) {
		log.Fatal("OWNER_PASSWORD must be at least 6 characters with a letter, a digit and one of @$!%*?&")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.UserType != models.RoleOwner {
			if err := db.Model(&user).Update("user_type", models.RoleOwner).Error; err != nil {
				log.Fatal("Failed to promote user:", err)
			}
			log.Printf("✅ User %s promoted to Owner", email)
			return
		}
		log.Printf("Owner %s already exists", email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to look up owner:", err)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user = models.User{
		FirstName:     envOr("OWNER_FIRST_NAME", "Radhe"),
		LastName:      envOr("OWNER_LAST_NAME", "Enterprise"),
		Email:         email,
		PhoneNumber:   os.Getenv("OWNER_PHONE"),
		Password:      hashedPassword,
		UserType:      models.RoleOwner,
		EmailVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to create Owner:", err)
	}

	log.Printf("✅ Owner %s created successfully", email)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
