package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret    string
	JWTExpiresIn string

	// Session
	SessionSecret string

	// Security
	CookieSecure   bool
	AllowedOrigins []string

	// Mail
	SMTPHost         string
	SMTPPort         string
	EmailUser        string
	EmailPass        string
	InquiryRecipient string

	// Razorpay
	RazorpayKeyID     string
	RazorpayKeySecret string

	// WhatsApp
	OwnerWhatsAppNumber string
	WhatsAppAPIURL      string
	WhatsAppUsername    string
	WhatsAppPassword    string
	WhatsAppPath        string

	// Bill storage
	UploadDir      string
	StorageDriver  string
	GCPBucketName  string
	AWSRegion      string
	AWSS3Bucket    string
	AWSAccessKeyID string
	AWSSecretKey   string

	// Firebase
	GoogleApplicationCredentials string
	FCMAdminTopic                string

	// Redis
	RedisURL        string
	CatalogCacheTTL time.Duration
}

// Load reads environment variables (and .env if present) into a Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:                         getEnv("PORT", "8000"),
		Environment:                  getEnv("APP_ENV", "development"),
		DatabaseURL:                  getEnv("DATABASE_URL", ""),
		JWTSecret:                    getEnv("JWT_SECRET", ""),
		JWTExpiresIn:                 getEnv("JWT_EXPIRES_IN", "7d"),
		SessionSecret:                getEnv("SESSION_SECRET", "change-me-session-secret"),
		CookieSecure:                 getEnv("COOKIE_SECURE", "false") == "true",
		AllowedOrigins:               parseList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		SMTPHost:                     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:                     getEnv("SMTP_PORT", "587"),
		EmailUser:                    getEnv("EMAIL_USER", ""),
		EmailPass:                    getEnv("EMAIL_PASS", ""),
		InquiryRecipient:             getEnv("INQUIRY_RECIPIENT", ""),
		RazorpayKeyID:                getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:            getEnv("RAZORPAY_KEY_SECRET", ""),
		OwnerWhatsAppNumber:          getEnv("OWNER_WHATSAPP_NUMBER", "917041177240"),
		WhatsAppAPIURL:               getEnv("WHATSAPP_API_URL", ""),
		WhatsAppUsername:             getEnv("WHATSAPP_USERNAME", ""),
		WhatsAppPassword:             getEnv("WHATSAPP_PASSWORD", ""),
		WhatsAppPath:                 getEnv("WHATSAPP_PATH", ""),
		UploadDir:                    getEnv("UPLOAD_DIR", "uploads"),
		StorageDriver:                strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		GCPBucketName:                getEnv("GCP_BUCKET_NAME", ""),
		AWSRegion:                    getEnv("AWS_REGION", "ap-south-1"),
		AWSS3Bucket:                  getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:               getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:                 getEnv("AWS_SECRET_ACCESS_KEY", ""),
		GoogleApplicationCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		FCMAdminTopic:                getEnv("FCM_ADMIN_TOPIC", "owner-alerts"),
		RedisURL:                     getEnv("REDIS_URL", ""),
		CatalogCacheTTL:              time.Duration(getEnvAsInt("CATALOG_CACHE_TTL", 300)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	return cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.StorageDriver {
	case "local", "":
	case "gcs":
		if c.GCPBucketName == "" {
			return fmt.Errorf("GCP_BUCKET_NAME is required when STORAGE_DRIVER=gcs")
		}
	case "s3":
		if c.AWSS3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// TokenTTL converts JWTExpiresIn ("7d", "12h", "30m") into a duration, defaulting to 7 days
func (c *Config) TokenTTL() time.Duration {
	s := strings.TrimSpace(c.JWTExpiresIn)
	if strings.HasSuffix(s, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(s, "d")); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return 7 * 24 * time.Hour
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == ""
}

// MailConfigured reports whether SMTP credentials are present
func (c *Config) MailConfigured() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseList splits a comma-separated string
func parseList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
