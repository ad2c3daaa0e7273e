package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"radhe_backend/pkg/config"
	"radhe_backend/pkg/controllers/admin"
	"radhe_backend/pkg/controllers/auth"
	"radhe_backend/pkg/controllers/catalog"
	"radhe_backend/pkg/controllers/customer"
	"radhe_backend/pkg/controllers/reports"
	"radhe_backend/pkg/database"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/routes"
	"radhe_backend/pkg/services"
	"radhe_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Initialize database
	log.Println("🔌 Initializing database connection...")
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := utils.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators:", err)
	}

	ctx := context.Background()

	// Mail
	var mailer services.Mailer = services.LogMailer{}
	if cfg.MailConfigured() {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
		log.Println("✅ SMTP mailer configured")
	} else {
		log.Println("⚠️  EMAIL_USER/EMAIL_PASS not set, emails will be logged")
	}

	// Razorpay
	var gateway services.PaymentGateway
	if rzp := services.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret); rzp != nil {
		gateway = rzp
		log.Println("✅ Razorpay initialized successfully")
	} else {
		log.Println("⚠️  Razorpay credentials not set, online payments disabled")
	}

	// FCM
	var notifier services.Notifier = services.LogNotifier{}
	if cfg.GoogleApplicationCredentials != "" {
		fcm, err := services.NewFCMNotifier(ctx, cfg.GoogleApplicationCredentials, cfg.FCMAdminTopic)
		if err != nil {
			log.Printf("⚠️  Warning: FCM initialization failed: %v", err)
		} else {
			notifier = fcm
			log.Println("✅ FCM initialized successfully")
		}
	}

	// WhatsApp gateway
	var whatsapp services.WhatsAppSender
	if cfg.WhatsAppAPIURL != "" {
		whatsapp = services.NewWhatsAppClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		log.Println("✅ WhatsApp gateway configured")
	}

	// Bill storage
	bills, err := services.NewBillStore(ctx, cfg)
	if err != nil {
		log.Printf("⚠️  Warning: bill storage initialization failed, uploads disabled: %v", err)
		bills = nil
	} else if closer, ok := bills.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// Catalog cache
	var cache services.CatalogCache = services.NoopCatalogCache{}
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = services.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Warning: Redis unavailable, catalog cache disabled: %v", err)
		} else {
			cache = services.NewRedisCatalogCache(rdb, cfg.CatalogCacheTTL)
			defer rdb.Close()
		}
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()
	router.Use(middleware.RequestID(), middleware.RecoveryMiddleware())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(services.RegistrationOTPTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("radhe_session", store))

	setupCORS(router, cfg)

	router.MaxMultipartMemory = 10 << 20 // 10 MB

	routes.Register(router, routes.Deps{
		DB:          db,
		Tokens:      tokens,
		Environment: cfg.Environment,
		Auth:        auth.New(db, tokens, mailer, services.TOTPGenerator{Issuer: "Radhe Enterprise"}, cfg.CookieSecure),
		Catalog:     catalog.New(db, cache, mailer, cfg.InquiryRecipient),
		Customer:    customer.New(db, gateway, notifier, whatsapp, cfg.OwnerWhatsAppNumber),
		Admin:       admin.New(db, bills),
		Reports:     reports.New(db),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server running in %s mode\n", cfg.Environment)
		log.Printf("📡 Server listening on http://localhost:%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Server forced to shutdown:", err)
		return
	}

	log.Println("✅ Server exited gracefully")
}

// setupCORS allows credentialed requests from the configured frontends
func setupCORS(router *gin.Engine, cfg *config.Config) {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"X-Total-Count", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.IsProduction() {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		log.Printf("🔒 CORS enabled for origins: %v\n", cfg.AllowedOrigins)
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return true
		}
		log.Println("🔓 CORS enabled for all origins (development mode)")
	}

	router.Use(cors.New(corsConfig))
}
