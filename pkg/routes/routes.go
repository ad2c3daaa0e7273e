package routes

import (
	"net/http"

	"radhe_backend/pkg/controllers/admin"
	"radhe_backend/pkg/controllers/auth"
	"radhe_backend/pkg/controllers/catalog"
	"radhe_backend/pkg/controllers/customer"
	"radhe_backend/pkg/controllers/reports"
	"radhe_backend/pkg/middleware"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the constructed controllers and what the auth middleware needs
type Deps struct {
	DB          *gorm.DB
	Tokens      *utils.TokenManager
	Environment string

	Auth     *auth.Controller
	Catalog  *catalog.Controller
	Customer *customer.Controller
	Admin    *admin.Controller
	Reports  *reports.Controller
}

// Register mounts every route on router
func Register(router *gin.Engine, d Deps) {
	authenticated := middleware.AuthenticateToken(d.Tokens, d.DB)
	ownerOnly := middleware.RestrictToOwner(d.Tokens, d.DB)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Radhe Enterprise backend is running...")
	})
	router.GET("/health", health(d))

	RegisterAuthRoutes(router, d.Auth, authenticated)
	RegisterCatalogRoutes(router, d.Catalog, authenticated, ownerOnly)
	RegisterCustomerRoutes(router, d.Customer, authenticated)
	RegisterAdminRoutes(router, d.Admin, d.Reports, ownerOnly)

	router.NoRoute(middleware.NotFoundHandler())
}

func health(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "connected"
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			database = "unreachable"
		}
		status := http.StatusOK
		if database != "connected" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":      "ok",
			"environment": d.Environment,
			"database":    database,
		})
	}
}
