package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"radhe_backend/pkg/config"
	"radhe_backend/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database named by cfg.DatabaseURL.
// postgres:// and postgresql:// select Postgres; sqlite://, file: and :memory: select SQLite.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, isSQLite, err := dialectorFor(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
	}

	// Development mode - verbose logging
	if cfg.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		// Production mode - only errors
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if isSQLite {
		// one writer; also keeps :memory: databases on a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func dialectorFor(url string) (gorm.Dialector, bool, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.New(postgres.Config{
			DSN:                  url,
			PreferSimpleProtocol: true, // Disable implicit prepared statements to avoid "prepared statement already exists" errors
		}), false, nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), true, nil
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return sqlite.Open(url), true, nil
	default:
		return nil, false, fmt.Errorf("unsupported DATABASE_URL scheme: %q", url)
	}
}

// Migrate runs auto-migration for all models and creates composite indexes
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return err
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// createIndexes creates indexes that struct tags cannot express
func createIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_order_type_installment ON payments(order_id, payment_type, installment_number)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category_deleted ON products(category_id, deleted)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status_date ON orders(order_status, order_date)`,
		`CREATE INDEX IF NOT EXISTS idx_services_status ON services(service_status)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// WithTransaction runs fn inside one transaction bound to ctx.
// The transaction commits when fn returns nil and rolls back on error or panic.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// Close closes the database connection
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("✅ Database connection closed")
	}
}
