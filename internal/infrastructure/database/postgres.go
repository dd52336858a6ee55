package database

import (
	"fmt"
	"log"

	"github.com/sangkips/alankar-api/internal/config"
	"github.com/sangkips/alankar-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Customer{},
		&entity.Bill{},
		&entity.ShopSettings{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData stores the configured shop identity when no settings exist yet
func SeedDefaultData(db *gorm.DB, shop *config.ShopConfig) error {
	log.Println("Seeding default data...")

	var count int64
	if err := db.Model(&entity.ShopSettings{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count shop settings: %w", err)
	}
	if count > 0 {
		log.Println("Shop settings already present, skipping seed")
		return nil
	}

	settings := entity.ShopSettings{
		Name:     shop.Name,
		Tagline:  shop.Tagline,
		Address:  shop.Address,
		Phone:    shop.Phone,
		Email:    shop.Email,
		Currency: shop.Currency,
	}
	if err := db.Create(&settings).Error; err != nil {
		log.Printf("Warning: failed to seed shop settings: %v", err)
	}

	log.Println("Default data seeding completed")
	return nil
}
