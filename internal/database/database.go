package database

import (
	"fmt"

	"todo/internal/config"
	"todo/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to the configured postgres database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all persistent entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Task{})
}

// Reset drops and recreates the entire schema. It exists for test
// isolation only and must never run against a live deployment.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&model.Task{}, &model.User{}); err != nil {
		return err
	}
	return Migrate(db)
}
