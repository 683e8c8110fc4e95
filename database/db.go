package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pmitra96/recipe-backend/config"
	"github.com/pmitra96/recipe-backend/logger"
	"github.com/pmitra96/recipe-backend/models"
)

// Open connects to Postgres and migrates the history schema.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("Database connection established", "host", cfg.Host, "dbname", cfg.DBName)

	if err := db.AutoMigrate(&models.Generation{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("Migrations completed")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to retrieve sql.DB", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing the database connection", "error", err)
	}
}
