package database

import (
	"fmt"

	"medfind/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres or sqlite and migrates the schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables for stores and medicines.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Store{}, &models.Medicine{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return backfillSearchText(db)
}

// backfillSearchText folds the search column of rows written before it existed.
func backfillSearchText(db *gorm.DB) error {
	var batch []models.Medicine
	err := db.Where("search_text IS NULL OR search_text = ''").
		FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
			for i := range batch {
				if err := db.Model(&batch[i]).UpdateColumn("search_text", batch[i].SearchKey()).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
	if err != nil {
		return fmt.Errorf("failed to backfill medicine search text: %w", err)
	}
	return nil
}
