package db

import (
	"github.com/taskboard/backend/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// AutoMigrate all models
	err := db.AutoMigrate(
		&domain.Tag{},
		&domain.Task{},
	)
	if err != nil {
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		return err
	}

	return nil
}

func createCustomIndexes(db *gorm.DB) error {
	// Board columns list by status, newest first
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_status_created
		ON tasks (status, created_at DESC)
	`).Error; err != nil {
		return err
	}

	return nil
}
