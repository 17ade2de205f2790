package database

import (
	"fmt"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Note{},
		&models.AuditLog{},
		&models.Backup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
