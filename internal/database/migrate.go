package database

import (
	"bestmods/internal/models"

	"gorm.io/gorm"
)

// RegisteredModels lists every entity the schema migration covers. Parents
// come before children so foreign keys resolve in one pass.
func RegisteredModels() []interface{} {
	return []interface{}{
		&models.Category{},
		&models.Source{},
		&models.Mod{},
		&models.ModDownload{},
		&models.ModScreenshot{},
		&models.ModSource{},
		&models.ModInstaller{},
	}
}

// Migrate applies the schema for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(RegisteredModels()...)
}
