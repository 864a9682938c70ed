package repository

import (
	"testing"

	"bestmods/internal/database"
	"bestmods/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.RegisteredModels()...))
	return db
}

func newTestModRepo(t *testing.T, db *gorm.DB) ModRepository {
	t.Helper()
	return NewModRepository(db, zerolog.Nop())
}

// createCategory persists a minimal category for fixtures.
func createCategory(t *testing.T, db *gorm.DB, name, short, url string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, NameShort: short, URL: url}
	require.NoError(t, db.Create(category).Error)
	return category
}

// createMod persists a mod fixture, applying any overrides first.
func createMod(t *testing.T, db *gorm.DB, categoryID uint, url string, overrides ...func(*models.Mod)) *models.Mod {
	t.Helper()
	mod := &models.Mod{
		URL:         url,
		Name:        "Mod " + url,
		CategoryID:  categoryID,
		Description: "A test mod.",
		Visible:     true,
	}
	for _, override := range overrides {
		override(mod)
	}
	require.NoError(t, db.Create(mod).Error)
	return mod
}
