package service

import (
	"testing"

	"bestmods/internal/assets"
	"bestmods/internal/database"
	"bestmods/internal/models"
	"bestmods/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testHarness bundles an in-memory database with fully wired services.
type testHarness struct {
	db            *gorm.DB
	storageDir    string
	modService    *ModService
	sourceService *SourceService
}

func setupHarness(t *testing.T) *testHarness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.RegisteredModels()...))

	storageDir := t.TempDir()
	ingestor := assets.NewIngestor(storageDir, zerolog.Nop())
	modRepo := repository.NewModRepository(db, zerolog.Nop())
	sourceRepo := repository.NewSourceRepository(db)

	return &testHarness{
		db:            db,
		storageDir:    storageDir,
		modService:    NewModService(modRepo, ingestor, zerolog.Nop()),
		sourceService: NewSourceService(sourceRepo, ingestor, zerolog.Nop()),
	}
}

func (h *testHarness) createCategory(t *testing.T, name, url string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, NameShort: name, URL: url}
	require.NoError(t, h.db.Create(category).Error)
	return category
}
