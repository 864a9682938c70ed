package repository

import (
	"context"
	"errors"

	"bestmods/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SourceRepository defines the interface for source site data operations
type SourceRepository interface {
	List(ctx context.Context) ([]*models.Source, error)
	GetByURL(ctx context.Context, url string) (*models.Source, error)
	Upsert(ctx context.Context, source *models.Source, setIcon, setBanner bool) error
}

type sourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) List(ctx context.Context) ([]*models.Source, error) {
	var sources []*models.Source
	if err := r.db.WithContext(ctx).Order("name").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *sourceRepository) GetByURL(ctx context.Context, url string) (*models.Source, error) {
	var source models.Source
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Source", url)
		}
		return nil, err
	}
	return &source, nil
}

// Upsert inserts or updates a source by its url natural key. The icon and
// banner columns are only assigned when the caller ingested a new asset or
// requested removal.
func (r *sourceRepository) Upsert(ctx context.Context, source *models.Source, setIcon, setBanner bool) error {
	cols := []string{"name", "classes"}
	if setIcon {
		cols = append(cols, "icon")
	}
	if setBanner {
		cols = append(cols, "banner")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(source).Error
	if err != nil {
		return models.NewPersistenceConflictError(err)
	}
	return nil
}
