// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bestmods/internal/cache"
	"bestmods/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort families for Browse. SortRating ranks by the timeframe-selected
// rating column; the rest rank by a single attribute. Every sort is
// descending with descending id as the tie-breaker.
// DefaultPageSize bounds a browse page when the caller does not say.
const DefaultPageSize = 10

const (
	SortRating = iota
	SortViews
	SortDownloads
	SortLastUpdated
	SortCreated
)

// Timeframe values selecting the windowed rating column under SortRating.
const (
	TimeframeHour = iota
	TimeframeDay
	TimeframeWeek
	TimeframeMonth
	TimeframeYear
	TimeframeAllTime
)

// BrowseParams describes one page of a catalog scan.
type BrowseParams struct {
	Search      string
	CategoryIDs []uint
	Visible     *bool

	Sort      int
	Timeframe int

	// Cursor is the id of the first row of the requested page, nil for the
	// first page.
	Cursor   *uint
	PageSize int

	Projection models.ModProjection
}

// ModRepository defines the interface for mod data operations
type ModRepository interface {
	Browse(ctx context.Context, params BrowseParams) ([]*models.Mod, *uint, error)
	GetByURL(ctx context.Context, url string, visible *bool) (*models.Mod, error)
	Upsert(ctx context.Context, mod *models.Mod, setBanner bool) error
	FlagNeedsRecounting(ctx context.Context, id uint) error

	ReplaceDownloads(ctx context.Context, modID uint, entries []models.ModDownload) error
	ReplaceScreenshots(ctx context.Context, modID uint, entries []models.ModScreenshot) error
	ReplaceSources(ctx context.Context, modID uint, entries []models.ModSource) error
	ReplaceInstallers(ctx context.Context, modID uint, entries []models.ModInstaller) error
}

// modRepository implements ModRepository
type modRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewModRepository creates a new mod repository
func NewModRepository(db *gorm.DB, logger zerolog.Logger) ModRepository {
	return &modRepository{
		db:     db,
		logger: logger.With().Str("repository", "mod").Logger(),
	}
}

// rankColumn resolves the active ranking column for the sort/timeframe pair.
func rankColumn(sort, timeframe int) string {
	switch sort {
	case SortViews:
		return "total_views"
	case SortDownloads:
		return "total_downloads"
	case SortLastUpdated:
		return "update_at"
	case SortCreated:
		return "create_at"
	default:
		switch timeframe {
		case TimeframeHour:
			return "rating_hour"
		case TimeframeDay:
			return "rating_day"
		case TimeframeWeek:
			return "rating_week"
		case TimeframeMonth:
			return "rating_month"
		case TimeframeYear:
			return "rating_year"
		default:
			return "total_rating"
		}
	}
}

// rankValue extracts the mod's value for the ranking column.
func rankValue(mod *models.Mod, column string) interface{} {
	switch column {
	case "total_views":
		return mod.TotalViews
	case "total_downloads":
		return mod.TotalDownloads
	case "update_at":
		return mod.UpdateAt
	case "create_at":
		return mod.CreateAt
	case "rating_hour":
		return mod.RatingHour
	case "rating_day":
		return mod.RatingDay
	case "rating_week":
		return mod.RatingWeek
	case "rating_month":
		return mod.RatingMonth
	case "rating_year":
		return mod.RatingYear
	default:
		return mod.TotalRating
	}
}

// Browse runs a filtered, sorted catalog query and returns one page plus a
// continuation cursor.
//
// Pagination is seek-based: the cursor identifies the first row of the
// requested page, and the scan resumes at or after that row's composite
// (rank, id) position via a compound inequality rather than OFFSET, so the
// page boundary stays correct under concurrent inserts. pageSize+1 rows are
// fetched; when all arrive, the extra row is popped and its id becomes the
// next cursor.
func (r *modRepository) Browse(ctx context.Context, params BrowseParams) ([]*models.Mod, *uint, error) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	column := rankColumn(params.Sort, params.Timeframe)

	q := r.db.WithContext(ctx).Model(&models.Mod{}).
		Select(params.Projection.Columns())

	if params.Visible != nil {
		q = q.Where("mods.visible = ?", *params.Visible)
	}
	if len(params.CategoryIDs) > 0 {
		q = q.Where("mods.category_id IN ?", params.CategoryIDs)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		q = q.Joins("LEFT JOIN categories ON categories.id = mods.category_id").
			Where(
				"LOWER(mods.name) LIKE LOWER(?) OR LOWER(mods.description_short) LIKE LOWER(?) OR LOWER(mods.owner_name) LIKE LOWER(?) OR LOWER(categories.name) LIKE LOWER(?) OR LOWER(categories.name_short) LIKE LOWER(?)",
				pattern, pattern, pattern, pattern, pattern,
			)
	}

	if params.Cursor != nil {
		cursorMod, err := r.getCursorRow(ctx, *params.Cursor)
		if err != nil {
			return nil, nil, err
		}
		// Inclusive seek: the cursor row is the first row of this page.
		q = q.Where(
			fmt.Sprintf("mods.%s < ? OR (mods.%s = ? AND mods.id <= ?)", column, column),
			rankValue(cursorMod, column), rankValue(cursorMod, column), cursorMod.ID,
		)
	}

	var mods []*models.Mod
	err := q.Order(fmt.Sprintf("mods.%s DESC, mods.id DESC", column)).
		Limit(pageSize + 1).
		Find(&mods).Error
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *uint
	if len(mods) > pageSize {
		next := mods[pageSize].ID
		mods = mods[:pageSize]
		nextCursor = &next
	}

	return mods, nextCursor, nil
}

// getCursorRow loads the ranking fields of the row a cursor points at.
func (r *modRepository) getCursorRow(ctx context.Context, id uint) (*models.Mod, error) {
	var mod models.Mod
	if err := r.db.WithContext(ctx).First(&mod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Mod", id)
		}
		return nil, err
	}
	return &mod, nil
}

func (r *modRepository) GetByURL(ctx context.Context, url string, visible *bool) (*models.Mod, error) {
	var mod models.Mod

	fetch := func() error {
		q := r.db.WithContext(ctx).
			Preload("Category").
			Preload("Downloads").
			Preload("Screenshots").
			Preload("Sources").
			Preload("Installers").
			Where("url = ?", url)
		if visible != nil {
			q = q.Where("visible = ?", *visible)
		}
		return q.First(&mod).Error
	}

	var err error
	if visible == nil {
		// Only the unrestricted lookup is cached; a visibility-filtered read
		// must not be satisfied by an unfiltered cache entry.
		err = cache.Aside(ctx, cache.ModKey(url), &mod, cache.ModTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Mod", url)
		}
		return nil, err
	}
	return &mod, nil
}

// modEditColumns are the parent columns owned by the edit path. Popularity
// counters belong to the recounting process and are never assigned here.
var modEditColumns = []string{
	"url", "name", "owner_name", "category_id",
	"description", "description_short", "install",
	"visible", "update_at",
}

// Upsert inserts the mod or, when its id already exists, updates the
// edit-owned columns. The banner column is only assigned when the caller
// ingested a new asset or requested removal.
func (r *modRepository) Upsert(ctx context.Context, mod *models.Mod, setBanner bool) error {
	cols := modEditColumns
	if setBanner {
		cols = append(append([]string{}, cols...), "banner")
	}

	// A rename leaves a cached entry behind under the old slug; look it up
	// before the write so it can be invalidated too.
	var priorURL string
	if mod.ID != 0 {
		var prior models.Mod
		if err := r.db.WithContext(ctx).Select("url").First(&prior, mod.ID).Error; err == nil {
			priorURL = prior.URL
		}
	}

	mod.UpdateAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(mod).Error
	if err != nil {
		return models.NewPersistenceConflictError(err)
	}

	if priorURL != "" && priorURL != mod.URL {
		cache.InvalidateMod(ctx, priorURL)
	}
	cache.InvalidateMod(ctx, mod.URL)
	return nil
}

func (r *modRepository) FlagNeedsRecounting(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Mod{}).
		Where("id = ?", id).
		UpdateColumn("needs_recounting", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Mod", id)
	}
	return nil
}
