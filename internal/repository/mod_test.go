package repository

import (
	"context"
	"testing"

	"bestmods/internal/cache"
	"bestmods/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowseOrdersByTimeframeRatingThenID(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	createMod(t, db, category.ID, "low", func(m *models.Mod) { m.RatingDay = 5 })
	createMod(t, db, category.ID, "tie-a", func(m *models.Mod) { m.RatingDay = 10 })
	createMod(t, db, category.ID, "tie-b", func(m *models.Mod) { m.RatingDay = 10 })

	mods, next, err := repo.Browse(ctx, BrowseParams{
		Sort:      SortRating,
		Timeframe: TimeframeDay,
		PageSize:  10,
	})
	require.NoError(t, err)
	require.Nil(t, next)
	require.Len(t, mods, 3)

	// Descending rating, ties broken by descending id.
	assert.Equal(t, "tie-b", mods[0].URL)
	assert.Equal(t, "tie-a", mods[1].URL)
	assert.Equal(t, "low", mods[2].URL)
}

func TestBrowseDayTimeframeFirstPage(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	createMod(t, db, category.ID, "first", func(m *models.Mod) { m.RatingDay = 30 })
	createMod(t, db, category.ID, "second", func(m *models.Mod) { m.RatingDay = 20 })
	third := createMod(t, db, category.ID, "third", func(m *models.Mod) { m.RatingDay = 10 })

	mods, next, err := repo.Browse(ctx, BrowseParams{
		Sort:      SortRating,
		Timeframe: TimeframeDay,
		PageSize:  2,
	})
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, "first", mods[0].URL)
	assert.Equal(t, "second", mods[1].URL)
	require.NotNil(t, next)
	assert.Equal(t, third.ID, *next)
}

func TestBrowsePaginationWalkCoversAllRowsOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	ratings := []int64{40, 40, 40, 25, 25, 10, 5}
	for i, rating := range ratings {
		r := rating
		createMod(t, db, category.ID, "mod-"+string(rune('a'+i)), func(m *models.Mod) { m.RatingWeek = r })
	}

	seen := make(map[uint]bool)
	var lastRating *int64
	var lastID uint
	var cursor *uint
	pages := 0

	for {
		mods, next, err := repo.Browse(ctx, BrowseParams{
			Sort:      SortRating,
			Timeframe: TimeframeWeek,
			Cursor:    cursor,
			PageSize:  3,
		})
		require.NoError(t, err)
		require.LessOrEqual(t, len(mods), 3)

		for _, mod := range mods {
			assert.False(t, seen[mod.ID], "mod %d appeared twice", mod.ID)
			seen[mod.ID] = true

			if lastRating != nil {
				if *lastRating == mod.RatingWeek {
					assert.Greater(t, lastID, mod.ID)
				} else {
					assert.Greater(t, *lastRating, mod.RatingWeek)
				}
			}
			rating := mod.RatingWeek
			lastRating = &rating
			lastID = mod.ID
		}

		pages++
		if next == nil {
			break
		}
		cursor = next
	}

	assert.Len(t, seen, len(ratings))
	assert.Equal(t, 3, pages)
}

func TestBrowseSearchMatchesAnyField(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	doom := createCategory(t, db, "Doom", "Doom", "doom")
	forge := createCategory(t, db, "Forge Mods", "Forge", "forge")

	byOwner := createMod(t, db, doom.ID, "owner-match", func(m *models.Mod) {
		m.Name = "Plain Mod"
		m.OwnerName = "ForgeTeam"
	})
	byCategory := createMod(t, db, forge.ID, "category-match", func(m *models.Mod) {
		m.Name = "Another Mod"
	})
	createMod(t, db, doom.ID, "no-match", func(m *models.Mod) {
		m.Name = "Unrelated"
	})

	mods, _, err := repo.Browse(ctx, BrowseParams{Search: "forge", PageSize: 10})
	require.NoError(t, err)

	var urls []string
	for _, mod := range mods {
		urls = append(urls, mod.URL)
	}
	assert.ElementsMatch(t, []string{byOwner.URL, byCategory.URL}, urls)
}

func TestBrowseCategoryAndVisibilityFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	doom := createCategory(t, db, "Doom", "Doom", "doom")
	quake := createCategory(t, db, "Quake", "Quake", "quake")

	visible := createMod(t, db, doom.ID, "visible-doom")
	createMod(t, db, doom.ID, "hidden-doom", func(m *models.Mod) { m.Visible = false })
	createMod(t, db, quake.ID, "visible-quake")

	visibleOnly := true
	mods, _, err := repo.Browse(ctx, BrowseParams{
		CategoryIDs: []uint{doom.ID},
		Visible:     &visibleOnly,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, visible.URL, mods[0].URL)

	// No visibility predicate: all visibility states are eligible.
	mods, _, err = repo.Browse(ctx, BrowseParams{
		CategoryIDs: []uint{doom.ID},
		PageSize:    10,
	})
	require.NoError(t, err)
	assert.Len(t, mods, 2)
}

func TestBrowseAttributeSorts(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	createMod(t, db, category.ID, "few-views", func(m *models.Mod) {
		m.TotalViews = 10
		m.TotalDownloads = 900
	})
	createMod(t, db, category.ID, "many-views", func(m *models.Mod) {
		m.TotalViews = 500
		m.TotalDownloads = 3
	})

	mods, _, err := repo.Browse(ctx, BrowseParams{Sort: SortViews, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, "many-views", mods[0].URL)

	mods, _, err = repo.Browse(ctx, BrowseParams{Sort: SortDownloads, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, "few-views", mods[0].URL)
}

func TestBrowseEmptyResultIsNotAnError(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)

	mods, next, err := repo.Browse(context.Background(), BrowseParams{Search: "nothing", PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, mods)
	assert.Nil(t, next)
}

func TestGetByURLPreloadsRelations(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	mod := createMod(t, db, category.ID, "brutal-doom")
	require.NoError(t, db.Create(&models.ModDownload{ModID: mod.ID, Name: "Main", URL: "http://a"}).Error)
	require.NoError(t, db.Create(&models.ModSource{ModID: mod.ID, SourceURL: "moddb.com", Query: "brutal-doom"}).Error)

	got, err := repo.GetByURL(ctx, "brutal-doom", nil)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Doom", got.Category.Name)
	assert.Len(t, got.Downloads, 1)
	assert.Len(t, got.Sources, 1)
}

func TestGetByURLVisibilityFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	createMod(t, db, category.ID, "hidden", func(m *models.Mod) { m.Visible = false })

	visibleOnly := true
	_, err := repo.GetByURL(ctx, "hidden", &visibleOnly)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	got, err := repo.GetByURL(ctx, "hidden", nil)
	require.NoError(t, err)
	assert.Equal(t, "hidden", got.URL)
}

func TestUpsertNeverTouchesPopularityFields(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	mod := createMod(t, db, category.ID, "brutal-doom", func(m *models.Mod) {
		m.TotalRating = 777
		m.RatingDay = 42
		m.TotalViews = 1234
	})

	err := repo.Upsert(ctx, &models.Mod{
		ID:          mod.ID,
		URL:         "brutal-doom",
		Name:        "Brutal Doom (renamed)",
		CategoryID:  category.ID,
		Description: "Still a test mod.",
		Visible:     true,
	}, false)
	require.NoError(t, err)

	var stored models.Mod
	require.NoError(t, db.First(&stored, mod.ID).Error)
	assert.Equal(t, "Brutal Doom (renamed)", stored.Name)
	assert.Equal(t, int64(777), stored.TotalRating)
	assert.Equal(t, int64(42), stored.RatingDay)
	assert.Equal(t, int64(1234), stored.TotalViews)
}

func TestUpsertBannerColumnOwnership(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	mod := createMod(t, db, category.ID, "brutal-doom", func(m *models.Mod) {
		m.Banner = "mod/brutal-doom.png"
	})

	// setBanner=false leaves the stored banner alone.
	err := repo.Upsert(ctx, &models.Mod{
		ID:          mod.ID,
		URL:         "brutal-doom",
		Name:        "Brutal Doom",
		CategoryID:  category.ID,
		Description: "desc",
		Visible:     true,
	}, false)
	require.NoError(t, err)

	var stored models.Mod
	require.NoError(t, db.First(&stored, mod.ID).Error)
	assert.Equal(t, "mod/brutal-doom.png", stored.Banner)

	// setBanner=true with an empty value clears it.
	err = repo.Upsert(ctx, &models.Mod{
		ID:          mod.ID,
		URL:         "brutal-doom",
		Name:        "Brutal Doom",
		CategoryID:  category.ID,
		Description: "desc",
		Visible:     true,
	}, true)
	require.NoError(t, err)

	require.NoError(t, db.First(&stored, mod.ID).Error)
	assert.Equal(t, "", stored.Banner)
}

func TestUpsertRenameInvalidatesPriorCacheKey(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	category := createCategory(t, db, "Doom", "Doom", "doom")
	mod := createMod(t, db, category.ID, "old-slug")

	// Warm the cache under the original slug.
	_, err := repo.GetByURL(ctx, "old-slug", nil)
	require.NoError(t, err)
	var cached models.Mod
	found, err := cache.GetJSON(ctx, cache.ModKey("old-slug"), &cached)
	require.NoError(t, err)
	require.True(t, found)

	err = repo.Upsert(ctx, &models.Mod{
		ID:          mod.ID,
		URL:         "new-slug",
		Name:        "Renamed",
		CategoryID:  category.ID,
		Description: "desc",
		Visible:     true,
	}, false)
	require.NoError(t, err)

	found, err = cache.GetJSON(ctx, cache.ModKey("old-slug"), &cached)
	require.NoError(t, err)
	assert.False(t, found, "the prior slug must not keep serving the renamed mod")
}

func TestFlagNeedsRecounting(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	mod := createMod(t, db, category.ID, "brutal-doom")
	require.False(t, mod.NeedsRecounting)

	require.NoError(t, repo.FlagNeedsRecounting(ctx, mod.ID))

	var stored models.Mod
	require.NoError(t, db.First(&stored, mod.ID).Error)
	assert.True(t, stored.NeedsRecounting)

	err := repo.FlagNeedsRecounting(ctx, 99999)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestBrowseProjectionLimitsColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := newTestModRepo(t, db)
	ctx := context.Background()

	category := createCategory(t, db, "Doom", "Doom", "doom")
	createMod(t, db, category.ID, "brutal-doom", func(m *models.Mod) {
		m.Description = "long markdown body"
		m.Install = "install steps"
	})

	mods, _, err := repo.Browse(ctx, BrowseParams{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Empty(t, mods[0].Description, "summary projection must not fetch wide columns")
	assert.Empty(t, mods[0].Install)

	mods, _, err = repo.Browse(ctx, BrowseParams{PageSize: 10, Projection: models.FullModProjection()})
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "long markdown body", mods[0].Description)
}
