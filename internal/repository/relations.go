package repository

import (
	"context"
	"errors"
	"fmt"

	"bestmods/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// modRelation is implemented by every dependent collection row of a mod.
// Key is the natural key within the parent; Valid reports whether every
// required field is present.
type modRelation interface {
	Key() string
	Valid() bool
}

// reconcileRelation replaces the full stored set of one dependent collection
// for a parent mod with exactly the desired entries.
//
// The prior rows are removed with a best-effort delete: a parent with no
// rows yet is the common case, so a delete failure is logged and the insert
// pass still runs. Entries missing a required field are silently dropped to
// tolerate sparse client-side form state, duplicates of a natural key
// collapse to the last occurrence, and each insert failure is collected
// independently so one bad row never blocks the rest.
func reconcileRelation[T modRelation](ctx context.Context, db *gorm.DB, logger zerolog.Logger, kind string, modID uint, entries []T) error {
	if err := db.WithContext(ctx).
		Where("mod_id = ?", modID).
		Delete(new(T)).Error; err != nil {
		logger.Warn().Err(err).
			Str("collection", kind).
			Uint("mod_id", modID).
			Msg("clearing prior relation rows failed, continuing")
	}

	var (
		order []string
		byKey = make(map[string]T)
	)
	for _, entry := range entries {
		if !entry.Valid() {
			continue
		}
		if _, seen := byKey[entry.Key()]; !seen {
			order = append(order, entry.Key())
		}
		// Last occurrence of a duplicate key wins.
		byKey[entry.Key()] = entry
	}

	var errs []error
	for _, key := range order {
		entry := byKey[key]
		if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
			logger.Error().Err(err).
				Str("collection", kind).
				Uint("mod_id", modID).
				Str("key", key).
				Msg("relation insert failed")
			errs = append(errs, fmt.Errorf("%s %q: %w", kind, key, err))
		}
	}
	return errors.Join(errs...)
}

func (r *modRepository) ReplaceDownloads(ctx context.Context, modID uint, entries []models.ModDownload) error {
	for i := range entries {
		entries[i].ID = 0
		entries[i].ModID = modID
	}
	return reconcileRelation(ctx, r.db, r.logger, "download", modID, entries)
}

func (r *modRepository) ReplaceScreenshots(ctx context.Context, modID uint, entries []models.ModScreenshot) error {
	for i := range entries {
		entries[i].ID = 0
		entries[i].ModID = modID
	}
	return reconcileRelation(ctx, r.db, r.logger, "screenshot", modID, entries)
}

func (r *modRepository) ReplaceSources(ctx context.Context, modID uint, entries []models.ModSource) error {
	for i := range entries {
		entries[i].ID = 0
		entries[i].ModID = modID
	}
	return reconcileRelation(ctx, r.db, r.logger, "source", modID, entries)
}

func (r *modRepository) ReplaceInstallers(ctx context.Context, modID uint, entries []models.ModInstaller) error {
	for i := range entries {
		entries[i].ID = 0
		entries[i].ModID = modID
	}
	return reconcileRelation(ctx, r.db, r.logger, "installer", modID, entries)
}
