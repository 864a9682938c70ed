package service

import (
	"context"
	"fmt"

	"bestmods/internal/assets"
	"bestmods/internal/cache"
	"bestmods/internal/models"
	"bestmods/internal/repository"

	"github.com/rs/zerolog"
)

// MaxPageSize bounds a single browse page.
const MaxPageSize = 50

// EditModInput carries the full desired state of a mod and its dependent
// collections, as submitted by the edit form.
type EditModInput struct {
	ID               uint
	URL              string
	Name             string
	OwnerName        string
	CategoryID       uint
	Description      string
	DescriptionShort string
	Install          string
	Visible          bool

	// Banner is a data-URI-style encoded payload; empty means leave the
	// stored banner alone. BannerRemove clears it instead.
	Banner       string
	BannerRemove bool

	Downloads   []models.ModDownload
	Screenshots []models.ModScreenshot
	Sources     []models.ModSource
	Installers  []models.ModInstaller
}

// ModService orchestrates the catalog's edit and browse flows.
type ModService struct {
	modRepo  repository.ModRepository
	ingestor *assets.Ingestor
	logger   zerolog.Logger

	// editLocks serializes edits per mod id so two concurrent edits cannot
	// interleave their delete-then-insert reconciliation passes.
	editLocks *keyMutex
}

func NewModService(modRepo repository.ModRepository, ingestor *assets.Ingestor, logger zerolog.Logger) *ModService {
	return &ModService{
		modRepo:   modRepo,
		ingestor:  ingestor,
		logger:    logger.With().Str("service", "mod").Logger(),
		editLocks: newKeyMutex(),
	}
}

// Browse returns one page of the catalog plus a continuation cursor.
func (s *ModService) Browse(ctx context.Context, params repository.BrowseParams) ([]*models.Mod, *uint, error) {
	if params.PageSize <= 0 {
		params.PageSize = repository.DefaultPageSize
	}
	if params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}
	return s.modRepo.Browse(ctx, params)
}

// GetByURL looks a mod up by its slug. A nil visible filter accepts any
// visibility state.
func (s *ModService) GetByURL(ctx context.Context, url string, visible *bool) (*models.Mod, error) {
	if url == "" {
		return nil, models.NewValidationError("URL is required")
	}
	return s.modRepo.GetByURL(ctx, url, visible)
}

// FlagNeedsRecounting marks a mod for the external popularity recount. It
// has no other side effect.
func (s *ModService) FlagNeedsRecounting(ctx context.Context, id uint) error {
	if id == 0 {
		return models.NewValidationError("Mod id is required")
	}
	return s.modRepo.FlagNeedsRecounting(ctx, id)
}

// Edit upserts a mod and replaces its four dependent collections with the
// submitted state. Validation, banner ingestion and the parent upsert fail
// the call as a unit; reconciliation failures are collected into the
// returned warnings and never abort the edit.
func (s *ModService) Edit(ctx context.Context, in EditModInput) (*models.Mod, []string, error) {
	if in.URL == "" {
		return nil, nil, models.NewValidationError("URL is empty")
	}
	if in.Name == "" {
		return nil, nil, models.NewValidationError("Name is empty")
	}
	if in.Description == "" {
		return nil, nil, models.NewValidationError("Description is empty")
	}

	// Creations have no prior rows to race on; only edits of an existing
	// mod contend for its lock.
	if in.ID != 0 {
		unlock := s.editLocks.Lock(in.ID)
		defer unlock()
	}

	mod := &models.Mod{
		ID:               in.ID,
		URL:              in.URL,
		Name:             in.Name,
		OwnerName:        in.OwnerName,
		CategoryID:       in.CategoryID,
		Description:      in.Description,
		DescriptionShort: in.DescriptionShort,
		Install:          in.Install,
		Visible:          in.Visible,
	}

	// Banner ingestion runs before any row is touched; a failed ingestion
	// leaves no partial state behind.
	setBanner := false
	switch {
	case in.BannerRemove:
		mod.Banner = ""
		setBanner = true
	case in.Banner != "":
		path, err := s.ingestor.Ingest(in.Banner, "mod/"+in.URL, "")
		if err != nil {
			return nil, nil, err
		}
		mod.Banner = path
		setBanner = true
	}

	if err := s.modRepo.Upsert(ctx, mod, setBanner); err != nil {
		return nil, nil, err
	}

	// Reconciliation order is fixed for reproducible logs. The collections
	// are mutually independent; each failure is reported and skipped past.
	var warnings []string
	collect := func(kind string, err error) {
		if err != nil {
			s.logger.Warn().Err(err).Str("collection", kind).Uint("mod_id", mod.ID).Msg("relation reconciliation incomplete")
			warnings = append(warnings, fmt.Sprintf("%s reconciliation incomplete: %v", kind, err))
		}
	}
	collect("downloads", s.modRepo.ReplaceDownloads(ctx, mod.ID, in.Downloads))
	collect("screenshots", s.modRepo.ReplaceScreenshots(ctx, mod.ID, in.Screenshots))
	collect("sources", s.modRepo.ReplaceSources(ctx, mod.ID, in.Sources))
	collect("installers", s.modRepo.ReplaceInstallers(ctx, mod.ID, in.Installers))

	cache.InvalidateMod(ctx, mod.URL)

	return mod, warnings, nil
}
