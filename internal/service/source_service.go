package service

import (
	"context"

	"bestmods/internal/assets"
	"bestmods/internal/cache"
	"bestmods/internal/models"
	"bestmods/internal/repository"

	"github.com/rs/zerolog"
)

// AddSourceInput carries the desired state of a source site listing.
type AddSourceInput struct {
	URL     string
	Name    string
	Classes string

	// Icon and Banner are data-URI-style encoded payloads; empty leaves the
	// stored asset alone, the matching remove flag clears it.
	Icon         string
	IconRemove   bool
	Banner       string
	BannerRemove bool
}

// SourceService manages the external source sites mods link out to.
type SourceService struct {
	sourceRepo repository.SourceRepository
	ingestor   *assets.Ingestor
	logger     zerolog.Logger
}

func NewSourceService(sourceRepo repository.SourceRepository, ingestor *assets.Ingestor, logger zerolog.Logger) *SourceService {
	return &SourceService{
		sourceRepo: sourceRepo,
		ingestor:   ingestor,
		logger:     logger.With().Str("service", "source").Logger(),
	}
}

func (s *SourceService) List(ctx context.Context) ([]*models.Source, error) {
	return s.sourceRepo.List(ctx)
}

func (s *SourceService) GetByURL(ctx context.Context, url string) (*models.Source, error) {
	if url == "" {
		return nil, models.NewValidationError("URL is required")
	}

	var source models.Source
	err := cache.Aside(ctx, cache.SourceKey(url), &source, cache.SourceTTL, func() error {
		got, err := s.sourceRepo.GetByURL(ctx, url)
		if err != nil {
			return err
		}
		source = *got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// Add upserts a source site by its url natural key, ingesting its icon and
// banner assets when supplied. The banner shares the icon's slug with a
// distinguishing role suffix.
func (s *SourceService) Add(ctx context.Context, in AddSourceInput) (*models.Source, error) {
	if len(in.URL) < 2 {
		return nil, models.NewValidationError("URL must be at least 2 characters")
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is empty")
	}

	source := &models.Source{
		URL:     in.URL,
		Name:    in.Name,
		Classes: in.Classes,
	}

	setIcon := false
	switch {
	case in.IconRemove:
		source.Icon = ""
		setIcon = true
	case in.Icon != "":
		path, err := s.ingestor.Ingest(in.Icon, "source/"+in.URL, "")
		if err != nil {
			return nil, err
		}
		source.Icon = path
		setIcon = true
	}

	setBanner := false
	switch {
	case in.BannerRemove:
		source.Banner = ""
		setBanner = true
	case in.Banner != "":
		path, err := s.ingestor.Ingest(in.Banner, "source/"+in.URL, "banner")
		if err != nil {
			return nil, err
		}
		source.Banner = path
		setBanner = true
	}

	if err := s.sourceRepo.Upsert(ctx, source, setIcon, setBanner); err != nil {
		return nil, err
	}

	cache.InvalidateSource(ctx, source.URL)
	return source, nil
}
