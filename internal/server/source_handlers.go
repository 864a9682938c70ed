package server

import (
	"bestmods/internal/models"
	"bestmods/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListSources handles GET /api/sources
func (s *Server) ListSources(c *fiber.Ctx) error {
	sources, err := s.sourceService.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if sources == nil {
		sources = []*models.Source{}
	}
	return c.JSON(sources)
}

// GetSource handles GET /api/sources/:url
func (s *Server) GetSource(c *fiber.Ctx) error {
	source, err := s.sourceService.GetByURL(c.Context(), c.Params("url"))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(source)
}

type addSourceRequest struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	Classes string `json:"classes"`

	Icon         string `json:"icon"`
	IconRemove   bool   `json:"icon_remove"`
	Banner       string `json:"banner"`
	BannerRemove bool   `json:"banner_remove"`
}

// AddSource handles POST /api/sources
func (s *Server) AddSource(c *fiber.Ctx) error {
	var req addSourceRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	source, err := s.sourceService.Add(c.Context(), service.AddSourceInput{
		URL:          req.URL,
		Name:         req.Name,
		Classes:      req.Classes,
		Icon:         req.Icon,
		IconRemove:   req.IconRemove,
		Banner:       req.Banner,
		BannerRemove: req.BannerRemove,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusOK).JSON(source)
}
