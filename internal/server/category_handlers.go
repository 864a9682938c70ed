package server

import (
	"bestmods/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListCategories handles GET /api/categories
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return c.JSON(categories)
}
