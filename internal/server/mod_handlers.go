package server

import (
	"strconv"
	"strings"

	"bestmods/internal/models"
	"bestmods/internal/repository"
	"bestmods/internal/service"

	"github.com/gofiber/fiber/v2"
)

// browseResponse is the page envelope returned by BrowseMods.
type browseResponse struct {
	Items      []*models.Mod `json:"items"`
	NextCursor *uint         `json:"next_cursor,omitempty"`
}

// parseCategoryIDs parses a comma-separated id list, dropping blanks.
func parseCategoryIDs(raw string) []uint {
	if raw == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// BrowseMods handles GET /api/mods
func (s *Server) BrowseMods(c *fiber.Ctx) error {
	ctx := c.Context()

	params := repository.BrowseParams{
		Search:      c.Query("search"),
		CategoryIDs: parseCategoryIDs(c.Query("categories")),
		Sort:        c.QueryInt("sort", repository.SortRating),
		Timeframe:   c.QueryInt("timeframe", repository.TimeframeAllTime),
		PageSize:    c.QueryInt("count", repository.DefaultPageSize),
	}

	if raw := c.Query("visible"); raw != "" {
		visible := raw == "true" || raw == "1"
		params.Visible = &visible
	}
	if raw := c.Query("cursor"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid cursor"))
		}
		cursor := uint(id)
		params.Cursor = &cursor
	}

	mods, nextCursor, err := s.modService.Browse(ctx, params)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if mods == nil {
		mods = []*models.Mod{}
	}
	return c.JSON(browseResponse{Items: mods, NextCursor: nextCursor})
}

// GetMod handles GET /api/mods/:url
func (s *Server) GetMod(c *fiber.Ctx) error {
	ctx := c.Context()

	var visible *bool
	if raw := c.Query("visible"); raw != "" {
		v := raw == "true" || raw == "1"
		visible = &v
	}

	mod, err := s.modService.GetByURL(ctx, c.Params("url"), visible)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(mod)
}

// editModRequest mirrors the edit form's full desired state.
type editModRequest struct {
	ID               uint   `json:"id"`
	URL              string `json:"url"`
	Name             string `json:"name"`
	OwnerName        string `json:"owner_name"`
	CategoryID       uint   `json:"category_id"`
	Description      string `json:"description"`
	DescriptionShort string `json:"description_short"`
	Install          string `json:"install"`
	Visible          *bool  `json:"visible"`

	Banner       string `json:"banner"`
	BannerRemove bool   `json:"banner_remove"`

	Downloads   []models.ModDownload   `json:"downloads"`
	Screenshots []models.ModScreenshot `json:"screenshots"`
	Sources     []models.ModSource     `json:"sources"`
	Installers  []models.ModInstaller  `json:"installers"`
}

// EditMod handles POST /api/mods
func (s *Server) EditMod(c *fiber.Ctx) error {
	ctx := c.Context()

	var req editModRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	mod, warnings, err := s.modService.Edit(ctx, service.EditModInput{
		ID:               req.ID,
		URL:              req.URL,
		Name:             req.Name,
		OwnerName:        req.OwnerName,
		CategoryID:       req.CategoryID,
		Description:      req.Description,
		DescriptionShort: req.DescriptionShort,
		Install:          req.Install,
		Visible:          visible,
		Banner:           req.Banner,
		BannerRemove:     req.BannerRemove,
		Downloads:        req.Downloads,
		Screenshots:      req.Screenshots,
		Sources:          req.Sources,
		Installers:       req.Installers,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	resp := fiber.Map{"mod": mod}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// FlagRecount handles POST /api/mods/:id/recount
func (s *Server) FlagRecount(c *fiber.Ctx) error {
	ctx := c.Context()

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid mod id"))
	}

	if err := s.modService.FlagNeedsRecounting(ctx, uint(id)); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
