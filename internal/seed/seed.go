// Package seed provides helpers to create demo catalog data for development
// and testing.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"bestmods/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumMods     int
	ShouldClean bool
}

var categoryPresets = []struct {
	name     string
	short    string
	children []string
}{
	{name: "Doom", short: "Doom", children: []string{"Gameplay", "Maps", "Weapons"}},
	{name: "Quake", short: "Quake", children: []string{"Maps", "Models"}},
	{name: "Half-Life", short: "HL", children: []string{"Total Conversions", "Maps"}},
	{name: "Minecraft", short: "MC", children: []string{"Tech", "Adventure"}},
}

var sourcePresets = []models.Source{
	{URL: "moddb.com", Name: "ModDB", Classes: "moddb"},
	{URL: "github.com", Name: "GitHub", Classes: "github"},
	{URL: "curseforge.com", Name: "CurseForge", Classes: "curseforge"},
}

// Run populates the database with categories, sources and mods.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	var leafCategories []*models.Category
	for _, preset := range categoryPresets {
		parent := &models.Category{
			Name:      preset.name,
			NameShort: preset.short,
			URL:       slugify(preset.name),
			HasBg:     r.Intn(2) == 0,
		}
		if err := db.Create(parent).Error; err != nil {
			return fmt.Errorf("seeding category %q: %w", preset.name, err)
		}
		for _, childName := range preset.children {
			child := &models.Category{
				ParentID:  &parent.ID,
				Name:      childName,
				NameShort: childName,
				URL:       slugify(preset.name + "-" + childName),
			}
			if err := db.Create(child).Error; err != nil {
				return fmt.Errorf("seeding category %q: %w", childName, err)
			}
			leafCategories = append(leafCategories, child)
		}
	}

	for i := range sourcePresets {
		source := sourcePresets[i]
		if err := db.Create(&source).Error; err != nil {
			return fmt.Errorf("seeding source %q: %w", source.URL, err)
		}
	}

	numMods := opts.NumMods
	if numMods <= 0 {
		numMods = 50
	}
	for i := 0; i < numMods; i++ {
		category := leafCategories[r.Intn(len(leafCategories))]
		mod := buildMod(r, category)
		if err := db.Create(mod).Error; err != nil {
			return fmt.Errorf("seeding mod %q: %w", mod.URL, err)
		}
	}

	return nil
}

func buildMod(r *rand.Rand, category *models.Category) *models.Mod {
	name := titleCase(gofakeit.HipsterWord() + " " + gofakeit.NounConcrete())
	url := slugify(name + "-" + gofakeit.LetterN(4))

	mod := &models.Mod{
		URL:              url,
		Name:             name,
		OwnerName:        gofakeit.Username(),
		CategoryID:       category.ID,
		Description:      gofakeit.Paragraph(2, 4, 8, "\n\n"),
		DescriptionShort: gofakeit.Sentence(8),
		Install:          "1. Download the archive.\n2. Extract into your game directory.",
		Visible:          r.Intn(10) != 0,
		TotalDownloads:   int64(r.Intn(50000)),
		TotalViews:       int64(r.Intn(200000)),
	}

	// Windowed ratings shrink as the window narrows.
	mod.TotalRating = int64(r.Intn(2000))
	mod.RatingYear = mod.TotalRating / 2
	mod.RatingMonth = mod.RatingYear / 3
	mod.RatingWeek = mod.RatingMonth / 2
	mod.RatingDay = mod.RatingWeek / 3
	mod.RatingHour = mod.RatingDay / 4

	site := sourcePresets[r.Intn(len(sourcePresets))]
	mod.Downloads = []models.ModDownload{
		{Name: "Main", URL: gofakeit.URL()},
	}
	mod.Screenshots = []models.ModScreenshot{
		{URL: fmt.Sprintf("https://picsum.photos/seed/%s/1280/720", url)},
	}
	mod.Sources = []models.ModSource{
		{SourceURL: site.URL, Query: url},
	}

	return mod
}

func clean(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.ModInstaller{}, &models.ModSource{}, &models.ModScreenshot{},
		&models.ModDownload{}, &models.Mod{}, &models.Source{}, &models.Category{},
	} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	return strings.Map(func(c rune) rune {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			return c
		}
		return -1
	}, s)
}
