// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Mod represents a cataloged add-on entry with its metadata and popularity
// counters. Popularity fields are owned by the recounting batch process and
// are never written by the edit path.
type Mod struct {
	ID  uint   `gorm:"primaryKey" json:"id"`
	URL string `gorm:"uniqueIndex;not null" json:"url"`

	Name      string    `gorm:"not null" json:"name"`
	OwnerName string    `json:"owner_name"`
	Banner    string    `json:"banner"`
	Category  *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	CategoryID uint `gorm:"index" json:"category_id"`

	// Description and Install hold raw markdown source; rendering is the
	// presentation layer's concern.
	Description      string `gorm:"type:text;not null" json:"description"`
	DescriptionShort string `json:"description_short"`
	Install          string `gorm:"type:text" json:"install"`

	Visible         bool `gorm:"default:true;index" json:"visible"`
	NeedsRecounting bool `gorm:"default:false" json:"needs_recounting"`

	TotalDownloads int64 `gorm:"default:0" json:"total_downloads"`
	TotalViews     int64 `gorm:"default:0" json:"total_views"`
	TotalRating    int64 `gorm:"default:0;index" json:"total_rating"`

	RatingHour  int64 `gorm:"default:0;index" json:"rating_hour"`
	RatingDay   int64 `gorm:"default:0;index" json:"rating_day"`
	RatingWeek  int64 `gorm:"default:0;index" json:"rating_week"`
	RatingMonth int64 `gorm:"default:0;index" json:"rating_month"`
	RatingYear  int64 `gorm:"default:0;index" json:"rating_year"`

	CreateAt time.Time `gorm:"autoCreateTime;index" json:"create_at"`
	UpdateAt time.Time `gorm:"autoUpdateTime;index" json:"update_at"`

	Downloads   []ModDownload   `gorm:"foreignKey:ModID;constraint:OnDelete:CASCADE" json:"downloads,omitempty"`
	Screenshots []ModScreenshot `gorm:"foreignKey:ModID;constraint:OnDelete:CASCADE" json:"screenshots,omitempty"`
	Sources     []ModSource     `gorm:"foreignKey:ModID;constraint:OnDelete:CASCADE" json:"sources,omitempty"`
	Installers  []ModInstaller  `gorm:"foreignKey:ModID;constraint:OnDelete:CASCADE" json:"installers,omitempty"`
}

// ModDownload is a download link owned by a mod, keyed by (mod_id, url).
type ModDownload struct {
	ID    uint   `gorm:"primaryKey" json:"-"`
	ModID uint   `gorm:"not null;uniqueIndex:idx_mod_download_key" json:"mod_id"`
	Name  string `json:"name"`
	URL   string `gorm:"uniqueIndex:idx_mod_download_key" json:"url"`
}

// Valid reports whether the entry carries every required field.
func (d ModDownload) Valid() bool { return d.URL != "" }

// Key returns the natural key within the parent mod.
func (d ModDownload) Key() string { return d.URL }

// ModScreenshot is a screenshot owned by a mod, keyed by (mod_id, url).
type ModScreenshot struct {
	ID    uint   `gorm:"primaryKey" json:"-"`
	ModID uint   `gorm:"not null;uniqueIndex:idx_mod_screenshot_key" json:"mod_id"`
	URL   string `gorm:"uniqueIndex:idx_mod_screenshot_key" json:"url"`
}

func (s ModScreenshot) Valid() bool { return s.URL != "" }
func (s ModScreenshot) Key() string { return s.URL }

// ModSource points a mod at its listing on an external source site, keyed by
// (mod_id, source_url). Query is combined with the source's URL by the
// presentation layer to form the outbound link.
type ModSource struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ModID     uint   `gorm:"not null;uniqueIndex:idx_mod_source_key" json:"mod_id"`
	SourceURL string `gorm:"uniqueIndex:idx_mod_source_key" json:"source_url"`
	Query     string `json:"query"`
}

func (s ModSource) Valid() bool { return s.SourceURL != "" && s.Query != "" }
func (s ModSource) Key() string { return s.SourceURL }

// ModInstaller is a one-click install link tied to a source site, keyed by
// (mod_id, source_url).
type ModInstaller struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ModID     uint   `gorm:"not null;uniqueIndex:idx_mod_installer_key" json:"mod_id"`
	SourceURL string `gorm:"uniqueIndex:idx_mod_installer_key" json:"source_url"`
	URL       string `json:"url"`
}

func (i ModInstaller) Valid() bool { return i.SourceURL != "" && i.URL != "" }
func (i ModInstaller) Key() string { return i.SourceURL }
