package models

// Source is an external listing site that mods link out to. URL is the
// natural key; Icon and Banner are asset paths relative to the storage root.
type Source struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	URL     string `gorm:"uniqueIndex;not null" json:"url"`
	Name    string `gorm:"not null" json:"name"`
	Classes string `json:"classes"`
	Icon    string `json:"icon"`
	Banner  string `json:"banner"`
}
