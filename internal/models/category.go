package models

// Category is a tree node in the catalog taxonomy. Parent is a plain foreign
// key; in practice the hierarchy is two levels deep, but the model does not
// enforce that.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Parent    *Category `gorm:"foreignKey:ParentID" json:"-"`
	URL       string    `gorm:"uniqueIndex;not null" json:"url"`
	Name      string    `gorm:"not null" json:"name"`
	NameShort string    `json:"name_short"`
	HasBg     bool      `gorm:"default:false" json:"has_bg"`
}
