package models

// ModProjection selects which optional wide columns a catalog read should
// fetch. The zero value fetches the summary columns only; rows produced
// under it leave Description and Install empty.
type ModProjection struct {
	Description bool
	Install     bool
}

// FullModProjection fetches every column.
func FullModProjection() ModProjection {
	return ModProjection{Description: true, Install: true}
}

// Columns resolves the projection into a SELECT column list. Columns are
// table-qualified so projected reads stay unambiguous under joins.
func (p ModProjection) Columns() []string {
	cols := []string{
		"mods.id", "mods.url", "mods.name", "mods.owner_name", "mods.banner",
		"mods.category_id", "mods.description_short",
		"mods.visible", "mods.needs_recounting",
		"mods.total_downloads", "mods.total_views", "mods.total_rating",
		"mods.rating_hour", "mods.rating_day", "mods.rating_week",
		"mods.rating_month", "mods.rating_year",
		"mods.create_at", "mods.update_at",
	}
	if p.Description {
		cols = append(cols, "mods.description")
	}
	if p.Install {
		cols = append(cols, "mods.install")
	}
	return cols
}
