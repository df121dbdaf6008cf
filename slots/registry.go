// Package slots holds the default anchor and size of every category.
package slots

import (
	"gonum.org/v1/gonum/spatial/r2"

	"avatar-studio/models"
)

// DesignCanvasWidth is the reference width catalog base sizes are expressed in
const DesignCanvasWidth = 800.0

// entry is a raw table row: anchor in normalized units, size in design pixels
type entry struct {
	x, y float64
	size float64
}

// An anchor axis of exactly 0 means "center on this axis", not "left/top edge".
var defaults = map[models.Category]entry{
	models.CategoryHair:       {0.5, 0.34, 320},
	models.CategoryEyes:       {0.5, 0.3, 170},
	models.CategoryHat:        {0.5, 0.05, 100},
	models.CategoryGlasses:    {0.5, 0.22, 100},
	models.CategoryShirt:      {0.5, 0.4, 100},
	models.CategoryJacket:     {0.5, 0.38, 100},
	models.CategoryTrousers:   {0.5, 0.6, 100},
	models.CategoryPants:      {0.5, 0.6, 100},
	models.CategoryShoes:      {0.5, 0.88, 100},
	models.CategoryAccessory:  {0.5, 0.5, 100},
	models.CategoryBody:       {0, 0, 100},
	models.CategoryBackground: {0, 0, DesignCanvasWidth},
	models.CategoryDrawing:    {0, 0, DesignCanvasWidth},
}

// Fallback is returned for categories without a table entry (center, full-bleed)
var Fallback = models.SlotConfig{
	Anchor:                r2.Vec{X: 0.5, Y: 0.5},
	DefaultNormalizedSize: 1.0,
}

// Registry resolves category slot configuration
type Registry struct {
	designWidth float64
	table       map[models.Category]entry
}

// NewRegistry creates a registry over the built-in table for the given design width
func NewRegistry(designWidth float64) *Registry {
	if designWidth <= 0 {
		designWidth = DesignCanvasWidth
	}
	table := make(map[models.Category]entry, len(defaults))
	for k, v := range defaults {
		table[k] = v
	}
	return &Registry{designWidth: designWidth, table: table}
}

// WithOverride returns a copy of the registry with one category replaced.
// anchor is in normalized units, size in design pixels.
func (r *Registry) WithOverride(category models.Category, anchor models.Point, size float64) *Registry {
	next := NewRegistry(r.designWidth)
	for k, v := range r.table {
		next.table[k] = v
	}
	next.table[category] = entry{anchor.X, anchor.Y, size}
	return next
}

// DesignWidth returns the design canvas width sizes are relative to
func (r *Registry) DesignWidth() float64 {
	return r.designWidth
}

// Resolve returns the slot for a category, falling back to a centered full-size slot
func (r *Registry) Resolve(category models.Category) models.SlotConfig {
	e, ok := r.table[category]
	if !ok {
		return Fallback
	}
	return models.SlotConfig{
		Anchor:                r2.Vec{X: autoCenter(e.x), Y: autoCenter(e.y)},
		DefaultNormalizedSize: e.size / r.designWidth,
	}
}

// AutoCenter reports, per axis, whether the raw anchor uses the zero sentinel
func (r *Registry) AutoCenter(category models.Category) (x, y bool) {
	e, ok := r.table[category]
	if !ok {
		return false, false
	}
	return e.x == 0, e.y == 0
}

// DesignSize returns the default item width of a category in design pixels
func (r *Registry) DesignSize(category models.Category) float64 {
	return r.Resolve(category).DefaultNormalizedSize * r.designWidth
}

func autoCenter(v float64) float64 {
	if v == 0 {
		return 0.5
	}
	return v
}
