package models

import "gonum.org/v1/gonum/spatial/r2"

// Point is a 2D coordinate, either canvas pixels or normalized [0,1] units
type Point = r2.Vec

// PlacedItem represents one concrete instance of a catalog item on the canvas.
// XNorm, YNorm and SizeNorm are authoritative; X, Y, Width and Height are a
// pixel cache recomputed from them for the current canvas size.
type PlacedItem struct {
	CatalogItem
	InstanceID string  `json:"instanceId"`
	XNorm      float64 `json:"xNorm"`
	YNorm      float64 `json:"yNorm"`
	SizeNorm   float64 `json:"sizeNorm"`
	Z          int     `json:"z"`
	IsSnapped  bool    `json:"isSnapped"`
	SnapAnchor *Point  `json:"snapAnchor,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Snapshot holds the PNG-encoded drawing layer; only set on the drawing entry
	Snapshot []byte `json:"-"`
}

// FillsCanvas reports whether the item is rendered over the whole canvas
// instead of as a square of SizeNorm width
func (p *PlacedItem) FillsCanvas() bool {
	return p.Category == CategoryBackground || p.Category == CategoryDrawing
}

// SlotConfig is the default anchor and size of a category
type SlotConfig struct {
	Anchor                Point   `json:"anchor"`
	DefaultNormalizedSize float64 `json:"defaultNormalizedSize"`
}

// Wallpaper is a colour-only background offered by the background tab
type Wallpaper struct {
	ID         string `json:"id"`
	Background string `json:"background"`
}

// Wallpapers available in the background picker; the first one is the session default
var Wallpapers = []Wallpaper{
	{ID: "white", Background: "#ffffff"},
	{ID: "sky", Background: "linear-gradient(180deg, #93c5fd 0%, #e0f2fe 60%, #ffffff 100%)"},
	{ID: "rainbow", Background: "linear-gradient(135deg, #ff9a9e 0%, #fad0c4 25%, #fbc2eb 50%, #a18cd1 75%, #84fab0 100%)"},
	{ID: "sunrise", Background: "linear-gradient(135deg, #fef3c7 0%, #fde68a 50%, #fca5a5 100%)"},
	{ID: "sunset", Background: "linear-gradient(180deg, #c084fc 0%, #93c5fd 50%, #0f172a 100%)"},
	{ID: "grass", Background: "repeating-linear-gradient(90deg, #86efac 0 24px, #4ade80 24px 48px)"},
	{ID: "dots", Background: "radial-gradient(#60a5fa 10%, transparent 11%)"},
	{ID: "paper", Background: "repeating-linear-gradient(0deg, #f8fafc 0 16px, #e2e8f0 16px 17px)"},
	{ID: "mint", Background: "linear-gradient(180deg, #ecfeff 0%, #a5f3fc 100%)"},
	{ID: "night", Background: "radial-gradient(#fef9c3 1px, transparent 1px), #0f172a"},
}

// FindWallpaper returns the wallpaper with the given id
func FindWallpaper(id string) (Wallpaper, bool) {
	for _, wp := range Wallpapers {
		if wp.ID == id {
			return wp, true
		}
	}
	return Wallpaper{}, false
}

// WallpaperItem builds the catalog definition used for a wallpaper background
func WallpaperItem(wp Wallpaper) CatalogItem {
	return CatalogItem{
		ID:       "bg-" + wp.ID,
		Name:     "Background " + wp.ID,
		Category: CategoryBackground,
		Tab:      TabBackground,
		Color:    wp.Background,
	}
}
