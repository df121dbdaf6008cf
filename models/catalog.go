package models

import "strings"

// Category is the functional slot of an item (determines snapping, layering and exclusivity)
type Category string

const (
	CategoryHair       Category = "hair"
	CategoryEyes       Category = "eyes"
	CategoryHat        Category = "hat"
	CategoryGlasses    Category = "glasses"
	CategoryShirt      Category = "shirt"
	CategoryJacket     Category = "jacket"
	CategoryTrousers   Category = "trousers"
	CategoryPants      Category = "pants"
	CategoryShoes      Category = "shoes"
	CategoryAccessory  Category = "accessory"
	CategoryBody       Category = "body"
	CategoryBackground Category = "background"
	CategoryDrawing    Category = "drawing"
)

// Categories lists every known category in layering-neutral order
var Categories = []Category{
	CategoryHair, CategoryEyes, CategoryHat, CategoryGlasses, CategoryShirt,
	CategoryJacket, CategoryTrousers, CategoryPants, CategoryShoes,
	CategoryAccessory, CategoryBody, CategoryBackground, CategoryDrawing,
}

// ParseCategory normalizes a category name; ok is false for unknown values
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return c, false
}

// Gender restricts which base character an item is offered for
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// Allows reports whether an item restricted to g is shown for the avatar gender
func (g Gender) Allows(avatar Gender) bool {
	return g == "" || g == GenderUnisex || g == avatar
}

// Tab is the editor view an item is browsed and placed from
type Tab string

const (
	TabBody        Tab = "body"
	TabOutfit      Tab = "outfit"
	TabAccessories Tab = "accessories"
	TabCanvas      Tab = "canvas"
	TabBackground  Tab = "background"
)

// TabBehavior holds the per-view placement defaults
type TabBehavior struct {
	SnapItems bool `json:"snapItems"`
	// Drawing enables the free-hand overlay in this view
	Drawing bool `json:"drawing"`
}

// TabBehaviors maps each view to its defaults
var TabBehaviors = map[Tab]TabBehavior{
	TabBody:        {SnapItems: false},
	TabOutfit:      {SnapItems: true},
	TabAccessories: {SnapItems: true},
	TabCanvas:      {SnapItems: false, Drawing: true},
	TabBackground:  {SnapItems: false},
}

// ParseTab normalizes a tab name; ok is false for unknown values
func ParseTab(s string) (Tab, bool) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	_, ok := TabBehaviors[t]
	return t, ok
}

// CatalogItem represents a single immutable item definition in the closet catalog
type CatalogItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	Tab        Tab      `json:"tab"`
	ImageRef   string   `json:"imageRef"`
	Gender     Gender   `json:"gender,omitempty"`
	Occupation string   `json:"occupationGroup,omitempty"`
	// Snap overrides the tab default when set
	Snap *bool `json:"defaultSnap,omitempty"`
	// BaseSize is the rendered width in design-canvas pixels; 0 uses the slot default
	BaseSize    float64 `json:"baseSize,omitempty"`
	Color       string  `json:"color,omitempty"`
	DriveFileID string  `json:"driveFileId,omitempty"`
}

// CatalogData represents the closet listing returned to the editor
type CatalogData struct {
	Tab         Tab           `json:"tab"`
	Gender      Gender        `json:"gender"`
	Occupations []string      `json:"occupations"`
	Items       []CatalogItem `json:"items"`
}
