// Package store holds the ordered collection of placed items of one session.
package store

import (
	"math"
	"sort"

	"avatar-studio/canvas"
	"avatar-studio/models"
)

// DrawingZ keeps the drawing layer above every placed item
const DrawingZ = math.MaxInt32

// Store is the placed-item collection plus the shared z counter.
// It is owned by a single session and is not safe for concurrent use.
type Store struct {
	items []*models.PlacedItem
	topZ  int
	size  canvas.Size
}

// New creates an empty store; z numbering starts above the background
func New() *Store {
	return &Store{topZ: 1}
}

// NextZ increments and returns the shared z counter
func (s *Store) NextZ() int {
	s.topZ++
	return s.topZ
}

// TopZ returns the last z handed out
func (s *Store) TopZ() int {
	return s.topZ
}

// CanvasSize returns the size the pixel caches were last computed for
func (s *Store) CanvasSize() canvas.Size {
	return s.size
}

// Append adds an item unconditionally
func (s *Store) Append(item *models.PlacedItem) {
	canvas.Layout(item, s.size)
	s.items = append(s.items, item)
}

// ReplaceCategory removes every item of the item's category, then appends it
func (s *Store) ReplaceCategory(item *models.PlacedItem) []*models.PlacedItem {
	evicted := s.RemoveWhere(func(p *models.PlacedItem) bool {
		return p.Category == item.Category
	})
	s.Append(item)
	return evicted
}

// ReplaceBackground installs item as the single background pinned to z=0
func (s *Store) ReplaceBackground(item *models.PlacedItem) {
	item.Z = 0
	s.ReplaceCategory(item)
}

// SetDrawing publishes a drawing snapshot into the single drawing-layer entry,
// creating the entry on first use
func (s *Store) SetDrawing(snapshot []byte, newID func() string) *models.PlacedItem {
	if d := s.Drawing(); d != nil {
		d.Snapshot = snapshot
		return d
	}
	d := &models.PlacedItem{
		CatalogItem: models.CatalogItem{
			ID:       "drawing-layer",
			Name:     "Drawing",
			Category: models.CategoryDrawing,
			Tab:      models.TabCanvas,
		},
		InstanceID: newID(),
		SizeNorm:   1,
		Z:          DrawingZ,
		Snapshot:   snapshot,
	}
	s.Append(d)
	return d
}

// RemoveWhere deletes matching items and returns them
func (s *Store) RemoveWhere(match func(*models.PlacedItem) bool) []*models.PlacedItem {
	var removed []*models.PlacedItem
	kept := s.items[:0]
	for _, p := range s.items {
		if match(p) {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
	return removed
}

// RemoveInstance deletes one placement; the background and drawing layer are kept
func (s *Store) RemoveInstance(instanceID string) bool {
	removed := s.RemoveWhere(func(p *models.PlacedItem) bool {
		return p.InstanceID == instanceID && !p.FillsCanvas()
	})
	return len(removed) > 0
}

// RemoveCatalogItem deletes every placement of a catalog id except singleton layers
func (s *Store) RemoveCatalogItem(catalogID string) int {
	removed := s.RemoveWhere(func(p *models.PlacedItem) bool {
		return p.ID == catalogID && !p.FillsCanvas()
	})
	return len(removed)
}

// Get returns the placement with the given instance id
func (s *Store) Get(instanceID string) *models.PlacedItem {
	for _, p := range s.items {
		if p.InstanceID == instanceID {
			return p
		}
	}
	return nil
}

// MoveTo updates the normalized position of a placement
func (s *Store) MoveTo(instanceID string, pos models.Point) bool {
	p := s.Get(instanceID)
	if p == nil {
		return false
	}
	p.XNorm, p.YNorm = pos.X, pos.Y
	canvas.Layout(p, s.size)
	return true
}

// HasCatalogItem reports whether any placement uses the catalog id
func (s *Store) HasCatalogItem(catalogID string, match func(*models.PlacedItem) bool) bool {
	for _, p := range s.items {
		if p.ID == catalogID && (match == nil || match(p)) {
			return true
		}
	}
	return false
}

// ByCategory returns the placements of a category in insertion order
func (s *Store) ByCategory(category models.Category) []*models.PlacedItem {
	var out []*models.PlacedItem
	for _, p := range s.items {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Background returns the background entry, if any
func (s *Store) Background() *models.PlacedItem {
	for _, p := range s.items {
		if p.Category == models.CategoryBackground {
			return p
		}
	}
	return nil
}

// Drawing returns the drawing-layer entry, if any
func (s *Store) Drawing() *models.PlacedItem {
	for _, p := range s.items {
		if p.Category == models.CategoryDrawing {
			return p
		}
	}
	return nil
}

// Len returns the number of placements including singleton layers
func (s *Store) Len() int {
	return len(s.items)
}

// Items returns copies of all placements in insertion order
func (s *Store) Items() []models.PlacedItem {
	out := make([]models.PlacedItem, len(s.items))
	for i, p := range s.items {
		out[i] = *p
	}
	return out
}

// Layers returns copies of all placements sorted bottom to top
func (s *Store) Layers() []models.PlacedItem {
	out := s.Items()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Z < out[j].Z
	})
	return out
}

// Rehydrate recomputes every pixel cache from normalized coordinates.
// Normalized fields are never written, so repeated calls are idempotent.
func (s *Store) Rehydrate(size canvas.Size) {
	s.size = size
	for _, p := range s.items {
		canvas.Layout(p, size)
	}
}
