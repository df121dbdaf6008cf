package store

import (
	"fmt"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"avatar-studio/canvas"
	"avatar-studio/models"
)

func placed(id string, category models.Category, x, y, size float64) *models.PlacedItem {
	return &models.PlacedItem{
		CatalogItem: models.CatalogItem{ID: id, Category: category},
		InstanceID:  "inst-" + id + fmt.Sprintf("-%v-%v", x, y),
		XNorm:       x,
		YNorm:       y,
		SizeNorm:    size,
	}
}

func TestRehydrateIsIdempotent(t *testing.T) {
	s := New()
	s.Append(placed("hat-01", models.CategoryHat, 0.4375, -0.0125, 0.125))
	s.Append(placed("star", models.CategoryAccessory, 0.1, 0.7, 0.2))
	s.ReplaceBackground(placed("bg-white", models.CategoryBackground, 0, 0, 1))

	sizes := []canvas.Size{{W: 400, H: 400}, {W: 1280, H: 1280}, {W: 0, H: 0}, {W: 333, H: 333}}
	for _, size := range sizes {
		s.Rehydrate(size)
		first := s.Items()
		s.Rehydrate(size)
		second := s.Items()
		for i := range first {
			if first[i].X != second[i].X || first[i].Y != second[i].Y || first[i].Width != second[i].Width {
				t.Fatalf("rehydrate drifted at %v: %+v vs %+v", size, first[i], second[i])
			}
		}
	}

	s.Rehydrate(canvas.Size{W: 400, H: 400})
	hat := s.ByCategory(models.CategoryHat)[0]
	if hat.X != 175 || hat.Y != -5 || hat.Width != 50 {
		t.Errorf("hat pixels = (%v,%v) w=%v, want (175,-5) w=50", hat.X, hat.Y, hat.Width)
	}
	if hat.XNorm != 0.4375 || hat.YNorm != -0.0125 {
		t.Errorf("rehydrate touched normalized fields: %v %v", hat.XNorm, hat.YNorm)
	}
}

func TestReplaceCategoryEvictsOccupant(t *testing.T) {
	s := New()
	s.Append(placed("hat-01", models.CategoryHat, 0.4, 0, 0.1))
	s.Append(placed("shoe", models.CategoryShoes, 0.4, 0.8, 0.1))

	evicted := s.ReplaceCategory(placed("hat-02", models.CategoryHat, 0.4, 0, 0.1))
	if len(evicted) != 1 || evicted[0].ID != "hat-01" {
		t.Fatalf("evicted = %+v", evicted)
	}
	hats := s.ByCategory(models.CategoryHat)
	if len(hats) != 1 || hats[0].ID != "hat-02" {
		t.Errorf("hats = %+v", hats)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestBackgroundPinnedToZero(t *testing.T) {
	s := New()
	bg := placed("bg-a", models.CategoryBackground, 0, 0, 1)
	bg.Z = 7
	s.ReplaceBackground(bg)
	s.ReplaceBackground(placed("bg-b", models.CategoryBackground, 0, 0, 1))

	if n := len(s.ByCategory(models.CategoryBackground)); n != 1 {
		t.Fatalf("backgrounds = %d, want 1", n)
	}
	if b := s.Background(); b.ID != "bg-b" || b.Z != 0 {
		t.Errorf("background = %s z=%d", b.ID, b.Z)
	}
}

func TestDrawingLayerSingleton(t *testing.T) {
	s := New()
	ids := 0
	newID := func() string { ids++; return fmt.Sprintf("d%d", ids) }

	first := s.SetDrawing([]byte("a"), newID)
	second := s.SetDrawing([]byte("b"), newID)
	if first != second {
		t.Fatal("drawing layer was duplicated")
	}
	if ids != 1 {
		t.Errorf("id generator called %d times, want 1", ids)
	}
	if string(s.Drawing().Snapshot) != "b" {
		t.Errorf("snapshot = %q, want b", s.Drawing().Snapshot)
	}

	s.Append(placed("star", models.CategoryAccessory, 0.1, 0.1, 0.1))
	layers := s.Layers()
	if layers[len(layers)-1].Category != models.CategoryDrawing {
		t.Errorf("drawing layer must be on top, got %s", layers[len(layers)-1].Category)
	}
	if s.RemoveInstance(first.InstanceID) {
		t.Error("drawing layer must not be removable as an instance")
	}
}

func TestRemoveAndMove(t *testing.T) {
	s := New()
	s.Rehydrate(canvas.Size{W: 200, H: 200})
	a := placed("star", models.CategoryAccessory, 0.1, 0.1, 0.1)
	b := placed("star", models.CategoryAccessory, 0.5, 0.5, 0.1)
	c := placed("moon", models.CategoryAccessory, 0.2, 0.2, 0.1)
	s.Append(a)
	s.Append(b)
	s.Append(c)

	if !s.MoveTo(c.InstanceID, r2.Vec{X: 0.25, Y: 0.75}) {
		t.Fatal("MoveTo failed")
	}
	if got := s.Get(c.InstanceID); got.X != 50 || got.Y != 150 {
		t.Errorf("moved pixels = (%v,%v), want (50,150)", got.X, got.Y)
	}
	if s.MoveTo("missing", r2.Vec{}) {
		t.Error("MoveTo on missing instance should fail")
	}

	if n := s.RemoveCatalogItem("star"); n != 2 {
		t.Errorf("RemoveCatalogItem removed %d, want 2", n)
	}
	if !s.HasCatalogItem("moon", nil) || s.HasCatalogItem("star", nil) {
		t.Error("unexpected catalog membership after removal")
	}
	if !s.RemoveInstance(c.InstanceID) || s.Len() != 0 {
		t.Errorf("RemoveInstance failed, len=%d", s.Len())
	}
}

func TestNextZMonotonic(t *testing.T) {
	s := New()
	prev := s.TopZ()
	for i := 0; i < 5; i++ {
		z := s.NextZ()
		if z <= prev {
			t.Fatalf("z went from %d to %d", prev, z)
		}
		prev = z
	}
}
