package slots

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"avatar-studio/models"
)

func TestResolveKnownCategories(t *testing.T) {
	r := NewRegistry(800)

	tests := []struct {
		category models.Category
		anchor   r2.Vec
		size     float64
	}{
		{models.CategoryHat, r2.Vec{X: 0.5, Y: 0.05}, 0.125},
		{models.CategoryHair, r2.Vec{X: 0.5, Y: 0.34}, 0.4},
		{models.CategoryEyes, r2.Vec{X: 0.5, Y: 0.3}, 170.0 / 800},
		{models.CategoryShoes, r2.Vec{X: 0.5, Y: 0.88}, 0.125},
		{models.CategoryBackground, r2.Vec{X: 0.5, Y: 0.5}, 1},
	}

	for _, tt := range tests {
		got := r.Resolve(tt.category)
		if got.Anchor != tt.anchor {
			t.Errorf("%s anchor = %v, want %v", tt.category, got.Anchor, tt.anchor)
		}
		if !scalar.EqualWithinAbs(got.DefaultNormalizedSize, tt.size, 1e-12) {
			t.Errorf("%s size = %v, want %v", tt.category, got.DefaultNormalizedSize, tt.size)
		}
	}
}

func TestZeroAnchorMeansCenter(t *testing.T) {
	r := NewRegistry(800)

	body := r.Resolve(models.CategoryBody)
	if body.Anchor != (r2.Vec{X: 0.5, Y: 0.5}) {
		t.Fatalf("body anchor = %v, want centered", body.Anchor)
	}
	if x, y := r.AutoCenter(models.CategoryBody); !x || !y {
		t.Errorf("body should auto-center on both axes, got %v %v", x, y)
	}
	if x, y := r.AutoCenter(models.CategoryHat); x || y {
		t.Errorf("hat has explicit anchors, got auto-center %v %v", x, y)
	}

	// Only the zero axis is re-centered.
	custom := r.WithOverride(models.CategoryAccessory, r2.Vec{X: 0, Y: 0.9}, 200)
	acc := custom.Resolve(models.CategoryAccessory)
	if acc.Anchor != (r2.Vec{X: 0.5, Y: 0.9}) {
		t.Errorf("override anchor = %v, want (0.5, 0.9)", acc.Anchor)
	}
	if r.Resolve(models.CategoryAccessory).Anchor.Y != 0.5 {
		t.Error("WithOverride must not mutate the original registry")
	}
}

func TestUnknownCategoryFallsBack(t *testing.T) {
	r := NewRegistry(0)
	if r.DesignWidth() != DesignCanvasWidth {
		t.Fatalf("design width = %v", r.DesignWidth())
	}

	got := r.Resolve(models.Category("cape"))
	if got != Fallback {
		t.Errorf("unknown category = %+v, want fallback %+v", got, Fallback)
	}
	if got := r.Resolve(""); got != Fallback {
		t.Errorf("empty category = %+v, want fallback", got)
	}
}
