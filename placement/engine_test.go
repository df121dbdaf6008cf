package placement

import (
	"fmt"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"avatar-studio/canvas"
	"avatar-studio/models"
	"avatar-studio/slots"
	"avatar-studio/store"
)

type fakeCatalog map[string]models.CatalogItem

func (c fakeCatalog) Lookup(id string, category models.Category) (models.CatalogItem, bool) {
	item, ok := c[id]
	if !ok || (category != "" && item.Category != category) {
		return models.CatalogItem{}, false
	}
	return item, true
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var testCatalog = fakeCatalog{
	"hat-01":  {ID: "hat-01", Category: models.CategoryHat, Tab: models.TabOutfit, BaseSize: 100},
	"hat-02":  {ID: "hat-02", Category: models.CategoryHat, Tab: models.TabOutfit, BaseSize: 120},
	"star":    {ID: "star", Category: models.CategoryAccessory, Tab: models.TabBody, BaseSize: 100},
	"bg-park": {ID: "bg-park", Category: models.CategoryBackground, Tab: models.TabBackground},
	"bg-city": {ID: "bg-city", Category: models.CategoryBackground, Tab: models.TabBackground, BaseSize: 300},
	"scarf":   {ID: "scarf", Category: models.CategoryAccessory, Tab: models.TabOutfit, Snap: boolPtr(false)},
}

func boolPtr(b bool) *bool { return &b }

func newTestEngine(t *testing.T) (*Engine, *store.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	ids := 0
	opts := DefaultOptions()
	opts.Clock = clock.Now
	opts.NewID = func() string { ids++; return fmt.Sprintf("inst-%d", ids) }

	st := store.New()
	st.Rehydrate(canvas.Size{W: 400, H: 400})
	return NewEngine(testCatalog, slots.NewRegistry(slots.DesignCanvasWidth), st, opts), st, clock
}

// next lets the trailing guard release between separate user gestures
func next(c *fakeClock) { c.Advance(150 * time.Millisecond) }

func drop(x, y float64) *models.Point {
	p := r2.Vec{X: x, Y: y}
	return &p
}

func TestSnapPlacementScenario(t *testing.T) {
	e, st, _ := newTestEngine(t)

	res := e.Place(Request{CatalogID: "hat-01", Category: models.CategoryHat, Canvas: st.CanvasSize(), View: models.TabOutfit})
	if res.Outcome != Placed {
		t.Fatalf("outcome = %v (%s)", res.Outcome, res.Reason)
	}
	p := res.Item
	if !scalar.EqualWithinAbs(p.XNorm, 0.4375, 1e-12) || !scalar.EqualWithinAbs(p.YNorm, -0.0125, 1e-12) {
		t.Errorf("norm = (%v,%v), want (0.4375,-0.0125)", p.XNorm, p.YNorm)
	}
	if !scalar.EqualWithinAbs(p.X, 175, 1e-9) || !scalar.EqualWithinAbs(p.Y, -5, 1e-9) {
		t.Errorf("pixels = (%v,%v), want (175,-5)", p.X, p.Y)
	}
	if !p.IsSnapped || p.SnapAnchor == nil || *p.SnapAnchor != (r2.Vec{X: 0.5, Y: 0.05}) {
		t.Errorf("snap state = %v %v", p.IsSnapped, p.SnapAnchor)
	}
	t.Logf("✓ hat-01 lands at (%.0f,%.0f)", p.X, p.Y)
}

func TestSlotExclusivity(t *testing.T) {
	e, st, clock := newTestEngine(t)

	first := e.Place(Request{CatalogID: "hat-01", Category: models.CategoryHat, View: models.TabOutfit})
	next(clock)
	second := e.Place(Request{CatalogID: "hat-02", Category: models.CategoryHat, View: models.TabOutfit})
	if first.Outcome != Placed || second.Outcome != Placed {
		t.Fatalf("outcomes = %v, %v", first.Outcome, second.Outcome)
	}

	hats := st.ByCategory(models.CategoryHat)
	if len(hats) != 1 || hats[0].ID != "hat-02" {
		t.Fatalf("hats = %+v", hats)
	}
	if len(second.Evicted) != 1 || second.Evicted[0] != first.Item.InstanceID {
		t.Errorf("evicted = %v, want [%s]", second.Evicted, first.Item.InstanceID)
	}
	if second.Item.Z <= first.Item.Z {
		t.Errorf("z did not grow: %d -> %d", first.Item.Z, second.Item.Z)
	}
}

func TestBackgroundSingleton(t *testing.T) {
	e, st, clock := newTestEngine(t)

	for _, id := range []string{"bg-park", "bg-city", "bg-park"} {
		// Drop points are ignored for backgrounds.
		res := e.Place(Request{CatalogID: id, Category: models.CategoryBackground, Drop: drop(10, 390), Canvas: st.CanvasSize()})
		if res.Outcome != Placed {
			t.Fatalf("%s: %v (%s)", id, res.Outcome, res.Reason)
		}
		next(clock)
	}

	bgs := st.ByCategory(models.CategoryBackground)
	if len(bgs) != 1 {
		t.Fatalf("backgrounds = %d, want 1", len(bgs))
	}
	bg := bgs[0]
	if bg.ID != "bg-park" || bg.Z != 0 || bg.SizeNorm != 1 || bg.XNorm != 0 || bg.YNorm != 0 {
		t.Errorf("background = %+v", bg)
	}
	if bg.Width != 400 || bg.Height != 400 {
		t.Errorf("background pixels = %vx%v", bg.Width, bg.Height)
	}
}

func TestFreeFloatMultiplicity(t *testing.T) {
	e, st, clock := newTestEngine(t)

	a := e.Place(Request{CatalogID: "star", Category: models.CategoryAccessory, Drop: drop(100, 100), Canvas: st.CanvasSize(), View: models.TabBody})
	next(clock)
	b := e.Place(Request{CatalogID: "star", Category: models.CategoryAccessory, Drop: drop(300, 200), Canvas: st.CanvasSize(), View: models.TabBody})
	if a.Outcome != Placed || b.Outcome != Placed {
		t.Fatalf("outcomes = %v (%s), %v (%s)", a.Outcome, a.Reason, b.Outcome, b.Reason)
	}
	if a.Item.InstanceID == b.Item.InstanceID {
		t.Fatal("instances share an id")
	}
	if st.Len() != 2 {
		t.Fatalf("store len = %d", st.Len())
	}

	half := 0.125 / 2
	checks := []struct {
		item   *models.PlacedItem
		cx, cy float64
	}{
		{a.Item, 0.25, 0.25},
		{b.Item, 0.75, 0.5},
	}
	for _, c := range checks {
		if c.item.IsSnapped {
			t.Errorf("%s should be free", c.item.InstanceID)
		}
		if !scalar.EqualWithinAbs(c.item.XNorm, c.cx-half, 1e-12) || !scalar.EqualWithinAbs(c.item.YNorm, c.cy-half, 1e-12) {
			t.Errorf("%s at (%v,%v), want center (%v,%v)", c.item.InstanceID, c.item.XNorm, c.item.YNorm, c.cx, c.cy)
		}
	}
}

func TestDedupeWindow(t *testing.T) {
	e, st, clock := newTestEngine(t)
	// Only the time window is under test here.
	e.opts.NearTolerance = 0
	req := Request{CatalogID: "star", Category: models.CategoryAccessory, Drop: drop(120.2, 80.4), Canvas: st.CanvasSize(), View: models.TabBody}

	if res := e.Place(req); res.Outcome != Placed {
		t.Fatalf("first drop: %s", res.Reason)
	}
	clock.Advance(300 * time.Millisecond)
	// Rounds to the same key.
	req.Drop = drop(119.8, 79.6)
	if res := e.Place(req); res.Outcome != Ignored || res.Reason != ReasonDuplicate {
		t.Fatalf("second drop within window = %v (%s)", res.Outcome, res.Reason)
	}
	if st.Len() != 1 {
		t.Fatalf("store len = %d, want 1", st.Len())
	}
	t.Logf("✓ duplicate inside the window rejected")

	clock.Advance(250 * time.Millisecond)
	if res := e.Place(req); res.Outcome != Placed {
		t.Fatalf("drop after window = %v (%s)", res.Outcome, res.Reason)
	}
	if st.Len() != 2 {
		t.Errorf("store len = %d, want 2", st.Len())
	}
}

func TestDedupeKeyUsesResolvedCategory(t *testing.T) {
	e, st, clock := newTestEngine(t)

	if res := e.Place(Request{CatalogID: "star", Drop: drop(120, 80), Canvas: st.CanvasSize(), View: models.TabBody}); res.Outcome != Placed {
		t.Fatalf("drop without category: %v (%s)", res.Outcome, res.Reason)
	}
	clock.Advance(200 * time.Millisecond)
	res := e.Place(Request{CatalogID: "star", Category: models.CategoryAccessory, Drop: drop(120, 80), Canvas: st.CanvasSize(), View: models.TabBody})
	if res.Outcome != Ignored || res.Reason != ReasonDuplicate {
		t.Fatalf("same drop with explicit category = %v (%s), want duplicate", res.Outcome, res.Reason)
	}
	if st.Len() != 1 {
		t.Errorf("store len = %d, want 1", st.Len())
	}
	t.Logf("✓ omitted and explicit category share one dedupe key")
}

func TestNearIdenticalFreeDrop(t *testing.T) {
	tests := []struct {
		name    string
		second  *models.Point
		tol     float64
		wantLen int
		outcome Outcome
	}{
		{"within tolerance", drop(102, 101), 5, 1, Ignored},
		{"one axis outside", drop(106, 101), 5, 2, Placed},
		{"far away", drop(300, 200), 5, 2, Placed},
		{"check disabled", drop(102, 101), 0, 2, Placed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, st, clock := newTestEngine(t)
			e.opts.NearTolerance = tt.tol
			req := Request{CatalogID: "star", Category: models.CategoryAccessory, Drop: drop(100, 100), Canvas: st.CanvasSize(), View: models.TabBody}
			if res := e.Place(req); res.Outcome != Placed {
				t.Fatalf("first drop: %v (%s)", res.Outcome, res.Reason)
			}
			// Past the busy guard but inside the dedupe window; the keys differ.
			clock.Advance(200 * time.Millisecond)
			req.Drop = tt.second
			res := e.Place(req)
			if res.Outcome != tt.outcome {
				t.Fatalf("second drop = %v (%s), want %v", res.Outcome, res.Reason, tt.outcome)
			}
			if res.Outcome == Ignored && res.Reason != ReasonDuplicate {
				t.Errorf("reason = %s, want %s", res.Reason, ReasonDuplicate)
			}
			if st.Len() != tt.wantLen {
				t.Errorf("store len = %d, want %d", st.Len(), tt.wantLen)
			}
		})
	}
	t.Logf("✓ drops on top of an existing instance rejected")
}

func TestNearIdenticalDropOtherItem(t *testing.T) {
	e, st, clock := newTestEngine(t)
	if res := e.Place(Request{CatalogID: "star", Category: models.CategoryAccessory, Drop: drop(100, 100), Canvas: st.CanvasSize(), View: models.TabBody}); res.Outcome != Placed {
		t.Fatalf("star: %v (%s)", res.Outcome, res.Reason)
	}
	next(clock)
	// scarf never snaps, so it takes the free path onto the same spot.
	if res := e.Place(Request{CatalogID: "scarf", Category: models.CategoryAccessory, Drop: drop(101, 101), Canvas: st.CanvasSize(), View: models.TabOutfit}); res.Outcome != Placed {
		t.Fatalf("scarf: %v (%s)", res.Outcome, res.Reason)
	}
	if st.Len() != 2 {
		t.Errorf("store len = %d, want 2", st.Len())
	}
}

func TestFreePlacementClamp(t *testing.T) {
	e, st, _ := newTestEngine(t)

	res := e.Place(Request{CatalogID: "star", Category: models.CategoryAccessory, Drop: drop(-50, 50), Canvas: st.CanvasSize(), View: models.TabBody})
	if res.Outcome != Placed {
		t.Fatalf("outcome = %v (%s)", res.Outcome, res.Reason)
	}
	size := res.Item.SizeNorm
	if !scalar.EqualWithinAbs(res.Item.XNorm, -size/2, 1e-12) {
		t.Errorf("xNorm = %v, want %v", res.Item.XNorm, -size/2)
	}
	if !scalar.EqualWithinAbs(res.Item.YNorm, 0.125-size/2, 1e-12) {
		t.Errorf("yNorm = %v", res.Item.YNorm)
	}
}

func TestFreeWithoutDropUsesAnchor(t *testing.T) {
	e, _, _ := newTestEngine(t)

	res := e.Place(Request{CatalogID: "scarf", Category: models.CategoryAccessory, View: models.TabOutfit})
	if res.Outcome != Placed {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if res.Item.IsSnapped {
		t.Error("item override disables snapping")
	}
	// Slot default size 100/800 around the accessory anchor.
	if !scalar.EqualWithinAbs(res.Item.XNorm, 0.5-0.0625, 1e-12) || !scalar.EqualWithinAbs(res.Item.YNorm, 0.5-0.0625, 1e-12) {
		t.Errorf("position = (%v,%v)", res.Item.XNorm, res.Item.YNorm)
	}
}

func TestIgnoredPlacements(t *testing.T) {
	e, st, clock := newTestEngine(t)

	tests := []struct {
		name   string
		req    Request
		reason Reason
	}{
		{"unknown id", Request{CatalogID: "ghost", Category: models.CategoryHat}, ReasonUnknownItem},
		{"category mismatch", Request{CatalogID: "hat-01", Category: models.CategoryShoes}, ReasonUnknownItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Place(tt.req)
			if res.Outcome != Ignored || res.Reason != tt.reason {
				t.Errorf("got %v (%s), want ignored (%s)", res.Outcome, res.Reason, tt.reason)
			}
		})
	}

	if res := e.Place(Request{CatalogID: "hat-01", Category: models.CategoryHat, View: models.TabOutfit}); res.Outcome != Placed {
		t.Fatalf("placement failed: %s", res.Reason)
	}
	clock.Advance(50 * time.Millisecond)
	if res := e.Place(Request{CatalogID: "star", Category: models.CategoryAccessory, Drop: drop(10, 10), View: models.TabBody}); res.Reason != ReasonBusy {
		t.Errorf("placement during release delay = %v (%s), want busy", res.Outcome, res.Reason)
	}
	if st.Len() != 1 {
		t.Errorf("store len = %d, want 1", st.Len())
	}
}

func TestSetWallpaper(t *testing.T) {
	e, st, _ := newTestEngine(t)

	if res := e.SetWallpaper("sky"); res.Outcome != Placed {
		t.Fatalf("wallpaper rejected: %s", res.Reason)
	}
	// Wallpapers bypass the placement guard.
	if res := e.SetWallpaper("night"); res.Outcome != Placed {
		t.Fatalf("second wallpaper rejected: %s", res.Reason)
	}
	bg := st.Background()
	if bg == nil || bg.ID != "bg-night" || bg.Z != 0 || bg.Color == "" {
		t.Fatalf("background = %+v", bg)
	}
	if res := e.SetWallpaper("lava"); res.Outcome != Ignored {
		t.Error("unknown wallpaper should be ignored")
	}
	if n := len(st.ByCategory(models.CategoryBackground)); n != 1 {
		t.Errorf("backgrounds = %d", n)
	}
}

func TestEffectiveSnap(t *testing.T) {
	e, _, _ := newTestEngine(t)

	tests := []struct {
		item models.CatalogItem
		view models.Tab
		want bool
	}{
		{models.CatalogItem{Tab: models.TabOutfit}, models.TabBody, true},
		{models.CatalogItem{Tab: models.TabBody}, models.TabOutfit, false},
		{models.CatalogItem{}, models.TabAccessories, true},
		{models.CatalogItem{}, models.TabCanvas, false},
		{models.CatalogItem{Tab: models.TabOutfit, Snap: boolPtr(false)}, models.TabOutfit, false},
		{models.CatalogItem{Tab: models.TabBody, Snap: boolPtr(true)}, models.TabBody, true},
	}
	for i, tt := range tests {
		if got := e.EffectiveSnap(tt.item, tt.view); got != tt.want {
			t.Errorf("case %d: EffectiveSnap = %v, want %v", i, got, tt.want)
		}
	}
}
