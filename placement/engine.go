// Package placement resolves where a catalog item lands on the canvas and
// commits it into the placed-item store.
package placement

import (
	"fmt"
	"math"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"avatar-studio/canvas"
	"avatar-studio/models"
	"avatar-studio/slots"
	"avatar-studio/store"
)

// Catalog is the read-only item lookup the engine places from
type Catalog interface {
	Lookup(id string, category models.Category) (models.CatalogItem, bool)
}

// Outcome says whether a placement was committed
type Outcome int

const (
	Ignored Outcome = iota
	Placed
)

func (o Outcome) String() string {
	if o == Placed {
		return "placed"
	}
	return "ignored"
}

// Reason explains an ignored placement
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonBusy        Reason = "busy"
	ReasonUnknownItem Reason = "unknown_item"
	ReasonDuplicate   Reason = "duplicate"
)

// Result is the outcome of a placement attempt. Placement never fails;
// rejected input is reported as Ignored with a reason.
type Result struct {
	Outcome Outcome            `json:"-"`
	Status  string             `json:"status"`
	Reason  Reason             `json:"reason,omitempty"`
	Item    *models.PlacedItem `json:"item,omitempty"`
	Evicted []string           `json:"evicted,omitempty"`
}

func ignored(reason Reason) Result {
	return Result{Outcome: Ignored, Status: Ignored.String(), Reason: reason}
}

// Request describes one placement. Drop is in canvas-local pixels and is
// only used for free placement.
type Request struct {
	CatalogID string
	Category  models.Category
	Drop      *models.Point
	Canvas    canvas.Size
	// View is the tab the placement happens from; used when the item has no tab
	View models.Tab
}

// Options are the engine tunables
type Options struct {
	DedupeWindow  time.Duration
	ReleaseDelay  time.Duration
	// NearTolerance rejects a free placement landing within this many pixels
	// of a placement of the same item on both axes; 0 disables the check
	NearTolerance float64
	Clock         func() time.Time
	NewID         func() string
	Logger        logr.Logger
}

// DefaultOptions returns the standard debounce timings
func DefaultOptions() Options {
	return Options{
		DedupeWindow:  500 * time.Millisecond,
		ReleaseDelay:  100 * time.Millisecond,
		NearTolerance: 5,
	}
}

type lastDrop struct {
	key string
	at  time.Time
}

// Engine is the placement state machine of one session
type Engine struct {
	catalog  Catalog
	slots    *slots.Registry
	store    *store.Store
	opts     Options
	log      logr.Logger
	inFlight bool
	// busyUntil absorbs duplicates fired by the same physical gesture
	busyUntil time.Time
	last      *lastDrop
}

// NewEngine creates an engine writing into st
func NewEngine(catalog Catalog, registry *slots.Registry, st *store.Store, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.DedupeWindow < 0 {
		opts.DedupeWindow = 0
	}
	if opts.ReleaseDelay < 0 {
		opts.ReleaseDelay = 0
	}
	if opts.NearTolerance < 0 || math.IsNaN(opts.NearTolerance) {
		opts.NearTolerance = 0
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	return &Engine{
		catalog: catalog,
		slots:   registry,
		store:   st,
		opts:    opts,
		log:     opts.Logger.WithName("placement"),
	}
}

// Place resolves and commits one placement
func (e *Engine) Place(req Request) Result {
	now := e.opts.Clock()
	if e.inFlight || now.Before(e.busyUntil) {
		e.log.V(1).Info("placement rejected, another one in flight", "catalogId", req.CatalogID)
		return ignored(ReasonBusy)
	}

	item, ok := e.catalog.Lookup(req.CatalogID, req.Category)
	if !ok {
		e.log.V(1).Info("placement ignored, item not in catalog", "catalogId", req.CatalogID, "category", req.Category)
		return ignored(ReasonUnknownItem)
	}

	snap := e.EffectiveSnap(item, req.View)
	key := dedupeKey(item.Category, item.ID, snap, req.Drop)
	if !e.acceptDrop(key, now) {
		e.log.V(1).Info("duplicate drop rejected", "key", key)
		return ignored(ReasonDuplicate)
	}

	placed := e.resolve(item, snap, req)
	if !snap && item.Category != models.CategoryBackground {
		if near := e.nearInstance(placed); near != nil {
			e.log.V(1).Info("drop on top of an existing instance rejected", "catalogId", item.ID, "instanceId", near.InstanceID)
			return ignored(ReasonDuplicate)
		}
	}

	e.inFlight = true
	defer func() {
		e.inFlight = false
		e.busyUntil = now.Add(e.opts.ReleaseDelay)
	}()

	evicted := e.commit(placed, snap)

	e.log.Info("item placed", "catalogId", item.ID, "instanceId", placed.InstanceID,
		"snapped", placed.IsSnapped, "xNorm", placed.XNorm, "yNorm", placed.YNorm, "z", placed.Z)

	res := Result{Outcome: Placed, Status: Placed.String(), Item: placed}
	for _, p := range evicted {
		res.Evicted = append(res.Evicted, p.InstanceID)
	}
	return res
}

// SetWallpaper replaces the background with a colour-only wallpaper
func (e *Engine) SetWallpaper(id string) Result {
	wp, ok := models.FindWallpaper(id)
	if !ok {
		return ignored(ReasonUnknownItem)
	}
	placed := e.resolve(models.WallpaperItem(wp), false, Request{})
	e.commit(placed, false)
	e.log.Info("wallpaper set", "wallpaper", wp.ID)
	return Result{Outcome: Placed, Status: Placed.String(), Item: placed}
}

// EffectiveSnap returns the item override if present, else the tab default
func (e *Engine) EffectiveSnap(item models.CatalogItem, view models.Tab) bool {
	if item.Snap != nil {
		return *item.Snap
	}
	tab := item.Tab
	if tab == "" {
		tab = view
	}
	return models.TabBehaviors[tab].SnapItems
}

// resolve computes the normalized size and position of a new placement
func (e *Engine) resolve(item models.CatalogItem, snap bool, req Request) *models.PlacedItem {
	slot := e.slots.Resolve(item.Category)

	size := 1.0
	if item.Category != models.CategoryBackground {
		base := item.BaseSize
		if base <= 0 {
			base = slot.DefaultNormalizedSize * e.slots.DesignWidth()
		}
		size = base / e.slots.DesignWidth()
	}
	half := size / 2

	p := &models.PlacedItem{
		CatalogItem: item,
		InstanceID:  e.opts.NewID(),
		SizeNorm:    size,
	}

	switch {
	case item.Category == models.CategoryBackground:
		p.XNorm, p.YNorm = 0.5-half, 0.5-half
	case !snap && req.Drop != nil:
		p.XNorm = canvas.Clamp01(canvas.Fraction(req.Drop.X, req.Canvas.W)) - half
		p.YNorm = canvas.Clamp01(canvas.Fraction(req.Drop.Y, req.Canvas.H)) - half
	default:
		// Snapped, or free without a drop point: the anchor becomes the visual center.
		anchor := slot.Anchor
		p.XNorm, p.YNorm = anchor.X-half, anchor.Y-half
		if snap {
			p.IsSnapped = true
			p.SnapAnchor = &r2.Vec{X: anchor.X, Y: anchor.Y}
		}
	}
	return p
}

// commit writes the placement into the store following the exclusivity rules
func (e *Engine) commit(p *models.PlacedItem, snap bool) []*models.PlacedItem {
	p.Z = e.store.NextZ()
	switch {
	case p.Category == models.CategoryBackground:
		e.store.ReplaceBackground(p)
		return nil
	case snap:
		return e.store.ReplaceCategory(p)
	default:
		e.store.Append(p)
		return nil
	}
}

// nearInstance returns a placement of the same item whose pixel position is
// within NearTolerance of p at the current canvas size
func (e *Engine) nearInstance(p *models.PlacedItem) *models.PlacedItem {
	tol := e.opts.NearTolerance
	size := e.store.CanvasSize()
	if tol == 0 || size.Empty() {
		return nil
	}
	canvas.Layout(p, size)
	for _, other := range e.store.ByCategory(p.Category) {
		if other.ID == p.ID && math.Abs(other.X-p.X) < tol && math.Abs(other.Y-p.Y) < tol {
			return other
		}
	}
	return nil
}

// acceptDrop records key and rejects it if the same key was accepted within the window
func (e *Engine) acceptDrop(key string, now time.Time) bool {
	if e.last != nil && e.last.key == key && now.Sub(e.last.at) < e.opts.DedupeWindow {
		return false
	}
	e.last = &lastDrop{key: key, at: now}
	return true
}

func dedupeKey(category models.Category, catalogID string, snap bool, drop *models.Point) string {
	mode := "free"
	rx, ry := -1, -1
	if snap {
		mode = "snap"
	} else if drop != nil {
		rx, ry = int(math.Round(drop.X)), int(math.Round(drop.Y))
	}
	return fmt.Sprintf("%s:%s:%s:%d,%d", category, catalogID, mode, rx, ry)
}
