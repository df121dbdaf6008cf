// Package session bundles the per-tab editing state: placed items, the
// placement engine, gesture machine and drawing history.
package session

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/spatial/r2"

	"avatar-studio/canvas"
	"avatar-studio/drawing"
	"avatar-studio/gesture"
	"avatar-studio/models"
	"avatar-studio/placement"
	"avatar-studio/store"
)

// Layout is the browser geometry of the editor
type Layout struct {
	Canvas canvas.Rect `json:"canvas"`
	Trash  canvas.Rect `json:"trash"`
	// DPR is the device pixel ratio the drawing layer is rendered at
	DPR float64 `json:"dpr"`
}

// Pen is the drawing tool used for the next stroke
type Pen struct {
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Eraser bool    `json:"eraser"`
}

// DefaultPen matches the editor's initial brush
var DefaultPen = Pen{Color: "#111827", Width: 0.01}

// Session is one editing session. All methods are serialized by one mutex.
type Session struct {
	mu sync.Mutex

	id      string
	gender  models.Gender
	created time.Time
	touched time.Time

	store    *store.Store
	engine   *placement.Engine
	gestures *gesture.Machine
	drawing  *drawing.Manager
	layout   Layout
	pen      Pen
	log      logr.Logger
}

func (s *Session) ID() string { return s.id }

// Gender is the avatar base chosen when the session was created
func (s *Session) Gender() models.Gender { return s.gender }

// SetView switches the editor tab; an active gesture is cancelled
func (s *Session) SetView(tab models.Tab) gesture.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.gestures.SetView(tab)
	s.rollback(d.Rollback)
	return d
}

// SetLayout records new browser geometry. Pixel caches are rehydrated from
// normalized coordinates and the drawing layer re-rendered at the new size.
func (s *Session) SetLayout(l Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.DPR <= 0 || math.IsNaN(l.DPR) || math.IsInf(l.DPR, 0) {
		l.DPR = 1
	}
	s.layout = l
	s.gestures.SetLayout(gesture.Layout{Canvas: l.Canvas, Trash: l.Trash})

	size := l.Canvas.Size()
	s.store.Rehydrate(size)
	if size.Empty() {
		return nil
	}
	w, h := int(math.Round(size.W*l.DPR)), int(math.Round(size.H*l.DPR))
	if err := s.drawing.Resize(w, h); err != nil {
		return fmt.Errorf("error resizing drawing layer: %w", err)
	}
	return nil
}

// PlaceRequest places a catalog item directly, bypassing the gesture machine.
// Drop is canvas-local pixels.
type PlaceRequest struct {
	CatalogID string          `json:"catalogId"`
	Category  models.Category `json:"category"`
	Drop      *models.Point   `json:"drop,omitempty"`
}

func (s *Session) Place(req PlaceRequest) placement.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.place(req.CatalogID, req.Category, req.Drop)
}

func (s *Session) place(id string, category models.Category, drop *models.Point) placement.Result {
	return s.engine.Place(placement.Request{
		CatalogID: id,
		Category:  category,
		Drop:      drop,
		Canvas:    s.store.CanvasSize(),
		View:      s.gestures.View(),
	})
}

// SetWallpaper replaces the background with a built-in wallpaper
func (s *Session) SetWallpaper(id string) placement.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SetWallpaper(id)
}

// Remove deletes one placed item
func (s *Session) Remove(instanceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RemoveInstance(instanceID)
}

// EventType names a browser gesture event
type EventType string

const (
	EventDragStart   EventType = "dragstart"
	EventDragOver    EventType = "dragover"
	EventDrop        EventType = "drop"
	EventDragEnd     EventType = "dragend"
	EventPointerDown EventType = "pointerdown"
	EventPointerMove EventType = "pointermove"
	EventPointerUp   EventType = "pointerup"
	EventStrokeStart EventType = "strokestart"
	EventCancel      EventType = "cancel"
)

// Event is one browser gesture event in page coordinates
type Event struct {
	Type       EventType       `json:"type"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	CatalogID  string          `json:"catalogId,omitempty"`
	Category   models.Category `json:"category,omitempty"`
	InstanceID string          `json:"instanceId,omitempty"`
	Payload    gesture.Payload `json:"payload,omitempty"`
	Pen        *Pen            `json:"pen,omitempty"`
}

// EventResult is the decision taken for an event and, for drops, the placement outcome
type EventResult struct {
	Decision  gesture.Decision  `json:"decision"`
	Placement *placement.Result `json:"placement,omitempty"`
	Removed   int               `json:"removed,omitempty"`
}

// ErrUnknownEvent is returned for an unrecognized event type
var ErrUnknownEvent = errors.New("unknown gesture event")

// HandleEvent routes a gesture event through the gesture machine and applies its decision
func (s *Session) HandleEvent(ev Event) (EventResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := r2.Vec{X: ev.X, Y: ev.Y}
	var d gesture.Decision
	switch ev.Type {
	case EventDragStart:
		d = s.gestures.BeginCatalogDrag(ev.CatalogID)
	case EventDragOver:
		d = s.gestures.DragOver(p)
	case EventDrop:
		d = s.gestures.Drop(ev.Payload, p)
	case EventDragEnd:
		d = s.gestures.DragEnd(p)
	case EventPointerDown:
		d = s.gestures.PointerDown(ev.InstanceID, p)
	case EventPointerMove:
		d = s.gestures.PointerMove(p)
	case EventPointerUp:
		d = s.gestures.PointerUp(p)
	case EventStrokeStart:
		if ev.Pen != nil {
			s.pen = *ev.Pen
		}
		d = s.gestures.BeginStroke(p)
	case EventCancel:
		d = s.gestures.Cancel()
	default:
		return EventResult{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return s.apply(d, ev.Category)
}

func (s *Session) apply(d gesture.Decision, category models.Category) (EventResult, error) {
	s.rollback(d.Rollback)
	res := EventResult{Decision: d}

	switch d.Kind {
	case gesture.Place:
		placed := s.place(d.CatalogID, category, d.Drop)
		res.Placement = &placed
	case gesture.Move:
		s.store.MoveTo(d.InstanceID, d.Position)
	case gesture.RemoveInstance:
		if s.store.RemoveInstance(d.InstanceID) {
			res.Removed = 1
		}
	case gesture.RemoveCatalogItem:
		res.Removed = s.store.RemoveCatalogItem(d.CatalogID)
	case gesture.CommitStroke:
		stroke := drawing.Stroke{Points: d.Points, Width: s.pen.Width, Color: s.pen.Color, Eraser: s.pen.Eraser}
		if err := s.drawing.CommitStroke(stroke); err != nil {
			return res, fmt.Errorf("error committing stroke: %w", err)
		}
	}
	if d.Kind != gesture.Ignored && d.Kind != gesture.Tracked {
		s.log.V(1).Info("gesture applied", "kind", d.Kind, "catalogId", d.CatalogID, "instanceId", d.InstanceID)
	}
	return res, nil
}

func (s *Session) rollback(r *gesture.Rollback) {
	if r != nil {
		s.store.MoveTo(r.InstanceID, r.Position)
	}
}

// Undo restores the previous drawing snapshot
func (s *Session) Undo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing.Undo()
}

// Redo restores the next drawing snapshot
func (s *Session) Redo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing.Redo()
}

// State is the JSON view model of a session
type State struct {
	ID      string              `json:"id"`
	Gender  models.Gender       `json:"gender"`
	View    models.Tab          `json:"view"`
	Layout  Layout              `json:"layout"`
	Canvas  canvas.Size         `json:"canvas"`
	Items   []models.PlacedItem `json:"items"`
	Gesture gesture.Status      `json:"gesture"`
	History drawing.History     `json:"history"`
	Pen     Pen                 `json:"pen"`
	TopZ    int                 `json:"topZ"`
	Created time.Time           `json:"created"`
	Touched time.Time           `json:"touched"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:      s.id,
		Gender:  s.gender,
		View:    s.gestures.View(),
		Layout:  s.layout,
		Canvas:  s.store.CanvasSize(),
		Items:   s.store.Layers(),
		Gesture: s.gestures.Status(),
		History: s.drawing.History(),
		Pen:     s.pen,
		TopZ:    s.store.TopZ(),
		Created: s.created,
		Touched: s.touched,
	}
}

// Composition returns the layers and a copy of the drawing bitmap for export
func (s *Session) Composition() models.Composition {
	s.mu.Lock()
	defer s.mu.Unlock()
	size := s.store.CanvasSize()
	c := models.Composition{
		SessionID: s.id,
		Width:     size.W,
		Height:    size.H,
		Layers:    s.store.Layers(),
	}
	if s.store.Drawing() != nil {
		c.Drawing = imaging.Clone(s.drawing.Layer().Image())
	}
	return c
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.touched = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.touched)
}
