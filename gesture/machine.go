// Package gesture decides which of the three gesture sources (catalog
// drag-and-drop, pointer-drag of a placed item, drawing stroke) owns an
// incoming pointer event. Only one source is active at a time.
package gesture

import (
	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/spatial/r2"

	"avatar-studio/canvas"
	"avatar-studio/models"
)

// Drag payload types carried by native drag-and-drop
const (
	MIMEItemID = "application/x-avatar-item-id"
	MIMEText   = "text/plain"
)

// State is the active gesture source
type State int

const (
	Idle State = iota
	CatalogDragging
	ItemDragging
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CatalogDragging:
		return "catalogDragging"
	case ItemDragging:
		return "itemDragging"
	case Drawing:
		return "drawing"
	}
	return "unknown"
}

// Items is the read access the machine needs to placed items
type Items interface {
	Get(instanceID string) *models.PlacedItem
	HasCatalogItem(catalogID string, match func(*models.PlacedItem) bool) bool
}

// Layout is the page geometry reported by the browser
type Layout struct {
	Canvas canvas.Rect `json:"canvas"`
	Trash  canvas.Rect `json:"trash"`
}

// Payload maps drag data types to their values
type Payload map[string]string

// ItemID returns the dragged catalog id, preferring the custom type.
// fallback is true when only the plain text type carried it.
func (p Payload) ItemID() (id string, fallback bool) {
	if id := p[MIMEItemID]; id != "" {
		return id, false
	}
	if id := p[MIMEText]; id != "" {
		return id, true
	}
	return "", false
}

// Machine is the gesture state machine of one session. It never mutates the
// store; callers apply the returned decisions.
type Machine struct {
	items  Items
	layout Layout
	view   models.Tab
	log    logr.Logger

	state      State
	trashHover bool

	// catalog drag
	ghostID string

	// item drag
	instanceID string
	offset     models.Point
	origin     models.Point

	// drawing
	stroke []models.Point
}

// NewMachine creates an idle machine reading placed items from items
func NewMachine(items Items, log logr.Logger) *Machine {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Machine{items: items, view: models.TabBody, log: log.WithName("gesture")}
}

// CanTransition checks if a transition between gesture sources is valid
func CanTransition(from, to State) bool {
	validTransitions := map[State][]State{
		Idle:            {CatalogDragging, ItemDragging, Drawing},
		CatalogDragging: {Idle, Drawing},
		ItemDragging:    {Idle, Drawing},
		Drawing:         {Idle},
	}
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (m *Machine) transition(to State) bool {
	if !CanTransition(m.state, to) {
		m.log.V(1).Info("transition rejected", "from", m.state, "to", to)
		return false
	}
	m.state = to
	return true
}

func (m *Machine) State() State { return m.state }

func (m *Machine) TrashHover() bool { return m.trashHover }

func (m *Machine) Layout() Layout { return m.layout }

// SetLayout records new page geometry; an active gesture keeps going
func (m *Machine) SetLayout(l Layout) { m.layout = l }

func (m *Machine) View() models.Tab { return m.view }

// SetView switches the editor view. Any active gesture is cancelled first;
// the returned decision carries its rollback.
func (m *Machine) SetView(v models.Tab) Decision {
	d := m.Cancel()
	m.view = v
	return d
}

// FreeView reports whether placed items can be pointer-dragged in the current view
func (m *Machine) FreeView() bool {
	b := models.TabBehaviors[m.view]
	return !b.SnapItems && !b.Drawing
}

// Status is a read-only snapshot for rendering
type Status struct {
	State      string `json:"state"`
	CatalogID  string `json:"catalogId,omitempty"`
	InstanceID string `json:"instanceId,omitempty"`
	TrashHover bool   `json:"trashHover"`
}

func (m *Machine) Status() Status {
	return Status{
		State:      m.state.String(),
		CatalogID:  m.ghostID,
		InstanceID: m.instanceID,
		TrashHover: m.trashHover,
	}
}

// BeginCatalogDrag starts a native drag of a catalog thumbnail
func (m *Machine) BeginCatalogDrag(catalogID string) Decision {
	if catalogID == "" {
		return reject(ReasonNoPayload)
	}
	if m.state != Idle || !m.transition(CatalogDragging) {
		return reject(ReasonBusy)
	}
	m.ghostID = catalogID
	m.trashHover = false
	return tracked()
}

// DragOver updates the trash highlight while a catalog ghost moves
func (m *Machine) DragOver(p models.Point) Decision {
	if m.state != CatalogDragging {
		return reject(ReasonWrongState)
	}
	m.trashHover = m.layout.Trash.Contains(p)
	return tracked()
}

// Drop resolves a native drop event at page point p
func (m *Machine) Drop(payload Payload, p models.Point) Decision {
	switch m.state {
	case ItemDragging:
		// Native machinery fires drops for elements that are also pointer-dragged.
		m.log.V(1).Info("drop rejected during item drag", "instanceId", m.instanceID)
		return reject(ReasonItemDragActive)
	case Drawing:
		return reject(ReasonDrawingActive)
	}

	id, fallback := payload.ItemID()
	if id == "" {
		id = m.ghostID
	}
	overTrash := m.layout.Trash.Contains(p)
	m.reset()

	switch {
	case id == "":
		return reject(ReasonNoPayload)
	case overTrash:
		return Decision{Kind: RemoveCatalogItem, CatalogID: id}
	case !m.layout.Canvas.Contains(p):
		return reject(ReasonOutsideCanvas)
	case fallback && m.items.HasCatalogItem(id, nil):
		return reject(ReasonAlreadyPlaced)
	case !models.TabBehaviors[m.view].SnapItems && m.items.HasCatalogItem(id, free):
		return reject(ReasonAlreadyPlaced)
	}

	local := m.layout.Canvas.Local(p)
	return Decision{Kind: Place, CatalogID: id, Drop: &local}
}

// DragEnd finishes a catalog drag that did not produce a drop
func (m *Machine) DragEnd(p models.Point) Decision {
	if m.state != CatalogDragging {
		return reject(ReasonWrongState)
	}
	id := m.ghostID
	overTrash := m.trashHover || m.layout.Trash.Contains(p)
	m.reset()
	if overTrash {
		return Decision{Kind: RemoveCatalogItem, CatalogID: id}
	}
	return tracked()
}

// PointerDown starts dragging a placed item when free positioning is enabled
func (m *Machine) PointerDown(instanceID string, p models.Point) Decision {
	if m.state != Idle {
		return reject(ReasonBusy)
	}
	if !m.FreeView() {
		return reject(ReasonSnappedView)
	}
	item := m.items.Get(instanceID)
	if item == nil || item.FillsCanvas() {
		return reject(ReasonUnknownInstance)
	}
	if !m.transition(ItemDragging) {
		return reject(ReasonBusy)
	}

	size := m.layout.Canvas.Size()
	origin := r2.Vec{X: item.XNorm, Y: item.YNorm}
	m.instanceID = instanceID
	m.origin = origin
	m.offset = r2.Sub(m.layout.Canvas.Local(p), canvas.ToPixels(origin, size))
	m.trashHover = false
	return tracked()
}

// PointerMove moves the dragged item or extends the active stroke
func (m *Machine) PointerMove(p models.Point) Decision {
	switch m.state {
	case ItemDragging:
		m.trashHover = m.layout.Trash.Contains(p)
		return Decision{Kind: Move, InstanceID: m.instanceID, Position: m.itemPosition(p)}
	case Drawing:
		m.stroke = append(m.stroke, m.normalize(p))
		return tracked()
	}
	return reject(ReasonWrongState)
}

// PointerUp ends an item drag or commits the active stroke
func (m *Machine) PointerUp(p models.Point) Decision {
	switch m.state {
	case ItemDragging:
		id := m.instanceID
		pos := m.itemPosition(p)
		overTrash := m.layout.Trash.Contains(p)
		m.reset()
		if overTrash {
			return Decision{Kind: RemoveInstance, InstanceID: id}
		}
		return Decision{Kind: Move, InstanceID: id, Position: pos}
	case Drawing:
		pts := append(m.stroke, m.normalize(p))
		m.reset()
		return Decision{Kind: CommitStroke, Points: pts}
	}
	return reject(ReasonWrongState)
}

// BeginStroke starts a drawing stroke; it pre-empts any other gesture
func (m *Machine) BeginStroke(p models.Point) Decision {
	if !models.TabBehaviors[m.view].Drawing {
		return reject(ReasonNotDrawingView)
	}
	if m.state == Drawing {
		return reject(ReasonBusy)
	}
	rollback := m.Cancel().Rollback
	m.transition(Drawing)
	m.stroke = []models.Point{m.normalize(p)}
	return Decision{Kind: Tracked, Rollback: rollback}
}

// Cancel resets the machine. An item drag is rolled back to its start
// position and an unfinished stroke is discarded.
func (m *Machine) Cancel() Decision {
	var d Decision
	switch m.state {
	case Idle:
		return tracked()
	case ItemDragging:
		d = Decision{Kind: Tracked, Rollback: &Rollback{InstanceID: m.instanceID, Position: m.origin}}
	case Drawing:
		d = Decision{Kind: DiscardStroke}
	default:
		d = tracked()
	}
	m.log.V(1).Info("gesture cancelled", "state", m.state)
	m.reset()
	return d
}

func (m *Machine) reset() {
	m.state = Idle
	m.trashHover = false
	m.ghostID = ""
	m.instanceID = ""
	m.offset = r2.Vec{}
	m.origin = r2.Vec{}
	m.stroke = nil
}

// itemPosition converts a page pointer into the dragged item's normalized top-left
func (m *Machine) itemPosition(p models.Point) models.Point {
	local := r2.Sub(m.layout.Canvas.Local(p), m.offset)
	return canvas.ToNormalized(local, m.layout.Canvas.Size())
}

func (m *Machine) normalize(p models.Point) models.Point {
	return canvas.ToNormalized(m.layout.Canvas.Local(p), m.layout.Canvas.Size())
}

func free(p *models.PlacedItem) bool { return !p.IsSnapped }
