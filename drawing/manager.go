package drawing

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"avatar-studio/history"
	"avatar-studio/models"
)

// Publisher receives every committed or restored snapshot
type Publisher interface {
	SetDrawing(snapshot []byte, newID func() string) *models.PlacedItem
}

// Manager owns the drawing layer and its snapshot history. The history is
// seeded with the blank layer so the first stroke can be undone.
type Manager struct {
	layer     *Layer
	stack     *history.Stack[[]byte]
	store     Publisher
	log       logr.Logger
	published bool
}

// NewManager creates a manager with a blank layer of the given device size
func NewManager(store Publisher, width, height, limit int, log logr.Logger) (*Manager, error) {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	m := &Manager{
		layer: NewLayer(width, height),
		stack: history.New[[]byte](limit),
		store: store,
		log:   log.WithName("drawing"),
	}
	blank, err := m.layer.Encode()
	if err != nil {
		return nil, err
	}
	m.stack.Push(blank)
	return m, nil
}

// CommitStroke draws a finished stroke and records a new history entry
func (m *Manager) CommitStroke(s Stroke) error {
	if len(s.Points) == 0 {
		return nil
	}
	if err := m.layer.Apply(s); err != nil {
		return fmt.Errorf("error applying stroke: %w", err)
	}
	snap, err := m.layer.Encode()
	if err != nil {
		return err
	}
	m.stack.Push(snap)
	m.published = true
	m.publish(snap)
	m.log.V(1).Info("stroke committed", "points", len(s.Points), "eraser", s.Eraser, "index", m.stack.Index())
	return nil
}

// Undo restores the previous snapshot; false when there is nothing to undo
func (m *Manager) Undo() (bool, error) {
	snap, ok := m.stack.Undo()
	if !ok {
		return false, nil
	}
	return true, m.restore(snap)
}

// Redo restores the next snapshot; false when there is nothing to redo
func (m *Manager) Redo() (bool, error) {
	snap, ok := m.stack.Redo()
	if !ok {
		return false, nil
	}
	return true, m.restore(snap)
}

// Resize re-renders the current snapshot at a new device resolution.
// History is kept and nothing is pushed.
func (m *Manager) Resize(width, height int) error {
	next := NewLayer(width, height)
	if next.Bounds() == m.layer.Bounds() {
		return nil
	}
	cur, ok := m.stack.Current()
	if ok {
		if _, err := next.Load(cur); err != nil {
			return err
		}
	}
	m.layer = next
	m.log.V(1).Info("drawing layer resized", "width", next.Bounds().Dx(), "height", next.Bounds().Dy())
	if m.published {
		snap, err := m.layer.Encode()
		if err != nil {
			return err
		}
		m.publish(snap)
	}
	return nil
}

func (m *Manager) restore(snap []byte) error {
	resized, err := m.layer.Load(snap)
	if err != nil {
		return err
	}
	if !m.published {
		return nil
	}
	if resized {
		// Publish at the live resolution.
		if snap, err = m.layer.Encode(); err != nil {
			return err
		}
	}
	m.publish(snap)
	return nil
}

func (m *Manager) publish(snap []byte) {
	if m.store != nil {
		m.store.SetDrawing(snap, uuid.NewString)
	}
}

// Snapshot returns the history entry under the cursor
func (m *Manager) Snapshot() []byte {
	snap, _ := m.stack.Current()
	return snap
}

func (m *Manager) Layer() *Layer { return m.layer }

// History describes the undo state for rendering
type History struct {
	Index   int  `json:"index"`
	Len     int  `json:"len"`
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

func (m *Manager) History() History {
	return History{
		Index:   m.stack.Index(),
		Len:     m.stack.Len(),
		CanUndo: m.stack.CanUndo(),
		CanRedo: m.stack.CanRedo(),
	}
}
