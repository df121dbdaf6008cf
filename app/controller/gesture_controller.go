package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"avatar-studio/session"
)

// GestureController handles the pointer and drag event stream of a session
// and its drawing history
type GestureController struct {
	sessions *session.Manager
}

// NewGestureController creates a new GestureController
func NewGestureController(sessions *session.Manager) *GestureController {
	return &GestureController{sessions: sessions}
}

// HandleGesture handles POST /sessions/:id/gesture with one event or a batch
// of events applied in order
func (c *GestureController) HandleGesture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}

	var req struct {
		session.Event
		Events []session.Event `json:"events,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	events := req.Events
	if len(events) == 0 {
		events = []session.Event{req.Event}
	}

	results := make([]session.EventResult, 0, len(events))
	for _, ev := range events {
		res, err := s.HandleEvent(ev)
		if errors.Is(err, session.ErrUnknownEvent) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Printf("❌ HandleGesture: session=%s event=%s: %v", s.ID(), ev.Type, err)
			http.Error(w, fmt.Sprintf("Failed to apply %s: %v", ev.Type, err), http.StatusInternalServerError)
			return
		}
		results = append(results, res)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"state":   s.State(),
	})
}

// Undo handles POST /sessions/:id/drawing/undo
func (c *GestureController) Undo(w http.ResponseWriter, r *http.Request) {
	c.step(w, r, (*session.Session).Undo)
}

// Redo handles POST /sessions/:id/drawing/redo
func (c *GestureController) Redo(w http.ResponseWriter, r *http.Request) {
	c.step(w, r, (*session.Session).Redo)
}

func (c *GestureController) step(w http.ResponseWriter, r *http.Request, move func(*session.Session) (bool, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}

	moved, err := move(s)
	if err != nil {
		log.Printf("❌ Drawing history: session=%s: %v", s.ID(), err)
		http.Error(w, fmt.Sprintf("Failed to restore drawing: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"moved":   moved,
		"history": s.State().History,
	})
}
