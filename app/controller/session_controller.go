package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"avatar-studio/canvas"
	"avatar-studio/models"
	"avatar-studio/session"
)

// SessionController handles HTTP requests for editing sessions
type SessionController struct {
	sessions *session.Manager
}

// NewSessionController creates a new SessionController
func NewSessionController(sessions *session.Manager) *SessionController {
	return &SessionController{sessions: sessions}
}

// lookup resolves the session id of /sessions/{id}/... and writes a 404 when it is unknown
func lookup(sessions *session.Manager, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	parts := pathParts(r.URL.Path, "/sessions/")
	if len(parts) == 0 {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return nil, false
	}
	s, err := sessions.Get(parts[0])
	if errors.Is(err, session.ErrNotFound) {
		http.Error(w, fmt.Sprintf("Session %s not found", parts[0]), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get session: %v", err), http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}

type createSessionRequest struct {
	Gender models.Gender `json:"gender"`
}

// CreateSession handles POST /sessions
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Gender = models.Gender(strings.ToLower(strings.TrimSpace(string(req.Gender))))
	if req.Gender != models.GenderMale && req.Gender != models.GenderFemale {
		http.Error(w, "Invalid gender. Valid genders: male, female", http.StatusBadRequest)
		return
	}

	s, err := c.sessions.New(req.Gender)
	if err != nil {
		log.Printf("❌ CreateSession: %v", err)
		http.Error(w, fmt.Sprintf("Failed to create session: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✓ Session created: %s (%s)", s.ID(), req.Gender)
	writeJSON(w, http.StatusCreated, s.State())
}

// GetSession handles GET /sessions/:id
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// DeleteSession handles DELETE /sessions/:id
func (c *SessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, "/sessions/")
	if len(parts) != 1 {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}
	if err := c.sessions.Delete(parts[0]); err != nil {
		http.Error(w, fmt.Sprintf("Session %s not found", parts[0]), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type viewRequest struct {
	View string `json:"view"`
}

// SetView handles POST /sessions/:id/view
func (c *SessionController) SetView(w http.ResponseWriter, r *http.Request) {
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}

	var req viewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tab, valid := models.ParseTab(req.View)
	if !valid {
		http.Error(w, fmt.Sprintf("Invalid view %q", req.View), http.StatusBadRequest)
		return
	}

	d := s.SetView(tab)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"decision": d,
		"state":    s.State(),
	})
}

// bounds is a DOMRect as reported by getBoundingClientRect
type bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b bounds) rect() canvas.Rect {
	return canvas.RectFromBounds(b.Left, b.Top, b.Width, b.Height)
}

type layoutRequest struct {
	Canvas bounds  `json:"canvas"`
	Trash  bounds  `json:"trash"`
	DPR    float64 `json:"dpr"`
}

// SetLayout handles POST /sessions/:id/layout
func (c *SessionController) SetLayout(w http.ResponseWriter, r *http.Request) {
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}

	var req layoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.SetLayout(session.Layout{
		Canvas: req.Canvas.rect(),
		Trash:  req.Trash.rect(),
		DPR:    req.DPR,
	})
	if err != nil {
		log.Printf("❌ SetLayout: %v", err)
		http.Error(w, fmt.Sprintf("Failed to apply layout: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// Place handles POST /sessions/:id/place
// Placement never fails; ignored placements are reported with a reason.
func (c *SessionController) Place(w http.ResponseWriter, r *http.Request) {
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}

	var req session.PlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CatalogID == "" {
		http.Error(w, "catalogId is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, s.Place(req))
}

type wallpaperRequest struct {
	WallpaperID string `json:"wallpaperId"`
}

// SetWallpaper handles POST /sessions/:id/wallpaper
func (c *SessionController) SetWallpaper(w http.ResponseWriter, r *http.Request) {
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}

	var req wallpaperRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.SetWallpaper(req.WallpaperID))
}

type removeRequest struct {
	InstanceID string `json:"instanceId"`
}

// Remove handles POST /sessions/:id/remove
func (c *SessionController) Remove(w http.ResponseWriter, r *http.Request) {
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}

	var req removeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"removed": s.Remove(req.InstanceID),
	})
}
