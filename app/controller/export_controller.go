package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"avatar-studio/service"
	"avatar-studio/session"
)

// ExportController renders sessions as HTML and PNG
type ExportController struct {
	sessions *session.Manager
	export   *service.ExportService
}

// NewExportController creates a new ExportController
func NewExportController(sessions *session.Manager, export *service.ExportService) *ExportController {
	return &ExportController{sessions: sessions, export: export}
}

// Render handles GET /sessions/:id/render
// This is the page the headless browser screenshots.
func (c *ExportController) Render(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}

	html, err := c.export.RenderHTML(s.Composition())
	if err != nil {
		log.Printf("❌ Render: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render session: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		log.Printf("❌ Render: Error writing HTML response: %v", err)
	}
}

// Export handles GET /sessions/:id/export?scale=2&bg=%23ffffff
func (c *ExportController) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s, ok := lookup(c.sessions, w, r)
	if !ok {
		return
	}

	opts := service.ExportOptions{Background: r.URL.Query().Get("bg")}
	if raw := r.URL.Query().Get("scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 {
			http.Error(w, fmt.Sprintf("Invalid scale %q", raw), http.StatusBadRequest)
			return
		}
		opts.Scale = scale
	}

	png, err := c.export.Snapshot(r.Context(), s.Composition(), opts)
	if errors.Is(err, service.ErrNoChrome) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Export is unavailable on this server"})
		return
	}
	if err != nil {
		log.Printf("❌ Export: session=%s: %v", s.ID(), err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Export failed, please try again"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="avatar-%s.png"`, s.ID()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Printf("❌ Export: Error writing response: %v", err)
	}
}
