package router

import (
	"net/http"
	"strings"

	"avatar-studio/app/controller"
)

type Controllers struct {
	Catalog *controller.CatalogController
	Session *controller.SessionController
	Gesture *controller.GestureController
	Export  *controller.ExportController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Catalog routes
	mux.HandleFunc("/catalog", controllers.Catalog.GetCatalog)
	mux.HandleFunc("/catalog/wallpapers", controllers.Catalog.GetWallpapers)

	// Item images: /catalog/items/:id/thumb and /catalog/items/:id/image
	mux.HandleFunc("/catalog/items/", controllers.Catalog.GetItemImage)

	// Pull new catalog assets from Google Drive
	mux.HandleFunc("/admin/catalog/sync", controllers.Catalog.SyncCatalog)

	// Create session
	mux.HandleFunc("/sessions", controllers.Session.CreateSession)

	// Session actions
	mux.HandleFunc("/sessions/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sessions/"), "/")
		id, action, _ := strings.Cut(path, "/")
		if id == "" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		// GET/DELETE /sessions/:id
		if action == "" {
			switch r.Method {
			case http.MethodGet:
				controllers.Session.GetSession(w, r)
			case http.MethodDelete:
				controllers.Session.DeleteSession(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		// Actions that check their own method
		switch action {
		case "render":
			controllers.Export.Render(w, r)
			return
		case "export":
			controllers.Export.Export(w, r)
			return
		case "gesture":
			controllers.Gesture.HandleGesture(w, r)
			return
		case "drawing/undo":
			controllers.Gesture.Undo(w, r)
			return
		case "drawing/redo":
			controllers.Gesture.Redo(w, r)
			return
		}

		// Remaining actions are all POST /sessions/:id/:action
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		switch action {
		case "view":
			controllers.Session.SetView(w, r)
		case "layout":
			controllers.Session.SetLayout(w, r)
		case "place":
			controllers.Session.Place(w, r)
		case "wallpaper":
			controllers.Session.SetWallpaper(w, r)
		case "remove":
			controllers.Session.Remove(w, r)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})
}
