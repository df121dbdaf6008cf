package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"avatar-studio/models"
	"avatar-studio/service"
)

// CatalogController handles HTTP requests for the closet catalog
type CatalogController struct {
	catalog  *service.CatalogService
	assets   *service.AssetService
	sync     service.SyncServiceInterface
	folderID string
}

// NewCatalogController creates a new CatalogController. syncService may be nil
// when Drive or the database is not configured.
func NewCatalogController(
	catalog *service.CatalogService,
	assets *service.AssetService,
	syncService service.SyncServiceInterface,
	folderID string,
) *CatalogController {
	return &CatalogController{
		catalog:  catalog,
		assets:   assets,
		sync:     syncService,
		folderID: folderID,
	}
}

// GetCatalog handles GET /catalog?tab=outfit&gender=female&filter=chef
func (c *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	tab, ok := models.ParseTab(q.Get("tab"))
	if !ok {
		http.Error(w, fmt.Sprintf("Invalid tab %q. Valid tabs: body, outfit, accessories, canvas, background", q.Get("tab")), http.StatusBadRequest)
		return
	}

	gender := models.Gender(strings.ToLower(strings.TrimSpace(q.Get("gender"))))
	if gender != "" && gender != models.GenderMale && gender != models.GenderFemale {
		http.Error(w, "Invalid gender. Valid genders: male, female", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, c.catalog.ForTab(tab, gender, q.Get("filter")))
}

// GetWallpapers handles GET /catalog/wallpapers
func (c *CatalogController) GetWallpapers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, models.Wallpapers)
}

// GetItemImage handles GET /catalog/items/:id/thumb?size=thumb|medium and
// GET /catalog/items/:id/image
func (c *CatalogController) GetItemImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Path format: /catalog/items/{id}/{thumb|image}
	parts := pathParts(r.URL.Path, "/catalog/items/")
	if len(parts) != 2 || (parts[1] != "thumb" && parts[1] != "image") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	item, ok := c.catalog.Lookup(parts[0], "")
	if !ok {
		http.Error(w, fmt.Sprintf("Catalog item %s not found", parts[0]), http.StatusNotFound)
		return
	}

	var data []byte
	var err error
	contentType := "image/png"
	if parts[1] == "thumb" {
		size := r.URL.Query().Get("size")
		if size == "" {
			size = "thumb"
		}
		data, err = c.assets.Thumbnail(item, size)
	} else {
		data, err = c.assets.Source(item)
		if err == nil {
			contentType = http.DetectContentType(data)
		}
	}

	if errors.Is(err, service.ErrNoImage) {
		http.Error(w, fmt.Sprintf("Catalog item %s has no image", item.ID), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("❌ GetItemImage: %v", err)
		http.Error(w, fmt.Sprintf("Failed to load image: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ GetItemImage: Error writing response: %v", err)
	}
}

// SyncCatalog handles POST /admin/catalog/sync?folderId=...
// New items are picked up on the next start.
func (c *CatalogController) SyncCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.sync == nil {
		http.Error(w, "Catalog sync is not configured", http.StatusServiceUnavailable)
		return
	}

	folderID := r.URL.Query().Get("folderId")
	if folderID == "" {
		folderID = c.folderID
	}
	if folderID == "" {
		http.Error(w, "folderId parameter is required", http.StatusBadRequest)
		return
	}

	items, stats, err := c.sync.SyncCatalog(context.Background(), folderID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to sync catalog: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"stats":  stats,
		"items":  items,
	})
}
