package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"avatar-studio/models"
)

// FileCatalogRepository reads the catalog from a JSON file. It is used when
// no database is configured and does not accept writes.
type FileCatalogRepository struct {
	path string
}

// NewFileCatalogRepository creates a repository over the JSON file at path
func NewFileCatalogRepository(path string) *FileCatalogRepository {
	return &FileCatalogRepository{path: path}
}

// Ensure FileCatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*FileCatalogRepository)(nil)

// ListItems decodes every item in the file; entries with an unknown category are skipped
func (r *FileCatalogRepository) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var raw []models.CatalogItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", r.path, err)
	}

	items := make([]models.CatalogItem, 0, len(raw))
	for _, item := range raw {
		category, ok := models.ParseCategory(string(item.Category))
		if !ok || item.ID == "" {
			log.Printf("⚠️  Skipping catalog entry %q with category %q", item.ID, item.Category)
			continue
		}
		item.Category = category
		items = append(items, item)
	}

	log.Printf("✓ Loaded %d catalog items from %s", len(items), r.path)
	return items, nil
}

func (r *FileCatalogRepository) ExistsByDriveFileID(ctx context.Context, driveFileID string) (bool, error) {
	items, err := r.ListItems(ctx)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.DriveFileID == driveFileID {
			return true, nil
		}
	}
	return false, nil
}

func (r *FileCatalogRepository) Insert(ctx context.Context, item *models.CatalogItem) error {
	return ErrReadOnly
}
