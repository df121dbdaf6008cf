package service

import (
	"context"

	"avatar-studio/models"
)

// SyncStats reports the outcome of a catalog synchronization
type SyncStats struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// SyncServiceInterface defines the contract for synchronization operations
type SyncServiceInterface interface {
	// SyncCatalog inserts the catalog items found in a Drive folder that are not yet stored.
	// Skipped counts items already present by drive_file_id.
	SyncCatalog(ctx context.Context, folderID string) ([]models.CatalogItem, SyncStats, error)
}
