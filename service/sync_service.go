package service

import (
	"context"
	"fmt"
	"log"

	"avatar-studio/models"
	"avatar-studio/repository"
)

// SyncService handles synchronization between Google Drive and the catalog repository
// Implements SyncServiceInterface
type SyncService struct {
	driveService DriveServiceInterface
	repository   repository.CatalogRepositoryInterface
}

// NewSyncService creates a new SyncService
func NewSyncService(driveService DriveServiceInterface, repo repository.CatalogRepositoryInterface) *SyncService {
	return &SyncService{
		driveService: driveService,
		repository:   repo,
	}
}

// Ensure SyncService implements SyncServiceInterface
var _ SyncServiceInterface = (*SyncService)(nil)

// SyncCatalog synchronizes catalog assets from Google Drive into the repository.
// New items become visible to editing sessions after the next catalog load.
func (s *SyncService) SyncCatalog(ctx context.Context, folderID string) ([]models.CatalogItem, SyncStats, error) {
	log.Printf("🔄 Starting catalog synchronization for folder: %s", folderID)

	driveItems, err := s.driveService.ListCatalogAssets(folderID)
	if err != nil {
		return nil, SyncStats{}, fmt.Errorf("failed to list catalog assets from Drive: %w", err)
	}

	log.Printf("📦 Processing %d catalog assets from Google Drive", len(driveItems))
	stats := SyncStats{Total: len(driveItems)}

	for i := range driveItems {
		item := &driveItems[i]

		exists, err := s.repository.ExistsByDriveFileID(ctx, item.DriveFileID)
		if err != nil {
			log.Printf("❌ Error checking existence for drive_file_id: %s: %v", item.DriveFileID, err)
			stats.Failed++
			continue
		}

		if exists {
			log.Printf("⏭️  Skipping drive_file_id: %s (already in catalog)", item.DriveFileID)
			stats.Skipped++
			continue
		}

		log.Printf("🆕 New asset detected: %s (drive_file_id: %s)", item.ID, item.DriveFileID)

		if err := s.repository.Insert(ctx, item); err != nil {
			log.Printf("❌ Error inserting %s into catalog: %v", item.ID, err)
			stats.Failed++
			if ctx.Err() != nil {
				return driveItems, stats, ctx.Err()
			}
			continue
		}

		stats.Inserted++
	}

	log.Printf("🎉 Catalog synchronization completed: %d inserted, %d skipped, %d failed, %d total",
		stats.Inserted, stats.Skipped, stats.Failed, stats.Total)
	return driveItems, stats, nil
}
