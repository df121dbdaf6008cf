package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"avatar-studio/models"
	"avatar-studio/utils"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

var imageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// ListCatalogAssets lists all image files in a Google Drive folder and parses
// their names into catalog items. Files that don't match the naming pattern are skipped.
func (ds *DriveService) ListCatalogAssets(folderID string) ([]models.CatalogItem, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var allFiles []*drive.File
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		allFiles = append(allFiles, r.Files...)
		pageToken = r.NextPageToken

		if pageToken == "" {
			break
		}
	}

	var items []models.CatalogItem
	for _, file := range allFiles {
		if !imageMimeTypes[strings.ToLower(file.MimeType)] {
			continue
		}

		item, err := utils.ParseAssetFileName(file.Name)
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v", file.Name, err)
			continue
		}

		item.DriveFileID = file.Id
		item.ImageRef = DriveImageRef(file.Id)
		items = append(items, *item)
	}

	return items, nil
}

// DownloadImage downloads the raw bytes of a Drive file
func (ds *DriveService) DownloadImage(fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

const driveRefPrefix = "drive:"

// DriveImageRef builds the image reference stored for a Drive-hosted asset
func DriveImageRef(fileID string) string {
	return driveRefPrefix + fileID
}

// ParseDriveImageRef returns the Drive file id of a reference built by DriveImageRef
func ParseDriveImageRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, driveRefPrefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, driveRefPrefix), true
}
