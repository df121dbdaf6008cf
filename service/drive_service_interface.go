package service

import "avatar-studio/models"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListCatalogAssets(folderID string) ([]models.CatalogItem, error)
	DownloadImage(fileID string) ([]byte, error)
}
