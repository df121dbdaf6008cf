package repository

import (
	"context"
	"errors"

	"avatar-studio/models"
)

// ErrReadOnly is returned when writing to a catalog source that cannot be written
var ErrReadOnly = errors.New("catalog repository is read-only")

// CatalogRepositoryInterface defines the contract for catalog item storage
type CatalogRepositoryInterface interface {
	ListItems(ctx context.Context) ([]models.CatalogItem, error)
	ExistsByDriveFileID(ctx context.Context, driveFileID string) (bool, error)
	Insert(ctx context.Context, item *models.CatalogItem) error
}
