package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"avatar-studio/db"
	"avatar-studio/models"
)

// PostgresCatalogRepository reads catalog items from PostgreSQL
type PostgresCatalogRepository struct {
	db *sql.DB
}

// NewPostgresCatalogRepository creates a PostgresCatalogRepository on the shared connection
func NewPostgresCatalogRepository() *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db.DB}
}

// Ensure PostgresCatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*PostgresCatalogRepository)(nil)

// ListItems retrieves all active catalog items
func (r *PostgresCatalogRepository) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	query := `
		SELECT
			id,
			name,
			category,
			tab,
			image_ref,
			gender,
			occupation_group,
			default_snap,
			base_size,
			color,
			COALESCE(drive_file_id, '') as drive_file_id
		FROM catalog_items
		WHERE is_active = true
		ORDER BY tab ASC, category ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Error querying catalog items: %v", err)
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		var item models.CatalogItem
		var category, tab, gender string
		var snap sql.NullBool

		err := rows.Scan(
			&item.ID,
			&item.Name,
			&category,
			&tab,
			&item.ImageRef,
			&gender,
			&item.Occupation,
			&snap,
			&item.BaseSize,
			&item.Color,
			&item.DriveFileID,
		)
		if err != nil {
			log.Printf("❌ Error scanning catalog item: %v", err)
			continue
		}

		item.Category, _ = models.ParseCategory(category)
		item.Tab, _ = models.ParseTab(tab)
		item.Gender = models.Gender(strings.ToLower(gender))
		if snap.Valid {
			v := snap.Bool
			item.Snap = &v
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ Error iterating catalog items: %v", err)
		return nil, fmt.Errorf("failed to iterate catalog items: %w", err)
	}

	log.Printf("✓ Successfully fetched %d catalog items", len(items))
	return items, nil
}

// ExistsByDriveFileID checks if an item was already synced from a Drive file
func (r *PostgresCatalogRepository) ExistsByDriveFileID(ctx context.Context, driveFileID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM catalog_items WHERE drive_file_id = $1)`
	if err := r.db.QueryRowContext(ctx, query, driveFileID).Scan(&exists); err != nil {
		log.Printf("❌ Error checking existence for drive_file_id %s: %v", driveFileID, err)
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}

// Insert adds a catalog item; an existing id is left untouched
func (r *PostgresCatalogRepository) Insert(ctx context.Context, item *models.CatalogItem) error {
	query := `
		INSERT INTO catalog_items
			(id, name, category, tab, image_ref, gender, occupation_group, default_snap, base_size, color, drive_file_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''))
		ON CONFLICT (id) DO NOTHING
	`

	var snap sql.NullBool
	if item.Snap != nil {
		snap = sql.NullBool{Bool: *item.Snap, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Name,
		string(item.Category),
		string(item.Tab),
		item.ImageRef,
		string(item.Gender),
		item.Occupation,
		snap,
		item.BaseSize,
		item.Color,
		item.DriveFileID,
	)
	if err != nil {
		log.Printf("❌ Error inserting catalog item %s: %v", item.ID, err)
		return fmt.Errorf("failed to insert catalog item: %w", err)
	}

	log.Printf("✓ Catalog item inserted: %s (%s)", item.ID, item.Category)
	return nil
}
