package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"avatar-studio/models"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileCatalogRepository(t *testing.T) {
	path := writeCatalog(t, `[
		{"id": "hat-01", "name": "Cap", "category": "Hat", "tab": "outfit", "baseSize": 100, "driveFileId": "f1"},
		{"id": "scarf", "category": "accessory", "tab": "outfit", "defaultSnap": false},
		{"id": "cape", "category": "cape"},
		{"id": "", "category": "hat"}
	]`)
	repo := NewFileCatalogRepository(path)
	ctx := context.Background()

	items, err := repo.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 (invalid entries skipped)", len(items))
	}
	if items[0].Category != models.CategoryHat || items[0].BaseSize != 100 {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Snap == nil || *items[1].Snap {
		t.Errorf("defaultSnap override lost: %v", items[1].Snap)
	}

	if ok, err := repo.ExistsByDriveFileID(ctx, "f1"); !ok || err != nil {
		t.Errorf("ExistsByDriveFileID(f1) = %v %v", ok, err)
	}
	if ok, _ := repo.ExistsByDriveFileID(ctx, "f2"); ok {
		t.Error("unexpected drive file")
	}
	if err := repo.Insert(ctx, &models.CatalogItem{ID: "x"}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Insert err = %v", err)
	}
}

func TestFileCatalogRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewFileCatalogRepository(filepath.Join(t.TempDir(), "missing.json")).ListItems(ctx); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := NewFileCatalogRepository(writeCatalog(t, "{not json")).ListItems(ctx); err == nil {
		t.Error("malformed file accepted")
	}
}

func TestBundledCatalogLoads(t *testing.T) {
	items, err := NewFileCatalogRepository(filepath.Join("..", "data", "catalog.json")).ListItems(context.Background())
	if err != nil {
		t.Fatalf("bundled catalog: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("bundled catalog is empty")
	}
	t.Logf("✓ bundled catalog has %d items", len(items))
}
