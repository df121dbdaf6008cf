package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	// WebP catalog assets
	_ "golang.org/x/image/webp"

	"avatar-studio/models"
)

const (
	// Size settings (max dimension)
	maxSizeThumb  = 160
	maxSizeMedium = 480

	warmUpConcurrency = 4
)

// ErrNoImage is returned for catalog items that are rendered from a colour only
var ErrNoImage = errors.New("catalog item has no image")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// AssetService serves resized closet images, caching them on disk
type AssetService struct {
	driveService DriveServiceInterface
	assetsDir    string
	cacheDir     string
}

// NewAssetService creates an AssetService. driveService may be nil when no
// Drive credentials are configured; Drive references then fail to load.
func NewAssetService(driveService DriveServiceInterface, assetsDir, cacheDir string) *AssetService {
	return &AssetService{
		driveService: driveService,
		assetsDir:    assetsDir,
		cacheDir:     cacheDir,
	}
}

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (s *AssetService) EnsureCacheDir() error {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// CachePath returns the cache file path for a given item ID and size
func (s *AssetService) CachePath(itemID, size string) string {
	filename := fmt.Sprintf("%s_%s.png", unsafeChars.ReplaceAllString(itemID, "_"), size)
	return filepath.Join(s.cacheDir, filename)
}

// Source returns the original image bytes of an item
func (s *AssetService) Source(item models.CatalogItem) ([]byte, error) {
	if item.ImageRef == "" {
		return nil, ErrNoImage
	}
	if fileID, ok := ParseDriveImageRef(item.ImageRef); ok {
		if s.driveService == nil {
			return nil, fmt.Errorf("item %s is hosted on Drive but Drive is not configured", item.ID)
		}
		return s.driveService.DownloadImage(fileID)
	}

	// Clean against the root so a reference cannot escape the assets directory
	path := filepath.Join(s.assetsDir, filepath.Clean("/"+item.ImageRef))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", item.ImageRef, err)
	}
	return data, nil
}

// Thumbnail returns the resized PNG of an item, from the cache when available
func (s *AssetService) Thumbnail(item models.CatalogItem, size string) ([]byte, error) {
	cachePath := s.CachePath(item.ID, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	source, err := s.Source(item)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(source, size)
	if err != nil {
		return nil, fmt.Errorf("failed to optimize %s: %w", item.ID, err)
	}

	if err := s.saveToCache(cachePath, optimized); err != nil {
		log.Printf("⚠️  Warning: %v", err)
	}
	return optimized, nil
}

// WarmUp renders the thumbnails of items into the cache with bounded
// concurrency. Items without an image are skipped. Returns the number cached.
func (s *AssetService) WarmUp(ctx context.Context, items []models.CatalogItem, size string) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmUpConcurrency)

	done := make([]bool, len(items))
	for i, item := range items {
		if item.ImageRef == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := s.Thumbnail(item, size); err != nil {
				log.Printf("❌ Error warming thumbnail for %s: %v", item.ID, err)
				return nil
			}
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	cached := 0
	for _, ok := range done {
		if ok {
			cached++
		}
	}
	log.Printf("✓ Thumbnail warm-up finished: %d/%d cached", cached, len(items))
	return cached, err
}

func (s *AssetService) saveToCache(cachePath string, imageData []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(cachePath, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// OptimizeImage fits an image into the box of the requested size and
// re-encodes it as PNG so transparency is kept.
// size: "thumb" or "medium"
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var maxDim int
	switch size {
	case "thumb":
		maxDim = maxSizeThumb
	case "medium":
		maxDim = maxSizeMedium
	default:
		maxDim = maxSizeMedium
		log.Printf("⚠️  Unknown size '%s', defaulting to medium", size)
	}

	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode to PNG: %w", err)
	}
	return buf.Bytes(), nil
}
