package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/stdr"

	"avatar-studio/app/controller"
	"avatar-studio/app/router"
	"avatar-studio/config"
	"avatar-studio/db"
	"avatar-studio/repository"
	"avatar-studio/service"
	"avatar-studio/session"
	"avatar-studio/slots"
)

const sweepInterval = time.Minute

// Initialize initializes the application and registers its routes on mux.
// Background workers stop when ctx is cancelled.
func Initialize(ctx context.Context, cfg *config.Config, mux *http.ServeMux) error {
	stdr.SetVerbosity(cfg.LogVerbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	// Catalog source: Postgres when configured, else the bundled JSON file
	var repo repository.CatalogRepositoryInterface
	if cfg.UseDatabase() {
		if err := db.InitDB(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
		repo = repository.NewPostgresCatalogRepository()
	} else {
		log.Printf("⚠️  No database configured, reading catalog from %s", cfg.CatalogFile)
		repo = repository.NewFileCatalogRepository(cfg.CatalogFile)
	}

	// Drive is optional; without it catalog sync is disabled
	var driveService service.DriveServiceInterface
	var syncService service.SyncServiceInterface
	if cfg.CredentialsPath != "" {
		ds, err := service.NewDriveService(ctx, cfg.CredentialsPath)
		if err != nil {
			return err
		}
		driveService = ds
		if cfg.UseDatabase() {
			syncService = service.NewSyncService(ds, repo)
		}
	} else {
		log.Printf("⚠️  GOOGLE_APPLICATION_CREDENTIALS is not set, Drive assets and catalog sync are disabled")
	}

	catalogService := service.NewCatalogService(repo)
	if err := catalogService.Load(ctx); err != nil {
		return err
	}

	assetService := service.NewAssetService(driveService, cfg.AssetsDir, cfg.CacheDir)
	if err := assetService.EnsureCacheDir(); err != nil {
		return err
	}
	go func() {
		if _, err := assetService.WarmUp(ctx, catalogService.All(), "thumb"); err != nil {
			log.Printf("⚠️  Thumbnail warm-up stopped: %v", err)
		}
	}()

	opts := session.DefaultOptions()
	opts.Placement.DedupeWindow = cfg.DedupeWindow
	opts.Placement.ReleaseDelay = cfg.PlaceRelease
	opts.Placement.NearTolerance = cfg.NearDuplicatePx
	opts.HistoryLimit = cfg.HistoryLimit
	opts.TTL = cfg.SessionTTL
	opts.Logger = logger
	sessions := session.NewManager(catalogService, slots.NewRegistry(cfg.DesignCanvasWidth), opts)
	go sessions.Run(ctx, sweepInterval)

	exportService := service.NewExportService(cfg.BaseURL, cfg.ChromePath)

	// Create controllers
	controllers := &router.Controllers{
		Catalog: controller.NewCatalogController(catalogService, assetService, syncService, cfg.DriveCatalogFolderID),
		Session: controller.NewSessionController(sessions),
		Gesture: controller.NewGestureController(sessions),
		Export:  controller.NewExportController(sessions, exportService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(mux, controllers)

	return nil
}
