package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/quillcms/console/internal/catalog"
	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/resource"
)

// CatalogReloader handles periodic reloading of collections.yaml so new
// admin collections appear without a restart.
type CatalogReloader struct {
	loader        *catalog.Loader
	registry      *resource.Registry
	build         func(*catalog.Collection) *resource.Manager
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader
func NewCatalogReloader(
	catalogFile string,
	registry *resource.Registry,
	build func(*catalog.Collection) *resource.Manager,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        catalog.NewLoader(catalogFile),
		registry:      registry,
		build:         build,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog once (failing fast when it is broken at boot) and
// begins the periodic reload loop.
func (cr *CatalogReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual catalog reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload parses collections.yaml and swaps the manager registry. Collections
// that survive the reload keep their cached listings.
func (cr *CatalogReloader) Reload(_ context.Context) error {
	collections, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	cr.registry.Rebuild(collections, cr.build)
	cr.logger.Info("catalog reloaded",
		logger.Int("collections", len(collections)))
	return nil
}
