package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quillcms/console/internal/catalog"
	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/notify"
	"github.com/quillcms/console/internal/resource"
	"github.com/quillcms/console/internal/upstream"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collections.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}
	return path
}

func testBuild(t *testing.T) func(*catalog.Collection) *resource.Manager {
	t.Helper()
	log := logger.New("error", false)
	api := upstream.New("http://backend.invalid", time.Second, log)
	center := notify.NewCenter()
	return func(col *catalog.Collection) *resource.Manager {
		return resource.NewManager(col, api, center, log)
	}
}

func TestCatalogReloaderReload(t *testing.T) {
	path := writeCatalog(t, `
collections:
  - name: articles
    title_field: title
  - name: users
    title_field: email
`)
	registry := resource.NewRegistry()
	cr := NewCatalogReloader(path, registry, testBuild(t), logger.New("error", false),
		time.Hour, make(chan struct{}, 1))

	if err := cr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if registry.Count() != 2 {
		t.Errorf("registry has %d collections, want 2", registry.Count())
	}

	// Shrink the catalog; the removed collection must disappear.
	if err := os.WriteFile(path, []byte("collections:\n  - name: articles\n"), 0o644); err != nil {
		t.Fatalf("rewrite catalog file: %v", err)
	}
	if err := cr.Reload(context.Background()); err != nil {
		t.Fatalf("second Reload failed: %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("registry has %d collections after shrink, want 1", registry.Count())
	}
	if _, ok := registry.Get("users"); ok {
		t.Error("removed collection still registered")
	}
}

func TestCatalogReloaderStartFailsOnBrokenCatalog(t *testing.T) {
	path := writeCatalog(t, "collections: []")
	cr := NewCatalogReloader(path, resource.NewRegistry(), testBuild(t),
		logger.New("error", false), time.Hour, make(chan struct{}, 1))

	if err := cr.Start(context.Background()); err == nil {
		cr.Stop()
		t.Fatal("Start should fail fast on an empty catalog")
	}
}

func TestCatalogReloaderManualTrigger(t *testing.T) {
	path := writeCatalog(t, "collections:\n  - name: articles\n")
	registry := resource.NewRegistry()
	trigger := make(chan struct{}, 1)
	cr := NewCatalogReloader(path, registry, testBuild(t), logger.New("error", false),
		time.Hour, trigger)

	if err := cr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer cr.Stop()

	if err := os.WriteFile(path, []byte("collections:\n  - name: articles\n  - name: tags\n"), 0o644); err != nil {
		t.Fatalf("rewrite catalog file: %v", err)
	}
	trigger <- struct{}{}

	deadline := time.Now().Add(time.Second)
	for registry.Count() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("manual trigger did not reload, registry has %d collections", registry.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
