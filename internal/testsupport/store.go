package testsupport

import (
	"context"
	"testing"

	"gamecatalog/internal/assets"
	"gamecatalog/internal/catalog"
	"gamecatalog/internal/collection"
	"gamecatalog/internal/config"
	"gamecatalog/internal/imaging"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config, opts ...catalog.Option) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg, opts...)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRecord creates a record with the given title and status.
func NewRecord(t testing.TB, store *catalog.Store, title string, status catalog.Status) int64 {
	t.Helper()

	id, err := store.Create(context.Background(), catalog.Fields{Title: title, Status: status})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return id
}

// NewCoordinator wires a record store, an asset store and a coordinator over
// cfg, registering cleanup for the database handle.
func NewCoordinator(t testing.TB, cfg *config.Config) *collection.Coordinator {
	t.Helper()

	codec := imaging.New(imaging.OptionsFromConfig(cfg.Assets), nil)
	files := assets.New(cfg.Paths.ScreenshotsDir, codec, nil)
	store := MustOpenStore(t, cfg, catalog.WithInliner(files))

	coord, err := collection.New(store, files, nil)
	if err != nil {
		t.Fatalf("collection.New: %v", err)
	}
	return coord
}
