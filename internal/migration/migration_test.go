package migration_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/webp"

	"gamecatalog/internal/catalog"
	"gamecatalog/internal/config"
	"gamecatalog/internal/imaging"
	"gamecatalog/internal/lockfile"
	"gamecatalog/internal/migration"
	"gamecatalog/internal/testsupport"
)

type fixture struct {
	cfg   *config.Config
	store *catalog.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return fixture{cfg: cfg, store: testsupport.MustOpenStore(t, cfg)}
}

// addWithFile creates a record whose screenshot_path points at a file written
// by write (skipped when write is nil).
func (f fixture) addWithFile(t *testing.T, title, name string, write func(path string)) (int64, string) {
	t.Helper()
	ctx := context.Background()
	id, err := f.store.Create(ctx, catalog.Fields{Title: title})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	path := filepath.Join(f.cfg.Paths.ScreenshotsDir, name)
	if write != nil {
		write(path)
	}
	if err := f.store.SetScreenshotPath(ctx, id, path); err != nil {
		t.Fatalf("SetScreenshotPath: %v", err)
	}
	return id, path
}

func openMigrator(t *testing.T, cfg *config.Config) *migration.Migrator {
	t.Helper()
	m, err := migration.New(cfg, nil)
	if err != nil {
		t.Fatalf("migration.New: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestNewRequiresDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := migration.New(cfg, nil); !errors.Is(err, migration.ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}
	if _, err := os.Stat(cfg.Paths.Database); !os.IsNotExist(err) {
		t.Fatal("migration must not create the database")
	}
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	f.addWithFile(t, "Png game", "old-a.png", func(p string) { testsupport.WritePNG(t, p, 10, 10) })
	f.addWithFile(t, "Jpg game", "old-b.JPG", func(p string) { testsupport.WriteFile(t, p, 2048) })
	f.addWithFile(t, "Png two", "old-c.png", func(p string) { testsupport.WriteFile(t, p, 100) })
	f.addWithFile(t, "Gone", "missing.png", nil)
	testsupport.NewRecord(t, f.store, "No screenshot", catalog.StatusPlanned)

	report, err := openMigrator(t, f.cfg).Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Count() != 3 {
		t.Fatalf("expected 3 entries, got %d", report.Count())
	}
	if len(report.Formats) != 2 || report.Formats[0].Format != ".png" || report.Formats[0].Count != 2 {
		t.Fatalf("unexpected format histogram %#v", report.Formats)
	}
	if report.Formats[1].Format != ".jpg" {
		t.Fatalf("expected lower-cased extension, got %#v", report.Formats[1])
	}
	if report.EstimatedSaving() != report.TotalBytes/2 {
		t.Fatalf("expected 50%% saving estimate, got %d of %d", report.EstimatedSaving(), report.TotalBytes)
	}
}

func TestRunConvertsAndRepoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pngID, pngPath := f.addWithFile(t, "Half Life 2", "legacy.png", func(p string) { testsupport.WritePNG(t, p, 1800, 900) })
	webpID, webpPath := f.addWithFile(t, "Already", "2_Already.webp", func(p string) { testsupport.WriteFile(t, p, 64) })
	svgID, svgPath := f.addWithFile(t, "Vector", "3_Vector.svg", func(p string) {
		if err := os.WriteFile(p, []byte(testsupport.SVGDocument), 0o644); err != nil {
			t.Fatal(err)
		}
	})
	brokenID, brokenPath := f.addWithFile(t, "Broken", "broken.png", func(p string) { testsupport.WriteFile(t, p, 128) })

	var seen int
	summary, err := openMigrator(t, f.cfg).Run(ctx, migration.RunOptions{OnItem: func(migration.ItemResult) { seen++ }})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen != 4 || summary.Total != 4 {
		t.Fatalf("expected 4 items, seen=%d total=%d", seen, summary.Total)
	}
	if summary.Converted != 1 || summary.AlreadyCanonical != 1 || summary.SkippedVector != 1 {
		t.Fatalf("unexpected summary %#v", summary)
	}
	if summary.Migrated() != 2 || len(summary.Errors) != 1 {
		t.Fatalf("expected 2 migrated and 1 error, got %d / %v", summary.Migrated(), summary.Errors)
	}

	rec, _ := f.store.Get(ctx, pngID)
	want := filepath.Join(f.cfg.Paths.ScreenshotsDir, "1_Half_Life_2.webp")
	if rec.ScreenshotPath != want {
		t.Fatalf("expected repointed path %s, got %s", want, rec.ScreenshotPath)
	}
	if _, err := os.Stat(pngPath); !os.IsNotExist(err) {
		t.Fatalf("expected legacy file removed, stat err=%v", err)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read converted: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("converted file is not webp: %v", err)
	}
	if cfg.Width != 1200 || cfg.Height != 600 {
		t.Fatalf("expected 1200x600, got %dx%d", cfg.Width, cfg.Height)
	}

	for id, path := range map[int64]string{webpID: webpPath, svgID: svgPath, brokenID: brokenPath} {
		rec, _ := f.store.Get(ctx, id)
		if rec.ScreenshotPath != path {
			t.Fatalf("record %d should keep %s, got %s", id, path, rec.ScreenshotPath)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("file %s should remain: %v", path, err)
		}
	}

	v, err := openMigrator(t, f.cfg).Verify(ctx)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if v.Canonical != 2 || v.NonCanonical != 2 || !v.OK() {
		t.Fatalf("unexpected verification %#v", v)
	}
}

func TestRunRecordsOversizedImageAsFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, path := f.addWithFile(t, "Bomb", "bomb.png", func(p string) {
		if err := os.WriteFile(p, testsupport.ForgedPNGBytes(t, 40000, 40000), 0o644); err != nil {
			t.Fatal(err)
		}
	})

	var items []migration.ItemResult
	summary, err := openMigrator(t, f.cfg).Run(ctx, migration.RunOptions{OnItem: func(it migration.ItemResult) { items = append(items, it) }})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(items) != 1 || items[0].Action != migration.ActionFailed {
		t.Fatalf("expected one failed item, got %#v", items)
	}
	if !errors.Is(items[0].Err, imaging.ErrImageTooLarge) {
		t.Fatalf("expected pixel budget error, got %v", items[0].Err)
	}
	if summary.Converted != 0 || len(summary.Errors) != 1 {
		t.Fatalf("unexpected summary %#v", summary)
	}
	rec, _ := f.store.Get(ctx, id)
	if rec.ScreenshotPath != path {
		t.Fatalf("record should keep %s, got %s", path, rec.ScreenshotPath)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("source file should remain: %v", err)
	}
}

func TestRunDryRunChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, path := f.addWithFile(t, "Dry", "legacy.png", func(p string) { testsupport.WritePNG(t, p, 20, 20) })

	summary, err := openMigrator(t, f.cfg).Run(ctx, migration.RunOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Planned != 1 || summary.Converted != 0 || !summary.DryRun {
		t.Fatalf("unexpected dry-run summary %#v", summary)
	}
	if summary.Items[0].NewPath != filepath.Join(f.cfg.Paths.ScreenshotsDir, "1_Dry.webp") {
		t.Fatalf("unexpected planned path %q", summary.Items[0].NewPath)
	}
	rec, _ := f.store.Get(ctx, id)
	if rec.ScreenshotPath != path {
		t.Fatalf("dry run changed path to %q", rec.ScreenshotPath)
	}
	if _, err := os.Stat(summary.Items[0].NewPath); !os.IsNotExist(err) {
		t.Fatal("dry run wrote a file")
	}
}

func TestRunRefusesWhileLocked(t *testing.T) {
	f := newFixture(t)
	lock, err := lockfile.Acquire(f.cfg.Paths.LockFile)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	if _, err := openMigrator(t, f.cfg).Run(context.Background(), migration.RunOptions{}); !errors.Is(err, lockfile.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunFailsPreflight(t *testing.T) {
	f := newFixture(t)
	if err := os.RemoveAll(f.cfg.Paths.ScreenshotsDir); err != nil {
		t.Fatal(err)
	}
	if _, err := openMigrator(t, f.cfg).Run(context.Background(), migration.RunOptions{}); !errors.Is(err, migration.ErrPreflight) {
		t.Fatalf("expected ErrPreflight, got %v", err)
	}
}

func TestVerifyReportsMissing(t *testing.T) {
	f := newFixture(t)
	f.addWithFile(t, "Gone", "9_Gone.webp", nil)

	v, err := openMigrator(t, f.cfg).Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if v.OK() || len(v.Missing) != 1 || v.Missing[0].Title != "Gone" {
		t.Fatalf("unexpected verification %#v", v)
	}
}
