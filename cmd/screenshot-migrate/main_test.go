package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gamecatalog/internal/catalog"
	"gamecatalog/internal/config"
	"gamecatalog/internal/testsupport"
)

type migrateTestEnv struct {
	cfg        *config.Config
	configPath string
	store      *catalog.Store
}

func setupMigrateEnv(t *testing.T) *migrateTestEnv {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[paths]\ndata_dir = %q\n\n[logging]\nlevel = \"error\"\n", filepath.Join(base, "data"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return &migrateTestEnv{cfg: cfg, configPath: configPath, store: testsupport.MustOpenStore(t, cfg)}
}

// addLegacy creates a record whose screenshot is a PNG file.
func (e *migrateTestEnv) addLegacy(t *testing.T, title string) int64 {
	t.Helper()
	id := testsupport.NewRecord(t, e.store, title, catalog.StatusPlaying)
	path := filepath.Join(e.cfg.Paths.ScreenshotsDir, fmt.Sprintf("%d_legacy.png", id))
	testsupport.WritePNG(t, path, 1800, 600)
	if err := e.store.SetScreenshotPath(context.Background(), id, path); err != nil {
		t.Fatalf("SetScreenshotPath: %v", err)
	}
	return id
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestReportJSON(t *testing.T) {
	env := setupMigrateEnv(t)
	env.addLegacy(t, "Braid")
	env.addLegacy(t, "Fez")

	out, err := runCLI(t, []string{"report", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var report reportOutput
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if report.Count != 2 || report.Formats[".png"] != 2 {
		t.Fatalf("unexpected report %#v", report)
	}
	if report.EstimatedSaving != report.TotalBytes/2 {
		t.Fatalf("unexpected estimated saving %d of %d", report.EstimatedSaving, report.TotalBytes)
	}
}

func TestDryRunChangesNothing(t *testing.T) {
	env := setupMigrateEnv(t)
	id := env.addLegacy(t, "Limbo")

	out, err := runCLI(t, []string{"run", "--dry-run", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
	var summary summaryOutput
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary %q: %v", out, err)
	}
	if !summary.DryRun || summary.Planned != 1 || summary.Converted != 0 {
		t.Fatalf("unexpected summary %#v", summary)
	}

	path, _, err := env.store.ScreenshotPath(context.Background(), id)
	if err != nil {
		t.Fatalf("ScreenshotPath: %v", err)
	}
	if filepath.Ext(path) != ".png" {
		t.Fatalf("dry run changed path to %q", path)
	}
}

func TestInteractiveDecline(t *testing.T) {
	env := setupMigrateEnv(t)
	env.addLegacy(t, "Inside")

	out, err := runCLI(t, nil, env.configPath, "n\n")
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	requireContains(t, out, "Estimated saving")
	requireContains(t, out, "Migration cancelled.")
}

func TestInteractiveMigrateAndVerify(t *testing.T) {
	env := setupMigrateEnv(t)
	id := env.addLegacy(t, "Hollow Knight")

	out, err := runCLI(t, []string{"--yes"}, env.configPath, "")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	requireContains(t, out, "Converted")
	requireContains(t, out, "Verification passed")

	path, _, err := env.store.ScreenshotPath(context.Background(), id)
	if err != nil {
		t.Fatalf("ScreenshotPath: %v", err)
	}
	want := filepath.Join(env.cfg.Paths.ScreenshotsDir, fmt.Sprintf("%d_Hollow_Knight.webp", id))
	if path != want {
		t.Fatalf("expected %q, got %q", want, path)
	}

	out, err = runCLI(t, []string{"verify", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	var v verificationOutput
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode verification: %v", err)
	}
	if !v.OK || v.Canonical != 1 || v.NonCanonical != 0 {
		t.Fatalf("unexpected verification %#v", v)
	}
}

func TestVerifyReportsMissingFiles(t *testing.T) {
	env := setupMigrateEnv(t)
	id := env.addLegacy(t, "Gris")
	if err := env.store.SetScreenshotPath(context.Background(), id, filepath.Join(env.cfg.Paths.ScreenshotsDir, "gone.webp")); err != nil {
		t.Fatalf("SetScreenshotPath: %v", err)
	}

	out, err := runCLI(t, []string{"verify"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected verify to fail with a missing file")
	}
	requireContains(t, out, "gone.webp")
}

func TestMissingDatabase(t *testing.T) {
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[paths]\ndata_dir = %q\n", filepath.Join(base, "data"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := runCLI(t, []string{"report"}, configPath, ""); err == nil {
		t.Fatal("expected error for a missing database")
	}
}
