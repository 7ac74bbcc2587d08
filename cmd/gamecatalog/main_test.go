package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gamecatalog/internal/api"
	"gamecatalog/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	dataDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[paths]\ndata_dir = %q\n\n[logging]\nlevel = \"error\"\n", dataDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{configPath: configPath, dataDir: dataDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func listGames(t *testing.T, env *cliTestEnv) []api.Game {
	t.Helper()
	out, _, err := runCLI(t, []string{"list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var resp api.GameListResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode list output %q: %v", out, err)
	}
	return resp.Games
}

func TestCLIGameLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No games in the catalog")

	shot := filepath.Join(t.TempDir(), "shot.png")
	testsupport.WritePNG(t, shot, 1600, 900)

	out, _, err = runCLI(t, []string{"add", "--title", "Outer Wilds", "--status", "playing", "--rating", "9.5", "--link", "https://store.example.com/app/outer-wilds", "--screenshot", shot}, env.configPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Added Outer Wilds")

	games := listGames(t, env)
	if len(games) != 1 {
		t.Fatalf("expected one game, got %d", len(games))
	}
	game := games[0]
	if !strings.HasSuffix(game.ScreenshotPath, "_Outer_Wilds.webp") {
		t.Fatalf("unexpected screenshot path %q", game.ScreenshotPath)
	}

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Outer Wilds")
	requireContains(t, out, "9.5")

	id := fmt.Sprint(game.ID)
	if _, _, err := runCLI(t, []string{"update", id, "--status", "completed", "--clear-screenshot"}, env.configPath); err != nil {
		t.Fatalf("update: %v", err)
	}
	game = listGames(t, env)[0]
	if game.Status != "completed" || game.Title != "Outer Wilds" || game.Rating != 9.5 {
		t.Fatalf("update did not keep unset fields: %#v", game)
	}
	if game.ScreenshotPath != "" {
		t.Fatalf("expected screenshot cleared, got %q", game.ScreenshotPath)
	}

	out, _, err = runCLI(t, []string{"stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats api.Statistics
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalGames != 1 || stats.Completed != 1 {
		t.Fatalf("unexpected stats %#v", stats)
	}

	if _, _, err := runCLI(t, []string{"delete", id}, env.configPath); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := runCLI(t, []string{"delete", id}, env.configPath); err == nil {
		t.Fatal("expected error deleting a missing game")
	}
}

func TestCLIRejectsBadInput(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"add", "--title", "X", "--status", "paused"}, env.configPath); err == nil {
		t.Fatal("expected invalid status error")
	}
	if _, _, err := runCLI(t, []string{"add", "--status", "playing"}, env.configPath); err == nil {
		t.Fatal("expected missing title error")
	}
	if _, _, err := runCLI(t, []string{"update", "abc"}, env.configPath); err == nil {
		t.Fatal("expected invalid id error")
	}
	if _, _, err := runCLI(t, []string{"update", "7", "--status", "planned"}, env.configPath); err == nil {
		t.Fatal("expected missing game error")
	}
	if len(listGames(t, env)) != 0 {
		t.Fatal("expected no games after rejected input")
	}
}

func TestCLIStatsDoesNotCreateDatabase(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats api.Statistics
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats != (api.Statistics{}) {
		t.Fatalf("expected zero stats, got %#v", stats)
	}
	dbPath := filepath.Join(env.dataDir, "games.db")
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("stats should not create %s, stat err=%v", dbPath, err)
	}
}

func TestCLIVersion(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "Game Collection Manager")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.dataDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "Catalog database: ")
	requireContains(t, out, "games.db")
	requireContains(t, out, fmt.Sprintf("gamecatalog --config %q serve", target))
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
