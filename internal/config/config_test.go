// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	cfg, path, err := Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no resolved path, got %q", path)
	}
	if cfg.SteamCmd != "steamcmd" {
		t.Errorf("steamcmd default = %q", cfg.SteamCmd)
	}
	if cfg.Catalog.BaseURL != "https://steamcommunity.com" {
		t.Errorf("base_url default = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.MaxRetries != 3 {
		t.Errorf("max_retries default = %d", cfg.Catalog.MaxRetries)
	}
	if cfg.DataDir == "" {
		t.Error("data_dir default must not be empty")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeConfig(t, dir, `
data_dir: "/var/lib/workshopctl"
catalog: {
	base_url:    "https://mirror.example"
	max_retries: 5
}
ui: verbose: true
`)

	cfg, path, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path == "" {
		t.Error("expected resolved config path")
	}
	if cfg.DataDir != "/var/lib/workshopctl" {
		t.Errorf("data_dir = %q", cfg.DataDir)
	}
	if cfg.Catalog.BaseURL != "https://mirror.example" || cfg.Catalog.MaxRetries != 5 {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if !cfg.UI.Verbose {
		t.Error("ui.verbose must be true")
	}
	// Untouched keys keep their defaults.
	if cfg.SteamCmd != "steamcmd" {
		t.Errorf("steamcmd = %q", cfg.SteamCmd)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeConfig(t, dir, `catalog: max_retries: "three"`)

	_, _, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("expected schema violation error")
	}
	if !strings.Contains(err.Error(), "max_retries") {
		t.Errorf("error must name the offending field, got %q", err.Error())
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "nope.cue")

	_, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "nope.cue") {
		t.Errorf("error must name the file, got %q", err.Error())
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()
	want := DefaultConfig()
	want.Catalog.MaxRetries = 7
	want.UI.AssumeYes = true

	dir := t.TempDir()
	writeConfig(t, dir, GenerateCUE(want))

	got, _, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("generated config failed to load: %v", err)
	}
	if got.Catalog.MaxRetries != 7 || !got.UI.AssumeYes {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestCreateDefaultConfig_DoesNotClobber(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	custom := `steamcmd: "/usr/local/bin/steamcmd"` + "\n"
	path := writeConfig(t, dir, custom)

	if err := createDefaultConfigIn(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != custom {
		t.Error("existing config file must not be overwritten")
	}
}

func TestSet(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	if err := Set(cfg, "catalog.max_retries", "9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Catalog.MaxRetries != 9 {
		t.Errorf("max_retries = %d", cfg.Catalog.MaxRetries)
	}

	if err := Set(cfg, "ui.assume_yes", "true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.UI.AssumeYes {
		t.Error("assume_yes must be true")
	}

	if err := Set(cfg, "catalog.max_retries", "lots"); err == nil {
		t.Error("non-numeric retries must be rejected")
	}
	if err := Set(cfg, "no.such.key", "x"); err == nil {
		t.Error("unknown key must be rejected")
	}
}

func TestSaveIn_RoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.SteamCmd = "/usr/games/steamcmd"

	if err := saveIn(dir, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, path, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("saved config failed to load: %v", err)
	}
	if path == "" {
		t.Error("expected resolved path after save")
	}
	if got.SteamCmd != "/usr/games/steamcmd" {
		t.Errorf("steamcmd = %q", got.SteamCmd)
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()
	cfg := &Config{DataDir: "/data"}
	if got := cfg.RegistryPath(); got != filepath.Join("/data", "registry.json") {
		t.Errorf("registry path = %q", got)
	}
	if got := cfg.SettingsPath(); got != filepath.Join("/data", "settings.json") {
		t.Errorf("settings path = %q", got)
	}
}
