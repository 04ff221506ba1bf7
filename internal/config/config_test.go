package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"benji/internal/models"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.SheetsPerGeneration != models.MaxSheetNumber {
		t.Fatalf("expected %d sheets per generation, got %d", models.MaxSheetNumber, cfg.SheetsPerGeneration)
	}
	if cfg.JobRetention() != 2*time.Hour {
		t.Fatalf("expected 2h retention, got %v", cfg.JobRetention())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "benji.toml")
	content := `
db_path = "/tmp/benji-test.db"
export_dir = "/tmp/benji-exports"
sheets_per_generation = 500
job_retention_hours = 6
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BENJI_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/benji-test.db" {
		t.Fatalf("unexpected db_path %q", cfg.DBPath)
	}
	if cfg.SheetsPerGeneration != 500 {
		t.Fatalf("unexpected sheets_per_generation %d", cfg.SheetsPerGeneration)
	}
	if cfg.JobRetention() != 6*time.Hour {
		t.Fatalf("unexpected retention %v", cfg.JobRetention())
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log_level %q", cfg.LogLevel)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("BENJI_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != DefaultDBFileName {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db_path", func(c *Config) { c.DBPath = "" }},
		{"empty export_dir", func(c *Config) { c.ExportDir = "" }},
		{"zero sheets", func(c *Config) { c.SheetsPerGeneration = 0 }},
		{"too many sheets", func(c *Config) { c.SheetsPerGeneration = models.MaxSheetNumber + 1 }},
		{"zero retention", func(c *Config) { c.JobRetentionHours = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
