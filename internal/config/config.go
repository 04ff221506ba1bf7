// Package config loads runtime configuration for benji.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"benji/internal/models"
)

const (
	DefaultDBFileName      = ".benji.db"
	DefaultExportDirName   = "exports"
	DefaultSheetsPerGen    = models.MaxSheetNumber
	DefaultJobRetentionHrs = 2
	DefaultLogLevel        = "info"
	defaultConfigFileName  = ".benji.toml"
	configPathEnvKey       = "BENJI_CONFIG"
)

// Config defines runtime configuration for benji.
type Config struct {
	DBPath              string `toml:"db_path"`
	ExportDir           string `toml:"export_dir"`
	WatermarkPath       string `toml:"watermark_path"`
	SheetsPerGeneration int    `toml:"sheets_per_generation"`
	JobRetentionHours   int    `toml:"job_retention_hours"`
	LogLevel            string `toml:"log_level"`
}

// Default returns default configuration values, anchored in the
// current working directory.
func Default() Config {
	return Config{
		DBPath:              DefaultDBFileName,
		ExportDir:           DefaultExportDirName,
		WatermarkPath:       "",
		SheetsPerGeneration: DefaultSheetsPerGen,
		JobRetentionHours:   DefaultJobRetentionHrs,
		LogLevel:            DefaultLogLevel,
	}
}

// Load reads configuration from the config file when present and
// applies defaults. The file location is $BENJI_CONFIG if set,
// otherwise .benji.toml in the working directory.
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv(configPathEnvKey)
	if path == "" {
		path = defaultConfigFileName
	}

	if err := loadFileIfExists(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("export_dir is required")
	}
	if c.SheetsPerGeneration < 1 || c.SheetsPerGeneration > models.MaxSheetNumber {
		return fmt.Errorf("sheets_per_generation must be between 1 and %d", models.MaxSheetNumber)
	}
	if c.JobRetentionHours < 1 {
		return fmt.Errorf("job_retention_hours must be at least 1")
	}
	return nil
}

// JobRetention returns the retention window as a duration.
func (c *Config) JobRetention() time.Duration {
	return time.Duration(c.JobRetentionHours) * time.Hour
}

func loadFileIfExists(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", filepath.Clean(path), err)
	}
	return nil
}
