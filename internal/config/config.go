// =============================================================================
// RSS Export Tool - Configuration Management
// =============================================================================
//
// Runtime settings load from a YAML file and may be overridden per run by
// command line flags. Everything has a sensible default so the tool runs
// without any config file at all.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	// Paths
	InputDir     string `yaml:"input_dir"`     // NASIS text file export
	OutputDir    string `yaml:"output_dir"`    // where packages are written
	TemplatesDir string `yaml:"templates_dir"` // metadata and revision templates
	RasterPath   string `yaml:"raster_path"`   // source classified raster

	// Survey identity
	State      string `yaml:"state"`       // two letter state or territory code
	FiscalYear int    `yaml:"fiscal_year"` // publication fiscal year

	// Build options
	Template    string `yaml:"template"`  // gSSURGO template version, "1.0" or "2.0"
	Overwrite   bool   `yaml:"overwrite"` // replace an existing package
	Verbose     bool   `yaml:"verbose"`
	ToolVersion string `yaml:"-"` // injected by the command layer
}

// Default returns a Config with workable defaults for the current year.
func Default() *Config {
	return &Config{
		OutputDir:    ".",
		TemplatesDir: "templates",
		Template:     "2.0",
		FiscalYear:   time.Now().Year(),
	}
}

// Load reads a YAML config file into a defaulted Config. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings a build run depends on.
func (c *Config) Validate() error {
	if c.State == "" {
		return fmt.Errorf("state code is required")
	}
	if len(c.State) < 2 {
		return fmt.Errorf("invalid state code %q", c.State)
	}
	cy := time.Now().Year()
	if c.FiscalYear < cy-1 || c.FiscalYear > cy+1 {
		return fmt.Errorf("fiscal year %d outside the expected range %d-%d",
			c.FiscalYear, cy-1, cy+1)
	}
	if c.InputDir != "" {
		if info, err := os.Stat(c.InputDir); err != nil || !info.IsDir() {
			return fmt.Errorf("input directory not found: %s", c.InputDir)
		}
	}
	return nil
}

// PackageName is the top level directory name for the built package.
func (c *Config) PackageName() string {
	return fmt.Sprintf("RSS_%s", c.State)
}

// DatabaseDir is the directory holding the relational database and raster.
func (c *Config) DatabaseDir() string {
	return filepath.Join(c.OutputDir, c.PackageName()+".db")
}

// RasterName is the canonical name of the 10 meter map unit raster.
func (c *Config) RasterName() string {
	return fmt.Sprintf("MURASTER_10m_%s_%d", c.State, c.FiscalYear)
}
