package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/soildev/rsstool/internal/config"
)

func TestCheckState(t *testing.T) {
	cfg := config.Default()
	cfg.State = "nm"
	if err := checkState(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.State != "NM" {
		t.Errorf("state = %s, want NM", cfg.State)
	}

	cfg.State = "ZZ"
	if err := checkState(cfg); err == nil {
		t.Fatal("expected error for bad state code")
	}
}

func TestApplyBuildFlags(t *testing.T) {
	cmd := &cobra.Command{}
	addBuildFlags(cmd)
	if err := cmd.Flags().Parse([]string{
		"--input", "/data/nasis",
		"--state", "AK",
		"--fy", "2026",
		"--overwrite",
	}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.OutputDir = "/from/config"
	cfg.Template = "2.0"
	applyBuildFlags(cmd, cfg)

	if cfg.InputDir != "/data/nasis" || cfg.State != "AK" || cfg.FiscalYear != 2026 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if !cfg.Overwrite {
		t.Error("overwrite flag not applied")
	}
	// Unset flags leave config values alone.
	if cfg.OutputDir != "/from/config" || cfg.Template != "2.0" {
		t.Errorf("unset flags clobbered config: %+v", cfg)
	}
}
