// =============================================================================
// RSS Export Tool - Export Command
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soildev/rsstool/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the open flat file package",
	Long: `Export assembles the open distribution package RSS_<ST>, mirroring
the SSURGO download layout: the package raster and its metadata under
spatial/ and the pipe delimited attribute tables under tabular/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyBuildFlags(cmd, cfg)
		if err := checkState(cfg); err != nil {
			return err
		}
		if cfg.InputDir == "" {
			return fmt.Errorf("input directory is required")
		}

		rasterPath := filepath.Join(cfg.DatabaseDir(), cfg.RasterName()+".tif")
		pkg, err := export.Run(export.Options{
			InputDir:     cfg.InputDir,
			RasterPath:   rasterPath,
			OutputDir:    cfg.OutputDir,
			State:        cfg.State,
			TemplatesDir: cfg.TemplatesDir,
			Meta:         metaFields(cfg, surveysFromDatabase(cfg.DatabaseDir())),
			Overwrite:    cfg.Overwrite,
			Verbose:      cfg.Verbose,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Exported %s\n", pkg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addBuildFlags(exportCmd)
}
