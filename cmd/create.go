// =============================================================================
// RSS Export Tool - Create Command
// =============================================================================
//
// Create is the full pipeline: tabular database, raster import, open
// package export, then validation of the finished package. It is the
// command a soil scientist runs once per state per fiscal year.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/soildev/rsstool/internal/export"
	"github.com/soildev/rsstool/internal/raster"
	"github.com/soildev/rsstool/internal/validate"
	"github.com/soildev/rsstool/pkg/utils"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Build the full RSS package for one state",
	Long: `Create runs the whole packaging pipeline for one state and fiscal
year: build the gSSURGO structured database from the NASIS export,
import the classified map unit raster, export the open flat file
package, and validate the result. The pipeline stops at the first
failing stage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyBuildFlags(cmd, cfg)
		if s, _ := cmd.Flags().GetString("raster"); s != "" {
			cfg.RasterPath = s
		}
		skipValidate, _ := cmd.Flags().GetBool("skip-validate")

		if err := checkState(cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.RasterPath == "" {
			return fmt.Errorf("source raster is required")
		}
		if !utils.FileExists(cfg.RasterPath) {
			return fmt.Errorf("source raster not found: %s", cfg.RasterPath)
		}
		if err := raster.CheckSource(cfg.RasterPath); err != nil {
			return err
		}

		log.Printf("building database for %s FY%d", cfg.State, cfg.FiscalYear)
		surveys, err := buildDatabase(cfg)
		if err != nil {
			return err
		}
		meta := metaFields(cfg, surveys)

		log.Printf("importing raster %s", cfg.RasterPath)
		rasterPath, err := raster.Import(raster.ImportOptions{
			SourcePath:   cfg.RasterPath,
			OutDir:       cfg.DatabaseDir(),
			Name:         cfg.RasterName(),
			TemplatesDir: cfg.TemplatesDir,
			Meta:         meta,
			Overwrite:    cfg.Overwrite,
			Verbose:      cfg.Verbose,
		})
		if err != nil {
			return err
		}

		log.Printf("exporting open package")
		if _, err := export.Run(export.Options{
			InputDir:     cfg.InputDir,
			RasterPath:   rasterPath,
			OutputDir:    cfg.OutputDir,
			State:        cfg.State,
			TemplatesDir: cfg.TemplatesDir,
			Meta:         meta,
			Overwrite:    cfg.Overwrite,
			Verbose:      cfg.Verbose,
		}); err != nil {
			return err
		}

		if skipValidate {
			fmt.Printf("Package assembled for %s (validation skipped)\n", cfg.State)
			return nil
		}

		log.Printf("validating package")
		res, err := validate.New().ValidatePackage(cfg.OutputDir)
		if err != nil {
			return err
		}
		fmt.Printf("Validation result: %s (log: %s)\n", res.Code(), res.LogPath)
		if !res.Passed() {
			return fmt.Errorf("package for %s failed validation", cfg.State)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	addBuildFlags(createCmd)
	createCmd.Flags().String("raster", "", "source classified raster")
	createCmd.Flags().Bool("skip-validate", false, "skip the final validation pass")
}
