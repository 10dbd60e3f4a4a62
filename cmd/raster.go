// =============================================================================
// RSS Export Tool - Raster Command
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soildev/rsstool/internal/raster"
)

var rasterCmd = &cobra.Command{
	Use:   "raster",
	Short: "Import the map unit raster into an RSS database",
	Long: `Raster normalizes the classified map unit raster into the package
database directory: nearest neighbor resampled to 10 meter cells on the
national snap grid, UInt32 pixels with the standard NoData value, and an
FGDC metadata sidecar. CONUS rasters are reprojected to EPSG:5070;
rasters already in an accepted regional Albers system keep it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyBuildFlags(cmd, cfg)
		if s, _ := cmd.Flags().GetString("raster"); s != "" {
			cfg.RasterPath = s
		}
		if err := checkState(cfg); err != nil {
			return err
		}
		if cfg.RasterPath == "" {
			return fmt.Errorf("source raster is required")
		}

		out, err := raster.Import(raster.ImportOptions{
			SourcePath:   cfg.RasterPath,
			OutDir:       cfg.DatabaseDir(),
			Name:         cfg.RasterName(),
			TemplatesDir: cfg.TemplatesDir,
			Meta:         metaFields(cfg, surveysFromDatabase(cfg.DatabaseDir())),
			Overwrite:    cfg.Overwrite,
			Verbose:      cfg.Verbose,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Imported %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rasterCmd)
	addBuildFlags(rasterCmd)
	rasterCmd.Flags().String("raster", "", "source classified raster")
}
