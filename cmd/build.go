// =============================================================================
// RSS Export Tool - Build Command
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soildev/rsstool/internal/config"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the RSS tabular database from a NASIS export",
	Long: `Build creates the package database directory RSS_<ST>.db and fills
its SQLite database from the pipe delimited NASIS text file export: the
schema is generated from the export's own data dictionary, adjusted for
the selected gSSURGO template version, then every table is imported,
indexed and related.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyBuildFlags(cmd, cfg)
		if err := checkState(cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		surveys, err := buildDatabase(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Built %s (%d survey areas)\n", cfg.DatabaseDir(), len(surveys))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}

// addBuildFlags registers the flags shared by the build related commands.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "NASIS text file export directory")
	cmd.Flags().String("output", "", "output directory for the package")
	cmd.Flags().String("state", "", "two letter state or territory code")
	cmd.Flags().Int("fy", 0, "publication fiscal year")
	cmd.Flags().String("template", "", "gSSURGO template version (1.0 or 2.0)")
	cmd.Flags().String("templates-dir", "", "metadata and revision templates directory")
	cmd.Flags().Bool("overwrite", false, "replace existing outputs")
}

// applyBuildFlags overlays set flags onto the config.
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	if s, _ := cmd.Flags().GetString("input"); s != "" {
		cfg.InputDir = s
	}
	if s, _ := cmd.Flags().GetString("output"); s != "" {
		cfg.OutputDir = s
	}
	if s, _ := cmd.Flags().GetString("state"); s != "" {
		cfg.State = s
	}
	if n, _ := cmd.Flags().GetInt("fy"); n != 0 {
		cfg.FiscalYear = n
	}
	if s, _ := cmd.Flags().GetString("template"); s != "" {
		cfg.Template = s
	}
	if s, _ := cmd.Flags().GetString("templates-dir"); s != "" {
		cfg.TemplatesDir = s
	}
	if b, _ := cmd.Flags().GetBool("overwrite"); b {
		cfg.Overwrite = true
	}
}
