// =============================================================================
// RSS Export Tool - Root Command
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/soildev/rsstool/internal/config"
)

// Version is the tool version recorded in package metadata.
const Version = "2.1.0"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rsstool",
	Short: "Raster soil survey packaging tool",
	Long: `rsstool assembles raster soil survey (RSS) publication packages:
it converts a NASIS tabular export into a gSSURGO structured database,
imports the classified map unit raster, exports the open flat file
package, and validates finished packages against the publication
checklist.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose progress output")
}

// loadConfig reads the config file and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	cfg.ToolVersion = Version
	return cfg, nil
}
