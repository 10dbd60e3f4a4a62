// =============================================================================
// RSS Export Tool - Version Command
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rsstool %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
