// =============================================================================
// RSS Export Tool - Validate Command
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soildev/rsstool/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <package-dir>",
	Short: "Validate a finished RSS state package",
	Long: `Validate runs one package directory through the publication
checklist and writes log_<ST>.log into it. The printed result token is
the state code on success, the state code with a trailing underscore on
rejection.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := validate.New().ValidatePackage(args[0])
		if err != nil {
			return err
		}
		hard, warnings := 0, 0
		for _, c := range res.Checks {
			if !c.Passed {
				if c.Hard {
					hard++
				} else {
					warnings++
				}
			}
		}
		fmt.Printf("%s\n", res.Code())
		if verbose || hard > 0 {
			fmt.Printf("%d checks, %d hard failures, %d warnings (log: %s)\n",
				len(res.Checks), hard, warnings, res.LogPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
