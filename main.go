// =============================================================================
// RSS Export Tool - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Raster Soil Survey (RSS) export tool.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   rsstool create        - Build the full RSS package for one state
//   rsstool build         - Build the RSS tabular database from NASIS exports
//   rsstool raster        - Import the map unit raster into an RSS database
//   rsstool export        - Write the open (SSURGO download) package
//   rsstool validate      - Validate a finished RSS state package
//   rsstool version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core build, import, export and validation logic
//   - pkg/           : Shared file utilities
//
// FGDC metadata templates are embedded; a templates directory supplied
// through the config overrides them, along with the schema revision
// workbooks.
//
// =============================================================================

package main

import (
	"fmt"
	"os"

	"github.com/soildev/rsstool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
