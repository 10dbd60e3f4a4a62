// =============================================================================
// RSS Export Tool - Build Pipeline
// =============================================================================
//
// Shared steps behind the create, build, raster and export commands.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/soildev/rsstool/internal/config"
	"github.com/soildev/rsstool/internal/metadata"
	"github.com/soildev/rsstool/internal/schema"
	"github.com/soildev/rsstool/internal/store"
)

// checkState verifies the state code against the accepted list and, when
// a built database is at hand, that its legend actually covers the state.
func checkState(cfg *config.Config) error {
	cfg.State = strings.ToUpper(cfg.State)
	if !schema.ValidStates[cfg.State] {
		return fmt.Errorf("unrecognized state or territory code %q", cfg.State)
	}
	return nil
}

// buildDatabase runs the tabular half of a package build: schema from
// the export's data dictionary, text file import, interpretation
// restructuring, relationships, indexes, version table and database
// metadata. Returns the survey list for downstream metadata.
func buildDatabase(cfg *config.Config) ([]string, error) {
	if cfg.InputDir == "" {
		return nil, fmt.Errorf("input directory is required")
	}
	tv := schema.ParseTemplateVersion(cfg.Template)

	cat, err := schema.ParseCatalog(cfg.InputDir)
	if err != nil {
		return nil, err
	}
	if len(cat) < schema.MinTableCount {
		return nil, fmt.Errorf("data dictionary lists %d tables, want at least %d; truncated export?",
			len(cat), schema.MinTableCount)
	}
	rev, err := schema.LoadRevisions(cfg.TemplatesDir, tv)
	if err != nil {
		return nil, err
	}

	dbDir := cfg.DatabaseDir()
	st, err := store.Create(dbDir, cat, rev, tv, cfg.Overwrite, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if cfg.Verbose {
		log.Printf("importing text files from %s", cfg.InputDir)
	}
	if err := st.ImportTextFiles(cfg.InputDir); err != nil {
		return nil, err
	}
	if err := st.CreateIndices(); err != nil {
		return nil, err
	}
	if err := st.CreateRelationships(); err != nil {
		return nil, err
	}
	if err := st.WriteVersion(cfg.InputDir, cfg.ToolVersion); err != nil {
		return nil, err
	}

	// The legend must cover the state being packaged.
	states, err := st.LegendStates()
	if err != nil {
		return nil, err
	}
	covered := false
	for _, s := range states {
		if s == cfg.State {
			covered = true
			break
		}
	}
	if !covered && cfg.State != "US" && cfg.State != "MX" {
		return nil, fmt.Errorf("export legend covers %s, not %s",
			strings.Join(states, ", "), cfg.State)
	}

	surveys, err := st.SurveyList()
	if err != nil {
		return nil, err
	}
	if err := metadata.Write(cfg.TemplatesDir, metadata.DatabaseTemplate,
		filepath.Join(dbDir, cfg.PackageName()+".xml"),
		metaFields(cfg, surveys)); err != nil {
		return nil, err
	}
	return surveys, nil
}

// metaFields assembles the token values for metadata rendering.
func metaFields(cfg *config.Config, surveys []string) metadata.Fields {
	return metadata.Fields{
		State:       schema.StateName(cfg.State),
		FiscalYear:  cfg.FiscalYear,
		Surveys:     surveys,
		RasterName:  cfg.RasterName(),
		Database:    cfg.PackageName() + ".db",
		Resolution:  "10 meter",
		ToolVersion: cfg.ToolVersion,
	}
}

// surveysFromDatabase reloads the survey list from an already built
// database, for commands run standalone.
func surveysFromDatabase(dbDir string) []string {
	st, err := store.Open(dbDir)
	if err != nil {
		return nil
	}
	defer st.Close()
	surveys, err := st.SurveyList()
	if err != nil {
		return nil
	}
	return surveys
}
