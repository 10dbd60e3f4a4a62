// =============================================================================
// RSS Export Tool - Version Table and Survey Summary
// =============================================================================

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/soildev/rsstool/internal/schema"
)

// WriteVersion creates the version table, one row per component of the
// build: data source, data model, environment, database and tool.
func (s *Store) WriteVersion(inputDir, toolVersion string) error {
	ssurgoV := "NA"
	if data, err := os.ReadFile(filepath.Join(inputDir, "version.txt")); err == nil {
		if v := strings.TrimSpace(strings.SplitN(string(data), "|", 2)[0]); v != "" {
			ssurgoV = strings.Trim(v, `"`)
		}
	}
	template := "1.0"
	if s.version == schema.Template20 {
		template = "2.0"
	}

	rows := []map[string]interface{}{
		{"type": "Data Source", "name": "SSURGO", "version": ssurgoV},
		{"type": "Data Model", "name": "gSSURGO", "version": template},
		{"type": "Operating System", "name": runtime.GOOS, "version": runtime.GOARCH},
		{"type": "Programming language", "name": "Go", "version": runtime.Version()},
		{"type": "Database", "name": "SQLite", "version": "3"},
		{"type": "Script", "name": "rsstool: Create RSS package", "version": toolVersion},
		{"type": "Purpose", "name": "Raster Soil Survey", "version": "1.1"},
		{"type": "Abbreviation Level", "name": "cointerp", "version": "0.5"},
	}

	if err := s.db.Exec(`DROP TABLE IF EXISTS "version"`).Error; err != nil {
		return err
	}
	if err := s.db.Exec(`CREATE TABLE "version" (
		"type" TEXT, "name" TEXT, "version" TEXT)`).Error; err != nil {
		return fmt.Errorf("failed to create version table: %w", err)
	}
	if err := s.db.Table("version").Create(rows).Error; err != nil {
		return fmt.Errorf("insert into version: %w", err)
	}
	return nil
}

// SurveyList summarizes the imported survey areas for metadata, one entry
// per area in "NM007 (2022-09-08)" form, sorted by area symbol.
func (s *Store) SurveyList() ([]string, error) {
	type sa struct {
		Areasymbol string
		Saverest   string
	}
	var rows []sa
	err := s.db.Raw(
		`SELECT areasymbol, saverest FROM sacatalog ORDER BY areasymbol`,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read sacatalog: %w", err)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		// saverest carries a timestamp; keep the date part.
		date := r.Saverest
		if i := strings.IndexAny(date, " T"); i > 0 {
			date = date[:i]
		}
		out = append(out, fmt.Sprintf("%s (%s)", r.Areasymbol, date))
	}
	sort.Strings(out)
	return out, nil
}

// MapunitKeys returns the distinct map unit keys in the mapunit table.
func (s *Store) MapunitKeys() (map[string]bool, error) {
	vals, err := s.DistinctStrings("mapunit", "mukey")
	if err != nil {
		return nil, err
	}
	keys := make(map[string]bool, len(vals))
	for _, v := range vals {
		keys[v] = true
	}
	return keys, nil
}

// LegendStates returns the distinct state prefixes of the legend's area
// symbols, e.g. "NM" from "NM007".
func (s *Store) LegendStates() ([]string, error) {
	vals, err := s.DistinctStrings("legend", "areasymbol")
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var states []string
	for _, v := range vals {
		if len(v) < 2 {
			continue
		}
		st := strings.ToUpper(v[:2])
		if !seen[st] {
			seen[st] = true
			states = append(states, st)
		}
	}
	sort.Strings(states)
	return states, nil
}
