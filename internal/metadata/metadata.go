// =============================================================================
// RSS Export Tool - FGDC Metadata
// =============================================================================
//
// Package metadata renders the FGDC CSDGM records that accompany the
// database and the map unit raster. The records are plain XML templates
// carrying xx delimited tokens; rendering is a straight token
// substitution, matching how the templates are maintained.
//
// Custom templates in the configured templates directory override the
// embedded ones.
//
// =============================================================================

package metadata

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"
)

var tokenPattern = regexp.MustCompile(`xx[A-Z]+xx`)

//go:embed templates/*.xml
var templates embed.FS

// Template names, resolvable against the templates directory or the
// embedded copies.
const (
	DatabaseTemplate = "rss_database.xml"
	RasterTemplate   = "rss_classraster.xml"
)

// Fields holds the values substituted into a metadata template.
type Fields struct {
	State       string    // spelled out state or territory name
	FiscalYear  int       // publication fiscal year
	Surveys     []string  // survey areas, "NM007 (2022-09-08)" form
	RasterName  string    // e.g. MURASTER_10m_NM_2026
	Database    string    // package database directory name
	Resolution  string    // cell size description, e.g. "10 meter"
	ToolVersion string    // builder version string
	Today       time.Time // generation date; zero means now
}

// token pairs for one render.
func (f Fields) replacer() *strings.Replacer {
	today := f.Today
	if today.IsZero() {
		today = time.Now()
	}
	return strings.NewReplacer(
		"xxSTATExx", f.State,
		"xxFYxx", fmt.Sprintf("%d", f.FiscalYear),
		"xxTODAYxx", today.Format("20060102"),
		"xxSURVEYSxx", strings.Join(f.Surveys, ", "),
		"xxNAMExx", f.RasterName,
		"xxDBxx", f.Database,
		"xxRESxx", f.Resolution,
		"xxVERxx", f.ToolVersion,
		"xxTOOLxx", "rsstool "+f.ToolVersion,
		"xxENVxx", runtime.GOOS+"/"+runtime.GOARCH,
	)
}

// Render loads a template, preferring a copy in templatesDir over the
// embedded one, and substitutes the field tokens.
func Render(templatesDir, name string, f Fields) (string, error) {
	var raw []byte
	var err error
	if templatesDir != "" {
		if data, rerr := os.ReadFile(filepath.Join(templatesDir, name)); rerr == nil {
			raw = data
		}
	}
	if raw == nil {
		raw, err = templates.ReadFile("templates/" + name)
		if err != nil {
			return "", fmt.Errorf("metadata template %s: %w", name, err)
		}
	}
	out := f.replacer().Replace(string(raw))
	if tok := tokenPattern.FindString(out); tok != "" {
		return "", fmt.Errorf("metadata template %s: unresolved token %s", name, tok)
	}
	return out, nil
}

// Write renders a template next to its target, e.g. the raster's .tif.xml
// sidecar or the database level record.
func Write(templatesDir, name, outPath string, f Fields) error {
	out, err := Render(templatesDir, name, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write metadata %s: %w", outPath, err)
	}
	return nil
}
