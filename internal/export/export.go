// =============================================================================
// RSS Export Tool - Flat File Package Export
// =============================================================================
//
// The open distribution format of a raster soil survey mirrors the
// SSURGO download layout: a RSS_<ST> directory with the raster and its
// metadata under spatial/ and the pipe delimited text tables under
// tabular/, plus a README at the delivery top level next to RSS_<ST>.
//
// =============================================================================

package export

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soildev/rsstool/internal/metadata"
	"github.com/soildev/rsstool/internal/schema"
	"github.com/soildev/rsstool/pkg/utils"
)

// Options configures one export run.
type Options struct {
	InputDir     string // NASIS text export, source of the tabular files
	RasterPath   string // built package raster (GeoTIFF)
	OutputDir    string // where RSS_<ST> is created
	State        string
	TemplatesDir string
	Meta         metadata.Fields
	Overwrite    bool
	Verbose      bool
}

// Run builds the flat file package and returns its path.
func Run(opts Options) (string, error) {
	pkgDir := filepath.Join(opts.OutputDir, "RSS_"+opts.State)
	if utils.DirExists(pkgDir) {
		if !opts.Overwrite {
			return "", fmt.Errorf("package already exists: %s", pkgDir)
		}
		if err := os.RemoveAll(pkgDir); err != nil {
			return "", fmt.Errorf("failed to remove existing package: %w", err)
		}
	}

	if err := copyTabular(opts, filepath.Join(pkgDir, "tabular")); err != nil {
		return "", err
	}
	if err := copySpatial(opts, filepath.Join(pkgDir, "spatial")); err != nil {
		return "", err
	}
	if err := writeReadme(opts); err != nil {
		return "", err
	}
	if opts.Verbose {
		log.Printf("exported %s", pkgDir)
	}
	return pkgDir, nil
}

// copyTabular carries the export's text tables over unchanged, README
// included when the input has one. Extra files are reported and skipped
// so the package inventory stays exact; required files not found are
// listed but do not stop the export, the validator flags them.
func copyTabular(opts Options, dst string) error {
	required := map[string]bool{}
	for _, name := range schema.RequiredTextFiles {
		required[name] = true
	}

	names, err := utils.ListFileNames(opts.InputDir)
	if err != nil {
		return err
	}
	present := map[string]bool{}
	for _, name := range names {
		if !required[name] {
			if strings.HasSuffix(name, ".txt") {
				log.Printf("skipping unexpected file %s", name)
			}
			continue
		}
		present[name] = true
		if err := utils.CopyFile(
			filepath.Join(opts.InputDir, name),
			filepath.Join(dst, name)); err != nil {
			return err
		}
	}
	var missing []string
	for name := range required {
		if !present[name] && name != "README.txt" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		log.Printf("input is missing %d required text files: %s",
			len(missing), strings.Join(missing, ", "))
	}
	return nil
}

// copySpatial places the raster and its metadata sidecar.
func copySpatial(opts Options, dst string) error {
	if !utils.FileExists(opts.RasterPath) {
		return fmt.Errorf("raster not found: %s", opts.RasterPath)
	}
	base := filepath.Base(opts.RasterPath)
	if err := utils.CopyFile(opts.RasterPath, filepath.Join(dst, base)); err != nil {
		return err
	}

	sidecar := opts.RasterPath + ".xml"
	if utils.FileExists(sidecar) {
		return utils.CopyFile(sidecar, filepath.Join(dst, base+".xml"))
	}
	// No sidecar from the raster import; render one fresh.
	return metadata.Write(opts.TemplatesDir, metadata.RasterTemplate,
		filepath.Join(dst, base+".xml"), opts.Meta)
}

// writeReadme places the delivery level README next to RSS_<ST>, where
// the publication checklist looks for it: the export's own README when
// present, a short generated one otherwise.
func writeReadme(opts Options) error {
	dst := filepath.Join(opts.OutputDir, "README.txt")
	src := filepath.Join(opts.InputDir, "README.txt")
	if utils.FileExists(src) {
		return utils.CopyFile(src, dst)
	}
	body := fmt.Sprintf(
		"Raster Soil Survey for %s, fiscal year %d.\n\n"+
			"spatial/  map unit raster (%s) and FGDC metadata\n"+
			"tabular/  pipe delimited attribute tables\n\n"+
			"Cell values are map unit keys joining to mapunit.mukey.\n",
		opts.Meta.State, opts.Meta.FiscalYear, opts.Meta.RasterName)
	return os.WriteFile(dst, []byte(body), 0o644)
}
