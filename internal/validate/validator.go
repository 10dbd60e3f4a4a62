// =============================================================================
// RSS Export Tool - Package Validation
// =============================================================================
//
// The validator runs a finished package through the publication
// checklist: directory layout, raster naming and properties, tabular
// file inventory, database table inventory, and map unit key agreement
// between the rasters and the mapunit tables. Every check lands in the
// package's log file; any hard failure marks the package rejected.
//
// =============================================================================

package validate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/soildev/rsstool/internal/raster"
	"github.com/soildev/rsstool/internal/schema"
	"github.com/soildev/rsstool/pkg/utils"
)

// Check is one checklist item outcome.
type Check struct {
	Name   string
	Passed bool
	Hard   bool // a failed hard check rejects the package
	Detail string
}

// Result collects the outcome of one validation run.
type Result struct {
	State   string
	Year    int
	Checks  []Check
	LogPath string
}

// Passed reports whether no hard check failed.
func (r *Result) Passed() bool {
	for _, c := range r.Checks {
		if c.Hard && !c.Passed {
			return false
		}
	}
	return true
}

// Code is the run's outcome token: the bare state code on success, the
// state code with a trailing underscore on rejection.
func (r *Result) Code() string {
	if r.Passed() {
		return r.State
	}
	return r.State + "_"
}

func (r *Result) pass(name, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: true, Hard: true, Detail: detail})
}

func (r *Result) fail(name, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Hard: true, Detail: detail})
}

func (r *Result) warn(name, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Detail: detail})
}

// Validator checks packages. Inspector is swappable so layout and
// inventory logic is testable without GDAL.
type Validator struct {
	Inspector raster.Inspector
	Now       time.Time // zero means wall clock
}

// New returns a validator backed by GDAL.
func New() *Validator {
	return &Validator{Inspector: raster.NewInspector()}
}

func (v *Validator) year() int {
	if !v.Now.IsZero() {
		return v.Now.Year()
	}
	return time.Now().Year()
}

// ValidatePackage checks one package directory and writes its log file
// into that directory. The returned error covers only inability to run;
// checklist failures are reported through the Result.
func (v *Validator) ValidatePackage(dir string) (*Result, error) {
	res := &Result{}

	dir, err := resolvePackageDir(dir)
	if err != nil {
		return nil, err
	}

	st, ok := findState(dir)
	if !ok {
		return nil, fmt.Errorf("no RSS_<state> directory under %s", dir)
	}
	res.State = st
	if !schema.ValidStates[st] {
		res.fail("state code", fmt.Sprintf("unrecognized state code %q", st))
	} else {
		res.pass("state code", st)
	}

	v.checkTopLevel(dir, res)

	openDir := filepath.Join(dir, "RSS_"+st)
	if utils.DirExists(openDir) {
		v.checkOpenPackage(openDir, res)
	} else {
		res.fail("open package", "RSS_"+st+" directory missing")
	}

	dbDir := filepath.Join(dir, "RSS_"+st+".db")
	if utils.DirExists(dbDir) {
		v.checkDatabase(dbDir, res)
	} else {
		res.fail("database", "RSS_"+st+".db directory missing")
	}

	if err := v.writeLog(dir, res); err != nil {
		return res, err
	}
	return res, nil
}

// resolvePackageDir descends through a double bagged layout, where the
// delivered directory holds nothing but one directory of the same
// purpose.
func resolvePackageDir(dir string) (string, error) {
	for {
		if _, ok := findState(dir); ok {
			return dir, nil
		}
		subs, err := utils.ListDirNames(dir)
		if err != nil {
			return "", err
		}
		if len(subs) != 1 {
			return dir, nil
		}
		dir = filepath.Join(dir, subs[0])
	}
}

// findState locates the RSS_<ST> open package directory and extracts the
// state code.
func findState(dir string) (string, bool) {
	subs, err := utils.ListDirNames(dir)
	if err != nil {
		return "", false
	}
	for _, name := range subs {
		if strings.HasPrefix(name, "RSS_") && !strings.HasSuffix(name, ".db") {
			return strings.TrimPrefix(name, "RSS_"), true
		}
	}
	return "", false
}

// checkTopLevel verifies the delivery directory holds exactly the open
// package, the database, and a README. Zip archives ride along in some
// deliveries and are ignored; a missing README is only a warning.
func (v *Validator) checkTopLevel(dir string, res *Result) {
	expected := map[string]bool{
		"RSS_" + res.State:         true,
		"RSS_" + res.State + ".db": true,
	}
	entries, err := listEntries(dir)
	if err != nil {
		res.fail("top level layout", err.Error())
		return
	}
	sawReadme := false
	var extras []string
	for _, name := range entries {
		switch {
		case expected[name]:
		case name == "README.txt":
			sawReadme = true
		case strings.HasSuffix(strings.ToLower(name), ".zip"):
		case strings.HasPrefix(name, "log_") && strings.HasSuffix(name, ".log"):
		default:
			extras = append(extras, name)
		}
	}
	if len(extras) > 0 {
		sort.Strings(extras)
		res.fail("top level layout", "unexpected entries: "+strings.Join(extras, ", "))
	} else {
		res.pass("top level layout", "RSS_"+res.State+", RSS_"+res.State+".db")
	}
	if !sawReadme {
		res.warn("top level README", "README.txt not present")
	} else {
		res.pass("top level README", "README.txt present")
	}
}

// checkOpenPackage covers the flat export: spatial and tabular layout,
// raster name and properties, text inventory, key agreement.
func (v *Validator) checkOpenPackage(openDir string, res *Result) {
	subs, _ := utils.ListDirNames(openDir)
	sort.Strings(subs)
	if len(subs) != 2 || subs[0] != "spatial" || subs[1] != "tabular" {
		res.fail("open package layout",
			fmt.Sprintf("want spatial and tabular, found: %s", strings.Join(subs, ", ")))
		return
	}
	res.pass("open package layout", "spatial, tabular")

	tifPath := v.checkSpatial(filepath.Join(openDir, "spatial"), res, "open package")
	v.checkTabular(filepath.Join(openDir, "tabular"), res)

	if tifPath != "" {
		mapunit := filepath.Join(openDir, "tabular", "mapunit.txt")
		v.checkKeys(tifPath, keysFromMapunitFile(mapunit), "open package mukey set", res)
	}
}

// checkSpatial validates the raster directory: exactly one tif, named
// MURASTER_10m_<ST>_<FY>.tif with a current fiscal year, with a metadata
// sidecar, passing the raster property checks. Returns the tif path, or
// empty when naming failed.
func (v *Validator) checkSpatial(dir string, res *Result, scope string) string {
	names, err := utils.ListFileNames(dir)
	if err != nil {
		res.fail(scope+" spatial", err.Error())
		return ""
	}
	var tifs []string
	for _, n := range names {
		if strings.HasSuffix(strings.ToLower(n), ".tif") {
			tifs = append(tifs, n)
		}
	}
	if len(tifs) != 1 {
		res.fail(scope+" spatial", fmt.Sprintf("want exactly one .tif, found %d", len(tifs)))
		return ""
	}
	tif := tifs[0]

	if st, fy, ok := parseRasterName(tif); !ok {
		res.fail(scope+" raster name", tif)
	} else {
		switch {
		case st != res.State:
			res.fail(scope+" raster name",
				fmt.Sprintf("%s: state %s does not match package %s", tif, st, res.State))
		case fy < v.year()-1 || fy > v.year()+1:
			res.fail(scope+" raster name",
				fmt.Sprintf("%s: fiscal year %d outside %d-%d", tif, fy, v.year()-1, v.year()+1))
		default:
			res.Year = fy
			res.pass(scope+" raster name", tif)
		}
	}

	path := filepath.Join(dir, tif)
	if utils.FileExists(path + ".xml") {
		res.pass(scope+" raster metadata", tif+".xml")
	} else {
		res.fail(scope+" raster metadata", tif+".xml missing")
	}

	v.checkRasterProperties(path, scope, res)
	return path
}

// parseRasterName splits MURASTER_10m_<ST>_<FY>.tif.
func parseRasterName(name string) (state string, year int, ok bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) != 4 || parts[0] != "MURASTER" || parts[1] != "10m" {
		return "", 0, false
	}
	year, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, false
	}
	return parts[2], year, true
}

// checkTabular compares the text file inventory against the fixed list.
func (v *Validator) checkTabular(dir string, res *Result) {
	names, err := utils.ListFileNames(dir)
	if err != nil {
		res.fail("tabular inventory", err.Error())
		return
	}
	required := map[string]bool{}
	for _, n := range schema.RequiredTextFiles {
		if n != "README.txt" {
			required[n] = true
		}
	}
	present := map[string]bool{}
	var extras []string
	for _, n := range names {
		if required[n] {
			present[n] = true
		} else if n != "README.txt" {
			extras = append(extras, n)
		}
	}
	var missing []string
	for n := range required {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	sort.Strings(extras)
	switch {
	case len(missing) > 0:
		res.fail("tabular inventory", "missing: "+strings.Join(missing, ", "))
	case len(extras) > 0:
		res.fail("tabular inventory", "unexpected: "+strings.Join(extras, ", "))
	default:
		res.pass("tabular inventory", fmt.Sprintf("%d files", len(present)))
	}
}
