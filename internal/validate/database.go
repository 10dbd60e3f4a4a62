// =============================================================================
// RSS Export Tool - Database Checks
// =============================================================================

package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soildev/rsstool/internal/schema"
	"github.com/soildev/rsstool/internal/store"
	"github.com/soildev/rsstool/pkg/utils"
)

// Tables beyond the fixed inventory a database may legitimately carry:
// the 2.0 interpretation metadata tables and the relationship catalog.
var allowedExtraTables = map[string]bool{
	"mdrule": true, "mdinterp": true, "mdruleclass": true,
	"relationship": true,
}

// checkDatabase validates the RSS_<ST>.db directory: its raster passes
// the same checks as the open package's, the table inventory matches the
// template, and the database's mapunit keys agree with its raster.
func (v *Validator) checkDatabase(dbDir string, res *Result) {
	tifPath := v.checkSpatial(dbDir, res, "database")

	st, err := store.Open(dbDir)
	if err != nil {
		res.fail("database tables", err.Error())
		return
	}
	defer st.Close()

	v.checkTableInventory(st, res)

	if tifPath == "" {
		return
	}
	keys, err := st.MapunitKeys()
	if err != nil {
		res.fail("database mukey set", err.Error())
		return
	}
	v.checkKeys(tifPath, keys, "database mukey set", res)
}

// checkTableInventory compares the live table list against the fixed
// gSSURGO set.
func (v *Validator) checkTableInventory(st *store.Store, res *Result) {
	names, err := st.TableNames()
	if err != nil {
		res.fail("database tables", err.Error())
		return
	}
	present := map[string]bool{}
	var extras []string
	for _, n := range names {
		key := strings.ToLower(n)
		switch {
		case schema.DatabaseTables[key]:
			present[key] = true
		case allowedExtraTables[key]:
		default:
			extras = append(extras, n)
		}
	}
	var missing []string
	for n := range schema.DatabaseTables {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	sort.Strings(extras)
	switch {
	case len(missing) > 0:
		res.fail("database tables", "missing: "+strings.Join(missing, ", "))
	case len(extras) > 0:
		res.fail("database tables", "unexpected: "+strings.Join(extras, ", "))
	default:
		res.pass("database tables", fmt.Sprintf("%d tables", len(present)))
	}
}

// listEntries returns every name directly under dir, files and
// directories alike.
func listEntries(dir string) ([]string, error) {
	files, err := utils.ListFileNames(dir)
	if err != nil {
		return nil, err
	}
	dirs, err := utils.ListDirNames(dir)
	if err != nil {
		return nil, err
	}
	all := append(files, dirs...)
	sort.Strings(all)
	return all, nil
}
