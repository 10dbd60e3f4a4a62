// =============================================================================
// RSS Export Tool - gSSURGO Schema Catalog
// =============================================================================
//
// The RSS tabular schema is not hard coded: every NASIS export carries its
// own data dictionary in mstab.txt (one row per table) and mstabcol.txt
// (one row per column). This module parses those two files into TableDef
// values that drive table creation and row import in the store package.
//
// The column order of a text file is the colsequence order of its table,
// so TableDef keeps columns sorted by sequence.
//
// =============================================================================

package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/soildev/rsstool/internal/tabular"
)

// Positions of the fields we read from mstab.txt and mstabcol.txt.
// These are fixed by the SSURGO metadata table layout.
const (
	mstabPhysName = 0
	mstabLabel    = 2
	mstabTextFile = 4

	mstabcolTable    = 0
	mstabcolSequence = 1
	mstabcolName     = 2
	mstabcolLogType  = 5
	mstabcolSize     = 7
)

// ColumnDef describes one column of a tabular table.
type ColumnDef struct {
	Sequence int
	Name     string
	// LogicalType is the SSURGO logical data type, e.g. "String",
	// "Integer", "Float", "Date/Time", "Boolean", "Narrative Text".
	LogicalType string
	// Size is the declared field size; 0 when not given.
	Size int
}

// TableDef describes one tabular table from the export's data dictionary.
type TableDef struct {
	// PhysName is the table physical name, e.g. "chorizon".
	PhysName string
	// TextFile is the base name of the pipe delimited file holding the
	// table's rows, e.g. "chorizon" -> chorizon.txt.
	TextFile string
	// Label is the human readable table label.
	Label string
	// Columns are held in colsequence order.
	Columns []ColumnDef
}

// ColumnNames returns the column names in sequence order.
func (t *TableDef) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Catalog is the parsed data dictionary of one NASIS export, keyed by
// table physical name.
type Catalog map[string]*TableDef

// ParseCatalog reads mstab.txt and mstabcol.txt from the tabular input
// folder and assembles the table catalog. A catalog with fewer than
// MinTableCount tables indicates a truncated export.
func ParseCatalog(inputDir string) (Catalog, error) {
	cat := Catalog{}

	mstab := filepath.Join(inputDir, "mstab.txt")
	if _, err := os.Stat(mstab); err != nil {
		return nil, fmt.Errorf("%s does not exist", mstab)
	}
	rows, err := tabular.ReadFile(mstab)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", mstab, err)
	}
	for _, row := range rows {
		if len(row) <= mstabTextFile {
			return nil, fmt.Errorf("mstab.txt: short row %q", row)
		}
		cat[row[mstabPhysName]] = &TableDef{
			PhysName: row[mstabPhysName],
			Label:    row[mstabLabel],
			TextFile: row[mstabTextFile],
		}
	}

	mstabcol := filepath.Join(inputDir, "mstabcol.txt")
	if _, err := os.Stat(mstabcol); err != nil {
		return nil, fmt.Errorf("%s does not exist", mstabcol)
	}
	rows, err = tabular.ReadFile(mstabcol)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", mstabcol, err)
	}
	for _, row := range rows {
		if len(row) <= mstabcolName {
			return nil, fmt.Errorf("mstabcol.txt: short row %q", row)
		}
		def, ok := cat[row[mstabcolTable]]
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(row[mstabcolSequence])
		if err != nil {
			return nil, fmt.Errorf("mstabcol.txt: bad colsequence %q for %s", row[mstabcolSequence], row[mstabcolTable])
		}
		col := ColumnDef{Sequence: seq, Name: row[mstabcolName]}
		if len(row) > mstabcolLogType {
			col.LogicalType = row[mstabcolLogType]
		}
		if len(row) > mstabcolSize && row[mstabcolSize] != "" {
			if n, err := strconv.Atoi(row[mstabcolSize]); err == nil {
				col.Size = n
			}
		}
		def.Columns = append(def.Columns, col)
	}

	for _, def := range cat {
		sort.Slice(def.Columns, func(i, j int) bool {
			return def.Columns[i].Sequence < def.Columns[j].Sequence
		})
	}

	return cat, nil
}

// MinTableCount is the least number of tabular tables a complete export
// carries. There are 75 tables in the template, 6 of them spatial.
const MinTableCount = 69

// SQLType maps a SSURGO logical data type to a SQLite column type.
func SQLType(logical string) string {
	switch logical {
	case "Integer", "Boolean", "Choice":
		return "INTEGER"
	case "Float":
		return "REAL"
	case "Date/Time":
		return "TIMESTAMP"
	default:
		// String, Narrative Text, Vtext and anything unrecognized.
		return "TEXT"
	}
}

// Import groups. Tables not named here but present in the catalog are
// created empty; the spatial feature tables of the template never appear
// in an RSS database.

// CommonTables are identical in every survey area export and are
// imported once, rows taken as-is.
var CommonTables = []string{
	"mdstattabcols", "mdstatrshipdet", "mdstattabs", "mdstatrshipmas",
	"mdstatdommas", "mdstatidxmas", "mdstatidxdet", "mdstatdomdet",
	"sdvfolder", "sdvalgorithm",
}

// SetTables are largely identical between survey areas but a state may
// carry rows unique to its surveys.
var SetTables = []string{"distinterpmd", "sdvattribute", "sdvfolderattribute"}

// UniqueTables hold information unique to each survey area.
var UniqueTables = []string{
	"component", "cosurfmorphhpp", "legend", "chunified", "cocropyld",
	"chtexturegrp", "cosurfmorphss", "coforprod", "sacatalog",
	"cosurfmorphgc", "cotaxmoistcl", "chtext", "chconsistence",
	"chtexture", "copmgrp", "cosoilmoist", "mucropyld", "chtexturemod",
	"cotext", "coecoclass", "cosurfmorphmr", "cosurffrags",
	"cotreestomng", "cosoiltemp", "sainterp", "chstructgrp",
	"distlegendmd", "copwindbreak", "chdesgnsuffix", "corestrictions",
	"cotaxfmmin", "chstruct", "chfrags", "coforprodo", "distmd",
	"mutext", "legendtext", "muaggatt", "chorizon", "cohydriccriteria",
	"chpores", "chaashto", "coerosionacc", "copm", "comonth",
	"muaoverlap", "cotxfmother", "mapunit", "coeplants", "laoverlap",
	"cogeomordesc", "codiagfeatures", "cocanopycover", "cointerp",
}

// Months populate the fixed month lookup table.
var Months = []struct {
	Seq  int
	Name string
}{
	{1, "January"}, {2, "February"}, {3, "March"}, {4, "April"},
	{5, "May"}, {6, "June"}, {7, "July"}, {8, "August"},
	{9, "September"}, {10, "October"}, {11, "November"}, {12, "December"},
}
