// =============================================================================
// RSS Export Tool - Schema Revision Definitions
// =============================================================================
//
// gSSURGO 2.0 restructures the interpretation tables: cointerp is slimmed
// down, sainterp is rekeyed, and three metadata tables (mdrule, mdinterp,
// mdruleclass) are added. The concrete changes are data, not code: lists
// of table inserts, column updates and inserts, index deletes and
// inserts, and the seed set of interpretation rule classes.
//
// Revision definitions live in the templates directory either as a
// workbook (gssurgo_revisions<v>.xlsx, one sheet per list) or as the
// md_*<v>.csv file set. When neither is present the embedded defaults
// for version 2.0 are used.
//
// =============================================================================

package schema

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TemplateVersion identifies the gSSURGO template a database is built to.
type TemplateVersion string

const (
	Template10 TemplateVersion = "1.0"
	Template20 TemplateVersion = "2.0"
)

// ParseTemplateVersion normalizes the user facing template picker value.
// Anything that is not recognizably 2.0 builds a 1.0 database.
func ParseTemplateVersion(s string) TemplateVersion {
	if strings.Contains(s, "2.0") {
		return Template20
	}
	return Template10
}

// TableInsert is one new mdstattabs row (a table added by the revision).
type TableInsert struct {
	PhysName string
	LogName  string
	Label    string
}

// ColumnUpdate changes or deletes one mdstattabcols row. A Type of
// "delete" removes the column.
type ColumnUpdate struct {
	Table    string
	Column   string
	Type     string
	Size     string
	Sequence string
}

// Delete reports whether the update removes the column.
func (u ColumnUpdate) Delete() bool {
	return strings.EqualFold(u.Type, "delete")
}

// ColumnInsert is one new mdstattabcols row.
type ColumnInsert struct {
	Table    string
	Sequence string
	Column   string
	LogType  string
	Size     string
}

// IndexDelete removes an obsolete index by table and column.
type IndexDelete struct {
	Table  string
	Column string
}

// IndexDef is one attribute index to create.
type IndexDef struct {
	Table  string
	Name   string
	Seq    string
	Column string
	Unique bool
}

// RuleClass is one interpretation rating class with its assigned key.
type RuleClass struct {
	Text string
	Key  int
}

// Revisions is the full change set applied for a template version.
type Revisions struct {
	Tables        []TableInsert
	ColumnUpdates []ColumnUpdate
	ColumnInserts []ColumnInsert
	IndexDeletes  []IndexDelete
	IndexInserts  []IndexDef
	RuleClasses   []RuleClass
}

// workbook sheet names, also the stems of the csv fallback files.
var revisionSheets = []string{
	"Tables", "ColumnUpdates", "ColumnInserts",
	"IndexDeletes", "IndexInserts", "RuleClasses",
}

var revisionCSVs = map[string]string{
	"Tables":        "md_tables_insert",
	"ColumnUpdates": "md_column_update",
	"ColumnInserts": "md_column_insert",
	"IndexDeletes":  "md_index_delete",
	"IndexInserts":  "md_index_insert",
	"RuleClasses":   "md_rule_classes",
}

// LoadRevisions resolves the revision set for a template version from the
// templates directory. Missing definitions fall back to the embedded
// defaults; version 1.0 only carries its index list.
func LoadRevisions(templatesDir string, v TemplateVersion) (*Revisions, error) {
	suffix := "1"
	if v == Template20 {
		suffix = "2"
	}

	wb := filepath.Join(templatesDir, "gssurgo_revisions"+suffix+".xlsx")
	if _, err := os.Stat(wb); err == nil {
		return loadWorkbook(wb)
	}

	rev := &Revisions{}
	found := false
	for sheet, stem := range revisionCSVs {
		p := filepath.Join(templatesDir, stem+suffix+".csv")
		rows, err := readCSV(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		found = true
		if err := rev.apply(sheet, rows); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if !found {
		if v == Template20 {
			return defaultRevisions20(), nil
		}
		return defaultRevisions10(), nil
	}
	return rev, nil
}

// loadWorkbook parses a revision workbook, one sheet per list, first row
// a header.
func loadWorkbook(path string) (*Revisions, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rev := &Revisions{}
	for _, sheet := range revisionSheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			// Sheets are optional; an absent sheet contributes nothing.
			continue
		}
		if len(rows) > 1 {
			if err := rev.apply(sheet, rows[1:]); err != nil {
				return nil, fmt.Errorf("%s sheet %s: %w", path, sheet, err)
			}
		}
	}
	return rev, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) > 0 {
		rows = rows[1:] // header
	}
	return rows, nil
}

func (rev *Revisions) apply(sheet string, rows [][]string) error {
	get := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	for _, row := range rows {
		if len(row) == 0 || get(row, 0) == "" {
			continue
		}
		switch sheet {
		case "Tables":
			rev.Tables = append(rev.Tables, TableInsert{
				PhysName: get(row, 0), LogName: get(row, 1), Label: get(row, 2),
			})
		case "ColumnUpdates":
			if len(row) < 5 {
				return fmt.Errorf("column update row too short: %q", row)
			}
			rev.ColumnUpdates = append(rev.ColumnUpdates, ColumnUpdate{
				Table: get(row, 0), Column: get(row, 1),
				Type: get(row, 4), Size: get(row, 5), Sequence: get(row, 6),
			})
		case "ColumnInserts":
			if len(row) < 4 {
				return fmt.Errorf("column insert row too short: %q", row)
			}
			rev.ColumnInserts = append(rev.ColumnInserts, ColumnInsert{
				Table: get(row, 0), Sequence: get(row, 1), Column: get(row, 2),
				LogType: get(row, 3), Size: get(row, 4),
			})
		case "IndexDeletes":
			rev.IndexDeletes = append(rev.IndexDeletes, IndexDelete{
				Table: get(row, 0), Column: get(row, 1),
			})
		case "IndexInserts":
			if len(row) < 5 {
				return fmt.Errorf("index row too short: %q", row)
			}
			rev.IndexInserts = append(rev.IndexInserts, IndexDef{
				Table: get(row, 0), Name: get(row, 1), Seq: get(row, 2),
				Column: get(row, 3), Unique: strings.EqualFold(get(row, 4), "yes"),
			})
		case "RuleClasses":
			key := 0
			fmt.Sscanf(get(row, 1), "%d", &key)
			rev.RuleClasses = append(rev.RuleClasses, RuleClass{
				Text: get(row, 0), Key: key,
			})
		}
	}
	return nil
}

// cointerpDrops are the cointerp columns excluded from every template,
// the unused interpretation value and class pairs.
func cointerpDrops() []ColumnUpdate {
	var drops []ColumnUpdate
	for _, col := range []string{
		"interpll", "interpllc", "interplr", "interplrc",
		"interphh", "interphhc",
	} {
		drops = append(drops, ColumnUpdate{Table: "cointerp", Column: col, Type: "delete"})
	}
	return drops
}

// defaultRevisions10 drops the unused cointerp value pairs and carries
// the shared attribute index list.
func defaultRevisions10() *Revisions {
	return &Revisions{
		ColumnUpdates: cointerpDrops(),
		IndexInserts:  baseIndexes(),
	}
}

// defaultRevisions20 is the embedded 2.0 change set: the three new
// interpretation metadata tables, the slimmed cointerp shape, and the
// customary rating classes.
func defaultRevisions20() *Revisions {
	rev := &Revisions{
		Tables: []TableInsert{
			{"mdruleclass", "md.rule.class", "Rule Class Text Metadata"},
			{"mdrule", "md.rule", "Interpretation Rules Metadata"},
			{"mdinterp", "md.interp", "Interpretations Metadata"},
		},
		ColumnUpdates: append(cointerpDrops(),
			ColumnUpdate{Table: "cointerp", Column: "mrulekey", Type: "delete"},
			ColumnUpdate{Table: "cointerp", Column: "mrulename", Type: "delete"},
			ColumnUpdate{Table: "cointerp", Column: "seqnum", Type: "delete"},
			ColumnUpdate{Table: "cointerp", Column: "rulename", Type: "delete"},
			ColumnUpdate{Table: "cointerp", Column: "ruledepth", Type: "delete"},
			ColumnUpdate{Table: "cointerp", Column: "interphrc", Type: "Integer", Sequence: "2"},
			ColumnUpdate{Table: "cointerp", Column: "rulekey", Type: "Integer"},
			ColumnUpdate{Table: "sainterp", Column: "areasymbol", Type: "delete"},
			ColumnUpdate{Table: "sainterp", Column: "interpname", Type: "delete"},
			ColumnUpdate{Table: "sainterp", Column: "interptype", Type: "delete"},
			ColumnUpdate{Table: "sainterp", Column: "interpdesc", Type: "delete"},
			ColumnUpdate{Table: "sainterp", Column: "interpdesigndate", Type: "delete"},
			ColumnUpdate{Table: "sainterp", Column: "interpgendate", Type: "delete"},
			ColumnUpdate{Table: "sainterp", Column: "interpmaxreasons", Type: "delete"},
		),
		ColumnInserts: []ColumnInsert{
			{Table: "sainterp", Sequence: "1", Column: "interpkey", LogType: "Integer"},
			{Table: "mdruleclass", Sequence: "1", Column: "classtxt", LogType: "String", Size: "254"},
			{Table: "mdruleclass", Sequence: "2", Column: "classkey", LogType: "Integer"},
			{Table: "mdrule", Sequence: "1", Column: "rulename", LogType: "String", Size: "60"},
			{Table: "mdrule", Sequence: "2", Column: "ruledepth", LogType: "Integer"},
			{Table: "mdrule", Sequence: "3", Column: "seqnum", LogType: "Integer"},
			{Table: "mdrule", Sequence: "4", Column: "interpkey", LogType: "Integer"},
			{Table: "mdrule", Sequence: "5", Column: "rulekey", LogType: "Integer"},
			{Table: "mdinterp", Sequence: "1", Column: "interpname", LogType: "String", Size: "60"},
			{Table: "mdinterp", Sequence: "2", Column: "interptype", LogType: "String", Size: "20"},
			{Table: "mdinterp", Sequence: "3", Column: "interpdesc", LogType: "Narrative Text"},
			{Table: "mdinterp", Sequence: "4", Column: "interpdesigndate", LogType: "Date/Time"},
			{Table: "mdinterp", Sequence: "5", Column: "interpgendate", LogType: "Date/Time"},
			{Table: "mdinterp", Sequence: "6", Column: "interpmaxreasons", LogType: "Integer"},
			{Table: "mdinterp", Sequence: "7", Column: "interpkey", LogType: "Integer"},
		},
		IndexDeletes: []IndexDelete{
			{Table: "cointerp", Column: "mrulekey"},
		},
		IndexInserts: append(baseIndexes(),
			IndexDef{Table: "mdrule", Name: "DI_mdrule", Seq: "1", Column: "interpkey"},
			IndexDef{Table: "mdinterp", Name: "UI_mdinterp", Seq: "1", Column: "interpkey", Unique: true},
			IndexDef{Table: "mdruleclass", Name: "UI_mdruleclass", Seq: "1", Column: "classkey", Unique: true},
		),
		RuleClasses: []RuleClass{
			{"Not rated", 1}, {"Not limited", 2}, {"Somewhat limited", 3},
			{"Very limited", 4}, {"Not suited", 5}, {"Poorly suited", 6},
			{"Moderately suited", 7}, {"Moderately well suited", 8},
			{"Well suited", 9},
		},
	}
	return rev
}

// baseIndexes are the attribute indexes created for either template.
// Key columns referenced by a recorded relationship are indexed during
// relationship creation and are not repeated here.
func baseIndexes() []IndexDef {
	return []IndexDef{
		{Table: "mapunit", Name: "UI_mapunit_mukey", Seq: "1", Column: "mukey", Unique: true},
		{Table: "mapunit", Name: "DI_mapunit_lkey", Seq: "1", Column: "lkey"},
		{Table: "component", Name: "UI_component_cokey", Seq: "1", Column: "cokey", Unique: true},
		{Table: "component", Name: "DI_component_mukey", Seq: "1", Column: "mukey"},
		{Table: "chorizon", Name: "UI_chorizon_chkey", Seq: "1", Column: "chkey", Unique: true},
		{Table: "chorizon", Name: "DI_chorizon_cokey", Seq: "1", Column: "cokey"},
		{Table: "legend", Name: "UI_legend_lkey", Seq: "1", Column: "lkey", Unique: true},
		{Table: "sacatalog", Name: "UI_sacatalog_areasymbol", Seq: "1", Column: "areasymbol", Unique: true},
		{Table: "muaggatt", Name: "UI_muaggatt_mukey", Seq: "1", Column: "mukey", Unique: true},
		{Table: "cointerp", Name: "DI_cointerp_cokey", Seq: "1", Column: "cokey"},
	}
}
