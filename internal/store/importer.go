// =============================================================================
// RSS Export Tool - Text File Import
// =============================================================================

package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/soildev/rsstool/internal/schema"
	"github.com/soildev/rsstool/internal/tabular"
)

// insertBatch is the number of rows buffered before a bulk insert.
const insertBatch = 500

// ImportTextFiles loads every dictionary table's text file from the
// export directory. Tables fall into three groups: common tables load
// as-is, set tables drop duplicate rows on their first column, and the
// per-survey tables load as-is except for cointerp, which is filtered
// and reshaped for the selected template version.
func (s *Store) ImportTextFiles(inputDir string) error {
	for _, name := range schema.CommonTables {
		if err := s.importTable(inputDir, name, nil); err != nil {
			return err
		}
	}
	for _, name := range schema.SetTables {
		seen := map[string]bool{}
		dedupe := func(row []string) bool {
			if len(row) == 0 || seen[row[0]] {
				return false
			}
			seen[row[0]] = true
			return true
		}
		if err := s.importTable(inputDir, name, dedupe); err != nil {
			return err
		}
	}
	for _, name := range schema.UniqueTables {
		switch name {
		case "cointerp":
			if err := s.importCointerp(inputDir); err != nil {
				return err
			}
		case "sainterp":
			if s.version == schema.Template20 {
				// Rebuilt from cointerp rule metadata afterwards.
				continue
			}
			if err := s.importTable(inputDir, name, nil); err != nil {
				return err
			}
		default:
			if err := s.importTable(inputDir, name, nil); err != nil {
				return err
			}
		}
	}
	if s.version == schema.Template20 {
		if err := s.buildInterpMetadata(inputDir); err != nil {
			return err
		}
	}
	return s.populateMonths()
}

// importTable streams one pipe delimited file into its table. A non-nil
// keep function filters rows before insert.
func (s *Store) importTable(inputDir, table string, keep func([]string) bool) error {
	tab, ok := s.catalog[table]
	if !ok {
		return fmt.Errorf("table %s not in data dictionary", table)
	}
	path := filepath.Join(inputDir, tab.TextFile+".txt")
	if _, err := os.Stat(path); err != nil {
		// month has no export file; its rows are generated.
		if table == "month" {
			return nil
		}
		return fmt.Errorf("missing text file for %s: %s", table, path)
	}

	cols := tab.ColumnNames()
	batch := make([]map[string]interface{}, 0, insertBatch)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.db.Table(table).Create(batch).Error; err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	err := tabular.Stream(path, func(row []string) error {
		if keep != nil && !keep(row) {
			return nil
		}
		if len(row) != len(cols) {
			return fmt.Errorf("%s: row has %d fields, want %d", path, len(row), len(cols))
		}
		rec := make(map[string]interface{}, len(cols))
		vals := tabular.NullableValues(row)
		for i, c := range cols {
			rec[c] = vals[i]
		}
		batch = append(batch, rec)
		if len(batch) == insertBatch {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}
	if s.verbose {
		log.Printf("imported %s: %d rows", table, total)
	}
	return nil
}

// cinterp.txt field positions. The export carries the full historic
// cointerp shape; both template versions keep only a subset.
const (
	ciCokey      = 0
	ciMrulekey   = 1
	ciMrulename  = 2
	ciSeqnum     = 3
	ciRulekey    = 4
	ciRulename   = 5
	ciRuledepth  = 6
	ciInterpHR   = 11
	ciInterpHRC  = 12
	ciNullProp   = 15
	ciInterpKey  = 18
	ciFieldCount = 19
)

// natResourceRule is the main rule key whose sub-rules are retained even
// when they differ from their own top rule.
const natResourceRule = "54955"

// importCointerp filters cinterp.txt down to the rows the template keeps:
// a row survives when it is its own main rule, or belongs to the national
// resource concern rule set.
func (s *Store) importCointerp(inputDir string) error {
	path := filepath.Join(inputDir, "cinterp.txt")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("missing text file for cointerp: %s", path)
	}

	cols, err := s.ColumnNames("cointerp")
	if err != nil {
		return err
	}

	var classes *ruleClassSet
	if s.version == schema.Template20 {
		classes, err = s.loadRuleClasses()
		if err != nil {
			return err
		}
	}

	batch := make([]map[string]interface{}, 0, insertBatch)
	total := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.db.Table("cointerp").Create(batch).Error; err != nil {
			return fmt.Errorf("insert into cointerp: %w", err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	err = tabular.Stream(path, func(row []string) error {
		if len(row) < ciFieldCount {
			return fmt.Errorf("%s: row has %d fields, want %d", path, len(row), ciFieldCount)
		}
		if row[ciMrulekey] != row[ciRulekey] && row[ciMrulekey] != natResourceRule {
			return nil
		}
		var rec map[string]interface{}
		if s.version == schema.Template20 {
			rec = cointerp20Record(row, classes)
		} else {
			out := reshapeCointerp10(row)
			if len(out) != len(cols) {
				return fmt.Errorf("cointerp: reshaped row has %d fields, table has %d",
					len(out), len(cols))
			}
			rec = make(map[string]interface{}, len(cols))
			for i, c := range cols {
				rec[c] = out[i]
			}
		}
		batch = append(batch, rec)
		if len(batch) == insertBatch {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	if classes != nil {
		if err := classes.saveNew(s); err != nil {
			return err
		}
	}
	if s.verbose {
		log.Printf("imported cointerp: %d rows", total)
	}
	return nil
}

// reshapeCointerp10 drops the low and representative value pairs, keeping
// the 1.0 template's column set.
func reshapeCointerp10(row []string) []interface{} {
	out := make([]string, 0, 13)
	out = append(out, row[:7]...)
	out = append(out, row[ciInterpHR], row[ciInterpHRC])
	out = append(out, row[ciNullProp:]...)
	return tabular.NullableValues(out)
}

// cointerp20Record keeps only the rating, its class key, the propagation
// flags and the keys. Rule and interp names move to the metadata tables.
// Some exports carry stray spaces in the flag fields.
func cointerp20Record(row []string, classes *ruleClassSet) map[string]interface{} {
	flag := func(i int) interface{} {
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
		return nil
	}
	rec := map[string]interface{}{
		"interphr":         nullable(row[ciInterpHR]),
		"interphrc":        nil,
		"nullpropdatabool": flag(ciNullProp),
		"defpropdatabool":  flag(ciNullProp + 1),
		"incpropdatabool":  flag(ciNullProp + 2),
		"rulekey":          nullable(row[ciRulekey]),
		"cokey":            nullable(row[ciCokey]),
		"cointerpkey":      nullable(row[ciInterpKey]),
	}
	if txt := strings.TrimSpace(row[ciInterpHRC]); txt != "" {
		rec["interphrc"] = classes.key(txt)
	}
	return rec
}

func nullable(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
