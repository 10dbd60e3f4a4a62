// =============================================================================
// RSS Export Tool - Interpretation Metadata (gSSURGO 2.0)
// =============================================================================
//
// The 2.0 template factors interpretation rule text out of cointerp into
// three lookup tables. Rule classes get small integer keys assigned in
// seed order, then first-seen order for classes the seed does not cover.
// Rules and interpretations are collected from the export's cinterp and
// sainterp files.
//
// =============================================================================

package store

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soildev/rsstool/internal/schema"
	"github.com/soildev/rsstool/internal/tabular"
)

// ruleClassSet assigns integer keys to rating class texts.
type ruleClassSet struct {
	keys map[string]int
	next int
	new  []schema.RuleClass
}

// loadRuleClasses seeds the class map from the revision set.
func (s *Store) loadRuleClasses() (*ruleClassSet, error) {
	set := &ruleClassSet{keys: map[string]int{}, next: 1}
	if s.rev != nil {
		for _, rc := range s.rev.RuleClasses {
			set.keys[rc.Text] = rc.Key
			if rc.Key >= set.next {
				set.next = rc.Key + 1
			}
		}
	}
	return set, nil
}

// key returns the class key for a rating text, assigning the next free
// key on first sight.
func (c *ruleClassSet) key(text string) int {
	if k, ok := c.keys[text]; ok {
		return k
	}
	k := c.next
	c.next++
	c.keys[text] = k
	c.new = append(c.new, schema.RuleClass{Text: text, Key: k})
	return k
}

// saveNew writes the full class map to mdruleclass.
func (c *ruleClassSet) saveNew(s *Store) error {
	type pair struct {
		text string
		key  int
	}
	all := make([]pair, 0, len(c.keys))
	for t, k := range c.keys {
		all = append(all, pair{t, k})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].key < all[j].key })

	rows := make([]map[string]interface{}, len(all))
	for i, p := range all {
		rows[i] = map[string]interface{}{"classtxt": p.text, "classkey": p.key}
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.Table("mdruleclass").Create(rows).Error; err != nil {
		return fmt.Errorf("insert into mdruleclass: %w", err)
	}
	if s.verbose {
		log.Printf("recorded %d rule classes (%d beyond the seed set)", len(rows), len(c.new))
	}
	return nil
}

// buildInterpMetadata fills mdrule and mdinterp from the export, and
// rebuilds sainterp keyed by interpretation instead of carrying the
// interp descriptions inline.
func (s *Store) buildInterpMetadata(inputDir string) error {
	interpKeys, err := s.buildRules(inputDir)
	if err != nil {
		return err
	}
	return s.rebuildSainterp(inputDir, interpKeys)
}

// buildRules collects the distinct rules from cinterp.txt into mdrule,
// keyed by the (interpretation, rule) key pair, and returns the
// interpretation name to key map taken from the rows where the rule is
// the interpretation itself.
func (s *Store) buildRules(inputDir string) (map[string]string, error) {
	path := filepath.Join(inputDir, "cinterp.txt")

	type rule struct {
		name, depth, seq, interpKey, ruleKey string
	}
	seen := map[[2]string]bool{}
	var rules []rule
	interpKeys := map[string]string{}

	err := tabular.Stream(path, func(row []string) error {
		if len(row) < ciFieldCount {
			return nil
		}
		// Rules are collected from every row, even those the cointerp
		// filter drops, so sub-rule metadata stays complete.
		pair := [2]string{row[ciMrulekey], row[ciRulekey]}
		if !seen[pair] {
			seen[pair] = true
			rules = append(rules, rule{
				name:      row[ciRulename],
				depth:     row[ciRuledepth],
				seq:       row[ciSeqnum],
				interpKey: row[ciMrulekey],
				ruleKey:   row[ciRulekey],
			})
		}
		if row[ciMrulekey] == row[ciRulekey] {
			interpKeys[row[ciMrulename]] = row[ciMrulekey]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	batch := make([]map[string]interface{}, 0, insertBatch)
	for _, r := range rules {
		vals := tabular.NullableValues([]string{r.name, r.depth, r.seq, r.interpKey, r.ruleKey})
		batch = append(batch, map[string]interface{}{
			"rulename": vals[0], "ruledepth": vals[1], "seqnum": vals[2],
			"interpkey": vals[3], "rulekey": vals[4],
		})
		if len(batch) == insertBatch {
			if err := s.db.Table("mdrule").Create(batch).Error; err != nil {
				return nil, fmt.Errorf("insert into mdrule: %w", err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := s.db.Table("mdrule").Create(batch).Error; err != nil {
			return nil, fmt.Errorf("insert into mdrule: %w", err)
		}
	}
	if s.verbose {
		log.Printf("recorded %d rules, %d interpretations", len(rules), len(interpKeys))
	}
	return interpKeys, nil
}

// sainterp export field positions.
const (
	saAreasymbol = 0
	saInterpName = 1
	saFieldCount = 9
)

// rebuildSainterp loads the export's sainterp file, sending the interp
// descriptions to mdinterp once per interpretation and keeping only the
// key triple in sainterp itself.
func (s *Store) rebuildSainterp(inputDir string, interpKeys map[string]string) error {
	tab, ok := s.catalog["sainterp"]
	if !ok {
		return fmt.Errorf("table sainterp not in data dictionary")
	}
	path := filepath.Join(inputDir, tab.TextFile+".txt")

	interpDone := map[string]bool{}
	var saRows, mdRows []map[string]interface{}

	err := tabular.Stream(path, func(row []string) error {
		if len(row) < saFieldCount {
			return fmt.Errorf("%s: row has %d fields, want %d", path, len(row), saFieldCount)
		}
		name := row[saInterpName]
		// Interps that never fired for any component have no key; the
		// row is kept with a null key rather than dropped.
		key := nullable(interpKeys[name])
		n := len(row)
		saRows = append(saRows, map[string]interface{}{
			"interpkey":    key,
			"sacatalogkey": nullable(row[n-2]),
			"sainterpkey":  nullable(row[n-1]),
		})
		if !interpDone[name] {
			interpDone[name] = true
			mv := tabular.NullableValues(row[saInterpName : saInterpName+6])
			mdRows = append(mdRows, map[string]interface{}{
				"interpname": mv[0], "interptype": mv[1], "interpdesc": mv[2],
				"interpdesigndate": mv[3], "interpgendate": mv[4],
				"interpmaxreasons": mv[5], "interpkey": key,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(mdRows) > 0 {
		if err := s.db.Table("mdinterp").Create(mdRows).Error; err != nil {
			return fmt.Errorf("insert into mdinterp: %w", err)
		}
	}
	if len(saRows) > 0 {
		if err := s.db.Table("sainterp").Create(saRows).Error; err != nil {
			return fmt.Errorf("insert into sainterp: %w", err)
		}
	}
	return nil
}

// populateMonths fills the static month lookup table, creating it when
// the export's dictionary does not list it.
func (s *Store) populateMonths() error {
	cols, err := s.ColumnNames("month")
	if err != nil {
		return err
	}
	if len(cols) < 2 {
		if err := s.db.Exec(`CREATE TABLE IF NOT EXISTS "month" (
			"monthseq" INTEGER, "monthname" TEXT)`).Error; err != nil {
			return fmt.Errorf("failed to create month table: %w", err)
		}
		cols = []string{"monthseq", "monthname"}
	}
	rows := make([]map[string]interface{}, len(schema.Months))
	for i, m := range schema.Months {
		rows[i] = map[string]interface{}{cols[0]: m.Seq, cols[1]: m.Name}
	}
	if err := s.db.Table("month").Create(rows).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil
		}
		return fmt.Errorf("insert into month: %w", err)
	}
	return nil
}
