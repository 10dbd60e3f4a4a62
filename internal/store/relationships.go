// =============================================================================
// RSS Export Tool - Relationships and Indexes
// =============================================================================
//
// SQLite cannot attach foreign keys to tables after creation, so the
// relationships declared by the export's own metadata tables are recorded
// in a relationship catalog table, and each child key column gets an
// attribute index so joins behave.
//
// =============================================================================

package store

import (
	"fmt"
	"log"
	"strings"
)

// relationship mirrors one mdstatrshipdet row joined with its master.
type relationship struct {
	Name        string
	LeftTable   string
	LeftColumn  string
	RightTable  string
	RightColumn string
	Cardinality string
}

// CreateRelationships reads the export's relationship metadata and
// materializes it as the relationship catalog plus child column indexes.
func (s *Store) CreateRelationships() error {
	var rels []relationship
	err := s.db.Raw(`
		SELECT d.relationshipname  AS name,
		       d.ltabphyname       AS left_table,
		       d.ltabcolphyname    AS left_column,
		       d.rtabphyname       AS right_table,
		       d.rtabcolphyname    AS right_column,
		       m.cardinality       AS cardinality
		  FROM mdstatrshipdet d
		  JOIN mdstatrshipmas m
		    ON m.ltabphyname = d.ltabphyname
		   AND m.rtabphyname = d.rtabphyname
		   AND m.relationshipname = d.relationshipname`).
		Scan(&rels).Error
	if err != nil {
		return fmt.Errorf("failed to read relationship metadata: %w", err)
	}

	if err := s.db.Exec(`CREATE TABLE IF NOT EXISTS "relationship" (
		"relname" TEXT, "lefttable" TEXT, "leftcolumn" TEXT,
		"righttable" TEXT, "rightcolumn" TEXT, "cardinality" TEXT)`).Error; err != nil {
		return fmt.Errorf("failed to create relationship catalog: %w", err)
	}

	existing, err := s.tableSet()
	if err != nil {
		return err
	}

	created := 0
	for _, r := range rels {
		// Template revisions drop some tables and columns the dictionary
		// still relates.
		if !existing[strings.ToLower(r.LeftTable)] || !existing[strings.ToLower(r.RightTable)] {
			continue
		}
		if !s.hasColumn(r.RightTable, r.RightColumn) || !s.hasColumn(r.LeftTable, r.LeftColumn) {
			continue
		}
		rec := map[string]interface{}{
			"relname":     "z" + r.LeftTable + "_" + r.RightTable,
			"lefttable":   r.LeftTable,
			"leftcolumn":  r.LeftColumn,
			"righttable":  r.RightTable,
			"rightcolumn": r.RightColumn,
			"cardinality": r.Cardinality,
		}
		if err := s.db.Table("relationship").Create(rec).Error; err != nil {
			return fmt.Errorf("insert into relationship: %w", err)
		}
		idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "DI_%s_%s" ON "%s" ("%s")`,
			r.RightTable, r.RightColumn, r.RightTable, r.RightColumn)
		if err := s.db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to index %s.%s: %w", r.RightTable, r.RightColumn, err)
		}
		created++
	}
	if s.verbose {
		log.Printf("recorded %d relationships", created)
	}
	return nil
}

// CreateIndices applies the revision set's index list. Deletes run first
// so a rebuilt index does not collide with an obsolete one.
func (s *Store) CreateIndices() error {
	if s.rev == nil {
		return nil
	}
	for _, d := range s.rev.IndexDeletes {
		stmt := fmt.Sprintf(`DROP INDEX IF EXISTS "DI_%s_%s"`, d.Table, d.Column)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to drop index on %s.%s: %w", d.Table, d.Column, err)
		}
	}
	for _, idx := range s.rev.IndexInserts {
		if !s.hasColumn(idx.Table, idx.Column) {
			continue
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmt := fmt.Sprintf(`CREATE %sINDEX IF NOT EXISTS "%s" ON "%s" ("%s")`,
			unique, idx.Name, idx.Table, idx.Column)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.Name, err)
		}
	}
	return nil
}

func (s *Store) tableSet() (map[string]bool, error) {
	names, err := s.TableNames()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set, nil
}

func (s *Store) hasColumn(table, column string) bool {
	cols, err := s.ColumnNames(table)
	if err != nil {
		return false
	}
	for _, c := range cols {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}
