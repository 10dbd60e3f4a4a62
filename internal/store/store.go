// =============================================================================
// RSS Export Tool - Relational Store
// =============================================================================
//
// The tabular half of an RSS package is a SQLite database laid out to the
// gSSURGO template. The schema is not hardcoded: it is generated from the
// data dictionary shipped with every NASIS export (mstab.txt and
// mstabcol.txt), then adjusted by the revision set for the selected
// template version.
//
// =============================================================================

package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soildev/rsstool/internal/schema"
)

// DatabaseFile is the name of the SQLite file inside the package
// database directory.
const DatabaseFile = "rss.sqlite"

// Store wraps the package database together with the data dictionary and
// revision set it was built from.
type Store struct {
	db      *gorm.DB
	catalog schema.Catalog
	rev     *schema.Revisions
	version schema.TemplateVersion
	path    string
	verbose bool
}

// Create makes a fresh package database at dir/DatabaseFile. An existing
// database is replaced only when overwrite is set, and the whole
// directory is cleared so rasters and metadata from a prior fiscal year
// cannot ride along into the rebuilt package.
func Create(dir string, cat schema.Catalog, rev *schema.Revisions,
	v schema.TemplateVersion, overwrite, verbose bool) (*Store, error) {

	path := filepath.Join(dir, DatabaseFile)
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return nil, fmt.Errorf("database already exists: %s", path)
		}
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("failed to remove existing database: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, catalog: cat, rev: rev, version: v, path: path, verbose: verbose}
	if err := s.createSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens an existing package database read-write without touching the
// schema. The validator and exporter use it.
func Open(dir string) (*Store, error) {
	path := filepath.Join(dir, DatabaseFile)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	raw, err := s.db.DB()
	if err != nil {
		return err
	}
	return raw.Close()
}

// Path returns the SQLite file path.
func (s *Store) Path() string { return s.path }

// createSchema emits CREATE TABLE statements for every dictionary table,
// with the revision set's column changes folded in, then creates the
// revision's brand new tables.
func (s *Store) createSchema() error {
	count := 0
	for name, tab := range s.catalog {
		cols := s.effectiveColumns(name, tab)
		if len(cols) == 0 {
			continue
		}
		if err := s.db.Exec(createTableSQL(name, cols)).Error; err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
		count++
	}
	if s.rev != nil {
		for _, t := range s.rev.Tables {
			cols := revisionColumns(s.rev, t.PhysName)
			if len(cols) == 0 {
				return fmt.Errorf("revision table %s has no columns", t.PhysName)
			}
			if err := s.db.Exec(createTableSQL(t.PhysName, cols)).Error; err != nil {
				return fmt.Errorf("failed to create table %s: %w", t.PhysName, err)
			}
			count++
		}
	}
	if s.verbose {
		log.Printf("created %d tables", count)
	}
	return nil
}

// colDef is a resolved column ready for DDL.
type colDef struct {
	name    string
	sqlType string
}

// effectiveColumns applies the revision's deletions, retypes and
// insertions to a dictionary table's column list.
func (s *Store) effectiveColumns(table string, tab *schema.TableDef) []colDef {
	deleted := map[string]bool{}
	retyped := map[string]string{}
	if s.rev != nil {
		for _, u := range s.rev.ColumnUpdates {
			if !strings.EqualFold(u.Table, table) {
				continue
			}
			if u.Delete() {
				deleted[strings.ToLower(u.Column)] = true
			} else {
				retyped[strings.ToLower(u.Column)] = schema.SQLType(u.Type)
			}
		}
	}

	var cols []colDef
	for _, c := range tab.Columns {
		key := strings.ToLower(c.Name)
		if deleted[key] {
			continue
		}
		t := schema.SQLType(c.LogicalType)
		if rt, ok := retyped[key]; ok {
			t = rt
		}
		cols = append(cols, colDef{name: c.Name, sqlType: t})
	}
	if s.rev != nil {
		for _, ins := range s.rev.ColumnInserts {
			if strings.EqualFold(ins.Table, table) {
				cols = append(cols, colDef{name: ins.Column, sqlType: schema.SQLType(ins.LogType)})
			}
		}
	}
	return cols
}

// revisionColumns builds the column list for a table that exists only in
// the revision set.
func revisionColumns(rev *schema.Revisions, table string) []colDef {
	var cols []colDef
	for _, ins := range rev.ColumnInserts {
		if strings.EqualFold(ins.Table, table) {
			cols = append(cols, colDef{name: ins.Column, sqlType: schema.SQLType(ins.LogType)})
		}
	}
	return cols
}

func createTableSQL(name string, cols []colDef) string {
	var b strings.Builder
	b.WriteString(`CREATE TABLE "`)
	b.WriteString(name)
	b.WriteString(`" (`)
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + c.name + `" ` + c.sqlType)
	}
	b.WriteString(")")
	return b.String()
}

// ColumnNames returns the live column list of a table, in order.
func (s *Store) ColumnNames(table string) ([]string, error) {
	type pragmaRow struct {
		Name string
	}
	var rows []pragmaRow
	if err := s.db.Raw(fmt.Sprintf(`PRAGMA table_info("%s")`, table)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

// TableNames lists the user tables in the database.
func (s *Store) TableNames() ([]string, error) {
	var names []string
	err := s.db.Raw(
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
	).Scan(&names).Error
	return names, err
}

// Count returns the row count of a table.
func (s *Store) Count(table string) (int64, error) {
	var n int64
	err := s.db.Table(table).Count(&n).Error
	return n, err
}

// DistinctStrings returns the distinct values of one column as strings,
// skipping NULLs.
func (s *Store) DistinctStrings(table, column string) ([]string, error) {
	var vals []string
	err := s.db.Table(table).
		Where(fmt.Sprintf(`"%s" IS NOT NULL`, column)).
		Distinct(fmt.Sprintf(`CAST("%s" AS TEXT)`, column)).
		Pluck(column, &vals).Error
	return vals, err
}
