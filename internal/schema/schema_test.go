package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func writeExport(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestParseCatalog(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, map[string]string{
		"mstab.txt": "\"mapunit\"|\"Mapunit\"|\"Map Unit\"|\"x\"|\"mapunit\"\n" +
			"\"legend\"|\"Legend\"|\"Legend\"|\"x\"|\"legend\"\n",
		"mstabcol.txt": "\"mapunit\"|\"2\"|\"muname\"|\"Map Unit Name\"|\"x\"|\"String\"|\"x\"|\"240\"\n" +
			"\"mapunit\"|\"1\"|\"musym\"|\"Map Unit Symbol\"|\"x\"|\"String\"|\"x\"|\"6\"\n" +
			"\"mapunit\"|\"3\"|\"mukey\"|\"Mapunit Key\"|\"x\"|\"Integer\"|\"x\"|\"\"\n" +
			"\"legend\"|\"1\"|\"areasymbol\"|\"Area Symbol\"|\"x\"|\"String\"|\"x\"|\"20\"\n",
	})

	cat, err := ParseCatalog(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat) != 2 {
		t.Fatalf("catalog has %d tables, want 2", len(cat))
	}

	mu := cat["mapunit"]
	if mu == nil {
		t.Fatal("mapunit missing from catalog")
	}
	if mu.TextFile != "mapunit" {
		t.Errorf("TextFile = %q", mu.TextFile)
	}
	// Columns come back in colsequence order regardless of file order.
	want := []string{"musym", "muname", "mukey"}
	got := mu.ColumnNames()
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if mu.Columns[1].Size != 240 {
		t.Errorf("muname size = %d, want 240", mu.Columns[1].Size)
	}
	if mu.Columns[2].LogicalType != "Integer" {
		t.Errorf("mukey logical type = %q", mu.Columns[2].LogicalType)
	}
}

func TestParseCatalogMissingDictionary(t *testing.T) {
	if _, err := ParseCatalog(t.TempDir()); err == nil {
		t.Fatal("expected error without mstab.txt")
	}
}

func TestSQLType(t *testing.T) {
	cases := []struct {
		logical string
		want    string
	}{
		{"Integer", "INTEGER"},
		{"Boolean", "INTEGER"},
		{"Choice", "INTEGER"},
		{"Float", "REAL"},
		{"Date/Time", "TIMESTAMP"},
		{"String", "TEXT"},
		{"Narrative Text", "TEXT"},
		{"", "TEXT"},
	}
	for _, c := range cases {
		if got := SQLType(c.logical); got != c.want {
			t.Errorf("SQLType(%q) = %q, want %q", c.logical, got, c.want)
		}
	}
}

func TestStateName(t *testing.T) {
	if got := StateName("NM"); got != "New Mexico" {
		t.Errorf("StateName(NM) = %q", got)
	}
	if got := StateName("ZZ"); got != "ZZ" {
		t.Errorf("StateName(ZZ) = %q, want the code back", got)
	}
	if !ValidStates["AK"] || ValidStates["ZZ"] {
		t.Error("ValidStates membership wrong")
	}
}

func TestInventoryShapes(t *testing.T) {
	if len(RequiredTextFiles) != 69 {
		t.Errorf("RequiredTextFiles has %d entries, want 69", len(RequiredTextFiles))
	}
	if len(DatabaseTables) != 69 {
		t.Errorf("DatabaseTables has %d entries, want 69", len(DatabaseTables))
	}
	if MapunitColumns[len(MapunitColumns)-1] != "mukey" {
		t.Error("mukey must be the last mapunit column")
	}
	// Every import group member must be a known database table.
	for _, lists := range [][]string{CommonTables, SetTables, UniqueTables} {
		for _, name := range lists {
			if !DatabaseTables[name] {
				t.Errorf("import group table %q not in DatabaseTables", name)
			}
		}
	}
}
