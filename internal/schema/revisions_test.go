package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseTemplateVersion(t *testing.T) {
	cases := map[string]TemplateVersion{
		"2.0":          Template20,
		"gSSURGO 2.0":  Template20,
		"1.0":          Template10,
		"":             Template10,
		"anything":     Template10,
		"template 2.0": Template20,
	}
	for in, want := range cases {
		if got := ParseTemplateVersion(in); got != want {
			t.Errorf("ParseTemplateVersion(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadRevisionsDefaults(t *testing.T) {
	dir := t.TempDir()

	rev, err := LoadRevisions(dir, Template20)
	if err != nil {
		t.Fatal(err)
	}
	if len(rev.Tables) != 3 {
		t.Errorf("2.0 defaults add %d tables, want 3", len(rev.Tables))
	}
	if len(rev.RuleClasses) == 0 {
		t.Error("2.0 defaults carry no rule classes")
	}
	for _, u := range rev.ColumnUpdates {
		if u.Column == "mrulekey" && !u.Delete() {
			t.Error("mrulekey should be deleted in 2.0")
		}
	}

	rev10, err := LoadRevisions(dir, Template10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rev10.Tables) != 0 || len(rev10.ColumnUpdates) != 0 {
		t.Error("1.0 defaults should only carry indexes")
	}
	if len(rev10.IndexInserts) == 0 {
		t.Error("1.0 defaults carry no indexes")
	}
}

func TestLoadRevisionsCSV(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("md_tables_insert2.csv", "phys,log,label\nmdrule,md.rule,Rules\n")
	write("md_rule_classes2.csv", "classtxt,classkey\nNot rated,1\nVery limited,4\n")
	write("md_index_insert2.csv", "table,name,seq,column,unique\nmapunit,UI_mapunit,1,mukey,Yes\n")

	rev, err := LoadRevisions(dir, Template20)
	if err != nil {
		t.Fatal(err)
	}
	if len(rev.Tables) != 1 || rev.Tables[0].PhysName != "mdrule" {
		t.Errorf("tables = %+v", rev.Tables)
	}
	if len(rev.RuleClasses) != 2 || rev.RuleClasses[1].Key != 4 {
		t.Errorf("rule classes = %+v", rev.RuleClasses)
	}
	if len(rev.IndexInserts) != 1 || !rev.IndexInserts[0].Unique {
		t.Errorf("indexes = %+v", rev.IndexInserts)
	}
	// CSV presence replaces all defaults, including unrelated lists.
	if len(rev.ColumnUpdates) != 0 {
		t.Errorf("column updates = %+v", rev.ColumnUpdates)
	}
}

func TestLoadRevisionsWorkbook(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	sheet := func(name string, rows [][]interface{}) {
		f.NewSheet(name)
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	sheet("Tables", [][]interface{}{
		{"phys", "log", "label"},
		{"mdinterp", "md.interp", "Interpretations Metadata"},
	})
	sheet("ColumnUpdates", [][]interface{}{
		{"table", "column", "lognm", "label", "type", "size", "seq"},
		{"cointerp", "seqnum", "", "", "delete", "", ""},
		{"cointerp", "interphrc", "", "", "Integer", "", "2"},
	})
	sheet("RuleClasses", [][]interface{}{
		{"classtxt", "classkey"},
		{"Well suited", 9},
	})
	path := filepath.Join(dir, "gssurgo_revisions2.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	rev, err := LoadRevisions(dir, Template20)
	if err != nil {
		t.Fatal(err)
	}
	if len(rev.Tables) != 1 || rev.Tables[0].PhysName != "mdinterp" {
		t.Errorf("tables = %+v", rev.Tables)
	}
	if len(rev.ColumnUpdates) != 2 {
		t.Fatalf("column updates = %+v", rev.ColumnUpdates)
	}
	if !rev.ColumnUpdates[0].Delete() {
		t.Error("seqnum update should be a delete")
	}
	if rev.ColumnUpdates[1].Type != "Integer" {
		t.Errorf("interphrc type = %q", rev.ColumnUpdates[1].Type)
	}
	if len(rev.RuleClasses) != 1 || rev.RuleClasses[0].Key != 9 {
		t.Errorf("rule classes = %+v", rev.RuleClasses)
	}
}
