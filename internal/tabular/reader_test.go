package tabular

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "legend.txt",
		"\"NM007\"|\"Socorro Area\"|\"1\"\n\"NM021\"|\"Harding County\"|\"2\"\n")

	rows, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"NM007", "Socorro Area", "1"},
		{"NM021", "Harding County", "2"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestReadFileVaryingFieldCounts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.txt", "\"a\"|\"b\"\n\"c\"|\"d\"|\"e\"\n")

	rows, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 3 {
		t.Errorf("unexpected shapes: %v", rows)
	}
}

func TestStream(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "comp.txt", "\"1\"|\"loam\"\n\"2\"|\"clay\"\n\"3\"|\"sand\"\n")

	var got [][]string
	err := Stream(path, func(row []string) error {
		got = append(got, append([]string(nil), row...))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2][1] != "sand" {
		t.Errorf("streamed rows = %v", got)
	}
}

func TestStreamMissingFile(t *testing.T) {
	err := Stream(filepath.Join(t.TempDir(), "nope.txt"), func([]string) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNullableValues(t *testing.T) {
	got := NullableValues([]string{"a", "", "3"})
	if got[0] != "a" || got[1] != nil || got[2] != "3" {
		t.Errorf("NullableValues = %v", got)
	}
}
