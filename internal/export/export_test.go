package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soildev/rsstool/internal/metadata"
	"github.com/soildev/rsstool/internal/schema"
)

func fixtureInput(t *testing.T, withReadme bool) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range schema.RequiredTextFiles {
		if name == "README.txt" && !withReadme {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte("\"x\"|\"y\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func fixtureRaster(t *testing.T, withSidecar bool) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "MURASTER_10m_NM_2026.tif")
	if err := os.WriteFile(path, []byte("not really a tiff"), 0o644); err != nil {
		t.Fatal(err)
	}
	if withSidecar {
		if err := os.WriteFile(path+".xml", []byte("<metadata/>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func testOptions(t *testing.T, withReadme, withSidecar bool) Options {
	return Options{
		InputDir:   fixtureInput(t, withReadme),
		RasterPath: fixtureRaster(t, withSidecar),
		OutputDir:  t.TempDir(),
		State:      "NM",
		Meta: metadata.Fields{
			State:      "New Mexico",
			FiscalYear: 2026,
			Surveys:    []string{"NM007 (2025-09-08)"},
			RasterName: "MURASTER_10m_NM_2026",
			Database:   "RSS_NM.db",
			Resolution: "10 meter",
		},
	}
}

func TestRunLayout(t *testing.T) {
	opts := testOptions(t, true, true)
	pkgDir, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(pkgDir) != "RSS_NM" {
		t.Errorf("package dir = %s", pkgDir)
	}

	for _, p := range []string{
		filepath.Join("spatial", "MURASTER_10m_NM_2026.tif"),
		filepath.Join("spatial", "MURASTER_10m_NM_2026.tif.xml"),
		filepath.Join("tabular", "mapunit.txt"),
		filepath.Join("tabular", "version.txt"),
		filepath.Join("tabular", "README.txt"),
	} {
		if _, err := os.Stat(filepath.Join(pkgDir, p)); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
	// The delivery README sits next to RSS_NM, not inside it.
	if _, err := os.Stat(filepath.Join(opts.OutputDir, "README.txt")); err != nil {
		t.Errorf("missing top level README: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(pkgDir, "tabular"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(schema.RequiredTextFiles) {
		t.Errorf("tabular holds %d files, want %d", len(entries), len(schema.RequiredTextFiles))
	}
}

func TestRunMissingTextFile(t *testing.T) {
	// A missing required file is reported but does not stop the export;
	// the publication checklist rejects the incomplete package instead.
	opts := testOptions(t, true, true)
	if err := os.Remove(filepath.Join(opts.InputDir, "chorizon.txt")); err != nil {
		t.Fatal(err)
	}
	pkgDir, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(pkgDir, "tabular", "chorizon.txt")); !os.IsNotExist(err) {
		t.Error("chorizon.txt appeared in the package without a source")
	}
	if _, err := os.Stat(filepath.Join(pkgDir, "tabular", "mapunit.txt")); err != nil {
		t.Errorf("remaining files should still copy: %v", err)
	}
}

func TestRunSkipsUnexpectedFiles(t *testing.T) {
	opts := testOptions(t, true, true)
	if err := os.WriteFile(filepath.Join(opts.InputDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	pkgDir, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(pkgDir, "tabular", "notes.txt")); !os.IsNotExist(err) {
		t.Error("unexpected file was copied into the package")
	}
}

func TestRunGeneratedArtifacts(t *testing.T) {
	// No README in the input and no raster sidecar: both get generated.
	opts := testOptions(t, false, false)
	pkgDir, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(pkgDir, "tabular", "README.txt")); !os.IsNotExist(err) {
		t.Error("tabular README appeared without a source")
	}
	body, err := os.ReadFile(filepath.Join(opts.OutputDir, "README.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "New Mexico") ||
		!strings.Contains(string(body), "MURASTER_10m_NM_2026") {
		t.Errorf("generated README = %q", body)
	}

	xml, err := os.ReadFile(filepath.Join(pkgDir, "spatial", "MURASTER_10m_NM_2026.tif.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(xml), "xx") {
		t.Error("rendered metadata still carries tokens")
	}
	if !strings.Contains(string(xml), "New Mexico") {
		t.Error("rendered metadata lacks the state name")
	}
}

func TestRunRefusesOverwrite(t *testing.T) {
	opts := testOptions(t, true, true)
	if _, err := Run(opts); err != nil {
		t.Fatal(err)
	}
	if _, err := Run(opts); err == nil {
		t.Fatal("expected error without overwrite")
	}
	opts.Overwrite = true
	if _, err := Run(opts); err != nil {
		t.Fatalf("overwrite run: %v", err)
	}
}
