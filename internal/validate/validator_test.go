package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soildev/rsstool/internal/raster"
	"github.com/soildev/rsstool/internal/schema"
	"github.com/soildev/rsstool/internal/store"
)

// fakeInspector serves canned raster properties and keys so the
// checklist logic runs without GDAL.
type fakeInspector struct {
	info *raster.Info
	keys map[string]bool
	err  error
}

func (f *fakeInspector) Describe(string) (*raster.Info, error) {
	return f.info, f.err
}

func (f *fakeInspector) UniqueKeys(string) (map[string]bool, error) {
	return f.keys, f.err
}

func goodInfo() *raster.Info {
	return &raster.Info{
		BandCount: 1,
		BandName:  raster.BandName,
		PixelType: "UInt32",
		NoData:    float64(raster.NoDataValue),
		HasNoData: true,
		EPSG:      raster.EPSGConus,
		CRSName:   "NAD_1983_Contiguous_USA_Albers",
		CellSizeX: raster.CellSize,
		CellSizeY: raster.CellSize,
	}
}

func testValidator(keys ...string) *Validator {
	set := map[string]bool{}
	for _, k := range keys {
		set[k] = true
	}
	return &Validator{
		Inspector: &fakeInspector{info: goodInfo(), keys: set},
		Now:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

// mapunitRow emits one 24 field mapunit.txt line with the key last.
func mapunitRow(musym, mukey string) string {
	fields := make([]string, len(schema.MapunitColumns))
	fields[0] = `"` + musym + `"`
	for i := 1; i < len(fields)-1; i++ {
		fields[i] = `""`
	}
	fields[len(fields)-1] = `"` + mukey + `"`
	return strings.Join(fields, "|") + "\n"
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// buildDatabase creates a package database holding every expected table
// and the given map unit keys.
func buildDatabase(t *testing.T, dbDir string, mukeys ...string) {
	t.Helper()
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		t.Fatal(err)
	}
	db, err := gorm.Open(sqlite.Open(filepath.Join(dbDir, store.DatabaseFile)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	for name := range schema.DatabaseTables {
		ddl := fmt.Sprintf(`CREATE TABLE "%s" ("mukey" TEXT, "note" TEXT)`, name)
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatal(err)
		}
	}
	for _, k := range mukeys {
		if err := db.Exec(`INSERT INTO "mapunit" ("mukey") VALUES (?)`, k).Error; err != nil {
			t.Fatal(err)
		}
	}
	raw, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	raw.Close()
}

// buildPackage lays out a complete delivery directory for state NM with
// the given map unit keys in both mapunit tables.
func buildPackage(t *testing.T, mukeys ...string) string {
	t.Helper()
	dir := t.TempDir()
	open := filepath.Join(dir, "RSS_NM")

	var mu strings.Builder
	for i, k := range mukeys {
		mu.WriteString(mapunitRow(fmt.Sprintf("%dA", i+1), k))
	}
	for _, name := range schema.RequiredTextFiles {
		if name == "README.txt" {
			continue
		}
		body := "\"x\"|\"y\"\n"
		if name == "mapunit.txt" {
			body = mu.String()
		}
		writeFile(t, filepath.Join(open, "tabular", name), body)
	}
	writeFile(t, filepath.Join(open, "spatial", "MURASTER_10m_NM_2026.tif"), "tif")
	writeFile(t, filepath.Join(open, "spatial", "MURASTER_10m_NM_2026.tif.xml"), "<metadata/>")
	writeFile(t, filepath.Join(dir, "README.txt"), "readme")

	dbDir := filepath.Join(dir, "RSS_NM.db")
	buildDatabase(t, dbDir, mukeys...)
	writeFile(t, filepath.Join(dbDir, "MURASTER_10m_NM_2026.tif"), "tif")
	writeFile(t, filepath.Join(dbDir, "MURASTER_10m_NM_2026.tif.xml"), "<metadata/>")
	return dir
}

func failures(res *Result) []string {
	var out []string
	for _, c := range res.Checks {
		if c.Hard && !c.Passed {
			out = append(out, c.Name+": "+c.Detail)
		}
	}
	return out
}

func TestValidatePackagePasses(t *testing.T) {
	dir := buildPackage(t, "500", "501")
	v := testValidator("500", "501")

	res, err := v.ValidatePackage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed() {
		t.Fatalf("package rejected: %v", failures(res))
	}
	if res.State != "NM" || res.Year != 2026 {
		t.Errorf("state/year = %s/%d", res.State, res.Year)
	}
	if res.Code() != "NM" {
		t.Errorf("code = %s", res.Code())
	}

	body, err := os.ReadFile(res.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	log := string(body)
	if !strings.Contains(log, "SUCCESS-") || strings.Contains(log, "HARD FAIL-") {
		t.Errorf("log = %q", log)
	}
	if !strings.Contains(log, "Result: NM") {
		t.Error("log lacks result code")
	}
	if filepath.Base(res.LogPath) != "log_NM.log" {
		t.Errorf("log path = %s", res.LogPath)
	}

	// A rerun must not trip over its own log file.
	res, err = v.ValidatePackage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed() {
		t.Errorf("rerun rejected: %v", failures(res))
	}
}

func TestValidatePackageDoubleBagged(t *testing.T) {
	inner := buildPackage(t, "500")
	outer := t.TempDir()
	nested := filepath.Join(outer, "delivery", "nm_rss_fy2026")
	if err := os.MkdirAll(filepath.Dir(nested), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(inner, nested); err != nil {
		t.Fatal(err)
	}

	res, err := testValidator("500").ValidatePackage(outer)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed() {
		t.Errorf("package rejected: %v", failures(res))
	}
	if res.LogPath != filepath.Join(nested, "log_NM.log") {
		t.Errorf("log written to %s", res.LogPath)
	}
}

func TestValidatePackageKeyMismatch(t *testing.T) {
	dir := buildPackage(t, "500", "501")
	// Raster carries a key the tables do not.
	res, err := testValidator("500", "501", "999").ValidatePackage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed() {
		t.Fatal("expected rejection")
	}
	if res.Code() != "NM_" {
		t.Errorf("code = %s", res.Code())
	}
	found := false
	for _, f := range failures(res) {
		if strings.Contains(f, "999") {
			found = true
		}
	}
	if !found {
		t.Errorf("failures do not name the stray key: %v", failures(res))
	}
}

func TestValidatePackageMissingTextFile(t *testing.T) {
	dir := buildPackage(t, "500")
	if err := os.Remove(filepath.Join(dir, "RSS_NM", "tabular", "chorizon.txt")); err != nil {
		t.Fatal(err)
	}
	res, err := testValidator("500").ValidatePackage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed() {
		t.Fatal("expected rejection")
	}
}

func TestValidatePackageUnexpectedTopLevel(t *testing.T) {
	dir := buildPackage(t, "500")
	writeFile(t, filepath.Join(dir, "scratch.txt"), "x")
	res, err := testValidator("500").ValidatePackage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed() {
		t.Fatal("expected rejection")
	}
	// Zip archives ride along legitimately.
	if err := os.Remove(filepath.Join(dir, "scratch.txt")); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "RSS_NM.zip"), "x")
	res, err = testValidator("500").ValidatePackage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed() {
		t.Errorf("zip should be ignored: %v", failures(res))
	}
}

func TestValidatePackageStaleFiscalYear(t *testing.T) {
	dir := buildPackage(t, "500")
	for _, sub := range []string{filepath.Join("RSS_NM", "spatial"), "RSS_NM.db"} {
		base := filepath.Join(dir, sub)
		for _, ext := range []string{".tif", ".tif.xml"} {
			err := os.Rename(
				filepath.Join(base, "MURASTER_10m_NM_2026"+ext),
				filepath.Join(base, "MURASTER_10m_NM_2020"+ext))
			if err != nil {
				t.Fatal(err)
			}
		}
	}
	res, err := testValidator("500").ValidatePackage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed() {
		t.Fatal("expected rejection for stale fiscal year")
	}
}

func TestValidatePackageBadRasterProperties(t *testing.T) {
	dir := buildPackage(t, "500")
	info := goodInfo()
	info.PixelType = "Int16"
	info.HasNoData = false
	v := &Validator{
		Inspector: &fakeInspector{info: info, keys: map[string]bool{"500": true}},
		Now:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	res, err := v.ValidatePackage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed() {
		t.Fatal("expected rejection")
	}
	var sawPixel, sawNoData bool
	for _, f := range failures(res) {
		if strings.Contains(f, "pixel type") {
			sawPixel = true
		}
		if strings.Contains(f, "NoData") {
			sawNoData = true
		}
	}
	if !sawPixel || !sawNoData {
		t.Errorf("failures = %v", failures(res))
	}
}

func TestParseRasterName(t *testing.T) {
	tests := []struct {
		name  string
		state string
		year  int
		ok    bool
	}{
		{"MURASTER_10m_NM_2026.tif", "NM", 2026, true},
		{"MURASTER_10m_AK_2025.tif", "AK", 2025, true},
		{"MURASTER_30m_NM_2026.tif", "", 0, false},
		{"MUPOLYGON_10m_NM_2026.tif", "", 0, false},
		{"MURASTER_10m_NM.tif", "", 0, false},
		{"MURASTER_10m_NM_geo.tif", "", 0, false},
	}
	for _, tt := range tests {
		st, fy, ok := parseRasterName(tt.name)
		if st != tt.state || fy != tt.year || ok != tt.ok {
			t.Errorf("parseRasterName(%s) = %s, %d, %v", tt.name, st, fy, ok)
		}
	}
}

func TestResultCode(t *testing.T) {
	res := &Result{State: "HI"}
	res.pass("a", "")
	res.warn("b", "soft problem")
	if !res.Passed() || res.Code() != "HI" {
		t.Errorf("warnings must not reject: %v %s", res.Passed(), res.Code())
	}
	res.fail("c", "hard problem")
	if res.Passed() || res.Code() != "HI_" {
		t.Errorf("hard failure must reject: %v %s", res.Passed(), res.Code())
	}
}
