// =============================================================================
// RSS Export Tool - Raster Inspection
// =============================================================================

package raster

import (
	"fmt"
	"strings"

	"github.com/airbusgeo/godal"
)

// NoDataValue is the required NoData cell value of a map unit raster,
// the uint32 maximum signed value.
const NoDataValue = 2147483647

// Accepted projected coordinate systems for raster soil surveys. CONUS
// work uses 5070; Alaska, Puerto Rico / Virgin Islands and Hawaii have
// their own Albers systems, Hawaii's without an EPSG code.
const (
	EPSGConus        = 5070
	EPSGAlaska       = 3338
	EPSGPuertoRicoVI = 32161
)

// HawaiiAlbersWKT describes the ESRI style Hawaii Albers system used by
// island area surveys.
const HawaiiAlbersWKT = `PROJCS["Hawaii_Albers_Equal_Area_Conic",GEOGCS["GCS_North_American_1983",DATUM["D_North_American_1983",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Albers"],PARAMETER["False_Easting",0.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",-157.0],PARAMETER["Standard_Parallel_1",8.0],PARAMETER["Standard_Parallel_2",18.0],PARAMETER["Latitude_Of_Origin",13.0],UNIT["Meter",1.0]]`

// Info summarizes the raster properties the checklist cares about.
type Info struct {
	BandCount  int
	BandName   string
	PixelType  string // e.g. "UInt32"
	NoData     float64
	HasNoData  bool
	EPSG       int    // matched accepted EPSG code, 0 if none
	CRSName    string // projected coordinate system name
	CellSizeX  float64
	CellSizeY  float64
	Width      int
	Height     int
	GeoTrans   [6]float64
	WKT        string
}

// Inspector reads raster properties. The GDAL backed implementation is
// the real one; validation tests substitute a fake.
type Inspector interface {
	Describe(path string) (*Info, error)
	UniqueKeys(path string) (map[string]bool, error)
}

// GDALInspector inspects rasters through GDAL.
type GDALInspector struct{}

// NewInspector registers the GDAL drivers and returns an inspector.
func NewInspector() *GDALInspector {
	godal.RegisterAll()
	return &GDALInspector{}
}

func dataTypeName(dt godal.DataType) string {
	switch dt {
	case godal.Byte:
		return "Byte"
	case godal.UInt16:
		return "UInt16"
	case godal.Int16:
		return "Int16"
	case godal.UInt32:
		return "UInt32"
	case godal.Int32:
		return "Int32"
	case godal.Float32:
		return "Float32"
	case godal.Float64:
		return "Float64"
	default:
		return "Unknown"
	}
}

// Describe opens a raster and reports its structure, band and spatial
// reference properties.
func (GDALInspector) Describe(path string) (*Info, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %w", path, err)
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("raster %s has no bands", path)
	}
	b := bands[0]
	st := b.Structure()

	info := &Info{
		BandCount: len(bands),
		BandName:  b.Description(),
		PixelType: dataTypeName(st.DataType),
		Width:     st.SizeX,
		Height:    st.SizeY,
	}
	if nd, ok := b.NoData(); ok {
		info.NoData = nd
		info.HasNoData = true
	}
	if gt, err := ds.GeoTransform(); err == nil {
		info.GeoTrans = gt
		info.CellSizeX = gt[1]
		info.CellSizeY = -gt[5]
	}
	if sr := ds.SpatialRef(); sr != nil {
		if wkt, err := sr.WKT(); err == nil {
			info.WKT = wkt
			info.CRSName = wktName(wkt)
		}
		info.EPSG = matchAcceptedCRS(sr)
	}
	return info, nil
}

// matchAcceptedCRS compares a spatial reference against the accepted
// coded systems and returns the matching EPSG code. Hawaii Albers has no
// code; callers recognize it by name instead.
func matchAcceptedCRS(sr *godal.SpatialRef) int {
	for _, code := range []int{EPSGConus, EPSGAlaska, EPSGPuertoRicoVI} {
		ref, err := godal.NewSpatialRefFromEPSG(code)
		if err != nil {
			continue
		}
		same := sr.IsSame(ref)
		ref.Close()
		if same {
			return code
		}
	}
	return 0
}

// wktName pulls the projected coordinate system name out of a WKT
// string, the first quoted token.
func wktName(wkt string) string {
	i := strings.Index(wkt, `"`)
	if i < 0 {
		return ""
	}
	j := strings.Index(wkt[i+1:], `"`)
	if j < 0 {
		return ""
	}
	return wkt[i+1 : i+1+j]
}

// IsHawaiiAlbers reports whether a coordinate system name is the Hawaii
// Albers system, allowing space or underscore separators.
func IsHawaiiAlbers(name string) bool {
	n := strings.ToLower(strings.ReplaceAll(name, "_", " "))
	return strings.Contains(n, "hawaii albers")
}

// CheckSource verifies an input raster is usable as a map unit raster
// before any work starts: a single band carrying integer cell values,
// either already described as MUKEY or renameable on import.
func CheckSource(path string) error {
	info, err := NewInspector().Describe(path)
	if err != nil {
		return err
	}
	if info.BandCount != 1 {
		return fmt.Errorf("source raster has %d bands, want a single MUKEY band", info.BandCount)
	}
	switch info.PixelType {
	case "Byte", "UInt16", "Int16", "UInt32", "Int32":
		return nil
	}
	return fmt.Errorf("source raster pixel type %s cannot hold map unit keys", info.PixelType)
}

// UniqueKeys reads the first band block by block and collects the
// distinct cell values, skipping NoData, as decimal strings for
// comparison against the mapunit table.
func (GDALInspector) UniqueKeys(path string) (map[string]bool, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %w", path, err)
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("raster %s has no bands", path)
	}
	b := bands[0]
	st := b.Structure()

	nodata := float64(NoDataValue)
	if nd, ok := b.NoData(); ok {
		nodata = nd
	}

	keys := map[string]bool{}
	rows := st.BlockSizeY
	if rows <= 0 {
		rows = 1
	}
	buf := make([]uint32, st.SizeX*rows)
	for y := 0; y < st.SizeY; y += rows {
		h := rows
		if y+h > st.SizeY {
			h = st.SizeY - y
		}
		chunk := buf[:st.SizeX*h]
		if err := b.Read(0, y, chunk, st.SizeX, h); err != nil {
			return nil, fmt.Errorf("failed to read raster block at row %d: %w", y, err)
		}
		for _, v := range chunk {
			if float64(v) == nodata {
				continue
			}
			keys[fmt.Sprintf("%d", v)] = true
		}
	}
	return keys, nil
}
