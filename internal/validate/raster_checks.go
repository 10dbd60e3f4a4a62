// =============================================================================
// RSS Export Tool - Raster and Key Checks
// =============================================================================

package validate

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/soildev/rsstool/internal/raster"
	"github.com/soildev/rsstool/internal/schema"
	"github.com/soildev/rsstool/internal/tabular"
)

// checkRasterProperties runs the band, pixel type, NoData, cell size and
// spatial reference checks against one raster.
func (v *Validator) checkRasterProperties(path, scope string, res *Result) {
	info, err := v.Inspector.Describe(path)
	if err != nil {
		res.fail(scope+" raster", err.Error())
		return
	}

	if info.BandCount == 1 {
		res.pass(scope+" band count", "1")
	} else {
		res.fail(scope+" band count", fmt.Sprintf("%d bands, want 1", info.BandCount))
	}

	if strings.EqualFold(info.BandName, raster.BandName) {
		res.pass(scope+" band name", info.BandName)
	} else {
		res.fail(scope+" band name", fmt.Sprintf("%q, want %s", info.BandName, raster.BandName))
	}

	if info.PixelType == "UInt32" {
		res.pass(scope+" pixel type", info.PixelType)
	} else {
		res.fail(scope+" pixel type", fmt.Sprintf("%s, want UInt32", info.PixelType))
	}

	switch {
	case !info.HasNoData:
		res.fail(scope+" NoData", "no NoData value set")
	case info.NoData != float64(raster.NoDataValue):
		res.fail(scope+" NoData", fmt.Sprintf("%.0f, want %d", info.NoData, raster.NoDataValue))
	default:
		res.pass(scope+" NoData", fmt.Sprintf("%d", raster.NoDataValue))
	}

	if info.CellSizeX == raster.CellSize && info.CellSizeY == raster.CellSize {
		res.pass(scope+" cell size", "10 m")
	} else {
		res.fail(scope+" cell size",
			fmt.Sprintf("%g x %g, want %g", info.CellSizeX, info.CellSizeY, raster.CellSize))
	}

	switch {
	case info.EPSG == raster.EPSGConus,
		info.EPSG == raster.EPSGAlaska,
		info.EPSG == raster.EPSGPuertoRicoVI:
		res.pass(scope+" spatial reference", fmt.Sprintf("EPSG:%d (%s)", info.EPSG, info.CRSName))
	case raster.IsHawaiiAlbers(info.CRSName):
		res.pass(scope+" spatial reference", info.CRSName)
	default:
		res.fail(scope+" spatial reference",
			fmt.Sprintf("%q is not an accepted system", info.CRSName))
	}
}

// checkKeys compares the raster's distinct cell values against a mukey
// set from a mapunit table.
func (v *Validator) checkKeys(tifPath string, mukeys map[string]bool, name string, res *Result) {
	if mukeys == nil {
		res.fail(name, "mapunit keys unavailable")
		return
	}
	rasterKeys, err := v.Inspector.UniqueKeys(tifPath)
	if err != nil {
		res.fail(name, err.Error())
		return
	}
	var onlyRaster, onlyTable []string
	for k := range rasterKeys {
		if !mukeys[k] {
			onlyRaster = append(onlyRaster, k)
		}
	}
	for k := range mukeys {
		if !rasterKeys[k] {
			onlyTable = append(onlyTable, k)
		}
	}
	if len(onlyRaster) == 0 && len(onlyTable) == 0 {
		res.pass(name, fmt.Sprintf("%d keys agree", len(rasterKeys)))
		return
	}
	sort.Strings(onlyRaster)
	sort.Strings(onlyTable)
	res.fail(name, fmt.Sprintf("raster-only keys: %s; table-only keys: %s",
		summarize(onlyRaster), summarize(onlyTable)))
}

func summarize(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	if len(keys) > 5 {
		return fmt.Sprintf("%s and %d more", strings.Join(keys[:5], ", "), len(keys)-5)
	}
	return strings.Join(keys, ", ")
}

// keysFromMapunitFile reads the mukey column of a raw mapunit.txt. A nil
// return means the file could not be read.
func keysFromMapunitFile(path string) map[string]bool {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	idx := len(schema.MapunitColumns) - 1 // mukey is the last column
	keys := map[string]bool{}
	err := tabular.Stream(path, func(row []string) error {
		if len(row) > idx {
			keys[row[idx]] = true
		}
		return nil
	})
	if err != nil {
		return nil
	}
	return keys
}
