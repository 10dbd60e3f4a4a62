// =============================================================================
// RSS Export Tool - Raster Import
// =============================================================================
//
// Import takes the classified map unit raster produced upstream and
// normalizes it into the package raster: nearest neighbor resampled to
// 10 meter cells on the national snap grid, UInt32 pixels with the
// standard NoData value, single MUKEY band, GeoTIFF output with an FGDC
// sidecar record.
//
// CONUS rasters are reprojected to NAD83 Albers (EPSG 5070). Rasters
// already in one of the island or Alaska Albers systems keep their
// system and are only snapped and resampled.
//
// =============================================================================

package raster

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"

	"github.com/soildev/rsstool/internal/metadata"
)

// BandName is the description of the single raster band.
const BandName = "MUKEY"

// ImportOptions configures one raster import.
type ImportOptions struct {
	SourcePath   string
	OutDir       string // package database directory
	Name         string // canonical raster name, no extension
	TemplatesDir string
	Meta         metadata.Fields
	Overwrite    bool
	Verbose      bool
}

// Import normalizes the source raster into OutDir and returns the
// output path.
func Import(opts ImportOptions) (string, error) {
	godal.RegisterAll()

	outPath := filepath.Join(opts.OutDir, opts.Name+".tif")
	if _, err := os.Stat(outPath); err == nil && !opts.Overwrite {
		return "", fmt.Errorf("raster already exists: %s", outPath)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	src, err := godal.Open(opts.SourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open source raster: %w", err)
	}
	defer src.Close()

	srcRef := src.SpatialRef()
	if srcRef == nil {
		return "", fmt.Errorf("source raster has no spatial reference: %s", opts.SourcePath)
	}

	dstDef, dstRef, err := targetCRS(srcRef)
	if err != nil {
		return "", err
	}
	defer dstRef.Close()

	bound, err := targetExtent(src, srcRef, dstRef)
	if err != nil {
		return "", err
	}
	bound = SnapBound(bound)
	if opts.Verbose {
		log.Printf("snap extent: %.0f %.0f %.0f %.0f",
			bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1])
	}

	switches := []string{
		"-t_srs", dstDef,
		"-tr", fmt.Sprintf("%g", CellSize), fmt.Sprintf("%g", CellSize),
		"-r", "near",
		"-te", fmt.Sprintf("%f", bound.Min[0]), fmt.Sprintf("%f", bound.Min[1]),
		fmt.Sprintf("%f", bound.Max[0]), fmt.Sprintf("%f", bound.Max[1]),
		"-ot", "UInt32",
		"-dstnodata", fmt.Sprintf("%d", NoDataValue),
		"-of", "GTiff",
		"-co", "COMPRESS=LZW",
		"-co", "TILED=YES",
		"-overwrite",
	}
	out, err := src.Warp(outPath, switches)
	if err != nil {
		return "", fmt.Errorf("failed to warp raster: %w", err)
	}

	bands := out.Bands()
	if len(bands) != 1 {
		out.Close()
		return "", fmt.Errorf("warp produced %d bands, want 1", len(bands))
	}
	if err := bands[0].SetNoData(float64(NoDataValue)); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to set NoData: %w", err)
	}
	if err := bands[0].SetDescription(BandName); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to name band: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize raster: %w", err)
	}

	if err := metadata.Write(opts.TemplatesDir, metadata.RasterTemplate,
		outPath+".xml", opts.Meta); err != nil {
		return "", err
	}
	if opts.Verbose {
		log.Printf("wrote %s", outPath)
	}
	return outPath, nil
}

// targetCRS picks the output system: the source's own system when it is
// one of the accepted regional Albers systems, EPSG 5070 otherwise.
func targetCRS(src *godal.SpatialRef) (string, *godal.SpatialRef, error) {
	if code := matchAcceptedCRS(src); code != 0 && code != EPSGConus {
		ref, err := godal.NewSpatialRefFromEPSG(code)
		if err != nil {
			return "", nil, fmt.Errorf("failed to build EPSG:%d reference: %w", code, err)
		}
		return fmt.Sprintf("EPSG:%d", code), ref, nil
	}
	if wkt, err := src.WKT(); err == nil && IsHawaiiAlbers(wktName(wkt)) {
		ref, err := godal.NewSpatialRefFromWKT(wkt)
		if err != nil {
			return "", nil, fmt.Errorf("failed to parse source reference: %w", err)
		}
		return wkt, ref, nil
	}
	ref, err := godal.NewSpatialRefFromEPSG(EPSGConus)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build EPSG:%d reference: %w", EPSGConus, err)
	}
	return fmt.Sprintf("EPSG:%d", EPSGConus), ref, nil
}

// targetExtent projects the source corners into the target system and
// returns their envelope.
func targetExtent(ds *godal.Dataset, srcRef, dstRef *godal.SpatialRef) (orb.Bound, error) {
	gt, err := ds.GeoTransform()
	if err != nil {
		return orb.Bound{}, fmt.Errorf("source raster has no geotransform: %w", err)
	}
	st := ds.Structure()
	w, h := float64(st.SizeX), float64(st.SizeY)

	xs := make([]float64, 4)
	ys := make([]float64, 4)
	for i, c := range [][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		xs[i] = gt[0] + c[0]*gt[1] + c[1]*gt[2]
		ys[i] = gt[3] + c[0]*gt[4] + c[1]*gt[5]
	}

	if !srcRef.IsSame(dstRef) {
		tr, err := godal.NewTransform(srcRef, dstRef)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("failed to build coordinate transform: %w", err)
		}
		defer tr.Close()
		if err := tr.TransformEx(xs, ys, nil, nil); err != nil {
			return orb.Bound{}, fmt.Errorf("failed to project extent: %w", err)
		}
	}

	b := orb.Bound{Min: orb.Point{xs[0], ys[0]}, Max: orb.Point{xs[0], ys[0]}}
	for i := 1; i < 4; i++ {
		b = b.Extend(orb.Point{xs[i], ys[i]})
	}
	return b, nil
}
