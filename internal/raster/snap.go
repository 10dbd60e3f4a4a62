// =============================================================================
// RSS Export Tool - Snap Grid Alignment
// =============================================================================

package raster

import (
	"math"

	"github.com/paulmach/orb"
)

// The national snap raster pins cell edges to a 10 meter grid whose
// origin is shifted half a cell, so edge coordinates end in 5.
const (
	CellSize   = 10.0
	gridOffset = 5.0
)

// SnapCoord moves a coordinate onto the nearest snap grid line.
func SnapCoord(coord float64) float64 {
	c := coord + gridOffset
	// Floored modulo, so westing and southing coordinates snap the same
	// way as positive ones.
	m := math.Mod(c, CellSize)
	if m < 0 {
		m += CellSize
	}
	cells := math.Floor(c/CellSize) + math.Round(m/CellSize)
	return cells*CellSize - gridOffset
}

// SnapBound aligns all four edges of an extent to the snap grid.
func SnapBound(b orb.Bound) orb.Bound {
	return orb.Bound{
		Min: orb.Point{SnapCoord(b.Min[0]), SnapCoord(b.Min[1])},
		Max: orb.Point{SnapCoord(b.Max[0]), SnapCoord(b.Max[1])},
	}
}
