// Package terrain turns raw elevation samples and land-cover classes into
// the game's quantized elevation levels, terrain types, and biome variants.
package terrain

import (
	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// levelThresholds is the ordered quantization table. Intervals are
// half-open [min, max): a sample maps to the first entry whose max it is
// strictly below, so exactly 0 m is level 0 and exactly 1800 m is level 12.
var levelThresholds = []struct {
	max   float64
	level ukrmap.ElevationLevel
}{
	{-100, -3},
	{-50, -2},
	{0, -1},
	{50, 0},
	{100, 1},
	{150, 2},
	{200, 3},
	{300, 4},
	{400, 5},
	{600, 6},
	{800, 7},
	{1000, 8},
	{1200, 9},
	{1500, 10},
	{1800, 11},
}

// Quantize maps meters to an elevation level in [-3, 12].
// The table is total: every finite input returns exactly one level.
func Quantize(meters float64) ukrmap.ElevationLevel {
	for _, t := range levelThresholds {
		if meters < t.max {
			return t.level
		}
	}
	return ukrmap.MaxElevationLevel
}

// FillGaps replaces no-data samples on land hexes with the value of the
// nearest valid sample, flooding outward from valid cells. Ocean no-data
// is left alone; the ocean depth model covers it.
func FillGaps(g *hexgrid.Grid, meters [][]float64, land [][]bool) {
	type cell struct {
		c hexgrid.Coord
		v float64
	}
	queue := make([]cell, 0, g.Width*g.Height/4)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if meters[row][col] > ukrmap.ElevationNoDataFloor {
				queue = append(queue, cell{hexgrid.Coord{Col: col, Row: row}, meters[row][col]})
			}
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(cur.c) {
			if !g.InBounds(n.Coord) {
				continue
			}
			if !land[n.Coord.Row][n.Coord.Col] {
				continue
			}
			if meters[n.Coord.Row][n.Coord.Col] > ukrmap.ElevationNoDataFloor {
				continue
			}
			meters[n.Coord.Row][n.Coord.Col] = cur.v
			queue = append(queue, cell{n.Coord, cur.v})
		}
	}
}

// Levels quantizes per-hex elevation: land hexes through the threshold
// table (no-data gaps filled first), ocean hexes through the depth model.
func Levels(g *hexgrid.Grid, meters [][]float64, land [][]bool) [][]ukrmap.ElevationLevel {
	FillGaps(g, meters, land)
	depths := OceanDepths(g, meters, land)

	levels := make([][]ukrmap.ElevationLevel, g.Height)
	for row := range levels {
		levels[row] = make([]ukrmap.ElevationLevel, g.Width)
		for col := range levels[row] {
			if !land[row][col] {
				levels[row][col] = depths[row][col]
				continue
			}
			m := meters[row][col]
			if m <= ukrmap.ElevationNoDataFloor {
				// a fully disconnected land pocket with no valid sample
				// anywhere; treat as low plain rather than leaving unset
				m = 50
			}
			levels[row][col] = Quantize(m)
		}
	}
	return levels
}
