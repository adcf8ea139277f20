package terrain_test

import (
	"math"
	"testing"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
	"github.com/ukrmap/ukrmap/terrain"
)

func TestQuantize(t *testing.T) {
	tt := map[string]struct {
		meters float64
		want   ukrmap.ElevationLevel
	}{
		"deep ocean":          {-150, -3},
		"shelf":               {-75, -2},
		"shallow":             {-10, -1},
		"exactly -100":        {-100, -2}, // lower bound is inclusive
		"exactly -50":         {-50, -1},
		"exactly 0":           {0, 0}, // sea level is land level 0
		"just below 0":        {-0.001, -1},
		"kyiv":                {170, 3},
		"exactly 1800":        {1800, 12},
		"hoverla":             {2061, 12},
		"himalayan":           {8848, 12},
		"exactly 50":          {50, 1},
		"steppe":              {120, 2},
		"carpathian foothill": {650, 7},
	}
	for name, tc := range tt {
		if got := terrain.Quantize(tc.meters); got != tc.want {
			t.Errorf("%s: Quantize(%v) = %d, want %d", name, tc.meters, got, tc.want)
		}
	}
}

func TestQuantizeTotality(t *testing.T) {
	// every finite input must land on exactly one level in [-3, 12]
	for m := -12000.0; m <= 12000.0; m += 7.3 {
		lvl := terrain.Quantize(m)
		if !lvl.Valid() {
			t.Fatalf("Quantize(%v) = %d outside [-3, 12]", m, lvl)
		}
	}
	if lvl := terrain.Quantize(math.MaxFloat64); lvl != 12 {
		t.Errorf("Quantize(max float) = %d, want 12", lvl)
	}
	if lvl := terrain.Quantize(-math.MaxFloat64); lvl != -3 {
		t.Errorf("Quantize(-max float) = %d, want -3", lvl)
	}
}

// smallGrid builds a 6x4 grid with a 2x2 land block in the middle-left.
func smallGrid() (*hexgrid.Grid, [][]bool) {
	g := hexgrid.New(6, 4, hexgrid.Bounds{MinLon: 0, MaxLon: 6, MinLat: 0, MaxLat: 4})
	land := make([][]bool, g.Height)
	for row := range land {
		land[row] = make([]bool, g.Width)
	}
	land[1][1], land[1][2], land[2][1], land[2][2] = true, true, true, true
	return g, land
}

func TestFillGaps(t *testing.T) {
	g, land := smallGrid()
	meters := [][]float64{
		{ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData},
		{ukrmap.ElevationNoData, 200, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData},
		{ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData},
		{ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData, ukrmap.ElevationNoData},
	}
	terrain.FillGaps(g, meters, land)

	for _, c := range []hexgrid.Coord{{Col: 1, Row: 1}, {Col: 2, Row: 1}, {Col: 1, Row: 2}, {Col: 2, Row: 2}} {
		if meters[c.Row][c.Col] != 200 {
			t.Errorf("land gap at %v = %v, want 200 from the valid neighbor", c, meters[c.Row][c.Col])
		}
	}
	// ocean no-data stays untouched
	if meters[0][0] != ukrmap.ElevationNoData {
		t.Errorf("ocean no-data was filled: %v", meters[0][0])
	}
}

func TestOceanDepthBanding(t *testing.T) {
	// a single land hex on a wide grid produces depth rings around it
	g := hexgrid.New(20, 9, hexgrid.Bounds{MinLon: 0, MaxLon: 20, MinLat: 0, MaxLat: 9})
	land := make([][]bool, g.Height)
	meters := make([][]float64, g.Height)
	for row := range land {
		land[row] = make([]bool, g.Width)
		meters[row] = make([]float64, g.Width)
		for col := range meters[row] {
			meters[row][col] = ukrmap.ElevationNoData
		}
	}
	land[4][2] = true
	meters[4][2] = 30

	depths := terrain.OceanDepths(g, meters, land)

	tt := map[string]struct {
		c    hexgrid.Coord
		want ukrmap.ElevationLevel
	}{
		"adjacent":     {hexgrid.Coord{Col: 3, Row: 4}, -1},
		"three away":   {hexgrid.Coord{Col: 5, Row: 4}, -1},
		"four away":    {hexgrid.Coord{Col: 6, Row: 4}, -2},
		"six away":     {hexgrid.Coord{Col: 8, Row: 4}, -2},
		"seven away":   {hexgrid.Coord{Col: 9, Row: 4}, -3},
		"far corner":   {hexgrid.Coord{Col: 19, Row: 8}, -3},
	}
	for name, tc := range tt {
		if got := depths[tc.c.Row][tc.c.Col]; got != tc.want {
			t.Errorf("%s: depth at %v = %d, want %d", name, tc.c, got, tc.want)
		}
	}
}

func TestOceanDepthAzovShallow(t *testing.T) {
	// the Sea of Azov stays a shallow shelf no matter how far from land
	g := hexgrid.New(20, 8, hexgrid.Bounds{MinLon: 30, MaxLon: 40, MinLat: 44, MaxLat: 48})
	land := make([][]bool, g.Height)
	meters := make([][]float64, g.Height)
	for row := range land {
		land[row] = make([]bool, g.Width)
		meters[row] = make([]float64, g.Width)
		for col := range meters[row] {
			meters[row][col] = ukrmap.ElevationNoData
		}
	}
	land[4][0] = true
	meters[4][0] = 30

	depths := terrain.OceanDepths(g, meters, land)

	// hex (15,4) centers at 37.75E 45.75N, inside the box and 15 hexes
	// from the only land
	if got := depths[4][15]; got != -1 {
		t.Errorf("azov depth = %d, want -1", got)
	}
	// the same distance outside the box gets the deep-water band
	if got := depths[0][15]; got != -3 {
		t.Errorf("open sea depth = %d, want -3", got)
	}
}

func TestOceanDepthCliffCoast(t *testing.T) {
	g, land := smallGrid()
	meters := make([][]float64, g.Height)
	for row := range meters {
		meters[row] = make([]float64, g.Width)
		for col := range meters[row] {
			meters[row][col] = ukrmap.ElevationNoData
		}
	}
	meters[1][1], meters[1][2], meters[2][1], meters[2][2] = 500, 500, 500, 500

	depths := terrain.OceanDepths(g, meters, land)
	// hex east of the 500m block sits off a cliff coast
	if got := depths[1][3]; got != -2 {
		t.Errorf("cliff coast depth = %d, want -2", got)
	}
}
