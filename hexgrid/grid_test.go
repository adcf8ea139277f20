package hexgrid_test

import (
	"fmt"
	"testing"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
)

var ukraineBounds = hexgrid.Bounds{MinLon: 22.0, MaxLon: 40.5, MinLat: 44.0, MaxLat: 52.5}

func TestNeighborSymmetry(t *testing.T) {
	g := hexgrid.New(12, 10, ukraineBounds)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			h := hexgrid.Coord{Col: col, Row: row}
			for _, n := range g.Neighbors(h) {
				if !g.InBounds(n.Coord) {
					continue
				}
				back := false
				for _, nn := range g.Neighbors(n.Coord) {
					if nn.Coord == h {
						back = true
						if nn.Dir != n.Dir.Opposite() {
							t.Errorf("%v -> %v via %v, but reverse edge is %v, want %v",
								h, n.Coord, n.Dir, nn.Dir, n.Dir.Opposite())
						}
					}
				}
				if !back {
					t.Errorf("%v has neighbor %v, but not vice versa", h, n.Coord)
				}
			}
		}
	}
}

func TestNeighborOffsets(t *testing.T) {
	g := hexgrid.New(10, 10, ukraineBounds)
	tt := map[string]struct {
		from hexgrid.Coord
		dir  ukrmap.Direction
		want hexgrid.Coord
	}{
		"even row east":       {hexgrid.Coord{4, 4}, ukrmap.East, hexgrid.Coord{5, 4}},
		"even row south-east": {hexgrid.Coord{4, 4}, ukrmap.SouthEast, hexgrid.Coord{4, 5}},
		"even row south-west": {hexgrid.Coord{4, 4}, ukrmap.SouthWest, hexgrid.Coord{3, 5}},
		"even row north-east": {hexgrid.Coord{4, 4}, ukrmap.NorthEast, hexgrid.Coord{4, 3}},
		"even row north-west": {hexgrid.Coord{4, 4}, ukrmap.NorthWest, hexgrid.Coord{3, 3}},
		"odd row east":        {hexgrid.Coord{4, 5}, ukrmap.East, hexgrid.Coord{5, 5}},
		"odd row south-east":  {hexgrid.Coord{4, 5}, ukrmap.SouthEast, hexgrid.Coord{5, 6}},
		"odd row south-west":  {hexgrid.Coord{4, 5}, ukrmap.SouthWest, hexgrid.Coord{4, 6}},
		"odd row north-east":  {hexgrid.Coord{4, 5}, ukrmap.NorthEast, hexgrid.Coord{5, 4}},
		"odd row north-west":  {hexgrid.Coord{4, 5}, ukrmap.NorthWest, hexgrid.Coord{4, 4}},
	}
	for name, tc := range tt {
		got := g.Neighbors(tc.from)[tc.dir]
		if got.Coord != tc.want {
			t.Errorf("%s: neighbor of %v in %v = %v, want %v", name, tc.from, tc.dir, got.Coord, tc.want)
		}
	}
}

func TestPixelRoundTrip(t *testing.T) {
	g := hexgrid.New(20, 16, ukraineBounds)
	g.SetHexSize(10)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			h := hexgrid.Coord{Col: col, Row: row}
			x, y := g.Center(h)
			if got := g.PixelToHex(x, y); got != h {
				t.Fatalf("PixelToHex(Center(%v)) = %v", h, got)
			}
		}
	}
}

func TestGeoToHexClamping(t *testing.T) {
	g := hexgrid.New(150, 88, ukraineBounds)
	tt := map[string]struct {
		lon, lat float64
		want     hexgrid.Coord
	}{
		"north-west corner": {22.0, 52.5, hexgrid.Coord{0, 0}},
		"beyond west":       {10.0, 50.0, hexgrid.Coord{0, g.GeoToHex(22.0, 50.0).Row}},
		"beyond south-east": {45.0, 40.0, hexgrid.Coord{149, 87}},
	}
	for name, tc := range tt {
		got := g.GeoToHex(tc.lon, tc.lat)
		if got != tc.want {
			t.Errorf("%s: GeoToHex(%v, %v) = %v, want %v", name, tc.lon, tc.lat, got, tc.want)
		}
		if !g.InBounds(got) {
			t.Errorf("%s: result %v out of grid bounds", name, got)
		}
	}
}

func TestCenterLonLatInsideCell(t *testing.T) {
	g := hexgrid.New(150, 88, ukraineBounds)
	for _, h := range []hexgrid.Coord{{0, 0}, {74, 44}, {149, 87}} {
		lon, lat := g.CenterLonLat(h)
		if got := g.GeoToHex(lon, lat); got != h {
			t.Errorf("GeoToHex(CenterLonLat(%v)) = %v", h, got)
		}
	}
}

func TestDistance(t *testing.T) {
	tt := map[string]struct {
		a, b hexgrid.Coord
		want int
	}{
		"same hex":       {hexgrid.Coord{3, 3}, hexgrid.Coord{3, 3}, 0},
		"east neighbor":  {hexgrid.Coord{3, 3}, hexgrid.Coord{4, 3}, 1},
		"diagonal":       {hexgrid.Coord{0, 0}, hexgrid.Coord{2, 2}, 3},
		"same column":    {hexgrid.Coord{5, 0}, hexgrid.Coord{5, 4}, 4},
		"across the row": {hexgrid.Coord{0, 2}, hexgrid.Coord{7, 2}, 7},
	}
	for name, tc := range tt {
		if got := hexgrid.Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Distance(%v, %v) = %d, want %d", name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFitHexSize(t *testing.T) {
	size := hexgrid.FitHexSize(ukraineBounds, 150, 88)
	if size <= 0 {
		t.Fatalf("FitHexSize returned %v", size)
	}
	// the Ukraine box is roughly 1400km wide; 150 columns of pointy-top
	// hexes put the radius somewhere in the 3-7km band
	if size < 3000 || size > 7000 {
		t.Errorf("hex size %v m outside plausible band", size)
	}
}

func ExampleFileRow() {
	fmt.Println(hexgrid.FileRow(0, 88))
	fmt.Println(hexgrid.FileRow(87, 88))
	fmt.Println(hexgrid.FileRow(hexgrid.FileRow(31, 88), 88))
	// Output:
	// 87
	// 0
	// 31
}
