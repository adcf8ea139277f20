package territory_test

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/geodata"
	"github.com/ukrmap/ukrmap/hexgrid"
	"github.com/ukrmap/ukrmap/territory"
)

// rect builds a rectangular raion.
func rect(name, oblast string, minLon, minLat, maxLon, maxLat float64) geodata.Raion {
	return geodata.Raion{
		Name:   name,
		Oblast: oblast,
		Geometry: orb.MultiPolygon{orb.Polygon{orb.Ring{
			{minLon, minLat},
			{maxLon, minLat},
			{maxLon, maxLat},
			{minLon, maxLat},
			{minLon, minLat},
		}}},
	}
}

var wideOpen = territory.Config{
	MinHexes:      5,
	MaxUndersized: 0,
	CoverageMin:   0.0,
	CoverageMax:   1.0,
}

func TestAssignSingleLandPolygon(t *testing.T) {
	g := hexgrid.New(10, 8, hexgrid.Bounds{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 8})
	raions := []geodata.Raion{rect("Landia", "Kyivska", 3, 3, 7, 5)}

	a, err := territory.Assign(g, raions, wideOpen)
	if err != nil {
		t.Fatal(err)
	}

	land, ocean := 0, 0
	maxIdx := 0
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			idx := a.At(hexgrid.Coord{Col: col, Row: row})
			if idx < 0 || idx >= len(a.Territories) {
				t.Fatalf("hex (%d,%d) has territory %d outside the territory list", col, row, idx)
			}
			if idx == territory.OceanIndex {
				ocean++
			} else {
				land++
			}
			if idx > maxIdx {
				maxIdx = idx
			}
		}
	}
	if land != 8 {
		t.Errorf("land hexes = %d, want 8", land)
	}
	if ocean != 72 {
		t.Errorf("ocean hexes = %d, want 72", ocean)
	}
	if maxIdx != 1 {
		t.Errorf("max territory index = %d, want 1", maxIdx)
	}
	if a.Territories[1].HexCount != 8 {
		t.Errorf("territory 1 hex count = %d, want 8", a.Territories[1].HexCount)
	}

	// the hexes must be exactly cols 3..6, rows 3..4
	for row := 3; row <= 4; row++ {
		for col := 3; col <= 6; col++ {
			if !a.IsLand(hexgrid.Coord{Col: col, Row: row}) {
				t.Errorf("hex (%d,%d) not assigned to land", col, row)
			}
		}
	}
}

func TestAssignReportsOverlap(t *testing.T) {
	g := hexgrid.New(10, 8, hexgrid.Bounds{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 8})
	raions := []geodata.Raion{
		rect("A", "Kyivska", 2, 2, 6, 6),
		rect("B", "Kyivska", 4, 2, 8, 6),
	}
	var dqe *geodata.DataQualityError
	_, err := territory.Assign(g, raions, wideOpen)
	if !errors.As(err, &dqe) {
		t.Fatalf("Assign = %v, want DataQualityError for overlapping polygons", err)
	}
}

func TestAssignCoverageViolation(t *testing.T) {
	g := hexgrid.New(10, 8, hexgrid.Bounds{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 8})
	raions := []geodata.Raion{rect("Tiny", "Kyivska", 3, 3, 7, 5)}

	cfg := wideOpen
	cfg.MinHexes = 20 // the polygon can only ever produce 8

	a, err := territory.Assign(g, raions, cfg)
	var cv *territory.CoverageViolation
	if !errors.As(err, &cv) {
		t.Fatalf("Assign = %v, want CoverageViolation", err)
	}
	if a == nil {
		t.Fatal("assignment not preserved alongside the violation")
	}
	if len(cv.Undersized) != 1 || cv.Undersized[0] != "Tiny" {
		t.Errorf("undersized = %v, want [Tiny]", cv.Undersized)
	}
}

func TestAssignCoverageBand(t *testing.T) {
	g := hexgrid.New(10, 8, hexgrid.Bounds{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 8})
	raions := []geodata.Raion{rect("Landia", "Kyivska", 3, 3, 7, 5)}

	cfg := wideOpen
	cfg.CoverageMin = 0.5 // 8/80 is far below half land

	_, err := territory.Assign(g, raions, cfg)
	var cv *territory.CoverageViolation
	if !errors.As(err, &cv) {
		t.Fatalf("Assign = %v, want CoverageViolation", err)
	}
	if cv.LandCoverage != 0.1 {
		t.Errorf("land coverage = %v, want 0.1", cv.LandCoverage)
	}
}

func TestAssignIsland(t *testing.T) {
	g := hexgrid.New(10, 8, hexgrid.Bounds{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 8})
	raions := []geodata.Raion{rect("Landia", "Kyivska", 3, 3, 7, 5)}

	cfg := wideOpen
	cfg.Islands = []territory.Island{{Name: "Zmiinyi", Oblast: "Odeska", Lon: 8.5, Lat: 1.5}}

	a, err := territory.Assign(g, raions, cfg)
	if err != nil {
		t.Fatal(err)
	}
	island := a.Territories[len(a.Territories)-1]
	if island.Name != "Zmiinyi" {
		t.Fatalf("last territory = %q, want the island", island.Name)
	}
	if island.HexCount != 1 {
		t.Errorf("island hex count = %d, want 1", island.HexCount)
	}
	if island.Biome != ukrmap.Mediterranean {
		t.Errorf("island biome = %v, want Mediterranean", island.Biome)
	}
	if got := a.At(g.GeoToHex(8.5, 1.5)); got != island.Index {
		t.Errorf("island hex assigned to %d, want %d", got, island.Index)
	}
}

func TestBiomeFor(t *testing.T) {
	tt := map[string]struct {
		oblast string
		want   ukrmap.Biome
	}{
		"polissia":  {"Zhytomyrska", ukrmap.Taiga},
		"steppe":    {"Dnipropetrovska", ukrmap.Grassland},
		"dry south": {"Khersonska", ukrmap.Savanna},
		"coast":     {"Odeska", ukrmap.Mediterranean},
		"default":   {"Lvivska", ukrmap.Temperate},
	}
	for name, tc := range tt {
		if got := territory.BiomeFor(tc.oblast); got != tc.want {
			t.Errorf("%s: BiomeFor(%q) = %v, want %v", name, tc.oblast, got, tc.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	g := hexgrid.New(10, 8, hexgrid.Bounds{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 8})
	raions := []geodata.Raion{rect("Landia", "Kyivska", 3, 3, 7, 5)}
	a, err := territory.Assign(g, raions, wideOpen)
	if err != nil {
		t.Fatal(err)
	}
	s := territory.Summarize(a)
	if s.LandHexes != 8 || s.OceanHexes != 72 {
		t.Errorf("land/ocean = %d/%d, want 8/72", s.LandHexes, s.OceanHexes)
	}
	if s.LandCoverage != 0.1 {
		t.Errorf("coverage = %v, want 0.1", s.LandCoverage)
	}
	if s.Largest.Name != "Landia" {
		t.Errorf("largest = %q, want Landia", s.Largest.Name)
	}
}
