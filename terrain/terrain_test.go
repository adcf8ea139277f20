package terrain_test

import (
	"testing"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
	"github.com/ukrmap/ukrmap/terrain"
)

// classifyOne runs the classifier on a 1x1 grid.
func classifyOne(t *testing.T, level ukrmap.ElevationLevel, cover ukrmap.LandCoverClass, land, lake bool) *terrain.Assignment {
	t.Helper()
	g := hexgrid.New(1, 1, hexgrid.Bounds{MinLon: 0, MaxLon: 1, MinLat: 0, MaxLat: 1})
	in := terrain.Input{
		Levels:    [][]ukrmap.ElevationLevel{{level}},
		Cover:     [][]ukrmap.LandCoverClass{{cover}},
		Land:      [][]bool{{land}},
		RiverLake: [][]bool{{lake}},
		BiomeOf:   func(hexgrid.Coord) ukrmap.Biome { return ukrmap.Grassland },
	}
	return terrain.Classify(g, in)
}

func TestClassify(t *testing.T) {
	tt := map[string]struct {
		level ukrmap.ElevationLevel
		cover ukrmap.LandCoverClass
		land  bool
		lake  bool
		want  ukrmap.TerrainType
	}{
		"coastal water":         {-1, ukrmap.CoverOpenSea, false, false, ukrmap.CoastalWater},
		"open ocean":            {-3, ukrmap.CoverOpenSea, false, false, ukrmap.Ocean},
		"river lake":            {1, ukrmap.CoverHerbaceous, true, true, ukrmap.Lake},
		"snow peak":             {11, ukrmap.CoverBare, true, false, ukrmap.MountainSnow},
		"mountain":              {8, 111, true, false, ukrmap.Mountain},
		"rocky forest":          {5, 114, true, false, ukrmap.RockyForest},
		"rocky field":           {6, 121, true, false, ukrmap.RockyField},
		"closed forest lowland": {2, 112, true, false, ukrmap.Forest},
		"open forest lowland":   {2, 123, true, false, ukrmap.WoodLand},
		"cultivated":            {1, ukrmap.CoverCultivated, true, false, ukrmap.Prairie},
		"shrubs":                {0, ukrmap.CoverShrubs, true, false, ukrmap.DryGrass},
		"moss and lichen":       {3, ukrmap.CoverMossLichen, true, false, ukrmap.RockyField},
		"urban":                 {1, ukrmap.CoverUrban, true, false, ukrmap.CityTerrain},
		"water cover on land":   {0, ukrmap.CoverWater, true, false, ukrmap.Prairie},
		"wetland on land":       {0, ukrmap.CoverWetland, true, false, ukrmap.Prairie},
		"unknown class":         {1, 35, true, false, ukrmap.CityTerrain},
	}
	for name, tc := range tt {
		a := classifyOne(t, tc.level, tc.cover, tc.land, tc.lake)
		if got := a.Terrain[0][0]; got != tc.want {
			t.Errorf("%s: terrain = %v, want %v", name, got, tc.want)
		}
	}
}

func TestClassifyVariant(t *testing.T) {
	if a := classifyOne(t, 2, ukrmap.CoverCultivated, true, false); a.Variant[0][0] != uint8(ukrmap.Grassland) {
		t.Errorf("variant = %d, want the territory biome %d", a.Variant[0][0], uint8(ukrmap.Grassland))
	}
	// snow peaks ignore the biome variant
	if a := classifyOne(t, 12, ukrmap.CoverBare, true, false); a.Variant[0][0] != 0 {
		t.Errorf("snow variant = %d, want 0", a.Variant[0][0])
	}
}

// mountainFixture builds an all-land grid with mountains where level >= 7.
func mountainFixture(levels [][]ukrmap.ElevationLevel) *terrain.Assignment {
	h, w := len(levels), len(levels[0])
	g := hexgrid.New(w, h, hexgrid.Bounds{MinLon: 0, MaxLon: float64(w), MinLat: 0, MaxLat: float64(h)})
	land := make([][]bool, h)
	cover := make([][]ukrmap.LandCoverClass, h)
	for row := range land {
		land[row] = make([]bool, w)
		cover[row] = make([]ukrmap.LandCoverClass, w)
		for col := range land[row] {
			land[row][col] = true
			cover[row][col] = ukrmap.CoverHerbaceous
		}
	}
	return terrain.Classify(g, terrain.Input{Levels: levels, Cover: cover, Land: land})
}

func TestMountainChainFlags(t *testing.T) {
	// two mountains side by side: each flags the other
	a := mountainFixture([][]ukrmap.ElevationLevel{
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
		{1, 8, 8, 1, 1},
	})
	const (
		bitW = 1 << 2
		bitE = 1 << 3
	)
	if got := a.MountainFlags[2][1]; got != bitE {
		t.Errorf("west mountain flags = %06b, want east bit only", got)
	}
	if got := a.MountainFlags[2][2]; got != bitW {
		t.Errorf("east mountain flags = %06b, want west bit only", got)
	}
	// plains carry no flags
	if got := a.MountainFlags[0][0]; got != 0 {
		t.Errorf("plain flags = %d, want 0", got)
	}
}

func TestIsolatedMountain(t *testing.T) {
	a := mountainFixture([][]ukrmap.ElevationLevel{
		{1, 1, 1},
		{1, 9, 1},
		{1, 1, 1},
	})
	if got := a.MountainFlags[1][1]; got != 63 {
		t.Errorf("isolated mountain flags = %d, want 63", got)
	}
}

func TestMountainChainDiagonal(t *testing.T) {
	// odd row 1 col 1 has NE neighbor (2,0) and SE neighbor (2,2)
	a := mountainFixture([][]ukrmap.ElevationLevel{
		{1, 1, 11, 1},
		{1, 8, 1, 1},
		{1, 1, 8, 1},
	})
	const (
		bitNW = 1 << 0
		bitNE = 1 << 1
		bitSW = 1 << 4
		bitSE = 1 << 5
	)
	if got := a.MountainFlags[1][1]; got != bitNE|bitSE {
		t.Errorf("center flags = %06b, want NE|SE", got)
	}
	if got := a.MountainFlags[0][2]; got != bitSW {
		t.Errorf("top flags = %06b, want SW", got)
	}
	if got := a.MountainFlags[2][2]; got != bitNW {
		t.Errorf("bottom flags = %06b, want NW", got)
	}
}
