package terrain

import (
	"log/slog"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// Assignment is the per-hex terrain classification.
type Assignment struct {
	Terrain [][]ukrmap.TerrainType
	Variant [][]uint8 // biome variant, 0..15

	// MountainFlags is the per-hex bitmask of adjacent mountain
	// directions used by the game's procedural mountain chains.
	// Zero everywhere except mountain hexes.
	MountainFlags [][]uint8
}

// Input bundles everything the classifier consumes.
type Input struct {
	Levels [][]ukrmap.ElevationLevel
	Cover  [][]ukrmap.LandCoverClass
	Land   [][]bool

	// RiverLake marks land hexes rendered as lake by the river tracer.
	// May be nil when classifying before rivers are traced.
	RiverLake [][]bool

	// BiomeOf returns the biome of the hex's territory.
	BiomeOf func(hexgrid.Coord) ukrmap.Biome
}

// mountain chain flag bits by edge direction. This bit order is the
// game's, and differs from the exit-edge numbering.
var chainBits = map[ukrmap.Direction]uint8{
	ukrmap.NorthWest: 1 << 0,
	ukrmap.NorthEast: 1 << 1,
	ukrmap.West:      1 << 2,
	ukrmap.East:      1 << 3,
	ukrmap.SouthWest: 1 << 4,
	ukrmap.SouthEast: 1 << 5,
}

// isolatedMountain is the flag value for a mountain with no mountain
// neighbors, rendered as a single peak.
const isolatedMountain uint8 = 63

// Classify derives terrain type, biome variant and mountain-chain flags
// for every hex.
//
// Water wins first: ocean hexes become Ocean or CoastalWater by depth and
// river-lake hexes become Lake. On land, high elevation overrides land
// cover (snow peaks, mountains, rocky uplands), then the land-cover table
// decides. Water-cover classes on hexes the territory map calls land fall
// back to Prairie; unmapped classes fall back to CityTerrain with a logged
// warning.
func Classify(g *hexgrid.Grid, in Input) *Assignment {
	a := &Assignment{
		Terrain:       make([][]ukrmap.TerrainType, g.Height),
		Variant:       make([][]uint8, g.Height),
		MountainFlags: make([][]uint8, g.Height),
	}
	unmapped := map[ukrmap.LandCoverClass]int{}

	for row := 0; row < g.Height; row++ {
		a.Terrain[row] = make([]ukrmap.TerrainType, g.Width)
		a.Variant[row] = make([]uint8, g.Width)
		a.MountainFlags[row] = make([]uint8, g.Width)
		for col := 0; col < g.Width; col++ {
			c := hexgrid.Coord{Col: col, Row: row}
			t := classifyHex(in, c, unmapped)
			a.Terrain[row][col] = t
			switch {
			case t == ukrmap.MountainSnow:
				// snow peaks always use the base variant
				a.Variant[row][col] = 0
			case in.BiomeOf != nil:
				a.Variant[row][col] = uint8(in.BiomeOf(c)) & 0x0f
			}
		}
	}

	for class, n := range unmapped {
		slog.Warn("unmapped land-cover class defaulted", "class", uint8(class), "hexes", n)
	}

	a.markMountainChains(g)
	return a
}

func classifyHex(in Input, c hexgrid.Coord, unmapped map[ukrmap.LandCoverClass]int) ukrmap.TerrainType {
	row, col := c.Row, c.Col
	if !in.Land[row][col] {
		if in.Levels[row][col] == -1 {
			return ukrmap.CoastalWater
		}
		return ukrmap.Ocean
	}
	if in.RiverLake != nil && in.RiverLake[row][col] {
		return ukrmap.Lake
	}

	level := in.Levels[row][col]
	cover := in.Cover[row][col]
	switch {
	case level >= 10:
		return ukrmap.MountainSnow
	case level >= 7:
		return ukrmap.Mountain
	case level >= 5:
		if cover.IsClosedForest() {
			return ukrmap.RockyForest
		}
		return ukrmap.RockyField
	}

	t, ok := cover.Terrain()
	if !ok {
		unmapped[cover]++
		return ukrmap.CityTerrain
	}
	if t.IsWater() {
		// the land mask is authoritative; water cover inside a raion is
		// a reservoir shore or stale raster data
		return ukrmap.Prairie
	}
	return t
}

// markMountainChains sets the adjacency bitmask on every mountain hex.
func (a *Assignment) markMountainChains(g *hexgrid.Grid) {
	isMountain := func(c hexgrid.Coord) bool {
		t := a.Terrain[c.Row][c.Col]
		return t == ukrmap.Mountain || t == ukrmap.MountainSnow
	}
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c := hexgrid.Coord{Col: col, Row: row}
			if !isMountain(c) {
				continue
			}
			var flags uint8
			for _, n := range g.Neighbors(c) {
				if g.InBounds(n.Coord) && isMountain(n.Coord) {
					flags |= chainBits[n.Dir]
				}
			}
			if flags == 0 {
				flags = isolatedMountain
			}
			a.MountainFlags[row][col] = flags
		}
	}
}
