package territory

import "github.com/ukrmap/ukrmap"

// Summary describes the size distribution of an assignment,
// surfaced to the caller at the end of a run.
type Summary struct {
	// HexCount is the number of hexes per territory index.
	HexCount map[int]int

	// BiomeCount is the number of land territories per biome.
	BiomeCount map[ukrmap.Biome]int

	LandHexes    int
	OceanHexes   int
	LandCoverage float64

	Smallest Territory
	Largest  Territory
}

// Summarize computes assignment statistics.
func Summarize(a *Assignment) Summary {
	s := Summary{
		HexCount:   map[int]int{},
		BiomeCount: map[ukrmap.Biome]int{},
	}
	for _, t := range a.Territories {
		s.HexCount[t.Index] = t.HexCount
		if t.IsOcean {
			s.OceanHexes += t.HexCount
			continue
		}
		s.LandHexes += t.HexCount
		s.BiomeCount[t.Biome]++
		if s.Smallest.HexCount == 0 || (t.HexCount > 0 && t.HexCount < s.Smallest.HexCount) {
			s.Smallest = t
		}
		if t.HexCount > s.Largest.HexCount {
			s.Largest = t
		}
	}
	total := a.Grid.Width * a.Grid.Height
	if total > 0 {
		s.LandCoverage = float64(s.LandHexes) / float64(total)
	}
	return s
}
