package features

import (
	"log/slog"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// Wonder maps a real Ukrainian landmark to one of the game's natural
// wonders. Radius is in hexes; a wonder covers every land hex within it.
type Wonder struct {
	Name     string
	Landmark string
	Lon      float64
	Lat      float64
	Radius   int
}

// Wonders is the built-in wonder list for the Ukraine map.
var Wonders = []Wonder{
	{Name: "KawahIjen", Landmark: "Lake Synevyr", Lon: 23.683, Lat: 48.617, Radius: 1},
	{Name: "MountMulu", Landmark: "Marble Cave", Lon: 34.28, Lat: 44.80, Radius: 1},
	{Name: "HalongBay", Landmark: "Cape Fiolent", Lon: 33.49, Lat: 44.50, Radius: 2},
	{Name: "MountEverest", Landmark: "Mount Hoverla", Lon: 24.5003, Lat: 48.1603, Radius: 2},
	{Name: "Yellowstone", Landmark: "Askania-Nova", Lon: 33.87, Lat: 46.45, Radius: 2},
	{Name: "MountRoraima", Landmark: "Aktovsky Canyon", Lon: 31.45, Lat: 47.72, Radius: 1},
	{Name: "ChocolateHills", Landmark: "Donbas terricones", Lon: 38.10, Lat: 48.30, Radius: 2},
}

// nearestLandRange bounds the search for a land hex when a wonder's
// anchor falls in water.
const nearestLandRange = 3

// PlaceWonders returns the per-hex wonder index grid (1-based indices into
// the wonder name table, NoWonder elsewhere). Anchors in water shift to
// the nearest land hex within range; wonders with no land nearby are
// dropped with a warning.
func PlaceWonders(g *hexgrid.Grid, wonders []Wonder, land [][]bool) [][]uint8 {
	out := make([][]uint8, g.Height)
	for row := range out {
		out[row] = make([]uint8, g.Width)
		for col := range out[row] {
			out[row][col] = ukrmap.NoWonder
		}
	}

	for _, w := range wonders {
		idx := wonderIndex(w.Name)
		if idx == 0 {
			slog.Warn("unknown natural wonder, skipped", "wonder", w.Name)
			continue
		}

		center := g.GeoToHex(w.Lon, w.Lat)
		if land != nil && !land[center.Row][center.Col] {
			adjusted, ok := nearestLand(g, center, land)
			if !ok {
				slog.Warn("no land near wonder anchor, dropped",
					"wonder", w.Name, "landmark", w.Landmark, "hex", center)
				continue
			}
			slog.Debug("wonder anchor in water, adjusted",
				"wonder", w.Name, "from", center, "to", adjusted)
			center = adjusted
		}

		hexes := 0
		for _, c := range hexCircle(g, center, w.Radius) {
			if land != nil && !land[c.Row][c.Col] {
				continue
			}
			out[c.Row][c.Col] = uint8(idx)
			hexes++
		}
		slog.Info("placed natural wonder",
			"wonder", w.Name, "landmark", w.Landmark, "center", center, "hexes", hexes)
	}
	return out
}

// wonderIndex returns the 1-based index of a wonder name, 0 if unknown.
func wonderIndex(name string) int {
	for i, n := range ukrmap.NaturalWonderNames {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// hexCircle returns the in-bounds hexes within radius of the center,
// using the coarse offset-distance test |dr|+|dc| <= radius + radius/2.
func hexCircle(g *hexgrid.Grid, center hexgrid.Coord, radius int) []hexgrid.Coord {
	var out []hexgrid.Coord
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if abs(dr)+abs(dc) > radius+radius/2 {
				continue
			}
			c := hexgrid.Coord{Col: center.Col + dc, Row: center.Row + dr}
			if g.InBounds(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// nearestLand scans a small window around the center, nearest row first,
// for a hex on land.
func nearestLand(g *hexgrid.Grid, center hexgrid.Coord, land [][]bool) (hexgrid.Coord, bool) {
	for dr := -nearestLandRange; dr <= nearestLandRange; dr++ {
		for dc := -nearestLandRange; dc <= nearestLandRange; dc++ {
			c := hexgrid.Coord{Col: center.Col + dc, Row: center.Row + dr}
			if g.InBounds(c) && land[c.Row][c.Col] {
				return c, true
			}
		}
	}
	return hexgrid.Coord{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
