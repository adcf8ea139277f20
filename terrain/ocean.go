package terrain

import (
	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// cliffMeters is the adjacent-land elevation above which a coastal hex is
// deepened: steep coasts (southern Crimea) drop off quickly.
const cliffMeters = 100

// azov is the Sea of Azov box; a shallow sea fixed at the lightest depth.
var azov = hexgrid.Bounds{MinLon: 34.5, MaxLon: 39.5, MinLat: 45.0, MaxLat: 47.5}

// OceanDepths assigns a depth level to every ocean hex from its hex
// distance to the nearest land:
//
//	<= 3 tiles from land  -> -1 (coastal shelf), or -2 off cliff coasts
//	<= 6 tiles            -> -2
//	farther               -> -3
func OceanDepths(g *hexgrid.Grid, meters [][]float64, land [][]bool) [][]ukrmap.ElevationLevel {
	const unvisited = -1
	dist := make([][]int, g.Height)
	for row := range dist {
		dist[row] = make([]int, g.Width)
		for col := range dist[row] {
			dist[row][col] = unvisited
		}
	}

	// multi-source BFS from every land hex
	queue := make([]hexgrid.Coord, 0, g.Width*g.Height/4)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if land[row][col] {
				dist[row][col] = 0
				queue = append(queue, hexgrid.Coord{Col: col, Row: row})
			}
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(cur) {
			if !g.InBounds(n.Coord) {
				continue
			}
			if dist[n.Coord.Row][n.Coord.Col] != unvisited {
				continue
			}
			dist[n.Coord.Row][n.Coord.Col] = dist[cur.Row][cur.Col] + 1
			queue = append(queue, n.Coord)
		}
	}

	depths := make([][]ukrmap.ElevationLevel, g.Height)
	for row := range depths {
		depths[row] = make([]ukrmap.ElevationLevel, g.Width)
		for col := range depths[row] {
			if land[row][col] {
				continue
			}
			c := hexgrid.Coord{Col: col, Row: row}
			d := dist[row][col]
			var level ukrmap.ElevationLevel
			switch {
			case d == unvisited: // no land anywhere on the grid
				level = -3
			case d <= 3:
				level = -1
				if nearCliff(g, meters, land, c) {
					level = -2
				}
			case d <= 6:
				level = -2
			default:
				level = -3
			}
			lon, lat := g.CenterLonLat(c)
			if azov.Contains(lon, lat) {
				level = -1
			}
			depths[row][col] = level
		}
	}
	return depths
}

func nearCliff(g *hexgrid.Grid, meters [][]float64, land [][]bool, c hexgrid.Coord) bool {
	for _, n := range g.Neighbors(c) {
		if !g.InBounds(n.Coord) {
			continue
		}
		if land[n.Coord.Row][n.Coord.Col] && meters[n.Coord.Row][n.Coord.Col] > cliffMeters {
			return true
		}
	}
	return false
}
