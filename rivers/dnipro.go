package rivers

import (
	"log/slog"
	"sort"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/geodata"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// porohyMeters is the bank elevation difference marking rapids: where one
// bank of a river stands this much above the other the hex is rendered as
// open water rather than a drawn river.
const porohyMeters = 30

// maxSeaExtension caps the Dnipro chain's walk toward the coast.
const maxSeaExtension = 30

// dniproReservoirs are the cascade reservoirs on the main waterway,
// rendered as lake terrain. Kakhovka bounds are pre-2023.
var dniproReservoirs = map[string]hexgrid.Bounds{
	"Kyiv":       {MinLon: 30.0, MaxLon: 31.2, MinLat: 50.35, MaxLat: 51.4},
	"Kaniv":      {MinLon: 31.2, MaxLon: 31.7, MinLat: 49.55, MaxLat: 50.35},
	"Kremenchuk": {MinLon: 32.0, MaxLon: 33.8, MinLat: 48.85, MaxLat: 49.55},
	"Kamianske":  {MinLon: 34.0, MaxLon: 35.0, MinLat: 48.35, MaxLat: 48.85},
	"Dnipro":     {MinLon: 34.8, MaxLon: 35.3, MinLat: 47.65, MaxLat: 48.35},
	"Kakhovka":   {MinLon: 33.5, MaxLon: 35.2, MinLat: 46.65, MaxLat: 47.65},
}

// majorLakes are the largest natural lakes, rendered as lake terrain
// regardless of whether a river line passes through them.
var majorLakes = map[string]hexgrid.Bounds{
	"Sasyk":    {MinLon: 29.75, MaxLon: 30.0, MinLat: 45.85, MaxLat: 46.1},
	"Yalpuh":   {MinLon: 28.55, MaxLon: 28.85, MinLat: 45.25, MaxLat: 45.55},
	"Kahul":    {MinLon: 28.2, MaxLon: 28.55, MinLat: 45.35, MaxLat: 45.65},
	"Katlabuh": {MinLon: 28.4, MaxLon: 28.7, MinLat: 45.55, MaxLat: 45.85},
	"Svitiaz":  {MinLon: 23.8, MaxLon: 23.95, MinLat: 51.45, MaxLat: 51.55},
}

// Classification splits the river raster into the three rendering
// categories: regular rivers drawn with the river texture, lake hexes
// (natural lakes, reservoirs, rapids), and the Dnipro chain.
type Classification struct {
	Regular map[hexgrid.Coord]bool
	Lakes   map[hexgrid.Coord]bool

	// Dnipro is the main waterway as a contiguous chain ordered north to
	// south and extended until it touches the sea, rendered as lake
	// terrain so ships can navigate it.
	Dnipro []hexgrid.Coord
}

// LakeMask returns the per-hex mask of land hexes rendered as Lake
// terrain: natural lakes, reservoirs, rapids, and the Dnipro chain.
func (cl Classification) LakeMask(g *hexgrid.Grid) [][]bool {
	mask := make([][]bool, g.Height)
	for row := range mask {
		mask[row] = make([]bool, g.Width)
	}
	for c := range cl.Lakes {
		mask[c.Row][c.Col] = true
	}
	for _, c := range cl.Dnipro {
		mask[c.Row][c.Col] = true
	}
	return mask
}

// Classify rasterizes the rivers and splits the result into regular
// rivers, lake hexes, and the Dnipro chain. meters is the raw elevation
// grid used for rapids detection; land restricts everything to land hexes.
func Classify(g *hexgrid.Grid, rvs []geodata.River, meters [][]float64, land [][]bool) Classification {
	all := Rasterize(g, rvs)
	keepLand(all, land)
	CleanUp(g, all)

	var main []geodata.River
	for _, r := range rvs {
		if r.MainWaterway {
			main = append(main, r)
		}
	}
	dniproRaw := Rasterize(g, main)
	keepLand(dniproRaw, land)
	chain := dniproChain(g, dniproRaw, land)
	dnipro := make(map[hexgrid.Coord]bool, len(chain))
	for _, c := range chain {
		dnipro[c] = true
	}

	lakes := lakeBoxHexes(g, land)
	for c := range all {
		lon, lat := g.CenterLonLat(c)
		if inAnyBox(dniproReservoirs, lon, lat) {
			lakes[c] = true
		}
	}
	for c := range porohy(g, all, meters, land) {
		lakes[c] = true
	}
	for c := range dnipro {
		delete(lakes, c)
	}

	regular := make(map[hexgrid.Coord]bool, len(all))
	for c := range all {
		if !lakes[c] && !dnipro[c] {
			regular[c] = true
		}
	}

	slog.Info("rivers classified",
		"regular", len(regular), "lakes", len(lakes), "dnipro", len(chain))
	return Classification{Regular: regular, Lakes: lakes, Dnipro: chain}
}

func keepLand(hexes map[hexgrid.Coord]bool, land [][]bool) {
	if land == nil {
		return
	}
	for c := range hexes {
		if !land[c.Row][c.Col] {
			delete(hexes, c)
		}
	}
}

func inAnyBox(boxes map[string]hexgrid.Bounds, lon, lat float64) bool {
	for _, b := range boxes {
		if b.Contains(lon, lat) {
			return true
		}
	}
	return false
}

// lakeBoxHexes marks every land hex whose center falls inside one of the
// major natural lakes.
func lakeBoxHexes(g *hexgrid.Grid, land [][]bool) map[hexgrid.Coord]bool {
	lakes := make(map[hexgrid.Coord]bool)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if land != nil && !land[row][col] {
				continue
			}
			c := hexgrid.Coord{Col: col, Row: row}
			lon, lat := g.CenterLonLat(c)
			if inAnyBox(majorLakes, lon, lat) {
				lakes[c] = true
			}
		}
	}
	return lakes
}

// bankNeighbors splits a hex's neighbors into the east bank (NE, E, SE)
// and west bank (NW, W, SW) sides. For a river flowing south the east
// side is the left bank.
func bankNeighbors(g *hexgrid.Grid, c hexgrid.Coord) (east, west []hexgrid.Coord) {
	for _, nb := range g.Neighbors(c) {
		if !g.InBounds(nb.Coord) {
			continue
		}
		switch nb.Dir {
		case ukrmap.NorthEast, ukrmap.East, ukrmap.SouthEast:
			east = append(east, nb.Coord)
		default:
			west = append(west, nb.Coord)
		}
	}
	return east, west
}

// porohy detects rapids: river hexes where the average elevation of one
// bank stands at least porohyMeters above the other. Those hexes render
// as open water since a drawn river cannot convey the gorge.
func porohy(g *hexgrid.Grid, hexes map[hexgrid.Coord]bool, meters [][]float64, land [][]bool) map[hexgrid.Coord]bool {
	out := make(map[hexgrid.Coord]bool)
	if meters == nil {
		return out
	}
	bankAvg := func(banks []hexgrid.Coord) (float64, bool) {
		sum, n := 0.0, 0
		for _, b := range banks {
			if hexes[b] {
				continue
			}
			if land != nil && !land[b.Row][b.Col] {
				continue
			}
			if m := meters[b.Row][b.Col]; m > ukrmap.ElevationNoDataFloor {
				sum += m
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true
	}
	for c := range hexes {
		if land != nil && !land[c.Row][c.Col] {
			continue
		}
		east, west := bankNeighbors(g, c)
		e, okE := bankAvg(east)
		w, okW := bankAvg(west)
		if okE && okW && abs(e-w) >= porohyMeters {
			out[c] = true
		}
	}
	return out
}

// dniproChain orders the main waterway hexes into one contiguous chain
// from north to south, bridging holes in the source data and extending
// the mouth until it reaches the sea.
func dniproChain(g *hexgrid.Grid, hexes map[hexgrid.Coord]bool, land [][]bool) []hexgrid.Coord {
	if len(hexes) == 0 {
		return nil
	}
	sorted := make([]hexgrid.Coord, 0, len(hexes))
	for c := range hexes {
		sorted = append(sorted, c)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	chain := []hexgrid.Coord{sorted[0]}
	remaining := make(map[hexgrid.Coord]bool, len(hexes))
	for _, c := range sorted[1:] {
		remaining[c] = true
	}
	current := sorted[0]

	for len(remaining) > 0 {
		// nearest remaining hex, rewarding southward movement
		var next hexgrid.Coord
		best := -1.0
		for _, cand := range sorted {
			if !remaining[cand] {
				continue
			}
			dx := absInt(cand.Col - current.Col)
			dy := cand.Row - current.Row
			d := float64(dx + absInt(dy))
			if dy > 0 {
				d -= float64(dy) * 0.1
			}
			if best < 0 || d < best {
				best = d
				next = cand
			}
		}
		chain = append(chain, landPath(g, current, next, land)...)
		chain = append(chain, next)
		delete(remaining, next)
		current = next
	}

	if land != nil {
		chain = extendToSea(g, chain, land)
	}
	return ensureContiguous(g, chain, land)
}

// landPath returns the intermediate hexes of a shortest path across land
// between two hexes, or a straight interpolation when no land path exists.
func landPath(g *hexgrid.Grid, from, to hexgrid.Coord, land [][]bool) []hexgrid.Coord {
	for _, nb := range g.Neighbors(from) {
		if nb.Coord == to {
			return nil
		}
	}
	type node struct {
		c    hexgrid.Coord
		path []hexgrid.Coord
	}
	queue := []node{{c: from}}
	visited := map[hexgrid.Coord]bool{from: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.Neighbors(cur.c) {
			if nb.Coord == to {
				return cur.path
			}
			if !g.InBounds(nb.Coord) || visited[nb.Coord] {
				continue
			}
			if land != nil && !land[nb.Coord.Row][nb.Coord.Col] {
				continue
			}
			visited[nb.Coord] = true
			next := make([]hexgrid.Coord, len(cur.path), len(cur.path)+1)
			copy(next, cur.path)
			queue = append(queue, node{c: nb.Coord, path: append(next, nb.Coord)})
		}
	}

	// no land path; interpolate straight through
	var out []hexgrid.Coord
	dc, dr := to.Col-from.Col, to.Row-from.Row
	steps := max(absInt(dc), absInt(dr))
	for s := 1; s < steps; s++ {
		c := hexgrid.Coord{Col: from.Col + dc*s/steps, Row: from.Row + dr*s/steps}
		if g.InBounds(c) && (land == nil || land[c.Row][c.Col]) {
			out = append(out, c)
		}
	}
	return out
}

// extendToSea walks the chain's mouth southward until a neighbor is ocean.
func extendToSea(g *hexgrid.Grid, chain []hexgrid.Coord, land [][]bool) []hexgrid.Coord {
	if len(chain) == 0 {
		return chain
	}
	inChain := make(map[hexgrid.Coord]bool, len(chain))
	for _, c := range chain {
		inChain[c] = true
	}
	current := chain[len(chain)-1]

	for i := 0; i < maxSeaExtension; i++ {
		atCoast := false
		var next hexgrid.Coord
		bestScore := 0
		found := false
		for _, nb := range g.Neighbors(current) {
			if !g.InBounds(nb.Coord) {
				continue
			}
			if !land[nb.Coord.Row][nb.Coord.Col] {
				atCoast = true
				break
			}
			if inChain[nb.Coord] {
				continue
			}
			score := nb.Coord.Row*10 - absInt(nb.Coord.Col-current.Col)
			if !found || score > bestScore {
				bestScore = score
				next = nb.Coord
				found = true
			}
		}
		if atCoast {
			slog.Debug("dnipro chain reached the sea", "row", current.Row)
			return chain
		}
		if !found {
			break
		}
		chain = append(chain, next)
		inChain[next] = true
		current = next
	}
	slog.Warn("dnipro chain did not reach the sea", "row", current.Row)
	return chain
}

// ensureContiguous bridges any remaining non-adjacent steps in the chain.
func ensureContiguous(g *hexgrid.Grid, chain []hexgrid.Coord, land [][]bool) []hexgrid.Coord {
	if len(chain) <= 1 {
		return chain
	}
	out := chain[:1:1]
	for _, c := range chain[1:] {
		prev := out[len(out)-1]
		if hexgrid.Distance(prev, c) > 1 {
			out = append(out, landPath(g, prev, c, land)...)
		}
		out = append(out, c)
	}
	return out
}

// ChainLevels returns the elevation level for each Dnipro hex: one level
// below the lower of its two banks, floored at -1. Hexes with no usable
// bank default to shallow water.
func ChainLevels(g *hexgrid.Grid, chain []hexgrid.Coord, levels [][]ukrmap.ElevationLevel, land [][]bool) map[hexgrid.Coord]ukrmap.ElevationLevel {
	inChain := make(map[hexgrid.Coord]bool, len(chain))
	for _, c := range chain {
		inChain[c] = true
	}
	out := make(map[hexgrid.Coord]ukrmap.ElevationLevel, len(chain))
	for _, c := range chain {
		minBank := ukrmap.ElevationLevel(-1)
		found := false
		for _, nb := range g.Neighbors(c) {
			if !g.InBounds(nb.Coord) || inChain[nb.Coord] {
				continue
			}
			if land != nil && !land[nb.Coord.Row][nb.Coord.Col] {
				continue
			}
			lv := levels[nb.Coord.Row][nb.Coord.Col]
			if lv < 0 {
				continue
			}
			if !found || lv < minBank {
				minBank = lv
				found = true
			}
		}
		if !found {
			out[c] = -1
			continue
		}
		lv := minBank - 1
		if lv < -1 {
			lv = -1
		}
		out[c] = lv
	}
	return out
}
