// Package rivers rasterizes river polylines onto the hex grid, cleans up
// the raster, and traces the result into ordered segments with downstream
// exit edges for the rivers texture.
package rivers

import (
	"log/slog"

	"github.com/Travis-Britz/structures/stack"
	"github.com/paulmach/orb"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/geodata"
	"github.com/ukrmap/ukrmap/hexgrid"
)

const (
	// minComponentSize drops isolated raster noise: a river shorter than
	// this many connected hexes is not worth drawing at this scale.
	minComponentSize = 3

	// maxEndpointGap is the largest hole between two segment endpoints
	// that the join pass will bridge.
	maxEndpointGap = 3

	joinPasses = 3
)

// Trace is the per-hex river data written into the rivers texture.
// Non-river hexes hold the sentinel triple (255, 255, 6).
type Trace struct {
	SegmentID [][]uint8
	Position  [][]uint8
	ExitEdge  [][]uint8

	// Segments is the number of segment ids assigned.
	Segments int
}

// NewTrace returns a trace with every hex set to the no-river sentinel.
func NewTrace(g *hexgrid.Grid) *Trace {
	t := &Trace{
		SegmentID: make([][]uint8, g.Height),
		Position:  make([][]uint8, g.Height),
		ExitEdge:  make([][]uint8, g.Height),
	}
	for row := 0; row < g.Height; row++ {
		t.SegmentID[row] = make([]uint8, g.Width)
		t.Position[row] = make([]uint8, g.Width)
		t.ExitEdge[row] = make([]uint8, g.Width)
		for col := 0; col < g.Width; col++ {
			t.SegmentID[row][col] = ukrmap.NoRiverSegment
			t.Position[row][col] = ukrmap.NoRiverPosition
			t.ExitEdge[row][col] = uint8(ukrmap.NoDirection)
		}
	}
	return t
}

// IsRiver reports whether the hex carries river data.
func (t *Trace) IsRiver(c hexgrid.Coord) bool {
	return t.SegmentID[c.Row][c.Col] != ukrmap.NoRiverSegment
}

// Rasterize walks every river polyline and marks the hexes it passes
// through. Lines are sampled at half-hex intervals and gaps between
// consecutive samples are filled, so the raster has no skipped hexes
// along a line. A river whose trace falls entirely outside the grid is
// dropped with a warning.
func Rasterize(g *hexgrid.Grid, rvs []geodata.River) map[hexgrid.Coord]bool {
	marked := make(map[hexgrid.Coord]bool)
	for _, r := range rvs {
		hit := 0
		for _, line := range r.Lines {
			hit += rasterizeLine(g, line, marked)
		}
		if hit == 0 {
			slog.Warn("river traced zero hexes, dropped", "river", r.Name)
		}
	}
	return marked
}

// rasterizeLine marks every hex a polyline passes through and returns the
// number of in-bounds samples.
func rasterizeLine(g *hexgrid.Grid, line orb.LineString, marked map[hexgrid.Coord]bool) int {
	if len(line) < 2 {
		return 0
	}
	lonPerCol := (g.Bounds.MaxLon - g.Bounds.MinLon) / float64(g.Width)
	latPerRow := (g.Bounds.MaxLat - g.Bounds.MinLat) / float64(g.Height)
	interval := lonPerCol
	if latPerRow < interval {
		interval = latPerRow
	}
	interval *= 0.5 // sample twice per hex

	hit := 0
	prev := hexgrid.Coord{Col: -1, Row: -1}
	havePrev := false
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		dLon, dLat := b[0]-a[0], b[1]-a[1]
		dist := max(abs(dLon), abs(dLat))
		steps := int(dist/interval) + 1
		for s := 0; s <= steps; s++ {
			f := float64(s) / float64(steps)
			col, row := cellAt(g, a[0]+dLon*f, a[1]+dLat*f)
			if col < 0 || col >= g.Width || row < 0 || row >= g.Height {
				continue
			}
			c := hexgrid.Coord{Col: col, Row: row}
			marked[c] = true
			hit++
			if havePrev {
				fillCellGap(g, prev, c, marked)
			}
			prev, havePrev = c, true
		}
	}
	return hit
}

// cellAt maps a lon/lat to its grid cell without clamping; callers
// bounds-check.
func cellAt(g *hexgrid.Grid, lon, lat float64) (col, row int) {
	col = int((lon - g.Bounds.MinLon) / (g.Bounds.MaxLon - g.Bounds.MinLon) * float64(g.Width))
	row = int((g.Bounds.MaxLat - lat) / (g.Bounds.MaxLat - g.Bounds.MinLat) * float64(g.Height))
	return col, row
}

// fillCellGap marks the cells on the straight line between two samples
// that ended up more than one cell apart.
func fillCellGap(g *hexgrid.Grid, a, b hexgrid.Coord, marked map[hexgrid.Coord]bool) {
	dc, dr := b.Col-a.Col, b.Row-a.Row
	steps := max(absInt(dc), absInt(dr))
	if steps <= 1 {
		return
	}
	for s := 1; s < steps; s++ {
		c := hexgrid.Coord{
			Col: a.Col + dc*s/steps,
			Row: a.Row + dr*s/steps,
		}
		if g.InBounds(c) {
			marked[c] = true
		}
	}
}

// CleanUp removes raster noise and bridges small holes: connected
// components below the minimum size are deleted, then nearby segment
// endpoints are joined across gaps of up to a few hexes.
func CleanUp(g *hexgrid.Grid, hexes map[hexgrid.Coord]bool) {
	before := len(hexes)
	pruneComponents(g, hexes, minComponentSize)
	pruned := before - len(hexes)
	joinEndpoints(g, hexes, maxEndpointGap)
	if joined := len(hexes) - (before - pruned); pruned > 0 || joined > 0 {
		slog.Debug("river raster cleaned", "pruned", pruned, "joined", joined)
	}
}

// pruneComponents deletes connected components smaller than min hexes.
func pruneComponents(g *hexgrid.Grid, hexes map[hexgrid.Coord]bool, min int) {
	visited := make(map[hexgrid.Coord]bool, len(hexes))
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			start := hexgrid.Coord{Col: col, Row: row}
			if !hexes[start] || visited[start] {
				continue
			}
			visited[start] = true
			component := []hexgrid.Coord{start}
			frontier := &stack.Stack[hexgrid.Coord]{}
			for current, more := start, true; more; current, more = frontier.Pop() {
				for _, n := range g.Neighbors(current) {
					if !g.InBounds(n.Coord) || !hexes[n.Coord] || visited[n.Coord] {
						continue
					}
					visited[n.Coord] = true
					component = append(component, n.Coord)
					frontier.Push(n.Coord)
				}
			}
			if len(component) < min {
				for _, c := range component {
					delete(hexes, c)
				}
			}
		}
	}
}

// joinEndpoints bridges endpoints of different runs that sit within a few
// hexes of each other. Multiple passes let chains of runs connect up.
func joinEndpoints(g *hexgrid.Grid, hexes map[hexgrid.Coord]bool, maxGap int) {
	for pass := 0; pass < joinPasses; pass++ {
		eps := endpoints(g, hexes)
		added := 0
		for i, a := range eps {
			for _, b := range eps[i+1:] {
				d := absInt(a.Col-b.Col) + absInt(a.Row-b.Row)
				if d < 2 || d > maxGap*2 {
					continue
				}
				for _, c := range shortPath(g, a, b, maxGap+1) {
					if !hexes[c] {
						hexes[c] = true
						added++
					}
				}
			}
		}
		if added == 0 {
			return
		}
	}
}

// endpoints returns, in row-major order, the river hexes with at most one
// river neighbor.
func endpoints(g *hexgrid.Grid, hexes map[hexgrid.Coord]bool) []hexgrid.Coord {
	var eps []hexgrid.Coord
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c := hexgrid.Coord{Col: col, Row: row}
			if !hexes[c] {
				continue
			}
			n := 0
			for _, nb := range g.Neighbors(c) {
				if g.InBounds(nb.Coord) && hexes[nb.Coord] {
					n++
				}
			}
			if n <= 1 {
				eps = append(eps, c)
			}
		}
	}
	return eps
}

// shortPath finds the intermediate hexes on a shortest path between two
// hexes, or nil when no path of at most maxLen steps exists.
func shortPath(g *hexgrid.Grid, from, to hexgrid.Coord, maxLen int) []hexgrid.Coord {
	type node struct {
		c    hexgrid.Coord
		path []hexgrid.Coord
	}
	queue := []node{{c: from}}
	visited := map[hexgrid.Coord]bool{from: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.path) >= maxLen {
			continue
		}
		for _, n := range g.Neighbors(cur.c) {
			if n.Coord == to {
				return cur.path
			}
			if !g.InBounds(n.Coord) || visited[n.Coord] {
				continue
			}
			visited[n.Coord] = true
			next := make([]hexgrid.Coord, len(cur.path), len(cur.path)+1)
			copy(next, cur.path)
			queue = append(queue, node{c: n.Coord, path: append(next, n.Coord)})
		}
	}
	return nil
}

type tracedHex struct {
	c    hexgrid.Coord
	exit ukrmap.Direction
}

// TraceSegments orders the marked hexes into connected segments and
// assigns each hex a segment id, a position along the segment, and a
// downstream exit edge. Segment ids past 254 cannot be encoded (255 is
// the no-river sentinel); Segments always reports the full count so the
// texture encoder can reject an overflowing trace.
func TraceSegments(g *hexgrid.Grid, hexes map[hexgrid.Coord]bool, levels [][]ukrmap.ElevationLevel) *Trace {
	t := NewTrace(g)
	segments := walkSegments(g, hexes, levels)
	segments = mergeSegments(g, hexes, segments)

	t.Segments = len(segments)
	for id, seg := range segments {
		if id >= int(ukrmap.NoRiverSegment) {
			break
		}
		for pos, h := range seg {
			if pos > int(ukrmap.NoRiverPosition) {
				slog.Warn("river segment longer than 256 hexes, truncated", "segment", id)
				break
			}
			t.SegmentID[h.c.Row][h.c.Col] = uint8(id)
			t.Position[h.c.Row][h.c.Col] = uint8(pos)
			t.ExitEdge[h.c.Row][h.c.Col] = uint8(h.exit)
		}
	}
	return t
}

// walkSegments walks each connected run of river hexes from an endpoint,
// producing ordered segments. Starts are chosen in row-major order so
// segment ids are deterministic.
func walkSegments(g *hexgrid.Grid, hexes map[hexgrid.Coord]bool, levels [][]ukrmap.ElevationLevel) [][]tracedHex {
	remaining := make(map[hexgrid.Coord]bool, len(hexes))
	ordered := make([]hexgrid.Coord, 0, len(hexes))
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c := hexgrid.Coord{Col: col, Row: row}
			if hexes[c] {
				remaining[c] = true
				ordered = append(ordered, c)
			}
		}
	}

	riverNeighbors := func(c hexgrid.Coord, in map[hexgrid.Coord]bool) int {
		n := 0
		for _, nb := range g.Neighbors(c) {
			if g.InBounds(nb.Coord) && in[nb.Coord] {
				n++
			}
		}
		return n
	}

	var segments [][]tracedHex
	for len(remaining) > 0 {
		// prefer starting from an endpoint for a natural head-to-mouth walk
		var start hexgrid.Coord
		found := false
		for _, c := range ordered {
			if remaining[c] && riverNeighbors(c, remaining) <= 1 {
				start, found = c, true
				break
			}
		}
		if !found {
			for _, c := range ordered {
				if remaining[c] {
					start, found = c, true
					break
				}
			}
		}

		delete(remaining, start)
		var seg []tracedHex
		current := start
		for {
			seg = append(seg, tracedHex{c: current, exit: flowDirection(g, current, levels)})
			var next hexgrid.Coord
			found := false
			for _, nb := range g.Neighbors(current) {
				if g.InBounds(nb.Coord) && remaining[nb.Coord] {
					next, found = nb.Coord, true
					break
				}
			}
			if !found {
				break
			}
			delete(remaining, next)
			current = next
		}
		segments = append(segments, seg)
	}
	return segments
}

// mergeSegments joins segments whose endpoints are adjacent into longer
// rivers, fixing the exit edge of the joining hex to point across the
// connection.
func mergeSegments(g *hexgrid.Grid, hexes map[hexgrid.Coord]bool, segments [][]tracedHex) [][]tracedHex {
	if len(segments) <= 1 {
		return segments
	}
	byStart := make(map[hexgrid.Coord]int, len(segments))
	byEnd := make(map[hexgrid.Coord]int, len(segments))
	for i, seg := range segments {
		byStart[seg[0].c] = i
		byEnd[seg[len(seg)-1].c] = i
	}

	var merged [][]tracedHex
	used := make(map[int]bool, len(segments))
	for i, seg := range segments {
		if used[i] {
			continue
		}
		used[i] = true
		cur := append([]tracedHex(nil), seg...)

		// prepend segments ending next to our head
		for {
			found := false
			for _, nb := range g.Neighbors(cur[0].c) {
				if !g.InBounds(nb.Coord) || !hexes[nb.Coord] {
					continue
				}
				j, ok := byEnd[nb.Coord]
				if !ok || used[j] {
					continue
				}
				other := append([]tracedHex(nil), segments[j]...)
				other[len(other)-1].exit = nb.Dir.Opposite()
				cur = append(other, cur...)
				used[j] = true
				found = true
				break
			}
			if !found {
				break
			}
		}

		// append segments starting next to our tail
		for {
			found := false
			for _, nb := range g.Neighbors(cur[len(cur)-1].c) {
				if !g.InBounds(nb.Coord) || !hexes[nb.Coord] {
					continue
				}
				j, ok := byStart[nb.Coord]
				if !ok || used[j] {
					continue
				}
				cur[len(cur)-1].exit = nb.Dir
				cur = append(cur, segments[j]...)
				used[j] = true
				found = true
				break
			}
			if !found {
				break
			}
		}

		merged = append(merged, cur)
	}
	return merged
}

// flowDirection picks the downstream exit edge for a river hex: the
// direction of the lowest neighbor strictly below the hex itself. With no
// lower neighbor the regional heuristic applies: everything drains south
// toward the Black Sea, south-west on the eastern half of the map and
// south-east on the western half.
func flowDirection(g *hexgrid.Grid, c hexgrid.Coord, levels [][]ukrmap.ElevationLevel) ukrmap.Direction {
	if levels != nil {
		lowest := levels[c.Row][c.Col]
		best := ukrmap.NoDirection
		for _, nb := range g.Neighbors(c) {
			if !g.InBounds(nb.Coord) {
				continue
			}
			if lv := levels[nb.Coord.Row][nb.Coord.Col]; lv < lowest {
				lowest = lv
				best = nb.Dir
			}
		}
		if best != ukrmap.NoDirection {
			return best
		}
	}
	if c.Col > g.Width/2 {
		return ukrmap.SouthWest
	}
	return ukrmap.SouthEast
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
