// Package hexgrid implements the pointy-top, odd-row-offset hexagonal grid
// used by the game, along with the affine mapping between grid positions and
// WGS84 geographic coordinates.
package hexgrid

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/ukrmap/ukrmap"
)

// Coord is a hex position in offset coordinates.
// Odd rows are shifted half a hex width to the east.
type Coord struct {
	Col int
	Row int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Bounds is the geographic bounding box a grid is mapped onto.
// The mapping is a fixed affine transform per axis.
type Bounds struct {
	MinLon float64
	MaxLon float64
	MinLat float64
	MaxLat float64
}

// Contains reports whether the point lies inside the box (edges inclusive).
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// Grid is a fixed-size pointy-top hex grid bound to a geographic box.
type Grid struct {
	Width  int
	Height int
	Bounds Bounds

	// size is the hex outer radius in pixel units, used by the pixel-space
	// center math for rendering. Geographic sampling uses the affine
	// mapping and does not depend on it.
	size float64
}

// New returns a grid of width x height hexes mapped onto bounds.
func New(width, height int, bounds Bounds) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Bounds: bounds,
		size:   1,
	}
}

// SetHexSize sets the hex outer radius used for pixel-space math.
func (g *Grid) SetHexSize(size float64) {
	if size > 0 {
		g.size = size
	}
}

// HexSize returns the hex outer radius used for pixel-space math.
func (g *Grid) HexSize() float64 { return g.size }

// InBounds reports whether the coordinate is on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Col >= 0 && c.Col < g.Width && c.Row >= 0 && c.Row < g.Height
}

const sqrt3 = 1.7320508075688772

// Center returns the pixel-space center of a hex.
// Odd rows shift east by half a hex width so rows interlock.
func (g *Grid) Center(c Coord) (x, y float64) {
	w := g.size * sqrt3
	x = w*float64(c.Col) + w/2
	if c.Row%2 != 0 {
		x += w / 2
	}
	y = 1.5*g.size*float64(c.Row) + g.size
	return x, y
}

// Corners returns the six pixel-space corners of a hex,
// starting at the top point and winding clockwise.
func (g *Grid) Corners(c Coord) [6]orb.Point {
	cx, cy := g.Center(c)
	var pts [6]orb.Point
	for i := 0; i < 6; i++ {
		// pointy-top: first corner at -90 degrees (straight up)
		angle := math.Pi/3*float64(i) - math.Pi/2
		pts[i] = orb.Point{
			cx + g.size*math.Cos(angle),
			cy + g.size*math.Sin(angle),
		}
	}
	return pts
}

// PixelBounds returns the extent of the grid in pixel space.
func (g *Grid) PixelBounds() (maxX, maxY float64) {
	w := g.size * sqrt3
	maxX = w * (float64(g.Width) + 0.5)
	maxY = 1.5*g.size*float64(g.Height-1) + 2*g.size
	return maxX, maxY
}

// PixelToHex returns the hex whose center is nearest to the pixel point.
// It is an approximate inverse of Center: the round-trip error is always
// below half a hex width and height.
func (g *Grid) PixelToHex(x, y float64) Coord {
	// estimate the row from the vertical spacing, then search the
	// neighborhood for the nearest center. Rounding the estimate alone is
	// not exact near hex boundaries.
	rowGuess := int(math.Round((y - g.size) / (1.5 * g.size)))
	colGuess := int(math.Round(x/(g.size*sqrt3) - 0.5))

	best := Coord{Col: clamp(colGuess, 0, g.Width-1), Row: clamp(rowGuess, 0, g.Height-1)}
	bestDist := math.Inf(1)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			c := Coord{Col: colGuess + dc, Row: rowGuess + dr}
			if !g.InBounds(c) {
				continue
			}
			cx, cy := g.Center(c)
			d := (cx-x)*(cx-x) + (cy-y)*(cy-y)
			if d < bestDist {
				bestDist = d
				best = c
			}
		}
	}
	return best
}

// GeoToHex returns the hex containing the geographic point.
// Points on or beyond the bounding box clamp to the nearest in-range hex.
func (g *Grid) GeoToHex(lon, lat float64) Coord {
	col := int((lon - g.Bounds.MinLon) / (g.Bounds.MaxLon - g.Bounds.MinLon) * float64(g.Width))
	row := int((g.Bounds.MaxLat - lat) / (g.Bounds.MaxLat - g.Bounds.MinLat) * float64(g.Height))
	return Coord{
		Col: clamp(col, 0, g.Width-1),
		Row: clamp(row, 0, g.Height-1),
	}
}

// CenterLonLat returns the geographic centroid of a hex cell under the
// affine bounds mapping.
func (g *Grid) CenterLonLat(c Coord) (lon, lat float64) {
	lon = g.Bounds.MinLon + (float64(c.Col)+0.5)/float64(g.Width)*(g.Bounds.MaxLon-g.Bounds.MinLon)
	lat = g.Bounds.MaxLat - (float64(c.Row)+0.5)/float64(g.Height)*(g.Bounds.MaxLat-g.Bounds.MinLat)
	return lon, lat
}

// CellPolygon returns the rectangular geographic footprint of a hex cell
// under the affine mapping, as a closed ring. Used for area-overlap tests.
func (g *Grid) CellPolygon(c Coord) orb.Ring {
	lonSpan := (g.Bounds.MaxLon - g.Bounds.MinLon) / float64(g.Width)
	latSpan := (g.Bounds.MaxLat - g.Bounds.MinLat) / float64(g.Height)
	west := g.Bounds.MinLon + float64(c.Col)*lonSpan
	north := g.Bounds.MaxLat - float64(c.Row)*latSpan
	return orb.Ring{
		{west, north},
		{west + lonSpan, north},
		{west + lonSpan, north - latSpan},
		{west, north - latSpan},
		{west, north},
	}
}

// Neighbor is one adjacent hex together with the edge direction
// pointing toward it.
type Neighbor struct {
	Coord Coord
	Dir   ukrmap.Direction
}

// neighbor offsets by row parity, ordered NE, E, SE, SW, W, NW.
var (
	evenRowOffsets = [6][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
	oddRowOffsets  = [6][2]int{{1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 0}, {0, -1}}
)

// Neighbors returns the six adjacent coordinates with their edge
// directions. Coordinates may be off the grid; callers filter with
// InBounds where needed.
func (g *Grid) Neighbors(c Coord) [6]Neighbor {
	offsets := evenRowOffsets
	if c.Row%2 != 0 {
		offsets = oddRowOffsets
	}
	var out [6]Neighbor
	for i, o := range offsets {
		out[i] = Neighbor{
			Coord: Coord{Col: c.Col + o[0], Row: c.Row + o[1]},
			Dir:   ukrmap.Direction(i),
		}
	}
	return out
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Coord) int {
	aq := a.Col - (a.Row-a.Row&1)/2
	bq := b.Col - (b.Row-b.Row&1)/2
	dq := aq - bq
	dr := a.Row - b.Row
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// FileRow converts between in-game row order and the row order stored in
// save files. The transform is its own inverse.
func FileRow(row, height int) int {
	return height - 1 - row
}

// FitHexSize returns the hex outer radius in meters that fits a
// width x height grid inside the geographic bounds, using geodesic
// distances along the box's southern and western edges.
func FitHexSize(b Bounds, width, height int) float64 {
	widthM := geo.Distance(orb.Point{b.MinLon, b.MinLat}, orb.Point{b.MaxLon, b.MinLat})
	heightM := geo.Distance(orb.Point{b.MinLon, b.MinLat}, orb.Point{b.MinLon, b.MaxLat})

	// pointy-top spacing: columns advance by size*sqrt3,
	// rows advance by 1.5*size with a half-hex cap at each end.
	fromWidth := widthM / (float64(width) * sqrt3)
	fromHeight := heightM / ((float64(height) - 0.25) * 2)
	return math.Min(fromWidth, fromHeight)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
