// Package territory assigns every hex of the grid to a territory: one of
// the raion polygons, or the shared ocean territory for hexes outside all
// of them. Assignments are validated against configured size and coverage
// constraints.
package territory

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/geodata"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// OceanIndex is the reserved territory index for ocean hexes.
const OceanIndex = 0

// Territory is one entry of the territory database.
type Territory struct {
	Index          int
	Name           string
	Oblast         string
	IsOcean        bool
	Biome          ukrmap.Biome
	ContinentIndex int
	HexCount       int
}

// Island is a deliberately tiny named territory placed on a single hex,
// exempt from the minimum-size rule (Snake Island).
type Island struct {
	Name   string
	Oblast string
	Lon    float64
	Lat    float64
}

// Config carries the assignment thresholds. Values are data, not code;
// they arrive from the pipeline configuration.
type Config struct {
	// MinHexes is the smallest playable territory size. Raions below it
	// trigger the area-weighted fallback, then a violation.
	MinHexes int

	// MaxUndersized is how many raions may remain below MinHexes after
	// the fallback before the run is marked failed.
	MaxUndersized int

	// CoverageMin and CoverageMax bound the acceptable land fraction.
	CoverageMin float64
	CoverageMax float64

	// Islands are placed after polygon assignment.
	Islands []Island
}

// Assignment is the computed hex -> territory mapping.
type Assignment struct {
	Grid        *hexgrid.Grid
	TerritoryOf [][]int // [row][col], index into Territories
	Territories []Territory
}

// At returns the territory index of a hex.
func (a *Assignment) At(c hexgrid.Coord) int {
	return a.TerritoryOf[c.Row][c.Col]
}

// IsLand reports whether the hex belongs to a land territory.
func (a *Assignment) IsLand(c hexgrid.Coord) bool {
	return a.At(c) != OceanIndex
}

// LandMask returns the [row][col] land/ocean mask.
func (a *Assignment) LandMask() [][]bool {
	mask := make([][]bool, a.Grid.Height)
	for row := range mask {
		mask[row] = make([]bool, a.Grid.Width)
		for col := range mask[row] {
			mask[row][col] = a.TerritoryOf[row][col] != OceanIndex
		}
	}
	return mask
}

// LandHexes returns the number of non-ocean hexes.
func (a *Assignment) LandHexes() int {
	n := 0
	for _, row := range a.TerritoryOf {
		for _, idx := range row {
			if idx != OceanIndex {
				n++
			}
		}
	}
	return n
}

// CoverageViolation reports a failed validation pass. The assignment that
// produced it is still returned so intermediate artifacts can be inspected.
type CoverageViolation struct {
	ZeroHex      []string
	Undersized   []string
	LandCoverage float64
	CoverageMin  float64
	CoverageMax  float64
}

func (e *CoverageViolation) Error() string {
	parts := []string{}
	if len(e.ZeroHex) > 0 {
		parts = append(parts, fmt.Sprintf("%d territories with zero hexes (%s)", len(e.ZeroHex), strings.Join(e.ZeroHex, ", ")))
	}
	if len(e.Undersized) > 0 {
		parts = append(parts, fmt.Sprintf("%d undersized territories (%s)", len(e.Undersized), strings.Join(e.Undersized, ", ")))
	}
	if e.LandCoverage < e.CoverageMin || e.LandCoverage > e.CoverageMax {
		parts = append(parts, fmt.Sprintf("land coverage %.1f%% outside [%.1f%%, %.1f%%]",
			100*e.LandCoverage, 100*e.CoverageMin, 100*e.CoverageMax))
	}
	return "territory: coverage violation: " + strings.Join(parts, "; ")
}

// Assign maps every hex to a territory.
//
// Pass 1 tests each hex centroid against the raion polygons; exactly one
// polygon may contain it (overlap is a data-quality error in the inputs).
// Hexes outside all polygons are provisionally ocean. Raions left below
// the minimum size get a second, area-weighted pass. Validation failures
// return a CoverageViolation alongside the (preserved) assignment.
func Assign(g *hexgrid.Grid, raions []geodata.Raion, cfg Config) (*Assignment, error) {
	a := &Assignment{
		Grid:        g,
		TerritoryOf: make([][]int, g.Height),
		Territories: make([]Territory, 0, len(raions)+1),
	}
	a.Territories = append(a.Territories, Territory{
		Index:          OceanIndex,
		Name:           "Ocean",
		IsOcean:        true,
		Biome:          OceanBiome,
		ContinentIndex: 0,
	})
	for i, r := range raions {
		a.Territories = append(a.Territories, Territory{
			Index:          i + 1,
			Name:           r.Name,
			Oblast:         r.Oblast,
			Biome:          BiomeFor(r.Oblast),
			ContinentIndex: 1,
		})
	}

	bounds := make([]orb.Bound, len(raions))
	for i, r := range raions {
		bounds[i] = r.Bound()
	}

	for row := range a.TerritoryOf {
		a.TerritoryOf[row] = make([]int, g.Width)
		for col := range a.TerritoryOf[row] {
			c := hexgrid.Coord{Col: col, Row: row}
			lon, lat := g.CenterLonLat(c)
			found := -1
			for i, r := range raions {
				if !bounds[i].Contains(orb.Point{lon, lat}) {
					continue
				}
				if !r.Contains(lon, lat) {
					continue
				}
				if found >= 0 {
					return nil, &geodata.DataQualityError{
						Source:  "raions",
						Feature: r.Name,
						Detail: fmt.Sprintf("overlaps %s at hex %v (%.4f, %.4f)",
							raions[found].Name, c, lon, lat),
					}
				}
				found = i
			}
			if found >= 0 {
				a.TerritoryOf[row][col] = found + 1
			} else {
				a.TerritoryOf[row][col] = OceanIndex
			}
		}
	}

	a.recount()

	// fallback pass for raions that came out too small: re-test their
	// neighborhood with area-weighted overlap instead of centroid-only
	for _, t := range a.Territories[1:] {
		if t.HexCount >= cfg.MinHexes {
			continue
		}
		reassigned := a.areaWeightedPass(raions, t.Index-1, bounds)
		if reassigned > 0 {
			slog.Info("territory fallback reassigned hexes",
				"territory", t.Name, "hexes", reassigned)
		}
	}
	a.recount()

	a.placeIslands(cfg.Islands)
	a.recount()

	exempt := map[string]bool{}
	for _, is := range cfg.Islands {
		exempt[is.Name] = true
	}
	if v := a.validate(cfg, exempt); v != nil {
		return a, v
	}
	return a, nil
}

// areaWeightedPass revisits every hex whose cell intersects the undersized
// raion's bound and reassigns it to the raion with the largest overlap.
// Overlap is approximated by containment tests over a fixed subsample of
// cell interior points.
func (a *Assignment) areaWeightedPass(raions []geodata.Raion, target int, bounds []orb.Bound) int {
	g := a.Grid
	reassigned := 0
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c := hexgrid.Coord{Col: col, Row: row}
			cell := g.CellPolygon(c)
			if !cell.Bound().Intersects(bounds[target]) {
				continue
			}
			best, bestShare := -1, 0.0
			for i, r := range raions {
				if !bounds[i].Intersects(cell.Bound()) {
					continue
				}
				share := overlapShare(cell, r)
				if share > bestShare {
					best, bestShare = i, share
				}
			}
			if best >= 0 && a.TerritoryOf[row][col] != best+1 {
				a.TerritoryOf[row][col] = best + 1
				reassigned++
			}
		}
	}
	return reassigned
}

// overlapShare approximates |cell ∩ raion| / |cell| by testing a uniform
// 4x4 subsample of the cell's interior.
func overlapShare(cell orb.Ring, r geodata.Raion) float64 {
	const n = 4
	b := cell.Bound()
	inside := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := orb.Point{
				b.Min[0] + (float64(i)+0.5)/n*(b.Max[0]-b.Min[0]),
				b.Min[1] + (float64(j)+0.5)/n*(b.Max[1]-b.Min[1]),
			}
			if planar.MultiPolygonContains(r.Geometry, p) {
				inside++
			}
		}
	}
	return float64(inside) / (n * n)
}

func (a *Assignment) placeIslands(islands []Island) {
	for _, is := range islands {
		c := a.Grid.GeoToHex(is.Lon, is.Lat)
		if a.TerritoryOf[c.Row][c.Col] != OceanIndex {
			slog.Info("island hex already assigned, skipping", "island", is.Name, "hex", c)
			continue
		}
		idx := len(a.Territories)
		a.Territories = append(a.Territories, Territory{
			Index:          idx,
			Name:           is.Name,
			Oblast:         is.Oblast,
			Biome:          BiomeFor(is.Oblast),
			ContinentIndex: 1,
		})
		a.TerritoryOf[c.Row][c.Col] = idx
	}
}

func (a *Assignment) recount() {
	for i := range a.Territories {
		a.Territories[i].HexCount = 0
	}
	for _, row := range a.TerritoryOf {
		for _, idx := range row {
			a.Territories[idx].HexCount++
		}
	}
}

func (a *Assignment) validate(cfg Config, exempt map[string]bool) *CoverageViolation {
	v := &CoverageViolation{
		CoverageMin: cfg.CoverageMin,
		CoverageMax: cfg.CoverageMax,
	}
	for _, t := range a.Territories[1:] {
		if exempt[t.Name] {
			continue
		}
		switch {
		case t.HexCount == 0:
			v.ZeroHex = append(v.ZeroHex, t.Name)
		case t.HexCount < cfg.MinHexes:
			v.Undersized = append(v.Undersized, t.Name)
		}
	}
	total := a.Grid.Width * a.Grid.Height
	v.LandCoverage = float64(a.LandHexes()) / float64(total)

	if len(v.ZeroHex) > 0 ||
		len(v.Undersized) > cfg.MaxUndersized ||
		v.LandCoverage < cfg.CoverageMin || v.LandCoverage > cfg.CoverageMax {
		return v
	}
	return nil
}
