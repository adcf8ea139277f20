package rivers

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/geodata"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// landWithOcean builds a land mask with the bottom oceanRows rows as ocean.
func landWithOcean(w, h, oceanRows int) [][]bool {
	land := make([][]bool, h)
	for row := range land {
		land[row] = make([]bool, w)
		for col := range land[row] {
			land[row][col] = row < h-oceanRows
		}
	}
	return land
}

func flatMeters(w, h int, m float64) [][]float64 {
	meters := make([][]float64, h)
	for row := range meters {
		meters[row] = make([]float64, w)
		for col := range meters[row] {
			meters[row][col] = m
		}
	}
	return meters
}

func TestClassifySplitsDniproFromRegular(t *testing.T) {
	g := testGrid(12, 12)
	land := landWithOcean(12, 12, 1)
	rvs := []geodata.River{
		{Name: "Дніпро", MainWaterway: true, Lines: []orb.LineString{{
			{2.5, 11.5}, {2.5, 0.5},
		}}},
		{Name: "Оріль", Lines: []orb.LineString{{
			{6.5, 6.5}, {10.5, 6.5},
		}}},
	}

	cl := Classify(g, rvs, flatMeters(12, 12, 100), land)

	if len(cl.Dnipro) == 0 {
		t.Fatal("no dnipro chain traced")
	}
	for i := 1; i < len(cl.Dnipro); i++ {
		if hexgrid.Distance(cl.Dnipro[i-1], cl.Dnipro[i]) != 1 {
			t.Fatalf("chain break between %v and %v", cl.Dnipro[i-1], cl.Dnipro[i])
		}
	}
	// the chain runs north to south and its mouth touches the sea
	mouth := cl.Dnipro[len(cl.Dnipro)-1]
	if mouth.Row <= cl.Dnipro[0].Row {
		t.Errorf("chain runs %v -> %v, want north to south", cl.Dnipro[0], mouth)
	}
	coastal := false
	for _, nb := range g.Neighbors(mouth) {
		if g.InBounds(nb.Coord) && !land[nb.Coord.Row][nb.Coord.Col] {
			coastal = true
		}
	}
	if !coastal {
		t.Errorf("chain mouth %v not adjacent to ocean", mouth)
	}

	// the tributary stays a regular river, the main waterway does not
	if !cl.Regular[hexgrid.Coord{Col: 7, Row: 5}] {
		t.Error("tributary hex (7,5) not in regular rivers")
	}
	for _, c := range cl.Dnipro {
		if cl.Regular[c] {
			t.Fatalf("dnipro hex %v also in regular rivers", c)
		}
	}

	mask := cl.LakeMask(g)
	for _, c := range cl.Dnipro {
		if !mask[c.Row][c.Col] {
			t.Fatalf("dnipro hex %v missing from lake mask", c)
		}
	}
}

func TestDniproChainBridgesGaps(t *testing.T) {
	g := testGrid(6, 6)
	land := landWithOcean(6, 6, 1)
	raw := map[hexgrid.Coord]bool{
		{Col: 2, Row: 0}: true,
		{Col: 2, Row: 3}: true,
	}
	chain := dniproChain(g, raw, land)
	if len(chain) < 4 {
		t.Fatalf("chain = %v, want the gap bridged", chain)
	}
	for i := 1; i < len(chain); i++ {
		if hexgrid.Distance(chain[i-1], chain[i]) != 1 {
			t.Fatalf("chain break between %v and %v", chain[i-1], chain[i])
		}
	}
}

func TestPorohyDetection(t *testing.T) {
	g := testGrid(5, 5)
	meters := make([][]float64, 5)
	for row := range meters {
		meters[row] = make([]float64, 5)
		for col := range meters[row] {
			switch {
			case col < 2:
				meters[row][col] = 50
			case col == 2:
				meters[row][col] = 100
			default:
				meters[row][col] = 200
			}
		}
	}
	hexes := map[hexgrid.Coord]bool{{Col: 2, Row: 2}: true}

	rapids := porohy(g, hexes, meters, nil)
	if !rapids[hexgrid.Coord{Col: 2, Row: 2}] {
		t.Error("steep-banked hex not marked as rapids")
	}

	// gentle banks stay a drawn river
	flat := flatMeters(5, 5, 100)
	if rapids := porohy(g, hexes, flat, nil); len(rapids) != 0 {
		t.Errorf("flat banks produced %d rapids, want 0", len(rapids))
	}
}

func TestChainLevels(t *testing.T) {
	g := testGrid(5, 5)
	levels := make([][]ukrmap.ElevationLevel, 5)
	for row := range levels {
		levels[row] = make([]ukrmap.ElevationLevel, 5)
		for col := range levels[row] {
			levels[row][col] = 3
		}
	}
	chain := []hexgrid.Coord{{Col: 2, Row: 2}}

	got := ChainLevels(g, chain, levels, nil)
	if got[chain[0]] != 2 {
		t.Errorf("chain level = %d, want one below the 3-level banks", got[chain[0]])
	}

	// banks at level 0 floor the chain at shallow water
	for row := range levels {
		for col := range levels[row] {
			levels[row][col] = 0
		}
	}
	got = ChainLevels(g, chain, levels, nil)
	if got[chain[0]] != -1 {
		t.Errorf("chain level = %d, want -1 floor", got[chain[0]])
	}
}
