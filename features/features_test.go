package features_test

import (
	"testing"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/features"
	"github.com/ukrmap/ukrmap/hexgrid"
)

func testGrid() *hexgrid.Grid {
	return hexgrid.New(10, 10, hexgrid.Bounds{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 10})
}

func allLand(g *hexgrid.Grid) [][]bool {
	land := make([][]bool, g.Height)
	for row := range land {
		land[row] = make([]bool, g.Width)
		for col := range land[row] {
			land[row][col] = true
		}
	}
	return land
}

func TestPlacePOI(t *testing.T) {
	g := testGrid()
	land := allLand(g)
	// column 0 is water
	for row := range land {
		land[row][0] = false
	}

	feats := []features.Feature{
		{Name: "iron", POI: ukrmap.POIIron, Lon: 3.5, Lat: 5.5},
		{Name: "drowned salt", POI: ukrmap.POISalt, Lon: 0.5, Lat: 5.5},
	}
	got := features.PlacePOI(g, feats, land)

	// lat 5.5 -> row 4, lon 3.5 -> col 3
	if got[4][3] != uint8(ukrmap.POIIron) {
		t.Errorf("hex (3,4) = %d, want iron %d", got[4][3], ukrmap.POIIron)
	}
	if got[4][0] != 0 {
		t.Errorf("water hex (0,4) = %d, want no POI", got[4][0])
	}

	placed := 0
	for _, row := range got {
		for _, v := range row {
			if v != 0 {
				placed++
			}
		}
	}
	if placed != 1 {
		t.Errorf("placed %d features, want 1", placed)
	}
}

func TestPlacePOILastFeatureWins(t *testing.T) {
	g := testGrid()
	feats := []features.Feature{
		{Name: "first", POI: ukrmap.POICoal, Lon: 5.5, Lat: 5.5},
		{Name: "second", POI: ukrmap.POIGold, Lon: 5.5, Lat: 5.5},
	}
	got := features.PlacePOI(g, feats, nil)
	if got[4][5] != uint8(ukrmap.POIGold) {
		t.Errorf("hex (5,4) = %d, want gold %d", got[4][5], ukrmap.POIGold)
	}
}

func TestDefaultFeaturesHaveValidIndices(t *testing.T) {
	for _, f := range features.DefaultFeatures {
		if f.POI == ukrmap.POINone || int(f.POI) > len(ukrmap.POINames) {
			t.Errorf("feature %q has out-of-range POI index %d", f.Name, f.POI)
		}
	}
}

func TestPlaceWondersCoversRadius(t *testing.T) {
	g := testGrid()
	w := []features.Wonder{
		{Name: "MountEverest", Landmark: "peak", Lon: 5.5, Lat: 5.5, Radius: 2},
	}
	got := features.PlaceWonders(g, w, allLand(g))

	idx := uint8(9) // 1-based position of MountEverest in the name table
	if ukrmap.NaturalWonderNames[idx-1] != "MountEverest" {
		t.Fatal("wonder table order changed")
	}
	if got[4][5] != idx {
		t.Errorf("center hex = %d, want %d", got[4][5], idx)
	}
	// radius 2 covers |dr|+|dc| <= 3
	if got[4][7] != idx || got[2][5] != idx || got[3][6] != idx {
		t.Error("wonder does not cover its radius")
	}
	if got[4][9] != ukrmap.NoWonder {
		t.Errorf("hex outside radius = %d, want none", got[4][9])
	}
	if got[0][0] != ukrmap.NoWonder {
		t.Errorf("far hex = %d, want none", got[0][0])
	}
}

func TestPlaceWondersAdjustsToLand(t *testing.T) {
	g := testGrid()
	land := allLand(g)
	// rows 3..5 of columns 4..6 are water; anchor lands at (5,4)
	for row := 3; row <= 5; row++ {
		for col := 4; col <= 6; col++ {
			land[row][col] = false
		}
	}
	w := []features.Wonder{
		{Name: "KawahIjen", Landmark: "lake", Lon: 5.5, Lat: 5.5, Radius: 1},
	}
	got := features.PlaceWonders(g, w, land)

	found := false
	for row := range got {
		for col := range got[row] {
			if got[row][col] == ukrmap.NoWonder {
				continue
			}
			found = true
			if !land[row][col] {
				t.Errorf("wonder placed on water at (%d,%d)", col, row)
			}
		}
	}
	if !found {
		t.Error("wonder dropped despite land within range")
	}
}

func TestPlaceWondersDropsWhenNoLand(t *testing.T) {
	g := testGrid()
	land := make([][]bool, g.Height)
	for row := range land {
		land[row] = make([]bool, g.Width)
	}
	w := []features.Wonder{
		{Name: "HalongBay", Landmark: "cliffs", Lon: 5.5, Lat: 5.5, Radius: 2},
	}
	got := features.PlaceWonders(g, w, land)
	for row := range got {
		for col := range got[row] {
			if got[row][col] != ukrmap.NoWonder {
				t.Fatalf("wonder placed on an all-water grid at (%d,%d)", col, row)
			}
		}
	}
}

func TestWondersResolveInNameTable(t *testing.T) {
	for _, w := range features.Wonders {
		found := false
		for _, n := range ukrmap.NaturalWonderNames {
			if n == w.Name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("wonder %q not in the name table", w.Name)
		}
	}
}
