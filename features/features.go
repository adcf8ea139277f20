// Package features places points of interest and natural wonders on the
// hex grid from real Ukrainian geographic locations.
package features

import (
	"log/slog"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// Feature is one point of interest anchored to a geographic location.
type Feature struct {
	Name string
	POI  ukrmap.POIIndex
	Lon  float64
	Lat  float64
}

// DefaultFeatures is the built-in terrain modifier and resource deposit
// list for the Ukraine map.
var DefaultFeatures = []Feature{
	// natural modifiers
	{Name: "Chornozem belt (Poltava)", POI: ukrmap.POIBlackSoil, Lon: 34.55, Lat: 49.59},
	{Name: "Chornozem belt (Vinnytsia)", POI: ukrmap.POIBlackSoil, Lon: 28.48, Lat: 49.23},
	{Name: "Chornozem belt (Kirovohrad)", POI: ukrmap.POIBlackSoil, Lon: 32.26, Lat: 48.51},
	{Name: "Prypiat marshes", POI: ukrmap.POIMarsh, Lon: 27.50, Lat: 51.65},
	{Name: "Desna floodplain", POI: ukrmap.POIMarsh, Lon: 31.50, Lat: 51.10},
	{Name: "Optymistychna cave", POI: ukrmap.POICave, Lon: 25.95, Lat: 48.75},
	{Name: "Carpathian old-growth beech", POI: ukrmap.POIHugeTrees, Lon: 23.90, Lat: 48.35},
	{Name: "Polissia berry bogs", POI: ukrmap.POIBerryBushes, Lon: 28.60, Lat: 51.40},
	{Name: "Sloviansk clay fields", POI: ukrmap.POIClay, Lon: 37.60, Lat: 48.85},
	{Name: "Zhytomyr granite quarries", POI: ukrmap.POIDimensionStones, Lon: 28.65, Lat: 50.25},
	{Name: "Askania-Nova herds", POI: ukrmap.POIDomesticableAnimal, Lon: 33.87, Lat: 46.45},
	{Name: "Dnipro headwater springs", POI: ukrmap.POIRiverSpring, Lon: 31.80, Lat: 52.10},

	// strategic deposits
	{Name: "Donbas coal (Donetsk)", POI: ukrmap.POICoal, Lon: 37.80, Lat: 48.00},
	{Name: "Donbas coal (Luhansk)", POI: ukrmap.POICoal, Lon: 38.90, Lat: 48.40},
	{Name: "Kryvyi Rih iron", POI: ukrmap.POIIron, Lon: 33.35, Lat: 47.91},
	{Name: "Kremenchuk iron", POI: ukrmap.POIIron, Lon: 33.42, Lat: 49.07},
	{Name: "Boryslav oil", POI: ukrmap.POIOil, Lon: 23.43, Lat: 49.29},
	{Name: "Shebelynka gas field", POI: ukrmap.POIOil, Lon: 36.35, Lat: 49.45},
	{Name: "Zhovti Vody uranium", POI: ukrmap.POIUranium, Lon: 33.50, Lat: 48.35},
	{Name: "Volyn copper", POI: ukrmap.POICopper, Lon: 25.30, Lat: 51.20},
	{Name: "Steppe horse country", POI: ukrmap.POIHorse, Lon: 35.20, Lat: 47.50},
	{Name: "Saltpetre works (Kharkiv)", POI: ukrmap.POISaltpetre, Lon: 36.23, Lat: 49.99},

	// luxury deposits
	{Name: "Soledar salt mines", POI: ukrmap.POISalt, Lon: 38.09, Lat: 48.68},
	{Name: "Solotvyno salt mines", POI: ukrmap.POISalt, Lon: 23.87, Lat: 47.95},
	{Name: "Mykytivka mercury", POI: ukrmap.POIMercury, Lon: 38.05, Lat: 48.37},
	{Name: "Muzhiievo gold", POI: ukrmap.POIGold, Lon: 22.73, Lat: 48.20},
	{Name: "Zakarpattia marble", POI: ukrmap.POIMarble, Lon: 23.50, Lat: 48.10},
	{Name: "Volyn topaz", POI: ukrmap.POIGemstone, Lon: 28.30, Lat: 50.90},
	{Name: "Nadbuzhia lead-zinc", POI: ukrmap.POILead, Lon: 24.10, Lat: 50.60},
	{Name: "Mykolaiv silver", POI: ukrmap.POISilver, Lon: 32.00, Lat: 47.00},
}

// PlacePOI returns the per-hex POI index grid. Features whose hex falls in
// water are skipped. Later features overwrite earlier ones on the same hex.
func PlacePOI(g *hexgrid.Grid, feats []Feature, land [][]bool) [][]uint8 {
	out := make([][]uint8, g.Height)
	for row := range out {
		out[row] = make([]uint8, g.Width)
	}

	placed, skipped := 0, 0
	for _, f := range feats {
		c := g.GeoToHex(f.Lon, f.Lat)
		if land != nil && !land[c.Row][c.Col] {
			slog.Debug("feature in water, skipped", "feature", f.Name, "hex", c)
			skipped++
			continue
		}
		out[c.Row][c.Col] = uint8(f.POI)
		placed++
	}
	slog.Info("placed points of interest", "placed", placed, "skipped", skipped)
	return out
}
