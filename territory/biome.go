package territory

import "github.com/ukrmap/ukrmap"

// oblastBiomes maps oblast names to the biome their territories receive.
// Oblasts not listed default to Temperate (most of central and western
// Ukraine).
var oblastBiomes = map[string]ukrmap.Biome{
	// Polissia forest belt
	"Zhytomyrska":  ukrmap.Taiga,
	"Chernihivska": ukrmap.Taiga,

	// eastern and central steppe
	"Kharkivska":      ukrmap.Grassland,
	"Poltavska":       ukrmap.Grassland,
	"Dnipropetrovska": ukrmap.Grassland,
	"Donetska":        ukrmap.Grassland,
	"Luhanska":        ukrmap.Grassland,
	"Zaporizka":       ukrmap.Grassland,
	"Kirovohradska":   ukrmap.Grassland,

	// dry southern steppe
	"Khersonska":   ukrmap.Savanna,
	"Mykolaivska":  ukrmap.Savanna,

	// Black Sea coast and Crimea
	"Odeska":                     ukrmap.Mediterranean,
	"Avtonomna Respublika Krym":  ukrmap.Mediterranean,
	"Sevastopol":                 ukrmap.Mediterranean,
}

// BiomeFor returns the biome for a territory belonging to the oblast.
func BiomeFor(oblast string) ukrmap.Biome {
	if b, ok := oblastBiomes[oblast]; ok {
		return b
	}
	return ukrmap.Temperate
}

// OceanBiome is the biome recorded for the ocean territory.
var OceanBiome = ukrmap.Arctic
