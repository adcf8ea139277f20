package ukrmap

import "fmt"

// BiomeNames is the fixed biome name table written into save files.
// List order defines the Biome enum values.
var BiomeNames = []string{
	"Arctic",
	"Badlands",
	"Desert",
	"Grassland",
	"Mediterranean",
	"Savanna",
	"Taiga",
	"Temperate",
	"Tropical",
	"Tundra",
}

// TerrainTypeNames is the fixed terrain name table written into save files.
// List order (alphabetical) defines the terrain index stored in the
// elevation texture's G channel.
var TerrainTypeNames = []string{
	"CityTerrain",
	"CoastalWater",
	"DryGrass",
	"Forest",
	"Lake",
	"Mountain",
	"MountainSnow",
	"Ocean",
	"Prairie",
	"RockyField",
	"RockyForest",
	"Sterile",
	"StoneField",
	"Wasteland",
	"WoodLand",
}

// NaturalWonderNames is the wonder name table written into save files.
// The natural wonder texture's R channel holds 1-based indices into this
// list.
var NaturalWonderNames = []string{
	"ChocolateHills",
	"DanakilDesert",
	"GreatBarrierReef",
	"GreatBlueHole",
	"HalongBay",
	"KawahIjen",
	"LakeBaikal",
	"LakeHillier",
	"MountEverest",
	"MountMulu",
	"MountRoraima",
	"MountVesuvius",
	"PeritoMorenoGlacier",
	"Yellowstone",
}

// POINames is the point-of-interest name table written into save files:
// 24 natural modifiers followed by 30 resource deposits.
// The POI texture's R channel holds 1-based indices into this list
// (0 = no POI on the hex).
var POINames = buildPOINames()

const (
	naturalModifierCount = 24
	resourceDepositCount = 30
)

func buildPOINames() []string {
	names := make([]string, 0, naturalModifierCount+resourceDepositCount)
	for i := 1; i <= naturalModifierCount; i++ {
		names = append(names, fmt.Sprintf("POI_NaturalModifier%02d", i))
	}
	for i := 1; i <= resourceDepositCount; i++ {
		names = append(names, fmt.Sprintf("POI_ResourceDeposit%02d", i))
	}
	return names
}

// POIIndex is a 1-based index into POINames. Zero means no POI.
type POIIndex uint8

// POI indices for the natural modifiers that appear on the Ukraine map.
const (
	POINone               POIIndex = 0
	POIBerryBushes        POIIndex = 1
	POIBlackSoil          POIIndex = 2
	POICave               POIIndex = 3
	POIClay               POIIndex = 4
	POICrater             POIIndex = 5
	POIDimensionStones    POIIndex = 6
	POIDomesticableAnimal POIIndex = 7
	POIGeysers            POIIndex = 8
	POIHotSprings         POIIndex = 9
	POIHugeTrees          POIIndex = 10
	POIMarsh              POIIndex = 11
	POIOasis              POIIndex = 12
	POIRiver              POIIndex = 13
	POIRiverSpring        POIIndex = 14
	POITerraRosa          POIIndex = 15
	POIVolcanoEarth       POIIndex = 16
)

// POI indices for resource deposits (offset past the natural modifiers).
const (
	POIHorse     POIIndex = naturalModifierCount + 1 + iota // Horse = 25
	POICopper
	POIIron
	POISaltpetre
	POICoal
	POIOil
	POIAluminium
	POIUranium
	POISalt
	POISage
	POICoffee
	POITea
	POISaffron
	POIDye
	POIEbony
	POIMarble
	POIObsidian
	POISilk
	POIIncense
	POIPorcelain
	POIPearls
	POIGold
	POIGemstone
	POIAmbergris
	POIPapyrus
	POILead
	POIMercury
	POISilver
	POIWeapon
	POISaltedBeef
)

// River texture sentinels for hexes with no river.
const (
	NoRiverSegment  uint8 = 255
	NoRiverPosition uint8 = 255
)

// NoWonder is the natural wonder texture's "no wonder" sentinel.
const NoWonder uint8 = 255

// ElevationNoData is the elevation raster's no-data sentinel in meters.
// Values at or below ElevationNoDataFloor are treated as missing.
const (
	ElevationNoData      = -9999.0
	ElevationNoDataFloor = -9000.0
)
