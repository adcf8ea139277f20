// Package ukrmap defines the shared taxonomy for the Ukraine hex-map
// generation pipeline: the game's terrain types, biomes, land-cover classes,
// hex edge directions, and the fixed name tables written into save files.
package ukrmap

import (
	"fmt"
)

// TerrainType is one of the game's 15 ground-cover categories.
// The numeric value is the terrain index stored in the elevation texture's
// G channel and is defined by the alphabetical order of TerrainTypeNames.
type TerrainType uint8

const (
	CityTerrain TerrainType = iota
	CoastalWater
	DryGrass
	Forest
	Lake
	Mountain
	MountainSnow
	Ocean
	Prairie
	RockyField
	RockyForest
	Sterile
	StoneField
	Wasteland
	WoodLand
)

func (t TerrainType) String() string {
	if int(t) < len(TerrainTypeNames) {
		return TerrainTypeNames[t]
	}
	return fmt.Sprintf("invalid_terrain(%d)", uint8(t))
}

func (t TerrainType) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

// IsWater reports whether the terrain type represents a water tile.
func (t TerrainType) IsWater() bool {
	switch t {
	case Ocean, CoastalWater, Lake:
		return true
	default:
		return false
	}
}

// Biome is one of the game's 10 climate categories, assigned per territory.
type Biome uint8

const (
	Arctic Biome = iota
	Badlands
	Desert
	Grassland
	Mediterranean
	Savanna
	Taiga
	Temperate
	Tropical
	Tundra
)

func (b Biome) String() string {
	if int(b) < len(BiomeNames) {
		return BiomeNames[b]
	}
	return fmt.Sprintf("invalid_biome(%d)", uint8(b))
}

func (b Biome) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", b.String())), nil
}

// ElevationLevel is the game's quantized elevation, -3 (deep ocean) to 12
// (high mountains).
type ElevationLevel int8

const (
	MinElevationLevel ElevationLevel = -3
	MaxElevationLevel ElevationLevel = 12
)

// Valid reports whether the level is within the game's taxonomy.
func (l ElevationLevel) Valid() bool {
	return l >= MinElevationLevel && l <= MaxElevationLevel
}

// LandCoverClass is a Copernicus CGLS-LC100 discrete classification code.
type LandCoverClass uint8

const (
	CoverNoInput       LandCoverClass = 0
	CoverShrubs        LandCoverClass = 20
	CoverHerbaceous    LandCoverClass = 30
	CoverCultivated    LandCoverClass = 40
	CoverUrban         LandCoverClass = 50
	CoverBare          LandCoverClass = 60
	CoverSnowIce       LandCoverClass = 70
	CoverWater         LandCoverClass = 80
	CoverWetland       LandCoverClass = 90
	CoverMossLichen    LandCoverClass = 100
	CoverOpenSea       LandCoverClass = 200
	closedForestFirst  LandCoverClass = 111
	closedForestLast   LandCoverClass = 116
	openForestFirst    LandCoverClass = 121
	openForestLast     LandCoverClass = 126
)

// IsClosedForest reports whether the class is one of the closed forest
// classes (111-116).
func (c LandCoverClass) IsClosedForest() bool {
	return c >= closedForestFirst && c <= closedForestLast
}

// IsOpenForest reports whether the class is one of the open forest
// classes (121-126).
func (c LandCoverClass) IsOpenForest() bool {
	return c >= openForestFirst && c <= openForestLast
}

var landCoverTerrain = map[LandCoverClass]TerrainType{
	CoverNoInput:    CityTerrain,
	CoverShrubs:     DryGrass,
	CoverHerbaceous: Prairie,
	CoverCultivated: Prairie,
	CoverUrban:      CityTerrain,
	CoverBare:       Mountain,
	CoverSnowIce:    MountainSnow,
	CoverWater:      Lake,
	CoverWetland:    CoastalWater,
	CoverMossLichen: RockyField,
	CoverOpenSea:    Ocean,
}

// Terrain maps a land-cover class to its terrain type.
// Unknown classes report ok=false; callers apply the default (CityTerrain).
func (c LandCoverClass) Terrain() (t TerrainType, ok bool) {
	if c.IsClosedForest() {
		return Forest, true
	}
	if c.IsOpenForest() {
		return WoodLand, true
	}
	t, ok = landCoverTerrain[c]
	return t, ok
}

// Direction is a hex edge direction for the pointy-top odd-r grid.
// The numeric values are the river texture's exit-edge encoding.
type Direction uint8

const (
	NorthEast Direction = iota
	East
	SouthEast
	SouthWest
	West
	NorthWest

	// NoDirection is the river texture's "no exit edge" sentinel.
	NoDirection Direction = 6
)

func (d Direction) String() string {
	switch d {
	case NorthEast:
		return "NE"
	case East:
		return "E"
	case SouthEast:
		return "SE"
	case SouthWest:
		return "SW"
	case West:
		return "W"
	case NorthWest:
		return "NW"
	case NoDirection:
		return "none"
	default:
		return fmt.Sprintf("invalid_direction(%d)", uint8(d))
	}
}

// Opposite returns the direction pointing back across the same edge.
func (d Direction) Opposite() Direction {
	switch d {
	case NorthEast:
		return SouthWest
	case East:
		return West
	case SouthEast:
		return NorthWest
	case SouthWest:
		return NorthEast
	case West:
		return East
	case NorthWest:
		return SouthEast
	default:
		return NoDirection
	}
}
