// Package savedoc models the game's terrain save document: the Save.hms
// XML tree, the Descriptor.hmd metadata, and the .hmap ZIP archive that
// carries both. Build steps replace one node at a time so every
// intermediate document stays a loadable artifact.
package savedoc

import (
	"fmt"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/texture"
)

// Texture node names in the save document, in serialization order.
const (
	TextureElevation     = "ElevationTexture"
	TextureZones         = "ZonesTexture"
	TexturePOI           = "POITexture"
	TextureVisibility    = "VisibilityTexture"
	TextureRoad          = "RoadTexture"
	TextureRiver         = "RiverTexture"
	TextureNaturalWonder = "NaturalWonderTexture"
	TextureMatchingSeed  = "MatchingSeedTexture"
	TextureLandmarks     = "LandmarksTexture"
)

var textureOrder = []string{
	TextureElevation,
	TextureZones,
	TexturePOI,
	TextureVisibility,
	TextureRoad,
	TextureRiver,
	TextureNaturalWonder,
	TextureMatchingSeed,
	TextureLandmarks,
}

// Texture is one base64-PNG texture node.
type Texture struct {
	Name   string
	Width  int
	Height int
	Bytes  string
}

// Territory is one TerritoryDatabase item; its index is its list position.
type Territory struct {
	ContinentIndex int
	Biome          ukrmap.Biome
	IsOcean        bool
}

// SpawnPoint is one EntitiesProvider spawn. Row is the file row, counted
// from the bottom of the game grid (file_row = height - game_row - 1).
// Flags bit i marks the spawn valid for i+1 players; 1023 allows all.
type SpawnPoint struct {
	Column int
	Row    int
	Flags  int
}

// AllPlayerCounts is the spawn flag mask valid for 1 through 10 players.
const AllPlayerCounts = 1023

// Document is the Save.hms tree.
type Document struct {
	Width  int
	Height int

	UseMapCycling               bool
	UseProceduralMountainChains bool

	BiomeNames         []string
	TerrainTypeNames   []string
	POINames           []string
	NaturalWonderNames []string
	LandmarkNames      []string

	Textures    []Texture
	Territories []Territory
	SpawnPoints []SpawnPoint

	FailureFlags int
}

// Descriptor is the Descriptor.hmd metadata document.
type Descriptor struct {
	EmpiresCount int
	Width        int
	Height       int
	FailureFlags int
}

// New returns a document with the game's fixed name tables and all nine
// textures present as all-zero placeholders, so the document is loadable
// before any pipeline step has run.
func New(width, height int) (*Document, error) {
	empty, err := texture.ToBase64PNG(texture.Placeholder(width, height))
	if err != nil {
		return nil, fmt.Errorf("savedoc.New: %w", err)
	}
	d := &Document{
		Width:  width,
		Height: height,

		// procedural chains let the game draw the flagged mountain ridges
		UseProceduralMountainChains: true,

		BiomeNames:         ukrmap.BiomeNames,
		TerrainTypeNames:   ukrmap.TerrainTypeNames,
		POINames:           ukrmap.POINames,
		NaturalWonderNames: ukrmap.NaturalWonderNames,
	}
	for _, name := range textureOrder {
		d.Textures = append(d.Textures, Texture{
			Name:   name,
			Width:  width,
			Height: height,
			Bytes:  empty,
		})
	}
	return d, nil
}

// Texture returns the named texture node.
func (d *Document) Texture(name string) (Texture, bool) {
	for _, t := range d.Textures {
		if t.Name == name {
			return t, true
		}
	}
	return Texture{}, false
}

// WithTexture returns a new document with exactly the named texture's
// bytes replaced. All other nodes are shared with the receiver.
func (d *Document) WithTexture(name, base64PNG string) (*Document, error) {
	out := *d
	out.Textures = make([]Texture, len(d.Textures))
	copy(out.Textures, d.Textures)
	for i := range out.Textures {
		if out.Textures[i].Name == name {
			out.Textures[i].Bytes = base64PNG
			return &out, nil
		}
	}
	return nil, fmt.Errorf("savedoc.WithTexture: unknown texture %q", name)
}

// WithTerritories returns a new document with only the territory database
// replaced.
func (d *Document) WithTerritories(ts []Territory) *Document {
	out := *d
	out.Territories = make([]Territory, len(ts))
	copy(out.Territories, ts)
	return &out
}

// WithSpawnPoints returns a new document with only the spawn point list
// replaced.
func (d *Document) WithSpawnPoints(sps []SpawnPoint) *Document {
	out := *d
	out.SpawnPoints = make([]SpawnPoint, len(sps))
	copy(out.SpawnPoints, sps)
	return &out
}
