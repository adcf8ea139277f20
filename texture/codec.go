// Package texture implements the per-kind RGBA pixel layouts the game
// reads its map data from, and the PNG/base64 framing that wraps them in
// the save document. Every layout is bit-exact and bidirectional.
//
// Channels carry map data independent of alpha (most textures have A=0),
// so everything is handled non-premultiplied end to end: premultiplied
// image.RGBA would zero the data channels on PNG encode.
package texture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/rivers"
	"github.com/ukrmap/ukrmap/terrain"
)

// RangeError reports a per-hex attribute outside its channel's legal
// range. Values are rejected before encoding, never truncated or wrapped.
type RangeError struct {
	Texture  string
	Col, Row int
	Field    string
	Value    int
	Max      int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("texture: %s (%d,%d): %s %d exceeds %d",
		e.Texture, e.Col, e.Row, e.Field, e.Value, e.Max)
}

// pixelAt reads a pixel's raw non-premultiplied channel values.
func pixelAt(img image.Image, x, y int) color.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// EncodeZones packs the per-hex territory index into the R channel.
// Alpha is 255; the game treats zones as an opaque id map.
func EncodeZones(territoryOf [][]int) (*image.NRGBA, error) {
	h, w := len(territoryOf), len(territoryOf[0])
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := territoryOf[row][col]
			if idx < 0 || idx > 255 {
				return nil, &RangeError{Texture: "Zones", Col: col, Row: row,
					Field: "territory", Value: idx, Max: 255}
			}
			img.SetNRGBA(col, row, color.NRGBA{R: uint8(idx), A: 255})
		}
	}
	return img, nil
}

// DecodeZones is the exact inverse of EncodeZones.
func DecodeZones(img image.Image) [][]int {
	b := img.Bounds()
	out := make([][]int, b.Dy())
	for row := range out {
		out[row] = make([]int, b.Dx())
		for col := range out[row] {
			out[row][col] = int(pixelAt(img, b.Min.X+col, b.Min.Y+row).R)
		}
	}
	return out
}

// wire limits for the elevation texture's R channel. Level 12 shares the
// top wire value with 11: the channel has 15 usable steps and the game
// renders both as the highest peak tier.
const (
	elevationRMin = 1
	elevationRMax = 15
)

// EncodeElevation packs elevation and terrain into one texture:
// R = level+4 clamped to [1,15], G = (variant<<4)|terrain,
// B = mountain-chain flags, A = 0.
func EncodeElevation(levels [][]ukrmap.ElevationLevel, a *terrain.Assignment) (*image.NRGBA, error) {
	h, w := len(levels), len(levels[0])
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			level := levels[row][col]
			if !level.Valid() {
				return nil, &RangeError{Texture: "Elevation", Col: col, Row: row,
					Field: "level", Value: int(level), Max: int(ukrmap.MaxElevationLevel)}
			}
			r := 4 + int(level)
			if level < 0 {
				r = max(elevationRMin, r)
			} else {
				r = min(elevationRMax, r)
			}

			t := a.Terrain[row][col]
			if t > ukrmap.WoodLand {
				return nil, &RangeError{Texture: "Elevation", Col: col, Row: row,
					Field: "terrain", Value: int(t), Max: int(ukrmap.WoodLand)}
			}
			variant := a.Variant[row][col]
			if variant > 15 {
				return nil, &RangeError{Texture: "Elevation", Col: col, Row: row,
					Field: "variant", Value: int(variant), Max: 15}
			}
			flags := a.MountainFlags[row][col]
			if flags > 63 {
				return nil, &RangeError{Texture: "Elevation", Col: col, Row: row,
					Field: "chain flags", Value: int(flags), Max: 63}
			}

			img.SetNRGBA(col, row, color.NRGBA{
				R: uint8(r),
				G: variant<<4 | uint8(t),
				B: flags,
			})
		}
	}
	return img, nil
}

// DecodeElevation unpacks an elevation texture back into levels and a
// terrain assignment.
func DecodeElevation(img image.Image) ([][]ukrmap.ElevationLevel, *terrain.Assignment) {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	levels := make([][]ukrmap.ElevationLevel, h)
	a := &terrain.Assignment{
		Terrain:       make([][]ukrmap.TerrainType, h),
		Variant:       make([][]uint8, h),
		MountainFlags: make([][]uint8, h),
	}
	for row := 0; row < h; row++ {
		levels[row] = make([]ukrmap.ElevationLevel, w)
		a.Terrain[row] = make([]ukrmap.TerrainType, w)
		a.Variant[row] = make([]uint8, w)
		a.MountainFlags[row] = make([]uint8, w)
		for col := 0; col < w; col++ {
			px := pixelAt(img, b.Min.X+col, b.Min.Y+row)
			levels[row][col] = ukrmap.ElevationLevel(int(px.R) - 4)
			a.Terrain[row][col] = ukrmap.TerrainType(px.G & 0x0f)
			a.Variant[row][col] = px.G >> 4
			a.MountainFlags[row][col] = px.B
		}
	}
	return levels, a
}

// EncodeRivers packs the river trace: R = segment id (255 none),
// G = position, B = exit edge (6 none), A = 0. Traces with more segments
// than encodable ids are rejected.
func EncodeRivers(t *rivers.Trace) (*image.NRGBA, error) {
	if t.Segments > int(ukrmap.NoRiverSegment) {
		return nil, &RangeError{Texture: "Rivers", Field: "segment id",
			Value: t.Segments - 1, Max: int(ukrmap.NoRiverSegment) - 1}
	}
	h, w := len(t.SegmentID), len(t.SegmentID[0])
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			edge := t.ExitEdge[row][col]
			if edge > uint8(ukrmap.NoDirection) {
				return nil, &RangeError{Texture: "Rivers", Col: col, Row: row,
					Field: "exit edge", Value: int(edge), Max: int(ukrmap.NoDirection)}
			}
			img.SetNRGBA(col, row, color.NRGBA{
				R: t.SegmentID[row][col],
				G: t.Position[row][col],
				B: edge,
			})
		}
	}
	return img, nil
}

// DecodeRivers is the exact inverse of EncodeRivers.
func DecodeRivers(img image.Image) *rivers.Trace {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	t := &rivers.Trace{
		SegmentID: make([][]uint8, h),
		Position:  make([][]uint8, h),
		ExitEdge:  make([][]uint8, h),
	}
	seen := map[uint8]bool{}
	for row := 0; row < h; row++ {
		t.SegmentID[row] = make([]uint8, w)
		t.Position[row] = make([]uint8, w)
		t.ExitEdge[row] = make([]uint8, w)
		for col := 0; col < w; col++ {
			px := pixelAt(img, b.Min.X+col, b.Min.Y+row)
			t.SegmentID[row][col] = px.R
			t.Position[row][col] = px.G
			t.ExitEdge[row][col] = px.B
			if px.R != ukrmap.NoRiverSegment && !seen[px.R] {
				seen[px.R] = true
				t.Segments++
			}
		}
	}
	return t
}

// EncodePOI packs the per-hex point-of-interest index into R (0 = none).
func EncodePOI(poi [][]uint8) (*image.NRGBA, error) {
	h, w := len(poi), len(poi[0])
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := poi[row][col]
			if int(idx) > len(ukrmap.POINames) {
				return nil, &RangeError{Texture: "POI", Col: col, Row: row,
					Field: "poi", Value: int(idx), Max: len(ukrmap.POINames)}
			}
			img.SetNRGBA(col, row, color.NRGBA{R: idx})
		}
	}
	return img, nil
}

// EncodeWonders packs the per-hex natural wonder index into R (255 = none).
func EncodeWonders(wonders [][]uint8) (*image.NRGBA, error) {
	h, w := len(wonders), len(wonders[0])
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := wonders[row][col]
			if idx != ukrmap.NoWonder && int(idx) > len(ukrmap.NaturalWonderNames) {
				return nil, &RangeError{Texture: "NaturalWonder", Col: col, Row: row,
					Field: "wonder", Value: int(idx), Max: len(ukrmap.NaturalWonderNames)}
			}
			img.SetNRGBA(col, row, color.NRGBA{R: idx})
		}
	}
	return img, nil
}

// DecodeIndex unpacks a single-channel index texture (POI, NaturalWonder).
func DecodeIndex(img image.Image) [][]uint8 {
	b := img.Bounds()
	out := make([][]uint8, b.Dy())
	for row := range out {
		out[row] = make([]uint8, b.Dx())
		for col := range out[row] {
			out[row][col] = pixelAt(img, b.Min.X+col, b.Min.Y+row).R
		}
	}
	return out
}

// Placeholder returns an all-zero texture for the kinds the generator does
// not populate (Road, Visibility, MatchingSeed, Landmarks).
func Placeholder(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// ToBase64PNG serializes a texture the way the save document stores it.
func ToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("texture.ToBase64PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// FromBase64PNG reverses ToBase64PNG.
func FromBase64PNG(s string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("texture.FromBase64PNG: decode base64: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture.FromBase64PNG: decode png: %w", err)
	}
	return img, nil
}
