// Package render draws debug previews of the generated map: hex fills by
// terrain or territory, river overlays, and scaled-up texture previews.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/transform"
	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
	"github.com/ukrmap/ukrmap/rivers"
)

// TerrainDrawColors are the fill colors used when drawing hexes by terrain
// type. Indexed by the terrain's position in the name table.
var TerrainDrawColors = [15]color.RGBA{
	{0x9e, 0x9e, 0x9e, 0xff}, // CityTerrain
	{0x7f, 0xc4, 0xe0, 0xff}, // CoastalWater
	{0xc8, 0xb5, 0x60, 0xff}, // DryGrass
	{0x2d, 0x6a, 0x2d, 0xff}, // Forest
	{0x4a, 0x90, 0xd9, 0xff}, // Lake
	{0x8a, 0x7a, 0x66, 0xff}, // Mountain
	{0xe8, 0xec, 0xf0, 0xff}, // MountainSnow
	{0x1f, 0x4e, 0x8c, 0xff}, // Ocean
	{0x94, 0xc0, 0x58, 0xff}, // Prairie
	{0xa8, 0x9f, 0x8a, 0xff}, // RockyField
	{0x55, 0x6b, 0x44, 0xff}, // RockyForest
	{0xd8, 0xd0, 0xc0, 0xff}, // Sterile
	{0xb0, 0xa8, 0x98, 0xff}, // StoneField
	{0x99, 0x85, 0x70, 0xff}, // Wasteland
	{0x6f, 0x9a, 0x3f, 0xff}, // WoodLand
}

var riverDrawColor = color.RGBA{0x20, 0x60, 0xd0, 0xff}

// DrawTerrain fills each hex of img with its terrain color.
// The grid's hex size must already be set to match img's dimensions;
// use SizeImage to allocate a matching canvas.
func DrawTerrain(img draw.Image, g *hexgrid.Grid, terrain [][]ukrmap.TerrainType) error {
	if img.Bounds().Empty() {
		return errors.New("render.DrawTerrain: image cannot be empty")
	}
	if (img.Bounds().Min != image.Point{}) {
		// draw2dimg misbehaves when the canvas does not start at 0,0
		return errors.New("render.DrawTerrain: image bounds must start at 0,0")
	}

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetStrokeColor(color.RGBA{0, 0, 0, 0x30})
	gc.SetLineWidth(g.HexSize() / 12)

	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			tt := terrain[row][col]
			if int(tt) >= len(TerrainDrawColors) {
				return fmt.Errorf("render.DrawTerrain: terrain %d out of range at (%d,%d)", tt, col, row)
			}
			gc.SetFillColor(TerrainDrawColors[tt])
			fillHex(gc, g, hexgrid.Coord{Col: col, Row: row})
		}
	}
	return nil
}

// DrawTerritories fills each hex with a color derived from its territory
// index, so adjacent territories are visually distinct. Ocean territories
// are looked up in isOcean and drawn darker.
func DrawTerritories(img draw.Image, g *hexgrid.Grid, territoryOf [][]int, isOcean []bool) error {
	if img.Bounds().Empty() {
		return errors.New("render.DrawTerritories: image cannot be empty")
	}
	if (img.Bounds().Min != image.Point{}) {
		return errors.New("render.DrawTerritories: image bounds must start at 0,0")
	}

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetStrokeColor(color.White)
	gc.SetLineWidth(g.HexSize() / 10)

	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			idx := territoryOf[row][col]
			fc := TerritoryColor(idx)
			if idx < len(isOcean) && isOcean[idx] {
				fc.R /= 2
				fc.G /= 2
				fc.B /= 2
			}
			gc.SetFillColor(fc)
			fillHex(gc, g, hexgrid.Coord{Col: col, Row: row})
		}
	}
	return nil
}

// TerritoryColor returns a deterministic, well-spread color for a
// territory index, stepping around the hue wheel by a golden-angle-like
// stride so neighboring indices land far apart.
func TerritoryColor(idx int) color.RGBA {
	hue := float64(idx*137%360) / 360
	return hsv(hue, 0.55, 0.85)
}

// OverlayRivers strokes each river hex's flow edge: a line from the hex
// center toward the neighbor its exit edge points at.
func OverlayRivers(img draw.Image, g *hexgrid.Grid, tr *rivers.Trace) {
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetStrokeColor(riverDrawColor)
	gc.SetLineWidth(g.HexSize() / 4)

	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c := hexgrid.Coord{Col: col, Row: row}
			if !tr.IsRiver(c) {
				continue
			}
			exit := ukrmap.Direction(tr.ExitEdge[row][col])
			if exit >= ukrmap.NoDirection {
				continue
			}
			x0, y0 := g.Center(c)
			nb := g.Neighbors(c)[exit].Coord
			x1, y1 := g.Center(nb)

			gc.BeginPath()
			gc.MoveTo(x0, y0)
			gc.LineTo(x1, y1)
			gc.Stroke()
		}
	}
}

// SizeImage allocates an NRGBA canvas covering the grid's pixel bounds at
// the given hex size.
func SizeImage(g *hexgrid.Grid, hexSize float64) *image.NRGBA {
	g.SetHexSize(hexSize)
	maxX, maxY := g.PixelBounds()
	return image.NewNRGBA(image.Rect(0, 0, int(maxX)+1, int(maxY)+1))
}

// PreviewTexture scales a one-pixel-per-hex texture up by an integer
// factor with nearest-neighbor sampling, keeping hex values readable.
func PreviewTexture(img image.Image, factor int) (image.Image, error) {
	if factor < 1 {
		return nil, fmt.Errorf("render.PreviewTexture: factor %d out of range", factor)
	}
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*factor, b.Dy()*factor, transform.NearestNeighbor), nil
}

func fillHex(gc *draw2dimg.GraphicContext, g *hexgrid.Grid, c hexgrid.Coord) {
	corners := g.Corners(c)
	gc.BeginPath()
	gc.MoveTo(corners[0][0], corners[0][1])
	for _, p := range corners[1:] {
		gc.LineTo(p[0], p[1])
	}
	gc.Close()
	gc.FillStroke()
}

// hsv converts hue/saturation/value in [0,1] to an opaque RGBA color.
func hsv(h, s, v float64) color.RGBA {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 0xff}
}
