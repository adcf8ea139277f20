package geodata

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/tiff"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// minLandCoverBytes guards against truncated cache files; a real regional
// raster is never this small.
const minLandCoverBytes = 10_000

// LandCoverSource samples Copernicus CGLS-LC100 discrete classification
// codes from a regional GeoTIFF covering the configured bounds. The raster
// is fetched once, cached on disk, and validated (size + decode) before any
// cached copy is reused.
type LandCoverSource struct {
	CachePath string
	URL       string
	Bounds    hexgrid.Bounds
	Fetch     FetchFunc

	img image.Image
}

// NewLandCoverSource returns a source for a raster that covers bounds.
func NewLandCoverSource(cachePath, url string, bounds hexgrid.Bounds) *LandCoverSource {
	return &LandCoverSource{
		CachePath: cachePath,
		URL:       url,
		Bounds:    bounds,
		Fetch:     httpFetch,
	}
}

// Load ensures the raster is available, preferring a valid cache file.
func (s *LandCoverSource) Load(ctx context.Context) error {
	if s.img != nil {
		return nil
	}
	if data, err := os.ReadFile(s.CachePath); err == nil {
		img, verr := decodeLandCover(data)
		if verr == nil {
			slog.Debug("land cover cache hit", "path", s.CachePath)
			s.img = img
			return nil
		}
		slog.Info("removing corrupt land cover cache", "path", s.CachePath, "error", verr)
		os.Remove(s.CachePath)
	}

	body, err := fetchRetry(ctx, s.Fetch, s.URL)
	if err != nil {
		return fmt.Errorf("geodata.LandCoverSource.Load: %w", err)
	}
	img, err := decodeLandCover(body)
	if err != nil {
		return &DataQualityError{Source: "landcover", Detail: err.Error()}
	}
	if err := os.MkdirAll(filepath.Dir(s.CachePath), 0o750); err == nil {
		if werr := os.WriteFile(s.CachePath, body, 0o640); werr != nil {
			slog.Info("failed to cache land cover raster", "path", s.CachePath, "error", werr)
		}
	}
	s.img = img
	return nil
}

func decodeLandCover(data []byte) (image.Image, error) {
	if len(data) < minLandCoverBytes {
		return nil, fmt.Errorf("raster too small (%d bytes)", len(data))
	}
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode tiff: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty raster")
	}
	return img, nil
}

// ClassAt returns the land-cover class at the geographic point.
// Points outside the raster's bounds report open sea.
func (s *LandCoverSource) ClassAt(lon, lat float64) ukrmap.LandCoverClass {
	if s.img == nil || !s.Bounds.Contains(lon, lat) {
		return ukrmap.CoverOpenSea
	}
	b := s.img.Bounds()
	x := b.Min.X + int((lon-s.Bounds.MinLon)/(s.Bounds.MaxLon-s.Bounds.MinLon)*float64(b.Dx()))
	y := b.Min.Y + int((s.Bounds.MaxLat-lat)/(s.Bounds.MaxLat-s.Bounds.MinLat)*float64(b.Dy()))
	if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	return classOf(s.img, x, y)
}

// Grid resamples the raster to the hex grid's resolution and returns the
// class at each hex centroid. Load must have succeeded first.
func (s *LandCoverSource) Grid(ctx context.Context, g *hexgrid.Grid) ([][]ukrmap.LandCoverClass, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	// class codes must not be interpolated, so resampling is strictly
	// nearest-neighbor
	resized := transform.Resize(s.img, g.Width, g.Height, transform.NearestNeighbor)

	out := make([][]ukrmap.LandCoverClass, g.Height)
	for row := range out {
		out[row] = make([]ukrmap.LandCoverClass, g.Width)
		for col := range out[row] {
			out[row][col] = classOf(resized, col, row)
		}
	}
	return out, nil
}

// classOf reads the class code stored as the pixel's gray value.
func classOf(img image.Image, x, y int) ukrmap.LandCoverClass {
	r, _, _, _ := img.At(x, y).RGBA()
	return ukrmap.LandCoverClass(r >> 8)
}
