package geodata

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/hexgrid"
)

// defaultSRTMURL is a printf pattern taking the tile name (e.g. N48E024).
const defaultSRTMURL = "https://elevation-tiles-prod.s3.amazonaws.com/skadi/%s.hgt.gz"

const srtmVoid = -32768

// SRTMSource samples elevation from SRTM .hgt tiles: square grids of
// big-endian int16 meters, one tile per degree cell, 1201 or 3601 samples
// per side. Tiles are fetched on demand and cached on disk keyed by tile
// name; corrupt cache files are deleted and refetched.
type SRTMSource struct {
	CacheDir string
	BaseURL  string
	Fetch    FetchFunc

	tiles  map[string]*hgtTile
	failed map[string]error
}

// NewSRTMSource returns a source caching tiles under cacheDir.
func NewSRTMSource(cacheDir string) *SRTMSource {
	return &SRTMSource{
		CacheDir: cacheDir,
		BaseURL:  defaultSRTMURL,
		Fetch:    httpFetch,
		tiles:    map[string]*hgtTile{},
		failed:   map[string]error{},
	}
}

// TileName returns the SRTM tile name covering the given point,
// e.g. (24.5, 48.16) -> N48E024.
func TileName(lon, lat float64) string {
	latF := int(math.Floor(lat))
	lonF := int(math.Floor(lon))
	ns, ew := "N", "E"
	if latF < 0 {
		ns = "S"
		latF = -latF
	}
	if lonF < 0 {
		ew = "W"
		lonF = -lonF
	}
	return fmt.Sprintf("%s%02d%s%03d", ns, latF, ew, lonF)
}

// ElevationAt returns the elevation in meters at the point, or
// ukrmap.ElevationNoData for voids. The error is non-nil when the covering
// tile could not be fetched or parsed.
func (s *SRTMSource) ElevationAt(ctx context.Context, lon, lat float64) (float64, error) {
	t, err := s.tile(ctx, TileName(lon, lat))
	if err != nil {
		return ukrmap.ElevationNoData, err
	}
	return t.sample(lon, lat), nil
}

// Grid samples elevation at every hex centroid of g.
// A tile that cannot be fetched leaves its hexes at the no-data sentinel
// and the run continues; only context cancellation aborts the whole grid.
func (s *SRTMSource) Grid(ctx context.Context, g *hexgrid.Grid) ([][]float64, error) {
	out := make([][]float64, g.Height)
	for row := range out {
		out[row] = make([]float64, g.Width)
		for col := range out[row] {
			out[row][col] = ukrmap.ElevationNoData
		}
	}
	for row := 0; row < g.Height; row++ {
		if row%10 == 0 {
			slog.Debug("sampling elevation", "row", row, "rows", g.Height)
		}
		for col := 0; col < g.Width; col++ {
			lon, lat := g.CenterLonLat(hexgrid.Coord{Col: col, Row: row})
			v, err := s.ElevationAt(ctx, lon, lat)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			out[row][col] = v
		}
	}
	if len(s.failed) > 0 {
		slog.Warn("elevation tiles unavailable", "tiles", len(s.failed))
	}
	return out, nil
}

func (s *SRTMSource) tile(ctx context.Context, name string) (*hgtTile, error) {
	if t, ok := s.tiles[name]; ok {
		return t, nil
	}
	if err, ok := s.failed[name]; ok {
		return nil, err
	}

	path := filepath.Join(s.CacheDir, name+".hgt")
	if data, err := os.ReadFile(path); err == nil {
		t, perr := parseHGT(data)
		if perr == nil {
			slog.Debug("elevation cache hit", "tile", name)
			s.tiles[name] = t
			return t, nil
		}
		slog.Info("removing corrupt elevation tile from cache", "tile", name, "error", perr)
		os.Remove(path)
	}

	url := fmt.Sprintf(s.BaseURL, name)
	body, err := fetchRetry(ctx, s.Fetch, url)
	if err != nil {
		s.failed[name] = err
		return nil, err
	}
	body, err = maybeGunzip(body)
	if err != nil {
		err = &DataQualityError{Source: "srtm", Feature: name, Detail: err.Error()}
		s.failed[name] = err
		return nil, err
	}
	t, err := parseHGT(body)
	if err != nil {
		err = &DataQualityError{Source: "srtm", Feature: name, Detail: err.Error()}
		s.failed[name] = err
		return nil, err
	}

	if err := os.MkdirAll(s.CacheDir, 0o750); err == nil {
		if werr := os.WriteFile(path, body, 0o640); werr != nil {
			slog.Info("failed to cache elevation tile", "tile", name, "error", werr)
		}
	}
	s.tiles[name] = t
	return t, nil
}

type hgtTile struct {
	n    int // samples per side
	data []byte
}

func parseHGT(data []byte) (*hgtTile, error) {
	switch len(data) {
	case 1201 * 1201 * 2:
		return &hgtTile{n: 1201, data: data}, nil
	case 3601 * 3601 * 2:
		return &hgtTile{n: 3601, data: data}, nil
	default:
		return nil, fmt.Errorf("unexpected hgt size %d bytes", len(data))
	}
}

// sample returns the nearest elevation sample to the point.
// Tile row 0 is the tile's northern edge.
func (t *hgtTile) sample(lon, lat float64) float64 {
	latF := math.Floor(lat)
	lonF := math.Floor(lon)
	row := int(math.Round((latF + 1 - lat) * float64(t.n-1)))
	col := int(math.Round((lon - lonF) * float64(t.n-1)))
	if row < 0 {
		row = 0
	}
	if row >= t.n {
		row = t.n - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= t.n {
		col = t.n - 1
	}
	v := int16(binary.BigEndian.Uint16(t.data[2*(row*t.n+col):]))
	if v == srtmVoid {
		return ukrmap.ElevationNoData
	}
	return float64(v)
}

func maybeGunzip(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	return out, nil
}
