// Package config loads the pipeline configuration from a TOML file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/ukrmap/ukrmap/hexgrid"
	"github.com/ukrmap/ukrmap/territory"
)

// Config is the full pipeline configuration.
type Config struct {
	Grid      GridConfig      `toml:"grid"`
	Bounds    BoundsConfig    `toml:"bounds"`
	Data      DataConfig      `toml:"data"`
	Territory TerritoryConfig `toml:"territory"`
	Rivers    RiversConfig    `toml:"rivers"`
	Output    OutputConfig    `toml:"output"`
	Islands   []IslandConfig  `toml:"islands"`
}

// GridConfig sets the hex grid dimensions.
type GridConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// BoundsConfig is the geographic box the grid maps onto.
type BoundsConfig struct {
	MinLon float64 `toml:"min_lon"`
	MaxLon float64 `toml:"max_lon"`
	MinLat float64 `toml:"min_lat"`
	MaxLat float64 `toml:"max_lat"`
}

// DataConfig points at the input datasets.
type DataConfig struct {
	RaionsPath   string `toml:"raions"`
	RiversPath   string `toml:"rivers"`
	CacheDir     string `toml:"cache_dir"`
	LandCoverURL string `toml:"landcover_url"`
}

// TerritoryConfig carries the assignment thresholds.
type TerritoryConfig struct {
	MinHexes      int     `toml:"min_hexes"`
	MaxUndersized int     `toml:"max_undersized"`
	CoverageMin   float64 `toml:"coverage_min"`
	CoverageMax   float64 `toml:"coverage_max"`
}

// RiversConfig tunes the river tracer.
type RiversConfig struct {
	// MainWaterway names the river treated as the navigable mountain-chain
	// waterway (the Dnipro on the Ukraine map).
	MainWaterway string `toml:"main_waterway"`
}

// OutputConfig sets the artifact destinations.
type OutputConfig struct {
	Path         string `toml:"path"`
	EmpiresCount int    `toml:"empires_count"`
}

// IslandConfig is one deliberately tiny named territory.
type IslandConfig struct {
	Name   string  `toml:"name"`
	Oblast string  `toml:"oblast"`
	Lon    float64 `toml:"lon"`
	Lat    float64 `toml:"lat"`
}

// Default returns the Ukraine map configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{Width: 150, Height: 88},
		Bounds: BoundsConfig{
			MinLon: 22.0, MaxLon: 40.5,
			MinLat: 44.0, MaxLat: 52.5,
		},
		Data: DataConfig{
			RaionsPath: "data/raions.geojson",
			RiversPath: "data/rivers.geojson",
			CacheDir:   "cache",
		},
		Territory: TerritoryConfig{
			MinHexes:      4,
			MaxUndersized: 5,
			CoverageMin:   0.35,
			CoverageMax:   0.65,
		},
		Rivers: RiversConfig{MainWaterway: "Дніпро"},
		Output: OutputConfig{
			Path:         "ukraine.hmap",
			EmpiresCount: 10,
		},
		Islands: []IslandConfig{
			{Name: "Зміїний", Oblast: "Одеська", Lon: 30.2042, Lat: 45.2555},
		},
	}
}

// Load reads a TOML config file over the defaults, so partial files only
// override what they name.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("config: grid %dx%d is not positive", c.Grid.Width, c.Grid.Height)
	}
	if c.Bounds.MinLon >= c.Bounds.MaxLon || c.Bounds.MinLat >= c.Bounds.MaxLat {
		return fmt.Errorf("config: bounds %+v are inverted or empty", c.Bounds)
	}
	if c.Territory.CoverageMin < 0 || c.Territory.CoverageMax > 1 ||
		c.Territory.CoverageMin >= c.Territory.CoverageMax {
		return fmt.Errorf("config: coverage band [%v, %v] is invalid",
			c.Territory.CoverageMin, c.Territory.CoverageMax)
	}
	if c.Output.EmpiresCount < 1 || c.Output.EmpiresCount > 10 {
		return fmt.Errorf("config: empires_count %d outside 1..10", c.Output.EmpiresCount)
	}
	return nil
}

// GridBounds returns the geographic box as the hexgrid type.
func (c *Config) GridBounds() hexgrid.Bounds {
	return hexgrid.Bounds{
		MinLon: c.Bounds.MinLon,
		MaxLon: c.Bounds.MaxLon,
		MinLat: c.Bounds.MinLat,
		MaxLat: c.Bounds.MaxLat,
	}
}

// TerritoryConfig returns the assignment thresholds as the territory type.
func (c *Config) TerritoryConfig() territory.Config {
	islands := make([]territory.Island, len(c.Islands))
	for i, is := range c.Islands {
		islands[i] = territory.Island{
			Name:   is.Name,
			Oblast: is.Oblast,
			Lon:    is.Lon,
			Lat:    is.Lat,
		}
	}
	return territory.Config{
		MinHexes:      c.Territory.MinHexes,
		MaxUndersized: c.Territory.MaxUndersized,
		CoverageMin:   c.Territory.CoverageMin,
		CoverageMax:   c.Territory.CoverageMax,
		Islands:       islands,
	}
}
