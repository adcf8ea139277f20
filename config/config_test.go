package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ukrmap/ukrmap/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Grid.Width != 150 || cfg.Grid.Height != 88 {
		t.Errorf("grid = %dx%d, want 150x88", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Rivers.MainWaterway != "Дніпро" {
		t.Errorf("main waterway = %q", cfg.Rivers.MainWaterway)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "partial.toml"))
	if err != nil {
		t.Fatal(err)
	}

	// overridden values
	if cfg.Grid.Width != 60 || cfg.Grid.Height != 40 {
		t.Errorf("grid = %dx%d, want 60x40", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Territory.MinHexes != 2 {
		t.Errorf("min hexes = %d, want 2", cfg.Territory.MinHexes)
	}
	if cfg.Output.EmpiresCount != 6 {
		t.Errorf("empires = %d, want 6", cfg.Output.EmpiresCount)
	}

	// untouched sections keep the defaults
	if cfg.Bounds.MinLon != 22.0 || cfg.Bounds.MaxLat != 52.5 {
		t.Errorf("bounds = %+v, want Ukraine defaults", cfg.Bounds)
	}
	if cfg.Territory.CoverageMin != 0.35 {
		t.Errorf("coverage min = %v, want default", cfg.Territory.CoverageMin)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := map[string]func(*config.Config){
		"zero grid":          func(c *config.Config) { c.Grid.Width = 0 },
		"inverted bounds":    func(c *config.Config) { c.Bounds.MinLon = 50; c.Bounds.MaxLon = 20 },
		"empty coverage":     func(c *config.Config) { c.Territory.CoverageMin = 0.7; c.Territory.CoverageMax = 0.4 },
		"too many empires":   func(c *config.Config) { c.Output.EmpiresCount = 11 },
		"zero empires":       func(c *config.Config) { c.Output.EmpiresCount = 0 },
		"coverage above one": func(c *config.Config) { c.Territory.CoverageMax = 1.5 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[grid]\nwidth = -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("config with negative grid width accepted")
	}
}

func TestBridgeTypes(t *testing.T) {
	cfg := config.Default()
	b := cfg.GridBounds()
	if b.MinLon != cfg.Bounds.MinLon || b.MaxLat != cfg.Bounds.MaxLat {
		t.Error("GridBounds dropped values")
	}
	tc := cfg.TerritoryConfig()
	if tc.MinHexes != cfg.Territory.MinHexes || len(tc.Islands) != len(cfg.Islands) {
		t.Error("TerritoryConfig dropped values")
	}
	if len(tc.Islands) > 0 && tc.Islands[0].Name != cfg.Islands[0].Name {
		t.Error("island names lost in bridge")
	}
}
