package geodata

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// River is one named waterway as a set of polylines.
type River struct {
	Name  string
	Lines []orb.LineString

	// MainWaterway marks rivers wide enough to render as a contiguous
	// lake chain instead of a thin river overlay (the Dnipro and its
	// reservoir cascade).
	MainWaterway bool
}

// LoadRivers reads river polylines from a GeoJSON FeatureCollection of
// LineString/MultiLineString features.
func LoadRivers(path string) ([]River, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geodata.LoadRivers: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geodata.LoadRivers: parse %s: %w", path, err)
	}

	rivers := make([]River, 0, len(fc.Features))
	for i, f := range fc.Features {
		name := stringProp(f, "name", "name:en", "river")
		if name == "" {
			name = fmt.Sprintf("river %d", i)
		}
		var lines []orb.LineString
		switch geom := f.Geometry.(type) {
		case orb.LineString:
			lines = []orb.LineString{geom}
		case orb.MultiLineString:
			lines = geom
		default:
			return nil, &DataQualityError{
				Source:  "rivers",
				Feature: name,
				Detail:  fmt.Sprintf("unsupported geometry type %T", f.Geometry),
			}
		}
		for _, line := range lines {
			if len(line) < 2 {
				return nil, &DataQualityError{
					Source:  "rivers",
					Feature: name,
					Detail:  "polyline with fewer than two points",
				}
			}
		}
		rivers = append(rivers, River{
			Name:         name,
			Lines:        lines,
			MainWaterway: isMainWaterway(name),
		})
	}
	return rivers, nil
}

func isMainWaterway(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "dnipro") ||
		strings.Contains(n, "dnieper") ||
		strings.Contains(n, "дніпро")
}
