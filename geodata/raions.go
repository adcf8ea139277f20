package geodata

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/ukrmap/ukrmap/hexgrid"
)

// Raion is one second-level administrative district polygon.
type Raion struct {
	Name     string
	Oblast   string
	Geometry orb.MultiPolygon
}

// Contains reports whether the geographic point lies inside the raion.
func (r Raion) Contains(lon, lat float64) bool {
	return planar.MultiPolygonContains(r.Geometry, orb.Point{lon, lat})
}

// Bound returns the raion's geographic bounding box.
func (r Raion) Bound() orb.Bound {
	return r.Geometry.Bound()
}

// LoadRaions reads raion polygons from a GeoJSON FeatureCollection.
// Features must carry name and oblast properties and polygon geometry;
// anything else is a DataQualityError.
func LoadRaions(path string) ([]Raion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geodata.LoadRaions: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geodata.LoadRaions: parse %s: %w", path, err)
	}

	raions := make([]Raion, 0, len(fc.Features))
	for i, f := range fc.Features {
		name := stringProp(f, "name", "NAME_2", "raion")
		if name == "" {
			name = fmt.Sprintf("feature %d", i)
		}
		oblast := stringProp(f, "oblast", "NAME_1", "region")

		var mp orb.MultiPolygon
		switch geom := f.Geometry.(type) {
		case orb.Polygon:
			mp = orb.MultiPolygon{geom}
		case orb.MultiPolygon:
			mp = geom
		default:
			return nil, &DataQualityError{
				Source:  "raions",
				Feature: name,
				Detail:  fmt.Sprintf("unsupported geometry type %T", f.Geometry),
			}
		}
		for _, poly := range mp {
			if len(poly) == 0 || len(poly[0]) < 4 {
				return nil, &DataQualityError{
					Source:  "raions",
					Feature: name,
					Detail:  "degenerate polygon ring",
				}
			}
		}
		raions = append(raions, Raion{Name: name, Oblast: oblast, Geometry: mp})
	}
	return raions, nil
}

// ValidateRaions checks that every raion intersects the expected bounds.
// A raion entirely outside the box is a data-quality error, not something
// the assignment step should silently skip.
func ValidateRaions(raions []Raion, bounds hexgrid.Bounds) error {
	box := orb.Bound{
		Min: orb.Point{bounds.MinLon, bounds.MinLat},
		Max: orb.Point{bounds.MaxLon, bounds.MaxLat},
	}
	for _, r := range raions {
		if !r.Bound().Intersects(box) {
			return &DataQualityError{
				Source:  "raions",
				Feature: r.Name,
				Detail:  fmt.Sprintf("polygon bound %v outside map bounds", r.Bound()),
			}
		}
	}
	return nil
}

func stringProp(f *geojson.Feature, keys ...string) string {
	for _, k := range keys {
		if v, ok := f.Properties[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
