package ipc

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/maplumi/ipc-areas/internal/areas"
	"github.com/maplumi/ipc-areas/internal/countries"
)

// FilterPolygons keeps only Polygon/MultiPolygon features with coordinates,
// drops exact-duplicate geometries within the response, and normalizes each
// feature's properties to {title, country, iso3, year}. The upstream id is
// preserved when present.
func FilterPolygons(features []*geojson.Feature, country countries.Country, year int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	seen := map[string]struct{}{}

	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}

		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}
		if emptyGeometry(f.Geometry) {
			continue
		}

		digest := areas.GeometryDigest(f)
		if _, ok := seen[digest]; ok {
			continue
		}
		seen[digest] = struct{}{}

		out := geojson.NewFeature(f.Geometry)
		if id := areas.UpstreamID(f); id != "" {
			out.ID = id
			out.Properties[areas.PropID] = id
		}
		out.Properties[areas.PropTitle] = f.Properties.MustString(areas.PropTitle, "")
		out.Properties[areas.PropCountry] = f.Properties.MustString(areas.PropCountry, country.ISO2)
		out.Properties[areas.PropISO3] = country.ISO3
		out.Properties[areas.PropYear] = yearOf(f, year)

		fc.Append(out)
	}

	return fc
}

func emptyGeometry(g orb.Geometry) bool {
	switch g := g.(type) {
	case orb.Polygon:
		return len(g) == 0 || len(g[0]) == 0
	case orb.MultiPolygon:
		return len(g) == 0
	}
	return true
}

// yearOf reads the source year property, tolerating the numeric and string
// encodings the API has used, and falls back to the requested year.
func yearOf(f *geojson.Feature, fallback int) int {
	switch v := f.Properties[areas.PropYear].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if y, err := strconv.Atoi(v); err == nil {
			return y
		}
	}
	return fallback
}
