// Package areas implements the merge/dedup/simplify core of the pipeline:
// stable feature keys, first-seen deduplication, coordinate rounding, and
// tolerance-based simplification of IPC area features.
package areas

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/cases"
)

// Property names carried on every normalized feature.
const (
	PropTitle   = "title"
	PropCountry = "country"
	PropISO3    = "iso3"
	PropYear    = "year"
	PropID      = "id"
)

var fold = cases.Fold()

// NormalizeTitle collapses whitespace and case-folds a title so that the same
// area name keys identically across years.
func NormalizeTitle(title string) string {
	return fold.String(strings.Join(strings.Fields(title), " "))
}

// Title returns the feature's title property, or "".
func Title(f *geojson.Feature) string {
	return f.Properties.MustString(PropTitle, "")
}

// ISO3 returns the feature's iso3 property, or "".
func ISO3(f *geojson.Feature) string {
	return f.Properties.MustString(PropISO3, "")
}

// UpstreamID returns the stable identifier assigned by the source, preferring
// the GeoJSON feature id over an id property. Returns "" when absent.
func UpstreamID(f *geojson.Feature) string {
	if f.ID != nil {
		return fmt.Sprintf("%v", f.ID)
	}
	if v, ok := f.Properties[PropID]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// Key derives the country-scope deduplication key for a feature:
// upstream id, then normalized title, then a geometry digest.
func Key(f *geojson.Feature) string {
	if id := UpstreamID(f); id != "" {
		return "id::" + id
	}
	if t := NormalizeTitle(Title(f)); t != "" {
		return "title::" + t
	}
	if f.Geometry != nil {
		return "geometry::" + GeometryDigest(f)
	}
	return "feature::" + featureDigest(f)
}

// GlobalKey derives the global-scope deduplication key: the country-scope key
// qualified by ISO3 so the same id may appear in different countries.
func GlobalKey(f *geojson.Feature) string {
	return strings.ToLower(ISO3(f)) + "::" + Key(f)
}

// GeometryDigest returns a stable SHA-1 digest of the feature's geometry in
// its GeoJSON encoding.
func GeometryDigest(f *geojson.Feature) string {
	data, err := json.Marshal(geojson.NewGeometry(f.Geometry))
	if err != nil {
		return ""
	}
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func featureDigest(f *geojson.Feature) string {
	data, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
