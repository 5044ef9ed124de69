package areas_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"

	"github.com/maplumi/ipc-areas/internal/areas"
)

// poly builds a small square polygon offset by dx so geometries differ.
func poly(dx float64) orb.Polygon {
	return orb.Polygon{
		{{dx, 0}, {dx + 1, 0}, {dx + 1, 1}, {dx, 1}, {dx, 0}},
	}
}

// feature builds a normalized area feature with the given id, title and iso3.
func feature(id, title, iso3 string, year int, dx float64) *geojson.Feature {
	f := geojson.NewFeature(poly(dx))
	if id != "" {
		f.ID = id
		f.Properties[areas.PropID] = id
	}
	f.Properties[areas.PropTitle] = title
	f.Properties[areas.PropISO3] = iso3
	f.Properties[areas.PropYear] = year
	return f
}

func collection(features ...*geojson.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = features
	return fc
}

// TestMergeIdempotent verifies that merging a document with itself yields the
// same feature count.
func TestMergeIdempotent(t *testing.T) {
	fc := collection(
		feature("a1", "North Zone", "SOM", 2024, 0),
		feature("a2", "South Zone", "SOM", 2024, 2),
	)

	m := areas.NewMerger()
	require.Equal(t, 2, m.Add(fc))
	require.Equal(t, 0, m.Add(fc))
	require.Equal(t, 2, m.Len())
}

// TestMergeKeepsFirstSeen verifies that when a newer year repeats all of an
// older year's ids, only the first-seen entries survive, in insertion order.
func TestMergeKeepsFirstSeen(t *testing.T) {
	year2024 := collection(
		feature("a1", "North Zone 2024", "SOM", 2024, 0),
		feature("a2", "South Zone 2024", "SOM", 2024, 2),
	)
	year2023 := collection(
		feature("a1", "North Zone 2023", "SOM", 2023, 4),
		feature("a2", "South Zone 2023", "SOM", 2023, 6),
		feature("a3", "East Zone", "SOM", 2023, 8),
	)

	m := areas.NewMerger()
	require.Equal(t, 2, m.Add(year2024))
	require.Equal(t, 1, m.Add(year2023))

	out := m.Collection()
	require.Len(t, out.Features, 3)
	require.Equal(t, "North Zone 2024", areas.Title(out.Features[0]))
	require.Equal(t, "South Zone 2024", areas.Title(out.Features[1]))
	require.Equal(t, "East Zone", areas.Title(out.Features[2]))
}

// TestGlobalMergerScopesByISO3 verifies that the same id in different
// countries is kept, and that the global count equals the sum of unique
// per-country counts.
func TestGlobalMergerScopesByISO3(t *testing.T) {
	som := collection(
		feature("a1", "Zone", "SOM", 2024, 0),
		feature("a2", "Other", "SOM", 2024, 2),
	)
	ken := collection(
		feature("a1", "Zone", "KEN", 2024, 4),
	)

	perCountry := areas.NewMerger()
	perCountry.Add(som)
	somUnique := perCountry.Len()

	perCountry = areas.NewMerger()
	perCountry.Add(ken)
	kenUnique := perCountry.Len()

	g := areas.NewGlobalMerger()
	g.Add(som)
	g.Add(ken)
	require.Equal(t, somUnique+kenUnique, g.Len())

	// Same (iso3, id) again is a duplicate.
	require.Equal(t, 0, g.Add(ken))
}

// TestKeyPrefersUpstreamID verifies the key chain: upstream id, then
// normalized title, then geometry digest.
func TestKeyPrefersUpstreamID(t *testing.T) {
	withID := feature("a1", "Zone", "SOM", 2024, 0)
	require.Equal(t, "id::a1", areas.Key(withID))

	withTitle := feature("", "  Zone   One ", "SOM", 2024, 0)
	require.Equal(t, "title::zone one", areas.Key(withTitle))

	bare := geojson.NewFeature(poly(0))
	key := areas.Key(bare)
	require.Contains(t, key, "geometry::")

	// Identical geometry keys identically.
	require.Equal(t, key, areas.Key(geojson.NewFeature(poly(0))))
	require.NotEqual(t, key, areas.Key(geojson.NewFeature(poly(1))))
}

// TestNormalizeTitle verifies whitespace collapse and case folding.
func TestNormalizeTitle(t *testing.T) {
	require.Equal(t, "gedo region", areas.NormalizeTitle("  Gedo \t Region "))
	require.Equal(t, "", areas.NormalizeTitle("   "))
	require.Equal(t, areas.NormalizeTitle("BAKOOL"), areas.NormalizeTitle("bakool"))
}

// TestDuplicateKeys verifies duplicate detection globally and per country.
func TestDuplicateKeys(t *testing.T) {
	fc := collection(
		feature("a1", "Zone", "SOM", 2024, 0),
		feature("a1", "Zone", "SOM", 2024, 0),
		feature("a1", "Zone", "KEN", 2024, 2),
	)

	global, perCountry := areas.DuplicateKeys(fc)
	require.Equal(t, []string{"id::a1"}, global)
	require.Equal(t, map[string][]string{"SOM": {"id::a1"}}, perCountry)
}
