package areas

import (
	"sort"

	"github.com/paulmach/orb/geojson"
)

// DuplicateKeys scans a collection for deduplication-key collisions and
// returns the duplicate keys globally and grouped by ISO3. Both slices and
// map values are sorted for stable reporting.
func DuplicateKeys(fc *geojson.FeatureCollection) ([]string, map[string][]string) {
	global := map[string]int{}
	perCountry := map[string]map[string]int{}

	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		key := Key(f)
		iso3 := ISO3(f)
		if iso3 == "" {
			iso3 = "UNK"
		}

		global[key]++
		if perCountry[iso3] == nil {
			perCountry[iso3] = map[string]int{}
		}
		perCountry[iso3][key]++
	}

	var globalDupes []string
	for key, n := range global {
		if n > 1 {
			globalDupes = append(globalDupes, key)
		}
	}
	sort.Strings(globalDupes)

	countryDupes := map[string][]string{}
	for iso3, counts := range perCountry {
		var dupes []string
		for key, n := range counts {
			if n > 1 {
				dupes = append(dupes, key)
			}
		}
		if len(dupes) > 0 {
			sort.Strings(dupes)
			countryDupes[iso3] = dupes
		}
	}

	return globalDupes, countryDupes
}
