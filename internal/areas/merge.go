package areas

import "github.com/paulmach/orb/geojson"

// Merger accumulates features across documents, deduplicating by key and
// keeping the first occurrence. Output order is first-seen order, so callers
// add documents in fetch order (newest year first).
type Merger struct {
	keyFn    func(*geojson.Feature) string
	seen     map[string]struct{}
	features []*geojson.Feature
}

// NewMerger creates a country-scope merger keyed by Key.
func NewMerger() *Merger {
	return &Merger{keyFn: Key, seen: map[string]struct{}{}}
}

// NewGlobalMerger creates a global-scope merger keyed by GlobalKey.
func NewGlobalMerger() *Merger {
	return &Merger{keyFn: GlobalKey, seen: map[string]struct{}{}}
}

// Add merges a collection's features and reports how many were new.
func (m *Merger) Add(fc *geojson.FeatureCollection) int {
	if fc == nil {
		return 0
	}
	return m.AddFeatures(fc.Features)
}

// AddFeatures merges a feature slice and reports how many were new.
func (m *Merger) AddFeatures(features []*geojson.Feature) int {
	added := 0
	for _, f := range features {
		if f == nil {
			continue
		}
		key := m.keyFn(f)
		if _, ok := m.seen[key]; ok {
			continue
		}
		m.seen[key] = struct{}{}
		m.features = append(m.features, f)
		added++
	}
	return added
}

// Len reports how many unique features have been merged.
func (m *Merger) Len() int {
	return len(m.features)
}

// Collection returns the merged features as a feature collection.
func (m *Merger) Collection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = append(fc.Features, m.features...)
	return fc
}
