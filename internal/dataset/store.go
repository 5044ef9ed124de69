// Package dataset owns the on-disk layout of the data directory: per-year,
// per-country, and global geometry documents plus the discovery index.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/paulmach/orb/geojson"
)

const (
	// GlobalFileName is the aggregate document at the data-dir root.
	GlobalFileName = "global_areas.geojson"

	// IndexFileName is the discovery manifest at the data-dir root.
	IndexFileName = "index.json"
)

var (
	yearFileRe    = regexp.MustCompile(`^([A-Z0-9]{3})_(\d{4})_areas\.geojson$`)
	countryFileRe = regexp.MustCompile(`^([A-Z0-9]{3})_areas\.geojson$`)
)

// Store resolves paths inside one data directory and reads/writes the
// geometry documents in it.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// YearPath is the per-year document for one country.
func (s *Store) YearPath(iso3 string, year int) string {
	return filepath.Join(s.dir, iso3, fmt.Sprintf("%s_%d_areas.geojson", iso3, year))
}

// CountryPath is the merged document for one country.
func (s *Store) CountryPath(iso3 string) string {
	return filepath.Join(s.dir, iso3, fmt.Sprintf("%s_areas.geojson", iso3))
}

// GlobalPath is the global aggregate document.
func (s *Store) GlobalPath() string {
	return filepath.Join(s.dir, GlobalFileName)
}

// IndexPath is the discovery manifest.
func (s *Store) IndexPath() string {
	return filepath.Join(s.dir, IndexFileName)
}

// WriteCollection persists a feature collection compactly at path, creating
// parent directories as needed.
func WriteCollection(path string, fc *geojson.FeatureCollection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadCollection loads a feature collection document from disk.
func ReadCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return fc, nil
}

// CountryDocuments returns every per-country merged document under the data
// directory, sorted by path. The global aggregate is not included.
func (s *Store) CountryDocuments() ([]string, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return nil, err
	}

	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if countryFileRe.MatchString(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
