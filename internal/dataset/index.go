package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maplumi/ipc-areas/internal/countries"
	"github.com/maplumi/ipc-areas/internal/logger"
)

// cdnURLFormat is the jsDelivr URL for a file in the published repository.
const cdnURLFormat = "https://cdn.jsdelivr.net/gh/maplumi/ipc-areas@%s/%s"

// Entry is one record of the discovery index, one per emitted document.
type Entry struct {
	Country      string `json:"country"`
	ISO2         string `json:"iso2,omitempty"`
	ISO3         string `json:"iso3,omitempty"`
	Year         int    `json:"year,omitempty"`
	Variant      string `json:"variant,omitempty"`
	RelativePath string `json:"relative_path"`
	FileName     string `json:"file_name"`
	FeatureCount int    `json:"feature_count"`
	CDNUrl       string `json:"cdn_url,omitempty"`
	UpdatedAt    string `json:"updated_at"`
}

// Index is the discovery manifest written to data/index.json. It is rebuilt
// from scratch on every run by scanning the data directory.
type Index struct {
	GeneratedAt   string  `json:"generated_at"`
	RunID         string  `json:"run_id"`
	CDNReleaseTag string  `json:"cdn_release_tag"`
	TotalFiles    int     `json:"total_files"`
	Items         []Entry `json:"items"`
}

// BuildIndex scans the data directory and produces a fresh manifest.
// Unreadable documents are logged and skipped.
func (s *Store) BuildIndex(list []countries.Country, releaseTag string) (*Index, error) {
	byISO3 := map[string]countries.Country{}
	for _, c := range list {
		byISO3[c.ISO3] = c
	}

	var items []Entry

	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) && path == s.dir {
				return filepath.SkipAll
			}
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".geojson") {
			return nil
		}

		entry, ok := s.classify(path, d.Name(), byISO3)
		if !ok {
			return nil
		}

		fc, err := ReadCollection(path)
		if err != nil {
			logger.L().Warn().Str("path", path).Err(err).Msg("skipping unreadable document")
			return nil
		}
		entry.FeatureCount = len(fc.Features)

		info, err := d.Info()
		if err != nil {
			return err
		}
		entry.UpdatedAt = info.ModTime().UTC().Format(time.RFC3339)
		entry.CDNUrl = fmt.Sprintf(cdnURLFormat, releaseTag, entry.RelativePath)

		items = append(items, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].ISO3 != items[j].ISO3 {
			return items[i].ISO3 < items[j].ISO3
		}
		if items[i].Year != items[j].Year {
			return items[i].Year < items[j].Year
		}
		return items[i].FileName < items[j].FileName
	})

	return &Index{
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		RunID:         uuid.NewString(),
		CDNReleaseTag: releaseTag,
		TotalFiles:    len(items),
		Items:         items,
	}, nil
}

// classify maps a file name onto an index entry skeleton. Unknown file names
// are ignored.
func (s *Store) classify(path, name string, byISO3 map[string]countries.Country) (Entry, bool) {
	rel, err := filepath.Rel(filepath.Dir(s.dir), path)
	if err != nil {
		rel = path
	}
	entry := Entry{
		RelativePath: filepath.ToSlash(rel),
		FileName:     name,
	}

	if name == GlobalFileName {
		entry.Country = "Global"
		entry.Variant = "global"
		return entry, true
	}

	if m := yearFileRe.FindStringSubmatch(name); m != nil {
		entry.ISO3 = m[1]
		entry.Year, _ = strconv.Atoi(m[2])
	} else if m := countryFileRe.FindStringSubmatch(name); m != nil {
		entry.ISO3 = m[1]
		entry.Variant = "merged"
	} else {
		return Entry{}, false
	}

	if c, ok := byISO3[entry.ISO3]; ok {
		entry.Country = c.Name
		entry.ISO2 = c.ISO2
	} else {
		entry.Country = entry.ISO3
	}
	return entry, true
}

// WriteIndex persists the manifest, human-readable.
func (s *Store) WriteIndex(idx *Index) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.IndexPath(), data, 0o644)
}
