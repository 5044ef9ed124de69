package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// ErrMissingIPCKey is returned when no IPC API key is configured.
var ErrMissingIPCKey = errors.New("IPC_KEY environment variable is required")

// DefaultAPIBaseURL is the IPC areas API endpoint.
const DefaultAPIBaseURL = "https://api.ipcinfo.org/areas"

// Config holds all settings for the download pipeline.
type Config struct {
	// APIBaseURL is the IPC areas endpoint.
	APIBaseURL string

	// DataDir is where per-year, per-country, and global documents are written.
	DataDir string

	// CountriesCSV is the path to the country reference list.
	CountriesCSV string

	// YearFrom/YearTo bound the assessment years attempted, newest first.
	YearFrom int
	YearTo   int

	// RequestDelay is the minimum spacing between API requests.
	RequestDelay time.Duration

	// CountryDelay is the pause between countries.
	CountryDelay time.Duration

	// Precision is the decimal precision applied to merged coordinates.
	Precision int

	// IPCKey is the API key (required).
	IPCKey string

	// ForceRefresh re-fetches year documents that already exist on disk.
	ForceRefresh bool

	// DatabaseURL enables the optional Postgres catalog when set.
	DatabaseURL string
}

// fileConfig is the optional pipeline.yaml overlay.
type fileConfig struct {
	APIBaseURL   string  `yaml:"api_base_url"`
	DataDir      string  `yaml:"data_dir"`
	CountriesCSV string  `yaml:"countries_csv"`
	YearFrom     int     `yaml:"year_from"`
	YearTo       int     `yaml:"year_to"`
	RequestDelay string  `yaml:"request_delay"`
	CountryDelay string  `yaml:"country_delay"`
	Precision    *int    `yaml:"precision"`
}

// Load builds configuration from defaults, an optional pipeline.yaml,
// and environment variables (env wins).
func Load(yamlPath string) (Config, error) {
	cfg := Config{
		APIBaseURL:   DefaultAPIBaseURL,
		DataDir:      "data",
		CountriesCSV: "countries.csv",
		YearFrom:     2025,
		YearTo:       2020,
		RequestDelay: 500 * time.Millisecond,
		CountryDelay: time.Second,
		Precision:    6,
	}

	if yamlPath != "" {
		if err := cfg.applyFile(yamlPath); err != nil {
			return Config{}, err
		}
	}

	cfg.IPCKey = strings.TrimSpace(os.Getenv("IPC_KEY"))
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	switch strings.ToLower(strings.TrimSpace(os.Getenv("FORCE_REFRESH"))) {
	case "1", "true", "yes":
		cfg.ForceRefresh = true
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.APIBaseURL != "" {
		c.APIBaseURL = fc.APIBaseURL
	}
	if fc.DataDir != "" {
		c.DataDir = fc.DataDir
	}
	if fc.CountriesCSV != "" {
		c.CountriesCSV = fc.CountriesCSV
	}
	if fc.YearFrom != 0 {
		c.YearFrom = fc.YearFrom
	}
	if fc.YearTo != 0 {
		c.YearTo = fc.YearTo
	}
	if fc.RequestDelay != "" {
		d, err := time.ParseDuration(fc.RequestDelay)
		if err != nil {
			return fmt.Errorf("parse request_delay: %w", err)
		}
		c.RequestDelay = d
	}
	if fc.CountryDelay != "" {
		d, err := time.ParseDuration(fc.CountryDelay)
		if err != nil {
			return fmt.Errorf("parse country_delay: %w", err)
		}
		c.CountryDelay = d
	}
	if fc.Precision != nil {
		c.Precision = *fc.Precision
	}

	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.IPCKey == "" {
		return ErrMissingIPCKey
	}
	if c.YearFrom < c.YearTo {
		return fmt.Errorf("year_from %d is older than year_to %d", c.YearFrom, c.YearTo)
	}
	if c.Precision < 0 {
		return fmt.Errorf("precision must be >= 0, got %d", c.Precision)
	}
	return nil
}

// Years returns the assessment years to attempt, newest first.
func (c Config) Years() []int {
	years := make([]int, 0, c.YearFrom-c.YearTo+1)
	for y := c.YearFrom; y >= c.YearTo; y-- {
		years = append(years, y)
	}
	return years
}
