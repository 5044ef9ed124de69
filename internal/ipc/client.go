// Package ipc is the HTTP client for the IPC areas API.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/maplumi/ipc-areas/internal/logger"
)

// userAgent identifies the pipeline to the IPC API.
const userAgent = "IPC-Areas-Downloader/1.0"

// ErrNoData is returned when the API responds successfully but carries no
// features for the requested country and year.
var ErrNoData = errors.New("no area data available")

// Client is an HTTP client for the IPC areas API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new IPC API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// envelope is a lenient FeatureCollection wrapper: features are decoded one
// at a time so a single malformed feature doesn't discard the response.
type envelope struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// FetchAreas downloads area features for one country and assessment year.
// Returns ErrNoData when the response carries no usable features.
func (c *Client) FetchAreas(ctx context.Context, iso2 string, year int) ([]*geojson.Feature, error) {
	params := url.Values{}
	params.Set("format", "geojson")
	params.Set("country", iso2)
	params.Set("year", strconv.Itoa(year))
	params.Set("type", "A")
	params.Set("key", c.apiKey)

	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	start := time.Now()
	logger.Request("ipc", http.MethodGet, c.baseURL, map[string]interface{}{
		"country": iso2,
		"year":    year,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("ipc", "fetch", err)
		return nil, fmt.Errorf("ipc request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("ipc status %d for %s %d", resp.StatusCode, iso2, year)
		logger.Error("ipc", "fetch", err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ipc response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		logger.Error("ipc", "decode", err)
		return nil, fmt.Errorf("decode ipc response: %w", err)
	}

	var features []*geojson.Feature
	for _, raw := range env.Features {
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			// One bad feature doesn't sink the response.
			logger.Error("ipc", "decode feature", err)
			continue
		}
		features = append(features, f)
	}

	logger.Response("ipc", resp.StatusCode, time.Since(start), len(features))

	if len(features) == 0 {
		return nil, ErrNoData
	}
	return features, nil
}
