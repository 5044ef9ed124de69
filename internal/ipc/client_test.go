package ipc_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maplumi/ipc-areas/internal/ipc"
)

const sampleResponse = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"id": "12345",
			"geometry": {"type": "Polygon", "coordinates": [[[45.1, 2.1], [45.2, 2.1], [45.2, 2.2], [45.1, 2.2], [45.1, 2.1]]]},
			"properties": {"title": "Banadir", "country": "SO", "year": 2024}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [45.0, 2.0]},
			"properties": {"title": "A point"}
		}
	]
}`

// TestFetchAreas verifies query parameters are set and features are decoded.
func TestFetchAreas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("country") != "SO" || q.Get("year") != "2024" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("format") != "geojson" || q.Get("type") != "A" || q.Get("key") != "test-key" {
			t.Errorf("missing fixed params: %s", r.URL.RawQuery)
		}
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := ipc.NewClient("test-key", srv.URL)
	features, err := client.FetchAreas(context.Background(), "SO", 2024)
	if err != nil {
		t.Fatalf("FetchAreas failed: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}
}

// TestFetchAreas_HTTPError verifies a non-200 status is an error.
func TestFetchAreas_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := ipc.NewClient("bad-key", srv.URL)
	if _, err := client.FetchAreas(context.Background(), "SO", 2024); err == nil {
		t.Fatal("expected error for HTTP 403")
	}
}

// TestFetchAreas_InvalidJSON verifies a malformed body is an error.
func TestFetchAreas_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := ipc.NewClient("test-key", srv.URL)
	if _, err := client.FetchAreas(context.Background(), "SO", 2024); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

// TestFetchAreas_Empty verifies an empty feature list maps to ErrNoData.
func TestFetchAreas_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "FeatureCollection", "features": []}`))
	}))
	defer srv.Close()

	client := ipc.NewClient("test-key", srv.URL)
	_, err := client.FetchAreas(context.Background(), "SO", 2024)
	if !errors.Is(err, ipc.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

// TestFetchAreas_SkipsBadFeature verifies one malformed feature doesn't
// discard the rest of the response.
func TestFetchAreas_SkipsBadFeature(t *testing.T) {
	body := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Nonsense"}, "properties": {}},
			{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}, "properties": {"title": "Good"}}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := ipc.NewClient("test-key", srv.URL)
	features, err := client.FetchAreas(context.Background(), "SO", 2024)
	if err != nil {
		t.Fatalf("FetchAreas failed: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
}
