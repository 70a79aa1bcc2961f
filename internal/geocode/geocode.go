// Package geocode resolves free-text queries and coordinates to display
// names. Lookups are single-attempt with graceful degradation; a failed
// lookup degrades the label, never the search.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ErrNoResult is returned when the backend has nothing for the query.
var ErrNoResult = errors.New("no geocoding result")

// Place is a resolved location.
type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}

// Geocoder resolves queries both ways.
type Geocoder interface {
	Forward(ctx context.Context, query string) (Place, error)
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// Nominatim is the default Geocoder, backed by the OpenStreetMap Nominatim
// HTTP API.
type Nominatim struct {
	baseURL string
	httpc   *http.Client
}

func NewNominatim(httpc *http.Client) *Nominatim {
	return &Nominatim{
		baseURL: "https://nominatim.openstreetmap.org",
		httpc:   httpc,
	}
}

func (n *Nominatim) Forward(ctx context.Context, query string) (Place, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "json")
	values.Set("limit", "1")

	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := n.get(ctx, "/search", values, &results); err != nil {
		return Place{}, err
	}
	if len(results) == 0 {
		return Place{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse lon: %w", err)
	}

	return Place{Lat: lat, Lon: lon, DisplayName: results[0].DisplayName}, nil
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("format", "json")

	var result struct {
		DisplayName string `json:"display_name"`
	}
	if err := n.get(ctx, "/reverse", values, &result); err != nil {
		return "", err
	}
	if result.DisplayName == "" {
		return "", ErrNoResult
	}
	return result.DisplayName, nil
}

func (n *Nominatim) get(ctx context.Context, path string, values url.Values, out any) error {
	u := fmt.Sprintf("%s%s?%s", n.baseURL, path, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", "weather-map/1.0")

	resp, err := n.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding backend returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
