package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mathi030307/people-eye-client/utils"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// GeocodeClient resolves coordinates to a display address via Nominatim.
type GeocodeClient struct {
	BaseURL string
	Client  *http.Client
}

func NewGeocodeClient(baseURL string) *GeocodeClient {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	return &GeocodeClient{
		BaseURL: baseURL,
		Client:  utils.HTTPClient,
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseGeocode turns a coordinate pair into an address. Every failure path
// falls back to a "lat, lon" string — a submission never blocks on geocoding.
func (g *GeocodeClient) ReverseGeocode(ctx context.Context, lat, lon float64) string {
	fallback := fmt.Sprintf("%.6f, %.6f", lat, lon)

	endpoint, err := url.Parse(g.BaseURL + "/reverse")
	if err != nil {
		return fallback
	}
	q := endpoint.Query()
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint.String(), nil)
	if err != nil {
		return fallback
	}
	req.Header.Set("User-Agent", "people-eye-client/1.0")

	resp, err := g.Client.Do(req)
	if err != nil {
		return fallback
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	var out nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.DisplayName == "" {
		return fallback
	}
	return out.DisplayName
}
