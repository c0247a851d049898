package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReverseGeocodeDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("missing format param")
		}
		json.NewEncoder(w).Encode(map[string]string{
			"display_name": "MG Road, Bengaluru, Karnataka, India",
		})
	}))
	defer srv.Close()

	g := NewGeocodeClient(srv.URL)
	got := g.ReverseGeocode(context.Background(), 12.9716, 77.5946)
	if got != "MG Road, Bengaluru, Karnataka, India" {
		t.Errorf("unexpected address: %q", got)
	}
}

func TestReverseGeocodeFallsBackToCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGeocodeClient(srv.URL)
	got := g.ReverseGeocode(context.Background(), 12.9716, 77.5946)
	if got != "12.971600, 77.594600" {
		t.Errorf("expected coordinate fallback, got %q", got)
	}
}

func TestReverseGeocodeEmptyDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	g := NewGeocodeClient(srv.URL)
	got := g.ReverseGeocode(context.Background(), 1.5, -2.25)
	if got != "1.500000, -2.250000" {
		t.Errorf("expected coordinate fallback, got %q", got)
	}
}
