package travel_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleGetLatLongForAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			t.Errorf("path = %q, expected %q", r.URL.Path, "/maps/api/geocode/json")
		}
		if got := r.URL.Query().Get("address"); got != "Dishoom Shoreditch" {
			t.Errorf("address param = %q, expected %q", got, "Dishoom Shoreditch")
		}
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "7 Boundary St, London E2 7JE, UK",
				"geometry": {"location": {"lat": 51.5246, "lng": -0.0783}}
			}]
		}`))
	}))
	defer srv.Close()

	sc := newGeocodeContext(t, srv.URL)
	request := newRequest("get_lat_long_for_address", map[string]interface{}{"address": "Dishoom Shoreditch"})

	result, err := handleGetLatLongForAddress(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleGetLatLongForAddress() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleGetLatLongForAddress() returned error result: %s", resultText(t, result))
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if payload["latitude"] != 51.5246 {
		t.Errorf("latitude = %v, expected 51.5246", payload["latitude"])
	}
	if payload["longitude"] != -0.0783 {
		t.Errorf("longitude = %v, expected -0.0783", payload["longitude"])
	}
	if payload["formatted_address"] != "7 Boundary St, London E2 7JE, UK" {
		t.Errorf("formatted_address = %v, expected full address", payload["formatted_address"])
	}
}

func TestHandleGetLatLongForAddress_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	sc := newGeocodeContext(t, srv.URL)
	request := newRequest("get_lat_long_for_address", map[string]interface{}{"address": "Unknown Place 12345"})

	result, err := handleGetLatLongForAddress(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleGetLatLongForAddress() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for zero results")
	}

	got := resultText(t, result)
	if !strings.HasPrefix(got, "Google Maps Geocoding API Error:") {
		t.Errorf("result = %q, expected %q prefix", got, "Google Maps Geocoding API Error:")
	}
	if !strings.Contains(got, "GEOCODE_NOT_FOUND") {
		t.Errorf("result = %q, expected the GEOCODE_NOT_FOUND outcome code", got)
	}
}

func TestHandleGetLatLongForAddress_UpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
	}))
	defer srv.Close()

	sc := newGeocodeContext(t, srv.URL)
	request := newRequest("get_lat_long_for_address", map[string]interface{}{"address": "Dishoom Shoreditch"})

	result, err := handleGetLatLongForAddress(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleGetLatLongForAddress() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for rejected request")
	}

	got := resultText(t, result)
	if !strings.HasPrefix(got, "Google Maps Geocoding API Error:") {
		t.Errorf("result = %q, expected %q prefix", got, "Google Maps Geocoding API Error:")
	}
	if !strings.Contains(got, "The provided API key is invalid.") {
		t.Errorf("result = %q, expected the upstream message", got)
	}
}

func TestHandleGetLatLongForAddress_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	sc := newGeocodeContext(t, srv.URL)
	request := newRequest("get_lat_long_for_address", map[string]interface{}{"address": "Dishoom Shoreditch"})

	result, err := handleGetLatLongForAddress(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleGetLatLongForAddress() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unreachable backend")
	}
	if got := resultText(t, result); !strings.HasPrefix(got, "Error calling Google Maps Geocoding API:") {
		t.Errorf("result = %q, expected %q prefix", got, "Error calling Google Maps Geocoding API:")
	}
}

func TestHandleGetLatLongForAddress_MissingArg(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleGetLatLongForAddress(context.Background(), newRequest("get_lat_long_for_address", map[string]interface{}{}), sc)
	if err != nil {
		t.Fatalf("handleGetLatLongForAddress() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing address")
	}
	if got := resultText(t, result); got != "address is required" {
		t.Errorf("result = %q, expected %q", got, "address is required")
	}
}
