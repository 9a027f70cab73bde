package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/morgenstille/bethere/internal/outcome"
)

const testAPIKey = "test-api-key"

func TestComputeRoute(t *testing.T) {
	var capturedPath string
	var capturedHeaders http.Header
	var capturedBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&capturedBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"routes":[{"duration":"1234s","staticDuration":"1100s","distanceMeters":21000}]}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey)
	route, err := client.ComputeRoute(context.Background(), AddressPlace("Alexanderplatz, Berlin"), CoordinatePlace(52.39, 13.06))
	if err != nil {
		t.Fatalf("ComputeRoute() error = %v", err)
	}

	if capturedPath != "/directions/v2:computeRoutes" {
		t.Errorf("path = %q, expected %q", capturedPath, "/directions/v2:computeRoutes")
	}
	if got := capturedHeaders.Get("X-Goog-Api-Key"); got != testAPIKey {
		t.Errorf("X-Goog-Api-Key = %q, expected %q", got, testAPIKey)
	}
	if got := capturedHeaders.Get("X-Goog-FieldMask"); got != "routes.duration,routes.distanceMeters,routes.staticDuration" {
		t.Errorf("X-Goog-FieldMask = %q", got)
	}
	if got := capturedHeaders.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, expected application/json", got)
	}

	if capturedBody["travelMode"] != "DRIVE" {
		t.Errorf("travelMode = %v, expected DRIVE", capturedBody["travelMode"])
	}
	if capturedBody["routingPreference"] != "TRAFFIC_AWARE_OPTIMAL" {
		t.Errorf("routingPreference = %v, expected TRAFFIC_AWARE_OPTIMAL", capturedBody["routingPreference"])
	}
	if capturedBody["departureTime"] != "now" {
		t.Errorf("departureTime = %v, expected now", capturedBody["departureTime"])
	}
	origin, ok := capturedBody["origin"].(map[string]any)
	if !ok {
		t.Fatalf("origin = %v, expected object", capturedBody["origin"])
	}
	if origin["address"] != "Alexanderplatz, Berlin" {
		t.Errorf("origin.address = %v", origin["address"])
	}
	destination, ok := capturedBody["destination"].(map[string]any)
	if !ok {
		t.Fatalf("destination = %v, expected object", capturedBody["destination"])
	}
	if _, ok := destination["latLng"]; !ok {
		t.Error("destination should carry latLng for coordinate places")
	}

	if route.Duration != 1234*time.Second {
		t.Errorf("Duration = %v, expected %v", route.Duration, 1234*time.Second)
	}
	if route.StaticDuration != 1100*time.Second {
		t.Errorf("StaticDuration = %v, expected %v", route.StaticDuration, 1100*time.Second)
	}
	if route.DistanceMeters != 21000 {
		t.Errorf("DistanceMeters = %d, expected 21000", route.DistanceMeters)
	}
	if route.Kilometers() != 21.0 {
		t.Errorf("Kilometers() = %v, expected 21.0", route.Kilometers())
	}
}

func TestComputeRoute_NoRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"routes":[]}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey)
	_, err := client.ComputeRoute(context.Background(), AddressPlace("Atlantis"), AddressPlace("El Dorado"))
	if err == nil {
		t.Fatal("expected error for empty routes")
	}
	if !outcome.HasCode(err, outcome.CodeNoRouteFound) {
		t.Errorf("error code = %v, expected %v", outcome.CodeOf(err), outcome.CodeNoRouteFound)
	}
}

func TestComputeRoute_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey)
	_, err := client.ComputeRoute(context.Background(), AddressPlace("a"), AddressPlace("b"))
	if err == nil {
		t.Fatal("expected error for status 403")
	}
	if !outcome.HasCode(err, outcome.CodeUpstreamServiceError) {
		t.Errorf("error code = %v, expected %v", outcome.CodeOf(err), outcome.CodeUpstreamServiceError)
	}
}

func TestComputeRoute_BackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, testAPIKey)
	_, err := client.ComputeRoute(context.Background(), AddressPlace("a"), AddressPlace("b"))
	if err == nil {
		t.Fatal("expected error for unreachable backend")
	}
	if !outcome.HasCode(err, outcome.CodeBackendUnavailable) {
		t.Errorf("error code = %v, expected %v", outcome.CodeOf(err), outcome.CodeBackendUnavailable)
	}
}

func TestComputeRoute_MalformedDuration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"routes":[{"duration":"soon","distanceMeters":100}]}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testAPIKey)
	_, err := client.ComputeRoute(context.Background(), AddressPlace("a"), AddressPlace("b"))
	if err == nil {
		t.Fatal("expected error for malformed duration")
	}
	if !outcome.HasCode(err, outcome.CodeUpstreamServiceError) {
		t.Errorf("error code = %v, expected %v", outcome.CodeOf(err), outcome.CodeUpstreamServiceError)
	}
}
