package routing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Place identifies a route endpoint as either a free-form address or a
// coordinate pair. The zero value is an empty address.
type Place struct {
	address    string
	latitude   float64
	longitude  float64
	coordinate bool
}

// AddressPlace creates a Place from a free-form address.
func AddressPlace(address string) Place {
	return Place{address: address}
}

// CoordinatePlace creates a Place from a latitude/longitude pair.
func CoordinatePlace(latitude, longitude float64) Place {
	return Place{latitude: latitude, longitude: longitude, coordinate: true}
}

// ParsePlace interprets a user-supplied place string. A string of exactly two
// comma-separated numbers within coordinate range ([-90, 90] latitude,
// [-180, 180] longitude) is a coordinate pair; anything else, including
// strings with more than one comma, is treated as an address.
func ParsePlace(s string) Place {
	parts := strings.Split(s, ",")
	if len(parts) == 2 {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if latErr == nil && lngErr == nil &&
			lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 {
			return CoordinatePlace(lat, lng)
		}
	}
	return AddressPlace(s)
}

// IsCoordinate reports whether the place is a coordinate pair.
func (p Place) IsCoordinate() bool {
	return p.coordinate
}

// String renders the place for logs and messages.
func (p Place) String() string {
	if p.coordinate {
		return strconv.FormatFloat(p.latitude, 'f', -1, 64) + "," +
			strconv.FormatFloat(p.longitude, 'f', -1, 64)
	}
	return p.address
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MarshalJSON emits the Routes API wire shape for a route endpoint:
// {"address": ...} for addresses, {"latLng": {...}} for coordinates.
func (p Place) MarshalJSON() ([]byte, error) {
	if p.coordinate {
		return json.Marshal(struct {
			LatLng latLng `json:"latLng"`
		}{latLng{Latitude: p.latitude, Longitude: p.longitude}})
	}
	return json.Marshal(struct {
		Address string `json:"address"`
	}{p.address})
}
