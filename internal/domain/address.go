package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
}

// Bounds is a rectangular extent.
type Bounds struct {
	South float64 `json:"south" validate:"latitude"`
	West  float64 `json:"west" validate:"longitude"`
	North float64 `json:"north" validate:"latitude"`
	East  float64 `json:"east" validate:"longitude"`
}

// ParseBounds reads a "west,south,east,north" list. Range checks are left to
// request validation.
func ParseBounds(raw string) (Bounds, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("bbox %q: want west,south,east,north", raw)
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("bbox %q: %w", raw, err)
		}
		vals[i] = f
	}
	return Bounds{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}, nil
}

// OSMTag is an OpenStreetMap key/value pair, e.g. amenity=restaurant.
type OSMTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Address is a normalized geocoding result. Empty strings, nil pointers and a
// zero OSMID mean the provider did not report the field.
//
// Address is a value object: the With* methods return a modified copy and
// never touch the receiver.
type Address struct {
	Provider     string      `json:"provider"`
	Coordinates  *Coordinate `json:"coordinates,omitempty"`
	Bounds       *Bounds     `json:"bounds,omitempty"`
	StreetName   string      `json:"street_name,omitempty"`
	StreetNumber string      `json:"street_number,omitempty"`
	PostalCode   string      `json:"postal_code,omitempty"`
	Locality     string      `json:"locality,omitempty"`
	Country      string      `json:"country,omitempty"`
	CountryCode  string      `json:"country_code,omitempty"`

	// Photon extensions.
	OSMID    int64   `json:"osm_id,omitempty"`
	OSMType  string  `json:"osm_type,omitempty"`
	OSMTag   *OSMTag `json:"osm_tag,omitempty"`
	Name     string  `json:"name,omitempty"`
	State    string  `json:"state,omitempty"`
	County   string  `json:"county,omitempty"`
	District string  `json:"district,omitempty"`
	Type     string  `json:"type,omitempty"`
}

func (a Address) WithOSMID(id int64) Address {
	a.OSMID = id
	return a
}

func (a Address) WithOSMType(osmType string) Address {
	a.OSMType = osmType
	return a
}

// WithOSMTag sets the tag pair. If either half is empty the tag is cleared.
func (a Address) WithOSMTag(key, value string) Address {
	if key == "" || value == "" {
		a.OSMTag = nil
		return a
	}
	a.OSMTag = &OSMTag{Key: key, Value: value}
	return a
}

func (a Address) WithName(name string) Address {
	a.Name = name
	return a
}

func (a Address) WithState(state string) Address {
	a.State = state
	return a
}

func (a Address) WithCounty(county string) Address {
	a.County = county
	return a
}

func (a Address) WithDistrict(district string) Address {
	a.District = district
	return a
}

func (a Address) WithType(placeType string) Address {
	a.Type = placeType
	return a
}

func (a Address) WithCoordinates(lat, lon float64) Address {
	a.Coordinates = &Coordinate{Latitude: lat, Longitude: lon}
	return a
}

func (a Address) WithBounds(south, west, north, east float64) Address {
	a.Bounds = &Bounds{South: south, West: west, North: north, East: east}
	return a
}
