package photon

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/couchcryptid/photon-geocode-service/internal/domain"
)

// Photon answers with a GeoJSON FeatureCollection. The body is decoded into
// generic values so that a missing or oddly typed property leaves only that
// field absent.

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeBody parses body as a single JSON value. A nil result means the body
// was JSON null.
func decodeBody(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return doc, nil
}

// features returns the feature list of a decoded body. Anything other than an
// object with a features array yields no features.
func features(doc any) []any {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	list, _ := obj["features"].([]any)
	return list
}

func toAddress(raw any) domain.Address {
	addr := domain.Address{Provider: ProviderName}

	f, _ := raw.(map[string]any)
	props, _ := f["properties"].(map[string]any)
	geometry, _ := f["geometry"].(map[string]any)

	addr.StreetName = stringProp(props, "street")
	addr.StreetNumber = stringProp(props, "housenumber")
	addr.PostalCode = stringProp(props, "postcode")
	addr.Locality = stringProp(props, "city")
	addr.Country = stringProp(props, "country")
	addr.CountryCode = stringProp(props, "countrycode")

	if c, ok := floats(geometry["coordinates"]); ok && len(c) >= 2 {
		addr = addr.WithCoordinates(c[1], c[0])
	}
	// Photon's extent is indexed as west, south, east, north here. This has
	// not been checked against live output for every layer.
	if e, ok := floats(props["extent"]); ok && len(e) == 4 {
		addr = addr.WithBounds(e[1], e[0], e[3], e[2])
	}

	return addr.
		WithOSMID(int64Prop(props, "osm_id")).
		WithOSMType(stringProp(props, "osm_type")).
		WithOSMTag(stringProp(props, "osm_key"), stringProp(props, "osm_value")).
		WithName(stringProp(props, "name")).
		WithState(stringProp(props, "state")).
		WithCounty(stringProp(props, "county")).
		WithDistrict(stringProp(props, "district")).
		WithType(stringProp(props, "type"))
}

// stringProp reads a scalar property as text. Numbers and booleans are
// formatted. Objects, arrays and null read as empty.
func stringProp(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func int64Prop(props map[string]any, key string) int64 {
	var s string
	switch v := props[key].(type) {
	case json.Number:
		s = v.String()
	case string:
		s = v
	default:
		return 0
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// floats converts a JSON array of numbers. It fails if any item is not a number.
func floats(v any) ([]float64, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(list))
	for _, item := range list {
		n, ok := item.(json.Number)
		if !ok {
			return nil, false
		}
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}
