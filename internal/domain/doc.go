// Package domain models geocoding queries, the normalized Address returned by
// providers, and the request/result messages exchanged over Kafka.
//
// # Addresses
//
// An [Address] is a value object. Providers fill the base fields (coordinates,
// bounds, street, postal code, locality, country) and attach their own
// extensions through the With* methods, which return copies. Absent fields are
// left at their zero value; a missing property is never an error.
//
// # Coordinates
//
// Queries and addresses carry latitude first. GeoJSON payloads use
// [longitude, latitude] order and are swapped by the provider adapter.
//
// # Messages
//
// A source message holds one [GeocodeRequest]:
//
//	{"id": "r-1", "method": "forward", "text": "Berlin", "limit": 5, "lang": "de"}
//	{"id": "r-2", "method": "reverse", "lat": 52.52, "lon": 13.40, "radius": 1.5}
//
// Optional filters are "layers" (e.g. ["street", "city"]), "osm_tags"
// (e.g. ["amenity:restaurant", "!tourism"]), "bias" ({"lat", "lon"}) and, for
// forward requests only, "bbox" ({"south", "west", "north", "east"}).
//
// Each request produces exactly one [GeocodeResult] whose status is one of:
//
//	ok           at least one address
//	empty        the provider returned no features
//	unsupported  the provider cannot serve the request (e.g. an IP address query)
//	failed       transport or decoding failure; see the error field
package domain
