package domain

import "context"

// Geocoder resolves queries into addresses.
type Geocoder interface {
	// ForwardGeocode converts free text to matching addresses.
	ForwardGeocode(ctx context.Context, q ForwardQuery) ([]Address, error)

	// ReverseGeocode converts a coordinate to nearby addresses.
	ReverseGeocode(ctx context.Context, q ReverseQuery) ([]Address, error)
}
