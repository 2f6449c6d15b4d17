package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/photon-geocode-service/internal/domain"
)

// GeocodeTransformer implements Transformer by decoding a request message and
// resolving it against a geocoder.
type GeocodeTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a GeocodeTransformer backed by geocoder.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *GeocodeTransformer {
	return &GeocodeTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Transform returns an error only for malformed messages. Geocoding failures
// are reported inside the result.
func (t *GeocodeTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.GeocodeResult, error) {
	req, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.GeocodeResult{}, err
	}
	return domain.Resolve(ctx, req, t.geocoder, t.logger), nil
}
