package domain

import (
	"context"
	"errors"
	"log/slog"
)

// Resolve runs a validated request against the geocoder. Geocoding failures
// never escape: they are reported through the result's Status and Error so
// that every request gets a reply.
func Resolve(ctx context.Context, req GeocodeRequest, geocoder Geocoder, logger *slog.Logger) GeocodeResult {
	result := GeocodeResult{
		RequestID: req.ID,
		Method:    req.Method,
		Addresses: []Address{},
	}

	var (
		addresses []Address
		err       error
	)
	switch req.Method {
	case MethodForward:
		addresses, err = geocoder.ForwardGeocode(ctx, req.ForwardQuery())
	case MethodReverse:
		addresses, err = geocoder.ReverseGeocode(ctx, req.ReverseQuery())
	default:
		err = ErrUnsupportedOperation
	}
	result.ProcessedAt = clock.Now().UTC()

	if err != nil {
		logger.Warn("geocoding failed",
			"request_id", req.ID,
			"method", req.Method,
			"error", err,
		)
		result.Error = err.Error()
		result.Status = StatusFailed
		if errors.Is(err, ErrUnsupportedOperation) {
			result.Status = StatusUnsupported
		}
		return result
	}

	if len(addresses) == 0 {
		result.Status = StatusEmpty
		return result
	}
	result.Addresses = addresses
	result.Status = StatusOK
	return result
}
