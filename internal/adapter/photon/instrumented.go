package photon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/photon-geocode-service/internal/domain"
	"github.com/couchcryptid/photon-geocode-service/internal/observability"
)

// InstrumentedGeocoder wraps a Geocoder with request metrics and failure logs.
type InstrumentedGeocoder struct {
	inner   domain.Geocoder
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewInstrumentedGeocoder creates a metrics decorator around a geocoder.
func NewInstrumentedGeocoder(inner domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *InstrumentedGeocoder {
	return &InstrumentedGeocoder{
		inner:   inner,
		metrics: metrics,
		logger:  logger,
	}
}

func (g *InstrumentedGeocoder) ForwardGeocode(ctx context.Context, q domain.ForwardQuery) ([]domain.Address, error) {
	start := time.Now()
	addresses, err := g.inner.ForwardGeocode(ctx, q)
	g.observe(domain.MethodForward, start, addresses, err)
	return addresses, err
}

func (g *InstrumentedGeocoder) ReverseGeocode(ctx context.Context, q domain.ReverseQuery) ([]domain.Address, error) {
	start := time.Now()
	addresses, err := g.inner.ReverseGeocode(ctx, q)
	g.observe(domain.MethodReverse, start, addresses, err)
	return addresses, err
}

func (g *InstrumentedGeocoder) observe(method string, start time.Time, addresses []domain.Address, err error) {
	outcome := outcomeOf(addresses, err)
	g.metrics.GeocodeRequests.WithLabelValues(method, outcome).Inc()

	// Unsupported queries never reach Photon, so they are not timed.
	if outcome == "unsupported" {
		return
	}
	g.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if err != nil {
		g.logger.Warn("photon geocode failed", "method", method, "error", err)
		return
	}
	g.metrics.GeocodeResults.WithLabelValues(method).Observe(float64(len(addresses)))
}

func outcomeOf(addresses []domain.Address, err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedOperation):
		return "unsupported"
	case errors.Is(err, domain.ErrInvalidServerResponse):
		return "invalid_response"
	case err != nil:
		return "error"
	case len(addresses) == 0:
		return "empty"
	default:
		return "success"
	}
}
