package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/photon-geocode-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the geocoding API alongside health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	geocoder   domain.Geocoder
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/geocode, and /v1/reverse routes.
func NewServer(addr string, geocoder domain.Geocoder, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		geocoder: geocoder,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/geocode", s.handleGeocode)
	mux.HandleFunc("GET /v1/reverse", s.handleReverse)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type addressesResponse struct {
	Addresses []domain.Address `json:"addresses"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(domain.MethodForward, r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	addresses, err := s.geocoder.ForwardGeocode(r.Context(), req.ForwardQuery())
	s.respond(w, r, addresses, err)
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(domain.MethodReverse, r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	addresses, err := s.geocoder.ReverseGeocode(r.Context(), req.ReverseQuery())
	s.respond(w, r, addresses, err)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, addresses []domain.Address, err error) {
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("geocode request failed", "path", r.URL.Path, "error", err)
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}
	writeJSON(w, http.StatusOK, addressesResponse{Addresses: addresses})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedOperation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// requestFromQuery maps URL parameters onto a GeocodeRequest so that HTTP
// lookups share the validation rules of pipeline messages.
func requestFromQuery(method string, v url.Values) (domain.GeocodeRequest, error) {
	req := domain.GeocodeRequest{
		Method:  method,
		Text:    strings.TrimSpace(v.Get("q")),
		Lang:    v.Get("lang"),
		Layers:  v["layer"],
		OSMTags: v["osm_tag"],
	}

	if raw := v.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("invalid limit %q", raw)
		}
		req.Limit = &limit
	}

	var lat, lon *float64
	if v.Has("lat") || v.Has("lon") {
		var err error
		if lat, err = floatParam(v, "lat"); err != nil {
			return req, err
		}
		if lon, err = floatParam(v, "lon"); err != nil {
			return req, err
		}
	}

	switch method {
	case domain.MethodForward:
		if lat != nil {
			req.Bias = &domain.Coordinate{Latitude: *lat, Longitude: *lon}
		}
		if raw := v.Get("bbox"); raw != "" {
			b, err := domain.ParseBounds(raw)
			if err != nil {
				return req, err
			}
			req.BBox = &b
		}
	case domain.MethodReverse:
		req.Lat, req.Lon = lat, lon
		if v.Has("radius") {
			radius, err := floatParam(v, "radius")
			if err != nil {
				return req, err
			}
			req.Radius = radius
		}
	}

	return req, req.Validate()
}

func floatParam(v url.Values, key string) (*float64, error) {
	raw := v.Get(key)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
