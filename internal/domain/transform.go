package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseRawEvent decodes and validates a GeocodeRequest from a source message.
// Requests without an ID get the message key, or a fresh UUID when the key is
// empty too.
func ParseRawEvent(raw RawEvent) (GeocodeRequest, error) {
	var req GeocodeRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return GeocodeRequest{}, fmt.Errorf("parse geocode request: %w", err)
	}

	req.Method = strings.ToLower(strings.TrimSpace(req.Method))
	if err := req.Validate(); err != nil {
		return GeocodeRequest{}, err
	}

	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return req, nil
}

// Validate checks a request against its field rules. Kafka messages and HTTP
// queries both go through it.
func (r GeocodeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("validate geocode request: %w", err)
	}
	if r.Method == MethodReverse && (r.Lat == nil || r.Lon == nil) {
		return errors.New("validate geocode request: reverse requires lat and lon")
	}
	return nil
}

// ForwardQuery builds the query for a forward request.
func (r GeocodeRequest) ForwardQuery() ForwardQuery {
	q := NewForwardQuery(r.Text).
		WithLocale(r.Lang).
		WithLayers(r.Layers...).
		WithOSMTags(r.OSMTags...)
	if r.Limit != nil {
		q = q.WithLimit(*r.Limit)
	}
	if r.Bias != nil {
		q = q.WithBias(r.Bias.Latitude, r.Bias.Longitude)
	}
	if r.BBox != nil {
		q = q.WithBounds(*r.BBox)
	}
	return q
}

// ReverseQuery builds the query for a reverse request. Lat and Lon must be set.
func (r GeocodeRequest) ReverseQuery() ReverseQuery {
	q := NewReverseQuery(*r.Lat, *r.Lon).
		WithLocale(r.Lang).
		WithLayers(r.Layers...).
		WithOSMTags(r.OSMTags...)
	if r.Limit != nil {
		q = q.WithLimit(*r.Limit)
	}
	if r.Radius != nil {
		q = q.WithRadius(*r.Radius)
	}
	return q
}

// SerializeResult marshals a GeocodeResult into a sink message keyed by the
// request ID.
func SerializeResult(result GeocodeResult) (OutputEvent, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize geocode result: %w", err)
	}
	return OutputEvent{
		Key:   []byte(result.RequestID),
		Value: data,
		Headers: map[string]string{
			"method":       result.Method,
			"status":       result.Status,
			"processed_at": result.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
