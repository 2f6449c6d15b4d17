package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geocode methods carried by request messages.
const (
	MethodForward = "forward"
	MethodReverse = "reverse"
)

// Result statuses.
const (
	StatusOK          = "ok"
	StatusEmpty       = "empty"
	StatusUnsupported = "unsupported"
	StatusFailed      = "failed"
)

// GeocodeRequest is the JSON payload of a source message.
type GeocodeRequest struct {
	ID     string `json:"id"`
	Method string `json:"method" validate:"required,oneof=forward reverse"`

	// Forward fields.
	Text string      `json:"text,omitempty" validate:"required_if=Method forward"`
	Bias *Coordinate `json:"bias,omitempty"`
	BBox *Bounds     `json:"bbox,omitempty"`

	// Reverse fields.
	Lat    *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lon    *float64 `json:"lon,omitempty" validate:"omitempty,longitude"`
	Radius *float64 `json:"radius,omitempty" validate:"omitempty,gt=0,max=5000"`

	Limit   *int     `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
	Lang    string   `json:"lang,omitempty" validate:"omitempty,max=8"`
	Layers  []string `json:"layers,omitempty" validate:"dive,required"`
	OSMTags []string `json:"osm_tags,omitempty" validate:"dive,required"`
}

// GeocodeResult is the outcome of one GeocodeRequest.
type GeocodeResult struct {
	RequestID   string    `json:"request_id"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	Addresses   []Address `json:"addresses"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
