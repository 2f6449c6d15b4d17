package domain

// DefaultLimit is the result limit used when a query does not set one.
const DefaultLimit = 5

// ForwardQuery is a free-text geocoding request.
type ForwardQuery struct {
	Text   string
	Limit  int
	Locale string

	// Bias nudges ranking towards a location without filtering by it.
	Bias    *Coordinate
	Bounds  *Bounds
	Layers  []string
	OSMTags []string
}

// NewForwardQuery returns a query for text with the default limit.
func NewForwardQuery(text string) ForwardQuery {
	return ForwardQuery{Text: text, Limit: DefaultLimit}
}

func (q ForwardQuery) WithLimit(limit int) ForwardQuery {
	q.Limit = limit
	return q
}

func (q ForwardQuery) WithLocale(locale string) ForwardQuery {
	q.Locale = locale
	return q
}

func (q ForwardQuery) WithBias(lat, lon float64) ForwardQuery {
	q.Bias = &Coordinate{Latitude: lat, Longitude: lon}
	return q
}

func (q ForwardQuery) WithBounds(b Bounds) ForwardQuery {
	q.Bounds = &b
	return q
}

// WithLayer restricts results to a single layer.
func (q ForwardQuery) WithLayer(layer string) ForwardQuery {
	q.Layers = []string{layer}
	return q
}

// WithLayers restricts results to any of the given layers.
func (q ForwardQuery) WithLayers(layers ...string) ForwardQuery {
	q.Layers = append([]string(nil), layers...)
	return q
}

// WithOSMTag filters by a single "key[:value]" expression.
func (q ForwardQuery) WithOSMTag(tag string) ForwardQuery {
	q.OSMTags = []string{tag}
	return q
}

func (q ForwardQuery) WithOSMTags(tags ...string) ForwardQuery {
	q.OSMTags = append([]string(nil), tags...)
	return q
}

// ReverseQuery looks up places around a coordinate.
type ReverseQuery struct {
	Coordinate Coordinate
	Radius     *float64 // kilometres
	Limit      int
	Locale     string
	Layers     []string
	OSMTags    []string
}

// NewReverseQuery returns a query for the coordinate with the default limit.
func NewReverseQuery(lat, lon float64) ReverseQuery {
	return ReverseQuery{
		Coordinate: Coordinate{Latitude: lat, Longitude: lon},
		Limit:      DefaultLimit,
	}
}

func (q ReverseQuery) WithRadius(km float64) ReverseQuery {
	q.Radius = &km
	return q
}

func (q ReverseQuery) WithLimit(limit int) ReverseQuery {
	q.Limit = limit
	return q
}

func (q ReverseQuery) WithLocale(locale string) ReverseQuery {
	q.Locale = locale
	return q
}

func (q ReverseQuery) WithLayer(layer string) ReverseQuery {
	q.Layers = []string{layer}
	return q
}

func (q ReverseQuery) WithLayers(layers ...string) ReverseQuery {
	q.Layers = append([]string(nil), layers...)
	return q
}

func (q ReverseQuery) WithOSMTag(tag string) ReverseQuery {
	q.OSMTags = []string{tag}
	return q
}

func (q ReverseQuery) WithOSMTags(tags ...string) ReverseQuery {
	q.OSMTags = append([]string(nil), tags...)
	return q
}
