package photon

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/photon-geocode-service/internal/domain"
)

type param struct {
	key   string
	value string
}

// writeParams appends key=value pairs in the given order. Empty values are
// still written (e.g. "lang=") so the query shape does not depend on input.
func writeParams(b *strings.Builder, params ...param) {
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
}

// layerFilter returns one "&layer=" fragment per layer, in order.
func layerFilter(layers []string) string {
	return repeatedFilter("layer", layers)
}

// osmTagFilter returns one "&osm_tag=" fragment per "key[:value]" tag, in order.
func osmTagFilter(tags []string) string {
	return repeatedFilter("osm_tag", tags)
}

func repeatedFilter(key string, values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString("&")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

// bboxFilter returns "&bbox=west,south,east,north" in fixed-point notation,
// or "" when no bounds are set.
func bboxFilter(bounds *domain.Bounds) string {
	if bounds == nil {
		return ""
	}
	return fmt.Sprintf("&bbox=%f,%f,%f,%f", bounds.West, bounds.South, bounds.East, bounds.North)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func unsupportedIPError(text string) error {
	return fmt.Errorf("%w: photon cannot geolocate IP address %q", domain.ErrUnsupportedOperation, text)
}
