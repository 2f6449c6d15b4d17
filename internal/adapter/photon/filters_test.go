package photon

import (
	"strings"
	"testing"

	"github.com/couchcryptid/photon-geocode-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLayerFilter(t *testing.T) {
	cases := []struct {
		name   string
		layers []string
		want   string
	}{
		{name: "none", layers: nil, want: ""},
		{name: "single", layers: []string{"city"}, want: "&layer=city"},
		{name: "many keeps order", layers: []string{"locality", "street"}, want: "&layer=locality&layer=street"},
		{name: "escaped", layers: []string{"a b"}, want: "&layer=a+b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, layerFilter(tc.layers))
		})
	}
}

func TestOSMTagFilter(t *testing.T) {
	assert.Empty(t, osmTagFilter(nil))
	assert.Equal(t, "&osm_tag=building", osmTagFilter([]string{"building"}))
	assert.Equal(t, "&osm_tag=tourism%3Amuseum&osm_tag=%3A%21construction",
		osmTagFilter([]string{"tourism:museum", ":!construction"}))
}

func TestBBoxFilter(t *testing.T) {
	assert.Empty(t, bboxFilter(nil))
	assert.Equal(t, "&bbox=1.000000,2.000000,3.000000,4.000000",
		bboxFilter(&domain.Bounds{West: 1.0, South: 2.0, East: 3.0, North: 4.0}))

	small := bboxFilter(&domain.Bounds{West: 0.0000001, South: -1e-7, East: 1e3, North: 90})
	assert.NotContains(t, small, "e-")
	assert.Equal(t, "&bbox=0.000000,-0.000000,1000.000000,90.000000", small)
}

func TestWriteParams_KeepsOrderAndEmptyValues(t *testing.T) {
	var b strings.Builder
	writeParams(&b, param{"q", "a&b"}, param{"limit", "5"}, param{"lang", ""})
	assert.Equal(t, "q=a%26b&limit=5&lang=", b.String())
}

func TestFormatFloat_NoExponent(t *testing.T) {
	assert.Equal(t, "0.00001", formatFloat(0.00001))
	assert.Equal(t, "-122.4194", formatFloat(-122.4194))
	assert.Equal(t, "10", formatFloat(10))
}
