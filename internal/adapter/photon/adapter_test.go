package photon

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/photon-geocode-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "http://photon.test"

// --- stub fetcher ---

type stubFetcher struct {
	body  string
	err   error
	urls  []string
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	s.calls++
	s.urls = append(s.urls, rawURL)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.body), nil
}

const twoFeatures = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [13.3888599, 52.5170365]},
      "properties": {
        "osm_id": 240109189,
        "osm_type": "N",
        "osm_key": "place",
        "osm_value": "city",
        "extent": [13.088345, 52.6755087, 13.7611609, 52.3382448],
        "name": "Berlin",
        "country": "Germany",
        "countrycode": "DE",
        "state": "Berlin",
        "type": "city",
        "postcode": "10117"
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [-72.7900737, 41.6148558]},
      "properties": {
        "osm_id": 2215889,
        "osm_type": "R",
        "name": "Berlin",
        "county": "Hartford County",
        "state": "Connecticut",
        "country": "United States",
        "countrycode": "US",
        "type": "city"
      }
    }
  ]
}`

// --- construction ---

func TestNewAdapter_StripsTrailingSlashes(t *testing.T) {
	a := NewAdapter(&stubFetcher{}, "http://photon.test///")
	assert.Equal(t, testRoot, a.RootURL())
}

func TestNewKomootAdapter(t *testing.T) {
	a := NewKomootAdapter(&stubFetcher{})
	assert.Equal(t, "https://photon.komoot.io", a.RootURL())
}

// --- forward ---

func TestForwardGeocode_EndToEnd(t *testing.T) {
	f := &stubFetcher{body: twoFeatures}
	a := NewAdapter(f, testRoot)

	addresses, err := a.ForwardGeocode(context.Background(), domain.NewForwardQuery("Berlin").WithLimit(5))
	require.NoError(t, err)

	require.Len(t, f.urls, 1)
	assert.Equal(t, testRoot+"/api?q=Berlin&limit=5&lang=&lat=&lon=", f.urls[0])

	require.Len(t, addresses, 2)
	assert.Equal(t, "Germany", addresses[0].Country)
	assert.Equal(t, "United States", addresses[1].Country)

	first := addresses[0]
	assert.Equal(t, "photon", first.Provider)
	require.NotNil(t, first.Coordinates)
	assert.Equal(t, 52.5170365, first.Coordinates.Latitude)
	assert.Equal(t, 13.3888599, first.Coordinates.Longitude)
	require.NotNil(t, first.Bounds)
	assert.Equal(t, domain.Bounds{West: 13.088345, South: 52.6755087, East: 13.7611609, North: 52.3382448}, *first.Bounds)
	assert.Equal(t, "10117", first.PostalCode)
	assert.Equal(t, "DE", first.CountryCode)
	assert.Equal(t, int64(240109189), first.OSMID)
	assert.Equal(t, "N", first.OSMType)
	assert.Equal(t, &domain.OSMTag{Key: "place", Value: "city"}, first.OSMTag)
	assert.Equal(t, "Berlin", first.Name)
	assert.Equal(t, "Berlin", first.State)
	assert.Equal(t, "city", first.Type)

	second := addresses[1]
	assert.Nil(t, second.Bounds)
	assert.Nil(t, second.OSMTag)
	assert.Equal(t, "Hartford County", second.County)
}

func TestForwardGeocode_AllParameters(t *testing.T) {
	f := &stubFetcher{body: `{"features": []}`}
	a := NewAdapter(f, testRoot)

	q := domain.NewForwardQuery("Rue de Rivoli, Paris").
		WithLimit(3).
		WithLocale("fr").
		WithBias(48.85, 2.35).
		WithLayers("locality", "street").
		WithOSMTags("building", "!amenity:cafe").
		WithBounds(domain.Bounds{West: 1.0, South: 2.0, East: 3.0, North: 4.0})

	_, err := a.ForwardGeocode(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t,
		testRoot+"/api?q=Rue+de+Rivoli%2C+Paris&limit=3&lang=fr&lat=48.85&lon=2.35"+
			"&layer=locality&layer=street"+
			"&osm_tag=building&osm_tag=%21amenity%3Acafe"+
			"&bbox=1.000000,2.000000,3.000000,4.000000",
		f.urls[0])
}

func TestForwardGeocode_RejectsIPAddresses(t *testing.T) {
	for _, ip := range []string{"127.0.0.1", "8.8.8.8", "::1", "2001:db8::68", "::ffff:192.0.2.1"} {
		t.Run(ip, func(t *testing.T) {
			f := &stubFetcher{body: twoFeatures}
			a := NewAdapter(f, testRoot)

			addresses, err := a.ForwardGeocode(context.Background(), domain.NewForwardQuery(ip))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
			assert.Nil(t, addresses)
			assert.Zero(t, f.calls, "fetcher must not be called for IP queries")
		})
	}
}

func TestForwardGeocode_NonIPLookalikes(t *testing.T) {
	for _, text := range []string{"10 Downing Street", "1.2.3", "256.1.1.1", "Route 66", "fe80::1%eth0"} {
		t.Run(text, func(t *testing.T) {
			f := &stubFetcher{body: `{"features": []}`}
			a := NewAdapter(f, testRoot)

			_, err := a.ForwardGeocode(context.Background(), domain.NewForwardQuery(text))
			require.NoError(t, err)
			assert.Equal(t, 1, f.calls)
		})
	}
}

// --- reverse ---

func TestReverseGeocode_URL(t *testing.T) {
	f := &stubFetcher{body: `{"features": []}`}
	a := NewAdapter(f, testRoot)

	_, err := a.ReverseGeocode(context.Background(), domain.NewReverseQuery(52.5170365, 13.3888599))
	require.NoError(t, err)
	assert.Equal(t, testRoot+"/reverse?lat=52.5170365&lon=13.3888599&radius=&limit=5&lang=", f.urls[0])
}

func TestReverseGeocode_AllParameters(t *testing.T) {
	f := &stubFetcher{body: `{"features": []}`}
	a := NewAdapter(f, testRoot)

	q := domain.NewReverseQuery(48.85, 2.35).
		WithRadius(1.5).
		WithLimit(2).
		WithLocale("de").
		WithLayer("house").
		WithOSMTag("amenity:restaurant")

	_, err := a.ReverseGeocode(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t,
		testRoot+"/reverse?lat=48.85&lon=2.35&radius=1.5&limit=2&lang=de&layer=house&osm_tag=amenity%3Arestaurant",
		f.urls[0])
	assert.NotContains(t, f.urls[0], "bbox")
}

func TestReverseGeocode_MapsFeatures(t *testing.T) {
	f := &stubFetcher{body: `{"features": [{
		"geometry": {"coordinates": [2.35, 48.85]},
		"properties": {
			"street": "Rue de Rivoli",
			"housenumber": "99",
			"postcode": "75001",
			"city": "Paris",
			"district": "1er Arrondissement",
			"country": "France",
			"countrycode": "FR",
			"extent": [10, 20, 30, 40]
		}
	}]}`}
	a := NewAdapter(f, testRoot)

	addresses, err := a.ReverseGeocode(context.Background(), domain.NewReverseQuery(48.85, 2.35))
	require.NoError(t, err)
	require.Len(t, addresses, 1)

	addr := addresses[0]
	require.NotNil(t, addr.Coordinates)
	assert.Equal(t, 48.85, addr.Coordinates.Latitude)
	assert.Equal(t, 2.35, addr.Coordinates.Longitude)
	require.NotNil(t, addr.Bounds)
	assert.Equal(t, 10.0, addr.Bounds.West)
	assert.Equal(t, 20.0, addr.Bounds.South)
	assert.Equal(t, 30.0, addr.Bounds.East)
	assert.Equal(t, 40.0, addr.Bounds.North)
	assert.Equal(t, "Rue de Rivoli", addr.StreetName)
	assert.Equal(t, "99", addr.StreetNumber)
	assert.Equal(t, "75001", addr.PostalCode)
	assert.Equal(t, "Paris", addr.Locality)
	assert.Equal(t, "1er Arrondissement", addr.District)
	assert.Equal(t, "FR", addr.CountryCode)
	assert.Zero(t, addr.OSMID)
	assert.Empty(t, addr.OSMType)
	assert.Nil(t, addr.OSMTag)
}

func TestReverseGeocode_DoesNotRejectIPLikeInput(t *testing.T) {
	f := &stubFetcher{body: `{}`}
	a := NewAdapter(f, testRoot)

	_, err := a.ReverseGeocode(context.Background(), domain.NewReverseQuery(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
}

// --- shared response handling ---

func TestGeocode_EmptyResults(t *testing.T) {
	bodies := map[string]string{
		"empty features":   `{"features": []}`,
		"missing features": `{"type": "FeatureCollection"}`,
		"null features":    `{"features": null}`,
		"features object":  `{"features": {"type": "Feature"}}`,
		"array":            `[]`,
		"false":            `false`,
		"string":           `"x"`,
		"number":           `42`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			a := NewAdapter(&stubFetcher{body: body}, testRoot)

			fwd, err := a.ForwardGeocode(context.Background(), domain.NewForwardQuery("nowhere"))
			require.NoError(t, err)
			assert.NotNil(t, fwd)
			assert.Empty(t, fwd)

			rev, err := a.ReverseGeocode(context.Background(), domain.NewReverseQuery(0, 0))
			require.NoError(t, err)
			assert.NotNil(t, rev)
			assert.Empty(t, rev)
		})
	}
}

func TestGeocode_InvalidServerResponse(t *testing.T) {
	bodies := map[string]string{
		"null":      `null`,
		"not json":  `<html>Bad Gateway</html>`,
		"empty":     ``,
		"truncated": `{"features": [`,
		"trailing":  `{"features": []} {}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			f := &stubFetcher{body: body}
			a := NewAdapter(f, testRoot)

			_, err := a.ForwardGeocode(context.Background(), domain.NewForwardQuery("Berlin"))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidServerResponse)
			var invalid *domain.InvalidServerResponseError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, f.urls[0], invalid.URL)

			_, err = a.ReverseGeocode(context.Background(), domain.NewReverseQuery(1, 2))
			require.Error(t, err)
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, f.urls[1], invalid.URL)
		})
	}
}

func TestGeocode_TransportErrorPropagatesUnchanged(t *testing.T) {
	transportErr := errors.New("connection refused")
	f := &stubFetcher{err: transportErr}
	a := NewAdapter(f, testRoot)

	_, err := a.ForwardGeocode(context.Background(), domain.NewForwardQuery("Berlin"))
	assert.Same(t, transportErr, err)

	_, err = a.ReverseGeocode(context.Background(), domain.NewReverseQuery(1, 2))
	assert.Same(t, transportErr, err)
}

func TestGeocode_ShortCoordinatesLeaveCoordinatesUnset(t *testing.T) {
	f := &stubFetcher{body: `{"features": [{"geometry": {"coordinates": [1]}, "properties": {"name": "x", "extent": [1, 2, 3]}}]}`}
	a := NewAdapter(f, testRoot)

	addresses, err := a.ForwardGeocode(context.Background(), domain.NewForwardQuery("x"))
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Nil(t, addresses[0].Coordinates)
	assert.Nil(t, addresses[0].Bounds)
	assert.Equal(t, "x", addresses[0].Name)
}

func TestGeocode_MistypedPropertiesKeepFeature(t *testing.T) {
	f := &stubFetcher{body: `{"features": [
		{
			"geometry": {"coordinates": [2.35, 48.85]},
			"properties": {
				"housenumber": 12,
				"postcode": 75001,
				"osm_id": "2215889",
				"osm_type": ["N"],
				"name": {"default": "Paris"},
				"city": null,
				"osm_key": "place",
				"osm_value": true,
				"extent": [1, 2, "three", 4]
			}
		},
		{"geometry": {"coordinates": ["a", "b"]}, "properties": "none"},
		"not a feature"
	]}`}
	a := NewAdapter(f, testRoot)

	addresses, err := a.ForwardGeocode(context.Background(), domain.NewForwardQuery("Paris"))
	require.NoError(t, err)
	require.Len(t, addresses, 3)

	first := addresses[0]
	assert.Equal(t, "12", first.StreetNumber)
	assert.Equal(t, "75001", first.PostalCode)
	assert.Equal(t, int64(2215889), first.OSMID)
	assert.Empty(t, first.OSMType)
	assert.Empty(t, first.Name)
	assert.Empty(t, first.Locality)
	assert.Equal(t, &domain.OSMTag{Key: "place", Value: "true"}, first.OSMTag)
	assert.Nil(t, first.Bounds)
	require.NotNil(t, first.Coordinates)
	assert.Equal(t, 48.85, first.Coordinates.Latitude)

	for _, addr := range addresses[1:] {
		assert.Equal(t, domain.Address{Provider: ProviderName}, addr)
	}
}
