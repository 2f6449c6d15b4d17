package photon

import (
	"context"
	"net/netip"
	"strconv"
	"strings"

	"github.com/couchcryptid/photon-geocode-service/internal/domain"
)

// ProviderName is stamped on every Address produced by this package.
const ProviderName = "photon"

// KomootURL is the public Photon instance hosted by Komoot.
const KomootURL = "https://photon.komoot.io"

// Fetcher performs an HTTP GET and returns the response body. Transport
// failures, including non-2xx statuses, are returned as errors.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Adapter implements domain.Geocoder against a Photon server. It holds no
// mutable state and is safe for concurrent use.
type Adapter struct {
	fetcher Fetcher
	rootURL string
}

// NewAdapter creates an adapter for the Photon server at rootURL.
func NewAdapter(fetcher Fetcher, rootURL string) *Adapter {
	return &Adapter{
		fetcher: fetcher,
		rootURL: strings.TrimRight(rootURL, "/"),
	}
}

// NewKomootAdapter creates an adapter for the public Komoot instance.
func NewKomootAdapter(fetcher Fetcher) *Adapter {
	return NewAdapter(fetcher, KomootURL)
}

// RootURL returns the configured server root without trailing slashes.
func (a *Adapter) RootURL() string {
	return a.rootURL
}

// ForwardGeocode searches Photon for free text. IP address queries fail with
// domain.ErrUnsupportedOperation before any request is made.
func (a *Adapter) ForwardGeocode(ctx context.Context, q domain.ForwardQuery) ([]domain.Address, error) {
	if isIPAddress(q.Text) {
		return nil, unsupportedIPError(q.Text)
	}
	return a.execute(ctx, a.forwardURL(q))
}

// ReverseGeocode asks Photon for places around a coordinate.
func (a *Adapter) ReverseGeocode(ctx context.Context, q domain.ReverseQuery) ([]domain.Address, error) {
	return a.execute(ctx, a.reverseURL(q))
}

func (a *Adapter) forwardURL(q domain.ForwardQuery) string {
	var lat, lon string
	if q.Bias != nil {
		lat = formatFloat(q.Bias.Latitude)
		lon = formatFloat(q.Bias.Longitude)
	}

	var b strings.Builder
	b.WriteString(a.rootURL)
	b.WriteString("/api?")
	writeParams(&b,
		param{"q", q.Text},
		param{"limit", strconv.Itoa(q.Limit)},
		param{"lang", q.Locale},
		param{"lat", lat},
		param{"lon", lon},
	)
	b.WriteString(layerFilter(q.Layers))
	b.WriteString(osmTagFilter(q.OSMTags))
	b.WriteString(bboxFilter(q.Bounds))
	return b.String()
}

func (a *Adapter) reverseURL(q domain.ReverseQuery) string {
	var radius string
	if q.Radius != nil {
		radius = formatFloat(*q.Radius)
	}

	var b strings.Builder
	b.WriteString(a.rootURL)
	b.WriteString("/reverse?")
	writeParams(&b,
		param{"lat", formatFloat(q.Coordinate.Latitude)},
		param{"lon", formatFloat(q.Coordinate.Longitude)},
		param{"radius", radius},
		param{"limit", strconv.Itoa(q.Limit)},
		param{"lang", q.Locale},
	)
	b.WriteString(layerFilter(q.Layers))
	b.WriteString(osmTagFilter(q.OSMTags))
	return b.String()
}

func (a *Adapter) execute(ctx context.Context, rawURL string) ([]domain.Address, error) {
	body, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := decodeBody(body)
	if err != nil {
		return nil, &domain.InvalidServerResponseError{URL: rawURL, Err: err}
	}
	if doc == nil {
		return nil, &domain.InvalidServerResponseError{URL: rawURL}
	}

	list := features(doc)
	addresses := make([]domain.Address, 0, len(list))
	for _, f := range list {
		addresses = append(addresses, toAddress(f))
	}
	return addresses, nil
}

// isIPAddress reports whether text is a literal IPv4 or IPv6 address.
// Zoned IPv6 addresses such as fe80::1%eth0 are treated as text.
func isIPAddress(text string) bool {
	addr, err := netip.ParseAddr(text)
	return err == nil && addr.Zone() == ""
}
