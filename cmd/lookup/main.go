// Command lookup runs a single Photon forward or reverse geocode and prints
// the resulting addresses as JSON.
//
// Usage:
//
//	go run ./cmd/lookup -q "Berlin" -limit 3 -layer city
//	go run ./cmd/lookup -reverse -lat 52.517 -lon 13.388 -radius 1
//	go run ./cmd/lookup -q "Brandenburger Tor" -bbox 13.0,52.3,13.8,52.7 -osm-tag tourism
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/photon-geocode-service/internal/adapter/photon"
	"github.com/couchcryptid/photon-geocode-service/internal/domain"
	"github.com/couchcryptid/photon-geocode-service/internal/observability"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	var opts lookupOptions
	rootURL := flag.String("url", sharedcfg.EnvOrDefault("PHOTON_URL", photon.KomootURL), "Photon root URL")
	flag.StringVar(&opts.text, "q", "", "free-text query (forward geocoding)")
	flag.BoolVar(&opts.reverse, "reverse", false, "reverse geocode -lat/-lon instead of -q")
	flag.Float64Var(&opts.lat, "lat", 0, "latitude (reverse point or forward bias)")
	flag.Float64Var(&opts.lon, "lon", 0, "longitude (reverse point or forward bias)")
	flag.Float64Var(&opts.radius, "radius", 0, "reverse search radius in km")
	flag.IntVar(&opts.limit, "limit", domain.DefaultLimit, "maximum number of results")
	flag.StringVar(&opts.lang, "lang", "", "preferred result language")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	verbose := flag.Bool("v", false, "log requests to stderr")
	flag.Var(&opts.layers, "layer", "restrict to a layer (repeatable)")
	flag.Var(&opts.osmTags, "osm-tag", "OSM tag filter such as key:value or !key (repeatable)")
	flag.Func("bbox", "bounding box west,south,east,north", func(v string) error {
		b, err := domain.ParseBounds(v)
		if err != nil {
			return err
		}
		opts.bbox = &b
		return nil
	})
	flag.Parse()

	opts.latSet = isFlagSet("lat")
	opts.lonSet = isFlagSet("lon")
	opts.radiusSet = isFlagSet("radius")

	req, err := opts.request()
	if err != nil {
		flag.Usage()
		return err
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	logger := observability.NewStderrLogger(level)

	fetcher := photon.NewHTTPFetcher(*timeout, "photon-geocode-service-lookup/1.0", observability.NewUnregisteredMetrics(), logger)
	adapter := photon.NewAdapter(fetcher, *rootURL)
	logger.Debug("photon lookup", "url", adapter.RootURL(), "method", req.Method)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var addresses []domain.Address
	if req.Method == domain.MethodReverse {
		addresses, err = adapter.ReverseGeocode(ctx, req.ReverseQuery())
	} else {
		addresses, err = adapter.ForwardGeocode(ctx, req.ForwardQuery())
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(addresses)
}

type lookupOptions struct {
	text    string
	reverse bool

	lat, lon, radius          float64
	latSet, lonSet, radiusSet bool

	limit   int
	lang    string
	layers  stringList
	osmTags stringList
	bbox    *domain.Bounds
}

// request turns flags into a validated GeocodeRequest. -lat and -lon only
// count when both were given.
func (o lookupOptions) request() (domain.GeocodeRequest, error) {
	if o.latSet != o.lonSet {
		return domain.GeocodeRequest{}, errors.New("-lat and -lon must be given together")
	}

	req := domain.GeocodeRequest{
		Method:  domain.MethodForward,
		Text:    strings.TrimSpace(o.text),
		Limit:   &o.limit,
		Lang:    o.lang,
		Layers:  o.layers,
		OSMTags: o.osmTags,
	}
	if o.reverse {
		if !o.latSet {
			return domain.GeocodeRequest{}, errors.New("-reverse requires -lat and -lon")
		}
		req.Method = domain.MethodReverse
		req.Lat, req.Lon = &o.lat, &o.lon
		if o.radiusSet {
			req.Radius = &o.radius
		}
	} else {
		if req.Text == "" {
			return domain.GeocodeRequest{}, errors.New("-q is required unless -reverse is set")
		}
		if o.latSet {
			req.Bias = &domain.Coordinate{Latitude: o.lat, Longitude: o.lon}
		}
		req.BBox = o.bbox
	}

	return req, req.Validate()
}

func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
