// Package sources provides the places the airport and route datasets can be read from.
package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sudorandom/flightnet/pkg/utils"
)

var ErrUnknownSource = errors.New("unknown dataset source")

// Source yields the raw airport and route files.
type Source interface {
	Name() string
	Airports(ctx context.Context) (io.ReadCloser, error)
	Routes(ctx context.Context) (io.ReadCloser, error)
}

// Config selects and parameterizes a Source.
type Config struct {
	Kind        string // remote, bundled or dir
	AirportsURL string
	RoutesURL   string
	BasemapURL  string
	Dir         string
}

// New builds the Source named by cfg.Kind. fetcher is only used by remote sources.
func New(cfg Config, fetcher *utils.Fetcher) (Source, error) {
	switch cfg.Kind {
	case "remote":
		return &Remote{
			AirportsURL: orDefault(cfg.AirportsURL, OpenFlightsAirportsURL),
			RoutesURL:   orDefault(cfg.RoutesURL, OpenFlightsRoutesURL),
			Fetcher:     fetcher,
		}, nil
	case "bundled", "":
		return Bundled{}, nil
	case "dir":
		return Dir{Path: cfg.Dir}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Kind)
}

// Remote downloads the datasets over HTTP.
type Remote struct {
	AirportsURL string
	RoutesURL   string
	Fetcher     *utils.Fetcher
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Airports(ctx context.Context) (io.ReadCloser, error) {
	rc, err := r.Fetcher.Open(ctx, r.AirportsURL, airportsLabel)
	if err != nil {
		return nil, fmt.Errorf("fetch airports: %w", err)
	}
	return rc, nil
}

func (r *Remote) Routes(ctx context.Context) (io.ReadCloser, error) {
	rc, err := r.Fetcher.Open(ctx, r.RoutesURL, routesLabel)
	if err != nil {
		return nil, fmt.Errorf("fetch routes: %w", err)
	}
	return rc, nil
}

// Bundled serves the copies compiled into the binary.
type Bundled struct{}

func (Bundled) Name() string { return "bundled" }

func (Bundled) Airports(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(bundledAirports)), nil
}

func (Bundled) Routes(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(bundledRoutes)), nil
}

// Dir reads airports.dat and routes.dat from a local directory, e.g. one
// populated by `flightnet fetch`.
type Dir struct {
	Path string
}

func (d Dir) Name() string { return "dir:" + d.Path }

func (d Dir) Airports(context.Context) (io.ReadCloser, error) {
	return d.open(AirportsFile)
}

func (d Dir) Routes(context.Context) (io.ReadCloser, error) {
	return d.open(RoutesFile)
}

func (d Dir) open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.Path, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// Basemap returns the world GeoJSON. A world.geo.json inside dir wins over
// the URL; dir may be empty.
func Basemap(ctx context.Context, fetcher *utils.Fetcher, url, dir string) ([]byte, error) {
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, BasemapFile)); err == nil {
			return data, nil
		}
	}
	rc, err := fetcher.Open(ctx, orDefault(url, WorldGeoJSONURL), basemapLabel)
	if err != nil {
		return nil, fmt.Errorf("fetch basemap: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Mirror downloads the datasets and the basemap into dir. Cached copies of the
// same URLs are evicted so later remote runs see the fresh files too.
func Mirror(ctx context.Context, fetcher *utils.Fetcher, cfg Config) error {
	files := []struct{ url, name, label string }{
		{orDefault(cfg.AirportsURL, OpenFlightsAirportsURL), AirportsFile, airportsLabel},
		{orDefault(cfg.RoutesURL, OpenFlightsRoutesURL), RoutesFile, routesLabel},
		{orDefault(cfg.BasemapURL, WorldGeoJSONURL), BasemapFile, basemapLabel},
	}
	for _, f := range files {
		if err := fetcher.DownloadFile(ctx, f.url, filepath.Join(cfg.Dir, f.name)); err != nil {
			return fmt.Errorf("download %s: %w", f.name, err)
		}
		if err := fetcher.Evict(f.url, f.label); err != nil {
			return fmt.Errorf("evict cached %s: %w", f.name, err)
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
