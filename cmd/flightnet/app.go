package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sudorandom/flightnet/pkg/logger"
	"github.com/sudorandom/flightnet/pkg/mapview"
	"github.com/sudorandom/flightnet/pkg/metrics"
	"github.com/sudorandom/flightnet/pkg/network"
	"github.com/sudorandom/flightnet/pkg/sources"
	"github.com/sudorandom/flightnet/pkg/utils"
)

var errCacheDisabled = errors.New("download cache is disabled (set --cache-dir, drop --no-cache)")

// App carries the shared dependencies every command runs with.
type App struct {
	CLI     *CLI
	Log     logger.Logger
	Metrics *metrics.Metrics
	Fetcher *utils.Fetcher

	cache *utils.DiskCache
}

func NewApp(cli *CLI, log logger.Logger) (*App, error) {
	app := &App{
		CLI:     cli,
		Log:     log,
		Metrics: metrics.NewMetrics("flightnet"),
	}
	if !cli.NoCache && cli.CacheDir != "" {
		cache, err := utils.OpenDiskCache(filepath.Join(cli.CacheDir, "http"), cli.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		app.cache = cache
		log.Debug("Using download cache", "dir", cli.CacheDir, "ttl", cli.CacheTTL)
	}
	app.Fetcher = utils.NewFetcher(app.cache, log)
	return app, nil
}

// Close flushes metrics and releases the cache.
func (a *App) Close() {
	if a.CLI.MetricsFile != "" {
		if err := a.Metrics.WriteTextfile(a.CLI.MetricsFile); err != nil {
			a.Log.Error("Error writing metrics file", "path", a.CLI.MetricsFile, "error", err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.Error("Error closing cache", "error", err)
		}
	}
}

func (a *App) sourceConfig() sources.Config {
	return sources.Config{
		Kind:        a.CLI.Source,
		AirportsURL: a.CLI.AirportsURL,
		RoutesURL:   a.CLI.RoutesURL,
		BasemapURL:  a.CLI.BasemapURL,
		Dir:         a.CLI.DataDir,
	}
}

func (a *App) Dataset(ctx context.Context) (*network.Dataset, error) {
	src, err := sources.New(a.sourceConfig(), a.Fetcher)
	if err != nil {
		return nil, err
	}
	p := &network.Pipeline{
		Source:    src,
		Log:       a.Log,
		Metrics:   a.Metrics,
		Equipment: a.CLI.Equipment,
	}
	return p.Run(ctx)
}

// Renderer loads the basemap and builds a renderer. Without a basemap the
// map is drawn on the plain background.
func (a *App) Renderer(ctx context.Context, opts mapview.Options) (*mapview.Renderer, error) {
	basemap, err := sources.Basemap(ctx, a.Fetcher, a.CLI.BasemapURL, a.CLI.DataDir)
	if err != nil {
		a.Log.Warn("Basemap unavailable, drawing without it", "error", err)
		basemap = nil
	}
	r, err := mapview.NewRenderer(opts, basemap, a.Log)
	if err != nil {
		a.Log.Warn("Basemap is not valid GeoJSON, drawing without it", "error", err)
		return mapview.NewRenderer(opts, nil, a.Log)
	}
	return r, nil
}
