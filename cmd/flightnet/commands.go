package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sudorandom/flightnet/pkg/export"
	"github.com/sudorandom/flightnet/pkg/mapview"
	"github.com/sudorandom/flightnet/pkg/sources"
	"github.com/sudorandom/flightnet/pkg/stats"
	"github.com/sudorandom/flightnet/pkg/viewer"
)

type MapFlags struct {
	Width     int     `default:"1920" help:"Image width in pixels."`
	Height    int     `default:"1080" help:"Image height in pixels."`
	Scale     float64 `default:"0" help:"Projection scale; 0 fits the globe to the width."`
	MaxRoutes int     `default:"100" help:"Draw at most this many routes from the top of the table; -1 draws all."`
	Title     string  `default:"Flight network" help:"Title drawn in the legend."`
}

func (f MapFlags) options() mapview.Options {
	return mapview.Options{Width: f.Width, Height: f.Height, Scale: f.Scale, MaxRoutes: f.MaxRoutes, Title: f.Title}
}

type RenderCmd struct {
	MapFlags `embed:""`
	Output   string `short:"o" type:"path" help:"Output file; defaults to a timestamped name in the current directory."`
	Format   string `enum:"png,pdf" default:"png" help:"Format used when --output is not set."`
}

func (c *RenderCmd) Run(app *App, ctx context.Context) error {
	ds, err := app.Dataset(ctx)
	if err != nil {
		return err
	}
	r, err := app.Renderer(ctx, c.options())
	if err != nil {
		return err
	}
	out := c.Output
	if out == "" {
		out = mapview.DefaultFilename(time.Now(), c.Format)
	}
	return r.SaveFile(out, ds.Airports.Airports(), ds.Routes.Routes())
}

type ViewCmd struct {
	MapFlags     `embed:""`
	WindowWidth  int `default:"1280" help:"Initial window width."`
	WindowHeight int `default:"720" help:"Initial window height."`
}

func (c *ViewCmd) Run(app *App, ctx context.Context) error {
	ds, err := app.Dataset(ctx)
	if err != nil {
		return err
	}
	r, err := app.Renderer(ctx, c.options())
	if err != nil {
		return err
	}
	img := r.RenderImage(ds.Airports.Airports(), ds.Routes.Routes())
	return viewer.New(img, app.Log).Run(c.Title, c.WindowWidth, c.WindowHeight)
}

type ExportCmd struct {
	Output string `short:"o" default:"-" help:"GeoJSON output file, - for stdout."`
	Limit  int    `default:"0" help:"Export at most this many routes from the top of the table; 0 exports all."`
}

func (c *ExportCmd) Run(app *App, ctx context.Context) error {
	ds, err := app.Dataset(ctx)
	if err != nil {
		return err
	}
	if c.Output == "-" {
		return export.Write(os.Stdout, ds, c.Limit)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", c.Output, err)
	}
	if err := export.Write(f, ds, c.Limit); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", c.Output, err)
	}
	app.Log.Info("Exported network", "output", c.Output)
	return nil
}

type StatsCmd struct {
	Top int `default:"10" help:"Countries to list per table; 0 lists all."`
}

func (c *StatsCmd) Run(app *App, ctx context.Context) error {
	ds, err := app.Dataset(ctx)
	if err != nil {
		return err
	}
	return stats.Summarize(ds, c.Top).Write(os.Stdout)
}

type FetchCmd struct{}

func (c *FetchCmd) Run(app *App, ctx context.Context) error {
	cfg := app.sourceConfig()
	if err := sources.Mirror(ctx, app.Fetcher, cfg); err != nil {
		return err
	}
	app.Log.Info("Fetched datasets", "dir", cfg.Dir)
	return nil
}

type CacheCmd struct {
	Clear bool `help:"Delete every cached download."`
}

func (c *CacheCmd) Run(app *App) error {
	return c.run(app, os.Stdout)
}

func (c *CacheCmd) run(app *App, w io.Writer) error {
	if app.cache == nil {
		return errCacheDisabled
	}
	if c.Clear {
		n, err := app.cache.Clear()
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		app.Log.Info("Cleared cache", "entries", n)
		return nil
	}

	entries, err := app.cache.Entries()
	if err != nil {
		return fmt.Errorf("listing cache: %w", err)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tBYTES")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\n", e.Key, e.Size)
	}
	return tw.Flush()
}
