package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	_ "github.com/silbinarywolf/preferdiscretegpu"

	"github.com/sudorandom/flightnet/pkg/logger"
)

type CLI struct {
	Source      string        `enum:"remote,bundled,dir" default:"bundled" env:"FLIGHTNET_SOURCE" help:"Where to read the datasets from (remote, bundled, dir)."`
	DataDir     string        `type:"path" default:"data" env:"FLIGHTNET_DATA_DIR" help:"Directory for the dir source, fetch output and a local world.geo.json."`
	CacheDir    string        `default:"${cache_dir}" env:"FLIGHTNET_CACHE_DIR" help:"Directory of the HTTP response cache."`
	NoCache     bool          `env:"FLIGHTNET_NO_CACHE" help:"Do not cache downloaded files."`
	CacheTTL    time.Duration `default:"24h" env:"FLIGHTNET_CACHE_TTL" help:"How long cached downloads stay valid."`
	AirportsURL string        `name:"airports-url" env:"FLIGHTNET_AIRPORTS_URL" help:"airports.dat URL for the remote source."`
	RoutesURL   string        `name:"routes-url" env:"FLIGHTNET_ROUTES_URL" help:"routes.dat URL for the remote source."`
	BasemapURL  string        `name:"basemap-url" env:"FLIGHTNET_BASEMAP_URL" help:"World GeoJSON URL."`
	LogLevel    string        `default:"info" env:"FLIGHTNET_LOG_LEVEL" help:"Log level (debug, info, warn, error)."`
	LogJSON     bool          `name:"log-json" env:"FLIGHTNET_LOG_JSON" help:"Log as JSON."`
	MetricsFile string        `type:"path" env:"FLIGHTNET_METRICS_FILE" help:"Write Prometheus metrics to this textfile on exit."`
	Equipment   []string      `env:"FLIGHTNET_EQUIPMENT" help:"Only keep routes flown with any of these aircraft codes."`

	Render RenderCmd `cmd:"" help:"Render the network to a PNG or PDF map."`
	View   ViewCmd   `cmd:"" help:"Show the network map in a local window."`
	Export ExportCmd `cmd:"" help:"Write the enriched network as GeoJSON."`
	Stats  StatsCmd  `cmd:"" help:"Print per-country airport and route counts."`
	Fetch  FetchCmd  `cmd:"" help:"Download the datasets and basemap into the data directory."`
	Cache  CacheCmd  `cmd:"" help:"List or clear the download cache."`
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "flightnet")
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("flightnet"),
		kong.Description("Load, clean, geo-enrich and map the OpenFlights airport and route network."),
		kong.UsageOnError(),
		kong.Vars{"cache_dir": defaultCacheDir()},
	)

	log := logger.NewLogger(cli.LogLevel, cli.LogJSON)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app, err := NewApp(&cli, log)
	if err == nil {
		kctx.BindTo(ctx, (*context.Context)(nil))
		err = kctx.Run(app)
		app.Close()
	}
	stop()

	if err != nil {
		log.Error("Command failed", "command", kctx.Command(), "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}
