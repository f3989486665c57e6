package network

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sudorandom/flightnet/pkg/logger"
	"github.com/sudorandom/flightnet/pkg/metrics"
)

// DatasetSource supplies the raw airports.dat and routes.dat contents.
type DatasetSource interface {
	Name() string
	Airports(ctx context.Context) (io.ReadCloser, error)
	Routes(ctx context.Context) (io.ReadCloser, error)
}

// Dataset is the loaded, cleaned and enriched network.
type Dataset struct {
	Airports  *AirportTable
	Routes    *RouteTable
	Lookup    Lookup
	Stats     EnrichStats
	RawRoutes int
}

// Pipeline runs load, clean and enrich in order.
type Pipeline struct {
	Source    DatasetSource
	Log       logger.Logger
	Metrics   *metrics.Metrics // optional
	Equipment []string         // optional FilterEquipment codes
}

func (p *Pipeline) Run(ctx context.Context) (*Dataset, error) {
	log := p.Log.With("source", p.Source.Name())

	start := time.Now()
	airports, err := p.loadAirports(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded airports", "rows", airports.Len())

	raw, err := p.loadRoutes(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded routes", "rows", raw.Len())
	p.observe("load", start)

	start = time.Now()
	routes := Sanitize(raw)
	dropped := raw.Len() - routes.Len()
	log.Info("Cleaned routes", "rows", routes.Len(), "dropped", dropped)
	if len(p.Equipment) > 0 {
		routes = FilterEquipment(routes, p.Equipment)
		log.Info("Filtered routes by equipment", "codes", p.Equipment, "rows", routes.Len())
	}
	p.observe("clean", start)

	start = time.Now()
	lookup := BuildLookup(airports)
	routes, stats := Enrich(routes, lookup)
	log.Info("Enriched routes", "resolved", stats.Resolved, "missing", stats.Missing)
	p.observe("enrich", start)

	if m := p.Metrics; m != nil {
		m.AirportsLoaded.Set(float64(airports.Len()))
		m.RoutesLoaded.Set(float64(raw.Len()))
		m.RoutesDropped.Add(float64(dropped))
		m.RoutesResolved.Add(float64(stats.Resolved))
		m.RoutesMissing.Add(float64(stats.Missing))
	}

	return &Dataset{
		Airports:  airports,
		Routes:    routes,
		Lookup:    lookup,
		Stats:     stats,
		RawRoutes: raw.Len(),
	}, nil
}

func (p *Pipeline) loadAirports(ctx context.Context) (*AirportTable, error) {
	rc, err := p.Source.Airports(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	t, err := LoadAirports(rc)
	if err != nil {
		return nil, fmt.Errorf("load airports: %w", err)
	}
	return t, nil
}

func (p *Pipeline) loadRoutes(ctx context.Context) (*RouteTable, error) {
	rc, err := p.Source.Routes(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	t, err := LoadRoutes(rc)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	return t, nil
}

func (p *Pipeline) observe(stage string, start time.Time) {
	if p.Metrics != nil {
		p.Metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
