// Package metrics holds the counters recorded while preparing the flight network.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for one pipeline run.
type Metrics struct {
	Registry *prometheus.Registry

	AirportsLoaded prometheus.Gauge
	RoutesLoaded   prometheus.Gauge
	RoutesDropped  prometheus.Counter
	RoutesResolved prometheus.Counter
	RoutesMissing  prometheus.Counter
	StageDuration  *prometheus.HistogramVec
}

// NewMetrics registers the metrics on a private registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		AirportsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "airports_loaded",
			Help:      "Airports in the loaded airport table",
		}),
		RoutesLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "routes_loaded",
			Help:      "Routes in the raw route table",
		}),
		RoutesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_dropped_total",
			Help:      "Routes removed because an airport id did not parse",
		}),
		RoutesResolved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_resolved_total",
			Help:      "Routes whose endpoints both resolved to coordinates",
		}),
		RoutesMissing: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_missing_airport_total",
			Help:      "Routes with at least one endpoint absent from the airport lookup",
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent per pipeline stage",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
