package network

import (
	"github.com/go-gota/gota/series"
)

// Lookup maps an IATA code to the airport position.
type Lookup map[string]Coord

// BuildLookup indexes airports by IATA code. Airports without a code are
// skipped; when a code repeats the later row wins.
func BuildLookup(airports *AirportTable) Lookup {
	iata := airports.df.Col(ColIATA)
	lon, lat := airports.df.Col(ColLong), airports.df.Col(ColLat)
	lookup := make(Lookup, airports.Len())
	for i := 0; i < airports.Len(); i++ {
		code := str(iata.Elem(i))
		if code == "" {
			continue
		}
		lookup[code] = Coord{Long: lon.Elem(i).Float(), Lat: lat.Elem(i).Float()}
	}
	return lookup
}

// EnrichStats counts routes by lookup outcome. Each route counts once.
type EnrichStats struct {
	Resolved int
	Missing  int
}

func (s EnrichStats) Total() int { return s.Resolved + s.Missing }

// Enrich appends start_long, start_lat, end_long and end_lat to every route.
//
// The source airport is resolved first, then the destination. If either code
// is absent from the lookup all four values are NaN, including the pair that
// did resolve. Callers relying on partial coordinates must resolve them
// separately.
func Enrich(routes *RouteTable, lookup Lookup) (*RouteTable, EnrichStats) {
	var stats EnrichStats
	n := routes.Len()
	startLong, startLat := make([]float64, n), make([]float64, n)
	endLong, endLat := make([]float64, n), make([]float64, n)

	srcCol, dstCol := routes.df.Col(ColSourceAirport), routes.df.Col(ColDestAirport)
	for i := 0; i < n; i++ {
		start, end, ok := resolve(lookup, str(srcCol.Elem(i)), str(dstCol.Elem(i)))
		if ok {
			stats.Resolved++
		} else {
			stats.Missing++
		}
		startLong[i], startLat[i] = start.Long, start.Lat
		endLong[i], endLat[i] = end.Long, end.Lat
	}

	df := routes.df.Copy()
	df = df.Mutate(series.New(startLong, series.Float, ColStartLong))
	df = df.Mutate(series.New(startLat, series.Float, ColStartLat))
	df = df.Mutate(series.New(endLong, series.Float, ColEndLong))
	df = df.Mutate(series.New(endLat, series.Float, ColEndLat))
	return &RouteTable{df: df}, stats
}

func resolve(lookup Lookup, src, dst string) (Coord, Coord, bool) {
	start, ok := lookup[src]
	if !ok {
		return MissingCoord, MissingCoord, false
	}
	end, ok := lookup[dst]
	if !ok {
		return MissingCoord, MissingCoord, false
	}
	return start, end, true
}
