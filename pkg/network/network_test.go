package network

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudorandom/flightnet/pkg/logger"
	"github.com/sudorandom/flightnet/pkg/metrics"
	"github.com/sudorandom/flightnet/pkg/sources"
)

const testAirports = `3797,"John F Kennedy International Airport","New York","United States","JFK","KJFK",40.6,-73.7,13,-5,"A","America/New_York","airport","OurAirports"
3484,"Los Angeles International Airport","Los Angeles","United States","LAX","KLAX",33.9,-118.4,125,-8,"A","America/Los_Angeles","airport","OurAirports"
6891,"Putnam County Airport","Greencastle","United States",\N,"KGPC",39.6335,-86.8138,842,-5,"U","America/New_York","airport","OurAirports"
`

const testRoutes = `AA,24,JFK,3797,LAX,3484,,0,32B 762
AA,24,JFK,3797,ZZZ,9999,,0,32B
AA,24,ZZZ,9999,LAX,3484,,0,32B
5T,1623,YYZ,193,YHZ,\N,,0,320
ZZ,\N,XXX,abc,JFK,3797,,0,737
`

func mustAirports(t *testing.T) *AirportTable {
	t.Helper()
	a, err := LoadAirports(strings.NewReader(testAirports))
	require.NoError(t, err)
	return a
}

func mustRoutes(t *testing.T) *RouteTable {
	t.Helper()
	r, err := LoadRoutes(strings.NewReader(testRoutes))
	require.NoError(t, err)
	return r
}

func TestLoadAirports(t *testing.T) {
	a := mustAirports(t)

	assert.Equal(t, 3, a.Len())
	assert.Len(t, a.Columns(), 13)
	assert.Equal(t, AirportSchema[1:], a.Columns())

	jfk, ok := a.ByID(3797)
	require.True(t, ok)
	assert.Equal(t, "John F Kennedy International Airport", jfk.Name)
	assert.Equal(t, "JFK", jfk.IATA)
	assert.Equal(t, Coord{Long: -73.7, Lat: 40.6}, jfk.Position)
	assert.Equal(t, "America/New_York", jfk.TzName)

	putnam, ok := a.ByID(6891)
	require.True(t, ok)
	assert.Empty(t, putnam.IATA, "null IATA code")
	assert.Equal(t, "KGPC", putnam.ICAO)

	_, ok = a.ByID(1)
	assert.False(t, ok)
}

func TestLoadAirportsSkipsRowsWithoutID(t *testing.T) {
	data := testAirports +
		`\N,"Nowhere","Nowhere","Nowhere","NWH","XNWH",1,1,0,0,"U","Etc/UTC","airport","test"` + "\n" +
		`x1,"Bad Id","Nowhere","Nowhere","BAD","XBAD",2,2,0,0,"U","Etc/UTC","airport","test"` + "\n"
	a, err := LoadAirports(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, a.Len())
	_, ok := a.ByID(0)
	assert.False(t, ok, "unparseable ids must not be indexed as 0")
	for _, ap := range a.Airports() {
		assert.NotEqual(t, "NWH", ap.IATA)
		assert.NotEqual(t, "BAD", ap.IATA)
	}
	lax, ok := a.ByID(3484)
	require.True(t, ok)
	assert.Equal(t, "LAX", lax.IATA)
}

func TestLoadRoutes(t *testing.T) {
	r := mustRoutes(t)
	assert.Equal(t, 5, r.Len())
	assert.Len(t, r.Columns(), 9)
	assert.Equal(t, RouteSchema, r.Columns())
	assert.False(t, r.Enriched())

	first := r.Routes()[0]
	assert.Equal(t, "JFK", first.Source)
	assert.Equal(t, 3797, first.SourceID)
	assert.Equal(t, "32B 762", first.Equipment)
	assert.False(t, first.Resolved())
}

func TestLoadSchemaMismatch(t *testing.T) {
	_, err := LoadRoutes(strings.NewReader("AA,24,JFK\n"))
	assert.ErrorIs(t, err, ErrSchema)

	_, err = LoadAirports(strings.NewReader("1,2,3\n"))
	assert.ErrorIs(t, err, ErrSchema)
}

func TestSanitize(t *testing.T) {
	raw := mustRoutes(t)
	clean := Sanitize(raw)

	assert.Equal(t, 3, clean.Len())
	assert.Equal(t, 5, raw.Len(), "input must not be modified")

	df := clean.Frame()
	for _, name := range []string{ColSourceAirportID, ColDestAirportID} {
		col := df.Col(name)
		assert.Equal(t, series.Float, col.Type(), name)
		for i := 0; i < col.Len(); i++ {
			assert.False(t, col.Elem(i).IsNA(), "%s row %d", name, i)
		}
	}

	var ids [][2]int
	for _, r := range clean.Routes() {
		ids = append(ids, [2]int{r.SourceID, r.DestID})
	}
	assert.Equal(t, [][2]int{{3797, 3484}, {3797, 9999}, {9999, 3484}}, ids)
}

func TestSanitizeNumericForms(t *testing.T) {
	tests := []struct {
		id   string
		want int
		keep bool
	}{
		{"3797", 3797, true},
		{"3797.0", 3797, true},
		{" 3797", 3797, true},
		{"3797 ", 3797, true},
		{"abc", 0, false},
		{`\N`, 0, false},
		{"", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		raw, err := LoadRoutes(strings.NewReader(`AA,24,JFK,"` + tt.id + `",LAX,3484,,0,32B` + "\n"))
		require.NoError(t, err)
		clean := Sanitize(raw)
		if !tt.keep {
			assert.Equal(t, 0, clean.Len(), "id %q", tt.id)
			continue
		}
		require.Equal(t, 1, clean.Len(), "id %q", tt.id)
		assert.Equal(t, tt.want, clean.Routes()[0].SourceID, "id %q", tt.id)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	once := Sanitize(mustRoutes(t))
	twice := Sanitize(once)

	assert.Equal(t, once.Columns(), twice.Columns())
	assert.Equal(t, once.Frame().Records(), twice.Frame().Records())
}

func TestBuildLookup(t *testing.T) {
	lookup := BuildLookup(mustAirports(t))
	assert.Len(t, lookup, 2)
	assert.Equal(t, Coord{Long: -118.4, Lat: 33.9}, lookup["LAX"])
	_, ok := lookup[""]
	assert.False(t, ok)
}

func TestEnrich(t *testing.T) {
	routes, stats := Enrich(Sanitize(mustRoutes(t)), BuildLookup(mustAirports(t)))

	assert.Equal(t, EnrichStats{Resolved: 1, Missing: 2}, stats)
	assert.Equal(t, 3, stats.Total())
	assert.Len(t, routes.Columns(), 13)
	assert.Equal(t, append(append([]string{}, RouteSchema...), CoordinateColumns...), routes.Columns())
	assert.True(t, routes.Enriched())

	rows := routes.Routes()

	// JFK -> LAX resolves to the exact airport positions.
	assert.True(t, rows[0].Resolved())
	assert.Equal(t, -73.7, rows[0].Start.Long)
	assert.Equal(t, 40.6, rows[0].Start.Lat)
	assert.Equal(t, -118.4, rows[0].End.Long)
	assert.Equal(t, 33.9, rows[0].End.Lat)

	df := routes.Frame()
	assert.Equal(t, -73.7, df.Col(ColStartLong).Elem(0).Float())
	assert.Equal(t, 33.9, df.Col(ColEndLat).Elem(0).Float())

	// JFK -> ZZZ: destination missing, the resolved source is discarded too.
	// ZZZ -> LAX: source missing.
	for _, i := range []int{1, 2} {
		r := rows[i]
		assert.False(t, r.Resolved())
		for _, v := range []float64{r.Start.Long, r.Start.Lat, r.End.Long, r.End.Lat} {
			assert.True(t, math.IsNaN(v), "row %d: %v", i, v)
		}
		for _, name := range CoordinateColumns {
			assert.True(t, math.IsNaN(df.Col(name).Elem(i).Float()), "row %d %s", i, name)
		}
	}
}

func TestEnrichSingleMissingRoute(t *testing.T) {
	routes, err := LoadRoutes(strings.NewReader("AA,24,JFK,3797,ZZZ,9999,,0,32B\n"))
	require.NoError(t, err)

	_, stats := Enrich(Sanitize(routes), BuildLookup(mustAirports(t)))
	assert.Equal(t, EnrichStats{Resolved: 0, Missing: 1}, stats)
}

func TestFilterEquipment(t *testing.T) {
	routes := Sanitize(mustRoutes(t))

	assert.Same(t, routes, FilterEquipment(routes, nil))
	assert.Same(t, routes, FilterEquipment(routes, []string{" "}))

	assert.Equal(t, 3, FilterEquipment(routes, []string{"32B"}).Len())

	only762 := FilterEquipment(routes, []string{"762", "744"})
	require.Equal(t, 1, only762.Len())
	assert.Equal(t, "LAX", only762.Routes()[0].Dest)

	partial := FilterEquipment(routes, []string{"2B", "76"})
	assert.Equal(t, 0, partial.Len())
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Airports(context.Context) (io.ReadCloser, error) {
	return nil, errors.New("connection refused")
}
func (failingSource) Routes(context.Context) (io.ReadCloser, error) {
	return nil, errors.New("connection refused")
}

func TestPipelineBundled(t *testing.T) {
	m := metrics.NewMetrics("flightnet")
	p := &Pipeline{Source: sources.Bundled{}, Log: logger.NewNop(), Metrics: m}

	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 25, ds.Airports.Len())
	assert.Equal(t, 28, ds.RawRoutes)
	assert.Equal(t, 26, ds.Routes.Len())
	assert.Equal(t, EnrichStats{Resolved: 24, Missing: 2}, ds.Stats)

	assert.Equal(t, 25.0, testutil.ToFloat64(m.AirportsLoaded))
	assert.Equal(t, 28.0, testutil.ToFloat64(m.RoutesLoaded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RoutesDropped))
	assert.Equal(t, 24.0, testutil.ToFloat64(m.RoutesResolved))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RoutesMissing))
}

func TestPipelineEquipment(t *testing.T) {
	p := &Pipeline{Source: sources.Bundled{}, Log: logger.NewNop(), Equipment: []string{"CR2"}}
	ds, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Routes.Len())
	assert.Equal(t, EnrichStats{Resolved: 3, Missing: 1}, ds.Stats)
}

func TestPipelineSourceError(t *testing.T) {
	p := &Pipeline{Source: failingSource{}, Log: logger.NewNop()}
	_, err := p.Run(context.Background())
	assert.EqualError(t, err, "connection refused")
}
