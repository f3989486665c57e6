package mapview

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sudorandom/flightnet/pkg/logger"
	"github.com/sudorandom/flightnet/pkg/network"
)

const testBasemap = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"name":"Box"},"geometry":{"type":"Polygon","coordinates":[[[-20,-20],[20,-20],[20,20],[-20,20],[-20,-20]]]}},
{"type":"Feature","properties":{"name":"Islands"},"geometry":{"type":"MultiPolygon","coordinates":[[[[100,10],[110,10],[110,20],[100,20],[100,10]]]]}}
]}`

var (
	jfk = network.Coord{Long: -73.7, Lat: 40.6}
	lax = network.Coord{Long: -118.4, Lat: 33.9}
)

func testAirports() []network.Airport {
	return []network.Airport{
		{ID: 3797, IATA: "JFK", Position: jfk},
		{ID: 3484, IATA: "LAX", Position: lax},
		{ID: 1, Position: network.MissingCoord},
	}
}

func route(start, end network.Coord) network.Route {
	return network.Route{Source: "JFK", Dest: "LAX", Start: start, End: end}
}

func TestSegments(t *testing.T) {
	routes := make([]network.Route, 0, 150)
	for i := 0; i < 150; i++ {
		routes = append(routes, route(jfk, lax))
	}
	assert.Len(t, Segments(routes, DefaultMaxRoutes), 100)
	assert.Len(t, Segments(routes, -1), 150)

	routes[0] = route(jfk, network.MissingCoord)
	routes[1] = route(network.MissingCoord, network.MissingCoord)
	segs := Segments(routes, DefaultMaxRoutes)
	assert.Len(t, segs, 98, "unresolved routes inside the first 100 are skipped, not replaced")
	assert.Equal(t, Segment{From: jfk, To: lax}, segs[0])

	assert.Empty(t, Segments(nil, DefaultMaxRoutes))
}

func TestRenderImage(t *testing.T) {
	r, err := NewRenderer(Options{Width: 800, Height: 400, Title: "Test"}, []byte(testBasemap), logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxRoutes, r.Options().MaxRoutes)

	img := r.RenderImage(testAirports(), []network.Route{route(jfk, lax), route(jfk, network.MissingCoord)})
	require.Equal(t, 800, img.Bounds().Dx())
	require.Equal(t, 400, img.Bounds().Dy())

	x, y := r.proj.Project(jfk.Lat, jfk.Long)
	assert.Equal(t, ColorAirport, img.RGBAAt(int(x), int(y)))

	// Origin of the box polygon is land.
	x, y = r.proj.Project(0, 0)
	assert.Equal(t, ColorLand, img.RGBAAt(int(x), int(y)))

	// Midpoint of the straight JFK-LAX segment.
	x1, y1 := r.proj.Project(jfk.Lat, jfk.Long)
	x2, y2 := r.proj.Project(lax.Lat, lax.Long)
	assert.True(t, hasColorNear(img.RGBAAt, int((x1+x2)/2), int((y1+y2)/2), ColorRoute))

	assert.Equal(t, ColorBackground, img.RGBAAt(799, 399))
}

func hasColorNear(at func(x, y int) color.RGBA, x, y int, c color.RGBA) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if at(x+dx, y+dy) == c {
				return true
			}
		}
	}
	return false
}

func TestRenderWithoutBasemap(t *testing.T) {
	r, err := NewRenderer(Options{Width: 200, Height: 100}, nil, logger.NewNop())
	require.NoError(t, err)
	assert.NotPanics(t, func() { r.RenderImage(nil, nil) })

	img := r.RenderImage(nil, nil)
	x, y := r.proj.Project(0, 0)
	assert.Equal(t, ColorBackground, img.RGBAAt(int(x), int(y)))
}

func TestNewRendererBadBasemap(t *testing.T) {
	_, err := NewRenderer(Options{}, []byte("not json"), logger.NewNop())
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	r, err := NewRenderer(Options{Width: 320, Height: 160}, []byte(testBasemap), logger.NewNop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, r.RenderImage(testAirports(), []network.Route{route(jfk, lax)})))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, decoded.Bounds().Dx())
}

func TestWritePDF(t *testing.T) {
	r, err := NewRenderer(Options{Title: "Routes"}, []byte(testBasemap), logger.NewNop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WritePDF(&buf, testAirports(), []network.Route{route(jfk, lax)}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestSaveFile(t *testing.T) {
	r, err := NewRenderer(Options{Width: 100, Height: 50}, nil, logger.NewNop())
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"out/map.png", "out/map.pdf"} {
		require.NoError(t, r.SaveFile(filepath.Join(dir, name), testAirports(), nil))
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestDefaultFilename(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC)
	assert.Equal(t, "flightnet-20240301-123005.png", DefaultFilename(ts, "png"))
}

func TestLegendFontFailureIsLogged(t *testing.T) {
	orig := legendFont
	legendFont = []byte("not a font")
	t.Cleanup(func() { legendFont = orig })

	core, logs := observer.New(zap.WarnLevel)
	r, err := NewRenderer(Options{Width: 200, Height: 100, Title: "Test"}, nil, logger.FromZap(zap.New(core)))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Legend font unavailable, drawing map without legend", entries[0].Message)
	assert.Contains(t, entries[0].ContextMap()["error"], "parsing legend font")

	assert.NotPanics(t, func() { r.RenderImage(testAirports(), nil) })
}

func TestLegendFace(t *testing.T) {
	face, err := legendFace(18)
	require.NoError(t, err)
	assert.Positive(t, face.Metrics().Height.Ceil())
}
