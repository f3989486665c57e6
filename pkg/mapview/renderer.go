// Package mapview draws the flight network on a world map.
package mapview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	geojson "github.com/paulmach/go.geojson"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/sudorandom/flightnet/pkg/logger"
	"github.com/sudorandom/flightnet/pkg/network"
)

// DefaultMaxRoutes caps how many routes are drawn.
const DefaultMaxRoutes = 100

var (
	ColorBackground = color.RGBA{8, 10, 15, 255}
	ColorLand       = color.RGBA{26, 29, 35, 255}
	ColorOutline    = color.RGBA{36, 42, 53, 255}
	ColorAirport    = color.RGBA{255, 255, 0, 255}   // Yellow
	ColorRoute      = color.RGBA{0, 191, 255, 255}   // Sky Blue
	ColorText       = color.RGBA{255, 255, 255, 204} // White
)

type Options struct {
	Width, Height int
	Scale         float64 // <= 0 fits the globe to Width
	MaxRoutes     int     // 0 means DefaultMaxRoutes, negative means all
	Title         string
}

// Segment is a straight line between two resolved route endpoints.
type Segment struct {
	From, To network.Coord
}

// Segments returns the resolved routes among the first max routes, in order.
// max < 0 means every route.
func Segments(routes []network.Route, max int) []Segment {
	if max >= 0 && max < len(routes) {
		routes = routes[:max]
	}
	out := make([]Segment, 0, len(routes))
	for _, r := range routes {
		if r.Resolved() {
			out = append(out, Segment{From: r.Start, To: r.End})
		}
	}
	return out
}

type Renderer struct {
	opts    Options
	proj    Projection
	basemap *geojson.FeatureCollection
	face    font.Face
	log     logger.Logger
}

// NewRenderer parses the optional world GeoJSON. A nil or empty basemap draws
// the network on the plain background.
func NewRenderer(opts Options, basemap []byte, log logger.Logger) (*Renderer, error) {
	if opts.Width <= 0 {
		opts.Width = 1920
	}
	if opts.Height <= 0 {
		opts.Height = 1080
	}
	if opts.MaxRoutes == 0 {
		opts.MaxRoutes = DefaultMaxRoutes
	}
	r := &Renderer{
		opts: opts,
		proj: NewProjection(float64(opts.Width), float64(opts.Height), opts.Scale),
		log:  log,
	}
	if len(basemap) > 0 {
		fc, err := geojson.UnmarshalFeatureCollection(basemap)
		if err != nil {
			return nil, err
		}
		r.basemap = fc
	}

	fontSize := 18.0
	if opts.Width > 2000 {
		fontSize = 36.0
	}
	face, err := legendFace(fontSize)
	if err != nil {
		log.Warn("Legend font unavailable, drawing map without legend", "error", err)
	}
	r.face = face
	return r, nil
}

// legendFont is the TrueType data used for the title and legend.
var legendFont = goregular.TTF

func legendFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(legendFont)
	if err != nil {
		return nil, fmt.Errorf("parsing legend font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("building legend face: %w", err)
	}
	return face, nil
}

func (r *Renderer) Options() Options { return r.opts }

// RenderImage draws airports as markers and the first MaxRoutes routes as
// straight lines.
func (r *Renderer) RenderImage(airports []network.Airport, routes []network.Route) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{ColorBackground}, image.Point{}, draw.Src)
	r.drawBasemap(img)

	cv := newCanvas(img)
	segments := Segments(routes, r.opts.MaxRoutes)
	for _, s := range segments {
		cv.line(r.pixel(s.From), r.pixel(s.To), ColorRoute)
	}

	markers := 0
	radius := 2
	if r.opts.Width > 2000 {
		radius = 4
	}
	for _, a := range airports {
		if !a.Position.Valid() {
			continue
		}
		cv.dot(r.pixel(a.Position), radius, ColorAirport)
		markers++
	}

	r.drawLegend(img, markers, len(segments))
	r.log.Debug("Rendered map", "airports", markers, "routes", len(segments), "width", r.opts.Width, "height", r.opts.Height)
	return img
}

func (r *Renderer) drawBasemap(img *image.RGBA) {
	if r.basemap == nil {
		return
	}
	cv := newCanvas(img)
	for _, f := range r.basemap.Features {
		if f.Geometry == nil {
			continue
		}
		var polygons [][][][]float64
		switch {
		case f.Geometry.IsPolygon():
			polygons = [][][][]float64{f.Geometry.Polygon}
		case f.Geometry.IsMultiPolygon():
			polygons = f.Geometry.MultiPolygon
		}
		for _, poly := range polygons {
			rings := make([][]point, len(poly))
			for i, ring := range poly {
				rings[i] = r.projectRing(ring)
			}
			cv.fill(rings, ColorLand)
			for _, ring := range rings {
				cv.outline(ring, ColorOutline)
			}
		}
	}
}

// projectRing converts GeoJSON [lng, lat] positions to canvas points.
func (r *Renderer) projectRing(ring [][]float64) []point {
	out := make([]point, len(ring))
	for i, pos := range ring {
		out[i].x, out[i].y = r.proj.Project(pos[1], pos[0])
	}
	return out
}

func (r *Renderer) pixel(c network.Coord) image.Point {
	x, y := r.proj.Project(c.Lat, c.Long)
	return image.Pt(int(x), int(y))
}

func (r *Renderer) drawLegend(img *image.RGBA, airports, routes int) {
	if r.face == nil {
		return
	}
	margin := r.opts.Width / 40
	lineHeight := r.face.Metrics().Height.Ceil() + 6
	d := &font.Drawer{Dst: img, Src: image.NewUniform(ColorText), Face: r.face}

	lines := 2
	if r.opts.Title != "" {
		lines++
	}
	// Bottom-left corner stays clear of land in this projection.
	y := r.opts.Height - margin - (lines-1)*lineHeight
	if r.opts.Title != "" {
		d.Dot = fixed.P(margin, y)
		d.DrawString(r.opts.Title)
		y += lineHeight
	}

	items := []struct {
		label string
		c     color.RGBA
		n     int
	}{
		{"Airports", ColorAirport, airports},
		{"Routes", ColorRoute, routes},
	}
	swatch := lineHeight / 2
	for _, it := range items {
		draw.Draw(img, image.Rect(margin, y-swatch, margin+swatch, y), &image.Uniform{it.c}, image.Point{}, draw.Src)
		d.Dot = fixed.P(margin+swatch+10, y)
		d.DrawString(it.label + " (" + strconv.Itoa(it.n) + ")")
		y += lineHeight
	}
}
