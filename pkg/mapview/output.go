package mapview

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/sudorandom/flightnet/pkg/network"
)

// DefaultFilename names a map file by render time, e.g. flightnet-20060102-150405.png.
func DefaultFilename(ts time.Time, ext string) string {
	return fmt.Sprintf("flightnet-%s.%s", ts.Format("20060102-150405"), ext)
}

func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SaveFile renders the map into path. The format follows the extension: .pdf
// goes through WritePDF, everything else is PNG.
func (r *Renderer) SaveFile(path string, airports []network.Airport, routes []network.Route) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.log.Error("Error closing map file", "path", path, "error", err)
		}
	}()

	if filepath.Ext(path) == ".pdf" {
		err = r.WritePDF(f, airports, routes)
	} else {
		err = WritePNG(f, r.RenderImage(airports, routes))
	}
	if err != nil {
		return err
	}
	r.log.Info("Saved map", "path", path)
	return nil
}

// WritePDF draws the same map as vector shapes on a landscape A4 page.
func (r *Renderer) WritePDF(w io.Writer, airports []network.Airport, routes []network.Route) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Project onto a page-sized canvas so points land in millimetres.
	proj := NewProjection(pageW, pageH, 0)

	pdf.SetFillColor(int(ColorBackground.R), int(ColorBackground.G), int(ColorBackground.B))
	pdf.Rect(0, 0, pageW, pageH, "F")

	if r.basemap != nil {
		pdf.SetFillColor(int(ColorLand.R), int(ColorLand.G), int(ColorLand.B))
		pdf.SetDrawColor(int(ColorOutline.R), int(ColorOutline.G), int(ColorOutline.B))
		pdf.SetLineWidth(0.1)
		for _, f := range r.basemap.Features {
			if f.Geometry == nil {
				continue
			}
			var polys [][][][]float64
			if f.Geometry.IsPolygon() {
				polys = append(polys, f.Geometry.Polygon)
			} else if f.Geometry.IsMultiPolygon() {
				polys = f.Geometry.MultiPolygon
			}
			for _, poly := range polys {
				// Only outer rings; holes are rare at this scale.
				if len(poly) == 0 || len(poly[0]) < 3 {
					continue
				}
				pts := make([]gofpdf.PointType, 0, len(poly[0]))
				for _, p := range poly[0] {
					x, y := proj.Project(p[1], p[0])
					pts = append(pts, gofpdf.PointType{X: x, Y: y})
				}
				pdf.Polygon(pts, "FD")
			}
		}
	}

	segments := Segments(routes, r.opts.MaxRoutes)
	pdf.SetDrawColor(int(ColorRoute.R), int(ColorRoute.G), int(ColorRoute.B))
	pdf.SetLineWidth(0.2)
	for _, s := range segments {
		x1, y1 := proj.Project(s.From.Lat, s.From.Long)
		x2, y2 := proj.Project(s.To.Lat, s.To.Long)
		pdf.Line(x1, y1, x2, y2)
	}

	markers := 0
	pdf.SetFillColor(int(ColorAirport.R), int(ColorAirport.G), int(ColorAirport.B))
	for _, a := range airports {
		if !a.Position.Valid() {
			continue
		}
		x, y := proj.Project(a.Position.Lat, a.Position.Long)
		pdf.Circle(x, y, 0.6, "F")
		markers++
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(255, 255, 255)
	y := 10.0
	if r.opts.Title != "" {
		pdf.Text(8, y, r.opts.Title)
		y += 5
	}
	pdf.Text(8, y, fmt.Sprintf("Airports (%d)", markers))
	pdf.Text(8, y+5, fmt.Sprintf("Routes (%d)", len(segments)))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
