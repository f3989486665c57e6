package mapview

import (
	"image"
	"image/color"
	"sort"
)

// point is a position on the canvas in pixels.
type point struct{ x, y float64 }

// canvas draws opaque primitives straight into an RGBA buffer, clipping to its
// bounds.
type canvas struct {
	img  *image.RGBA
	w, h int
}

func newCanvas(img *image.RGBA) canvas {
	b := img.Bounds()
	return canvas{img: img, w: b.Dx(), h: b.Dy()}
}

func (cv canvas) set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= cv.w || y >= cv.h {
		return
	}
	i := y*cv.img.Stride + x*4
	px := cv.img.Pix[i : i+4 : i+4]
	px[0], px[1], px[2], px[3] = c.R, c.G, c.B, 255
}

// span paints [x0, x1) on row y.
func (cv canvas) span(y, x0, x1 int, c color.RGBA) {
	if y < 0 || y >= cv.h {
		return
	}
	x0, x1 = max(x0, 0), min(x1, cv.w)
	for x := x0; x < x1; x++ {
		cv.set(x, y, c)
	}
}

// line is an integer Bresenham segment including both endpoints.
func (cv canvas) line(a, b image.Point, c color.RGBA) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	e := dx + dy
	for p := a; ; {
		cv.set(p.X, p.Y, c)
		if p == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p.X += sx
		}
		if e2 <= dx {
			e += dx
			p.Y += sy
		}
	}
}

func (cv canvas) dot(center image.Point, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				cv.set(center.X+dx, center.Y+dy, c)
			}
		}
	}
}

// outline strokes consecutive points; rings from GeoJSON are already closed.
func (cv canvas) outline(ring []point, c color.RGBA) {
	for i := 1; i < len(ring); i++ {
		cv.line(ring[i-1].pixel(), ring[i].pixel(), c)
	}
}

// fill paints the polygon formed by rings with the even-odd rule, so inner
// rings punch holes.
func (cv canvas) fill(rings [][]point, c color.RGBA) {
	top, bottom := float64(cv.h), 0.0
	for _, ring := range rings {
		for _, p := range ring {
			top, bottom = min(top, p.y), max(bottom, p.y)
		}
	}

	var xs []int
	for y := max(int(top), 0); y <= min(int(bottom), cv.h-1); y++ {
		xs = xs[:0]
		fy := float64(y)
		for _, ring := range rings {
			for i := range ring {
				a, b := ring[i], ring[(i+1)%len(ring)]
				if (a.y < fy) == (b.y < fy) {
					continue
				}
				xs = append(xs, int(a.x+(fy-a.y)/(b.y-a.y)*(b.x-a.x)))
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			cv.span(y, xs[i], xs[i+1], c)
		}
	}
}

func (p point) pixel() image.Point { return image.Pt(int(p.x), int(p.y)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
