package viewer

import "math"

const (
	minZoom  = 1.0
	maxZoom  = 16.0
	zoomStep = 1.1
	panStep  = 12.0
)

// camera maps the rendered map onto the window. Offsets are in map pixels of
// the top-left visible corner.
type camera struct {
	zoom         float64
	offX, offY   float64
	mapW, mapH   float64
	viewW, viewH float64
}

func newCamera(mapW, mapH int) *camera {
	return &camera{zoom: 1, mapW: float64(mapW), mapH: float64(mapH), viewW: float64(mapW), viewH: float64(mapH)}
}

// zoomAt scales around the window point (x, y) so that point stays fixed.
func (c *camera) zoomAt(x, y, wheel float64) {
	if wheel == 0 {
		return
	}
	mx, my := c.toMap(x, y)
	c.zoom = math.Min(maxZoom, math.Max(minZoom, c.zoom*math.Pow(zoomStep, wheel)))
	c.offX = mx - x/c.zoom
	c.offY = my - y/c.zoom
	c.clamp()
}

func (c *camera) pan(dx, dy float64) {
	c.offX += dx * panStep / c.zoom
	c.offY += dy * panStep / c.zoom
	c.clamp()
}

func (c *camera) toMap(x, y float64) (float64, float64) {
	return c.offX + x/c.zoom, c.offY + y/c.zoom
}

func (c *camera) clamp() {
	maxX := c.mapW - c.viewW/c.zoom
	maxY := c.mapH - c.viewH/c.zoom
	c.offX = math.Max(0, math.Min(c.offX, maxX))
	c.offY = math.Max(0, math.Min(c.offY, maxY))
}
