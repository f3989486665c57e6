package mapview

import "math"

// Projection maps lat/lng onto a Mollweide plane centred in a Width x Height canvas.
type Projection struct {
	Width, Height float64
	Scale         float64
}

// NewProjection returns a projection for the canvas. A scale <= 0 fits the
// whole globe horizontally with a small margin.
func NewProjection(width, height, scale float64) Projection {
	if scale <= 0 {
		scale = width / (4 * math.Sqrt2) * 0.95
	}
	return Projection{Width: width, Height: height, Scale: scale}
}

func (p Projection) Project(lat, lng float64) (x, y float64) {
	if lat > 89.5 {
		lat = 89.5
	}
	if lat < -89.5 {
		lat = -89.5
	}

	latRad, lngRad := lat*math.Pi/180, lng*math.Pi/180
	theta := latRad
	for i := 0; i < 10; i++ {
		denom := 2 + 2*math.Cos(2*theta)
		if math.Abs(denom) < 1e-9 {
			break
		}
		delta := (2*theta + math.Sin(2*theta) - math.Pi*math.Sin(latRad)) / denom
		theta -= delta
		if math.Abs(delta) < 1e-7 {
			break
		}
	}
	r := p.Scale
	x = (p.Width / 2) + r*(2*math.Sqrt(2)/math.Pi)*lngRad*math.Cos(theta)
	y = (p.Height / 2) - r*math.Sqrt(2)*math.Sin(theta)
	return x, y
}
