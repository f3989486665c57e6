// Package viewer shows a rendered map in a local window.
package viewer

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/sudorandom/flightnet/pkg/logger"
)

// Viewer is an ebiten.Game that displays a static map image. The mouse wheel
// zooms, arrow keys pan, Escape closes the window.
type Viewer struct {
	img    *image.RGBA
	tex    *ebiten.Image
	cam    *camera
	log    logger.Logger
	Width  int
	Height int
}

func New(img *image.RGBA, log logger.Logger) *Viewer {
	b := img.Bounds()
	return &Viewer{
		img:    img,
		cam:    newCamera(b.Dx(), b.Dy()),
		log:    log,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}

func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		x, y := ebiten.CursorPosition()
		v.cam.zoomAt(float64(x), float64(y), wy)
	}
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy++
	}
	if dx != 0 || dy != 0 {
		v.cam.pan(dx, dy)
	}
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.tex == nil {
		v.tex = ebiten.NewImageFromImage(v.img)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-v.cam.offX, -v.cam.offY)
	op.GeoM.Scale(v.cam.zoom, v.cam.zoom)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(v.tex, op)
}

func (v *Viewer) Layout(w, h int) (int, int) { return v.Width, v.Height }

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run(title string, windowWidth, windowHeight int) error {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	v.log.Info("Opening viewer", "width", v.Width, "height", v.Height)
	if err := ebiten.RunGame(v); err != nil {
		return err
	}
	v.log.Info("Viewer closed")
	return nil
}
