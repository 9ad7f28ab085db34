// Package testcard renders a synthetic frame source, for probing the
// converters without a camera.
package testcard

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const fontSize = 48.0

// Render draws three overlapping primary circles with title written
// across them.
func Render(w, h int, title string) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, xerror.Errorf("test card size %dx%d is invalid", w, h)
	}
	img := renderCanvas(w, h)
	if len(title) == 0 {
		return img, nil
	}
	if err := drawText(img, 5, h/2, title); err != nil {
		return nil, xerror.Errorf("unable to draw test card title: %w", err)
	}
	return img, nil
}

// Frame renders a test card and returns a frame aliasing its pixels.
func Frame(w, h int, title string) (*frame.Frame, error) {
	img, err := Render(w, h, title)
	if err != nil {
		return nil, err
	}
	return frame.FromRGBA(img), nil
}

func renderCanvas(w, h int) *image.RGBA {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := math.Min(hw, hh) / 2
	θ := 2 * math.Pi / 3
	radius := math.Min(hw, hh) * 1.5
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), radius}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), radius}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), radius}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, color.RGBA{
				cr.brightness(float64(x), float64(y)),
				cg.brightness(float64(x), float64(y)),
				cb.brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return img
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	face, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}
	drawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(face, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
	}
	bounds, _ := drawer.BoundString(text)
	textHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()
	drawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y + textHeight/2),
	}
	drawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	if math.Sqrt(dx*dx+dy*dy)/c.R > 1 {
		return 0
	}
	return 255
}
