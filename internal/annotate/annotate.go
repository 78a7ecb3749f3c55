// Package annotate draws zone overlays. It sees zones only through the
// read-only View interface and has no hold on the counting core.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ayumu-h/zonewatch/internal/zone"
)

// View is the slice of a zone the annotator is allowed to see.
type View interface {
	Name() string
	Bounds() zone.Rect
	Value() int
}

// Style carries the drawing defaults from the configuration file.
type Style struct {
	Color        color.RGBA
	BoxThickness int
	TextOffset   image.Point
	TextScale    int
}

// glyph metrics of basicfont.Face7x13
const (
	glyphWidth    = 7
	glyphHeight   = 13
	glyphBaseline = 11
)

// Draw paints every zone's rectangle and "name: value" label onto dst.
func Draw(dst *image.RGBA, views []View, style Style) {
	for _, v := range views {
		r := v.Bounds()
		drawRect(dst, r, style.Color, style.BoxThickness)
		label := fmt.Sprintf("%s: %d", v.Name(), v.Value())
		org := image.Pt(r.X1+style.TextOffset.X, r.Y1+style.TextOffset.Y)
		drawLabel(dst, org, label, style.Color, style.TextScale)
	}
}

// Render synthesizes a canvas of the given size and draws the zones on
// it. Used for overlay snapshots when no video frame is available.
func Render(width, height int, views []View, style Style) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.RGBA{R: 24, G: 24, B: 24, A: 255}), image.Point{}, draw.Src)
	Draw(canvas, views, style)
	return canvas
}

func drawRect(dst *image.RGBA, r zone.Rect, col color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	u := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.X1, r.Y1, r.X2+1, r.Y1+thickness),     // top
		image.Rect(r.X1, r.Y2+1-thickness, r.X2+1, r.Y2+1), // bottom
		image.Rect(r.X1, r.Y1, r.X1+thickness, r.Y2+1),     // left
		image.Rect(r.X2+1-thickness, r.Y1, r.X2+1, r.Y2+1), // right
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), u, image.Point{}, draw.Over)
	}
}

func drawLabel(dst *image.RGBA, org image.Point, text string, col color.RGBA, scale int) {
	if text == "" {
		return
	}
	if scale < 1 {
		scale = 1
	}

	w := glyphWidth * len(text)
	src := image.NewRGBA(image.Rect(0, 0, w, glyphHeight))
	d := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, glyphBaseline),
	}
	d.DrawString(text)

	target := image.Rect(org.X, org.Y, org.X+w*scale, org.Y+glyphHeight*scale)
	xdraw.NearestNeighbor.Scale(dst, target, src, src.Bounds(), xdraw.Over, nil)
}
