package annotate

import (
	"image"
	"image/color"
	"testing"

	"github.com/ayumu-h/zonewatch/internal/zone"
)

type fakeView struct {
	name   string
	bounds zone.Rect
	value  int
}

func (v fakeView) Name() string      { return v.name }
func (v fakeView) Bounds() zone.Rect { return v.bounds }
func (v fakeView) Value() int        { return v.value }

func testStyle() Style {
	return Style{
		Color:        color.RGBA{R: 0, G: 255, B: 0, A: 255},
		BoxThickness: 2,
		TextOffset:   image.Pt(5, 25),
		TextScale:    1,
	}
}

func TestDrawPaintsRectangleEdges(t *testing.T) {
	dst := Render(100, 100, []View{fakeView{name: "door", bounds: zone.Rect{X1: 10, Y1: 10, X2: 60, Y2: 60}}}, testStyle())

	green := color.RGBA{R: 0, G: 255, B: 0, A: 255}
	corners := []image.Point{{10, 10}, {60, 10}, {10, 60}, {60, 60}}
	for _, p := range corners {
		if got := dst.RGBAAt(p.X, p.Y); got != green {
			t.Fatalf("pixel %v = %v, want %v", p, got, green)
		}
	}

	// Interior stays the canvas color.
	bg := color.RGBA{R: 24, G: 24, B: 24, A: 255}
	if got := dst.RGBAAt(35, 50); got != bg {
		t.Fatalf("interior pixel = %v, want canvas %v", got, bg)
	}
}

func TestDrawPaintsLabel(t *testing.T) {
	style := testStyle()
	dst := Render(200, 200, []View{fakeView{name: "door", bounds: zone.Rect{X1: 20, Y1: 20, X2: 180, Y2: 180}, value: 3}}, style)

	// The label area must contain at least some colored pixels.
	found := false
	for y := 45; y < 58 && !found; y++ {
		for x := 25; x < 120 && !found; x++ {
			if dst.RGBAAt(x, y) == style.Color {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("no label pixels drawn")
	}
}

func TestDrawClipsOutOfBoundsZone(t *testing.T) {
	// A zone partly outside the canvas must not panic and must still
	// paint the visible portion.
	dst := Render(50, 50, []View{fakeView{name: "edge", bounds: zone.Rect{X1: 40, Y1: 40, X2: 90, Y2: 90}}}, testStyle())
	if got := dst.RGBAAt(45, 40); got != testStyle().Color {
		t.Fatalf("visible edge pixel = %v, want %v", got, testStyle().Color)
	}
}

func TestZoneSatisfiesView(t *testing.T) {
	var _ View = (*zone.Zone)(nil)
}
