package zone

import (
	"fmt"

	"github.com/ayumu-h/zonewatch/pkg/types"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned rectangle with inclusive bounds on all four
// edges: a position on the border counts as inside.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r Rect) contains(x, y float64) bool {
	return float64(r.X1) <= x && x <= float64(r.X2) &&
		float64(r.Y1) <= y && y <= float64(r.Y2)
}

// Spec describes one zone to construct. Corner pointers are nil when the
// configuration omitted them, which NewSet rejects. Smoothness 0 means
// "use the set default".
type Spec struct {
	Name        string
	TopLeft     *Point
	BottomRight *Point
	Smoothness  int
}

// Defaults carries zone construction defaults shared across a set.
type Defaults struct {
	Smoothness int
}

// Zone counts tracked-object positions inside one rectangle and smooths
// the count over a bounded window of recent frames. Geometry is fixed at
// construction.
type Zone struct {
	name    string
	rect    Rect
	count   int
	history *countRing
}

func newZone(spec Spec, defaults Defaults) (*Zone, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: zone with empty name", ErrInvalidZoneConfig)
	}
	if spec.TopLeft == nil || spec.BottomRight == nil {
		return nil, fmt.Errorf("%w: zone %q is missing a corner", ErrInvalidZoneConfig, spec.Name)
	}
	r := Rect{X1: spec.TopLeft.X, Y1: spec.TopLeft.Y, X2: spec.BottomRight.X, Y2: spec.BottomRight.Y}
	if r.X1 > r.X2 || r.Y1 > r.Y2 {
		return nil, fmt.Errorf("%w: zone %q has inverted corners (%d,%d)-(%d,%d)",
			ErrInvalidZoneConfig, spec.Name, r.X1, r.Y1, r.X2, r.Y2)
	}
	smoothness := spec.Smoothness
	if smoothness == 0 {
		smoothness = defaults.Smoothness
	}
	if smoothness < 1 {
		return nil, fmt.Errorf("%w: zone %q smoothness %d (must be >= 1)",
			ErrInvalidZoneConfig, spec.Name, smoothness)
	}
	return &Zone{
		name:    spec.Name,
		rect:    r,
		history: newCountRing(smoothness),
	}, nil
}

// Check increments the current-frame tally if the position falls inside
// the zone. Bounds are inclusive.
func (z *Zone) Check(pos types.Position) error {
	if !pos.Valid() {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidInput, pos.X, pos.Y)
	}
	z.hit(pos)
	return nil
}

func (z *Zone) hit(pos types.Position) {
	if z.rect.contains(pos.X, pos.Y) {
		z.count++
	}
}

// Update ends the current frame: the tally is pushed onto the history
// (evicting the oldest entry when the window is full) and reset to zero.
// Call exactly once per frame, after all Check calls for that frame.
func (z *Zone) Update() {
	z.history.push(z.count)
	z.count = 0
}

// Value returns the truncated integer mean of the history, 0 when no
// frame has been recorded yet.
func (z *Zone) Value() int {
	return z.history.mean()
}

// Name returns the zone identifier, used as the log column header.
func (z *Zone) Name() string { return z.name }

// Bounds returns the zone rectangle.
func (z *Zone) Bounds() Rect { return z.rect }

// History returns the smoothing window contents, oldest first.
func (z *Zone) History() []int { return z.history.values() }
