// internal/board/resolve.go
//
// Geometry resolver: maps a point on the board to a scored dart.
//
// Coordinates use the pointer convention of the client canvas: x grows to the
// right, y grows downward, origin at the board centre. Segment 0 (the 20) is
// centred on the negative y axis, so the board reads clockwise on screen.
//
// A point at or beyond the board radius resolves to Miss. The HTTP host
// rejects such clicks before they reach a session, so in play a miss only ever
// comes from the explicit miss command.

package board

import "math"

// Point is a position relative to the board centre.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance from the centre.
func (p Point) Distance() float64 { return math.Hypot(p.X, p.Y) }

// OffBoard is where a miss is drawn by the renderer.
var OffBoard = Point{X: -100, Y: -100}

// Resolve scores p on the standard board of the given radius.
func Resolve(p Point, radius float64) Dart { return Standard.Resolve(p, radius) }

// Resolve scores p on a board of the given outer radius.
func (l Layout) Resolve(p Point, radius float64) Dart {
	d := p.Distance()
	switch {
	case math.IsNaN(d) || radius <= 0 || d >= radius:
		return Miss()
	case d < l.BullseyeRatio*radius:
		return Bullseye()
	case d < l.OuterBullRatio*radius:
		return OuterBull()
	}

	base := l.Segments[l.SegmentIndex(p)]
	return Dart{Base: base, Multiplier: l.ring(d, radius), Kind: KindNumber}
}

// SegmentIndex returns the index into Segments of the wedge containing p.
func (l Layout) SegmentIndex(p Point) int {
	w := l.SegmentWidth()
	angle := math.Atan2(p.Y, p.X)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	// First wedge starts half a segment before the top.
	start := -w/2 - math.Pi/2
	adjusted := math.Mod(angle-start+2*math.Pi, 2*math.Pi)
	idx := int(adjusted / w)
	if idx >= len(l.Segments) {
		idx = len(l.Segments) - 1
	}
	return idx
}

// ring picks the multiplier for distance d; bands are open intervals.
func (l Layout) ring(d, radius float64) Multiplier {
	switch {
	case d > l.DoubleInner*radius && d < radius:
		return Double
	case d > l.TripleInner*radius && d < l.TripleOuter*radius:
		return Triple
	default:
		return Single
	}
}

// FromCanvas converts a click on a square canvas of side size (origin top-left)
// into a board-relative point and the board radius.
func FromCanvas(px, py, size float64) (Point, float64) {
	c := size / 2
	return Point{X: px - c, Y: py - c}, c
}

// Centre returns the board-relative point at distance frac·radius in the
// middle of segment idx. Handy for renderers and tests.
func (l Layout) Centre(idx int, frac, radius float64) Point {
	theta := float64(idx)*l.SegmentWidth() - math.Pi/2
	return Point{X: frac * radius * math.Cos(theta), Y: frac * radius * math.Sin(theta)}
}
