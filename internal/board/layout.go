// internal/board/layout.go
//
// Dartboard layout shared by the resolver and any rendering collaborator.
// Defines:
//   - Layout: segment ordering and ring thresholds (fractions of the board radius).
//   - Standard: the layout the game is played on.
//   - Domain/Finishes: the dart values the board can produce, used to precompute
//     reachable sums.
//
// Ring thresholds are open intervals; a point exactly on a boundary scores single.

package board

import (
	"fmt"
	"math"
)

// Layout holds every "magic" number of the board in one place.
type Layout struct {
	Segments       [20]int `json:"segments"`       // clockwise from the top segment
	BullseyeRatio  float64 `json:"bullseyeRatio"`  // d < ratio·r scores 50
	OuterBullRatio float64 `json:"outerBullRatio"` // d < ratio·r scores 25
	TripleInner    float64 `json:"tripleInner"`
	TripleOuter    float64 `json:"tripleOuter"`
	DoubleInner    float64 `json:"doubleInner"` // double ring runs to the board edge
}

// Standard is the board used by the game. The segment order is the fixed
// dartboard ordering, not derived from anything.
var Standard = Layout{
	Segments:       [20]int{20, 1, 18, 4, 13, 6, 10, 15, 2, 17, 3, 19, 7, 16, 8, 11, 14, 9, 12, 5},
	BullseyeRatio:  0.05,
	OuterBullRatio: 0.15,
	TripleInner:    0.5,
	TripleOuter:    0.6,
	DoubleInner:    0.92,
}

// SegmentWidth is the angular width of one segment in radians (π/10).
func (l Layout) SegmentWidth() float64 {
	return 2 * math.Pi / float64(len(l.Segments))
}

// Validate checks that the bands are ordered and disjoint and that the
// segments are exactly the numbers 1..20.
func (l Layout) Validate() error {
	bands := []float64{0, l.BullseyeRatio, l.OuterBullRatio, l.TripleInner, l.TripleOuter, l.DoubleInner, 1}
	for i := 1; i < len(bands); i++ {
		if bands[i] <= bands[i-1] {
			return fmt.Errorf("board: ring thresholds out of order at %v", bands[i])
		}
	}
	var seen [21]bool
	for _, n := range l.Segments {
		if n < 1 || n > 20 {
			return fmt.Errorf("board: segment %d out of range", n)
		}
		if seen[n] {
			return fmt.Errorf("board: segment %d repeated", n)
		}
		seen[n] = true
	}
	return nil
}

// Numbers returns the segment numbers in ascending order.
func (l Layout) Numbers() []int {
	var present [21]bool
	for _, n := range l.Segments {
		if n >= 1 && n <= 20 {
			present[n] = true
		}
	}
	out := make([]int, 0, len(l.Segments))
	for n := 1; n <= 20; n++ {
		if present[n] {
			out = append(out, n)
		}
	}
	return out
}

// Domain lists every value a single unconstrained dart can score: each
// number as single, the two bulls, each number doubled, each number tripled.
// The list has 62 entries on the standard board; values repeat (2 is both
// single 2 and double 1), which is harmless for set construction.
func (l Layout) Domain() []int {
	nums := l.Numbers()
	out := make([]int, 0, 3*len(nums)+2)
	out = append(out, nums...)
	out = append(out, OuterBullValue, BullseyeValue)
	for _, n := range nums {
		out = append(out, n*int(Double))
	}
	for _, n := range nums {
		out = append(out, n*int(Triple))
	}
	return out
}

// Finishes lists the values that satisfy the double-out rule: every double
// plus the bullseye. Singles and the outer bull are excluded.
func (l Layout) Finishes() []int {
	nums := l.Numbers()
	out := make([]int, 0, len(nums)+1)
	for _, n := range nums {
		out = append(out, n*int(Double))
	}
	return append(out, BullseyeValue)
}
