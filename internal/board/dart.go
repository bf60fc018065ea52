// internal/board/dart.go
//
// Scored dart values.
// A Dart is a base board value plus a multiplier. Only numbered segments can
// be doubled or tripled; the bulls always score single.

package board

import (
	"fmt"
	"strconv"
)

// Kind tags what part of the board a dart landed in.
type Kind string

const (
	KindNumber    Kind = "number"
	KindOuterBull Kind = "outer_bull"
	KindBullseye  Kind = "bullseye"
	KindMiss      Kind = "miss"
)

// Multiplier is the ring factor applied to a numbered segment.
type Multiplier int

const (
	Single Multiplier = 1
	Double Multiplier = 2
	Triple Multiplier = 3
)

const (
	MissValue      = 0
	OuterBullValue = 25
	BullseyeValue  = 50
)

// Dart is a scored dart.
type Dart struct {
	Base       int        `json:"base"`
	Multiplier Multiplier `json:"multiplier"`
	Kind       Kind       `json:"kind"`
}

// NewNumber builds a dart on a numbered segment.
func NewNumber(base int, m Multiplier) (Dart, error) {
	if base < 1 || base > 20 {
		return Dart{}, fmt.Errorf("board: base %d out of range", base)
	}
	if m < Single || m > Triple {
		return Dart{}, fmt.Errorf("board: multiplier %d out of range", m)
	}
	return Dart{Base: base, Multiplier: m, Kind: KindNumber}, nil
}

// OuterBull is the 25 ring.
func OuterBull() Dart { return Dart{Base: OuterBullValue, Multiplier: Single, Kind: KindOuterBull} }

// Bullseye is the 50 centre.
func Bullseye() Dart { return Dart{Base: BullseyeValue, Multiplier: Single, Kind: KindBullseye} }

// Miss is a dart that scored nothing.
func Miss() Dart { return Dart{Base: MissValue, Multiplier: Single, Kind: KindMiss} }

// Value is base × multiplier.
func (d Dart) Value() int { return d.Base * int(d.Multiplier) }

// IsDouble reports whether the dart landed in the double ring.
func (d Dart) IsDouble() bool { return d.Kind == KindNumber && d.Multiplier == Double }

// IsBullseye reports whether the dart hit the 50.
func (d Dart) IsBullseye() bool { return d.Kind == KindBullseye }

// String renders the usual darts shorthand: S20, D20, T20, 25, 50, miss.
func (d Dart) String() string {
	switch d.Kind {
	case KindNumber:
		prefix := "S"
		switch d.Multiplier {
		case Double:
			prefix = "D"
		case Triple:
			prefix = "T"
		}
		return prefix + strconv.Itoa(d.Base)
	case KindOuterBull, KindBullseye:
		return strconv.Itoa(d.Base)
	default:
		return "miss"
	}
}
