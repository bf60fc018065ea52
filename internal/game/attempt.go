// internal/game/attempt.go
//
// Attempt holds the up-to-three darts thrown at the current question.
// It only grows by appending (throw or miss) and shrinks by dropping the last
// dart (undo). The session clears it whenever a question is resolved.

package game

import "github.com/robalobadob/mathsdarts/internal/board"

// Attempt is the ordered list of darts for one question.
type Attempt struct {
	throws []Throw
}

// Throw appends a scored dart landing at p.
func (a *Attempt) Throw(p board.Point, d board.Dart) error {
	if len(a.throws) >= dartsPerAttempt {
		return ErrAttemptFull
	}
	a.throws = append(a.throws, Throw{Point: p, Dart: d, Value: d.Value()})
	return nil
}

// Miss appends a zero dart drawn off the board.
func (a *Attempt) Miss() error { return a.Throw(board.OffBoard, board.Miss()) }

// Undo drops the most recent dart.
func (a *Attempt) Undo() error {
	if len(a.throws) == 0 {
		return ErrAttemptEmpty
	}
	a.throws = a.throws[:len(a.throws)-1]
	return nil
}

// Reset clears all darts.
func (a *Attempt) Reset() { a.throws = a.throws[:0] }

// Len is the number of recorded darts.
func (a *Attempt) Len() int { return len(a.throws) }

// Complete reports whether all three darts are in.
func (a *Attempt) Complete() bool { return len(a.throws) == dartsPerAttempt }

// Sum of the recorded dart values.
func (a *Attempt) Sum() int {
	total := 0
	for _, t := range a.throws {
		total += t.Value
	}
	return total
}

// DoubleOutFinish reports whether the last appended dart is a double or the
// bullseye. Only meaningful once the attempt is complete.
func (a *Attempt) DoubleOutFinish() bool {
	if len(a.throws) == 0 {
		return false
	}
	last := a.throws[len(a.throws)-1].Dart
	return last.IsDouble() || last.IsBullseye()
}

// Values returns the recorded dart values in throw order.
func (a *Attempt) Values() []int {
	out := make([]int, len(a.throws))
	for i, t := range a.throws {
		out[i] = t.Value
	}
	return out
}

// Throws returns a copy of the recorded darts.
func (a *Attempt) Throws() []Throw {
	return append([]Throw{}, a.throws...)
}
