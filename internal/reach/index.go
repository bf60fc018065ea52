// internal/reach/index.go
//
// Reachable-sum index: which integers can be scored with exactly three darts.
//
// Responsibilities:
//   - Compute the set of three-dart sums for each scoring mode.
//   - Hold both sets in an explicitly constructed, read-only Index that is
//     shared by every session in the process.
//
// Lifecycle:
//   - NewIndex builds both sets eagerly; main does this once at startup.
//   - Default builds a process-wide Index lazily (sync.Once) for callers that
//     never construct one.
//   - Sets are never mutated after construction, so no locking is needed.

package reach

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/robalobadob/mathsdarts/internal/board"
)

// Mode is the scoring rule for a run.
type Mode string

const (
	Standard  Mode = "standard"
	DoubleOut Mode = "double_out"
)

// Modes lists every scoring mode.
var Modes = []Mode{Standard, DoubleOut}

// ParseMode accepts the wire names of the modes.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Standard, "":
		return Standard, nil
	case DoubleOut:
		return DoubleOut, nil
	}
	return "", fmt.Errorf("reach: unknown mode %q", s)
}

// ErrEmptySet means a mode has no reachable sums and no question can be asked.
var ErrEmptySet = errors.New("reach: reachable sum set is empty")

// Set is an immutable set of reachable sums.
type Set struct {
	sums   map[int]struct{}
	sorted []int
}

func newSet(sums map[int]struct{}) Set {
	sorted := make([]int, 0, len(sums))
	for v := range sums {
		sorted = append(sorted, v)
	}
	sort.Ints(sorted)
	return Set{sums: sums, sorted: sorted}
}

// Contains reports whether n is reachable.
func (s Set) Contains(n int) bool {
	_, ok := s.sums[n]
	return ok
}

// Len is the number of distinct reachable sums.
func (s Set) Len() int { return len(s.sorted) }

// Sorted returns the sums in ascending order. The slice is a copy.
func (s Set) Sorted() []int { return append([]int(nil), s.sorted...) }

// At returns the i-th smallest sum.
func (s Set) At(i int) int { return s.sorted[i] }

// Min and Max of the set; both are 0 for an empty set.
func (s Set) Min() int {
	if len(s.sorted) == 0 {
		return 0
	}
	return s.sorted[0]
}

func (s Set) Max() int {
	if len(s.sorted) == 0 {
		return 0
	}
	return s.sorted[len(s.sorted)-1]
}

// Compute enumerates every i+j+k where i and j range over the board's full
// domain and k ranges over the full domain (Standard) or over the doubles and
// bullseye (DoubleOut). Pure and deterministic.
func Compute(l board.Layout, mode Mode) Set {
	all := l.Domain()
	last := all
	if mode == DoubleOut {
		last = l.Finishes()
	}

	sums := make(map[int]struct{})
	for _, i := range all {
		for _, j := range all {
			for _, k := range last {
				sums[i+j+k] = struct{}{}
			}
		}
	}
	return newSet(sums)
}

// Index holds one Set per mode.
type Index struct {
	sets map[Mode]Set
}

// NewIndex computes the sets for every mode. It fails on an invalid layout or
// if any set comes out empty.
func NewIndex(l board.Layout) (*Index, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	idx := &Index{sets: make(map[Mode]Set, len(Modes))}
	for _, m := range Modes {
		s := Compute(l, m)
		if s.Len() == 0 {
			return nil, fmt.Errorf("mode %s: %w", m, ErrEmptySet)
		}
		idx.sets[m] = s
	}
	return idx, nil
}

// Set returns the reachable sums for mode. Unknown modes yield an empty Set.
func (x *Index) Set(mode Mode) Set {
	if x == nil {
		return Set{}
	}
	return x.sets[mode]
}

var (
	defaultOnce  sync.Once
	defaultIndex *Index
	defaultErr   error
)

// Default returns the process-wide index for the standard board, building it
// on first use.
func Default() (*Index, error) {
	defaultOnce.Do(func() {
		defaultIndex, defaultErr = NewIndex(board.Standard)
	})
	return defaultIndex, defaultErr
}
