// internal/question/generator.go
//
// Question generator.
// Responsibilities:
//   - Draw random arithmetic questions (rejection sampling).
//   - Accept only questions whose answer is reachable with three darts under
//     the run's scoring mode.
//
// Operand ranges:
//   - "+" and "-": both operands 1..50 (negative differences never match a set).
//   - "×": both operands redrawn from 1..20.
//   - "÷": dividend is a product of two factors 1..10, divisor 1..10, redrawn
//     until the division is exact.
//
// The sampling loop is capped at MaxDraws; on exhaustion a trivially reachable
// "(t-1) + 1" question is returned instead of spinning forever.

package question

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mathsdarts/internal/reach"
)

const (
	// DefaultMaxDraws bounds the rejection loop. Sets are dense over the
	// operand ranges, so real runs accept within a handful of draws.
	DefaultMaxDraws = 10000

	// divRedraws bounds the exact-division redraw; the divisor falls back to 1.
	divRedraws = 1000
)

// ErrConfiguration means no question can be produced for a mode.
var ErrConfiguration = errors.New("question: configuration error")

// RNG is the randomness the generator needs. IntN returns a value in [0, n).
type RNG interface {
	IntN(n int) int
}

// stdRNG delegates to math/rand (auto-seeded).
type stdRNG struct{}

func (stdRNG) IntN(n int) int { return rand.Intn(n) }

// Sets yields the reachable sums for a mode. *reach.Index implements it.
type Sets interface {
	Set(mode reach.Mode) reach.Set
}

// Generator produces questions. It is not safe for concurrent use when the
// RNG is not; the game loop owns one generator.
type Generator struct {
	sets     Sets
	rng      RNG
	maxDraws int
}

// Option configures a Generator.
type Option func(*Generator)

// WithRNG replaces the default math/rand source.
func WithRNG(r RNG) Option { return func(g *Generator) { g.rng = r } }

// WithMaxDraws overrides DefaultMaxDraws. Non-positive values are ignored.
func WithMaxDraws(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxDraws = n
		}
	}
}

// NewGenerator constructs a Generator over the given reachable sets.
func NewGenerator(sets Sets, opts ...Option) *Generator {
	g := &Generator{sets: sets, rng: stdRNG{}, maxDraws: DefaultMaxDraws}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns a question whose target is reachable under mode.
func (g *Generator) Generate(mode reach.Mode) (Question, error) {
	set := g.sets.Set(mode)
	if set.Len() == 0 {
		return Question{}, fmt.Errorf("%w: mode %q: %w", ErrConfiguration, mode, reach.ErrEmptySet)
	}

	for i := 0; i < g.maxDraws; i++ {
		q := g.draw()
		if set.Contains(q.Target) {
			return q, nil
		}
	}

	log.Warn().Str("mode", string(mode)).Int("draws", g.maxDraws).Msg("question draws exhausted; using fallback")
	return g.fallback(mode, set)
}

// draw makes one unfiltered random question.
func (g *Generator) draw() Question {
	op := Operators[g.rng.IntN(len(Operators))]
	a := g.between(1, 50)
	b := g.between(1, 50)

	switch op {
	case Mul:
		a = g.between(1, 20)
		b = g.between(1, 20)
	case Div:
		a = g.between(1, 10) * g.between(1, 10)
		b = g.between(1, 10)
		for tries := 0; a%b != 0; tries++ {
			if tries >= divRedraws {
				b = 1
				break
			}
			a = g.between(1, 10) * g.between(1, 10)
			b = g.between(1, 10)
		}
	}

	target, _ := op.Apply(a, b)
	return Question{Left: a, Op: op, Right: b, Target: target}
}

// fallback picks a reachable target t ≥ 2 and asks "(t-1) + 1".
func (g *Generator) fallback(mode reach.Mode, set reach.Set) (Question, error) {
	lo := 0
	for lo < set.Len() && set.At(lo) < 2 {
		lo++
	}
	if lo == set.Len() {
		return Question{}, fmt.Errorf("%w: mode %q has no target above 1", ErrConfiguration, mode)
	}
	t := set.At(lo + g.rng.IntN(set.Len()-lo))
	return Question{Left: t - 1, Op: Add, Right: 1, Target: t}, nil
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}
