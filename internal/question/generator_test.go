package question_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mathsdarts/internal/board"
	"github.com/robalobadob/mathsdarts/internal/question"
	"github.com/robalobadob/mathsdarts/internal/reach"
)

// scriptedRNG returns values from a pre-set sequence, wrapped into [0, n).
type scriptedRNG struct {
	values []int
	idx    int
}

func (r *scriptedRNG) IntN(n int) int {
	v := r.values[r.idx%len(r.values)] % n
	r.idx++
	return v
}

type fixedRNG struct{ val int }

func (r fixedRNG) IntN(n int) int { return r.val % n }

// emptySets reports no reachable sums for any mode.
type emptySets struct{}

func (emptySets) Set(reach.Mode) reach.Set { return reach.Set{} }

func testIndex(t *testing.T) *reach.Index {
	t.Helper()
	idx, err := reach.NewIndex(board.Standard)
	require.NoError(t, err)
	return idx
}

func TestGenerate_TargetsAlwaysReachable(t *testing.T) {
	idx := testIndex(t)
	g := question.NewGenerator(idx)

	for _, mode := range reach.Modes {
		set := idx.Set(mode)
		for i := 0; i < 2000; i++ {
			q, err := g.Generate(mode)
			require.NoError(t, err)
			require.True(t, set.Contains(q.Target), "mode %s: %s = %d", mode, q, q.Target)
			require.True(t, q.Valid(), "%s = %d", q, q.Target)
			if q.Op == question.Div {
				require.NotZero(t, q.Right)
				require.Zero(t, q.Left%q.Right, "%s", q)
			}
		}
	}
}

func TestGenerate_OperandRanges(t *testing.T) {
	g := question.NewGenerator(testIndex(t))
	for i := 0; i < 2000; i++ {
		q, err := g.Generate(reach.Standard)
		require.NoError(t, err)
		switch q.Op {
		case question.Add, question.Sub:
			assert.True(t, q.Left >= 1 && q.Left <= 50, "%s", q)
			assert.True(t, q.Right >= 1 && q.Right <= 50, "%s", q)
		case question.Mul:
			assert.True(t, q.Left >= 1 && q.Left <= 20, "%s", q)
			assert.True(t, q.Right >= 1 && q.Right <= 20, "%s", q)
		case question.Div:
			assert.True(t, q.Left >= 1 && q.Left <= 100, "%s", q)
			assert.True(t, q.Right >= 1 && q.Right <= 10, "%s", q)
		}
	}
}

func TestGenerate_ScriptedDivision(t *testing.T) {
	// op=÷, two ignored +/- operands, factors 6 and 4, divisor 4.
	rng := &scriptedRNG{values: []int{3, 0, 0, 5, 3, 3}}
	g := question.NewGenerator(testIndex(t), question.WithRNG(rng))

	q, err := g.Generate(reach.Standard)
	require.NoError(t, err)
	assert.Equal(t, question.Question{Left: 24, Op: question.Div, Right: 4, Target: 6}, q)
	assert.Equal(t, "24 ÷ 4", q.String())
}

func TestGenerate_ScriptedMultiplication(t *testing.T) {
	rng := &scriptedRNG{values: []int{2, 0, 0, 6, 2}}
	g := question.NewGenerator(testIndex(t), question.WithRNG(rng))

	q, err := g.Generate(reach.Standard)
	require.NoError(t, err)
	assert.Equal(t, question.Question{Left: 7, Op: question.Mul, Right: 3, Target: 21}, q)
}

func TestGenerate_RejectsNegativeDifference(t *testing.T) {
	// First draw is 1 - 10 = -9 (rejected), second is 20 + 20.
	rng := &scriptedRNG{values: []int{1, 0, 9, 0, 19, 19}}
	g := question.NewGenerator(testIndex(t), question.WithRNG(rng))

	q, err := g.Generate(reach.DoubleOut)
	require.NoError(t, err)
	assert.Equal(t, question.Question{Left: 20, Op: question.Add, Right: 20, Target: 40}, q)
}

func TestGenerate_EmptySetIsConfigurationError(t *testing.T) {
	g := question.NewGenerator(emptySets{})
	_, err := g.Generate(reach.Standard)
	assert.ErrorIs(t, err, question.ErrConfiguration)
	assert.ErrorIs(t, err, reach.ErrEmptySet)
}

func TestGenerate_FallbackWhenDrawsExhausted(t *testing.T) {
	// A constant 1 always draws "2 - 2 = 0", which is never reachable.
	g := question.NewGenerator(testIndex(t), question.WithRNG(fixedRNG{val: 1}), question.WithMaxDraws(5))

	q, err := g.Generate(reach.Standard)
	require.NoError(t, err)
	assert.Equal(t, question.Add, q.Op)
	assert.Equal(t, 1, q.Right)
	assert.Equal(t, q.Target-1, q.Left)
	assert.True(t, testIndex(t).Set(reach.Standard).Contains(q.Target))
}

func TestOperatorApply(t *testing.T) {
	_, ok := question.Div.Apply(7, 2)
	assert.False(t, ok)
	_, ok = question.Div.Apply(7, 0)
	assert.False(t, ok)
	v, ok := question.Sub.Apply(3, 5)
	assert.True(t, ok)
	assert.Equal(t, -2, v)
	assert.Equal(t, "", question.Question{}.String())
}
