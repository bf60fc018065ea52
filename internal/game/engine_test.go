package game_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mathsdarts/internal/audio"
	"github.com/robalobadob/mathsdarts/internal/board"
	"github.com/robalobadob/mathsdarts/internal/game"
	"github.com/robalobadob/mathsdarts/internal/question"
	"github.com/robalobadob/mathsdarts/internal/reach"
	"github.com/robalobadob/mathsdarts/internal/store"
)

// fixedGenerator always asks the same question.
type fixedGenerator struct {
	q   question.Question
	err error
}

func (g *fixedGenerator) Generate(reach.Mode) (question.Question, error) { return g.q, g.err }

var sixty = question.Question{Left: 40, Op: question.Add, Right: 20, Target: 60}

// failingStore errors on every call.
type failingStore struct{}

func (failingStore) HighScore(context.Context) (int, error)   { return 0, errors.New("disk gone") }
func (failingStore) SaveHighScore(context.Context, int) error { return errors.New("disk gone") }

func dart(t *testing.T, base int, m board.Multiplier) board.Dart {
	t.Helper()
	d, err := board.NewNumber(base, m)
	require.NoError(t, err)
	return d
}

func newSession(t *testing.T, q question.Question, st store.Store) (*game.Session, *audio.Recorder) {
	t.Helper()
	rec := &audio.Recorder{}
	s := game.NewSession(&fixedGenerator{q: q}, st, audio.NewGate(rec), game.Config{})
	s.Menu(context.Background())
	return s, rec
}

func throwAll(t *testing.T, s *game.Session, darts ...board.Dart) {
	t.Helper()
	for _, d := range darts {
		require.NoError(t, s.ThrowDart(board.Point{}, d))
	}
}

func TestStart_ResetsRun(t *testing.T) {
	s, _ := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))

	snap := s.Snapshot()
	assert.Equal(t, game.StatePlaying, snap.State)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, 3, snap.Lives)
	assert.Equal(t, 0, snap.Streak)
	assert.Equal(t, 30, snap.TimeRemaining)
	assert.Equal(t, "40 + 20", snap.Question)
	assert.Empty(t, snap.Darts)
	assert.NotEmpty(t, snap.RunID)

	assert.ErrorIs(t, s.Start(reach.Standard), game.ErrAlreadyPlaying)
}

func TestStart_ConfigurationErrorRefusesToPlay(t *testing.T) {
	gen := &fixedGenerator{err: question.ErrConfiguration}
	s := game.NewSession(gen, nil, nil, game.Config{})

	err := s.Start(reach.DoubleOut)
	assert.ErrorIs(t, err, question.ErrConfiguration)
	assert.Equal(t, game.StateMenu, s.State())
}

func TestSubmit_StandardCorrect(t *testing.T) {
	s, rec := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))

	s20 := dart(t, 20, board.Single)
	throwAll(t, s, s20, s20, s20)
	out, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Correct)
	assert.Equal(t, 60, out.Sum)
	assert.Equal(t, 10, s.Snapshot().Score)
	assert.Equal(t, 1, s.Snapshot().Streak)
	assert.Empty(t, s.Snapshot().Darts, "attempt cleared for the next question")
	assert.Equal(t, []audio.Cue{audio.CueDart, audio.CueDart, audio.CueDart, audio.CueCorrect}, rec.Drain())
}

func TestSubmit_DoubleOutNeedsDoubleFinish(t *testing.T) {
	fifty := question.Question{Left: 25, Op: question.Add, Right: 25, Target: 50}
	s, _ := newSession(t, fifty, nil)
	require.NoError(t, s.Start(reach.DoubleOut))

	require.NoError(t, s.ThrowDart(board.Point{}, board.OuterBull()))
	require.NoError(t, s.Miss())
	require.NoError(t, s.ThrowDart(board.Point{}, board.OuterBull()))
	out, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Correct)
	assert.Equal(t, game.ReasonNoDoubleOut, out.Reason)
	assert.Equal(t, 50, out.Sum)
	assert.Equal(t, 2, s.Snapshot().Lives)
}

func TestSubmit_DoubleOutFinishes(t *testing.T) {
	fifty := question.Question{Left: 25, Op: question.Add, Right: 25, Target: 50}

	s, _ := newSession(t, fifty, nil)
	require.NoError(t, s.Start(reach.DoubleOut))
	throwAll(t, s, dart(t, 5, board.Single), dart(t, 5, board.Single), dart(t, 20, board.Double))
	out, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Correct)

	// The bullseye counts as a double.
	require.NoError(t, s.Miss())
	require.NoError(t, s.Miss())
	require.NoError(t, s.ThrowDart(board.Point{}, board.Bullseye()))
	out, err = s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Correct)
}

// The double-out check looks at whichever dart was appended last, even after
// an undo reorders the throws.
func TestSubmit_DoubleOutUsesLastAppendedDart(t *testing.T) {
	q := question.Question{Left: 30, Op: question.Add, Right: 20, Target: 50}
	s, _ := newSession(t, q, nil)
	require.NoError(t, s.Start(reach.DoubleOut))

	throwAll(t, s, dart(t, 20, board.Double), dart(t, 5, board.Single))
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	throwAll(t, s, dart(t, 5, board.Single), dart(t, 5, board.Single), dart(t, 20, board.Double))

	out, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Correct)
}

func TestSubmit_WrongSum(t *testing.T) {
	s, rec := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))

	throwAll(t, s, dart(t, 20, board.Single), dart(t, 20, board.Single), dart(t, 19, board.Single))
	out, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Correct)
	assert.Equal(t, game.ReasonWrongSum, out.Reason)
	assert.Equal(t, 2, s.Snapshot().Lives)
	assert.Equal(t, 0, s.Snapshot().Score)
	assert.Contains(t, rec.Drain(), audio.CueIncorrect)
}

func TestInvalidOperationsAreNoOps(t *testing.T) {
	s, _ := newSession(t, sixty, nil)

	assert.ErrorIs(t, s.Miss(), game.ErrNotPlaying)
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, game.ErrNotPlaying)

	require.NoError(t, s.Start(reach.Standard))
	assert.ErrorIs(t, s.Undo(), game.ErrAttemptEmpty)

	throwAll(t, s, dart(t, 20, board.Single), dart(t, 20, board.Single))
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, game.ErrIncomplete)
	assert.True(t, game.IsInvalidOperation(err))

	throwAll(t, s, dart(t, 20, board.Single))
	assert.ErrorIs(t, s.Miss(), game.ErrAttemptFull)
	assert.Equal(t, []int{20, 20, 20}, s.Snapshot().Darts)
	assert.Equal(t, 3, s.Snapshot().Lives)
}

func TestUndoRestoresPriorAttempt(t *testing.T) {
	s, _ := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))
	throwAll(t, s, dart(t, 7, board.Triple))
	before := s.Snapshot().Throws

	throwAll(t, s, dart(t, 13, board.Double))
	require.NoError(t, s.Undo())
	assert.Equal(t, before, s.Snapshot().Throws)
}

func TestThrow_ResolvesPointer(t *testing.T) {
	s, _ := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))

	d, err := s.Throw(board.Point{X: 0, Y: -55}, 100)
	require.NoError(t, err)
	assert.Equal(t, 60, d.Value())

	_, err = s.Throw(board.Point{X: 0, Y: -150}, 100)
	assert.ErrorIs(t, err, game.ErrOffBoard)

	snap := s.Snapshot()
	require.Len(t, snap.Throws, 1)
	assert.Equal(t, board.Point{X: 0, Y: -55}, snap.Throws[0].Point)
}

func TestThrow_FullAttemptReturnsNoDart(t *testing.T) {
	s, _ := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))
	throwAll(t, s, dart(t, 1, board.Single), dart(t, 1, board.Single), dart(t, 1, board.Single))

	d, err := s.Throw(board.Point{X: 0, Y: -55}, 100)
	assert.ErrorIs(t, err, game.ErrAttemptFull)
	assert.Equal(t, board.Dart{}, d)
	assert.Len(t, s.Snapshot().Darts, 3)
}

func TestGeneratorFailureMidRunCommitsHighScore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	gen := &fixedGenerator{q: sixty}
	s := game.NewSession(gen, st, nil, game.Config{})
	s.Menu(ctx)
	require.NoError(t, s.Start(reach.Standard))

	gen.err = question.ErrConfiguration
	throwAll(t, s, dart(t, 20, board.Triple), board.Miss(), board.Miss())
	out, err := s.Submit(ctx)
	assert.ErrorIs(t, err, question.ErrConfiguration)
	assert.True(t, out.Correct)

	assert.Equal(t, game.StateGameOver, s.State())
	assert.Equal(t, 10, s.Snapshot().HighScore)
	hs, err := st.HighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, hs)
}

func TestMiss_RecordedOffBoard(t *testing.T) {
	s, _ := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))
	require.NoError(t, s.Miss())

	snap := s.Snapshot()
	assert.Equal(t, []int{0}, snap.Darts)
	assert.Equal(t, board.OffBoard, snap.Throws[0].Point)
}

func TestStreakAwardsLife(t *testing.T) {
	s, _ := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))

	s20 := dart(t, 20, board.Single)
	for i := 1; i <= 5; i++ {
		throwAll(t, s, s20, s20, s20)
		out, err := s.Submit(context.Background())
		require.NoError(t, err)
		require.True(t, out.Correct)
		assert.LessOrEqual(t, s.Snapshot().Streak, 4)
		assert.Equal(t, i == 5, out.LifeGained)
	}

	snap := s.Snapshot()
	assert.Equal(t, 4, snap.Lives)
	assert.Equal(t, 0, snap.Streak)
	assert.Equal(t, 50, snap.Score)
}

func TestIncorrectResetsStreak(t *testing.T) {
	s, _ := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))

	s20 := dart(t, 20, board.Single)
	for i := 0; i < 4; i++ {
		throwAll(t, s, s20, s20, s20)
		_, err := s.Submit(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, 4, s.Snapshot().Streak)

	throwAll(t, s, s20, s20, board.Miss())
	_, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Snapshot().Streak)
	assert.Equal(t, 2, s.Snapshot().Lives)
}

func TestTick_TimeoutOnLastLifeEndsRun(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveHighScore(ctx, 5))

	s, _ := newSession(t, sixty, st)
	require.NoError(t, s.Start(reach.Standard))

	// Score once, then burn two lives on wrong answers.
	s20 := dart(t, 20, board.Single)
	throwAll(t, s, s20, s20, s20)
	_, err := s.Submit(ctx)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		require.NoError(t, s.Miss())
		require.NoError(t, s.Miss())
		require.NoError(t, s.Miss())
		_, err := s.Submit(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 1, s.Snapshot().Lives)

	for i := 0; i < 29; i++ {
		out, err := s.Tick(ctx)
		require.NoError(t, err)
		require.Nil(t, out)
	}
	assert.Equal(t, 1, s.Snapshot().TimeRemaining)

	out, err := s.Tick(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, game.ReasonTimeout, out.Reason)
	assert.True(t, out.GameOver)
	assert.True(t, out.NewHighScore)

	snap := s.Snapshot()
	assert.Equal(t, game.StateGameOver, snap.State)
	assert.Equal(t, 0, snap.Lives)
	assert.Equal(t, 10, snap.HighScore)
	hs, err := st.HighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, hs)

	_, err = s.Tick(ctx)
	assert.ErrorIs(t, err, game.ErrNotPlaying)
}

func TestGameOver_KeepsHigherStoredScore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveHighScore(ctx, 500))

	s, _ := newSession(t, sixty, st)
	require.NoError(t, s.Start(reach.Standard))
	for s.State() == game.StatePlaying {
		require.NoError(t, s.Miss())
		require.NoError(t, s.Miss())
		require.NoError(t, s.Miss())
		_, err := s.Submit(ctx)
		require.NoError(t, err)
	}
	assert.False(t, s.Snapshot().Last.NewHighScore)
	hs, _ := st.HighScore(ctx)
	assert.Equal(t, 500, hs)
	assert.Equal(t, 500, s.Snapshot().HighScore)
}

func TestGameOver_StoreFailureDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	s := game.NewSession(&fixedGenerator{q: sixty}, failingStore{}, nil, game.Config{StartingLives: 1})
	s.Menu(ctx)
	require.NoError(t, s.Start(reach.Standard))

	s20 := dart(t, 20, board.Single)
	throwAll(t, s, s20, s20, s20)
	_, err := s.Submit(ctx)
	require.NoError(t, err)
	throwAll(t, s, s20, s20, s20)
	_, err = s.Submit(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Miss())
	require.NoError(t, s.Miss())
	require.NoError(t, s.Miss())
	out, err := s.Submit(ctx)
	require.NoError(t, err)

	assert.True(t, out.GameOver)
	assert.Equal(t, game.StateGameOver, s.State())
	assert.Equal(t, 20, s.Snapshot().HighScore)
}

func TestReplayAfterGameOver(t *testing.T) {
	ctx := context.Background()
	s := game.NewSession(&fixedGenerator{q: sixty}, nil, nil, game.Config{StartingLives: 1})
	s.Menu(ctx)
	require.NoError(t, s.Start(reach.Standard))
	first := s.Snapshot().RunID

	require.NoError(t, s.Miss())
	require.NoError(t, s.Miss())
	require.NoError(t, s.Miss())
	_, err := s.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, game.StateGameOver, s.State())

	require.NoError(t, s.Start(reach.DoubleOut))
	snap := s.Snapshot()
	assert.Equal(t, game.StatePlaying, snap.State)
	assert.Equal(t, reach.DoubleOut, snap.Mode)
	assert.Equal(t, 1, snap.Lives)
	assert.Nil(t, snap.Last)
	assert.NotEqual(t, first, snap.RunID)
}

func TestToggleMute(t *testing.T) {
	s, rec := newSession(t, sixty, nil)
	require.NoError(t, s.Start(reach.Standard))

	assert.True(t, s.ToggleMute())
	require.NoError(t, s.Miss())
	assert.Empty(t, rec.Drain())
	assert.True(t, s.Snapshot().Muted)

	assert.False(t, s.ToggleMute())
	require.NoError(t, s.Miss())
	assert.Equal(t, []audio.Cue{audio.CueDart}, rec.Drain())
}

func TestMenu_ReadsHighScore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveHighScore(ctx, 70))

	s, _ := newSession(t, sixty, st)
	assert.Equal(t, 70, s.Snapshot().HighScore)
	assert.Equal(t, game.StateMenu, s.Snapshot().State)
	assert.Empty(t, s.Snapshot().Question)
}
