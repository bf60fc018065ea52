// internal/game/engine.go
//
// Session state machine for a single player.
// Responsibilities:
//   - Start runs in a scoring mode and ask reachable questions.
//   - Collect darts (throw / miss / undo) for the current question.
//   - Evaluate submissions and timeouts atomically into one Outcome.
//   - Track score, lives, streak bonus, and the countdown.
//   - Commit the high score on game over.
//
// State transitions:
//   menu → playing            Start
//   playing → playing         darts, correct answers, incorrect answers with lives left
//   playing → game_over       incorrect answer (or timeout) on the last life
//   game_over → playing       Start (replay)
//   any → menu                Menu
//
// A Session is not safe for concurrent use; Loop serialises all access.

package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mathsdarts/internal/audio"
	"github.com/robalobadob/mathsdarts/internal/board"
	"github.com/robalobadob/mathsdarts/internal/question"
	"github.com/robalobadob/mathsdarts/internal/reach"
	"github.com/robalobadob/mathsdarts/internal/store"
)

// Generator produces the next question for a mode.
type Generator interface {
	Generate(mode reach.Mode) (question.Question, error)
}

// Config holds the rules of a run. Zero fields take the defaults.
type Config struct {
	RoundSeconds  int          // countdown per question (30)
	StartingLives int          // lives at start (3)
	Layout        board.Layout // board used to resolve pointer events
}

func (c Config) withDefaults() Config {
	if c.RoundSeconds <= 0 {
		c.RoundSeconds = defaultRoundSeconds
	}
	if c.StartingLives <= 0 {
		c.StartingLives = defaultLives
	}
	if c.Layout == (board.Layout{}) {
		c.Layout = board.Standard
	}
	return c
}

// Session is one player's game.
type Session struct {
	cfg   Config
	gen   Generator
	store store.Store
	sfx   *audio.Gate

	runID         string
	state         State
	mode          reach.Mode
	score         int
	lives         int
	streak        int
	timeRemaining int
	highScore     int
	round         int // bumps on every new question
	question      question.Question
	attempt       Attempt
	last          *Outcome
}

// NewSession constructs a session in the menu. sfx may be nil.
func NewSession(gen Generator, st store.Store, sfx *audio.Gate, cfg Config) *Session {
	if st == nil {
		st = store.NewMemoryStore()
	}
	return &Session{
		cfg:   cfg.withDefaults(),
		gen:   gen,
		store: st,
		sfx:   sfx,
		state: StateMenu,
		mode:  reach.Standard,
	}
}

// Menu returns to the menu and reads the persisted high score.
// Read failures fall back to the value already held.
func (s *Session) Menu(ctx context.Context) {
	s.state = StateMenu
	s.attempt.Reset()
	hs, err := s.store.HighScore(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("read high score")
		return
	}
	s.highScore = hs
}

// Start begins a run in mode from the menu or after game over. If no question
// can be generated the session stays where it was and the error is returned.
func (s *Session) Start(mode reach.Mode) error {
	if s.state == StatePlaying {
		return ErrAlreadyPlaying
	}
	q, err := s.gen.Generate(mode)
	if err != nil {
		return fmt.Errorf("start %s: %w", mode, err)
	}

	s.runID = uuid.NewString()
	s.state = StatePlaying
	s.mode = mode
	s.score = 0
	s.lives = s.cfg.StartingLives
	s.streak = 0
	s.last = nil
	s.setQuestion(q)

	log.Info().Str("run", s.runID).Str("mode", string(mode)).Msg("run started")
	return nil
}

// Throw resolves a pointer position on a board of the given radius and
// records the dart. Off-board points are rejected.
func (s *Session) Throw(p board.Point, radius float64) (board.Dart, error) {
	if s.state != StatePlaying {
		return board.Dart{}, ErrNotPlaying
	}
	d := s.cfg.Layout.Resolve(p, radius)
	if d.Kind == board.KindMiss {
		return board.Dart{}, ErrOffBoard
	}
	if err := s.ThrowDart(p, d); err != nil {
		return board.Dart{}, err
	}
	return d, nil
}

// ThrowDart records an already scored dart.
func (s *Session) ThrowDart(p board.Point, d board.Dart) error {
	if s.state != StatePlaying {
		return ErrNotPlaying
	}
	if err := s.attempt.Throw(p, d); err != nil {
		return err
	}
	s.sfx.Fire(audio.CueDart)
	return nil
}

// Miss records a zero-value dart.
func (s *Session) Miss() error {
	if s.state != StatePlaying {
		return ErrNotPlaying
	}
	if err := s.attempt.Miss(); err != nil {
		return err
	}
	s.sfx.Fire(audio.CueDart)
	return nil
}

// Undo removes the last dart.
func (s *Session) Undo() error {
	if s.state != StatePlaying {
		return ErrNotPlaying
	}
	return s.attempt.Undo()
}

// Submit evaluates a complete attempt against the current question.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	if s.state != StatePlaying {
		return Outcome{}, ErrNotPlaying
	}
	if !s.attempt.Complete() {
		return Outcome{}, ErrIncomplete
	}

	switch {
	case s.attempt.Sum() != s.question.Target:
		return s.incorrect(ctx, ReasonWrongSum)
	case s.mode == reach.DoubleOut && !s.attempt.DoubleOutFinish():
		return s.incorrect(ctx, ReasonNoDoubleOut)
	default:
		return s.correct(ctx)
	}
}

// Tick advances the countdown by one second. When it runs out the question
// is failed exactly as a wrong submission would be; the outcome is returned.
func (s *Session) Tick(ctx context.Context) (*Outcome, error) {
	if s.state != StatePlaying {
		return nil, ErrNotPlaying
	}
	s.timeRemaining--
	if s.timeRemaining > 0 {
		return nil, nil
	}
	out, err := s.incorrect(ctx, ReasonTimeout)
	return &out, err
}

// ToggleMute flips the sound flag. No effect on game state.
func (s *Session) ToggleMute() bool {
	if s.sfx == nil {
		return false
	}
	return s.sfx.Toggle()
}

func (s *Session) correct(ctx context.Context) (Outcome, error) {
	out := s.outcome()
	out.Correct = true
	out.ScoreDelta = pointsPerCorrect

	s.score += pointsPerCorrect
	s.streak++
	if s.streak >= streakForBonus {
		s.lives++
		s.streak = 0
		out.LifeGained = true
	}
	s.sfx.Fire(audio.CueCorrect)
	s.last = &out

	if err := s.nextQuestion(ctx); err != nil {
		return out, err
	}
	return out, nil
}

func (s *Session) incorrect(ctx context.Context, reason Reason) (Outcome, error) {
	out := s.outcome()
	out.Reason = reason

	s.lives--
	s.streak = 0
	s.sfx.Fire(audio.CueIncorrect)

	if s.lives <= 0 {
		s.lives = 0
		out.GameOver = true
		out.NewHighScore = s.gameOver(ctx)
		s.last = &out
		return out, nil
	}
	s.last = &out
	if err := s.nextQuestion(ctx); err != nil {
		return out, err
	}
	return out, nil
}

// outcome captures the question being resolved before any state changes.
func (s *Session) outcome() Outcome {
	return Outcome{
		Question: s.question.String(),
		Target:   s.question.Target,
		Sum:      s.attempt.Sum(),
	}
}

// gameOver freezes the run and commits a beaten high score. Persistence
// failures are logged; the in-memory high score is updated regardless.
func (s *Session) gameOver(ctx context.Context) bool {
	s.state = StateGameOver
	s.attempt.Reset()
	s.timeRemaining = 0

	logger := log.With().Str("run", s.runID).Int("score", s.score).Logger()
	if s.score <= s.highScore {
		logger.Info().Msg("game over")
		return false
	}
	s.highScore = s.score
	if err := s.store.SaveHighScore(ctx, s.score); err != nil {
		logger.Warn().Err(err).Msg("save high score")
	}
	logger.Info().Msg("game over: new high score")
	return true
}

func (s *Session) nextQuestion(ctx context.Context) error {
	q, err := s.gen.Generate(s.mode)
	if err != nil {
		// Start already generated for this mode, so this means the
		// generator broke mid-run. End the run rather than ask nothing.
		log.Error().Err(err).Str("run", s.runID).Msg("generate question")
		s.gameOver(ctx)
		return err
	}
	s.setQuestion(q)
	return nil
}

func (s *Session) setQuestion(q question.Question) {
	s.question = q
	s.attempt.Reset()
	s.timeRemaining = s.cfg.RoundSeconds
	s.round++
}

// State returns the current phase.
func (s *Session) State() State { return s.state }

// RunID identifies the current run; empty before the first Start.
func (s *Session) RunID() string { return s.runID }

// Round increments each time a new question is asked.
func (s *Session) Round() int { return s.round }

// Question returns the current question.
func (s *Session) Question() question.Question { return s.question }

// Snapshot copies everything a renderer reads. It never mutates the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		RunID:         s.runID,
		State:         s.state,
		Mode:          s.mode,
		Darts:         s.attempt.Values(),
		Throws:        s.attempt.Throws(),
		Sum:           s.attempt.Sum(),
		Score:         s.score,
		Lives:         s.lives,
		Streak:        s.streak,
		TimeRemaining: s.timeRemaining,
		HighScore:     s.highScore,
		Muted:         s.sfx != nil && s.sfx.Muted(),
	}
	if s.state == StatePlaying {
		snap.Question = s.question.String()
	}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	return snap
}
