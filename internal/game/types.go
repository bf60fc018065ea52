// internal/game/types.go
//
// Core type definitions for the darts game session.
// Defines:
//   - State: menu / playing / game over.
//   - Throw: one recorded dart with its landing point.
//   - Outcome: the evaluated result of a submission or timeout.
//   - Snapshot: read-only copy of everything the renderer draws.

package game

import (
	"errors"

	"github.com/robalobadob/mathsdarts/internal/audio"
	"github.com/robalobadob/mathsdarts/internal/board"
	"github.com/robalobadob/mathsdarts/internal/reach"
)

// State is the coarse phase of a session.
type State string

const (
	StateMenu     State = "menu"
	StatePlaying  State = "playing"
	StateGameOver State = "game_over"
)

const (
	defaultRoundSeconds = 30
	defaultLives        = 3
	pointsPerCorrect    = 10
	streakForBonus      = 5
	dartsPerAttempt     = 3
)

// Invalid operations. Sessions leave state untouched when returning these.
var (
	ErrNotPlaying     = errors.New("game: not playing")
	ErrAlreadyPlaying = errors.New("game: run already in progress")
	ErrAttemptFull    = errors.New("game: three darts already thrown")
	ErrAttemptEmpty   = errors.New("game: no dart to undo")
	ErrIncomplete     = errors.New("game: submit needs three darts")
	ErrOffBoard       = errors.New("game: point is off the board")
)

// IsInvalidOperation reports whether err is one of the silent guardrail errors.
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrNotPlaying) ||
		errors.Is(err, ErrAlreadyPlaying) ||
		errors.Is(err, ErrAttemptFull) ||
		errors.Is(err, ErrAttemptEmpty) ||
		errors.Is(err, ErrIncomplete) ||
		errors.Is(err, ErrOffBoard)
}

// Throw is a recorded dart: where it landed and what it scored.
type Throw struct {
	Point board.Point `json:"point"`
	Dart  board.Dart  `json:"dart"`
	Value int         `json:"value"`
}

// Reason explains an incorrect outcome.
type Reason string

const (
	ReasonWrongSum    Reason = "wrong_sum"
	ReasonNoDoubleOut Reason = "no_double_out"
	ReasonTimeout     Reason = "timeout"
)

// Outcome is the single state transition applied for one evaluated question.
type Outcome struct {
	Correct      bool   `json:"correct"`
	Reason       Reason `json:"reason,omitempty"`
	Question     string `json:"question"`
	Target       int    `json:"target"`
	Sum          int    `json:"sum"`
	ScoreDelta   int    `json:"scoreDelta"`
	LifeGained   bool   `json:"lifeGained,omitempty"`
	GameOver     bool   `json:"gameOver,omitempty"`
	NewHighScore bool   `json:"newHighScore,omitempty"`
}

// Snapshot is what a renderer needs to draw one frame.
type Snapshot struct {
	RunID         string      `json:"runId,omitempty"`
	State         State       `json:"state"`
	Mode          reach.Mode  `json:"mode"`
	Question      string      `json:"question,omitempty"`
	Darts         []int       `json:"darts"`
	Throws        []Throw     `json:"throws"`
	Sum           int         `json:"sum"`
	Score         int         `json:"score"`
	Lives         int         `json:"lives"`
	Streak        int         `json:"streak"`
	TimeRemaining int         `json:"timeRemaining"`
	HighScore     int         `json:"highScore"`
	Muted         bool        `json:"muted"`
	Last          *Outcome    `json:"last,omitempty"`
	Cues          []audio.Cue `json:"cues,omitempty"`
}
