// internal/audio/audio.go
//
// Audio boundary for the game.
// The core only fires three cues; playback belongs to whoever renders the game.
//
// Characteristics:
//   - Fire-and-forget: Play errors are logged and swallowed, never returned.
//   - A mute flag suppresses cues entirely.
//   - Recorder keeps the cues of the last transition so the browser client can
//     play them from the game snapshot.

package audio

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Cue names a sound effect.
type Cue string

const (
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
	CueDart      Cue = "dart"
)

// Player plays a cue. Implementations may fail; callers ignore the error.
type Player interface {
	Play(cue Cue) error
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(Cue) error

func (f PlayerFunc) Play(c Cue) error { return f(c) }

// Gate wraps a Player with a mute flag and best-effort semantics.
type Gate struct {
	player Player
	muted  bool
}

// NewGate returns an unmuted gate. A nil player discards cues.
func NewGate(p Player) *Gate { return &Gate{player: p} }

// Fire plays c unless muted. Failures are logged at debug level only.
func (g *Gate) Fire(c Cue) {
	if g == nil || g.muted || g.player == nil {
		return
	}
	if err := g.player.Play(c); err != nil {
		log.Debug().Err(err).Str("cue", string(c)).Msg("sfx play failed")
	}
}

// Toggle flips the mute flag and returns the new value.
func (g *Gate) Toggle() bool {
	g.muted = !g.muted
	return g.muted
}

// Muted reports the mute flag.
func (g *Gate) Muted() bool { return g.muted }

// LogPlayer records cues as structured log events.
type LogPlayer struct{}

func (LogPlayer) Play(c Cue) error {
	log.Debug().Str("cue", string(c)).Msg("sfx")
	return nil
}

// Recorder collects cues until drained. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

func (r *Recorder) Play(c Cue) error {
	r.mu.Lock()
	r.cues = append(r.cues, c)
	r.mu.Unlock()
	return nil
}

// Drain returns and clears the recorded cues.
func (r *Recorder) Drain() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.cues
	r.cues = nil
	return out
}

// Fanout plays each cue on every player and reports the first error.
type Fanout []Player

func (f Fanout) Play(c Cue) error {
	var first error
	for _, p := range f {
		if err := p.Play(c); err != nil && first == nil {
			first = err
		}
	}
	return first
}
