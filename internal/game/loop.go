// internal/game/loop.go
//
// Loop is the single logical thread that owns a Session.
//
// Characteristics:
//   - Commands and timer ticks are handled one at a time, each to completion,
//     so a tick can never interleave with a half-processed dart.
//   - The one-second ticker only exists while the session is playing; leaving
//     playing stops it, and every new question restarts its phase.
//   - Readers (snapshots for the renderer) go through the same queue and never
//     race with logic.

package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Command runs against the session on the loop goroutine.
type Command func(ctx context.Context, s *Session) (any, error)

type request struct {
	cmd   Command
	reply chan response
}

type response struct {
	val any
	err error
}

// Loop serialises access to one Session.
type Loop struct {
	session  *Session
	interval time.Duration
	cmds     chan request

	// OnTick, if set, is called on the loop goroutine after each tick that
	// resolved a question by timeout.
	OnTick func(Outcome)
}

// NewLoop wraps s. interval is the countdown step (one second in play).
func NewLoop(s *Session, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second
	}
	return &Loop{session: s, interval: interval, cmds: make(chan request)}
}

// Run enters the menu and processes commands until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.session.Menu(ctx)

	var (
		ticker *time.Ticker
		tickC  <-chan time.Time
		round  = l.session.Round()
	)
	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer stop()

	// sync starts, restarts, or cancels the ticker to match the session.
	sync := func() {
		if l.session.State() != StatePlaying {
			stop()
			return
		}
		switch {
		case ticker == nil:
			ticker = time.NewTicker(l.interval)
			tickC = ticker.C
		case l.session.Round() != round:
			ticker.Reset(l.interval)
		}
		round = l.session.Round()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tickC:
			out, err := l.session.Tick(ctx)
			if err != nil && !IsInvalidOperation(err) {
				log.Error().Err(err).Msg("tick")
			}
			if out != nil && l.OnTick != nil {
				l.OnTick(*out)
			}
			sync()
		case req := <-l.cmds:
			val, err := req.cmd(ctx, l.session)
			req.reply <- response{val: val, err: err}
			sync()
		}
	}
}

// Do runs cmd on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, cmd Command) (any, error) {
	reply := make(chan response, 1)
	select {
	case l.cmds <- request{cmd: cmd, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Call is Do with a typed result.
func Call[T any](ctx context.Context, l *Loop, fn func(ctx context.Context, s *Session) (T, error)) (T, error) {
	v, err := l.Do(ctx, func(ctx context.Context, s *Session) (any, error) {
		return fn(ctx, s)
	})
	t, _ := v.(T)
	return t, err
}

// Snapshot reads the session state through the queue.
func (l *Loop) Snapshot(ctx context.Context) (Snapshot, error) {
	return Call(ctx, l, func(_ context.Context, s *Session) (Snapshot, error) {
		return s.Snapshot(), nil
	})
}
