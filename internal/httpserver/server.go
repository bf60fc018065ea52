// internal/httpserver/server.go
//
// HTTP host for the darts quiz.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/board", "/debug/reachable".
//   - Game endpoints: every input event is forwarded to the game loop as one
//     command and answered with the resulting snapshot.
//   - Player tokens: POST /game/start issues a JWT bound to the new run; the
//     throw/miss/undo/submit routes require it and reject tokens from older runs.
//
// Notes:
//   - Invalid operations (fourth dart, undo on empty, submit with < 3 darts,
//     input outside play) are answered 200 with "applied": false.
//   - Cues fired while handling a command are drained into that response;
//     cues fired by timer ticks go out on the next GET /game.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mathsdarts/internal/audio"
	"github.com/robalobadob/mathsdarts/internal/board"
	"github.com/robalobadob/mathsdarts/internal/game"
	"github.com/robalobadob/mathsdarts/internal/question"
	"github.com/robalobadob/mathsdarts/internal/reach"
)

var errStaleRun = errors.New("stale run")

// Options configures a Server.
type Options struct {
	TokenSecret  string
	ClientOrigin string
	Layout       board.Layout // zero value means board.Standard
}

// Server bundles router, game loop, and the read-only board tables.
type Server struct {
	r      *chi.Mux
	loop   *game.Loop
	cues   *audio.Recorder
	index  *reach.Index
	layout board.Layout
	secret []byte
}

// New constructs a Server, installs middleware, and registers routes.
// cues may be nil when the client does not need sound events.
func New(loop *game.Loop, cues *audio.Recorder, idx *reach.Index, opts Options) *Server {
	layout := opts.Layout
	if layout.Segments == ([20]int{}) {
		layout = board.Standard
	}
	origin := opts.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	s := &Server{
		r:      chi.NewRouter(),
		loop:   loop,
		cues:   cues,
		index:  idx,
		layout: layout,
		secret: []byte(opts.TokenSecret),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(origin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"mathsdarts","endpoints":["/health","/board","GET /game","POST /game/start","POST /game/throw"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/board", s.handleBoard)
	s.r.Get("/debug/reachable", s.handleReachable)

	s.r.Route("/game", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Post("/start", s.handleStart)
		r.Post("/menu", s.handleMenu)
		r.Post("/mute", s.handleMute)

		r.Group(func(r chi.Router) {
			r.Use(s.requirePlayer)
			r.Post("/throw", s.handleThrow)
			r.Post("/miss", s.handleMiss)
			r.Post("/undo", s.handleUndo)
			r.Post("/submit", s.handleSubmit)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ GAME ---------------------------------------

// commandRes is the body of every /game response.
type commandRes struct {
	Applied bool          `json:"applied"`
	Reason  string        `json:"reason,omitempty"`
	Token   string        `json:"token,omitempty"`
	Dart    *board.Dart   `json:"dart,omitempty"`
	Outcome *game.Outcome `json:"outcome,omitempty"`
	Muted   *bool         `json:"muted,omitempty"`
	Game    game.Snapshot `json:"game"`

	tokenExp time.Time
}

// exec runs fn on the game loop and writes the response. A run id carried by
// the request's player token must match the session's current run.
func (s *Server) exec(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, g *game.Session, res *commandRes) error) {
	run := runFromContext(r.Context())
	res, err := game.Call(r.Context(), s.loop, func(ctx context.Context, g *game.Session) (commandRes, error) {
		var res commandRes
		if run != "" && g.RunID() != run {
			return res, errStaleRun
		}
		err := fn(ctx, g, &res)
		switch {
		case err == nil:
			res.Applied = true
		case errors.Is(err, game.ErrOffBoard):
			return res, err
		case game.IsInvalidOperation(err):
			res.Reason = err.Error()
			err = nil
		}
		res.Game = g.Snapshot()
		if s.cues != nil {
			res.Game.Cues = s.cues.Drain()
		}
		return res, err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Token != "" {
		s.setTokenCookie(w, res.Token, res.tokenExp)
	}
	_ = json.NewEncoder(w).Encode(res)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errStaleRun):
		http.Error(w, `{"error":"stale_run"}`, http.StatusConflict)
	case errors.Is(err, game.ErrOffBoard):
		http.Error(w, `{"error":"off_board"}`, http.StatusUnprocessableEntity)
	case errors.Is(err, question.ErrConfiguration):
		log.Error().Err(err).Msg("question generation")
		http.Error(w, `{"error":"configuration_error"}`, http.StatusInternalServerError)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, `{"error":"unavailable"}`, http.StatusServiceUnavailable)
	default:
		log.Error().Err(err).Msg("game command")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}

// handleSnapshot is the renderer's poll. It also carries cues fired by timer
// ticks, which no command response would otherwise report.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := game.Call(r.Context(), s.loop, func(_ context.Context, g *game.Session) (game.Snapshot, error) {
		snap := g.Snapshot()
		if s.cues != nil {
			snap.Cues = s.cues.Drain()
		}
		return snap, nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// startReq is the payload for POST /game/start.
type startReq struct {
	Mode string `json:"mode"` // "standard" | "double_out"; empty means standard
}

// handleStart begins a run (or replays after game over) and issues a player
// token for whichever run is current afterwards.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	mode, err := reach.ParseMode(req.Mode)
	if err != nil {
		http.Error(w, `{"error":"bad_mode"}`, http.StatusBadRequest)
		return
	}
	s.exec(w, r, func(ctx context.Context, g *game.Session, res *commandRes) error {
		err := g.Start(mode)
		if run := g.RunID(); run != "" && g.State() == game.StatePlaying {
			tok, exp, terr := s.signToken(run)
			if terr != nil {
				return terr
			}
			res.Token, res.tokenExp = tok, exp
		}
		return err
	})
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	s.exec(w, r, func(ctx context.Context, g *game.Session, _ *commandRes) error {
		g.Menu(ctx)
		return nil
	})
}

func (s *Server) handleMute(w http.ResponseWriter, r *http.Request) {
	s.exec(w, r, func(_ context.Context, g *game.Session, res *commandRes) error {
		muted := g.ToggleMute()
		res.Muted = &muted
		return nil
	})
}

// throwReq is a pointer-down in canvas space: origin top-left, square canvas
// of side Size.
type throwReq struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

func (s *Server) handleThrow(w http.ResponseWriter, r *http.Request) {
	var req throwReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Size <= 0 {
		http.Error(w, `{"error":"bad_size"}`, http.StatusBadRequest)
		return
	}
	p, radius := board.FromCanvas(req.X, req.Y, req.Size)
	s.exec(w, r, func(_ context.Context, g *game.Session, res *commandRes) error {
		d, err := g.Throw(p, radius)
		if err == nil {
			res.Dart = &d
		}
		return err
	})
}

func (s *Server) handleMiss(w http.ResponseWriter, r *http.Request) {
	s.exec(w, r, func(_ context.Context, g *game.Session, _ *commandRes) error {
		return g.Miss()
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.exec(w, r, func(_ context.Context, g *game.Session, _ *commandRes) error {
		return g.Undo()
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.exec(w, r, func(ctx context.Context, g *game.Session, res *commandRes) error {
		out, err := g.Submit(ctx)
		if err == nil {
			res.Outcome = &out
		}
		return err
	})
}

// ------------------------------ BOARD --------------------------------------

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.layout)
}

type reachableRes struct {
	Mode  reach.Mode `json:"mode"`
	Count int        `json:"count"`
	Min   int        `json:"min"`
	Max   int        `json:"max"`
	Sums  []int      `json:"sums"`
}

func (s *Server) handleReachable(w http.ResponseWriter, r *http.Request) {
	mode, err := reach.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		http.Error(w, `{"error":"bad_mode"}`, http.StatusBadRequest)
		return
	}
	set := s.index.Set(mode)
	_ = json.NewEncoder(w).Encode(reachableRes{
		Mode:  mode,
		Count: set.Len(),
		Min:   set.Min(),
		Max:   set.Max(),
		Sums:  set.Sorted(),
	})
}
