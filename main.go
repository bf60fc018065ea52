package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/mathsdarts/internal/audio"
	"github.com/robalobadob/mathsdarts/internal/board"
	"github.com/robalobadob/mathsdarts/internal/config"
	"github.com/robalobadob/mathsdarts/internal/game"
	"github.com/robalobadob/mathsdarts/internal/httpserver"
	"github.com/robalobadob/mathsdarts/internal/question"
	"github.com/robalobadob/mathsdarts/internal/reach"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idx, err := reach.NewIndex(board.Standard)
	if err != nil {
		log.Fatal().Err(err).Msg("build reachable sums")
	}
	log.Info().
		Int("standard", idx.Set(reach.Standard).Len()).
		Int("doubleOut", idx.Set(reach.DoubleOut).Len()).
		Msg("reachable sums ready")

	st, db := openStore(ctx, cfg.DBPath)
	if db != nil {
		defer db.Close()
	}

	cues := &audio.Recorder{}
	sess := game.NewSession(
		question.NewGenerator(idx, question.WithMaxDraws(cfg.MaxDraws)),
		st,
		audio.NewGate(audio.Fanout{audio.LogPlayer{}, cues}),
		game.Config{RoundSeconds: cfg.RoundSeconds, StartingLives: cfg.StartingLives},
	)
	loop := game.NewLoop(sess, cfg.TickInterval)
	loop.OnTick = func(o game.Outcome) {
		log.Info().Str("question", o.Question).Int("lives", sess.Snapshot().Lives).Msg("time up")
	}

	srv := httpserver.New(loop, cues, idx, httpserver.Options{
		TokenSecret:  cfg.TokenSecret,
		ClientOrigin: cfg.ClientOrigin,
	})
	hs := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error {
		log.Info().Str("addr", hs.Addr).Msg("starting mathsdarts server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("bye")
}
