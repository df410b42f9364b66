// Package game drives a board in real time: it samples the latest direction
// once per tick, advances the board, renders it and records frames.
package game

import (
	"context"
	"time"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/config"
	"github.com/battlesnakeio/termsnake/store"
	log "github.com/sirupsen/logrus"
)

// Renderer draws the board between ticks and announces the end of the game.
type Renderer interface {
	Render(b *board.Board, turn int64) error
	End(r board.Result) error
}

// Game owns a board and everything needed to play it to the end. It is not
// safe for concurrent use; only Input is shared with the input goroutine.
type Game struct {
	ID       string
	Board    *board.Board
	Input    <-chan board.Direction
	Renderer Renderer
	Recorder Recorder

	// Direction is used until the first request arrives.
	Direction    board.Direction
	TickInterval time.Duration
	// SingleDrain consumes at most one pending request per tick instead of
	// skipping to the latest one.
	SingleDrain bool
	// Validate checks the board invariants after every tick.
	Validate bool
	// Ticks replaces the internal ticker when set.
	Ticks <-chan time.Time

	turn int64
}

// New returns a game heading right at the configured tick interval.
func New(b *board.Board, input <-chan board.Direction) *Game {
	return &Game{
		Board:        b,
		Input:        input,
		Renderer:     nopRenderer{},
		Direction:    board.Right,
		TickInterval: config.TickInterval,
	}
}

// Turn returns the number of ticks played.
func (g *Game) Turn() int64 { return g.turn }

// Step runs a single tick: it picks up pending direction requests and
// advances the board once.
func (g *Game) Step() board.Result {
	g.poll()

	start := time.Now()
	res := g.Board.Advance(g.Direction)
	g.turn++
	tickDuration.Observe(time.Since(start).Seconds())
	ticks.Inc()
	snakeLength.Set(float64(res.Score))

	fields := log.Fields{
		"game":      g.ID,
		"turn":      g.turn,
		"direction": g.Direction,
		"length":    g.Board.Len(),
	}
	log.WithFields(fields).Debug("tick")

	if g.Validate && !res.Over() {
		if err := g.Board.Validate(); err != nil {
			log.WithFields(fields).WithError(err).Error("board invariant broken")
		}
	}
	return res
}

func (g *Game) poll() {
	for {
		select {
		case d, ok := <-g.Input:
			if !ok {
				g.Input = nil
				return
			}
			g.Direction = d
			if g.SingleDrain {
				return
			}
		default:
			return
		}
	}
}

// Run plays the game until the board reports a result or ctx is done. The
// final result is returned either way; ctx.Err() is returned when the game
// was abandoned.
func (g *Game) Run(ctx context.Context) (board.Result, error) {
	tc := g.Ticks
	if tc == nil {
		t := time.NewTicker(g.TickInterval)
		defer t.Stop()
		tc = t.C
	}

	g.record(func(r Recorder) error { return r.Start(ctx, g.Board) })
	if err := g.Renderer.Render(g.Board, g.turn); err != nil {
		return g.Board.Result(), err
	}

	for {
		select {
		case <-ctx.Done():
			log.WithField("game", g.ID).WithField("turn", g.turn).Info("game abandoned")
			g.record(func(r Recorder) error {
				return r.Finish(context.Background(), store.GameStatusAborted)
			})
			return g.Board.Result(), ctx.Err()
		case <-tc:
		}

		res := g.Step()
		g.record(func(r Recorder) error { return r.Frame(ctx, g.turn, g.Board) })

		if res.Over() {
			gamesFinished.WithLabelValues(res.Status.String()).Inc()
			log.WithFields(log.Fields{
				"game":   g.ID,
				"turn":   g.turn,
				"result": res.Status,
				"score":  res.Score,
			}).Info("game ended")
			g.record(func(r Recorder) error { return r.Finish(ctx, store.StatusFor(res)) })
			return res, g.Renderer.End(res)
		}

		if err := g.Renderer.Render(g.Board, g.turn); err != nil {
			return res, err
		}
	}
}

// record runs fn against the recorder. A failing recorder is dropped so the
// game carries on unrecorded.
func (g *Game) record(fn func(Recorder) error) {
	if g.Recorder == nil {
		return
	}
	if err := fn(g.Recorder); err != nil {
		log.WithError(err).WithField("game", g.ID).Error("recording failed, disabling recorder")
		g.Recorder = nil
	}
}

type nopRenderer struct{}

func (nopRenderer) Render(*board.Board, int64) error { return nil }
func (nopRenderer) End(board.Result) error          { return nil }
