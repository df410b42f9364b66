// Package e2e plays whole games headless and checks them through the api.
package e2e

import (
	"context"
	"time"

	"github.com/battlesnakeio/termsnake/api"
	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/store"
	"github.com/pkg/errors"
)

type client struct {
	api *api.Client
}

func newClient(url string) *client {
	return &client{api: api.NewClient(url)}
}

// replay streams a game and rebuilds the board of every frame.
func (c *client) replay(ctx context.Context, id string) (*store.Game, []*board.Board, []*store.Frame, error) {
	st, err := c.api.Status(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		boards []*board.Board
		frames []*store.Frame
	)
	err = c.api.StreamFrames(ctx, id, func(f *store.Frame) error {
		b, err := f.Board(st.Game.Size())
		if err != nil {
			return errors.Wrapf(err, "turn %d", f.Turn)
		}
		boards = append(boards, b)
		frames = append(frames, f)
		return nil
	})
	return st.Game, boards, frames, err
}

// ticker hands out up to n ticks and then cancels the game.
func ticker(ctx context.Context, cancel func(), n int) <-chan time.Time {
	ticks := make(chan time.Time)
	go func() {
		defer cancel()
		for i := 0; i < n; i++ {
			select {
			case ticks <- time.Now():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ticks
}
