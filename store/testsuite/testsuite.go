// Package testsuite runs the shared Store contract against a backend.
package testsuite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/store"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"
)

func newGame() *store.Game {
	return &store.Game{
		ID:      uuid.NewV4().String(),
		Width:   4,
		Height:  3,
		Seed:    99,
		Status:  store.GameStatusRunning,
		Created: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
	}
}

func frame(turn int64, snake ...board.Point) *store.Frame {
	return &store.Frame{
		Turn:   turn,
		Snake:  snake,
		Fruit:  &board.Point{X: 3, Y: 2},
		Status: store.GameStatusRunning,
		Score:  len(snake),
	}
}

func testStoreGames(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := newGame()

	// Create and fetch a game.
	err := s.CreateGame(ctx, g, nil)
	require.NoError(t, err)
	got, err := s.GetGame(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, g.ID, got.ID)
	require.Equal(t, g.Size(), got.Size())
	require.Equal(t, g.Seed, got.Seed)
	require.Equal(t, store.GameStatusRunning, got.Status)
	require.True(t, g.Created.Equal(got.Created))

	// NotFound error thrown.
	_, err = s.GetGame(ctx, g.ID+"-missing")
	require.Equal(t, store.ErrNotFound, errors.Cause(err))
}

func testStoreGameStatus(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := newGame()

	err := s.CreateGame(ctx, g, nil)
	require.NoError(t, err)

	err = s.SetGameStatus(ctx, g.ID, store.GameStatusLost)
	require.NoError(t, err)

	got, err := s.GetGame(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, store.GameStatusLost, got.Status)

	err = s.SetGameStatus(ctx, g.ID+"-missing", store.GameStatusWon)
	require.Equal(t, store.ErrNotFound, errors.Cause(err))
}

func testStoreGameFrames(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := newGame()

	err := s.CreateGame(ctx, g, []*store.Frame{frame(0, board.Point{})})
	require.NoError(t, err)

	// Read game frames, too high offset.
	frames, err := s.ListGameFrames(ctx, g.ID, 10, 100)
	require.NoError(t, err)
	require.Len(t, frames, 0)

	// Push game frames.
	err = s.PushGameFrame(ctx, g.ID, frame(1, board.Point{X: 1}))
	require.NoError(t, err)
	err = s.PushGameFrame(ctx, g.ID, frame(2, board.Point{X: 2}, board.Point{X: 1}))
	require.NoError(t, err)

	// Read all the game frames.
	frames, err = s.ListGameFrames(ctx, g.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	for i, f := range frames {
		require.Equal(t, int64(i), f.Turn)
	}
	require.Equal(t, []board.Point{{X: 2}, {X: 1}}, frames[2].Snake)
	require.Equal(t, &board.Point{X: 3, Y: 2}, frames[2].Fruit)
	require.Equal(t, 2, frames[2].Score)

	// Page through.
	frames, err = s.ListGameFrames(ctx, g.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, int64(1), frames[0].Turn)

	// Negative offset reads from the end.
	frames, err = s.ListGameFrames(ctx, g.ID, 1, -1)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, int64(2), frames[0].Turn)

	// Out of order frames are rejected.
	err = s.PushGameFrame(ctx, g.ID, frame(7, board.Point{}))
	require.Equal(t, store.ErrInvalidSequence, errors.Cause(err))

	// Read game frames that don't exist.
	frames, err = s.ListGameFrames(ctx, g.ID+"-missing", 1, 0)
	require.Equal(t, store.ErrNotFound, errors.Cause(err))
	require.Len(t, frames, 0)
}

func testStoreConcurrentGames(t *testing.T, s store.Store) {
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 10)
	for i := range ids {
		g := newGame()
		ids[i] = g.ID
		wg.Add(1)
		go func(g *store.Game) {
			defer wg.Done()
			if err := s.CreateGame(ctx, g, []*store.Frame{frame(0, board.Point{})}); err != nil {
				t.Error(err)
				return
			}
			for turn := int64(1); turn < 5; turn++ {
				if err := s.PushGameFrame(ctx, g.ID, frame(turn, board.Point{})); err != nil {
					t.Error(err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	for _, id := range ids {
		frames, err := s.ListGameFrames(ctx, id, 100, 0)
		require.NoError(t, err)
		require.Len(t, frames, 5)
	}
}

// Suite will execute the store testsuite.
func Suite(t *testing.T, s store.Store, pretest func()) {
	s = store.InstrumentStore(s)
	t.Run("Games", func(t *testing.T) { pretest(); testStoreGames(t, s) })
	t.Run("GameStatus", func(t *testing.T) { pretest(); testStoreGameStatus(t, s) })
	t.Run("GameFrames", func(t *testing.T) { pretest(); testStoreGameFrames(t, s) })
	t.Run("ConcurrentGames", func(t *testing.T) { pretest(); testStoreConcurrentGames(t, s) })
}
