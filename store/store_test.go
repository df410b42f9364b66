package store_test

import (
	"math/rand"
	"testing"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/store"
	"github.com/battlesnakeio/termsnake/store/testsuite"
	"github.com/stretchr/testify/require"
)

func TestInMemStore(t *testing.T) {
	testsuite.Suite(t, store.InMemStore(), func() {})
}

func TestPage(t *testing.T) {
	frames := []*store.Frame{{Turn: 0}, {Turn: 1}, {Turn: 2}, {Turn: 3}}

	require.Len(t, store.Page(frames, 2, 0), 2)
	require.Len(t, store.Page(frames, 10, 1), 3)
	require.Len(t, store.Page(frames, 0, 0), 0)
	require.Len(t, store.Page(nil, 10, 0), 0)
	require.Equal(t, int64(3), store.Page(frames, 1, -1)[0].Turn)
	require.Equal(t, int64(0), store.Page(frames, 1, -10)[0].Turn)
}

func TestFrameRoundTripsBoard(t *testing.T) {
	b := board.MustNew(board.Size{Width: 6, Height: 5}, rand.New(rand.NewSource(4)))
	b.Advance(board.Down)
	b.Advance(board.Down)

	f := store.NewFrame(2, b)
	require.Equal(t, store.GameStatusRunning, f.Status)
	require.Equal(t, b.Len(), f.Score)

	restored, err := f.Board(b.Size())
	require.NoError(t, err)
	require.Equal(t, b.String(), restored.String())
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, store.GameStatusWon, store.StatusFor(board.Result{Status: board.Won}))
	require.Equal(t, store.GameStatusLost, store.StatusFor(board.Result{Status: board.Lost}))
	require.Equal(t, store.GameStatusRunning, store.StatusFor(board.Result{Status: board.Playing}))
}
