package commands

import (
	"context"
	"testing"
	"time"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/store"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	s, err := openStore("none", "")
	require.NoError(t, err)
	require.Nil(t, s)

	s, err = openStore("inmem", "")
	require.NoError(t, err)
	require.NotNil(t, s)
	closeStore(s)

	s, err = openStore("file", t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.CreateGame(context.Background(), &store.Game{ID: "a"}, []*store.Frame{{Turn: 0}}))
	closeStore(s)

	_, err = openStore("carrier-pigeon", "")
	require.Error(t, err)
}

func TestFrameHolder(t *testing.T) {
	fh := newFrameHolder()
	require.Nil(t, fh.get(0))

	fh.append(&store.Frame{Turn: 0})
	fh.append(&store.Frame{Turn: 1})
	first := <-fh.initialFrame()
	require.Equal(t, int64(0), first.Turn)
	require.Equal(t, 2, fh.count())

	i, f, last := moveFrameForwards(0, fh)
	require.False(t, last)
	require.Equal(t, 1, i)
	require.Equal(t, int64(1), f.Turn)

	// Still streaming, so the viewer waits on the last frame.
	i, f, last = moveFrameForwards(i, fh)
	require.False(t, last)
	require.Equal(t, 1, i)
	require.Equal(t, int64(1), f.Turn)

	fh.finish()
	_, f, last = moveFrameForwards(i, fh)
	require.True(t, last)
	require.Nil(t, f)

	i, f = moveFrameBackwards(0, fh)
	require.Equal(t, 0, i)
	require.Equal(t, int64(0), f.Turn)
}

func TestInitialFrameEmptyGame(t *testing.T) {
	fh := newFrameHolder()
	fh.finish()
	_, err := getInitialFrame(fh)
	require.Error(t, err)
}

func TestNewGameFlags(t *testing.T) {
	playWidth, playHeight = 5, 4
	playSeed = 9
	playDirection = "up"
	playTick = time.Second
	playSingleDrain = true
	defer func() {
		playDirection = "right"
		playSingleDrain = false
	}()

	g, dirs, seed, err := newGame()
	require.NoError(t, err)
	require.Equal(t, int64(9), seed)
	require.Equal(t, board.Up, g.Direction)
	require.Equal(t, time.Second, g.TickInterval)
	require.True(t, g.SingleDrain)
	require.Equal(t, board.Size{Width: 5, Height: 4}, g.Board.Size())
	require.NotNil(t, dirs)

	playDirection = "sideways"
	_, _, _, err = newGame()
	require.Error(t, err)
}
