package render

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/input"
	"github.com/stretchr/testify/require"
)

func TestTextRender(t *testing.T) {
	fruit := board.Point{X: 2, Y: 1}
	b, err := board.Restore(board.Size{Width: 3, Height: 2}, []board.Point{{X: 1, Y: 0}, {X: 0, Y: 0}}, &fruit, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	r := &Text{W: buf}
	require.NoError(t, r.Render(b, 3))
	require.Equal(t, "\x1b[2J\x1b[HoO.\r\n..@\r\n", buf.String())

	buf.Reset()
	require.NoError(t, r.End(board.Result{Status: board.Lost, Score: 7}))
	require.Equal(t, "Game ended, your score: 7\r\n", buf.String())
}

func TestTextRenderNewBoard(t *testing.T) {
	b := board.MustNew(board.Size{Width: 16, Height: 16}, rand.New(rand.NewSource(9)))
	buf := &bytes.Buffer{}
	require.NoError(t, (&Text{W: buf}).Render(b, 0))

	out := strings.TrimPrefix(buf.String(), ClearScreen)
	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	require.Len(t, lines, 16)
	for _, l := range lines {
		require.Len(t, l, 16)
	}
	require.Equal(t, byte('O'), lines[0][0])
	require.Equal(t, 1, strings.Count(out, "@"))
}

func TestTutorial(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, Tutorial(out, input.NewKeys(strings.NewReader("x"))))
	require.Contains(t, out.String(), "use keys 'w', 'a', 's' and 'd'.")
	require.Contains(t, out.String(), "Try to collect as many fruits as possible '@'.")
	require.Contains(t, out.String(), "Press any key to continue...")

	require.Error(t, Tutorial(&bytes.Buffer{}, input.NewKeys(strings.NewReader(""))))
}

func TestTutorialConsumesWholeSequence(t *testing.T) {
	keys := input.NewKeys(strings.NewReader("\x1b[A"))
	defer keys.Close()
	require.NoError(t, Tutorial(&bytes.Buffer{}, keys))

	_, err := keys.Next(context.Background())
	require.Equal(t, io.EOF, err)
}
