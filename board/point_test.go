package board

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{Up, Down, Left, Right} {
		parsed, err := ParseDirection(d.String())
		require.NoError(t, err)
		require.Equal(t, d, parsed)
	}

	_, err := ParseDirection("sideways")
	require.Equal(t, ErrInvalidDirection, errors.Cause(err))
}

func TestOpposite(t *testing.T) {
	require.Equal(t, Down, Up.Opposite())
	require.Equal(t, Up, Down.Opposite())
	require.Equal(t, Right, Left.Opposite())
	require.Equal(t, Left, Right.Opposite())
}

func TestMoveWrapsBothAxes(t *testing.T) {
	size := Size{Width: 2, Height: 3}
	p := Point{0, 0}
	require.Equal(t, Point{1, 0}, p.Move(Left, size))
	require.Equal(t, Point{0, 2}, p.Move(Up, size))
	require.Equal(t, Point{0, 0}, p.Move(Right, size).Move(Right, size))
	require.Equal(t, Point{0, 0}, p.Move(Down, size).Move(Down, size).Move(Down, size))
}

func TestCellRunes(t *testing.T) {
	require.Equal(t, '.', Empty.Rune())
	require.Equal(t, '@', Fruit.Rune())
	require.Equal(t, 'O', SnakeHead.Rune())
	require.Equal(t, 'o', SnakeTail.Rune())
}
