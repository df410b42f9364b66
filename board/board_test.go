package board

import (
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T, size Size, snake []Point, fruit *Point) *Board {
	b, err := Restore(size, snake, fruit, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, b.Validate())
	return b
}

func TestNewRejectsSmallSizes(t *testing.T) {
	for _, size := range []Size{{1, 2}, {2, 1}, {0, 0}, {-3, 10}, {16, 1}} {
		_, err := New(size, nil)
		require.Error(t, err)
		require.Equal(t, ErrInvalidSize, errors.Cause(err), "size %v", size)
	}
	require.Panics(t, func() { MustNew(Size{1, 1}, nil) })
}

func TestNewPlacesSnakeAndFruit(t *testing.T) {
	for _, size := range []Size{{2, 2}, {16, 16}, {3, 7}} {
		b, err := New(size, rand.New(rand.NewSource(3)))
		require.NoError(t, err)
		require.Equal(t, 1, b.Len())
		require.Equal(t, Point{0, 0}, b.Head())
		require.Equal(t, SnakeHead, b.Cell(Point{0, 0}))

		fruit, ok := b.Fruit()
		require.True(t, ok)
		require.False(t, fruit.Equals(Point{0, 0}))
		require.Equal(t, Fruit, b.Cell(fruit))
		require.Equal(t, Result{Status: Playing, Score: 1}, b.Result())
		require.NoError(t, b.Validate())
	}
}

func TestPlaceFruitOnlyUsesEmptyCells(t *testing.T) {
	// Only (1, 1) is free.
	b := restore(t, Size{2, 2}, []Point{{0, 0}, {1, 0}, {0, 1}}, nil)
	require.True(t, b.PlaceFruit())
	fruit, ok := b.Fruit()
	require.True(t, ok)
	require.Equal(t, Point{1, 1}, fruit)

	require.False(t, b.PlaceFruit())
	require.NoError(t, b.Validate())
}

func TestPlaceFruitFailsOnFullGrid(t *testing.T) {
	b := restore(t, Size{2, 2}, []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, nil)
	before := b.String()
	require.False(t, b.PlaceFruit())
	require.Equal(t, before, b.String())
}

func TestAdvanceWrapsAroundEdges(t *testing.T) {
	size := Size{Width: 5, Height: 4}
	tests := []struct {
		name  string
		start Point
		dir   Direction
		want  Point
	}{
		{"left edge", Point{0, 2}, Left, Point{4, 2}},
		{"right edge", Point{4, 2}, Right, Point{0, 2}},
		{"top edge", Point{3, 0}, Up, Point{3, 3}},
		{"bottom edge", Point{3, 3}, Down, Point{3, 0}},
		{"inner", Point{2, 2}, Up, Point{2, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := restore(t, size, []Point{tc.start}, nil)
			res := b.Advance(tc.dir)
			require.Equal(t, Playing, res.Status)
			require.Equal(t, tc.want, b.Head())
			require.Equal(t, Empty, b.Cell(tc.start))
			require.NoError(t, b.Validate())
		})
	}
}

func TestAdvanceGrowsOnFruit(t *testing.T) {
	fruit := Point{3, 2}
	b := restore(t, Size{6, 6}, []Point{{2, 2}, {1, 2}}, &fruit)

	res := b.Advance(Right)
	require.Equal(t, Result{Status: Playing, Score: 3}, res)
	require.Equal(t, []Point{{3, 2}, {2, 2}, {1, 2}}, b.Snake())
	require.Equal(t, SnakeTail, b.Cell(Point{1, 2}))
	require.Equal(t, SnakeTail, b.Cell(Point{2, 2}))
	require.Equal(t, SnakeHead, b.Cell(Point{3, 2}))

	next, ok := b.Fruit()
	require.True(t, ok, "a new fruit should be placed")
	require.Equal(t, Fruit, b.Cell(next))
	require.NoError(t, b.Validate())
}

func TestAdvanceWithoutFruitKeepsLength(t *testing.T) {
	b := restore(t, Size{6, 6}, []Point{{2, 2}, {1, 2}, {0, 2}}, nil)

	res := b.Advance(Up)
	require.Equal(t, Result{Status: Playing, Score: 3}, res)
	require.Equal(t, []Point{{2, 1}, {2, 2}, {1, 2}}, b.Snake())
	require.Equal(t, Empty, b.Cell(Point{0, 2}))
	require.NoError(t, b.Validate())
}

func TestAdvanceIntoVacatedTail(t *testing.T) {
	// A two segment snake reversing onto its own tail follows it, since the
	// tail moves off that cell in the same tick.
	b := restore(t, Size{4, 4}, []Point{{1, 1}, {2, 1}}, nil)
	res := b.Advance(Right)
	require.Equal(t, Result{Status: Playing, Score: 2}, res)
	require.Equal(t, []Point{{2, 1}, {1, 1}}, b.Snake())
	require.NoError(t, b.Validate())

	// Same for a closed loop chasing its tail.
	b = restore(t, Size{5, 5}, []Point{{1, 1}, {1, 2}, {2, 2}, {2, 1}}, nil)
	res = b.Advance(Right)
	require.Equal(t, Result{Status: Playing, Score: 4}, res)
	require.Equal(t, []Point{{2, 1}, {1, 1}, {1, 2}, {2, 2}}, b.Snake())
	require.NoError(t, b.Validate())
}

func TestAdvanceSelfCollisionLoses(t *testing.T) {
	// Closed loop, reversing into the neck.
	b := restore(t, Size{5, 5}, []Point{{1, 1}, {1, 2}, {2, 2}, {2, 1}}, nil)
	res := b.Advance(Down)
	require.Equal(t, Result{Status: Lost, Score: 4}, res)
	require.True(t, res.Over())

	b = restore(t, Size{8, 3}, []Point{{1, 1}, {2, 1}, {3, 1}}, nil)
	res = b.Advance(Right)
	require.Equal(t, Result{Status: Lost, Score: 3}, res)
}

func TestAdvanceCollisionAcrossEdge(t *testing.T) {
	b := restore(t, Size{3, 3}, []Point{{0, 0}, {0, 1}, {1, 1}, {2, 1}, {2, 0}, {2, 2}}, nil)
	// Left from (0, 0) wraps onto (2, 0), which stays occupied.
	res := b.Advance(Left)
	require.Equal(t, Result{Status: Lost, Score: 6}, res)
}

func TestAdvanceFillingGridWins(t *testing.T) {
	fruit := Point{0, 1}
	b := restore(t, Size{2, 2}, []Point{{0, 0}, {1, 0}, {1, 1}}, &fruit)

	res := b.Advance(Down)
	require.Equal(t, Result{Status: Won, Score: 4}, res)
	require.Equal(t, 4, b.Len())
	require.Equal(t, "oo\nOo\n", b.String())
	_, ok := b.Fruit()
	require.False(t, ok)
	require.NoError(t, b.Validate())
}

func TestAdvanceAfterGameOverIsNoop(t *testing.T) {
	b := restore(t, Size{8, 3}, []Point{{1, 1}, {2, 1}, {3, 1}}, nil)
	first := b.Advance(Right)
	require.Equal(t, Lost, first.Status)

	before := b.String()
	for _, d := range []Direction{Up, Down, Left, Right} {
		require.Equal(t, first, b.Advance(d))
		require.Equal(t, before, b.String())
	}
}

func TestString(t *testing.T) {
	fruit := Point{2, 1}
	b := restore(t, Size{3, 2}, []Point{{1, 0}, {0, 0}}, &fruit)
	require.Equal(t, "oO.\n..@\n", b.String())
}

func TestRestoreRejectsInvalidFrames(t *testing.T) {
	size := Size{4, 4}
	outside := Point{4, 0}
	onSnake := Point{1, 1}
	tests := []struct {
		name  string
		size  Size
		snake []Point
		fruit *Point
	}{
		{"small grid", Size{1, 4}, []Point{{0, 0}}, nil},
		{"no segments", size, nil, nil},
		{"segment outside", size, []Point{{0, 0}, {0, -1}}, nil},
		{"duplicate segment", size, []Point{{1, 1}, {1, 2}, {1, 1}}, nil},
		{"fruit outside", size, []Point{{0, 0}}, &outside},
		{"fruit on snake", size, []Point{{1, 1}}, &onSnake},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Restore(tc.size, tc.snake, tc.fruit, nil)
			require.Error(t, err)
		})
	}
}

func TestValidateDetectsDrift(t *testing.T) {
	b := restore(t, Size{4, 4}, []Point{{1, 1}, {1, 2}}, nil)
	b.set(Point{3, 3}, SnakeTail)
	require.Error(t, b.Validate())

	b = restore(t, Size{4, 4}, []Point{{1, 1}, {1, 2}}, nil)
	b.set(Point{1, 1}, SnakeTail)
	require.Error(t, b.Validate())

	b = restore(t, Size{4, 4}, []Point{{1, 1}}, nil)
	b.set(Point{0, 0}, Fruit)
	b.set(Point{3, 0}, Fruit)
	require.Error(t, b.Validate())
}

// TestAdvanceLaws plays random games and checks the growth and non-growth
// laws and the grid invariants after every step.
func TestAdvanceLaws(t *testing.T) {
	moves := rand.New(rand.NewSource(7))
	size := Size{Width: 5, Height: 4}

	for game := 0; game < 50; game++ {
		b := MustNew(size, rand.New(rand.NewSource(int64(game))))
		for step := 0; step < 300 && !b.Result().Over(); step++ {
			d := Direction(moves.Intn(4))
			length := b.Len()
			snake := b.Snake()
			tail := snake[len(snake)-1]
			next := b.Head().Move(d, size)
			ate := b.Cell(next) == Fruit

			res := b.Advance(d)
			if res.Over() {
				if res.Status == Lost {
					require.Equal(t, length, res.Score)
				} else {
					require.Equal(t, length+1, res.Score)
					require.Equal(t, size.Area(), res.Score)
				}
				break
			}

			require.NoError(t, b.Validate(), spew.Sdump(snake, b.Snake()))
			require.True(t, b.Len() <= size.Area())
			require.Equal(t, next, b.Head())
			if ate {
				require.Equal(t, length+1, b.Len())
				require.Equal(t, SnakeTail, b.Cell(tail))
			} else {
				require.Equal(t, length, b.Len())
				if !tail.Equals(next) {
					require.Equal(t, Empty, b.Cell(tail))
				}
			}
		}
	}
}

func TestDeterministicForSeed(t *testing.T) {
	size := Size{Width: 7, Height: 5}
	a := MustNew(size, rand.New(rand.NewSource(42)))
	b := MustNew(size, rand.New(rand.NewSource(42)))
	require.Equal(t, a.String(), b.String())

	// Sweep rows so the snake keeps eating without running into itself.
	var dirs []Direction
	for i := 0; i < 40; i++ {
		dirs = append(dirs, Right, Right, Down, Left, Down)
	}
	for _, d := range dirs {
		ra, rb := a.Advance(d), b.Advance(d)
		require.Equal(t, ra, rb)
		require.Equal(t, a.String(), b.String())
		if ra.Over() {
			break
		}
	}
}
