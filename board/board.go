// Package board holds the snake game state: the toroidal grid, the snake body
// and the single per-tick transition that moves it.
package board

import (
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// MinDimension is the smallest width or height a board can have.
const MinDimension = 2

// ErrInvalidSize is returned when a board is created with a dimension below
// MinDimension.
var ErrInvalidSize = errors.New("board: width and height must be at least 2")

// Status is the state of play.
type Status uint8

// Game states. Won and Lost are terminal.
const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "playing"
}

// Result is returned by Advance. Score is the snake length; for terminal
// results it is the final score.
type Result struct {
	Status Status
	Score  int
}

// Over reports whether the result ends the game.
func (r Result) Over() bool { return r.Status != Playing }

// Board is the grid plus the snake occupying it. The snake body is the source
// of truth, cells is kept in step with it on every transition.
type Board struct {
	size  Size
	cells []Cell
	body  deque

	fruit    Point
	hasFruit bool

	result Result
	rng    *rand.Rand
}

// New creates a board with a single segment snake at (0, 0) and one fruit on
// a random empty cell. A nil rng uses a time seeded source.
func New(size Size, rng *rand.Rand) (*Board, error) {
	b, err := empty(size, rng)
	if err != nil {
		return nil, err
	}
	b.body.pushFront(Point{})
	b.set(Point{}, SnakeHead)
	b.PlaceFruit()
	b.result = Result{Status: Playing, Score: b.body.len()}
	return b, nil
}

// MustNew is like New but panics on an invalid size.
func MustNew(size Size, rng *rand.Rand) *Board {
	b, err := New(size, rng)
	if err != nil {
		panic(err)
	}
	return b
}

// Restore rebuilds a board from a snake body (head first) and an optional
// fruit. It is used to load recorded frames.
func Restore(size Size, snake []Point, fruit *Point, rng *rand.Rand) (*Board, error) {
	b, err := empty(size, rng)
	if err != nil {
		return nil, err
	}
	if len(snake) == 0 {
		return nil, errors.New("board: snake must have at least one segment")
	}
	for i, p := range snake {
		if !size.Contains(p) {
			return nil, errors.Errorf("board: segment %v outside %dx%d grid", p, size.Width, size.Height)
		}
		if b.Cell(p) != Empty {
			return nil, errors.Errorf("board: duplicate segment %v", p)
		}
		if i == 0 {
			b.set(p, SnakeHead)
		} else {
			b.set(p, SnakeTail)
		}
		b.body.pushBack(p)
	}
	if fruit != nil {
		if !size.Contains(*fruit) {
			return nil, errors.Errorf("board: fruit %v outside %dx%d grid", *fruit, size.Width, size.Height)
		}
		if b.Cell(*fruit) != Empty {
			return nil, errors.Errorf("board: fruit %v placed on the snake", *fruit)
		}
		b.set(*fruit, Fruit)
	}
	b.result = Result{Status: Playing, Score: b.body.len()}
	return b, nil
}

func empty(size Size, rng *rand.Rand) (*Board, error) {
	if size.Width < MinDimension || size.Height < MinDimension {
		return nil, errors.Wrapf(ErrInvalidSize, "got %dx%d", size.Width, size.Height)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Board{
		size:  size,
		cells: make([]Cell, size.Area()),
		body:  newDeque(size.Area()),
		rng:   rng,
	}, nil
}

// PlaceFruit marks a uniformly chosen empty cell as fruit. It returns false
// when there is no empty cell left, which means the snake fills the grid.
func (b *Board) PlaceFruit() bool {
	open := make([]int, 0, len(b.cells)-b.body.len())
	for i, c := range b.cells {
		if c == Empty {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return false
	}
	i := open[b.rng.Intn(len(open))]
	b.cells[i] = Fruit
	b.fruit = Point{X: i % b.size.Width, Y: i / b.size.Width}
	b.hasFruit = true
	return true
}

// Advance moves the snake one step in direction d.
//
// The old head always becomes a tail segment first. Eating a fruit grows the
// snake, otherwise the tail end is freed before the collision check, so the
// head may enter the cell the tail leaves this tick. On a win the head is
// still placed, leaving the grid full. Once a terminal result has been
// returned further calls change nothing and return it again.
func (b *Board) Advance(d Direction) Result {
	if b.result.Over() {
		return b.result
	}

	length := b.body.len()
	head := b.body.front()
	next := head.Move(d, b.size)

	b.set(head, SnakeTail)

	if b.Cell(next) == Fruit {
		b.hasFruit = false
		if !b.PlaceFruit() {
			b.set(next, SnakeHead)
			b.body.pushFront(next)
			b.result = Result{Status: Won, Score: b.body.len()}
			return b.result
		}
	} else {
		tail := b.body.popBack()
		b.set(tail, Empty)
	}

	if b.Cell(next) == SnakeTail {
		b.result = Result{Status: Lost, Score: length}
		return b.result
	}

	b.set(next, SnakeHead)
	b.body.pushFront(next)
	b.result = Result{Status: Playing, Score: b.body.len()}
	return b.result
}

// Size returns the grid dimensions.
func (b *Board) Size() Size { return b.size }

// Cell returns the state of the cell at p. p must be inside the grid.
func (b *Board) Cell(p Point) Cell { return b.cells[p.Y*b.size.Width+p.X] }

func (b *Board) set(p Point, c Cell) { b.cells[p.Y*b.size.Width+p.X] = c }

// Head returns the head position.
func (b *Board) Head() Point { return b.body.front() }

// Len returns the snake length.
func (b *Board) Len() int { return b.body.len() }

// Snake returns a copy of the body, head first.
func (b *Board) Snake() []Point {
	points := make([]Point, b.body.len())
	for i := range points {
		points[i] = b.body.at(i)
	}
	return points
}

// Fruit returns the fruit position, if there is one on the grid.
func (b *Board) Fruit() (Point, bool) {
	if !b.hasFruit || b.Cell(b.fruit) != Fruit {
		return Point{}, false
	}
	return b.fruit, true
}

// Result returns the outcome of the latest transition.
func (b *Board) Result() Result { return b.result }

// String renders the grid row by row, one line per row.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.size.Width + 1) * b.size.Height)
	for y := 0; y < b.size.Height; y++ {
		for x := 0; x < b.size.Width; x++ {
			sb.WriteRune(b.cells[y*b.size.Width+x].Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
