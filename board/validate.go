package board

import (
	"github.com/pkg/errors"
)

// Validate checks that the grid agrees with the snake body: one head cell at
// the front of the body, tail cells for every other segment and nowhere else,
// no repeated segments and at most one fruit.
func (b *Board) Validate() error {
	n := b.body.len()
	if n < 1 {
		return errors.New("board: snake has no segments")
	}
	if n > b.size.Area() {
		return errors.Errorf("board: snake length %d exceeds %d cells", n, b.size.Area())
	}

	seen := make(map[Point]bool, n)
	for i := 0; i < n; i++ {
		p := b.body.at(i)
		if !b.size.Contains(p) {
			return errors.Errorf("board: segment %d at %v is off the grid", i, p)
		}
		if seen[p] {
			return errors.Errorf("board: segment %d at %v is repeated", i, p)
		}
		seen[p] = true

		want := SnakeTail
		if i == 0 {
			want = SnakeHead
		}
		if got := b.Cell(p); got != want {
			return errors.Errorf("board: segment %d at %v is marked %v, want %v", i, p, got, want)
		}
	}

	var heads, tails, fruit int
	for _, c := range b.cells {
		switch c {
		case SnakeHead:
			heads++
		case SnakeTail:
			tails++
		case Fruit:
			fruit++
		}
	}
	if heads != 1 {
		return errors.Errorf("board: %d head cells", heads)
	}
	if tails != n-1 {
		return errors.Errorf("board: %d tail cells for a snake of length %d", tails, n)
	}
	if fruit > 1 {
		return errors.Errorf("board: %d fruit cells", fruit)
	}
	return nil
}
