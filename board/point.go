package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// Direction is a movement request for the snake head.
type Direction uint8

// Directions the snake can move in.
const (
	Up Direction = iota
	Down
	Left
	Right
)

// ErrInvalidDirection is returned when a direction name can't be parsed.
var ErrInvalidDirection = errors.New("board: invalid direction")

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// ParseDirection converts "up", "down", "left" or "right" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Right, errors.Wrapf(ErrInvalidDirection, "%q", s)
}

// Size holds the grid dimensions.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area is the number of cells in the grid.
func (s Size) Area() int { return s.Width * s.Height }

// Contains reports whether p lies inside the grid.
func (s Size) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}

// Point is a grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Equals checks if 2 points are the same x,y coordinate
func (p Point) Equals(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Move returns the neighbouring point in direction d. Leaving the grid on
// any edge re-enters on the opposite one.
func (p Point) Move(d Direction, size Size) Point {
	switch d {
	case Up:
		p.Y = (p.Y + size.Height - 1) % size.Height
	case Down:
		p.Y = (p.Y + 1) % size.Height
	case Left:
		p.X = (p.X + size.Width - 1) % size.Width
	case Right:
		p.X = (p.X + 1) % size.Width
	}
	return p
}
