package store

import (
	"time"

	"github.com/battlesnakeio/termsnake/board"
)

// GameStatus is the lifecycle state of a recorded game.
type GameStatus string

const (
	// GameStatusRunning represents a game still being played
	GameStatusRunning GameStatus = "running"
	// GameStatusWon represents a game that ended with a full board
	GameStatusWon GameStatus = "won"
	// GameStatusLost represents a game that ended with a self collision
	GameStatusLost GameStatus = "lost"
	// GameStatusAborted represents a game the player quit
	GameStatusAborted GameStatus = "aborted"
)

// StatusFor maps a board result onto a game status.
func StatusFor(r board.Result) GameStatus {
	switch r.Status {
	case board.Won:
		return GameStatusWon
	case board.Lost:
		return GameStatusLost
	}
	return GameStatusRunning
}

// Game is the metadata of a recorded game.
type Game struct {
	ID      string
	Width   int
	Height  int
	Seed    int64
	Status  GameStatus
	Created time.Time
}

// Size returns the board size of the game.
func (g *Game) Size() board.Size { return board.Size{Width: g.Width, Height: g.Height} }

// Frame is the board after a single tick. Turn 0 is the starting board.
type Frame struct {
	Turn   int64
	Snake  []board.Point
	Fruit  *board.Point `json:",omitempty"`
	Status GameStatus
	Score  int
}

// NewFrame captures the current state of b.
func NewFrame(turn int64, b *board.Board) *Frame {
	f := &Frame{
		Turn:   turn,
		Snake:  b.Snake(),
		Status: StatusFor(b.Result()),
		Score:  b.Result().Score,
	}
	if p, ok := b.Fruit(); ok {
		f.Fruit = &p
	}
	return f
}

// Board rebuilds a board from the frame.
func (f *Frame) Board(size board.Size) (*board.Board, error) {
	return board.Restore(size, f.Snake, f.Fruit, nil)
}

func (g *Game) clone() *Game {
	c := *g
	return &c
}
