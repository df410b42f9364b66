// Package store records played games frame by frame so they can be served and
// replayed. Backends live in the sub packages; this package holds the
// interface and an in memory implementation.
package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a game is not found.
	ErrNotFound = errors.New("store: game not found")
	// ErrInvalidSequence is returned when frames are pushed out of order.
	ErrInvalidSequence = errors.New("store: frame turn out of sequence")
)

// Store is the interface to the recording backend.
type Store interface {
	CreateGame(ctx context.Context, g *Game, frames []*Frame) error
	PushGameFrame(ctx context.Context, id string, f *Frame) error
	SetGameStatus(ctx context.Context, id string, status GameStatus) error
	GetGame(ctx context.Context, id string) (*Game, error)
	ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*Frame, error)
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{
		games:  map[string]*Game{},
		frames: map[string][]*Frame{},
	}
}

type inmem struct {
	games  map[string]*Game
	frames map[string][]*Frame
	lock   sync.Mutex
}

func (in *inmem) CreateGame(ctx context.Context, g *Game, frames []*Frame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if err := CheckSequence(-1, frames...); err != nil {
		return err
	}
	in.games[g.ID] = g.clone()
	in.frames[g.ID] = append([]*Frame{}, frames...)
	return nil
}

func (in *inmem) PushGameFrame(ctx context.Context, id string, f *Frame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return ErrNotFound
	}
	frames := in.frames[id]
	if err := CheckSequence(int64(len(frames))-1, f); err != nil {
		return err
	}
	in.frames[id] = append(frames, f)
	return nil
}

func (in *inmem) SetGameStatus(ctx context.Context, id string, status GameStatus) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = status
	return nil
}

func (in *inmem) GetGame(ctx context.Context, id string) (*Game, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if g, ok := in.games[id]; ok {
		return g.clone(), nil
	}
	return nil, ErrNotFound
}

func (in *inmem) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*Frame, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return nil, ErrNotFound
	}
	return Page(in.frames[id], limit, offset), nil
}

// CheckSequence verifies frames continue on from the turn last.
func CheckSequence(last int64, frames ...*Frame) error {
	for _, f := range frames {
		last++
		if f.Turn != last {
			return errors.Wrapf(ErrInvalidSequence, "got turn %d, want %d", f.Turn, last)
		}
	}
	return nil
}

// Page slices out limit frames starting at offset. A negative offset counts
// back from the end, so -1 is the last frame.
func Page(frames []*Frame, limit, offset int) []*Frame {
	if offset < 0 {
		offset = len(frames) + offset
		if offset < 0 {
			offset = 0
		}
	}
	if len(frames) == 0 || offset >= len(frames) || limit <= 0 {
		return nil
	}
	if offset+limit >= len(frames) {
		limit = len(frames) - offset
	}
	return frames[offset : offset+limit]
}
