package game

import (
	"context"
	"time"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/store"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// Recorder receives the starting board, every following board and the final
// status of a game.
type Recorder interface {
	Start(ctx context.Context, b *board.Board) error
	Frame(ctx context.Context, turn int64, b *board.Board) error
	Finish(ctx context.Context, status store.GameStatus) error
}

// StoreRecorder writes a game into a store.Store.
type StoreRecorder struct {
	Store store.Store
	Game  *store.Game
}

// NewStoreRecorder returns a recorder for a new game with a random ID.
func NewStoreRecorder(s store.Store, seed int64) *StoreRecorder {
	return &StoreRecorder{
		Store: s,
		Game: &store.Game{
			ID:     uuid.NewV4().String(),
			Seed:   seed,
			Status: store.GameStatusRunning,
		},
	}
}

// Start creates the game with the starting board as turn 0.
func (r *StoreRecorder) Start(ctx context.Context, b *board.Board) error {
	size := b.Size()
	r.Game.Width = size.Width
	r.Game.Height = size.Height
	r.Game.Created = time.Now().UTC()
	err := r.Store.CreateGame(ctx, r.Game, []*store.Frame{store.NewFrame(0, b)})
	return errors.Wrap(err, "unable to create game")
}

// Frame pushes the board after turn.
func (r *StoreRecorder) Frame(ctx context.Context, turn int64, b *board.Board) error {
	err := r.Store.PushGameFrame(ctx, r.Game.ID, store.NewFrame(turn, b))
	return errors.Wrapf(err, "unable to push turn %d", turn)
}

// Finish sets the final status.
func (r *StoreRecorder) Finish(ctx context.Context, status store.GameStatus) error {
	err := r.Store.SetGameStatus(ctx, r.Game.ID, status)
	return errors.Wrap(err, "unable to set game status")
}
