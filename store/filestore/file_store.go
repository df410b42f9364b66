package filestore

import (
	"context"
	"os/user"
	"path/filepath"
	"sync"

	"github.com/battlesnakeio/termsnake/store"
	log "github.com/sirupsen/logrus"
)

func defaultDir() string {
	return filepath.Join(homeDir(), ".termsnake", "games")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a file based store implementation (1 file per game).
// Games with an open writer are cached in memory until they finish, any other
// game is read from disk on every call so frames appended by another process
// show up.
func NewFileStore(directory string) store.Store {
	if directory == "" {
		directory = defaultDir()
	}

	return &fileStore{
		games:     map[string]*store.Game{},
		frames:    map[string][]*store.Frame{},
		writers:   map[string]writer{},
		directory: directory,
	}
}

type fileStore struct {
	games     map[string]*store.Game
	frames    map[string][]*store.Frame
	writers   map[string]writer
	lock      sync.Mutex
	directory string
}

// closeGame removes the game from in-memory cache and closes the handle to its
// file. Should be called when game is complete.
func (fs *fileStore) closeGame(id string) {
	if w, ok := fs.writers[id]; ok {
		err := w.Close()
		if err != nil {
			log.WithError(err).WithField("game", id).Error("Error while closing file writer")
		}
	}
	delete(fs.games, id)
	delete(fs.frames, id)
	delete(fs.writers, id)
}

// Close closes every open game file.
func (fs *fileStore) Close() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	for id := range fs.writers {
		fs.closeGame(id)
	}
	return nil
}

func (fs *fileStore) CreateGame(ctx context.Context, g *store.Game, frames []*store.Frame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := store.CheckSequence(-1, frames...); err != nil {
		return err
	}

	w, err := openFileWriter(fs.directory, g.ID, true)
	if err != nil {
		return err
	}
	if err := writeGame(w, g); err != nil {
		w.Close()
		return err
	}
	for _, f := range frames {
		if err := writeFrame(w, f); err != nil {
			w.Close()
			return err
		}
	}

	game := *g
	fs.games[g.ID] = &game
	fs.frames[g.ID] = append([]*store.Frame{}, frames...)
	fs.writers[g.ID] = w
	return nil
}

func (fs *fileStore) PushGameFrame(ctx context.Context, id string, f *store.Frame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	game, frames, err := fs.require(id)
	if err != nil {
		return err
	}
	if err := store.CheckSequence(int64(len(frames))-1, f); err != nil {
		return err
	}
	w, err := fs.requireHandle(id)
	if err != nil {
		return err
	}
	if err := writeFrame(w, f); err != nil {
		return err
	}
	fs.games[id] = game
	fs.frames[id] = append(frames, f)
	return nil
}

func (fs *fileStore) SetGameStatus(ctx context.Context, id string, status store.GameStatus) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	game, frames, err := fs.require(id)
	if err != nil {
		return err
	}
	w, err := fs.requireHandle(id)
	if err != nil {
		return err
	}

	game.Status = status
	if err := writeGame(w, game); err != nil {
		return err
	}
	fs.games[id] = game
	fs.frames[id] = frames
	if status != store.GameStatusRunning {
		fs.closeGame(id)
	}
	return nil
}

func (fs *fileStore) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*store.Frame, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	_, frames, err := fs.require(id)
	if err != nil {
		return nil, err
	}
	return store.Page(frames, limit, offset), nil
}

func (fs *fileStore) GetGame(ctx context.Context, id string) (*store.Game, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	g, _, err := fs.require(id)
	if err != nil {
		return nil, err
	}

	// Copy the game, since this could be modified after this is returned
	// and upset internal state inside the store.
	clone := *g
	return &clone, nil
}

// require returns the game and its frames. Callers that go on to write must
// put them back in the cache, since they now hold a writer for the game.
func (fs *fileStore) require(id string) (*store.Game, []*store.Frame, error) {
	if g, ok := fs.games[id]; ok {
		return g, fs.frames[id], nil
	}

	a, err := readArchive(fs.directory, id)
	if err != nil {
		return nil, nil, err
	}
	return a.game, a.frames, nil
}

func (fs *fileStore) requireHandle(id string) (writer, error) {
	if w, ok := fs.writers[id]; ok {
		return w, nil
	}

	handle, err := openFileWriter(fs.directory, id, false)
	if err != nil {
		return nil, err
	}

	fs.writers[id] = handle
	return handle, nil
}
