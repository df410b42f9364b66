// Package redisstore keeps recorded games in redis: a JSON string per game
// and a list of JSON frames next to it.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/battlesnakeio/termsnake/store"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// Store is a redis backed store.Store.
type Store struct {
	client *redis.Client
}

// NewStore will create a new instance of an underlying redis client, so it should not be re-created across "threads"
// - connectURL see: github.com/go-redis/redis/options.go for URL specifics
// The underlying redis client will be immediately tested for connectivity, so don't call this until you know redis can connect.
// Returns a new instance OR an error if unable (meaning an issue connecting to your redis URL)
func NewStore(connectURL string) (*Store, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)

	// Validate it's connected
	err = client.Ping().Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	return &Store{client: client}, nil
}

// Close closes the redis client.
func (rs *Store) Close() error {
	return rs.client.Close()
}

func gameKey(id string) string   { return fmt.Sprintf("game:%s", id) }
func framesKey(id string) string { return fmt.Sprintf("game:%s:frames", id) }

// CreateGame will insert a game with the default game frames.
func (rs *Store) CreateGame(ctx context.Context, g *store.Game, frames []*store.Frame) error {
	if err := store.CheckSequence(-1, frames...); err != nil {
		return err
	}
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	values, err := encodeFrames(frames)
	if err != nil {
		return err
	}

	_, err = rs.client.TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.Set(gameKey(g.ID), data, 0)
		pipe.Del(framesKey(g.ID))
		if len(values) > 0 {
			pipe.RPush(framesKey(g.ID), values...)
		}
		return nil
	})
	return errors.Wrap(err, "unable to create game")
}

// PushGameFrame will push a game frame onto the list of frames. The turn is
// checked against the list length while the key is watched.
func (rs *Store) PushGameFrame(ctx context.Context, id string, f *store.Frame) error {
	values, err := encodeFrames([]*store.Frame{f})
	if err != nil {
		return err
	}

	return rs.client.Watch(func(tx *redis.Tx) error {
		exists, err := tx.Exists(gameKey(id)).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return store.ErrNotFound
		}
		n, err := tx.LLen(framesKey(id)).Result()
		if err != nil {
			return err
		}
		if err := store.CheckSequence(n-1, f); err != nil {
			return err
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.RPush(framesKey(id), values...)
			return nil
		})
		return err
	}, framesKey(id))
}

// SetGameStatus is used to set a specific game status.
func (rs *Store) SetGameStatus(ctx context.Context, id string, status store.GameStatus) error {
	return rs.client.Watch(func(tx *redis.Tx) error {
		g, err := getGame(tx, id)
		if err != nil {
			return err
		}
		g.Status = status
		data, err := json.Marshal(g)
		if err != nil {
			return err
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(gameKey(id), data, 0)
			return nil
		})
		return err
	}, gameKey(id))
}

// ListGameFrames will list frames by an offset and limit, it supports
// negative offset.
func (rs *Store) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*store.Frame, error) {
	if _, err := getGame(rs.client, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	n, err := rs.client.LLen(framesKey(id)).Result()
	if err != nil {
		return nil, err
	}
	start := int64(offset)
	if start < 0 {
		start = n + start
		if start < 0 {
			start = 0
		}
	}
	if start >= n {
		return nil, nil
	}

	values, err := rs.client.LRange(framesKey(id), start, start+int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	frames := make([]*store.Frame, 0, len(values))
	for _, v := range values {
		f := &store.Frame{}
		if err := json.Unmarshal([]byte(v), f); err != nil {
			return nil, errors.Wrapf(err, "corrupt frame for %s", id)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// GetGame will fetch the game.
func (rs *Store) GetGame(ctx context.Context, id string) (*store.Game, error) {
	return getGame(rs.client, id)
}

type getter interface {
	Get(key string) *redis.StringCmd
}

func getGame(c getter, id string) (*store.Game, error) {
	data, err := c.Get(gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	g := &store.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, errors.Wrapf(err, "corrupt game %s", id)
	}
	return g, nil
}

func encodeFrames(frames []*store.Frame) ([]interface{}, error) {
	values := make([]interface{}, 0, len(frames))
	for _, f := range frames {
		data, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		values = append(values, data)
	}
	return values, nil
}
