package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/store"
	"github.com/battlesnakeio/termsnake/store/testsuite"
	"github.com/dlsteuer/miniredis"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rs *Store

func TestMain(m *testing.M) {
	redisURL := os.Getenv("REDIS_URL")
	var server *miniredis.Miniredis
	if len(redisURL) == 0 {
		// Setup server
		server = miniredis.NewMiniRedis()
		err := server.Start()
		if err != nil {
			fmt.Println("unable to start local redis instance")
			os.Exit(1)
		}
		redisURL = fmt.Sprintf("redis://%s", server.Addr())
	}

	// Setup store
	s, err := NewStore(redisURL)
	if err != nil {
		fmt.Println("unable to connect redis store")
		os.Exit(1)
	}
	rs = s
	retCode := m.Run()

	rs.Close()
	if server != nil {
		server.Close()
	}
	os.Exit(retCode)
}

func TestRedisStoreSuite(t *testing.T) {
	testsuite.Suite(t, rs, func() {})
}

func TestNewStoreBadURL(t *testing.T) {
	_, err := NewStore("not a url")
	assert.Error(t, err)
}

func TestCreateGameReplacesFrames(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewV4().String()
	g := &store.Game{ID: id, Width: 3, Height: 3, Status: store.GameStatusRunning}
	first := []*store.Frame{
		{Turn: 0, Snake: []board.Point{{X: 0, Y: 0}}, Score: 1},
		{Turn: 1, Snake: []board.Point{{X: 1, Y: 0}}, Score: 1},
	}

	require.NoError(t, rs.CreateGame(ctx, g, first))
	require.NoError(t, rs.CreateGame(ctx, g, first[:1]))

	frames, err := rs.ListGameFrames(ctx, id, 10, 0)
	require.NoError(t, err)
	assert.Len(t, frames, 1, "recreating a game resets its frames")
}

func TestPushFrameUnknownGame(t *testing.T) {
	err := rs.PushGameFrame(context.Background(), uuid.NewV4().String(), &store.Frame{})
	assert.Equal(t, store.ErrNotFound, errors.Cause(err))
}

func TestCreateGameRejectsBadSequence(t *testing.T) {
	g := &store.Game{ID: uuid.NewV4().String()}
	err := rs.CreateGame(context.Background(), g, []*store.Frame{{Turn: 3}})
	assert.Equal(t, store.ErrInvalidSequence, errors.Cause(err))
}
