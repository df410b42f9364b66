package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/store"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(turn int64, status store.GameStatus) *store.Frame {
	return &store.Frame{
		Turn:   turn,
		Snake:  []board.Point{{X: int(turn), Y: 0}},
		Status: status,
		Score:  1,
	}
}

func createAPIServer(t *testing.T, frames int, status store.GameStatus) (*Server, store.Store) {
	s := store.InMemStore()
	var fs []*store.Frame
	for i := 0; i < frames; i++ {
		fs = append(fs, frame(int64(i), store.GameStatusRunning))
	}
	err := s.CreateGame(context.Background(), &store.Game{ID: "abc_123", Width: 16, Height: 16, Status: status}, fs)
	require.NoError(t, err)
	return New(":1234", s), s
}

func TestStatus(t *testing.T) {
	s, _ := createAPIServer(t, 3, store.GameStatusLost)

	req, _ := http.NewRequest("GET", "/games/abc_123", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := &StatusResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(resp))
	require.Equal(t, "abc_123", resp.Game.ID)
	require.Equal(t, store.GameStatusLost, resp.Game.Status)
	require.Equal(t, int64(2), resp.LastFrame.Turn)
}

func TestStatusNotFound(t *testing.T) {
	s, _ := createAPIServer(t, 1, store.GameStatusLost)

	for _, path := range []string{"/games/nope", "/games/nope/frames", "/socket/nope"} {
		req, _ := http.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, req)
		require.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}

func TestListFrames(t *testing.T) {
	s, _ := createAPIServer(t, 5, store.GameStatusLost)

	req, _ := http.NewRequest("GET", "/games/abc_123/frames?offset=1&limit=3", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := &FramesResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(resp))
	require.Equal(t, 3, resp.Count)
	require.Equal(t, int64(1), resp.Frames[0].Turn)
	require.Equal(t, int64(3), resp.Frames[2].Turn)

	req, _ = http.NewRequest("GET", "/games/abc_123/frames?limit=x", nil)
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClient(t *testing.T) {
	s, _ := createAPIServer(t, 4, store.GameStatusWon)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c := NewClient(ts.URL)
	status, err := c.Status(context.Background(), "abc_123")
	require.NoError(t, err)
	require.Equal(t, store.GameStatusWon, status.Game.Status)

	page, err := c.Frames(context.Background(), "abc_123", -2, 10)
	require.NoError(t, err)
	require.Equal(t, 2, page.Count)

	_, err = c.Status(context.Background(), "missing")
	require.Equal(t, store.ErrNotFound, errors.Cause(err))
}

func TestStreamFinishedGame(t *testing.T) {
	s, _ := createAPIServer(t, 5, store.GameStatusLost)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	var turns []int64
	err := NewClient(ts.URL).StreamFrames(context.Background(), "abc_123", func(f *store.Frame) error {
		turns = append(turns, f.Turn)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 2, 3, 4}, turns)
}

func TestStreamRunningGame(t *testing.T) {
	PollInterval = time.Millisecond
	s, st := createAPIServer(t, 1, store.GameStatusRunning)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx := context.Background()
		for i := int64(1); i < 4; i++ {
			time.Sleep(5 * time.Millisecond)
			assert.NoError(t, st.PushGameFrame(ctx, "abc_123", frame(i, store.GameStatusRunning)))
		}
		assert.NoError(t, st.PushGameFrame(ctx, "abc_123", frame(4, store.GameStatusLost)))
		assert.NoError(t, st.SetGameStatus(ctx, "abc_123", store.GameStatusLost))
	}()

	var turns []int64
	err := NewClient(ts.URL).StreamFrames(context.Background(), "abc_123", func(f *store.Frame) error {
		turns = append(turns, f.Turn)
		return nil
	})
	wg.Wait()
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 2, 3, 4}, turns)
}
