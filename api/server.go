// Package api serves recorded games over HTTP and streams their frames over a
// websocket so games can be replayed remotely.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/battlesnakeio/termsnake/config"
	"github.com/battlesnakeio/termsnake/store"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// PollInterval is how often a socket checks a running game for new frames.
var PollInterval = 100 * time.Millisecond

// StatusResponse is returned by GET /games/:id.
type StatusResponse struct {
	Game      *store.Game
	LastFrame *store.Frame
}

// FramesResponse is returned by GET /games/:id/frames.
type FramesResponse struct {
	Frames []*store.Frame
	Count  int
}

// Server is the http server for recorded games.
type Server struct {
	hs    *http.Server
	store store.Store
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// New creates a new api server listening on addr.
func New(addr string, s store.Store) *Server {
	srv := &Server{store: s}

	router := httprouter.New()
	router.GET("/games/:id", srv.getStatus)
	router.GET("/games/:id/frames", srv.listFrames)
	router.GET("/socket/:id", srv.framesSocket)

	srv.hs = &http.Server{
		Addr:    addr,
		Handler: cors.Default().Handler(router),
	}
	return srv
}

// Handler returns the http handler of the server.
func (s *Server) Handler() http.Handler { return s.hs.Handler }

// WaitForExit serves until the server is shut down.
func (s *Server) WaitForExit() error {
	err := s.hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	game, err := s.store.GetGame(r.Context(), id)
	if err != nil {
		storeError(w, err, id)
		return
	}
	frames, err := s.store.ListGameFrames(r.Context(), id, 1, -1)
	if err != nil {
		storeError(w, err, id)
		return
	}

	resp := &StatusResponse{Game: game}
	if len(frames) > 0 {
		resp.LastFrame = frames[0]
	}
	writeJSON(w, resp)
}

func (s *Server) listFrames(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil || limit <= 0 {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	frames, err := s.store.ListGameFrames(r.Context(), id, limit, offset)
	if err != nil {
		storeError(w, err, id)
		return
	}
	if frames == nil {
		frames = []*store.Frame{}
	}
	writeJSON(w, &FramesResponse{Frames: frames, Count: len(frames)})
}

func (s *Server) framesSocket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, err := s.store.GetGame(r.Context(), id); err != nil {
		storeError(w, err, id)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("game", id).Error("unable to upgrade connection")
		return
	}
	defer func() {
		if err := ws.Close(); err != nil {
			log.WithError(err).WithField("game", id).Debug("error closing websocket")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// The client never sends anything, reading only notices it leaving.
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := s.streamFrames(ctx, ws, id); err != nil {
		if ctx.Err() == nil {
			log.WithError(err).WithField("game", id).Error("unable to stream frames")
		}
		return
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		log.WithError(err).WithField("game", id).Debug("unable to send close")
	}
}

// streamFrames writes every frame of the game, waiting for new ones while it
// is still running.
func (s *Server) streamFrames(ctx context.Context, ws *websocket.Conn, id string) error {
	limiter := rate.NewLimiter(config.ReplayRate, config.ReplayBurst)
	offset := 0
	finished := false
	for {
		frames, err := s.store.ListGameFrames(ctx, id, defaultPageSize, offset)
		if err != nil {
			return errors.Wrap(err, "unable to list frames")
		}
		for _, f := range frames {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			if err := ws.WriteJSON(f); err != nil {
				return errors.Wrap(err, "unable to write frame")
			}
		}
		offset += len(frames)
		if len(frames) > 0 {
			continue
		}
		// One more pass after the game ends picks up frames written
		// between the last list and the status change.
		if finished {
			return nil
		}

		game, err := s.store.GetGame(ctx, id)
		if err != nil {
			return errors.Wrap(err, "unable to get game")
		}
		if game.Status != store.GameStatusRunning {
			finished = true
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(PollInterval):
		}
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	return i, errors.Wrapf(err, "invalid %s", name)
}

func storeError(w http.ResponseWriter, err error, id string) {
	if errors.Cause(err) == store.ErrNotFound {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	log.WithError(err).WithField("game", id).Error("store request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("unable to write response")
	}
}
