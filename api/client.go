package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/battlesnakeio/termsnake/store"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Client talks to a Server.
type Client struct {
	Addr string
	HTTP *http.Client
}

// NewClient returns a client for the api at addr, e.g. http://localhost:3005.
func NewClient(addr string) *Client {
	return &Client{
		Addr: strings.TrimSuffix(addr, "/"),
		HTTP: &http.Client{Timeout: 5 * time.Second},
	}
}

// Status fetches a game and its latest frame.
func (c *Client) Status(ctx context.Context, id string) (*StatusResponse, error) {
	resp := &StatusResponse{}
	err := c.get(ctx, fmt.Sprintf("%s/games/%s", c.Addr, url.PathEscape(id)), resp)
	return resp, err
}

// Frames fetches a page of frames.
func (c *Client) Frames(ctx context.Context, id string, offset, limit int) (*FramesResponse, error) {
	u := fmt.Sprintf("%s/games/%s/frames?offset=%d&limit=%d", c.Addr, url.PathEscape(id), offset, limit)
	resp := &FramesResponse{}
	err := c.get(ctx, u, resp)
	return resp, err
}

func (c *Client) get(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "unable to build request")
	}
	resp, err := c.HTTP.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "error while getting status")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return store.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return errors.Errorf("unexpected status %s from %s", resp.Status, u)
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(v), "unable to decode response")
}

// StreamFrames calls fn for every frame the server streams for the game. It
// returns nil once the server closes the stream normally.
func (c *Client) StreamFrames(ctx context.Context, id string, fn func(*store.Frame) error) error {
	u, err := url.Parse(c.Addr)
	if err != nil {
		return errors.Wrap(err, "invalid api address")
	}
	u.Scheme = "ws"
	if strings.HasPrefix(c.Addr, "https") {
		u.Scheme = "wss"
	}
	u.Path = "/socket/" + id

	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return errors.Wrapf(err, "unable to dial %s", u)
	}
	defer ws.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ws.Close()
		case <-stop:
		}
	}()

	for {
		mt, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "unable to read frame")
		}
		if mt != websocket.TextMessage {
			continue
		}

		frame := &store.Frame{}
		if err := json.Unmarshal(message, frame); err != nil {
			return errors.Wrap(err, "unable to unmarshal frame")
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}
