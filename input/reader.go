package input

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/battlesnakeio/termsnake/board"
	log "github.com/sirupsen/logrus"
)

// EscapeTimeout is how long a lone ESC waits for the rest of a sequence
// before it counts as the escape key.
var EscapeTimeout = 50 * time.Millisecond

// Keys decodes key presses from a raw mode terminal. A goroutine reads the
// underlying reader until it is exhausted or Close is called; a reader that
// never returns keeps that goroutine blocked. Keys is not safe for concurrent
// use.
type Keys struct {
	chunks chan []byte
	errc   chan error
	stop   chan struct{}
	once   sync.Once

	buf     []byte
	pending []Key
	err     error
}

// NewKeys starts reading r.
func NewKeys(r io.Reader) *Keys {
	k := &Keys{
		chunks: make(chan []byte),
		errc:   make(chan error),
		stop:   make(chan struct{}),
	}
	go k.pump(r)
	return k
}

func (k *Keys) pump(r io.Reader) {
	for {
		data := make([]byte, 256)
		n, err := r.Read(data)
		if n > 0 {
			select {
			case k.chunks <- data[:n]:
			case <-k.stop:
				return
			}
		}
		if err != nil {
			select {
			case k.errc <- err:
			case <-k.stop:
			}
			return
		}
	}
}

// Close stops handing out input.
func (k *Keys) Close() {
	k.once.Do(func() { close(k.stop) })
}

// Next returns the next key press. io.EOF is returned once the reader is
// exhausted, ctx.Err() when ctx is done first.
func (k *Keys) Next(ctx context.Context) (Key, error) {
	for len(k.pending) == 0 {
		if k.err != nil {
			return Key{}, k.err
		}
		if err := k.fill(ctx); err != nil {
			return Key{}, err
		}
	}
	key := k.pending[0]
	k.pending = k.pending[1:]
	return key, nil
}

func (k *Keys) fill(ctx context.Context) error {
	var timeout <-chan time.Time
	if len(k.buf) > 0 {
		t := time.NewTimer(EscapeTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case data := <-k.chunks:
		k.buf = append(k.buf, data...)
		keys, n := decode(k.buf)
		k.pending = append(k.pending, keys...)
		k.buf = append([]byte(nil), k.buf[n:]...)
	case err := <-k.errc:
		k.flush()
		k.err = err
	case <-timeout:
		k.flush()
	}
	return nil
}

// flush gives up on an unfinished sequence.
func (k *Keys) flush() {
	if len(k.buf) > 0 {
		k.pending = append(k.pending, lone(k.buf))
		k.buf = nil
	}
}

// ReadKeys forwards directions read from r to out until r is exhausted or ctx
// is done. out is never closed by ReadKeys.
func ReadKeys(ctx context.Context, r io.Reader, out chan<- board.Direction, quit func()) error {
	keys := NewKeys(r)
	defer keys.Close()
	return ForwardKeys(ctx, keys, out, quit)
}

// ForwardKeys forwards the moves from keys to out. Quit keys call quit, every
// other key is dropped.
func ForwardKeys(ctx context.Context, keys *Keys, out chan<- board.Direction, quit func()) error {
	for {
		key, err := keys.Next(ctx)
		if err == io.EOF || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case key.Quit:
			if quit != nil {
				quit()
			}
		case key.Move:
			if !send(ctx, out, key.Direction) {
				return nil
			}
		}
	}
}

// send delivers d unless the consumer has gone away.
func send(ctx context.Context, out chan<- board.Direction, d board.Direction) bool {
	select {
	case out <- d:
		return true
	case <-ctx.Done():
		log.WithField("direction", d).Warn("dropping direction, game is no longer reading input")
		return false
	}
}
