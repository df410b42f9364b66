package commands

import (
	"sync"

	"github.com/battlesnakeio/termsnake/store"
)

// frameHolder collects frames arriving from a stream while the viewer plays
// them back.
type frameHolder struct {
	sync.RWMutex
	frames []*store.Frame
	ffc    chan *store.Frame
	done   bool
}

func newFrameHolder() *frameHolder {
	return &frameHolder{ffc: make(chan *store.Frame, 1)}
}

func (fh *frameHolder) append(frame *store.Frame) {
	fh.Lock()
	defer fh.Unlock()

	if len(fh.frames) == 0 {
		fh.ffc <- frame
		close(fh.ffc)
	}

	fh.frames = append(fh.frames, frame)
}

func (fh *frameHolder) get(index int) *store.Frame {
	fh.RLock()
	defer fh.RUnlock()

	if index < 0 || index >= len(fh.frames) {
		return nil
	}

	return fh.frames[index]
}

func (fh *frameHolder) initialFrame() <-chan *store.Frame {
	return fh.ffc
}

func (fh *frameHolder) count() int {
	fh.RLock()
	defer fh.RUnlock()

	return len(fh.frames)
}

// finish marks the stream as complete. A stream without frames releases
// anyone waiting on initialFrame with nil.
func (fh *frameHolder) finish() {
	fh.Lock()
	defer fh.Unlock()

	if len(fh.frames) == 0 && !fh.done {
		close(fh.ffc)
	}
	fh.done = true
}

func (fh *frameHolder) complete() bool {
	fh.RLock()
	defer fh.RUnlock()
	return fh.done
}
