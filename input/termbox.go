package input

import (
	"context"

	"github.com/battlesnakeio/termsnake/board"
	termbox "github.com/nsf/termbox-go"
)

// TermboxEvents polls termbox in the background. termbox must be initialised
// first; the goroutine lives until termbox is closed.
func TermboxEvents() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			e := termbox.PollEvent()
			if e.Type == termbox.EventInterrupt {
				return
			}
			ev <- e
		}
	}(eventQueue)
	return eventQueue
}

// EventDirection maps a termbox key event onto a direction. Arrow keys are
// accepted as well as w, a, s and d.
func EventDirection(ev termbox.Event) (board.Direction, bool) {
	if ev.Type != termbox.EventKey {
		return 0, false
	}
	switch ev.Key {
	case termbox.KeyArrowUp:
		return board.Up, true
	case termbox.KeyArrowDown:
		return board.Down, true
	case termbox.KeyArrowLeft:
		return board.Left, true
	case termbox.KeyArrowRight:
		return board.Right, true
	}
	return KeyDirection(ev.Ch)
}

// EventQuit reports whether ev is one of the quit keys.
func EventQuit(ev termbox.Event) bool {
	if ev.Type != termbox.EventKey {
		return false
	}
	if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC {
		return true
	}
	return ev.Ch != 0 && IsQuit(ev.Ch)
}

// ReadTermbox is ReadKeys for termbox events.
func ReadTermbox(ctx context.Context, events <-chan termbox.Event, out chan<- board.Direction, quit func()) {
	for {
		var ev termbox.Event
		select {
		case <-ctx.Done():
			return
		case ev = <-events:
		}

		if EventQuit(ev) {
			if quit != nil {
				quit()
			}
			continue
		}
		if d, ok := EventDirection(ev); ok {
			if !send(ctx, out, d) {
				return
			}
		}
	}
}
