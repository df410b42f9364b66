package render

import (
	"context"
	"io"

	"github.com/battlesnakeio/termsnake/input"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
)

var tutorial = []string{
	"To change snake movement direction use keys 'w', 'a', 's' and 'd'.",
	"Try to collect as many fruits as possible '@'.",
	"Press any key to continue...",
}

// Tutorial prints the controls to w and waits for the next key press. A whole
// escape sequence counts as one key, so nothing is left for the game to read.
func Tutorial(w io.Writer, keys *input.Keys) error {
	text := ClearScreen
	for _, line := range tutorial {
		text += line + "\r\n"
	}
	if _, err := io.WriteString(w, text); err != nil {
		return errors.Wrap(err, "unable to write tutorial")
	}
	if _, err := keys.Next(context.Background()); err != nil {
		return errors.Wrap(err, "unable to read key")
	}
	return nil
}

// TermboxTutorial shows the controls and waits for the next key event.
func TermboxTutorial(events <-chan termbox.Event) error {
	termbox.Clear(defaultColor, defaultColor)
	w, h := termbox.Size()
	top := h/2 - len(tutorial)/2
	for i, line := range tutorial {
		tbprint((w-len(line))/2, top+i, defaultColor, defaultColor, line)
	}
	if err := termbox.Flush(); err != nil {
		return errors.Wrap(err, "unable to flush termbox")
	}
	for ev := range events {
		if ev.Type == termbox.EventKey {
			return nil
		}
	}
	return nil
}
