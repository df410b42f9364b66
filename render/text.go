// Package render draws boards on a terminal, either as plain text with ANSI
// escapes or through termbox.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/pkg/errors"
)

// ClearScreen clears the terminal and moves the cursor to the top left.
const ClearScreen = "\x1b[2J\x1b[H"

// Text writes the textual grid to W after clearing the screen. Lines end in
// "\r\n" because the terminal is in raw mode while playing.
type Text struct {
	W io.Writer
}

// Render draws b.
func (t *Text) Render(b *board.Board, turn int64) error {
	grid := strings.Replace(b.String(), "\n", "\r\n", -1)
	_, err := io.WriteString(t.W, ClearScreen+grid)
	return errors.Wrap(err, "unable to render board")
}

// End prints the final score.
func (t *Text) End(r board.Result) error {
	_, err := fmt.Fprintf(t.W, "Game ended, your score: %d\r\n", r.Score)
	return errors.Wrap(err, "unable to render result")
}
