package render

import (
	"fmt"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	snakeColor   = termbox.ColorGreen
	headColor    = termbox.ColorYellow
	fruitColor   = termbox.ColorRed
)

// Termbox draws a boxed board centred in the terminal. termbox must be
// initialised by the caller.
type Termbox struct {
	Title string
}

// Render draws b and a status line.
func (t *Termbox) Render(b *board.Board, turn int64) error {
	t.draw(b, fmt.Sprintf("turn %d  score %d", turn, b.Result().Score))
	return errors.Wrap(termbox.Flush(), "unable to flush termbox")
}

// End prints the final score below the last board.
func (t *Termbox) End(r board.Result) error {
	_, h := termbox.Size()
	tbprint(0, h-1, defaultColor, defaultColor, fmt.Sprintf("Game ended, your score: %d", r.Score))
	return errors.Wrap(termbox.Flush(), "unable to flush termbox")
}

// Frame draws a board rebuilt from a recorded frame.
func (t *Termbox) Frame(b *board.Board, status string) error {
	t.draw(b, status)
	return errors.Wrap(termbox.Flush(), "unable to flush termbox")
}

func (t *Termbox) draw(b *board.Board, status string) {
	termbox.Clear(defaultColor, defaultColor)

	size := b.Size()
	var (
		w, h   = termbox.Size()
		left   = (w - size.Width) / 2
		top    = h/2 - size.Height/2 - 1
		bottom = top + size.Height + 1
	)

	title := t.Title
	if title == "" {
		title = "Snake Game"
	}
	tbprint(left, top-1, defaultColor, defaultColor, title)
	renderBox(size.Width, top, bottom, left)
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			renderCell(left+x, top+1+y, b.Cell(board.Point{X: x, Y: y}))
		}
	}
	tbprint(left, bottom+1, defaultColor, defaultColor, status)
}

func renderCell(x, y int, c board.Cell) {
	switch c {
	case board.SnakeHead:
		termbox.SetCell(x, y, ' ', headColor, headColor)
	case board.SnakeTail:
		termbox.SetCell(x, y, ' ', snakeColor, snakeColor)
	case board.Fruit:
		termbox.SetCell(x, y, c.Rune(), fruitColor, bgColor)
	}
}

func renderBox(width, top, bottom, left int) {
	for i := top; i < bottom; i++ {
		termbox.SetCell(left-1, i, '│', defaultColor, bgColor)
		termbox.SetCell(left+width, i, '│', defaultColor, bgColor)
	}

	termbox.SetCell(left-1, top, '┌', defaultColor, bgColor)
	termbox.SetCell(left-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(left+width, top, '┐', defaultColor, bgColor)
	termbox.SetCell(left+width, bottom, '┘', defaultColor, bgColor)

	fill(left, top, width, 1, termbox.Cell{Ch: '─'})
	fill(left, bottom, width, 1, termbox.Cell{Ch: '─'})
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}

// Print writes msg at the top left corner and flushes.
func Print(msg string) error {
	tbprint(0, 0, defaultColor, defaultColor, msg)
	return errors.Wrap(termbox.Flush(), "unable to flush termbox")
}
