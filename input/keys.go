// Package input turns key presses into snake directions. Keys are read either
// from a raw mode terminal or from termbox events and forwarded on a channel
// the game loop drains once per tick.
package input

import (
	"unicode/utf8"

	"github.com/battlesnakeio/termsnake/board"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b

	// maxEscape bounds how far a CSI sequence is scanned for its final byte.
	maxEscape = 16
)

// Key is a single decoded key press. A key that is neither a move nor a quit
// is still reported so callers waiting for any key see it.
type Key struct {
	Direction board.Direction
	Move      bool
	Quit      bool
}

// KeyDirection maps the movement keys w, a, s and d onto directions.
func KeyDirection(r rune) (board.Direction, bool) {
	switch r {
	case 'w':
		return board.Up, true
	case 'a':
		return board.Left, true
	case 's':
		return board.Down, true
	case 'd':
		return board.Right, true
	}
	return 0, false
}

// IsQuit reports whether r ends the game. Escape is handled by the decoder,
// since it also starts the arrow key sequences.
func IsQuit(r rune) bool {
	return r == 'q' || r == 'Q' || r == keyCtrlC
}

// decode parses as many keys out of data as it can and returns them with the
// number of bytes consumed. An escape sequence or rune cut short at the end of
// data is left unconsumed.
func decode(data []byte) ([]Key, int) {
	var keys []Key
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == keyEsc:
			n, key := decodeEscape(data[i:])
			if n == 0 {
				return keys, i
			}
			keys = append(keys, key)
			i += n
		case b < utf8.RuneSelf:
			keys = append(keys, runeKey(rune(b)))
			i++
		default:
			if !utf8.FullRune(data[i:]) {
				return keys, i
			}
			r, size := utf8.DecodeRune(data[i:])
			keys = append(keys, runeKey(r))
			i += size
		}
	}
	return keys, i
}

// decodeEscape decodes a sequence starting with ESC. It returns 0 when more
// bytes are needed to tell what the sequence is.
func decodeEscape(data []byte) (int, Key) {
	if len(data) < 2 {
		return 0, Key{}
	}

	switch b := data[1]; {
	case b == '[':
		for i := 2; i < len(data) && i < maxEscape; i++ {
			c := data[i]
			switch {
			case c >= 0x40 && c <= 0x7e:
				return i + 1, arrowKey(c)
			case c < 0x20 || c > 0x3f:
				// Broken sequence, drop what was read so far.
				return i, Key{}
			}
		}
		if len(data) >= maxEscape {
			return maxEscape, Key{}
		}
		return 0, Key{}
	case b == 'O':
		if len(data) < 3 {
			return 0, Key{}
		}
		return 3, arrowKey(data[2])
	case b < 0x20:
		// ESC followed by ESC or a control key: the first one stands alone.
		return 1, Key{Quit: true}
	}
	// Alt combination.
	return 2, Key{}
}

// lone is the key an undecodable tail of input stands for once no more bytes
// follow it.
func lone(data []byte) Key {
	if len(data) == 1 && data[0] == keyEsc {
		return Key{Quit: true}
	}
	return Key{}
}

func arrowKey(final byte) Key {
	switch final {
	case 'A':
		return Key{Direction: board.Up, Move: true}
	case 'B':
		return Key{Direction: board.Down, Move: true}
	case 'C':
		return Key{Direction: board.Right, Move: true}
	case 'D':
		return Key{Direction: board.Left, Move: true}
	}
	return Key{}
}

func runeKey(r rune) Key {
	if IsQuit(r) {
		return Key{Quit: true}
	}
	if d, ok := KeyDirection(r); ok {
		return Key{Direction: d, Move: true}
	}
	return Key{}
}
