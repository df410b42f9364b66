package board

// Cell is the state of a single grid square.
type Cell uint8

// Cell states. A cell holds exactly one of them.
const (
	Empty Cell = iota
	Fruit
	SnakeHead
	SnakeTail
)

// Rune returns the character used for the cell in the textual board.
func (c Cell) Rune() rune {
	switch c {
	case Fruit:
		return '@'
	case SnakeHead:
		return 'O'
	case SnakeTail:
		return 'o'
	default:
		return '.'
	}
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Fruit:
		return "fruit"
	case SnakeHead:
		return "head"
	case SnakeTail:
		return "tail"
	}
	return "unknown"
}
