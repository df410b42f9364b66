package board

// deque is a fixed capacity ring of points. The snake can never hold more
// segments than the grid has cells, so the ring never grows.
type deque struct {
	buf  []Point
	head int
	n    int
}

func newDeque(capacity int) deque {
	return deque{buf: make([]Point, capacity)}
}

func (d *deque) len() int { return d.n }

func (d *deque) front() Point { return d.buf[d.head] }

func (d *deque) at(i int) Point { return d.buf[(d.head+i)%len(d.buf)] }

func (d *deque) pushFront(p Point) {
	if d.n == len(d.buf) {
		panic("board: snake longer than grid")
	}
	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = p
	d.n++
}

func (d *deque) pushBack(p Point) {
	if d.n == len(d.buf) {
		panic("board: snake longer than grid")
	}
	d.buf[(d.head+d.n)%len(d.buf)] = p
	d.n++
}

func (d *deque) popBack() Point {
	d.n--
	return d.buf[(d.head+d.n)%len(d.buf)]
}
