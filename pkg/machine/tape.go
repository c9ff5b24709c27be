package machine

// Tape is the machine's memory: byte cells addressed from 0 upward that
// grow on demand. MaxCells bounds growth when non-zero.
type Tape struct {
	cells    []byte
	ptr      int
	MaxCells int
}

// NewTape returns a tape with a single zero cell under the pointer.
func NewTape() *Tape {
	return &Tape{cells: make([]byte, 1, 64)}
}

// Pointer returns the current data pointer.
func (t *Tape) Pointer() int { return t.ptr }

// Len returns how many cells have been materialised so far.
func (t *Tape) Len() int { return len(t.cells) }

// Get returns the cell under the pointer.
func (t *Tape) Get() byte { return t.cells[t.ptr] }

// Set stores v in the cell under the pointer.
func (t *Tape) Set(v byte) { t.cells[t.ptr] = v }

// Increment adds one to the current cell, wrapping 255 to 0.
func (t *Tape) Increment() { t.cells[t.ptr]++ }

// Decrement subtracts one from the current cell, wrapping 0 to 255.
func (t *Tape) Decrement() { t.cells[t.ptr]-- }

// Right moves the pointer one cell right, appending a zero cell when the
// pointer walks off the materialised end.
func (t *Tape) Right() error {
	if t.ptr+1 == len(t.cells) {
		if t.MaxCells > 0 && len(t.cells) >= t.MaxCells {
			return ErrTapeLimit
		}
		t.cells = append(t.cells, 0)
	}
	t.ptr++
	return nil
}

// Left moves the pointer one cell left. Address 0 is the left edge.
func (t *Tape) Left() error {
	if t.ptr == 0 {
		return ErrPointerUnderflow
	}
	t.ptr--
	return nil
}

// Cell returns the value at addr; cells never visited read as zero.
func (t *Tape) Cell(addr int) byte {
	if addr < 0 || addr >= len(t.cells) {
		return 0
	}
	return t.cells[addr]
}

// Snapshot copies the materialised cells.
func (t *Tape) Snapshot() []byte {
	out := make([]byte, len(t.cells))
	copy(out, t.cells)
	return out
}
