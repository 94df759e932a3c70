// Package tape models the machine's unbounded working storage as a sparse
// map from cell index to symbol. Cells that were never written read back as
// blank, so a tape of any length costs only the cells actually in use.
package tape

import "strings"

// Blank is the symbol of an unwritten cell, the empty string.
const Blank = ""

// Direction selects where the head goes after a step. Anything that is not
// a recognized form moves the head right.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Start Direction = "start"
	End   Direction = "end"
)

// Tape is a sparse, bidirectionally infinite symbol store with a head
// position. The zero value is not usable; construct with New.
type Tape struct {
	cells map[int]string
	head  int
}

// New builds a tape from an input string, one cell per byte starting at
// index zero. Spaces denote blank cells and are not stored. The head starts
// on cell zero.
func New(input string) *Tape {
	t := &Tape{cells: make(map[int]string)}
	for i := 0; i < len(input); i++ {
		if input[i] != ' ' {
			t.cells[i] = string(input[i])
		}
	}
	return t
}

// Head reports the current cell index.
func (t *Tape) Head() int { return t.head }

// Get reads the symbol at the given offset from the head. Unwritten cells
// read as Blank.
func (t *Tape) Get(offset int) string { return t.cells[t.head+offset] }

// Change writes a symbol under the head. Writing Blank erases the cell.
func (t *Tape) Change(symbol string) {
	if symbol == Blank {
		delete(t.cells, t.head)
		return
	}
	t.cells[t.head] = symbol
}

// Move shifts the head one cell for left/right, or jumps it to the lowest
// or highest written cell for start/end (cell zero on a blank tape). Any
// unrecognized direction moves right.
func (t *Tape) Move(dir Direction) {
	switch dir {
	case Left:
		t.head--
	case Start:
		low, _ := t.bounds()
		t.head = low
	case End:
		_, high := t.bounds()
		t.head = high
	default:
		t.head++
	}
}

// Extent reports the lowest and highest written cell, or (0, 0) when the
// tape is entirely blank.
func (t *Tape) Extent() (low, high int) { return t.bounds() }

// Symbols lists every distinct non-blank symbol currently on the tape, in
// cell order.
func (t *Tape) Symbols() []string {
	low, high := t.bounds()
	seen := make(map[string]bool)
	var out []string
	for i := low; i <= high; i++ {
		s, ok := t.cells[i]
		if ok && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// String renders the written extent of the tape, blanks as spaces. An empty
// tape renders as the empty string.
func (t *Tape) String() string {
	if len(t.cells) == 0 {
		return ""
	}
	low, high := t.bounds()
	var b strings.Builder
	for i := low; i <= high; i++ {
		if s, ok := t.cells[i]; ok {
			b.WriteString(s)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// bounds reports the lowest and highest written cell, or (0, 0) when the
// tape is entirely blank.
func (t *Tape) bounds() (low, high int) {
	if len(t.cells) == 0 {
		return 0, 0
	}
	first := true
	for i := range t.cells {
		if first {
			low, high = i, i
			first = false
			continue
		}
		if i < low {
			low = i
		}
		if i > high {
			high = i
		}
	}
	return low, high
}
