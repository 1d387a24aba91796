package types

import (
	"fmt"
	"strconv"
)

// Cell is the content of one board square: Empty or the identity tag of the
// tetromino that was locked there.
type Cell uint8

const (
	Empty Cell = iota
	I
	O
	T
	S
	Z
	J
	L
)

// Kinds lists every tetromino tag in catalog order.
var Kinds = [...]Cell{I, O, T, S, Z, J, L}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "."
	case I:
		return "I"
	case O:
		return "O"
	case T:
		return "T"
	case S:
		return "S"
	case Z:
		return "Z"
	case J:
		return "J"
	case L:
		return "L"
	}
	return "?"
}

// Color returns the CSS color used to draw the cell.
func (c Cell) Color() string {
	switch c {
	case I:
		return "#00f0f0"
	case O:
		return "#f0f000"
	case T:
		return "#a000f0"
	case S:
		return "#00f000"
	case Z:
		return "#f00000"
	case J:
		return "#0000f0"
	case L:
		return "#f0a000"
	}
	return "#000000"
}

// IsPiece reports whether c is one of the seven tetromino tags.
func (c Cell) IsPiece() bool {
	return c >= I && c <= L
}

// MarshalJSON writes the tag as a number so board rows stay JSON arrays
// instead of the base64 strings encoding/json uses for byte slices.
func (c Cell) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(c), 10), nil
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseUint(string(b), 10, 8)
	if err != nil {
		return fmt.Errorf("invalid cell: %s", b)
	}
	*c = Cell(v)
	return nil
}
