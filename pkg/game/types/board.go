package types

import "strings"

// Board is a fixed size grid indexed as Cells[row][column], row 0 at the top.
type Board struct {
	Cells [][]Cell `json:"cells"`
}

// NewBoard returns an all-empty board.
func NewBoard(width, height int) Board {
	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
	}
	return Board{Cells: cells}
}

func (b Board) Width() int {
	if len(b.Cells) == 0 {
		return 0
	}
	return len(b.Cells[0])
}

func (b Board) Height() int {
	return len(b.Cells)
}

// InBounds reports whether the column/row pair addresses a cell of the board.
func (b Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width() && y >= 0 && y < b.Height()
}

func (b Board) Get(x, y int) Cell {
	return b.Cells[y][x]
}

func (b Board) Set(x, y int, cell Cell) {
	b.Cells[y][x] = cell
}

// Clear empties every cell without changing the dimensions.
func (b Board) Clear() {
	for y := range b.Cells {
		for x := range b.Cells[y] {
			b.Cells[y][x] = Empty
		}
	}
}

// IsRowFull reports whether every cell of row y is occupied.
func (b Board) IsRowFull(y int) bool {
	for _, cell := range b.Cells[y] {
		if cell == Empty {
			return false
		}
	}
	return true
}

// RemoveRow deletes row y, shifts every row above it down by one and
// inserts an empty row at the top.
func (b Board) RemoveRow(y int) {
	removed := b.Cells[y]
	copy(b.Cells[1:y+1], b.Cells[0:y])
	for x := range removed {
		removed[x] = Empty
	}
	b.Cells[0] = removed
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	cells := make([][]Cell, len(b.Cells))
	for y := range b.Cells {
		cells[y] = make([]Cell, len(b.Cells[y]))
		copy(cells[y], b.Cells[y])
	}
	return Board{Cells: cells}
}

// Flatten returns the cells in row-major order.
func (b Board) Flatten() []uint8 {
	out := make([]uint8, 0, b.Width()*b.Height())
	for _, row := range b.Cells {
		for _, cell := range row {
			out = append(out, uint8(cell))
		}
	}
	return out
}

// BoardFromFlat rebuilds a board from row-major cells. Negative dimensions
// count as zero.
func BoardFromFlat(width, height int, flat []uint8) Board {
	width, height = max(width, 0), max(height, 0)
	board := NewBoard(width, height)
	for i, v := range flat {
		if width == 0 || i >= width*height {
			break
		}
		board.Cells[i/width][i%width] = Cell(v)
	}
	return board
}

func (b Board) String() string {
	sb := strings.Builder{}
	for _, row := range b.Cells {
		for _, cell := range row {
			sb.WriteString(cell.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
