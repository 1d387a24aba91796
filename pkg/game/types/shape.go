package types

// Shape is an occupancy matrix indexed as Shape[row][column].
type Shape [][]bool

// ShapeFromRows builds a shape from 0/1 rows.
func ShapeFromRows(rows ...[]int) Shape {
	shape := make(Shape, len(rows))
	for i, row := range rows {
		shape[i] = make([]bool, len(row))
		for j, v := range row {
			shape[i][j] = v != 0
		}
	}
	return shape
}

func (s Shape) Rows() int {
	return len(s)
}

func (s Shape) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Rotate returns s turned 90 degrees clockwise. The receiver is not modified.
func (s Shape) Rotate() Shape {
	rows, cols := s.Rows(), s.Cols()
	rotated := make(Shape, cols)
	for i := range rotated {
		rotated[i] = make([]bool, rows)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rotated[j][rows-1-i] = s[i][j]
		}
	}
	return rotated
}

func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	for i := range s {
		clone[i] = make([]bool, len(s[i]))
		copy(clone[i], s[i])
	}
	return clone
}

func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(other[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// Occupied returns the number of filled cells.
func (s Shape) Occupied() int {
	n := 0
	for _, row := range s {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Flatten returns the shape in row-major order as 0/1 bytes.
func (s Shape) Flatten() []uint8 {
	out := make([]uint8, 0, s.Rows()*s.Cols())
	for _, row := range s {
		for _, v := range row {
			if v {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

// ShapeFromFlat rebuilds a shape from row-major 0/1 bytes. Negative
// dimensions count as zero.
func ShapeFromFlat(rows, cols int, flat []uint8) Shape {
	rows, cols = max(rows, 0), max(cols, 0)
	shape := make(Shape, rows)
	for i := range shape {
		shape[i] = make([]bool, cols)
		for j := range shape[i] {
			k := i*cols + j
			shape[i][j] = k < len(flat) && flat[k] != 0
		}
	}
	return shape
}
