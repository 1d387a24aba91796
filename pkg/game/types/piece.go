package types

// Piece is the falling tetromino. X and Y locate the top-left corner of
// Shape in board coordinates; Y may be negative while the piece enters.
type Piece struct {
	Kind  Cell  `json:"kind"`
	Shape Shape `json:"shape"`
	X     int   `json:"x"`
	Y     int   `json:"y"`
}

func (p *Piece) Copy() *Piece {
	if p == nil {
		return nil
	}
	return &Piece{
		Kind:  p.Kind,
		Shape: p.Shape.Clone(),
		X:     p.X,
		Y:     p.Y,
	}
}

// Cells calls fn with the board coordinates of every occupied cell.
func (p *Piece) Cells(fn func(x, y int)) {
	for i, row := range p.Shape {
		for j, filled := range row {
			if filled {
				fn(p.X+j, p.Y+i)
			}
		}
	}
}
