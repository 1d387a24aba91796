package game

import "github.com/cbodonnell/tetrafall/pkg/game/types"

// catalog holds the spawn orientation of every tetromino. It is never
// handed out directly; ShapeFor returns copies.
var catalog = map[types.Cell]types.Shape{
	types.I: types.ShapeFromRows(
		[]int{1, 1, 1, 1},
	),
	types.O: types.ShapeFromRows(
		[]int{1, 1},
		[]int{1, 1},
	),
	types.T: types.ShapeFromRows(
		[]int{0, 1, 0},
		[]int{1, 1, 1},
	),
	types.S: types.ShapeFromRows(
		[]int{0, 1, 1},
		[]int{1, 1, 0},
	),
	types.Z: types.ShapeFromRows(
		[]int{1, 1, 0},
		[]int{0, 1, 1},
	),
	types.J: types.ShapeFromRows(
		[]int{1, 0, 0},
		[]int{1, 1, 1},
	),
	types.L: types.ShapeFromRows(
		[]int{0, 0, 1},
		[]int{1, 1, 1},
	),
}

// ShapeFor returns a copy of the spawn shape for kind, or nil when kind is
// not a tetromino.
func ShapeFor(kind types.Cell) types.Shape {
	shape, ok := catalog[kind]
	if !ok {
		return nil
	}
	return shape.Clone()
}
