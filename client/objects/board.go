package objects

import (
	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// cellGap leaves a dark seam between neighbouring cells.
const cellGap = 1

// BoardObject draws the well, the locked cells and the falling piece of the
// snapshot returned by its source.
type BoardObject struct {
	*BaseObject

	x, y     float32
	cellSize float32
	snapshot func() *gametypes.Snapshot
}

type NewBoardObjectOptions struct {
	// X is the x-coordinate of the top-left corner of the well.
	X float32
	// Y is the y-coordinate of the top-left corner of the well.
	Y float32
	// CellSize is the side of one cell in pixels.
	CellSize float32
	// Snapshot returns the state to draw. A nil snapshot draws an empty well.
	Snapshot func() *gametypes.Snapshot
	// ZIndex is the z-index of the board object.
	ZIndex int
}

func NewBoardObject(id string, opts NewBoardObjectOptions) *BoardObject {
	return &BoardObject{
		BaseObject: NewBaseObject(id, &NewBaseObjectOpts{
			ZIndex: opts.ZIndex,
		}),
		x:        opts.X,
		y:        opts.Y,
		cellSize: opts.CellSize,
		snapshot: opts.Snapshot,
	}
}

// CellRect returns the screen rectangle of the board cell at column cx and
// row cy.
func (o *BoardObject) CellRect(cx, cy int) (x, y, w, h float32) {
	return o.x + float32(cx)*o.cellSize + cellGap,
		o.y + float32(cy)*o.cellSize + cellGap,
		o.cellSize - 2*cellGap,
		o.cellSize - 2*cellGap
}

func (o *BoardObject) Draw(screen *ebiten.Image) {
	snapshot := o.snapshot()
	if snapshot == nil || snapshot.Board.Height() == 0 {
		return
	}
	board := snapshot.Board

	vector.DrawFilledRect(screen, o.x, o.y, float32(board.Width())*o.cellSize, float32(board.Height())*o.cellSize, GridColor, false)
	for cy := 0; cy < board.Height(); cy++ {
		for cx := 0; cx < board.Width(); cx++ {
			x, y, w, h := o.CellRect(cx, cy)
			vector.DrawFilledRect(screen, x, y, w, h, CellColor(board.Get(cx, cy)), false)
		}
	}

	if snapshot.Piece == nil {
		return
	}
	clr := CellColor(snapshot.Piece.Kind)
	snapshot.Piece.Cells(func(cx, cy int) {
		// rows above the well are not drawn
		if cy < 0 {
			return
		}
		x, y, w, h := o.CellRect(cx, cy)
		vector.DrawFilledRect(screen, x, y, w, h, clr, false)
	})
}
