package game

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cbodonnell/tetrafall/pkg/game/constants"
	"github.com/cbodonnell/tetrafall/pkg/game/types"
)

// Engine owns the board, the falling piece and the progression of one game.
// It is not safe for concurrent use; callers serialize commands.
type Engine struct {
	board       types.Board
	piece       *types.Piece
	progression types.Progression
	gameOver    bool
	rng         *rand.Rand

	onProgressionChanged func(types.Progression)
}

// NewEngineOptions contains options for creating a new Engine.
type NewEngineOptions struct {
	// Rand selects pieces and treasure codes. Defaults to a time seeded source.
	Rand *rand.Rand
	// OnProgressionChanged is called after every lock with the new progression.
	OnProgressionChanged func(types.Progression)
}

// NewEngine returns an engine in the reset state.
func NewEngine(opts NewEngineOptions) *Engine {
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	e := &Engine{
		rng:                  rng,
		onProgressionChanged: opts.OnProgressionChanged,
	}
	e.Reset()
	return e
}

// Reset clears the board and progression and discards the active piece.
func (e *Engine) Reset() {
	if e.board.Height() != constants.BoardHeight || e.board.Width() != constants.BoardWidth {
		e.board = types.NewBoard(constants.BoardWidth, constants.BoardHeight)
	} else {
		e.board.Clear()
	}
	e.piece = nil
	e.gameOver = false
	e.progression = types.Progression{
		Score:           0,
		Level:           constants.InitialLevel,
		Energy:          0,
		EnergyThreshold: constants.EnergyThreshold,
		DropInterval:    constants.InitialDropInterval,
	}
}

// Spawn places a uniformly random tetromino at the spawn position. It
// returns false when the piece overlaps the stack, which ends the game.
func (e *Engine) Spawn() bool {
	kind := types.Kinds[e.rng.IntN(len(types.Kinds))]
	return e.SpawnKind(kind)
}

// SpawnKind is Spawn with a chosen tetromino.
func (e *Engine) SpawnKind(kind types.Cell) bool {
	if e.gameOver {
		return false
	}
	shape := ShapeFor(kind)
	if shape == nil {
		return false
	}
	e.piece = &types.Piece{
		Kind:  kind,
		Shape: shape,
		X:     constants.SpawnX,
		Y:     constants.SpawnY,
	}
	if e.Collides(e.piece.X, e.piece.Y, e.piece.Shape) {
		// the piece stays set so the final frame can still be drawn
		e.gameOver = true
		return false
	}
	return true
}

// Move translates the active piece. Downward steps that succeed award one
// point of score and energy; a blocked downward step locks the piece.
func (e *Engine) Move(dx, dy int) bool {
	if e.piece == nil || e.gameOver {
		return false
	}
	x, y := e.piece.X+dx, e.piece.Y+dy
	if e.Collides(x, y, e.piece.Shape) {
		if dy > 0 {
			e.lock()
		}
		return false
	}
	e.piece.X, e.piece.Y = x, y
	if dy > 0 {
		e.progression.Score += constants.SoftDropPoints
		e.progression.Energy += constants.SoftDropPoints
	}
	return true
}

// Rotate turns the active piece clockwise in place. There are no wall
// kicks: a rotation that would collide is ignored.
func (e *Engine) Rotate() bool {
	if e.piece == nil || e.gameOver {
		return false
	}
	rotated := e.piece.Shape.Rotate()
	if e.Collides(e.piece.X, e.piece.Y, rotated) {
		return false
	}
	e.piece.Shape = rotated
	return true
}

// HardDrop moves the piece down until it locks and returns how many rows it
// travelled. Each row is worth the soft drop reward plus a bonus.
func (e *Engine) HardDrop() int {
	if e.piece == nil || e.gameOver {
		return 0
	}
	dropDistance := 0
	for e.Move(0, 1) {
		dropDistance++
	}
	bonus := dropDistance * constants.HardDropMultiplier
	e.progression.Score += bonus
	e.progression.Energy += bonus
	return dropDistance
}

// Collides reports whether shape placed with its top-left corner at (x, y)
// leaves the board sideways, reaches the floor or overlaps a locked cell.
// Rows above the board are never checked against content.
func (e *Engine) Collides(x, y int, shape types.Shape) bool {
	for i, row := range shape {
		for j, filled := range row {
			if !filled {
				continue
			}
			bx, by := x+j, y+i
			if bx < 0 || bx >= e.board.Width() || by >= e.board.Height() {
				return true
			}
			if by >= 0 && e.board.Get(bx, by) != types.Empty {
				return true
			}
		}
	}
	return false
}

// lock writes the active piece into the board, clears lines and spawns the
// next piece. Cells still above the board are dropped.
func (e *Engine) lock() {
	piece := e.piece
	piece.Cells(func(x, y int) {
		if y >= 0 {
			e.board.Set(x, y, piece.Kind)
		}
	})
	e.piece = nil
	e.clearLines()
	e.Spawn()
	if e.onProgressionChanged != nil {
		e.onProgressionChanged(e.progression)
	}
}

// clearLines removes full rows and applies the scoring for them. It returns
// the number of rows removed.
func (e *Engine) clearLines() int {
	linesCleared := 0
	for y := e.board.Height() - 1; y >= 0; {
		if !e.board.IsRowFull(y) {
			y--
			continue
		}
		e.board.RemoveRow(y)
		linesCleared++
		// the row shifted into y is examined again
	}
	if linesCleared == 0 {
		return 0
	}

	points := lineClearPoints(linesCleared) * e.progression.Level
	e.progression.Score += points
	e.progression.Energy += points
	e.progression.LinesCleared += linesCleared
	e.progression.Level = e.progression.Score/constants.PointsPerLevel + 1
	e.progression.DropInterval = dropIntervalFor(e.progression.Level)

	if e.progression.Energy >= constants.EnergyThreshold && !e.progression.TreasureUnlocked {
		e.progression.TreasureUnlocked = true
		e.progression.TreasureCode = e.treasureCode()
	}

	return linesCleared
}

func (e *Engine) treasureCode() string {
	sb := strings.Builder{}
	sb.Grow(constants.TreasureCodeLength)
	for i := 0; i < constants.TreasureCodeLength; i++ {
		sb.WriteByte(constants.TreasureCodeAlphabet[e.rng.IntN(len(constants.TreasureCodeAlphabet))])
	}
	return sb.String()
}

// lineClearPoints returns the base points for n rows cleared at once,
// capped at the largest entry of the table.
func lineClearPoints(n int) int {
	if n >= len(constants.LineClearPoints) {
		n = len(constants.LineClearPoints) - 1
	}
	return constants.LineClearPoints[n]
}

func dropIntervalFor(level int) int {
	return max(constants.MinDropInterval, constants.InitialDropInterval-(level-1)*constants.DropIntervalStep)
}

// Board returns a copy of the board.
func (e *Engine) Board() types.Board {
	return e.board.Clone()
}

// ActivePiece returns a copy of the falling piece, or nil when there is none.
func (e *Engine) ActivePiece() *types.Piece {
	return e.piece.Copy()
}

// Progression returns the current progression.
func (e *Engine) Progression() types.Progression {
	return e.progression
}

// IsGameOver reports whether the last spawn topped out.
func (e *Engine) IsGameOver() bool {
	return e.gameOver
}
