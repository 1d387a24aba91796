package game

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/cbodonnell/tetrafall/pkg/game/constants"
	"github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(seed uint64) *Engine {
	return NewEngine(NewEngineOptions{
		Rand: rand.New(rand.NewPCG(seed, seed+1)),
	})
}

func fillRow(e *Engine, y int, except ...int) {
	skip := map[int]bool{}
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < constants.BoardWidth; x++ {
		if !skip[x] {
			e.board.Set(x, y, types.Z)
		}
	}
}

func countCells(b types.Board, cell types.Cell) int {
	n := 0
	for _, row := range b.Cells {
		for _, c := range row {
			if c == cell {
				n++
			}
		}
	}
	return n
}

func TestEngine_Reset(t *testing.T) {
	e := newTestEngine(1)
	require.True(t, e.SpawnKind(types.T))
	fillRow(e, 19, 0)
	e.progression.Score = 1234
	e.progression.Energy = 99
	e.progression.TreasureUnlocked = true
	e.progression.TreasureCode = "ABCDEFGH"
	e.gameOver = true

	e.Reset()

	board := e.Board()
	assert.Equal(t, constants.BoardHeight, board.Height())
	assert.Equal(t, constants.BoardWidth, board.Width())
	assert.Equal(t, constants.BoardWidth*constants.BoardHeight, countCells(board, types.Empty))
	assert.Nil(t, e.ActivePiece())
	assert.False(t, e.IsGameOver())
	assert.Equal(t, types.Progression{
		Score:           0,
		Level:           1,
		Energy:          0,
		EnergyThreshold: 5000,
		DropInterval:    1000,
	}, e.Progression())
}

func TestEngine_Collides(t *testing.T) {
	iShape := ShapeFor(types.I)
	tShape := ShapeFor(types.T)

	tests := []struct {
		name     string
		occupied [][2]int
		x, y     int
		shape    types.Shape
		want     bool
	}{
		{name: "spawn on empty board", x: 4, y: 0, shape: iShape, want: false},
		{name: "touching right wall", x: 6, y: 0, shape: iShape, want: false},
		{name: "past right wall", x: 7, y: 0, shape: iShape, want: true},
		{name: "past left wall", x: -1, y: 5, shape: iShape, want: true},
		{name: "on bottom row", x: 0, y: 19, shape: iShape, want: false},
		{name: "below bottom row", x: 0, y: 20, shape: iShape, want: true},
		{name: "above the board", x: 3, y: -3, shape: iShape, want: false},
		{name: "above the board past the wall", x: -1, y: -1, shape: iShape, want: true},
		{name: "overlapping locked cell", occupied: [][2]int{{5, 3}}, x: 4, y: 3, shape: iShape, want: true},
		{name: "next to locked cell", occupied: [][2]int{{8, 3}}, x: 4, y: 3, shape: iShape, want: false},
		{name: "empty shape cell over locked cell", occupied: [][2]int{{4, 0}}, x: 4, y: 0, shape: tShape, want: false},
		{name: "partly above the board over locked cell", occupied: [][2]int{{4, 0}}, x: 4, y: -1, shape: tShape, want: true},
		{name: "partly above the board clear", occupied: [][2]int{{4, 1}}, x: 4, y: -1, shape: tShape, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(1)
			for _, c := range tt.occupied {
				e.board.Set(c[0], c[1], types.O)
			}
			assert.Equal(t, tt.want, e.Collides(tt.x, tt.y, tt.shape))
		})
	}
}

func TestEngine_CollidesMatchesDefinition(t *testing.T) {
	e := newTestEngine(7)
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 60; i++ {
		e.board.Set(rng.IntN(constants.BoardWidth), rng.IntN(constants.BoardHeight), types.L)
	}

	for _, kind := range types.Kinds {
		shape := ShapeFor(kind)
		for r := 0; r < 4; r++ {
			for y := -4; y <= constants.BoardHeight+1; y++ {
				for x := -4; x <= constants.BoardWidth+1; x++ {
					want := false
					for i, row := range shape {
						for j, filled := range row {
							if !filled {
								continue
							}
							bx, by := x+j, y+i
							if bx < 0 || bx >= constants.BoardWidth || by >= constants.BoardHeight {
								want = true
							} else if by >= 0 && e.board.Get(bx, by) != types.Empty {
								want = true
							}
						}
					}
					assert.Equal(t, want, e.Collides(x, y, shape), "kind %s rotation %d at (%d,%d)", kind, r, x, y)
				}
			}
			shape = shape.Rotate()
		}
	}
}

func TestEngine_SpawnPosition(t *testing.T) {
	for _, kind := range types.Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			e := newTestEngine(1)
			require.True(t, e.SpawnKind(kind))
			piece := e.ActivePiece()
			require.NotNil(t, piece)
			assert.Equal(t, kind, piece.Kind)
			assert.Equal(t, 4, piece.X)
			assert.Equal(t, 0, piece.Y)
			assert.True(t, piece.Shape.Equal(ShapeFor(kind)))
		})
	}
}

func TestEngine_SpawnIsUniformOverCatalog(t *testing.T) {
	e := newTestEngine(42)
	seen := map[types.Cell]int{}
	for i := 0; i < 700; i++ {
		e.Reset()
		require.True(t, e.Spawn())
		seen[e.ActivePiece().Kind]++
	}
	assert.Len(t, seen, len(types.Kinds))
	for kind, n := range seen {
		assert.True(t, kind.IsPiece())
		assert.Greater(t, n, 50, "kind %s drawn %d times", kind, n)
	}
}

func TestEngine_CommandsWithoutPiece(t *testing.T) {
	e := newTestEngine(1)
	assert.False(t, e.Move(1, 0))
	assert.False(t, e.Move(0, 1))
	assert.False(t, e.Rotate())
	assert.Equal(t, 0, e.HardDrop())
	assert.Equal(t, 0, e.Progression().Score)
}

func TestEngine_Move(t *testing.T) {
	tests := []struct {
		name       string
		dx, dy     int
		want       bool
		wantX      int
		wantY      int
		wantPoints int
	}{
		{name: "left", dx: -1, dy: 0, want: true, wantX: 3, wantY: 0, wantPoints: 0},
		{name: "right", dx: 1, dy: 0, want: true, wantX: 5, wantY: 0, wantPoints: 0},
		{name: "down", dx: 0, dy: 1, want: true, wantX: 4, wantY: 1, wantPoints: 1},
		{name: "into the wall", dx: 7, dy: 0, want: false, wantX: 4, wantY: 0, wantPoints: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(1)
			require.True(t, e.SpawnKind(types.O))
			assert.Equal(t, tt.want, e.Move(tt.dx, tt.dy))
			piece := e.ActivePiece()
			assert.Equal(t, tt.wantX, piece.X)
			assert.Equal(t, tt.wantY, piece.Y)
			assert.Equal(t, tt.wantPoints, e.Progression().Score)
			assert.Equal(t, tt.wantPoints, e.Progression().Energy)
		})
	}
}

func TestEngine_BlockedHorizontalMoveNeverLocks(t *testing.T) {
	e := newTestEngine(1)
	require.True(t, e.SpawnKind(types.O))
	for e.Move(0, 1) {
	}
	require.True(t, e.SpawnKind(types.O))
	// stop one row short of landing on the first O
	for i := 0; i < 15; i++ {
		require.True(t, e.Move(0, 1))
	}
	before := e.Board()
	for e.Move(-1, 0) {
	}
	assert.Equal(t, 0, e.ActivePiece().X)
	assert.False(t, e.Move(-1, 0))
	assert.Equal(t, before, e.Board())
	assert.NotNil(t, e.ActivePiece())
}

func TestEngine_IPieceFallsToFloor(t *testing.T) {
	e := newTestEngine(1)
	e.Reset()
	require.True(t, e.SpawnKind(types.I))
	piece := e.ActivePiece()
	require.Equal(t, 4, piece.X)
	require.Equal(t, 0, piece.Y)
	require.True(t, piece.Shape.Equal(types.ShapeFromRows([]int{1, 1, 1, 1})))

	for i := 0; i < 19; i++ {
		require.True(t, e.Move(0, 1), "step %d", i+1)
	}
	assert.False(t, e.Move(0, 1))

	board := e.Board()
	for x := 0; x < constants.BoardWidth; x++ {
		if x >= 4 && x <= 7 {
			assert.Equal(t, types.I, board.Get(x, 19), "column %d", x)
		} else {
			assert.Equal(t, types.Empty, board.Get(x, 19), "column %d", x)
		}
	}
	assert.Equal(t, 4, countCells(board, types.I))
	assert.Equal(t, 0, e.Progression().LinesCleared)
	assert.Equal(t, 19, e.Progression().Score)
	assert.Equal(t, 19, e.Progression().Energy)

	next := e.ActivePiece()
	require.NotNil(t, next)
	assert.Equal(t, 0, next.Y)
	assert.False(t, e.IsGameOver())
}

func TestEngine_SingleLineClear(t *testing.T) {
	e := newTestEngine(1)
	fillRow(e, 19, 9)
	e.board.Set(0, 18, types.T)

	require.True(t, e.SpawnKind(types.I))
	require.True(t, e.Rotate())
	for i := 0; i < 5; i++ {
		require.True(t, e.Move(1, 0))
	}
	require.Equal(t, 9, e.ActivePiece().X)

	for i := 0; i < 16; i++ {
		require.True(t, e.Move(0, 1))
	}
	scoreBefore := e.Progression().Score
	levelBefore := e.Progression().Level
	assert.False(t, e.Move(0, 1))

	board := e.Board()
	assert.Equal(t, 1, e.Progression().LinesCleared)
	assert.Equal(t, scoreBefore+100*levelBefore, e.Progression().Score)

	for x := 0; x < constants.BoardWidth; x++ {
		assert.Equal(t, types.Empty, board.Get(x, 0))
	}
	assert.Equal(t, types.T, board.Get(0, 19))
	assert.Equal(t, types.I, board.Get(9, 19))
	assert.Equal(t, types.I, board.Get(9, 18))
	assert.Equal(t, types.I, board.Get(9, 17))
	assert.Equal(t, types.Empty, board.Get(9, 16))
	assert.Equal(t, 1, countCells(board, types.T))
	assert.Equal(t, 0, countCells(board, types.Z))
}

func TestEngine_clearLines(t *testing.T) {
	tests := []struct {
		name         string
		fullRows     []int
		partialRows  []int
		score        int
		level        int
		wantLines    int
		wantScore    int
		wantLevel    int
		wantInterval int
	}{
		{name: "no lines", partialRows: []int{19}, score: 10, level: 1, wantLines: 0, wantScore: 10, wantLevel: 1, wantInterval: 1000},
		{name: "single", fullRows: []int{19}, level: 1, wantLines: 1, wantScore: 100, wantLevel: 1, wantInterval: 1000},
		{name: "double", fullRows: []int{18, 19}, level: 1, wantLines: 2, wantScore: 300, wantLevel: 1, wantInterval: 1000},
		{name: "triple", fullRows: []int{17, 18, 19}, level: 1, wantLines: 3, wantScore: 500, wantLevel: 1, wantInterval: 1000},
		{name: "tetris", fullRows: []int{16, 17, 18, 19}, level: 1, wantLines: 4, wantScore: 800, wantLevel: 1, wantInterval: 1000},
		{name: "five lines use the four line entry", fullRows: []int{15, 16, 17, 18, 19}, level: 1, wantLines: 5, wantScore: 800, wantLevel: 1, wantInterval: 1000},
		{name: "level multiplier", fullRows: []int{19}, score: 2000, level: 3, wantLines: 1, wantScore: 2300, wantLevel: 3, wantInterval: 800},
		{name: "level recomputed from score", fullRows: []int{16, 17, 18, 19}, score: 900, level: 1, wantLines: 4, wantScore: 1700, wantLevel: 2, wantInterval: 900},
		{name: "level can jump more than one", fullRows: []int{16, 17, 18, 19}, score: 1900, level: 2, wantLines: 4, wantScore: 3500, wantLevel: 4, wantInterval: 700},
		{name: "interval floor", fullRows: []int{19}, score: 12000, level: 13, wantLines: 1, wantScore: 13300, wantLevel: 14, wantInterval: 100},
		{name: "split rows", fullRows: []int{17, 19}, partialRows: []int{18}, level: 1, wantLines: 2, wantScore: 300, wantLevel: 1, wantInterval: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(1)
			e.progression.Score = tt.score
			e.progression.Level = tt.level
			for _, y := range tt.fullRows {
				fillRow(e, y)
			}
			for _, y := range tt.partialRows {
				e.board.Set(0, y, types.J)
			}

			assert.Equal(t, tt.wantLines, e.clearLines())
			assert.Equal(t, tt.wantScore, e.progression.Score)
			assert.Equal(t, tt.wantScore-tt.score, e.progression.Energy)
			assert.Equal(t, tt.wantLevel, e.progression.Level)
			assert.Equal(t, tt.wantInterval, e.progression.DropInterval)

			// partial rows survive and settle at the bottom
			for i := range tt.partialRows {
				assert.Equal(t, types.J, e.board.Get(0, constants.BoardHeight-1-i))
			}
			assert.Equal(t, len(tt.partialRows), countCells(e.board, types.J))
			assert.Equal(t, 0, countCells(e.board, types.Z))
		})
	}
}

func TestEngine_TreasureUnlock(t *testing.T) {
	codePattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)

	e := newTestEngine(9)
	e.progression.Energy = 4900
	fillRow(e, 19)
	require.Equal(t, 1, e.clearLines())

	p := e.Progression()
	assert.Equal(t, 5000, p.Energy)
	assert.True(t, p.TreasureUnlocked)
	assert.Regexp(t, codePattern, p.TreasureCode)

	code := p.TreasureCode
	fillRow(e, 19)
	require.Equal(t, 1, e.clearLines())
	assert.True(t, e.Progression().TreasureUnlocked)
	assert.Equal(t, code, e.Progression().TreasureCode)
}

func TestEngine_TreasureOnlyChecksOnClear(t *testing.T) {
	e := newTestEngine(1)
	e.progression.Energy = constants.EnergyThreshold - 1
	require.True(t, e.SpawnKind(types.O))
	require.True(t, e.Move(0, 1))

	assert.Equal(t, constants.EnergyThreshold, e.Progression().Energy)
	assert.False(t, e.Progression().TreasureUnlocked)
	assert.Empty(t, e.Progression().TreasureCode)
}

func TestEngine_HardDrop(t *testing.T) {
	e := newTestEngine(1)
	require.True(t, e.SpawnKind(types.O))

	distance := e.HardDrop()

	assert.Equal(t, 18, distance)
	// one point per step plus two per row of bonus
	assert.Equal(t, 18*3, e.Progression().Score)
	assert.Equal(t, 18*3, e.Progression().Energy)
	board := e.Board()
	assert.Equal(t, types.O, board.Get(4, 19))
	assert.Equal(t, types.O, board.Get(5, 18))
	assert.Equal(t, 4, countCells(board, types.O))
	require.NotNil(t, e.ActivePiece())
	assert.Equal(t, 0, e.ActivePiece().Y)
}

func TestEngine_LockDropsCellsAboveBoard(t *testing.T) {
	e := newTestEngine(1)
	e.board.Set(0, 2, types.T)
	e.piece = &types.Piece{
		Kind:  types.I,
		Shape: ShapeFor(types.I).Rotate(),
		X:     0,
		Y:     -2,
	}

	assert.False(t, e.Move(0, 1))

	board := e.Board()
	assert.Equal(t, types.I, board.Get(0, 0))
	assert.Equal(t, types.I, board.Get(0, 1))
	assert.Equal(t, types.T, board.Get(0, 2))
	assert.Equal(t, 2, countCells(board, types.I))
}

func TestEngine_RotateFourTimesIsIdentity(t *testing.T) {
	for _, kind := range types.Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			e := newTestEngine(1)
			require.True(t, e.SpawnKind(kind))
			original := e.ActivePiece().Shape
			for i := 0; i < 4; i++ {
				require.True(t, e.Rotate())
			}
			assert.True(t, original.Equal(e.ActivePiece().Shape))
		})
	}
}

func TestEngine_RotateRejectedWithoutKick(t *testing.T) {
	e := newTestEngine(1)
	require.True(t, e.SpawnKind(types.I))
	require.True(t, e.Rotate())
	for i := 0; i < 5; i++ {
		require.True(t, e.Move(1, 0))
	}
	vertical := e.ActivePiece()

	assert.False(t, e.Rotate())

	after := e.ActivePiece()
	assert.True(t, vertical.Shape.Equal(after.Shape))
	assert.Equal(t, vertical.X, after.X)
	assert.Equal(t, vertical.Y, after.Y)
}

func TestEngine_TopOut(t *testing.T) {
	e := newTestEngine(1)
	for _, y := range []int{0, 1} {
		for x := 3; x <= 6; x++ {
			e.board.Set(x, y, types.S)
		}
	}
	before := e.Board()

	assert.False(t, e.Spawn())
	assert.True(t, e.IsGameOver())
	assert.NotNil(t, e.ActivePiece())

	assert.False(t, e.Move(-1, 0))
	assert.False(t, e.Move(0, 1))
	assert.False(t, e.Rotate())
	assert.Equal(t, 0, e.HardDrop())
	assert.False(t, e.SpawnKind(types.I))
	assert.Equal(t, before, e.Board())

	e.Reset()
	assert.False(t, e.IsGameOver())
	assert.True(t, e.Spawn())
}

func TestEngine_ProgressionObserver(t *testing.T) {
	var observed []types.Progression
	e := NewEngine(NewEngineOptions{
		Rand: rand.New(rand.NewPCG(1, 2)),
		OnProgressionChanged: func(p types.Progression) {
			observed = append(observed, p)
		},
	})
	fillRow(e, 19, 4, 5)
	fillRow(e, 18, 4, 5)
	require.True(t, e.SpawnKind(types.O))
	e.HardDrop()

	require.Len(t, observed, 1)
	assert.Equal(t, 2, observed[0].LinesCleared)
	assert.Equal(t, 300+18, observed[0].Score)
}

func TestEngine_SnapshotsAreCopies(t *testing.T) {
	e := newTestEngine(1)
	require.True(t, e.SpawnKind(types.T))

	piece := e.ActivePiece()
	piece.Shape[0][0] = true
	piece.X = 0
	board := e.Board()
	board.Cells[5][5] = types.L

	assert.False(t, e.ActivePiece().Shape[0][0])
	assert.Equal(t, 4, e.ActivePiece().X)
	assert.Equal(t, types.Empty, e.Board().Get(5, 5))
	assert.False(t, ShapeFor(types.T)[0][0])
}

func TestEngine_RandomPlayInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		e := newTestEngine(seed)
		rng := rand.New(rand.NewPCG(seed*7, seed*11))
		require.True(t, e.Spawn())

		lastScore, lastEnergy, lastLevel := 0, 0, 1
		for step := 0; step < 3000 && !e.IsGameOver(); step++ {
			switch rng.IntN(6) {
			case 0:
				e.Move(-1, 0)
			case 1:
				e.Move(1, 0)
			case 2:
				e.Move(0, 1)
			case 3:
				e.Rotate()
			case 4:
				e.HardDrop()
			case 5:
				e.Move(0, 1)
			}

			p := e.Progression()
			require.GreaterOrEqual(t, p.Score, lastScore)
			require.GreaterOrEqual(t, p.Energy, lastEnergy)
			require.GreaterOrEqual(t, p.Level, lastLevel)
			require.GreaterOrEqual(t, p.DropInterval, constants.MinDropInterval)
			lastScore, lastEnergy, lastLevel = p.Score, p.Energy, p.Level

			board := e.Board()
			require.Equal(t, constants.BoardHeight, board.Height())
			for _, row := range board.Cells {
				require.Len(t, row, constants.BoardWidth)
				for _, cell := range row {
					require.True(t, cell == types.Empty || cell.IsPiece())
				}
			}

			piece := e.ActivePiece()
			require.NotNil(t, piece)
			if !e.IsGameOver() {
				require.False(t, e.Collides(piece.X, piece.Y, piece.Shape))
			}
		}
	}
}
