package game

import (
	"fmt"

	"github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/cbodonnell/tetrafall/pkg/messages"
)

// maxUpdateDimension bounds the board and shape sizes accepted from the wire
const maxUpdateDimension = 256

func ServerGameUpdateFromSnapshot(snapshot *types.Snapshot) *messages.ServerGameUpdate {
	return &messages.ServerGameUpdate{
		Timestamp:   snapshot.Timestamp,
		Status:      snapshot.Status,
		Width:       snapshot.Board.Width(),
		Height:      snapshot.Board.Height(),
		Cells:       snapshot.Board.Flatten(),
		Piece:       PieceUpdateFromPiece(snapshot.Piece),
		Progression: ProgressionUpdateFromProgression(snapshot.Progression),
	}
}

// SnapshotFromServerUpdate rebuilds a snapshot received from a server. It
// rejects dimensions that do not describe the cells sent with them.
func SnapshotFromServerUpdate(update *messages.ServerGameUpdate) (*types.Snapshot, error) {
	if err := checkDimensions("board", update.Width, update.Height, len(update.Cells)); err != nil {
		return nil, err
	}
	piece, err := PieceFromServerUpdate(update.Piece)
	if err != nil {
		return nil, err
	}
	return &types.Snapshot{
		Timestamp:   update.Timestamp,
		Status:      update.Status,
		Board:       types.BoardFromFlat(update.Width, update.Height, update.Cells),
		Piece:       piece,
		Progression: ProgressionFromServerUpdate(update.Progression),
	}, nil
}

func checkDimensions(what string, width, height, cells int) error {
	if width <= 0 || height <= 0 || width > maxUpdateDimension || height > maxUpdateDimension {
		return fmt.Errorf("invalid %s dimensions %dx%d", what, width, height)
	}
	if cells != width*height {
		return fmt.Errorf("invalid %s: %d cells for %dx%d", what, cells, width, height)
	}
	return nil
}

func PieceUpdateFromPiece(piece *types.Piece) *messages.PieceUpdate {
	if piece == nil {
		return nil
	}
	return &messages.PieceUpdate{
		Kind:  uint8(piece.Kind),
		X:     piece.X,
		Y:     piece.Y,
		Rows:  piece.Shape.Rows(),
		Cols:  piece.Shape.Cols(),
		Shape: piece.Shape.Flatten(),
	}
}

func PieceFromServerUpdate(update *messages.PieceUpdate) (*types.Piece, error) {
	if update == nil {
		return nil, nil
	}
	if err := checkDimensions("piece", update.Cols, update.Rows, len(update.Shape)); err != nil {
		return nil, err
	}
	return &types.Piece{
		Kind:  types.Cell(update.Kind),
		Shape: types.ShapeFromFlat(update.Rows, update.Cols, update.Shape),
		X:     update.X,
		Y:     update.Y,
	}, nil
}

func ProgressionUpdateFromProgression(p types.Progression) messages.ProgressionUpdate {
	return messages.ProgressionUpdate{
		Score:            p.Score,
		Level:            p.Level,
		Energy:           p.Energy,
		EnergyThreshold:  p.EnergyThreshold,
		LinesCleared:     p.LinesCleared,
		DropInterval:     p.DropInterval,
		TreasureUnlocked: p.TreasureUnlocked,
		TreasureCode:     p.TreasureCode,
	}
}

func ProgressionFromServerUpdate(update messages.ProgressionUpdate) types.Progression {
	return types.Progression{
		Score:            update.Score,
		Level:            update.Level,
		Energy:           update.Energy,
		EnergyThreshold:  update.EnergyThreshold,
		LinesCleared:     update.LinesCleared,
		DropInterval:     update.DropInterval,
		TreasureUnlocked: update.TreasureUnlocked,
		TreasureCode:     update.TreasureCode,
	}
}
