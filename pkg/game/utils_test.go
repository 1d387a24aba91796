package game

import (
	"testing"
	"time"

	"github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/cbodonnell/tetrafall/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFromServerUpdate(t *testing.T) {
	s := newTestSession()
	s.Start()
	want := s.Snapshot(time.UnixMilli(42))

	got, err := SnapshotFromServerUpdate(ServerGameUpdateFromSnapshot(want))

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSnapshotFromServerUpdate_invalidDimensions(t *testing.T) {
	validPiece := func() *messages.PieceUpdate {
		return &messages.PieceUpdate{Kind: uint8(types.O), Rows: 2, Cols: 2, Shape: []uint8{1, 1, 1, 1}}
	}
	tests := []struct {
		name   string
		update func(u *messages.ServerGameUpdate)
	}{
		{name: "negative width", update: func(u *messages.ServerGameUpdate) { u.Width = -10 }},
		{name: "negative height", update: func(u *messages.ServerGameUpdate) { u.Height = -1 }},
		{name: "zero width", update: func(u *messages.ServerGameUpdate) { u.Width = 0 }},
		{name: "huge board", update: func(u *messages.ServerGameUpdate) { u.Width, u.Height = 1 << 20, 1 << 20 }},
		{name: "too few cells", update: func(u *messages.ServerGameUpdate) { u.Cells = u.Cells[:5] }},
		{name: "negative rows", update: func(u *messages.ServerGameUpdate) { u.Piece.Rows = -2 }},
		{name: "negative cols", update: func(u *messages.ServerGameUpdate) { u.Piece.Cols = -2 }},
		{name: "short shape", update: func(u *messages.ServerGameUpdate) { u.Piece.Shape = []uint8{1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := &messages.ServerGameUpdate{
				Status: types.StatusRunning,
				Width:  10,
				Height: 20,
				Cells:  make([]uint8, 200),
				Piece:  validPiece(),
			}
			tt.update(update)

			var snapshot *types.Snapshot
			var err error
			require.NotPanics(t, func() {
				snapshot, err = SnapshotFromServerUpdate(update)
			})
			assert.Error(t, err)
			assert.Nil(t, snapshot)
		})
	}
}

func TestFromFlat_negativeDimensions(t *testing.T) {
	require.NotPanics(t, func() {
		assert.Equal(t, 0, types.BoardFromFlat(-1, -1, []uint8{1, 2}).Height())
		assert.Empty(t, types.ShapeFromFlat(-1, -1, []uint8{1}))
	})
}
