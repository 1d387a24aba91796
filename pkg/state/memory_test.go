package state

import (
	"context"
	"testing"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *gametypes.Snapshot {
	board := gametypes.NewBoard(10, 20)
	board.Set(0, 19, gametypes.I)
	return &gametypes.Snapshot{
		Timestamp: 42,
		Status:    gametypes.StatusRunning,
		Board:     board,
		Piece: &gametypes.Piece{
			Kind:  gametypes.T,
			Shape: gametypes.ShapeFromRows([]int{0, 1, 0}, []int{1, 1, 1}),
			X:     4,
		},
		Progression: gametypes.Progression{Score: 10, Level: 1, DropInterval: 1000},
	}
}

func TestInMemoryStateManager_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()
	id := uuid.New()

	_, err := m.Get(ctx, id)
	assert.True(t, IsNotFound(err))

	snapshot := testSnapshot()
	require.NoError(t, m.Set(ctx, id, snapshot))

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestInMemoryStateManager_CopyOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()
	id := uuid.New()

	snapshot := testSnapshot()
	require.NoError(t, m.Set(ctx, id, snapshot))
	snapshot.Board.Set(1, 1, gametypes.Z)
	snapshot.Piece.X = 0

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, gametypes.Empty, got.Board.Get(1, 1))
	assert.Equal(t, 4, got.Piece.X)

	got.Board.Set(2, 2, gametypes.Z)
	again, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, gametypes.Empty, again.Board.Get(2, 2))
}

func TestInMemoryStateManager_SetNil(t *testing.T) {
	m := NewInMemoryStateManager()
	assert.Error(t, m.Set(context.Background(), uuid.New(), nil))
}

func TestInMemoryStateManager_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()
	a, b := uuid.New(), uuid.New()
	require.NoError(t, m.Set(ctx, a, testSnapshot()))
	require.NoError(t, m.Set(ctx, b, testSnapshot()))

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, ids)

	require.NoError(t, m.Delete(ctx, a))
	assert.True(t, IsNotFound(m.Delete(ctx, a)))

	ids, err = m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b}, ids)
}
