package state

import (
	"context"
	"fmt"
	"sort"
	"sync"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/google/uuid"
)

type InMemoryStateManager struct {
	lock      sync.RWMutex
	snapshots map[uuid.UUID]*gametypes.Snapshot
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		snapshots: make(map[uuid.UUID]*gametypes.Snapshot),
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context, sessionID uuid.UUID) (*gametypes.Snapshot, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	snapshot, ok := m.snapshots[sessionID]
	if !ok {
		return nil, notFound(sessionID)
	}
	return snapshot.Copy(), nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, sessionID uuid.UUID, snapshot *gametypes.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.snapshots[sessionID] = snapshot.Copy()
	return nil
}

func (m *InMemoryStateManager) Delete(ctx context.Context, sessionID uuid.UUID) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.snapshots[sessionID]; !ok {
		return notFound(sessionID)
	}
	delete(m.snapshots, sessionID)
	return nil
}

func (m *InMemoryStateManager) List(ctx context.Context) ([]uuid.UUID, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.snapshots))
	for id := range m.snapshots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids, nil
}
