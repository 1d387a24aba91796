package state

import (
	"context"
	"errors"
	"fmt"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no snapshot is stored for a session.
var ErrNotFound = errors.New("session not found")

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func notFound(sessionID uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
}

// StateManager provides shared access to the latest snapshot of each session.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the latest snapshot of a session.
	Get(ctx context.Context, sessionID uuid.UUID) (*gametypes.Snapshot, error)
	// Set stores the latest snapshot of a session.
	Set(ctx context.Context, sessionID uuid.UUID, snapshot *gametypes.Snapshot) error
	// Delete forgets a session.
	Delete(ctx context.Context, sessionID uuid.UUID) error
	// List returns the IDs of every known session.
	List(ctx context.Context) ([]uuid.UUID, error)
}
