package types

import "github.com/google/uuid"

// CreateSessionEvent asks the game loop to open a new session.
type CreateSessionEvent struct {
	SessionID uuid.UUID
	// Start begins play immediately instead of waiting for a start command
	Start bool
}

// AttachSessionEvent tells the game loop that another client joined an
// existing session and needs its current snapshot.
type AttachSessionEvent struct {
	SessionID uuid.UUID
}

// CloseSessionEvent asks the game loop to discard a session.
type CloseSessionEvent struct {
	SessionID uuid.UUID
}
