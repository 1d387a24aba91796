package types

import "fmt"

// Status is the lifecycle state of a session.
type Status uint8

const (
	StatusNotStarted Status = iota
	StatusRunning
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game_over"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "not_started":
		*s = StatusNotStarted
	case "running":
		*s = StatusRunning
	case "paused":
		*s = StatusPaused
	case "game_over":
		*s = StatusGameOver
	default:
		return fmt.Errorf("unknown status: %s", text)
	}
	return nil
}

// Snapshot is a read-only copy of a session at one instant. Nothing in it
// aliases engine memory.
type Snapshot struct {
	// Timestamp is the unix time in milliseconds at which the snapshot was taken
	Timestamp   int64       `json:"timestamp"`
	Status      Status      `json:"status"`
	Board       Board       `json:"board"`
	Piece       *Piece      `json:"piece"`
	Progression Progression `json:"progression"`
}

func (s *Snapshot) Copy() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		Timestamp:   s.Timestamp,
		Status:      s.Status,
		Board:       s.Board.Clone(),
		Piece:       s.Piece.Copy(),
		Progression: s.Progression,
	}
}
