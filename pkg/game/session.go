package game

import (
	"time"

	"github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/google/uuid"
)

// Session wraps an Engine with the not-started / running / paused /
// game-over lifecycle and converts elapsed time into gravity steps.
type Session struct {
	id        uuid.UUID
	engine    *Engine
	status    types.Status
	sinceDrop time.Duration
}

// NewSession returns a session that has not started yet.
func NewSession(id uuid.UUID, engine *Engine) *Session {
	return &Session{
		id:     id,
		engine: engine,
		status: types.StatusNotStarted,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Status() types.Status {
	return s.status
}

// Start begins a fresh game, discarding any game in progress.
func (s *Session) Start() {
	s.engine.Reset()
	s.sinceDrop = 0
	s.status = types.StatusRunning
	if !s.engine.Spawn() {
		s.status = types.StatusGameOver
	}
}

// Reset returns the session to the not-started state with a cleared board.
func (s *Session) Reset() {
	s.engine.Reset()
	s.sinceDrop = 0
	s.status = types.StatusNotStarted
}

// TogglePause switches between running and paused. Other states are left
// alone. It returns the resulting status.
func (s *Session) TogglePause() types.Status {
	switch s.status {
	case types.StatusRunning:
		s.status = types.StatusPaused
	case types.StatusPaused:
		s.status = types.StatusRunning
	}
	return s.status
}

func (s *Session) Move(dx, dy int) bool {
	if s.status != types.StatusRunning {
		return false
	}
	defer s.checkGameOver()
	return s.engine.Move(dx, dy)
}

func (s *Session) Rotate() bool {
	if s.status != types.StatusRunning {
		return false
	}
	return s.engine.Rotate()
}

func (s *Session) HardDrop() int {
	if s.status != types.StatusRunning {
		return 0
	}
	defer s.checkGameOver()
	s.sinceDrop = 0
	return s.engine.HardDrop()
}

// Tick advances the gravity timer by elapsed. Once the accumulated time
// exceeds the drop interval the piece is moved down one row and the timer
// restarts. It reports whether a gravity step was issued.
func (s *Session) Tick(elapsed time.Duration) bool {
	if s.status != types.StatusRunning {
		return false
	}
	s.sinceDrop += elapsed
	if s.sinceDrop <= s.engine.Progression().DropIntervalDuration() {
		return false
	}
	s.sinceDrop = 0
	s.Move(0, 1)
	return true
}

func (s *Session) checkGameOver() {
	if s.engine.IsGameOver() {
		s.status = types.StatusGameOver
	}
}

// Snapshot returns a copy of everything a renderer needs.
func (s *Session) Snapshot(now time.Time) *types.Snapshot {
	return &types.Snapshot{
		Timestamp:   now.UnixMilli(),
		Status:      s.status,
		Board:       s.engine.Board(),
		Piece:       s.engine.ActivePiece(),
		Progression: s.engine.Progression(),
	}
}
