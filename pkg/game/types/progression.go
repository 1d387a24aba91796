package types

import "time"

// Progression holds everything derived from player actions during a session.
type Progression struct {
	Score            int    `json:"score"`
	Level            int    `json:"level"`
	Energy           int    `json:"energy"`
	EnergyThreshold  int    `json:"energyThreshold"`
	LinesCleared     int    `json:"linesCleared"`
	DropInterval     int    `json:"dropInterval"`
	TreasureUnlocked bool   `json:"treasureUnlocked"`
	TreasureCode     string `json:"treasureCode,omitempty"`
}

// DropIntervalDuration returns DropInterval as a time.Duration, one unit
// being one millisecond.
func (p Progression) DropIntervalDuration() time.Duration {
	return time.Duration(p.DropInterval) * time.Millisecond
}
