package ui

import (
	"testing"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

func TestFormatLabels(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *gametypes.Snapshot
		expected Labels
	}{
		{
			name: "nil snapshot",
			expected: Labels{
				Status:   "Press Enter to start",
				Score:    "Score    0",
				Level:    "Level    0",
				Lines:    "Lines    0",
				Energy:   "Energy   0 / 0",
				Interval: "Gravity  0 ms",
				Treasure: "Treasure locked",
			},
		},
		{
			name: "running",
			snapshot: &gametypes.Snapshot{
				Status: gametypes.StatusRunning,
				Progression: gametypes.Progression{
					Score:           1250,
					Level:           2,
					Energy:          1250,
					EnergyThreshold: 5000,
					LinesCleared:    7,
					DropInterval:    900,
				},
			},
			expected: Labels{
				Status:   "Running",
				Score:    "Score    1250",
				Level:    "Level    2",
				Lines:    "Lines    7",
				Energy:   "Energy   1250 / 5000",
				Interval: "Gravity  900 ms",
				Treasure: "Treasure locked",
			},
		},
		{
			name: "treasure unlocked",
			snapshot: &gametypes.Snapshot{
				Status: gametypes.StatusGameOver,
				Progression: gametypes.Progression{
					Score:            5100,
					Level:            6,
					Energy:           5100,
					EnergyThreshold:  5000,
					DropInterval:     500,
					TreasureUnlocked: true,
					TreasureCode:     "K3Y9QZ2A",
				},
			},
			expected: Labels{
				Status:   "Game over",
				Score:    "Score    5100",
				Level:    "Level    6",
				Lines:    "Lines    0",
				Energy:   "Energy   5100 / 5000",
				Interval: "Gravity  500 ms",
				Treasure: "Treasure K3Y9QZ2A",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatLabels(tt.snapshot))
		})
	}
}

func TestActionableError(t *testing.T) {
	var err error = &ActionableError{Message: "Could not reach the server"}
	assert.EqualError(t, err, "Could not reach the server")
}
