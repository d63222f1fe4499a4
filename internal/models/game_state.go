package models

import "time"

// Game lifecycle statuses
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusPaused     = "paused"
	StatusCompleted  = "completed"
)

// GameState is the singleton record describing the shared game
type GameState struct {
	ID              int
	Status          string
	CurrentPage     int
	RevealedLetters map[string][]int
	StartedAt       *time.Time
	EndedAt         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration returns the elapsed game time in seconds, or zero if the game
// has not started
func (g *GameState) Duration(now time.Time) int {
	if g.StartedAt == nil {
		return 0
	}
	end := now
	if g.EndedAt != nil {
		end = *g.EndedAt
	}
	return int(end.Sub(*g.StartedAt).Seconds())
}

// RevealedPositionCount returns the total number of revealed positions
func (g *GameState) RevealedPositionCount() int {
	total := 0
	for _, positions := range g.RevealedLetters {
		total += len(positions)
	}
	return total
}
