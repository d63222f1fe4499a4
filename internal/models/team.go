package models

import "time"

// ActivityWindow is how recently a team must have acted to count as active
const ActivityWindow = 24 * time.Hour

// Team represents a registered team and its game counters
type Team struct {
	ID           string
	Name         string
	Code         string
	PasswordHash string
	GuessesLeft  int
	FirstSolves  int
	LastActivity *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the team has acted within the activity window
func (t *Team) IsActive(now time.Time) bool {
	return t.LastActivity != nil && now.Sub(*t.LastActivity) <= ActivityWindow
}

// WordGuess is one entry in a team's full-phrase guess log
type WordGuess struct {
	ID        int64     `json:"-"`
	TeamID    string    `json:"-"`
	Guess     string    `json:"guess"`
	Correct   bool      `json:"correct"`
	GuessedAt time.Time `json:"guessed_at"`
}

// LetterGuess is one entry in a team's letter-guess log
type LetterGuess struct {
	ID         int64     `json:"-"`
	TeamID     string    `json:"-"`
	Letter     string    `json:"letter"`
	PageNumber int       `json:"page_number"`
	GuessedAt  time.Time `json:"guessed_at"`
}

// LeaderboardRow is a single ranked leaderboard entry
type LeaderboardRow struct {
	Name           string `json:"name"`
	Code           string `json:"code"`
	Greens         int    `json:"greens"`
	Yellows        int    `json:"yellows"`
	FirstSolves    int    `json:"first_solves"`
	WordGuessCount int    `json:"word_guess_count"`
	GuessesLeft    int    `json:"guesses_left"`
}
