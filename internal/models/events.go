package models

// Event types pushed on the updates channel
const (
	EventConnected     = "connected"
	EventGameStatus    = "game_status"
	EventPageSolved    = "page_solved"
	EventAdvancePage   = "advance_page"
	EventLetterGuessed = "letter_guessed"
	EventWordGuessed   = "word_guessed"
	EventLeaderboard   = "leaderboard"
)

// Event is a single notification pushed to subscribed clients
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// PageSolvedPayload announces a page's first solver
type PageSolvedPayload struct {
	PageNumber int    `json:"page_number"`
	TeamCode   string `json:"team_code"`
	TeamName   string `json:"team_name"`
}

// AdvancePagePayload announces the new current page
type AdvancePagePayload struct {
	CurrentPage int    `json:"current_page"`
	Status      string `json:"status"`
}

// LetterGuessedPayload announces the outcome of a letter guess
type LetterGuessedPayload struct {
	Letter    string `json:"letter"`
	Found     bool   `json:"found"`
	Positions []int  `json:"positions,omitempty"`
	TeamCode  string `json:"team_code"`
}

// WordGuessedPayload announces the outcome of a full-phrase guess
type WordGuessedPayload struct {
	TeamCode         string `json:"team_code"`
	Correct          bool   `json:"correct"`
	RemainingGuesses int    `json:"remaining_guesses"`
}

// GameStatusPayload announces a lifecycle transition
type GameStatusPayload struct {
	Status      string `json:"status"`
	CurrentPage int    `json:"current_page"`
}
