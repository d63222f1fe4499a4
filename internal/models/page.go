package models

import "time"

// Page represents one puzzle page in the ordered hunt sequence
type Page struct {
	Number        int
	Puzzle        string
	Solution      string
	IsSolved      bool
	SolvedBy      *string
	SolvedAt      *time.Time
	LetterGuessed bool
	SolutionUsed  *string
	UpdatedAt     time.Time
}

// PageInfo is the client-visible view of a page. The canonical solution
// never leaves the server.
type PageInfo struct {
	Number        int        `json:"number"`
	Puzzle        string     `json:"puzzle"`
	IsSolved      bool       `json:"is_solved"`
	SolvedBy      *string    `json:"solved_by,omitempty"`
	SolvedAt      *time.Time `json:"solved_at,omitempty"`
	LetterGuessed bool       `json:"letter_guessed"`
}

// Info returns the client-visible view of the page
func (p *Page) Info() PageInfo {
	return PageInfo{
		Number:        p.Number,
		Puzzle:        p.Puzzle,
		IsSolved:      p.IsSolved,
		SolvedBy:      p.SolvedBy,
		SolvedAt:      p.SolvedAt,
		LetterGuessed: p.LetterGuessed,
	}
}

// PageStats summarizes page completion for the admin dashboard
type PageStats struct {
	TotalPages           int      `json:"total_pages"`
	SolvedPages          int      `json:"solved_pages"`
	UnsolvedPages        int      `json:"unsolved_pages"`
	CompletionPercentage float64  `json:"completion_percentage"`
	SolvingTeams         []string `json:"solving_teams"`
}
