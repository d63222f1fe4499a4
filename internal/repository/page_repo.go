package repository

import (
	"database/sql"
	"fmt"
	"time"

	"hashquest/internal/database"
	"hashquest/internal/models"
)

// defaultPages is the puzzle sequence seeded into an empty database.
var defaultPages = []models.Page{
	{Number: 1, Puzzle: "Blockchain verification process", Solution: "PROOF_OF_WORK"},
	{Number: 2, Puzzle: "Distributed ledger technology", Solution: "BLOCKCHAIN"},
	{Number: 3, Puzzle: "Cryptographic hash function", Solution: "SHA256"},
	{Number: 4, Puzzle: "Smart contract platform", Solution: "ETHEREUM"},
	{Number: 5, Puzzle: "Digital asset ownership", Solution: "NFT"},
	{Number: 6, Puzzle: "Consensus mechanism", Solution: "NONCE"},
	{Number: 7, Puzzle: "Decentralized exchange", Solution: "DEX"},
	{Number: 8, Puzzle: "Token standard", Solution: "ERC20"},
}

// PageRepository handles database operations for puzzle pages
type PageRepository struct {
	db *database.DB
}

// NewPageRepository creates a new page repository
func NewPageRepository(db *database.DB) *PageRepository {
	return &PageRepository{db: db}
}

// SeedDefaults inserts the default puzzle sequence if no pages exist yet
func (r *PageRepository) SeedDefaults() error {
	count, err := r.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO pages (number, puzzle, solution, updated_at) VALUES (?, ?, ?, ?)"
	now := time.Now().UTC()
	for _, page := range defaultPages {
		if _, err := tx.Exec(query, page.Number, page.Puzzle, page.Solution, now); err != nil {
			return fmt.Errorf("failed to seed page %d: %w", page.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit page seed: %w", err)
	}
	return nil
}

const pageColumns = "number, puzzle, solution, is_solved, solved_by, solved_at, letter_guessed, solution_used, updated_at"

func scanPageRow(scan func(dest ...interface{}) error) (*models.Page, error) {
	page := &models.Page{}
	var solvedBy, solutionUsed sql.NullString
	var solvedAt sql.NullTime
	err := scan(
		&page.Number,
		&page.Puzzle,
		&page.Solution,
		&page.IsSolved,
		&solvedBy,
		&solvedAt,
		&page.LetterGuessed,
		&solutionUsed,
		&page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if solvedBy.Valid {
		page.SolvedBy = &solvedBy.String
	}
	if solvedAt.Valid {
		page.SolvedAt = &solvedAt.Time
	}
	if solutionUsed.Valid {
		page.SolutionUsed = &solutionUsed.String
	}
	return page, nil
}

// GetByNumber retrieves a page by its sequence number, or nil if it does
// not exist
func (r *PageRepository) GetByNumber(number int) (*models.Page, error) {
	query := "SELECT " + pageColumns + " FROM pages WHERE number = ?"
	page, err := scanPageRow(r.db.QueryRow(query, number).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

// List retrieves all pages in sequence order
func (r *PageRepository) List() ([]models.Page, error) {
	query := "SELECT " + pageColumns + " FROM pages ORDER BY number ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		page, err := scanPageRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, *page)
	}

	return pages, nil
}

// Count returns the number of pages in the sequence
func (r *PageRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// MarkSolved attributes a page to its first solver. The update is
// conditional on the page still being unsolved, so when two teams race on
// the same page exactly one caller sees true. A false return means the
// race was lost, not that something failed.
func (r *PageRepository) MarkSolved(number int, teamCode, submittedSolution string) (bool, error) {
	query := `
		UPDATE pages
		SET is_solved = ?, solved_by = ?, solved_at = ?, solution_used = ?, updated_at = ?
		WHERE number = ? AND is_solved = ?
	`
	now := time.Now().UTC()
	result, err := r.db.Exec(query, true, teamCode, now, submittedSolution, now, number, false)
	if err != nil {
		return false, fmt.Errorf("failed to mark page solved: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// MarkLetterContested claims a page's single letter guess. Conditional in
// the same way as MarkSolved: exactly one caller per page sees true.
func (r *PageRepository) MarkLetterContested(number int) (bool, error) {
	query := "UPDATE pages SET letter_guessed = ?, updated_at = ? WHERE number = ? AND letter_guessed = ?"
	result, err := r.db.Exec(query, true, time.Now().UTC(), number, false)
	if err != nil {
		return false, fmt.Errorf("failed to mark letter contested: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// LatestSolved returns the most recently solved page, or nil if no page has
// been solved yet
func (r *PageRepository) LatestSolved() (*models.Page, error) {
	query := "SELECT " + pageColumns + " FROM pages WHERE is_solved = ? ORDER BY solved_at DESC, number DESC LIMIT 1"
	page, err := scanPageRow(r.db.QueryRow(query, true).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest solved page: %w", err)
	}
	return page, nil
}

// SolvedByTeam returns the page numbers first-solved by the given team code
func (r *PageRepository) SolvedByTeam(teamCode string) ([]int, error) {
	query := "SELECT number FROM pages WHERE solved_by = ? ORDER BY number ASC"
	rows, err := r.db.Query(query, teamCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query solved pages: %w", err)
	}
	defer rows.Close()

	var numbers []int
	for rows.Next() {
		var number int
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("failed to scan page number: %w", err)
		}
		numbers = append(numbers, number)
	}

	return numbers, nil
}

// Reset clears the solved and contested state of a single page
func (r *PageRepository) Reset(number int) error {
	query := `
		UPDATE pages
		SET is_solved = ?, solved_by = NULL, solved_at = NULL, letter_guessed = ?, solution_used = NULL, updated_at = ?
		WHERE number = ?
	`
	_, err := r.db.Exec(query, false, false, time.Now().UTC(), number)
	if err != nil {
		return fmt.Errorf("failed to reset page: %w", err)
	}
	return nil
}

// ResetAll clears the solved and contested state of every page
func (r *PageRepository) ResetAll() error {
	query := `
		UPDATE pages
		SET is_solved = ?, solved_by = NULL, solved_at = NULL, letter_guessed = ?, solution_used = NULL, updated_at = ?
	`
	_, err := r.db.Exec(query, false, false, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to reset pages: %w", err)
	}
	return nil
}

// Stats summarizes page completion for the admin dashboard
func (r *PageRepository) Stats() (*models.PageStats, error) {
	pages, err := r.List()
	if err != nil {
		return nil, err
	}

	stats := &models.PageStats{
		TotalPages:   len(pages),
		SolvingTeams: []string{},
	}
	seen := make(map[string]bool)
	for _, page := range pages {
		if !page.IsSolved {
			continue
		}
		stats.SolvedPages++
		if page.SolvedBy != nil && !seen[*page.SolvedBy] {
			seen[*page.SolvedBy] = true
			stats.SolvingTeams = append(stats.SolvingTeams, *page.SolvedBy)
		}
	}
	stats.UnsolvedPages = stats.TotalPages - stats.SolvedPages
	if stats.TotalPages > 0 {
		stats.CompletionPercentage = float64(stats.SolvedPages) / float64(stats.TotalPages) * 100
	}
	return stats, nil
}
