package repository

import (
	"database/sql"
	"fmt"
	"time"

	"hashquest/internal/database"
	"hashquest/internal/models"
)

// TeamRepository handles database operations for teams and their guess logs
type TeamRepository struct {
	db *database.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *database.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts a new team. The global team cap is checked inside the same
// transaction as the insert so two concurrent registrations cannot both
// squeeze under the limit.
func (r *TeamRepository) Create(team *models.Team, maxTeams int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM teams").Scan(&count); err != nil {
		return fmt.Errorf("failed to count teams: %w", err)
	}
	if count >= maxTeams {
		return ErrTeamLimitReached
	}

	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now

	query := `
		INSERT INTO teams (id, name, code, password_hash, guesses_left, first_solves, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`
	_, err = tx.Exec(query, team.ID, team.Name, team.Code, team.PasswordHash,
		team.GuessesLeft, team.CreatedAt, team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit team creation: %w", err)
	}
	return nil
}

const teamColumns = "id, name, code, password_hash, guesses_left, first_solves, last_activity, created_at, updated_at"

func scanTeam(row *sql.Row) (*models.Team, error) {
	team := &models.Team{}
	var lastActivity sql.NullTime
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Code,
		&team.PasswordHash,
		&team.GuessesLeft,
		&team.FirstSolves,
		&lastActivity,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	if lastActivity.Valid {
		team.LastActivity = &lastActivity.Time
	}
	return team, nil
}

// GetByID retrieves a team by ID, or nil if it does not exist
func (r *TeamRepository) GetByID(id string) (*models.Team, error) {
	query := "SELECT " + teamColumns + " FROM teams WHERE id = ?"
	return scanTeam(r.db.QueryRow(query, id))
}

// GetByCode retrieves a team by its short code, or nil if it does not exist
func (r *TeamRepository) GetByCode(code string) (*models.Team, error) {
	query := "SELECT " + teamColumns + " FROM teams WHERE code = ?"
	return scanTeam(r.db.QueryRow(query, code))
}

// GetByName retrieves a team by display name, or nil if it does not exist
func (r *TeamRepository) GetByName(name string) (*models.Team, error) {
	query := "SELECT " + teamColumns + " FROM teams WHERE name = ?"
	return scanTeam(r.db.QueryRow(query, name))
}

// List retrieves all teams ordered by creation time
func (r *TeamRepository) List() ([]models.Team, error) {
	query := "SELECT " + teamColumns + " FROM teams ORDER BY created_at ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		var lastActivity sql.NullTime
		if err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Code,
			&team.PasswordHash,
			&team.GuessesLeft,
			&team.FirstSolves,
			&lastActivity,
			&team.CreatedAt,
			&team.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		if lastActivity.Valid {
			team.LastActivity = &lastActivity.Time
		}
		teams = append(teams, team)
	}

	return teams, nil
}

// Count returns the number of registered teams
func (r *TeamRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM teams").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

// CodeExists reports whether a team code is already taken
func (r *TeamRepository) CodeExists(code string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM teams WHERE code = ?", code).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check team code: %w", err)
	}
	return count > 0, nil
}

// Delete removes a team and, via cascading foreign keys, its guess logs
func (r *TeamRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM teams WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// DecrementGuessesLeft consumes one word guess. The decrement is conditional
// on guesses remaining so the counter can never go below zero even under
// concurrent calls. Returns the remaining count and whether a guess was
// actually consumed.
func (r *TeamRepository) DecrementGuessesLeft(teamID string) (int, bool, error) {
	query := "UPDATE teams SET guesses_left = guesses_left - 1, updated_at = ? WHERE id = ? AND guesses_left > 0"
	result, err := r.db.Exec(query, time.Now().UTC(), teamID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to decrement guesses: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	var remaining int
	err = r.db.QueryRow("SELECT guesses_left FROM teams WHERE id = ?", teamID).Scan(&remaining)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read remaining guesses: %w", err)
	}
	return remaining, affected > 0, nil
}

// IncrementFirstSolves credits a team with a page first-solve
func (r *TeamRepository) IncrementFirstSolves(teamID string) error {
	query := "UPDATE teams SET first_solves = first_solves + 1, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, time.Now().UTC(), teamID)
	if err != nil {
		return fmt.Errorf("failed to increment first solves: %w", err)
	}
	return nil
}

// TouchActivity records that a team just performed a game action
func (r *TeamRepository) TouchActivity(teamID string) error {
	now := time.Now().UTC()
	query := "UPDATE teams SET last_activity = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, now, now, teamID)
	if err != nil {
		return fmt.Errorf("failed to update team activity: %w", err)
	}
	return nil
}

// RecordWordGuess appends a word guess to the team's log
func (r *TeamRepository) RecordWordGuess(teamID, guess string, correct bool) error {
	query := "INSERT INTO word_guesses (team_id, guess, correct, guessed_at) VALUES (?, ?, ?, ?)"
	_, err := r.db.Exec(query, teamID, guess, correct, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record word guess: %w", err)
	}
	return nil
}

// GetWordGuesses retrieves a team's word guesses in submission order
func (r *TeamRepository) GetWordGuesses(teamID string) ([]models.WordGuess, error) {
	query := `
		SELECT id, team_id, guess, correct, guessed_at
		FROM word_guesses
		WHERE team_id = ?
		ORDER BY guessed_at ASC, id ASC
	`
	rows, err := r.db.Query(query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query word guesses: %w", err)
	}
	defer rows.Close()

	var guesses []models.WordGuess
	for rows.Next() {
		var g models.WordGuess
		if err := rows.Scan(&g.ID, &g.TeamID, &g.Guess, &g.Correct, &g.GuessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan word guess: %w", err)
		}
		guesses = append(guesses, g)
	}

	return guesses, nil
}

// HasGuessedLetter reports whether a team has ever guessed the given letter
func (r *TeamRepository) HasGuessedLetter(teamID, letter string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM letter_guesses WHERE team_id = ? AND letter = ?"
	err := r.db.QueryRow(query, teamID, letter).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check letter guess: %w", err)
	}
	return count > 0, nil
}

// RecordLetterGuess appends a letter guess to the team's log. Returns false
// without inserting if the team has already guessed that letter.
func (r *TeamRepository) RecordLetterGuess(teamID, letter string, pageNumber int) (bool, error) {
	guessed, err := r.HasGuessedLetter(teamID, letter)
	if err != nil {
		return false, err
	}
	if guessed {
		return false, nil
	}

	query := "INSERT INTO letter_guesses (team_id, letter, page_number, guessed_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, teamID, letter, pageNumber, time.Now().UTC()); err != nil {
		return false, fmt.Errorf("failed to record letter guess: %w", err)
	}
	return true, nil
}

// GetLetterGuesses retrieves a team's letter guesses in submission order
func (r *TeamRepository) GetLetterGuesses(teamID string) ([]models.LetterGuess, error) {
	query := `
		SELECT id, team_id, letter, page_number, guessed_at
		FROM letter_guesses
		WHERE team_id = ?
		ORDER BY guessed_at ASC, id ASC
	`
	rows, err := r.db.Query(query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query letter guesses: %w", err)
	}
	defer rows.Close()

	var guesses []models.LetterGuess
	for rows.Next() {
		var g models.LetterGuess
		if err := rows.Scan(&g.ID, &g.TeamID, &g.Letter, &g.PageNumber, &g.GuessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan letter guess: %w", err)
		}
		guesses = append(guesses, g)
	}

	return guesses, nil
}

// ResetCounters restores every team's guess counter to the cap, zeroes
// first-solve counts, and clears both guess logs. Used by the full game
// reset.
func (r *TeamRepository) ResetCounters(maxGuesses int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE teams SET guesses_left = ?, first_solves = 0, updated_at = ?", maxGuesses, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to reset team counters: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM word_guesses"); err != nil {
		return fmt.Errorf("failed to clear word guesses: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM letter_guesses"); err != nil {
		return fmt.Errorf("failed to clear letter guesses: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit counter reset: %w", err)
	}
	return nil
}
