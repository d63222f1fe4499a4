package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"hashquest/internal/database"
	"hashquest/internal/models"
)

// gameStateID is the fixed primary key of the singleton game state row.
const gameStateID = 1

// GameStateRepository handles database operations for the singleton game
// state record
type GameStateRepository struct {
	db *database.DB
}

// NewGameStateRepository creates a new game state repository
func NewGameStateRepository(db *database.DB) *GameStateRepository {
	return &GameStateRepository{db: db}
}

// Get retrieves the game state, creating the initial record on first access
func (r *GameStateRepository) Get() (*models.GameState, error) {
	state, err := r.get()
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO game_state (id, status, current_page, revealed_letters, created_at, updated_at)
		VALUES (?, ?, 1, '{}', ?, ?)
	`
	if _, err := r.db.Exec(query, gameStateID, models.StatusWaiting, now, now); err != nil {
		// Another caller may have created it between our read and insert.
		if state, getErr := r.get(); getErr == nil && state != nil {
			return state, nil
		}
		return nil, fmt.Errorf("failed to create game state: %w", err)
	}

	return r.get()
}

func (r *GameStateRepository) get() (*models.GameState, error) {
	query := `
		SELECT id, status, current_page, revealed_letters, started_at, ended_at, created_at, updated_at
		FROM game_state
		WHERE id = ?
	`
	state := &models.GameState{}
	var revealedJSON string
	var startedAt, endedAt sql.NullTime
	err := r.db.QueryRow(query, gameStateID).Scan(
		&state.ID,
		&state.Status,
		&state.CurrentPage,
		&revealedJSON,
		&startedAt,
		&endedAt,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	state.RevealedLetters = make(map[string][]int)
	if revealedJSON != "" {
		if err := json.Unmarshal([]byte(revealedJSON), &state.RevealedLetters); err != nil {
			return nil, fmt.Errorf("failed to decode revealed letters: %w", err)
		}
	}
	if startedAt.Valid {
		state.StartedAt = &startedAt.Time
	}
	if endedAt.Valid {
		state.EndedAt = &endedAt.Time
	}
	return state, nil
}

// Save writes the full game state back to the store. Every transition is
// persisted before it is considered committed.
func (r *GameStateRepository) Save(state *models.GameState) error {
	revealedJSON, err := json.Marshal(state.RevealedLetters)
	if err != nil {
		return fmt.Errorf("failed to encode revealed letters: %w", err)
	}

	state.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE game_state
		SET status = ?, current_page = ?, revealed_letters = ?, started_at = ?, ended_at = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = r.db.Exec(query, state.Status, state.CurrentPage, string(revealedJSON),
		nullableTime(state.StartedAt), nullableTime(state.EndedAt), state.UpdatedAt, gameStateID)
	if err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// RevealLetter merges positions into the revealed-letter map. Existing and
// new positions are unioned, deduplicated and kept sorted; positions are
// only ever added.
func (r *GameStateRepository) RevealLetter(letter string, positions []int) (*models.GameState, error) {
	state, err := r.Get()
	if err != nil {
		return nil, err
	}

	state.RevealedLetters[letter] = MergePositions(state.RevealedLetters[letter], positions)
	if err := r.Save(state); err != nil {
		return nil, err
	}
	return state, nil
}

// Reset restores the game state to its initial values: waiting, page 1,
// no revealed letters, no timestamps
func (r *GameStateRepository) Reset() (*models.GameState, error) {
	state, err := r.Get()
	if err != nil {
		return nil, err
	}

	state.Status = models.StatusWaiting
	state.CurrentPage = 1
	state.RevealedLetters = make(map[string][]int)
	state.StartedAt = nil
	state.EndedAt = nil
	if err := r.Save(state); err != nil {
		return nil, err
	}
	return state, nil
}

// MergePositions unions two position sets, deduplicated and sorted
// ascending
func MergePositions(existing, added []int) []int {
	seen := make(map[int]bool, len(existing)+len(added))
	merged := make([]int, 0, len(existing)+len(added))
	for _, p := range existing {
		if !seen[p] {
			seen[p] = true
			merged = append(merged, p)
		}
	}
	for _, p := range added {
		if !seen[p] {
			seen[p] = true
			merged = append(merged, p)
		}
	}
	sort.Ints(merged)
	return merged
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
