package service

import (
	"fmt"
	"time"

	"hashquest/internal/config"
	"hashquest/internal/models"
	"hashquest/internal/repository"
	"hashquest/internal/scoring"
	"hashquest/internal/utils"
)

// AdminService handles administrative game control. It shares the game
// service's mutex so admin mutations never interleave with team actions.
type AdminService struct {
	game      *GameService
	teamRepo  *repository.TeamRepository
	pageRepo  *repository.PageRepository
	stateRepo *repository.GameStateRepository
	cfg       *config.Config
}

// NewAdminService creates a new admin service
func NewAdminService(game *GameService, teamRepo *repository.TeamRepository,
	pageRepo *repository.PageRepository, stateRepo *repository.GameStateRepository,
	cfg *config.Config) *AdminService {
	return &AdminService{
		game:      game,
		teamRepo:  teamRepo,
		pageRepo:  pageRepo,
		stateRepo: stateRepo,
		cfg:       cfg,
	}
}

// SetCurrentPage moves the current-page pointer to an arbitrary page
func (s *AdminService) SetCurrentPage(number int) (*models.GameState, error) {
	s.game.mu.Lock()
	defer s.game.mu.Unlock()

	page, err := s.pageRepo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, reject(ReasonNotFound, fmt.Sprintf("page %d not found", number))
	}

	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	state.CurrentPage = number
	if err := s.stateRepo.Save(state); err != nil {
		return nil, err
	}

	s.game.broadcaster.Broadcast(models.Event{
		Type: models.EventAdvancePage,
		Payload: models.AdvancePagePayload{
			CurrentPage: state.CurrentPage,
			Status:      state.Status,
		},
	})
	return state, nil
}

// ResetPage clears the solved and contested state of one page
func (s *AdminService) ResetPage(number int) error {
	s.game.mu.Lock()
	defer s.game.mu.Unlock()

	page, err := s.pageRepo.GetByNumber(number)
	if err != nil {
		return err
	}
	if page == nil {
		return reject(ReasonNotFound, fmt.Sprintf("page %d not found", number))
	}
	return s.pageRepo.Reset(number)
}

// ResetAllPages clears the solved and contested state of every page
// without touching the game-state singleton or team counters
func (s *AdminService) ResetAllPages() error {
	s.game.mu.Lock()
	defer s.game.mu.Unlock()
	return s.pageRepo.ResetAll()
}

// ResetGame restores the shared game state to a fresh run: all pages
// unsolved, pointer at 1, revealed letters cleared, status waiting. Team
// counters and guess logs are kept.
func (s *AdminService) ResetGame() (*models.GameState, error) {
	s.game.mu.Lock()
	defer s.game.mu.Unlock()
	return s.resetLocked(false)
}

// FullResetGame additionally restores every team's guess counter and
// clears all guess logs
func (s *AdminService) FullResetGame() (*models.GameState, error) {
	s.game.mu.Lock()
	defer s.game.mu.Unlock()
	return s.resetLocked(true)
}

func (s *AdminService) resetLocked(resetTeams bool) (*models.GameState, error) {
	if err := s.pageRepo.ResetAll(); err != nil {
		return nil, err
	}
	state, err := s.stateRepo.Reset()
	if err != nil {
		return nil, err
	}
	if resetTeams {
		if err := s.teamRepo.ResetCounters(s.cfg.MaxWordGuesses); err != nil {
			return nil, err
		}
	}

	s.game.broadcastStatus(state)
	s.game.broadcaster.Broadcast(models.Event{Type: models.EventLeaderboard})
	return state, nil
}

// ForceRevealLetter reveals a letter's positions without consuming any
// team's guess. Revealing a letter that is absent from the phrase or
// already revealed is rejected.
func (s *AdminService) ForceRevealLetter(letter string) (*LetterResult, error) {
	if err := utils.ValidateLetter(letter); err != nil {
		return nil, reject(ReasonInvalidLetter, err.Error())
	}
	letter = scoring.Normalize(letter)

	s.game.mu.Lock()
	defer s.game.mu.Unlock()

	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	if _, revealed := state.RevealedLetters[letter]; revealed {
		return nil, reject(ReasonAlreadyRevealed, "letter already revealed")
	}

	positions := scoring.LetterPositions(s.cfg.GameWord, letter)
	if len(positions) == 0 {
		return nil, reject(ReasonNotFound, "letter not present in the target phrase")
	}

	if _, err := s.stateRepo.RevealLetter(letter, positions); err != nil {
		return nil, err
	}

	s.game.broadcaster.Broadcast(models.Event{
		Type: models.EventLetterGuessed,
		Payload: models.LetterGuessedPayload{
			Letter:    letter,
			Found:     true,
			Positions: positions,
		},
	})

	return &LetterResult{Letter: letter, Found: true, Positions: positions}, nil
}

// ListTeams returns all registered teams
func (s *AdminService) ListTeams() ([]models.Team, error) {
	return s.teamRepo.List()
}

// GetTeam returns one team by id
func (s *AdminService) GetTeam(id string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, reject(ReasonNotFound, "team not found")
	}
	return team, nil
}

// DeleteTeam removes a team and its guess logs
func (s *AdminService) DeleteTeam(id string) error {
	team, err := s.teamRepo.GetByID(id)
	if err != nil {
		return err
	}
	if team == nil {
		return reject(ReasonNotFound, "team not found")
	}
	return s.teamRepo.Delete(id)
}

// ListPages returns all pages including their canonical solutions
func (s *AdminService) ListPages() ([]models.Page, error) {
	return s.pageRepo.List()
}

// GameView is the unredacted game state for admins, including the target
// phrase that team-facing status keeps hidden
type GameView struct {
	Status          string           `json:"status"`
	CurrentPage     int              `json:"current_page"`
	RevealedLetters map[string][]int `json:"revealed_letters"`
	Word            string           `json:"word"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	EndedAt         *time.Time       `json:"ended_at,omitempty"`
	DurationSeconds int              `json:"duration_seconds"`
}

// Game returns the current game state for the admin console
func (s *AdminService) Game() (*GameView, error) {
	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	return &GameView{
		Status:          state.Status,
		CurrentPage:     state.CurrentPage,
		RevealedLetters: state.RevealedLetters,
		Word:            s.cfg.GameWord,
		StartedAt:       state.StartedAt,
		EndedAt:         state.EndedAt,
		DurationSeconds: state.Duration(time.Now().UTC()),
	}, nil
}

// DashboardStats summarizes the whole game for the admin dashboard
type DashboardStats struct {
	Status            string            `json:"status"`
	CurrentPage       int               `json:"current_page"`
	DurationSeconds   int               `json:"duration_seconds"`
	TeamCount         int               `json:"team_count"`
	ActiveTeams       int               `json:"active_teams"`
	RevealedPositions int               `json:"revealed_positions"`
	Pages             *models.PageStats `json:"pages"`
}

// Dashboard assembles the admin dashboard summary
func (s *AdminService) Dashboard() (*DashboardStats, error) {
	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, err
	}
	pageStats, err := s.pageRepo.Stats()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	active := 0
	for i := range teams {
		if teams[i].IsActive(now) {
			active++
		}
	}

	return &DashboardStats{
		Status:            state.Status,
		CurrentPage:       state.CurrentPage,
		DurationSeconds:   state.Duration(now),
		TeamCount:         len(teams),
		ActiveTeams:       active,
		RevealedPositions: state.RevealedPositionCount(),
		Pages:             pageStats,
	}, nil
}
