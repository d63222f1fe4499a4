package service

import (
	"fmt"
	"sync"
	"time"

	"hashquest/internal/config"
	"hashquest/internal/models"
	"hashquest/internal/repository"
	"hashquest/internal/scoring"
	"hashquest/internal/utils"
)

// Broadcaster pushes events to subscribed clients. Satisfied by hub.Hub.
type Broadcaster interface {
	Broadcast(event models.Event)
}

// GameService is the orchestrating state machine for the hunt. All
// lifecycle transitions and game actions funnel through it; the mutex
// serializes transitions against the singleton game state while the page
// and counter updates below it rely on conditional writes for their
// correctness.
type GameService struct {
	mu          sync.Mutex
	teamRepo    *repository.TeamRepository
	pageRepo    *repository.PageRepository
	stateRepo   *repository.GameStateRepository
	broadcaster Broadcaster
	cfg         *config.Config
}

// NewGameService creates a new game service
func NewGameService(teamRepo *repository.TeamRepository, pageRepo *repository.PageRepository,
	stateRepo *repository.GameStateRepository, broadcaster Broadcaster, cfg *config.Config) *GameService {
	return &GameService{
		teamRepo:    teamRepo,
		pageRepo:    pageRepo,
		stateRepo:   stateRepo,
		broadcaster: broadcaster,
		cfg:         cfg,
	}
}

// StatusResponse is the shared game view returned to every caller. The
// target phrase itself never leaves the server; clients see only its
// length and the revealed positions.
type StatusResponse struct {
	Status          string           `json:"status"`
	CurrentPage     int              `json:"current_page"`
	TotalPages      int              `json:"total_pages"`
	RevealedLetters map[string][]int `json:"revealed_letters"`
	WordLength      int              `json:"word_length"`
	PageInfo        *models.PageInfo `json:"page_info,omitempty"`
	DurationSeconds int              `json:"duration_seconds"`
}

// Status returns the current shared game state
func (s *GameService) Status() (*StatusResponse, error) {
	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	totalPages, err := s.pageRepo.Count()
	if err != nil {
		return nil, err
	}

	response := &StatusResponse{
		Status:          state.Status,
		CurrentPage:     state.CurrentPage,
		TotalPages:      totalPages,
		RevealedLetters: state.RevealedLetters,
		WordLength:      len(s.cfg.GameWord),
		DurationSeconds: state.Duration(time.Now().UTC()),
	}

	page, err := s.pageRepo.GetByNumber(state.CurrentPage)
	if err != nil {
		return nil, err
	}
	if page != nil {
		info := page.Info()
		response.PageInfo = &info
	}
	return response, nil
}

// Start begins the game. Legal only from waiting.
func (s *GameService) Start() (*models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	if state.Status != models.StatusWaiting {
		return nil, reject(ReasonInvalidTransition, "game is not in waiting state")
	}

	now := time.Now().UTC()
	state.Status = models.StatusInProgress
	if state.StartedAt == nil {
		state.StartedAt = &now
	}
	if err := s.stateRepo.Save(state); err != nil {
		return nil, err
	}

	s.broadcastStatus(state)
	return state, nil
}

// Pause suspends play. Legal only from in_progress.
func (s *GameService) Pause() (*models.GameState, error) {
	return s.transition(models.StatusInProgress, models.StatusPaused)
}

// Resume continues a paused game
func (s *GameService) Resume() (*models.GameState, error) {
	return s.transition(models.StatusPaused, models.StatusInProgress)
}

// Stop ends the game early. Legal from in_progress or paused.
func (s *GameService) Stop() (*models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	if state.Status != models.StatusInProgress && state.Status != models.StatusPaused {
		return nil, reject(ReasonInvalidTransition, "game is not running")
	}

	now := time.Now().UTC()
	state.Status = models.StatusCompleted
	state.EndedAt = &now
	if err := s.stateRepo.Save(state); err != nil {
		return nil, err
	}

	s.broadcastStatus(state)
	return state, nil
}

func (s *GameService) transition(from, to string) (*models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	if state.Status != from {
		return nil, reject(ReasonInvalidTransition, fmt.Sprintf("game is not %s", from))
	}

	state.Status = to
	if err := s.stateRepo.Save(state); err != nil {
		return nil, err
	}

	s.broadcastStatus(state)
	return state, nil
}

// SolveResult reports the outcome of a successful page solve
type SolveResult struct {
	PageNumber     int  `json:"page_number"`
	FirstSolver    bool `json:"first_solver"`
	CanGuessLetter bool `json:"can_guess_letter"`
	GameCompleted  bool `json:"game_completed"`
}

// SolvePage validates a team's answer for a page and, on a correct answer,
// races to claim the first solve. Exactly one team can win each page; a
// lost race is reported as a conflict, not an error.
func (s *GameService) SolvePage(team *models.Team, pageNumber int, answer string) (*SolveResult, error) {
	if err := utils.ValidateAnswer(answer); err != nil {
		return nil, reject(ReasonInvalidInput, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	if state.Status != models.StatusInProgress {
		return nil, reject(ReasonGameNotActive, "game is not in progress")
	}

	page, err := s.pageRepo.GetByNumber(pageNumber)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, reject(ReasonNotFound, fmt.Sprintf("page %d not found", pageNumber))
	}
	if page.IsSolved {
		return nil, reject(ReasonAlreadySolved, "page already solved")
	}

	if scoring.Normalize(answer) != scoring.Normalize(page.Solution) {
		return nil, reject(ReasonWrongAnswer, "incorrect answer")
	}

	won, err := s.pageRepo.MarkSolved(pageNumber, team.Code, answer)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, conflict(ReasonAlreadySolved, "page was solved by another team")
	}

	if err := s.teamRepo.IncrementFirstSolves(team.ID); err != nil {
		return nil, err
	}
	if err := s.teamRepo.TouchActivity(team.ID); err != nil {
		return nil, err
	}

	result := &SolveResult{
		PageNumber:     pageNumber,
		FirstSolver:    true,
		CanGuessLetter: true,
	}

	// The pointer only advances when the solved page is the current one;
	// out-of-order solves leave it alone.
	advanced := false
	if pageNumber == state.CurrentPage {
		totalPages, err := s.pageRepo.Count()
		if err != nil {
			return nil, err
		}
		if pageNumber >= totalPages {
			now := time.Now().UTC()
			state.Status = models.StatusCompleted
			state.EndedAt = &now
			result.GameCompleted = true
		} else {
			state.CurrentPage++
		}
		if err := s.stateRepo.Save(state); err != nil {
			return nil, err
		}
		advanced = true
	}

	// Broadcast after commit, in transition order.
	s.broadcaster.Broadcast(models.Event{
		Type: models.EventPageSolved,
		Payload: models.PageSolvedPayload{
			PageNumber: pageNumber,
			TeamCode:   team.Code,
			TeamName:   team.Name,
		},
	})
	if advanced {
		s.broadcaster.Broadcast(models.Event{
			Type: models.EventAdvancePage,
			Payload: models.AdvancePagePayload{
				CurrentPage: state.CurrentPage,
				Status:      state.Status,
			},
		})
	}
	if result.GameCompleted {
		s.broadcastStatus(state)
	}
	s.broadcaster.Broadcast(models.Event{Type: models.EventLeaderboard})

	return result, nil
}

// LetterResult reports the outcome of an accepted letter guess. Found=false
// is a valid outcome, not a rejection.
type LetterResult struct {
	Letter    string `json:"letter"`
	Found     bool   `json:"found"`
	Positions []int  `json:"positions"`
}

// GuessLetter lets the first solver of the most recently solved page guess
// one letter of the target phrase. Each page carries exactly one letter
// guess, and a team can never repeat a letter.
func (s *GameService) GuessLetter(team *models.Team, letter string) (*LetterResult, error) {
	if err := utils.ValidateLetter(letter); err != nil {
		return nil, reject(ReasonInvalidLetter, err.Error())
	}
	letter = scoring.Normalize(letter)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	if state.Status != models.StatusInProgress {
		return nil, reject(ReasonGameNotActive, "game is not in progress")
	}

	page, err := s.pageRepo.LatestSolved()
	if err != nil {
		return nil, err
	}
	if page == nil || page.SolvedBy == nil || *page.SolvedBy != team.Code {
		return nil, reject(ReasonNotFirstSolver, "only the first solver can guess a letter")
	}
	if page.LetterGuessed {
		return nil, reject(ReasonAlreadyContested, "letter already guessed for this page")
	}

	guessed, err := s.teamRepo.HasGuessedLetter(team.ID, letter)
	if err != nil {
		return nil, err
	}
	if guessed {
		return nil, reject(ReasonAlreadyGuessed, "team has already guessed this letter")
	}
	if _, revealed := state.RevealedLetters[letter]; revealed {
		return nil, reject(ReasonAlreadyRevealed, "letter already revealed")
	}

	won, err := s.pageRepo.MarkLetterContested(page.Number)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, conflict(ReasonAlreadyContested, "letter already guessed for this page")
	}

	if _, err := s.teamRepo.RecordLetterGuess(team.ID, letter, page.Number); err != nil {
		return nil, err
	}
	if err := s.teamRepo.TouchActivity(team.ID); err != nil {
		return nil, err
	}

	positions := scoring.LetterPositions(s.cfg.GameWord, letter)
	result := &LetterResult{
		Letter:    letter,
		Found:     len(positions) > 0,
		Positions: positions,
	}
	if result.Found {
		if _, err := s.stateRepo.RevealLetter(letter, positions); err != nil {
			return nil, err
		}
	}

	s.broadcaster.Broadcast(models.Event{
		Type: models.EventLetterGuessed,
		Payload: models.LetterGuessedPayload{
			Letter:    letter,
			Found:     result.Found,
			Positions: positions,
			TeamCode:  team.Code,
		},
	})

	return result, nil
}

// WordResult reports the outcome of a full-phrase guess
type WordResult struct {
	Correct          bool `json:"correct"`
	RemainingGuesses int  `json:"remaining_guesses"`
}

// GuessWord evaluates a team's guess at the full target phrase. Allowed
// while the game is in progress or completed, so late final guesses still
// count for scoring. Incorrect guesses consume one of the team's limited
// attempts; a correct guess ends the game.
func (s *GameService) GuessWord(team *models.Team, text string) (*WordResult, error) {
	if err := utils.ValidateAnswer(text); err != nil {
		return nil, reject(ReasonInvalidInput, "word guess required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.stateRepo.Get()
	if err != nil {
		return nil, err
	}
	if state.Status != models.StatusInProgress && state.Status != models.StatusCompleted {
		return nil, reject(ReasonGameNotActive, "game is not active")
	}

	current, err := s.teamRepo.GetByID(team.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrTeamNotFound
	}
	if current.GuessesLeft <= 0 {
		return nil, reject(ReasonNoGuessesLeft, "no word guesses remaining")
	}

	// The log keeps the text as submitted; normalization is for comparison
	// and scoring only.
	correct := scoring.Normalize(text) == scoring.Normalize(s.cfg.GameWord)
	if err := s.teamRepo.RecordWordGuess(team.ID, text, correct); err != nil {
		return nil, err
	}
	if err := s.teamRepo.TouchActivity(team.ID); err != nil {
		return nil, err
	}

	result := &WordResult{Correct: correct, RemainingGuesses: current.GuessesLeft}
	if correct {
		if state.Status != models.StatusCompleted {
			now := time.Now().UTC()
			state.Status = models.StatusCompleted
			state.EndedAt = &now
			if err := s.stateRepo.Save(state); err != nil {
				return nil, err
			}
		}
	} else {
		remaining, _, err := s.teamRepo.DecrementGuessesLeft(team.ID)
		if err != nil {
			return nil, err
		}
		result.RemainingGuesses = remaining
	}

	s.broadcaster.Broadcast(models.Event{
		Type: models.EventWordGuessed,
		Payload: models.WordGuessedPayload{
			TeamCode:         team.Code,
			Correct:          correct,
			RemainingGuesses: result.RemainingGuesses,
		},
	})
	if correct {
		s.broadcastStatus(state)
	}
	s.broadcaster.Broadcast(models.Event{Type: models.EventLeaderboard})

	return result, nil
}

// Leaderboard assembles and ranks all teams by their best word guess, then
// first solves, then yellows
func (s *GameService) Leaderboard() ([]models.LeaderboardRow, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, err
	}

	rows := make([]models.LeaderboardRow, 0, len(teams))
	for _, team := range teams {
		guesses, err := s.teamRepo.GetWordGuesses(team.ID)
		if err != nil {
			return nil, err
		}
		texts := make([]string, len(guesses))
		for i, g := range guesses {
			texts[i] = g.Guess
		}
		greens, yellows := scoring.BestScore(texts, s.cfg.GameWord)

		rows = append(rows, models.LeaderboardRow{
			Name:           team.Name,
			Code:           team.Code,
			Greens:         greens,
			Yellows:        yellows,
			FirstSolves:    team.FirstSolves,
			WordGuessCount: len(guesses),
			GuessesLeft:    team.GuessesLeft,
		})
	}

	scoring.Rank(rows)
	return rows, nil
}

func (s *GameService) broadcastStatus(state *models.GameState) {
	s.broadcaster.Broadcast(models.Event{
		Type: models.EventGameStatus,
		Payload: models.GameStatusPayload{
			Status:      state.Status,
			CurrentPage: state.CurrentPage,
		},
	})
}
