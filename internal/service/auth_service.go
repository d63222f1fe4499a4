package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hashquest/internal/config"
	"hashquest/internal/models"
	"hashquest/internal/repository"
	"hashquest/internal/security"
	"hashquest/internal/utils"
)

var (
	ErrNameTaken          = errors.New("team name already taken")
	ErrTeamLimitReached   = errors.New("team limit reached")
	ErrInvalidCredentials = errors.New("invalid team code or password")
	ErrTeamNotFound       = errors.New("team not found")
)

// maxCodeAttempts bounds the retry loop for generating a collision-free
// team code. With a 36^6 code space collisions are vanishingly rare.
const maxCodeAttempts = 10

// AuthService handles team registration and authentication
type AuthService struct {
	teamRepo *repository.TeamRepository
	pageRepo *repository.PageRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(teamRepo *repository.TeamRepository, pageRepo *repository.PageRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		teamRepo: teamRepo,
		pageRepo: pageRepo,
		cfg:      cfg,
	}
}

// Register creates a new team and returns it along with a signed token
func (s *AuthService) Register(name, password string) (*models.Team, string, error) {
	if err := utils.ValidateTeamName(name); err != nil {
		return nil, "", err
	}
	if err := utils.ValidatePassword(password, s.cfg.PasswordMinLength); err != nil {
		return nil, "", err
	}

	existing, err := s.teamRepo.GetByName(name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing team: %w", err)
	}
	if existing != nil {
		return nil, "", ErrNameTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.generateUniqueCode()
	if err != nil {
		return nil, "", err
	}

	team := &models.Team{
		ID:           uuid.NewString(),
		Name:         name,
		Code:         code,
		PasswordHash: passwordHash,
		GuessesLeft:  s.cfg.MaxWordGuesses,
	}
	if err := s.teamRepo.Create(team, s.cfg.MaxTeams); err != nil {
		if errors.Is(err, repository.ErrTeamLimitReached) {
			return nil, "", ErrTeamLimitReached
		}
		return nil, "", fmt.Errorf("failed to create team: %w", err)
	}

	token, err := security.GenerateToken(team.ID, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return team, token, nil
}

// generateUniqueCode retries random code generation until it finds one not
// already taken
func (s *AuthService) generateUniqueCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := security.GenerateTeamCode(s.cfg.TeamCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate team code: %w", err)
		}
		taken, err := s.teamRepo.CodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check team code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("failed to generate unique team code")
}

// Login authenticates a team by code and password and returns a signed
// token
func (s *AuthService) Login(code, password string) (*models.Team, string, error) {
	team, err := s.teamRepo.GetByCode(code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(password, team.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := security.GenerateToken(team.ID, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.teamRepo.TouchActivity(team.ID); err != nil {
		return nil, "", fmt.Errorf("failed to update activity: %w", err)
	}
	return team, token, nil
}

// ValidateToken resolves a bearer token to the team it identifies
func (s *AuthService) ValidateToken(token string) (*models.Team, error) {
	teamID, err := security.ParseToken(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

// TeamProfile is the authenticated team's view of its own state
type TeamProfile struct {
	Name          string               `json:"name"`
	Code          string               `json:"code"`
	GuessesLeft   int                  `json:"guesses_left"`
	FirstSolves   int                  `json:"first_solves"`
	SolvedPages   []int                `json:"solved_pages"`
	WordGuesses   []models.WordGuess   `json:"word_guesses"`
	LetterGuesses []models.LetterGuess `json:"letter_guesses"`
}

// Profile assembles a team's profile including its guess history and the
// pages it first-solved
func (s *AuthService) Profile(teamID string) (*TeamProfile, error) {
	team, err := s.teamRepo.GetByID(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}

	solvedPages, err := s.pageRepo.SolvedByTeam(team.Code)
	if err != nil {
		return nil, err
	}
	wordGuesses, err := s.teamRepo.GetWordGuesses(teamID)
	if err != nil {
		return nil, err
	}
	letterGuesses, err := s.teamRepo.GetLetterGuesses(teamID)
	if err != nil {
		return nil, err
	}

	if solvedPages == nil {
		solvedPages = []int{}
	}
	if wordGuesses == nil {
		wordGuesses = []models.WordGuess{}
	}
	if letterGuesses == nil {
		letterGuesses = []models.LetterGuess{}
	}

	return &TeamProfile{
		Name:          team.Name,
		Code:          team.Code,
		GuessesLeft:   team.GuessesLeft,
		FirstSolves:   team.FirstSolves,
		SolvedPages:   solvedPages,
		WordGuesses:   wordGuesses,
		LetterGuesses: letterGuesses,
	}, nil
}
