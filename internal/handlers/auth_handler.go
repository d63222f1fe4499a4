package handlers

import (
	"encoding/json"
	"net/http"

	"hashquest/internal/models"
	"hashquest/internal/service"
)

// AuthHandler handles team registration and login
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// teamView is the public shape of a team; the password hash never leaves
// the server
type teamView struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	GuessesLeft int    `json:"guesses_left"`
	FirstSolves int    `json:"first_solves"`
}

func newTeamView(team *models.Team) teamView {
	return teamView{
		Name:        team.Name,
		Code:        team.Code,
		GuessesLeft: team.GuessesLeft,
		FirstSolves: team.FirstSolves,
	}
}

type authResponse struct {
	Team  teamView `json:"team"`
	Token string   `json:"token"`
}

// Register handles POST /api/teams/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, service.ReasonInvalidInput)
		return
	}

	team, token, err := h.authService.Register(req.Name, req.Password)
	if err != nil {
		switch err {
		case service.ErrNameTaken:
			respondWithError(w, http.StatusConflict, "team name already taken", "name-taken")
		case service.ErrTeamLimitReached:
			respondWithError(w, http.StatusForbidden, "team limit reached", service.ReasonTeamCapReached)
		default:
			handleServiceError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Team: newTeamView(team), Token: token})
}

// Login handles POST /api/teams/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, service.ReasonInvalidInput)
		return
	}

	team, token, err := h.authService.Login(req.Code, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			respondWithError(w, http.StatusUnauthorized, "invalid team code or password", "invalid-credentials")
			return
		}
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Team: newTeamView(team), Token: token})
}

// Profile handles GET /api/teams/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	team := GetTeamFromContext(r.Context())
	if team == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "missing-token")
		return
	}

	profile, err := h.authService.Profile(team.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
