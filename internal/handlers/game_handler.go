package handlers

import (
	"encoding/json"
	"net/http"

	"hashquest/internal/service"
)

// GameHandler handles the team-facing game endpoints
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// Status handles GET /api/game/status
func (h *GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.gameService.Status()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Solve handles POST /api/game/solve
func (h *GameHandler) Solve(w http.ResponseWriter, r *http.Request) {
	team := GetTeamFromContext(r.Context())
	if team == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "missing-token")
		return
	}

	var req struct {
		PageNumber int    `json:"page_number"`
		Answer     string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, service.ReasonInvalidInput)
		return
	}

	result, err := h.gameService.SolvePage(team, req.PageNumber, req.Answer)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GuessLetter handles POST /api/game/guess-letter
func (h *GameHandler) GuessLetter(w http.ResponseWriter, r *http.Request) {
	team := GetTeamFromContext(r.Context())
	if team == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "missing-token")
		return
	}

	var req struct {
		Letter string `json:"letter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, service.ReasonInvalidInput)
		return
	}

	result, err := h.gameService.GuessLetter(team, req.Letter)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GuessWord handles POST /api/game/guess-word
func (h *GameHandler) GuessWord(w http.ResponseWriter, r *http.Request) {
	team := GetTeamFromContext(r.Context())
	if team == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "missing-token")
		return
	}

	var req struct {
		Guess string `json:"guess"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, service.ReasonInvalidInput)
		return
	}

	result, err := h.gameService.GuessWord(team, req.Guess)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Leaderboard handles GET /api/leaderboard
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.gameService.Leaderboard()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rankings": rows})
}

// Health handles GET /api/health
func (h *GameHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
