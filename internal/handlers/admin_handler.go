package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"hashquest/internal/hub"
	"hashquest/internal/models"
	"hashquest/internal/service"
)

// AdminHandler handles administrative game control routes
type AdminHandler struct {
	adminService *service.AdminService
	gameService  *service.GameService
	authService  *service.AuthService
	hub          *hub.Hub
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService, gameService *service.GameService, authService *service.AuthService, h *hub.Hub) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		gameService:  gameService,
		authService:  authService,
		hub:          h,
	}
}

// Control handles POST /api/admin/game/control with a lifecycle action
func (h *AdminHandler) Control(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, service.ReasonInvalidInput)
		return
	}

	var state *models.GameState
	var err error
	switch req.Action {
	case "start":
		state, err = h.gameService.Start()
	case "pause":
		state, err = h.gameService.Pause()
	case "resume":
		state, err = h.gameService.Resume()
	case "stop":
		state, err = h.gameService.Stop()
	case "reset":
		state, err = h.adminService.ResetGame()
	case "full_reset":
		state, err = h.adminService.FullResetGame()
	default:
		respondWithError(w, http.StatusBadRequest, "unknown action", service.ReasonInvalidInput)
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       state.Status,
		"current_page": state.CurrentPage,
	})
}

// SetCurrentPage handles POST /api/admin/game/current-page
func (h *AdminHandler) SetCurrentPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PageNumber int `json:"page_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, service.ReasonInvalidInput)
		return
	}

	state, err := h.adminService.SetCurrentPage(req.PageNumber)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       state.Status,
		"current_page": state.CurrentPage,
	})
}

// Game handles GET /api/admin/game
func (h *AdminHandler) Game(w http.ResponseWriter, r *http.Request) {
	view, err := h.adminService.Game()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Leaderboard handles GET /api/admin/leaderboard with game-state context
func (h *AdminHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.gameService.Leaderboard()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	view, err := h.adminService.Game()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rankings":     rows,
		"status":       view.Status,
		"current_page": view.CurrentPage,
	})
}

// ResetAllPages handles POST /api/admin/pages/reset
func (h *AdminHandler) ResetAllPages(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.ResetAllPages(); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "all pages reset"})
}

// ResetPage handles POST /api/admin/pages/{number}/reset
func (h *AdminHandler) ResetPage(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid page number", service.ReasonInvalidInput)
		return
	}

	if err := h.adminService.ResetPage(number); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "page reset"})
}

// RevealLetter handles POST /api/admin/reveal-letter/{letter}
func (h *AdminHandler) RevealLetter(w http.ResponseWriter, r *http.Request) {
	result, err := h.adminService.ForceRevealLetter(r.PathValue("letter"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// adminTeamView exposes team state to admins, still without credentials
type adminTeamView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Code         string     `json:"code"`
	GuessesLeft  int        `json:"guesses_left"`
	FirstSolves  int        `json:"first_solves"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Teams handles GET /api/admin/teams
func (h *AdminHandler) Teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.adminService.ListTeams()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	views := make([]adminTeamView, len(teams))
	for i, team := range teams {
		views[i] = adminTeamView{
			ID:           team.ID,
			Name:         team.Name,
			Code:         team.Code,
			GuessesLeft:  team.GuessesLeft,
			FirstSolves:  team.FirstSolves,
			LastActivity: team.LastActivity,
			CreatedAt:    team.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": views})
}

// CreateTeam handles POST /api/admin/teams, registering a team on its
// behalf; the generated code is returned so the admin can hand it over
func (h *AdminHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, service.ReasonInvalidInput)
		return
	}

	team, _, err := h.authService.Register(req.Name, req.Password)
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

	writeJSON(w, http.StatusCreated, adminTeamView{
		ID:          team.ID,
		Name:        team.Name,
		Code:        team.Code,
		GuessesLeft: team.GuessesLeft,
		FirstSolves: team.FirstSolves,
		CreatedAt:   team.CreatedAt,
	})
}

// GetTeam handles GET /api/admin/teams/{id}
func (h *AdminHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.adminService.GetTeam(r.PathValue("id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adminTeamView{
		ID:           team.ID,
		Name:         team.Name,
		Code:         team.Code,
		GuessesLeft:  team.GuessesLeft,
		FirstSolves:  team.FirstSolves,
		LastActivity: team.LastActivity,
		CreatedAt:    team.CreatedAt,
	})
}

// DeleteTeam handles DELETE /api/admin/teams/{id}
func (h *AdminHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.DeleteTeam(r.PathValue("id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "team deleted"})
}

// adminPageView includes the canonical solution, visible to admins only
type adminPageView struct {
	Number        int        `json:"number"`
	Puzzle        string     `json:"puzzle"`
	Solution      string     `json:"solution"`
	IsSolved      bool       `json:"is_solved"`
	SolvedBy      *string    `json:"solved_by,omitempty"`
	SolvedAt      *time.Time `json:"solved_at,omitempty"`
	LetterGuessed bool       `json:"letter_guessed"`
	SolutionUsed  *string    `json:"solution_used,omitempty"`
}

// Pages handles GET /api/admin/pages
func (h *AdminHandler) Pages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.adminService.ListPages()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	views := make([]adminPageView, len(pages))
	for i, page := range pages {
		views[i] = adminPageView{
			Number:        page.Number,
			Puzzle:        page.Puzzle,
			Solution:      page.Solution,
			IsSolved:      page.IsSolved,
			SolvedBy:      page.SolvedBy,
			SolvedAt:      page.SolvedAt,
			LetterGuessed: page.LetterGuessed,
			SolutionUsed:  page.SolutionUsed,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pages": views})
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Dashboard()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":             stats,
		"connected_clients": h.hub.ClientCount(),
	})
}
