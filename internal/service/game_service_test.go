package service

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hashquest/internal/config"
	"hashquest/internal/database"
	"hashquest/internal/models"
	"hashquest/internal/repository"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []models.Event
}

func (b *recordingBroadcaster) Broadcast(event models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, len(b.events))
	for i, e := range b.events {
		types[i] = e.Type
	}
	return types
}

func (b *recordingBroadcaster) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

type testEnv struct {
	auth      *AuthService
	game      *GameService
	admin     *AdminService
	broadcast *recordingBroadcaster
	teamRepo  *repository.TeamRepository
	pageRepo  *repository.PageRepository
	stateRepo *repository.GameStateRepository
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		GameWord:          "RICARDIAN CONTRACT",
		MaxTeams:          20,
		MaxWordGuesses:    3,
		PasswordMinLength: 6,
		TeamCodeLength:    6,
	}
}

func setupGame(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	teamRepo := repository.NewTeamRepository(db)
	pageRepo := repository.NewPageRepository(db)
	stateRepo := repository.NewGameStateRepository(db)
	if err := pageRepo.SeedDefaults(); err != nil {
		t.Fatalf("Failed to seed pages: %v", err)
	}

	cfg := testConfig()
	broadcast := &recordingBroadcaster{}
	game := NewGameService(teamRepo, pageRepo, stateRepo, broadcast, cfg)

	return &testEnv{
		auth:      NewAuthService(teamRepo, pageRepo, cfg),
		game:      game,
		admin:     NewAdminService(game, teamRepo, pageRepo, stateRepo, cfg),
		broadcast: broadcast,
		teamRepo:  teamRepo,
		pageRepo:  pageRepo,
		stateRepo: stateRepo,
	}
}

func registerTeam(t *testing.T, env *testEnv, name string) *models.Team {
	t.Helper()
	team, token, err := env.auth.Register(name, "secret123")
	if err != nil {
		t.Fatalf("Failed to register team %s: %v", name, err)
	}
	if token == "" {
		t.Fatalf("Expected token for team %s", name)
	}
	return team
}

func wantRejection(t *testing.T, err error, reason string) {
	t.Helper()
	var rejection *RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("Expected rejection %s, got %v", reason, err)
	}
	if rejection.Reason != reason {
		t.Fatalf("Rejection reason = %s, want %s", rejection.Reason, reason)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	team := registerTeam(t, env, "The Miners")

	if len(team.Code) != 6 {
		t.Errorf("Team code length = %d, want 6", len(team.Code))
	}
	if team.GuessesLeft != 3 {
		t.Errorf("GuessesLeft = %d, want 3", team.GuessesLeft)
	}

	logged, token, err := env.auth.Login(team.Code, "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.ID != team.ID {
		t.Errorf("Login returned team %s, want %s", logged.ID, team.ID)
	}

	resolved, err := env.auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if resolved.ID != team.ID {
		t.Errorf("Token resolved to %s, want %s", resolved.ID, team.ID)
	}

	if _, _, err := env.auth.Login(team.Code, "wrongpass"); err != ErrInvalidCredentials {
		t.Errorf("Login with wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := env.auth.Login("NOPE99", "secret123"); err != ErrInvalidCredentials {
		t.Errorf("Login with unknown code error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	registerTeam(t, env, "The Miners")

	if _, _, err := env.auth.Register("The Miners", "secret123"); err != ErrNameTaken {
		t.Errorf("Duplicate registration error = %v, want ErrNameTaken", err)
	}
}

func TestSolvePageFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	bravo := registerTeam(t, env, "Bravo")

	// Solving before the game starts is rejected.
	_, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK")
	wantRejection(t, err, ReasonGameNotActive)

	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	env.broadcast.reset()

	// Wrong answer leaves the page untouched.
	_, err = env.game.SolvePage(alpha, 1, "PROOF_OF_STAKE")
	wantRejection(t, err, ReasonWrongAnswer)

	// Correct answer, case-insensitive with whitespace.
	result, err := env.game.SolvePage(alpha, 1, "  proof_of_work ")
	if err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}
	if !result.FirstSolver || !result.CanGuessLetter {
		t.Errorf("SolveResult = %+v, want first solver with letter unlock", result)
	}

	// The pointer advanced past the solved page.
	status, err := env.game.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", status.CurrentPage)
	}

	// page_solved precedes advance_page for the same transition.
	types := env.broadcast.types()
	solvedIdx, advanceIdx := -1, -1
	for i, typ := range types {
		switch typ {
		case models.EventPageSolved:
			solvedIdx = i
		case models.EventAdvancePage:
			advanceIdx = i
		}
	}
	if solvedIdx == -1 || advanceIdx == -1 || solvedIdx > advanceIdx {
		t.Errorf("Expected page_solved before advance_page, got %v", types)
	}

	// Second team is told the page is already solved.
	_, err = env.game.SolvePage(bravo, 1, "PROOF_OF_WORK")
	wantRejection(t, err, ReasonAlreadySolved)

	// Attribution and first-solve credit stuck with the winner.
	page, err := env.pageRepo.GetByNumber(1)
	if err != nil {
		t.Fatalf("GetByNumber failed: %v", err)
	}
	if page.SolvedBy == nil || *page.SolvedBy != alpha.Code {
		t.Errorf("Page solved by %v, want %s", page.SolvedBy, alpha.Code)
	}
	updated, err := env.teamRepo.GetByID(alpha.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.FirstSolves != 1 {
		t.Errorf("FirstSolves = %d, want 1", updated.FirstSolves)
	}
}

func TestOutOfOrderSolveKeepsPointer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Solving page 3 while the pointer is at 1 must not move the pointer.
	if _, err := env.game.SolvePage(alpha, 3, "SHA256"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}

	status, err := env.game.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1 after out-of-order solve", status.CurrentPage)
	}
}

func TestSolveLastPageCompletesGame(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := env.admin.SetCurrentPage(8); err != nil {
		t.Fatalf("SetCurrentPage failed: %v", err)
	}

	result, err := env.game.SolvePage(alpha, 8, "ERC20")
	if err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}
	if !result.GameCompleted {
		t.Error("Expected solving the last page to complete the game")
	}

	status, err := env.game.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want %s", status.Status, models.StatusCompleted)
	}
}

func TestGuessLetterFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	bravo := registerTeam(t, env, "Bravo")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// No page solved yet: nobody is a first solver.
	_, err := env.game.GuessLetter(alpha, "R")
	wantRejection(t, err, ReasonNotFirstSolver)

	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}

	// Only the first solver may guess.
	_, err = env.game.GuessLetter(bravo, "R")
	wantRejection(t, err, ReasonNotFirstSolver)

	// Malformed letters are rejected before any state is touched.
	_, err = env.game.GuessLetter(alpha, "5")
	wantRejection(t, err, ReasonInvalidLetter)
	_, err = env.game.GuessLetter(alpha, "RC")
	wantRejection(t, err, ReasonInvalidLetter)

	result, err := env.game.GuessLetter(alpha, "r")
	if err != nil {
		t.Fatalf("GuessLetter failed: %v", err)
	}
	if !result.Found {
		t.Error("Expected R to be found in the target phrase")
	}
	want := []int{0, 4, 14}
	if len(result.Positions) != len(want) {
		t.Fatalf("Positions = %v, want %v", result.Positions, want)
	}
	for i := range want {
		if result.Positions[i] != want[i] {
			t.Errorf("Positions = %v, want %v", result.Positions, want)
			break
		}
	}

	// The page's single letter guess is spent.
	_, err = env.game.GuessLetter(alpha, "C")
	wantRejection(t, err, ReasonAlreadyContested)

	status, err := env.game.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(status.RevealedLetters["R"]) != 3 {
		t.Errorf("Revealed R positions = %v, want 3 entries", status.RevealedLetters["R"])
	}
}

func TestGuessLetterNotFoundStillSpendsPage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}

	// Z is absent from the phrase: a valid miss, not a rejection.
	result, err := env.game.GuessLetter(alpha, "Z")
	if err != nil {
		t.Fatalf("GuessLetter failed: %v", err)
	}
	if result.Found {
		t.Error("Expected Z not to be found")
	}

	status, err := env.game.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(status.RevealedLetters) != 0 {
		t.Errorf("Revealed letters = %v, want empty after a miss", status.RevealedLetters)
	}

	// The miss still consumed the page's single guess.
	_, err = env.game.GuessLetter(alpha, "R")
	wantRejection(t, err, ReasonAlreadyContested)

	// And the letter stays burned for the team on a later page.
	if _, err := env.game.SolvePage(alpha, 2, "BLOCKCHAIN"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}
	_, err = env.game.GuessLetter(alpha, "Z")
	wantRejection(t, err, ReasonAlreadyGuessed)
}

func TestGuessLetterAlreadyRevealed(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := env.admin.ForceRevealLetter("R"); err != nil {
		t.Fatalf("ForceRevealLetter failed: %v", err)
	}
	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}

	_, err := env.game.GuessLetter(alpha, "R")
	wantRejection(t, err, ReasonAlreadyRevealed)
}

func TestGuessWordFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")

	// Word guesses need an active game.
	_, err := env.game.GuessWord(alpha, "RICARDIAN CONTRACT")
	wantRejection(t, err, ReasonGameNotActive)

	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Three incorrect guesses exhaust the counter.
	for want := 2; want >= 0; want-- {
		result, err := env.game.GuessWord(alpha, "SMART CONTRACT")
		if err != nil {
			t.Fatalf("GuessWord failed: %v", err)
		}
		if result.Correct {
			t.Error("Expected incorrect guess")
		}
		if result.RemainingGuesses != want {
			t.Errorf("RemainingGuesses = %d, want %d", result.RemainingGuesses, want)
		}
	}

	// The fourth is rejected with no state change.
	_, err = env.game.GuessWord(alpha, "RICARDIAN CONTRACT")
	wantRejection(t, err, ReasonNoGuessesLeft)

	team, err := env.teamRepo.GetByID(alpha.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if team.GuessesLeft != 0 {
		t.Errorf("GuessesLeft = %d, want 0", team.GuessesLeft)
	}
	guesses, err := env.teamRepo.GetWordGuesses(alpha.ID)
	if err != nil {
		t.Fatalf("GetWordGuesses failed: %v", err)
	}
	if len(guesses) != 3 {
		t.Errorf("Logged guesses = %d, want 3", len(guesses))
	}
}

func TestGuessWordCorrectCompletesGame(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	bravo := registerTeam(t, env, "Bravo")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	result, err := env.game.GuessWord(alpha, "ricardian contract")
	if err != nil {
		t.Fatalf("GuessWord failed: %v", err)
	}
	if !result.Correct {
		t.Error("Expected correct guess")
	}

	status, err := env.game.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want %s", status.Status, models.StatusCompleted)
	}

	// Late final guesses are still accepted after completion.
	late, err := env.game.GuessWord(bravo, "RICARDIAN CONTRACT")
	if err != nil {
		t.Fatalf("Late GuessWord failed: %v", err)
	}
	if !late.Correct {
		t.Error("Expected late guess to be evaluated")
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	bravo := registerTeam(t, env, "Bravo")
	charlie := registerTeam(t, env, "Charlie")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Bravo first-solves a page; Alpha and Bravo make equally green
	// guesses, so first solves break the tie.
	if _, err := env.game.SolvePage(bravo, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}
	if _, err := env.game.GuessWord(alpha, "RICARDIAN CONTRACS"); err != nil {
		t.Fatalf("GuessWord failed: %v", err)
	}
	if _, err := env.game.GuessWord(bravo, "RICARDIAN CONTRACS"); err != nil {
		t.Fatalf("GuessWord failed: %v", err)
	}

	rows, err := env.game.Leaderboard()
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Leaderboard rows = %d, want 3", len(rows))
	}
	if rows[0].Name != "Bravo" || rows[1].Name != "Alpha" || rows[2].Name != "Charlie" {
		t.Errorf("Leaderboard order = %s, %s, %s; want Bravo, Alpha, Charlie",
			rows[0].Name, rows[1].Name, rows[2].Name)
	}
	if rows[0].Greens != 17 {
		t.Errorf("Bravo greens = %d, want 17", rows[0].Greens)
	}
	_ = charlie
}

func TestLifecycleTransitions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)

	// Pause and resume require a running game.
	_, err := env.game.Pause()
	wantRejection(t, err, ReasonInvalidTransition)
	_, err = env.game.Resume()
	wantRejection(t, err, ReasonInvalidTransition)

	state, err := env.game.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if state.StartedAt == nil {
		t.Error("Expected StartedAt to be set")
	}

	// Starting twice is rejected.
	_, err = env.game.Start()
	wantRejection(t, err, ReasonInvalidTransition)

	if _, err := env.game.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if _, err := env.game.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}

	state, err = env.game.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if state.Status != models.StatusCompleted || state.EndedAt == nil {
		t.Errorf("Stopped state = %+v, want completed with end time", state)
	}
}

func TestResetGame(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}
	if _, err := env.game.GuessLetter(alpha, "R"); err != nil {
		t.Fatalf("GuessLetter failed: %v", err)
	}
	if _, err := env.game.GuessWord(alpha, "WRONG GUESS"); err != nil {
		t.Fatalf("GuessWord failed: %v", err)
	}

	state, err := env.admin.ResetGame()
	if err != nil {
		t.Fatalf("ResetGame failed: %v", err)
	}
	if state.Status != models.StatusWaiting || state.CurrentPage != 1 {
		t.Errorf("Reset state = %s page %d, want waiting page 1", state.Status, state.CurrentPage)
	}
	if len(state.RevealedLetters) != 0 {
		t.Errorf("Revealed letters = %v, want empty", state.RevealedLetters)
	}

	pages, err := env.pageRepo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, page := range pages {
		if page.IsSolved || page.LetterGuessed {
			t.Errorf("Page %d not reset: %+v", page.Number, page)
		}
	}

	// Plain reset keeps team counters and logs.
	team, err := env.teamRepo.GetByID(alpha.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if team.GuessesLeft != 2 || team.FirstSolves != 1 {
		t.Errorf("Team counters after reset = %d guesses, %d solves; want 2, 1",
			team.GuessesLeft, team.FirstSolves)
	}

	// The game replays like a fresh run.
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage after reset failed: %v", err)
	}
}

func TestFullResetGame(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}
	if _, err := env.game.GuessWord(alpha, "WRONG GUESS"); err != nil {
		t.Fatalf("GuessWord failed: %v", err)
	}

	if _, err := env.admin.FullResetGame(); err != nil {
		t.Fatalf("FullResetGame failed: %v", err)
	}

	team, err := env.teamRepo.GetByID(alpha.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if team.GuessesLeft != 3 || team.FirstSolves != 0 {
		t.Errorf("Team counters after full reset = %d guesses, %d solves; want 3, 0",
			team.GuessesLeft, team.FirstSolves)
	}
	guesses, err := env.teamRepo.GetWordGuesses(alpha.ID)
	if err != nil {
		t.Fatalf("GetWordGuesses failed: %v", err)
	}
	if len(guesses) != 0 {
		t.Errorf("Word guess log = %d entries after full reset, want 0", len(guesses))
	}
}

func TestProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}
	if _, err := env.game.GuessLetter(alpha, "R"); err != nil {
		t.Fatalf("GuessLetter failed: %v", err)
	}

	profile, err := env.auth.Profile(alpha.ID)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.Name != "Alpha" || profile.FirstSolves != 1 {
		t.Errorf("Profile = %+v, want Alpha with 1 first solve", profile)
	}
	if len(profile.SolvedPages) != 1 || profile.SolvedPages[0] != 1 {
		t.Errorf("SolvedPages = %v, want [1]", profile.SolvedPages)
	}
	if len(profile.LetterGuesses) != 1 || profile.LetterGuesses[0].Letter != "R" {
		t.Errorf("LetterGuesses = %+v, want one R", profile.LetterGuesses)
	}
}

func TestAdminDashboard(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	registerTeam(t, env, "Bravo")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}

	stats, err := env.admin.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if stats.TeamCount != 2 {
		t.Errorf("TeamCount = %d, want 2", stats.TeamCount)
	}
	if stats.ActiveTeams != 1 {
		t.Errorf("ActiveTeams = %d, want 1", stats.ActiveTeams)
	}
	if stats.Pages.SolvedPages != 1 || stats.Pages.TotalPages != 8 {
		t.Errorf("Page stats = %+v, want 1 of 8 solved", stats.Pages)
	}
}

func TestAdminGameView(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}
	if _, err := env.game.GuessLetter(alpha, "R"); err != nil {
		t.Fatalf("GuessLetter failed: %v", err)
	}

	view, err := env.admin.Game()
	if err != nil {
		t.Fatalf("Game failed: %v", err)
	}
	if view.Word != "RICARDIAN CONTRACT" {
		t.Errorf("Word = %q, want the target phrase", view.Word)
	}
	if view.Status != models.StatusInProgress || view.CurrentPage != 2 {
		t.Errorf("View = %s page %d, want in_progress page 2", view.Status, view.CurrentPage)
	}
	if positions := view.RevealedLetters["R"]; len(positions) != 3 {
		t.Errorf("Revealed R positions = %v, want 3 positions", positions)
	}
}

func TestAdminGetTeamAndResetAllPages(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.game.SolvePage(alpha, 1, "PROOF_OF_WORK"); err != nil {
		t.Fatalf("SolvePage failed: %v", err)
	}

	team, err := env.admin.GetTeam(alpha.ID)
	if err != nil {
		t.Fatalf("GetTeam failed: %v", err)
	}
	if team.Name != "Alpha" || team.FirstSolves != 1 {
		t.Errorf("GetTeam = %+v, want Alpha with 1 first solve", team)
	}
	_, err = env.admin.GetTeam("no-such-id")
	wantRejection(t, err, ReasonNotFound)

	if err := env.admin.ResetAllPages(); err != nil {
		t.Fatalf("ResetAllPages failed: %v", err)
	}
	stats, err := env.pageRepo.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.SolvedPages != 0 {
		t.Errorf("SolvedPages after reset = %d, want 0", stats.SolvedPages)
	}
	// Page resets leave team counters untouched.
	team, err = env.admin.GetTeam(alpha.ID)
	if err != nil {
		t.Fatalf("GetTeam failed: %v", err)
	}
	if team.FirstSolves != 1 {
		t.Errorf("FirstSolves after page reset = %d, want 1", team.FirstSolves)
	}
}

func TestGuessWordLogKeepsSubmittedText(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupGame(t)
	alpha := registerTeam(t, env, "Alpha")
	if _, err := env.game.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	submitted := "ricardian contracs"
	if _, err := env.game.GuessWord(alpha, submitted); err != nil {
		t.Fatalf("GuessWord failed: %v", err)
	}

	profile, err := env.auth.Profile(alpha.ID)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if len(profile.WordGuesses) != 1 || profile.WordGuesses[0].Guess != submitted {
		t.Errorf("WordGuesses = %+v, want the text as submitted", profile.WordGuesses)
	}

	// Scoring still normalizes, so the lower-case guess earns its greens.
	rows, err := env.game.Leaderboard()
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Greens != 17 {
		t.Errorf("Leaderboard = %+v, want 17 greens for Alpha", rows)
	}
}
