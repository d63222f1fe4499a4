package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hashquest/internal/config"
	"hashquest/internal/database"
	"hashquest/internal/handlers"
	"hashquest/internal/hub"
	"hashquest/internal/repository"
	"hashquest/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	teamRepo := repository.NewTeamRepository(db)
	pageRepo := repository.NewPageRepository(db)
	stateRepo := repository.NewGameStateRepository(db)

	// Seed the puzzle sequence on first run
	if err := pageRepo.SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed pages: %v", err)
	}

	// Start the notification hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventHub := hub.New()
	go eventHub.Run(ctx)

	// Initialize services
	authService := service.NewAuthService(teamRepo, pageRepo, cfg)
	gameService := service.NewGameService(teamRepo, pageRepo, stateRepo, eventHub, cfg)
	adminService := service.NewAdminService(gameService, teamRepo, pageRepo, stateRepo, cfg)

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, cfg.AdminToken, cfg.CORSOrigins)
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(gameService)
	adminHandler := handlers.NewAdminHandler(adminService, gameService, authService, eventHub)
	wsHandler := handlers.NewWSHandler(eventHub, middleware)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /api/health", gameHandler.Health)
	mux.HandleFunc("POST /api/teams/register", authHandler.Register)
	mux.HandleFunc("POST /api/teams/login", authHandler.Login)
	mux.HandleFunc("GET /api/game/status", gameHandler.Status)
	mux.HandleFunc("GET /api/leaderboard", gameHandler.Leaderboard)
	mux.HandleFunc("GET /ws", wsHandler.Subscribe)

	// Team routes
	mux.HandleFunc("GET /api/teams/profile", middleware.RequireTeam(authHandler.Profile))
	mux.HandleFunc("POST /api/game/solve", middleware.RequireTeam(gameHandler.Solve))
	mux.HandleFunc("POST /api/game/guess-letter", middleware.RequireTeam(gameHandler.GuessLetter))
	mux.HandleFunc("POST /api/game/guess-word", middleware.RequireTeam(gameHandler.GuessWord))

	// Admin routes
	mux.HandleFunc("GET /api/admin/dashboard", middleware.RequireAdmin(adminHandler.Dashboard))
	mux.HandleFunc("GET /api/admin/game", middleware.RequireAdmin(adminHandler.Game))
	mux.HandleFunc("POST /api/admin/game/control", middleware.RequireAdmin(adminHandler.Control))
	mux.HandleFunc("POST /api/admin/game/current-page", middleware.RequireAdmin(adminHandler.SetCurrentPage))
	mux.HandleFunc("GET /api/admin/leaderboard", middleware.RequireAdmin(adminHandler.Leaderboard))
	mux.HandleFunc("GET /api/admin/pages", middleware.RequireAdmin(adminHandler.Pages))
	mux.HandleFunc("POST /api/admin/pages/reset", middleware.RequireAdmin(adminHandler.ResetAllPages))
	mux.HandleFunc("POST /api/admin/pages/{number}/reset", middleware.RequireAdmin(adminHandler.ResetPage))
	mux.HandleFunc("POST /api/admin/reveal-letter/{letter}", middleware.RequireAdmin(adminHandler.RevealLetter))
	mux.HandleFunc("GET /api/admin/teams", middleware.RequireAdmin(adminHandler.Teams))
	mux.HandleFunc("POST /api/admin/teams", middleware.RequireAdmin(adminHandler.CreateTeam))
	mux.HandleFunc("GET /api/admin/teams/{id}", middleware.RequireAdmin(adminHandler.GetTeam))
	mux.HandleFunc("DELETE /api/admin/teams/{id}", middleware.RequireAdmin(adminHandler.DeleteTeam))

	// Wrap with CORS and logging middleware
	handler := handlers.Logging(middleware.CORS(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
