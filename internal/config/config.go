package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	JWTSecret string
	TokenTTL  time.Duration

	AdminToken string

	GameWord          string
	MaxTeams          int
	MaxWordGuesses    int
	PasswordMinLength int
	TeamCodeLength    int

	CORSOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./hashquest.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,

		AdminToken: getEnv("ADMIN_TOKEN", ""),

		GameWord:          getEnv("GAME_WORD", "RICARDIAN CONTRACT"),
		MaxTeams:          getEnvInt("MAX_TEAMS", 20),
		MaxWordGuesses:    getEnvInt("MAX_WORD_GUESSES", 3),
		PasswordMinLength: getEnvInt("PASSWORD_MIN_LENGTH", 6),
		TeamCodeLength:    getEnvInt("TEAM_CODE_LENGTH", 6),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// splitList splits a comma-separated list, trimming whitespace
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
