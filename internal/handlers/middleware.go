package handlers

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"hashquest/internal/models"
	"hashquest/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const TeamContextKey ContextKey = "team"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	adminToken  string
	corsOrigins []string
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, adminToken string, corsOrigins []string) *Middleware {
	return &Middleware{
		authService: authService,
		adminToken:  adminToken,
		corsOrigins: corsOrigins,
	}
}

// bearerToken extracts the token from an Authorization: Bearer header
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if after, found := strings.CutPrefix(auth, "Bearer "); found {
		return strings.TrimSpace(after)
	}
	return ""
}

// RequireTeam is middleware that resolves a bearer token to a team and
// puts it on the request context
func (m *Middleware) RequireTeam(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "missing-token")
			return
		}

		team, err := m.authService.ValidateToken(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "invalid-token")
			return
		}

		ctx := context.WithValue(r.Context(), TeamContextKey, team)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin is middleware that checks the admin token, supplied either
// as X-Admin-Token or as a bearer token
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if token == "" {
			token = bearerToken(r)
		}
		if m.adminToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(m.adminToken)) != 1 {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "invalid-admin-token")
			return
		}
		next(w, r)
	}
}

// CORS sets cross-origin headers for configured origins and answers
// preflight requests
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && m.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Admin-Token")
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckOrigin applies the same origin policy to websocket upgrades
func (m *Middleware) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return m.originAllowed(origin)
}

func (m *Middleware) originAllowed(origin string) bool {
	for _, allowed := range m.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetTeamFromContext retrieves the authenticated team from the request
// context
func GetTeamFromContext(ctx context.Context) *models.Team {
	team, ok := ctx.Value(TeamContextKey).(*models.Team)
	if !ok {
		return nil
	}
	return team
}
