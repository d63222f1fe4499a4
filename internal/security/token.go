package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TeamClaims are the JWT claims issued to an authenticated team
type TeamClaims struct {
	TeamID string `json:"team_id"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed HS256 token identifying a team
func GenerateToken(teamID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TeamClaims{
		TeamID: teamID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   teamID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns the team ID it identifies
func ParseToken(tokenString, secret string) (string, error) {
	claims := &TeamClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.TeamID == "" {
		return "", ErrInvalidToken
	}
	return claims.TeamID, nil
}
