package utils

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTeamName checks if a team name is valid
func ValidateTeamName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "team name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "team name must be at least 2 characters"}
	}
	if len(name) > 50 {
		return ValidationError{Field: "name", Message: "team name must be at most 50 characters"}
	}
	return nil
}

// ValidatePassword checks if a password meets the minimum length requirement
func ValidatePassword(password string, minLength int) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < minLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minLength)}
	}
	return nil
}

// ValidateLetter checks that a letter guess is a single character A-Z
func ValidateLetter(letter string) error {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return ValidationError{Field: "letter", Message: "letter is required"}
	}
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return ValidationError{Field: "letter", Message: "letter must be a single character A-Z"}
	}
	return nil
}

// ValidateAnswer checks that a submitted answer is non-empty
func ValidateAnswer(answer string) error {
	if strings.TrimSpace(answer) == "" {
		return ValidationError{Field: "answer", Message: "answer is required"}
	}
	return nil
}
