package repository

import "errors"

var (
	// ErrTeamLimitReached is returned when registration would exceed the
	// global team cap.
	ErrTeamLimitReached = errors.New("team limit reached")
)
