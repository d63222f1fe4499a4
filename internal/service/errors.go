package service

// Stable machine-readable reason codes carried by every rejection
const (
	ReasonNotFound          = "not-found"
	ReasonAlreadySolved     = "already-solved"
	ReasonWrongAnswer       = "wrong-answer"
	ReasonGameNotActive     = "game-not-active"
	ReasonNotFirstSolver    = "not-first-solver"
	ReasonAlreadyContested  = "already-contested"
	ReasonAlreadyGuessed    = "already-guessed"
	ReasonAlreadyRevealed   = "already-revealed"
	ReasonNoGuessesLeft     = "no-guesses-left"
	ReasonInvalidLetter     = "invalid-letter"
	ReasonInvalidInput      = "invalid-input"
	ReasonTeamCapReached    = "team-cap-reached"
	ReasonInvalidTransition = "invalid-transition"
)

// RejectionError is an expected, recoverable outcome of a game action:
// validation failures, policy violations, and lost races. It is never
// logged as an operational error. Conflict marks race-lost outcomes so
// callers can distinguish them from bad requests.
type RejectionError struct {
	Reason   string
	Message  string
	Conflict bool
}

func (e *RejectionError) Error() string {
	return e.Message
}

func reject(reason, message string) *RejectionError {
	return &RejectionError{Reason: reason, Message: message}
}

func conflict(reason, message string) *RejectionError {
	return &RejectionError{Reason: reason, Message: message, Conflict: true}
}
