package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hashquest/internal/service"
	"hashquest/internal/utils"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, reason string) {
	writeJSON(w, status, errorResponse{Error: userMsg, Reason: reason})
}

// handleServiceError translates service outcomes into HTTP responses.
// Rejections and validation failures are expected outcomes and are never
// logged; only infrastructure failures are.
func handleServiceError(w http.ResponseWriter, err error) {
	var rejection *service.RejectionError
	if errors.As(err, &rejection) {
		status := http.StatusBadRequest
		switch {
		case rejection.Conflict:
			status = http.StatusConflict
		case rejection.Reason == service.ReasonNotFound:
			status = http.StatusNotFound
		case rejection.Reason == service.ReasonNotFirstSolver:
			status = http.StatusForbidden
		}
		respondWithError(w, status, rejection.Message, rejection.Reason)
		return
	}

	var validation utils.ValidationError
	if errors.As(err, &validation) {
		respondWithError(w, http.StatusBadRequest, validation.Error(), service.ReasonInvalidInput)
		return
	}

	log.Printf("Internal error: %v", err)
	respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "internal-error")
}
