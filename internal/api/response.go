package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leadflowhq/leadflow/internal/lead"
	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// envelope is the standard JSON response shape.
type envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data})
}

// respondError translates domain failure kinds into HTTP statuses. Every
// kind keeps its own code so clients can tell "this lead is done" from "you
// sent the wrong event" without parsing messages.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case statemachine.IsIllegalTransitionError(err):
		status, code = http.StatusConflict, "illegal_transition"
	case statemachine.IsTerminalStateError(err):
		status, code = http.StatusConflict, "terminal_state"
	case errors.Is(err, lead.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, lead.ErrAlreadyExists):
		status, code = http.StatusConflict, "already_exists"
	case errors.Is(err, lead.ErrUnknownEvent), errors.Is(err, lead.ErrUnknownState):
		status, code = http.StatusUnprocessableEntity, "unknown_symbol"
	case errors.Is(err, lead.ErrPersistenceFailure):
		status, code = http.StatusServiceUnavailable, "persistence_failure"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: &errorDetail{
		Code:    code,
		Message: err.Error(),
	}})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(envelope{Error: &errorDetail{
		Code:    "bad_request",
		Message: message,
	}})
}
