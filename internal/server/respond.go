package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/rosterx/internal/shared"
)

var errUnauthenticated = errors.New("missing " + HeaderUserID + " header")

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvitationPending), errors.Is(err, shared.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrActionUnavailable),
		errors.Is(err, shared.ErrMissingEmail),
		errors.Is(err, shared.ErrInvitationInvalid),
		errors.Is(err, shared.ErrInvalidContext),
		errors.Is(err, shared.ErrNoHandler):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(shared.ErrInvalidInput, err)
	}
	return nil
}
