package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chazu/unwind/session"
	"github.com/chazu/unwind/store"
	"github.com/chazu/unwind/trace"
)

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode response: %v", err)
	}
}

// writeError maps domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, trace.ErrFrameRange),
		errors.Is(err, session.ErrNoFrames),
		errors.Is(err, trace.ErrBadFrame):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Errorf("request failed: %v", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
