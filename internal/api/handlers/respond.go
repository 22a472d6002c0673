package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/promptforge/promptforge/internal/batch"
	"github.com/promptforge/promptforge/internal/ledger"
	"github.com/promptforge/promptforge/internal/provider"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var callErr *provider.CallError

	switch {
	case errors.Is(err, ledger.ErrNoSuchPrompt), errors.Is(err, batch.ErrNoSuchRun):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ledger.ErrNoVersionAvailable):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "save a version before running this prompt"})
	case errors.Is(err, provider.ErrUnsupportedProvider):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &callErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
