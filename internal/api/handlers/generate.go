package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/promptforge/promptforge/internal/provider"
)

type GenerateHandler struct {
	gateway *provider.Gateway
}

func NewGenerateHandler(gw *provider.Gateway) *GenerateHandler {
	return &GenerateHandler{gateway: gw}
}

type generateRequest struct {
	Prompt   string `json:"prompt"`
	Model    string `json:"model"`
	Provider string `json:"provider,omitempty"`
}

// Generate runs a single ad-hoc generation outside any batch. Callers
// should name the provider; the model-name heuristic only fills the gap
// when they don't.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Prompt == "" || req.Model == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prompt and model required"})
		return
	}

	providerID := req.Provider
	if providerID == "" {
		providerID = h.gateway.Resolve(req.Model)
	}

	gen, err := h.gateway.Generate(r.Context(), providerID, req.Prompt, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, gen)
}

func (h *GenerateHandler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": h.gateway.Models()})
}
