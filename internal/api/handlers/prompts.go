package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/promptforge/promptforge/internal/ledger"
)

type PromptHandler struct {
	svc *ledger.Service
}

func NewPromptHandler(svc *ledger.Service) *PromptHandler {
	return &PromptHandler{svc: svc}
}

type createPromptRequest struct {
	Name      string `json:"name"`
	ProjectID string `json:"project_id,omitempty"`
	Template  string `json:"template"`
	Model     string `json:"model"`
}

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	var projectID *uuid.UUID
	if req.ProjectID != "" {
		id, err := uuid.Parse(req.ProjectID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
			return
		}
		projectID = &id
	}

	p, v, err := h.svc.CreatePrompt(r.Context(), req.Name, projectID, req.Template, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"prompt": p, "version": v})
}

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}

	prompts, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts, "count": len(prompts)})
}

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := promptID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	versions, err := h.svc.Versions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"prompt": p, "versions": versions})
}

func (h *PromptHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := promptID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	p, err := h.svc.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := promptID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createVersionRequest struct {
	Template      string `json:"template"`
	Model         string `json:"model"`
	CommitMessage string `json:"commit_message,omitempty"`
}

func (h *PromptHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := promptID(w, r)
	if !ok {
		return
	}

	var req createVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Model == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "model required"})
		return
	}

	v, err := h.svc.CreateVersion(r.Context(), id, req.Template, req.Model, req.CommitMessage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

func (h *PromptHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := promptID(w, r)
	if !ok {
		return
	}

	versions, err := h.svc.Versions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"versions": versions, "count": len(versions)})
}

func promptID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt ID"})
		return uuid.Nil, false
	}
	return id, true
}
