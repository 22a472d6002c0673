package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/promptforge/promptforge/internal/batch"
	"github.com/promptforge/promptforge/internal/queue"
)

// maxUploadBytes bounds the in-memory portion of a CSV upload.
const maxUploadBytes = 10 << 20

type BatchHandler struct {
	evaluator *batch.Evaluator
	store     *batch.Store
	queue     *queue.Client // nil disables async runs
}

func NewBatchHandler(evaluator *batch.Evaluator, store *batch.Store, qc *queue.Client) *BatchHandler {
	return &BatchHandler{evaluator: evaluator, store: store, queue: qc}
}

// Run evaluates the prompt's latest version against an uploaded CSV. The
// whole run executes synchronously and every row's result comes back in
// input order; with ?async=1 the run is queued instead and a task reference
// is returned immediately.
func (h *BatchHandler) Run(w http.ResponseWriter, r *http.Request) {
	id, ok := promptID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return
	}
	defer file.Close()

	rows, err := decodeRows(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	providerID := r.FormValue("provider")

	if r.URL.Query().Get("async") == "1" {
		if h.queue == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "async runs unavailable"})
			return
		}
		taskID, err := h.queue.EnqueueBatchEvaluate(queue.BatchEvaluatePayload{
			PromptID: id.String(),
			Provider: providerID,
			Rows:     rows,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]interface{}{"task_id": taskID, "rows": len(rows)})
		return
	}

	out, err := h.evaluator.Run(r.Context(), id, rows, providerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *BatchHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run ID"})
		return
	}

	run, results, err := h.store.Run(r.Context(), runID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"run": run, "results": results})
}

func (h *BatchHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	id, ok := promptID(w, r)
	if !ok {
		return
	}

	runs, err := h.store.Runs(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs, "count": len(runs)})
}
