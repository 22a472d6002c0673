package queue

import "github.com/promptforge/promptforge/internal/models"

const TypeBatchEvaluate = "batch:evaluate"

// BatchEvaluatePayload carries everything a worker needs to execute a
// queued batch run: the already-decoded row sequence travels in the task so
// the worker never touches the uploaded file.
type BatchEvaluatePayload struct {
	PromptID string       `json:"prompt_id"`
	Provider string       `json:"provider,omitempty"`
	Rows     []models.Row `json:"rows"`
}
