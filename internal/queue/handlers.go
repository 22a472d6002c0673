package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/promptforge/promptforge/internal/batch"
)

// BatchWorker executes queued batch evaluations.
type BatchWorker struct {
	evaluator *batch.Evaluator
}

func NewBatchWorker(e *batch.Evaluator) *BatchWorker {
	return &BatchWorker{evaluator: e}
}

func (w *BatchWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload BatchEvaluatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	promptID, err := uuid.Parse(payload.PromptID)
	if err != nil {
		return fmt.Errorf("invalid prompt ID %q: %w", payload.PromptID, asynq.SkipRetry)
	}

	out, err := w.evaluator.Run(ctx, promptID, payload.Rows, payload.Provider)
	if err != nil {
		slog.Error("batch evaluation failed", "prompt_id", promptID, "error", err)
		return fmt.Errorf("run batch: %v: %w", err, asynq.SkipRetry)
	}

	errored := 0
	for _, res := range out.Results {
		if res.Status != "success" {
			errored++
		}
	}
	slog.Info("batch evaluation completed",
		"prompt_id", promptID,
		"run_id", out.Run.ID,
		"rows", len(out.Results),
		"errored", errored,
	)
	return nil
}
