package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/promptforge/promptforge/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueBatchEvaluate schedules a batch run for the worker. No retries: a
// batch that began processing may already have persisted results, and
// re-running it would duplicate the run.
func (c *Client) EnqueueBatchEvaluate(payload BatchEvaluatePayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	info, err := c.client.Enqueue(
		asynq.NewTask(TypeBatchEvaluate, data),
		asynq.MaxRetry(0),
		asynq.Timeout(2*time.Hour),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", TypeBatchEvaluate, err)
	}
	return info.ID, nil
}
