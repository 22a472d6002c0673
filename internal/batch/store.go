package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptforge/promptforge/internal/models"
)

// ErrNoSuchRun means the run ID does not resolve to a batch run.
var ErrNoSuchRun = errors.New("no such batch run")

// Store is the pgx-backed RunStore.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) CreateRun(ctx context.Context, promptID uuid.UUID) (*models.BatchRun, error) {
	var run models.BatchRun
	err := s.db.QueryRow(ctx,
		`INSERT INTO batch_runs (prompt_id) VALUES ($1)
		 RETURNING id, prompt_id, created_at`,
		promptID,
	).Scan(&run.ID, &run.PromptID, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert batch run: %w", err)
	}
	return &run, nil
}

func (s *Store) CreateResult(ctx context.Context, res *models.BatchResult) error {
	inputsJSON, err := json.Marshal(res.Inputs)
	if err != nil {
		return fmt.Errorf("marshal inputs: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO batch_results
		     (batch_run_id, row_index, inputs, output, status, latency_ms, token_count, cost, quality_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		res.BatchRunID, res.RowIndex, inputsJSON, res.Output, string(res.Status),
		res.LatencyMs, res.TokenCount, res.Cost, res.QualityScore,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert batch result: %w", err)
	}
	return nil
}

// Run loads a batch run and its results, ordered by row index.
func (s *Store) Run(ctx context.Context, runID uuid.UUID) (*models.BatchRun, []models.BatchResult, error) {
	var run models.BatchRun
	err := s.db.QueryRow(ctx,
		`SELECT id, prompt_id, created_at FROM batch_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.PromptID, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNoSuchRun
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get batch run: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, batch_run_id, row_index, inputs, output, status, latency_ms, token_count, cost, quality_score, created_at
		 FROM batch_results WHERE batch_run_id = $1
		 ORDER BY row_index`,
		runID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("list batch results: %w", err)
	}
	defer rows.Close()

	var results []models.BatchResult
	for rows.Next() {
		var res models.BatchResult
		var inputsRaw []byte
		var status string
		if err := rows.Scan(&res.ID, &res.BatchRunID, &res.RowIndex, &inputsRaw, &res.Output, &status,
			&res.LatencyMs, &res.TokenCount, &res.Cost, &res.QualityScore, &res.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("scan batch result: %w", err)
		}
		res.Status = models.ResultStatus(status)
		if err := json.Unmarshal(inputsRaw, &res.Inputs); err != nil {
			return nil, nil, fmt.Errorf("decode inputs: %w", err)
		}
		results = append(results, res)
	}
	return &run, results, rows.Err()
}

// Runs lists the runs recorded for a prompt, newest first.
func (s *Store) Runs(ctx context.Context, promptID uuid.UUID) ([]models.BatchRun, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, prompt_id, created_at FROM batch_runs
		 WHERE prompt_id = $1 ORDER BY created_at DESC`,
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("list batch runs: %w", err)
	}
	defer rows.Close()

	var runs []models.BatchRun
	for rows.Next() {
		var run models.BatchRun
		if err := rows.Scan(&run.ID, &run.PromptID, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
