package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptforge/promptforge/internal/cache"
	"github.com/promptforge/promptforge/internal/models"
	"github.com/promptforge/promptforge/internal/template"
)

const latestVersionTTL = 5 * time.Minute

type Service struct {
	db    *pgxpool.Pool
	cache *cache.Cache // nil disables caching
}

func NewService(db *pgxpool.Pool, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

// CreatePrompt inserts a prompt together with its initial version (number 1,
// commit message "Initial save") in a single transaction.
func (s *Service) CreatePrompt(ctx context.Context, name string, projectID *uuid.UUID, tmpl, model string) (*models.Prompt, *models.PromptVersion, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var p models.Prompt
	err = tx.QueryRow(ctx,
		`INSERT INTO prompts (project_id, name, current_version)
		 VALUES ($1, $2, 1)
		 RETURNING id, project_id, name, current_version, created_at`,
		projectID, name,
	).Scan(&p.ID, &p.ProjectID, &p.Name, &p.CurrentVersion, &p.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert prompt: %w", err)
	}

	v, err := insertVersion(ctx, tx, p.ID, 1, tmpl, model, "Initial save")
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	return &p, v, nil
}

// CreateVersion appends a new version for promptID. The prompt row is locked
// for the duration of the transaction, which serializes number assignment:
// number = current_version + 1, with current_version bumped in the same tx.
// An empty commitMessage defaults to "v{number}".
func (s *Service) CreateVersion(ctx context.Context, promptID uuid.UUID, tmpl, model, commitMessage string) (*models.PromptVersion, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int
	err = tx.QueryRow(ctx, "SELECT current_version FROM prompts WHERE id = $1 FOR UPDATE", promptID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSuchPrompt
	}
	if err != nil {
		return nil, fmt.Errorf("lock prompt: %w", err)
	}

	number := current + 1
	if commitMessage == "" {
		commitMessage = fmt.Sprintf("v%d", number)
	}

	v, err := insertVersion(ctx, tx, promptID, number, tmpl, model, commitMessage)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, "UPDATE prompts SET current_version = $1 WHERE id = $2", number, promptID); err != nil {
		return nil, fmt.Errorf("update current version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.cache.Delete(ctx, latestVersionKey(promptID))
	return v, nil
}

func insertVersion(ctx context.Context, tx pgx.Tx, promptID uuid.UUID, number int, tmpl, model, commitMessage string) (*models.PromptVersion, error) {
	varsJSON, _ := json.Marshal(template.Variables(tmpl))

	var v models.PromptVersion
	err := tx.QueryRow(ctx,
		`INSERT INTO prompt_versions (prompt_id, version_number, template, model, commit_message, variables)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, prompt_id, version_number, template, model, commit_message, variables, created_at`,
		promptID, number, tmpl, model, commitMessage, varsJSON,
	).Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Template, &v.Model, &v.CommitMessage, &v.Variables, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert version %d: %w", number, err)
	}
	return &v, nil
}

// LatestVersion returns the highest-numbered version for promptID, or
// ErrNoVersionAvailable when none exists.
func (s *Service) LatestVersion(ctx context.Context, promptID uuid.UUID) (*models.PromptVersion, error) {
	key := latestVersionKey(promptID)

	var cached models.PromptVersion
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	var v models.PromptVersion
	err := s.db.QueryRow(ctx,
		`SELECT id, prompt_id, version_number, template, model, commit_message, variables, created_at
		 FROM prompt_versions WHERE prompt_id = $1
		 ORDER BY version_number DESC LIMIT 1`,
		promptID,
	).Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Template, &v.Model, &v.CommitMessage, &v.Variables, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoVersionAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("get latest version: %w", err)
	}

	s.cache.Set(ctx, key, &v, latestVersionTTL)
	return &v, nil
}

func (s *Service) Versions(ctx context.Context, promptID uuid.UUID) ([]models.PromptVersion, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, prompt_id, version_number, template, model, commit_message, variables, created_at
		 FROM prompt_versions WHERE prompt_id = $1
		 ORDER BY version_number DESC`,
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.PromptVersion
	for rows.Next() {
		var v models.PromptVersion
		if err := rows.Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Template, &v.Model, &v.CommitMessage, &v.Variables, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	var p models.Prompt
	err := s.db.QueryRow(ctx,
		`SELECT id, project_id, name, current_version, created_at FROM prompts WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.ProjectID, &p.Name, &p.CurrentVersion, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSuchPrompt
	}
	if err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return &p, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Prompt, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, project_id, name, current_version, created_at
		 FROM prompts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []models.Prompt
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &p.CurrentVersion, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

// Rename changes the display name. Prompt identity and versions are untouched.
func (s *Service) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Prompt, error) {
	var p models.Prompt
	err := s.db.QueryRow(ctx,
		`UPDATE prompts SET name = $1 WHERE id = $2
		 RETURNING id, project_id, name, current_version, created_at`,
		name, id,
	).Scan(&p.ID, &p.ProjectID, &p.Name, &p.CurrentVersion, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSuchPrompt
	}
	if err != nil {
		return nil, fmt.Errorf("rename prompt: %w", err)
	}
	return &p, nil
}

// Delete removes a prompt; versions, runs and results cascade with it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM prompts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoSuchPrompt
	}
	s.cache.Delete(ctx, latestVersionKey(id))
	return nil
}

func latestVersionKey(promptID uuid.UUID) string {
	return "prompt:latest:" + promptID.String()
}
