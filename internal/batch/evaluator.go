// Package batch turns a stored prompt version plus a sequence of input rows
// into one provider call per row, capturing a scored result for every row.
package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/promptforge/promptforge/internal/models"
	"github.com/promptforge/promptforge/internal/provider"
	"github.com/promptforge/promptforge/internal/template"
)

// VersionSource resolves the prompt version a run evaluates.
type VersionSource interface {
	LatestVersion(ctx context.Context, promptID uuid.UUID) (*models.PromptVersion, error)
}

// RunStore persists batch runs and their per-row results.
type RunStore interface {
	CreateRun(ctx context.Context, promptID uuid.UUID) (*models.BatchRun, error)
	CreateResult(ctx context.Context, res *models.BatchResult) error
}

// Generator is the slice of the provider gateway the evaluator needs.
type Generator interface {
	Generate(ctx context.Context, providerID, prompt, model string) (*provider.Generation, error)
	Resolve(model string) string
	Supports(providerID string) bool
}

type Scorer interface {
	Score(output string) float64
}

type Evaluator struct {
	versions    VersionSource
	store       RunStore
	gateway     Generator
	scorer      Scorer
	parallelism int
}

// NewEvaluator builds an evaluator processing up to parallelism rows at a
// time. At 1 (the default) rows run strictly sequentially, so provider calls
// and result persistence happen in input order.
func NewEvaluator(versions VersionSource, store RunStore, gateway Generator, scorer Scorer, parallelism int) *Evaluator {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Evaluator{
		versions:    versions,
		store:       store,
		gateway:     gateway,
		scorer:      scorer,
		parallelism: parallelism,
	}
}

type RunOutput struct {
	Run     models.BatchRun      `json:"run"`
	Results []models.BatchResult `json:"results"`
}

// Run evaluates the latest version of promptID against rows.
//
// Preconditions are checked before any side effect: a prompt with no saved
// version fails with ledger.ErrNoVersionAvailable, and an unresolvable
// provider fails with provider.ErrUnsupportedProvider; in both cases no
// BatchRun record is created. Once the run is open, a failed provider call
// is recorded as a result with status error and never aborts the run; the
// returned slice always has one entry per input row, in input order.
func (e *Evaluator) Run(ctx context.Context, promptID uuid.UUID, rows []models.Row, providerOverride string) (*RunOutput, error) {
	version, err := e.versions.LatestVersion(ctx, promptID)
	if err != nil {
		return nil, err
	}

	// The provider is fixed for the whole run. An explicit override always
	// wins; the model-name heuristic is only the fallback.
	providerID := providerOverride
	if providerID == "" {
		providerID = e.gateway.Resolve(version.Model)
	}
	if !e.gateway.Supports(providerID) {
		return nil, fmt.Errorf("%w: %q", provider.ErrUnsupportedProvider, providerID)
	}

	run, err := e.store.CreateRun(ctx, promptID)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	results := make([]models.BatchResult, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			res := e.evaluateRow(gctx, run.ID, i, row, version, providerID)
			if err := e.store.CreateResult(gctx, &res); err != nil {
				return fmt.Errorf("persist result %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &RunOutput{Run: *run, Results: results}, nil
}

func (e *Evaluator) evaluateRow(ctx context.Context, runID uuid.UUID, index int, row models.Row, version *models.PromptVersion, providerID string) models.BatchResult {
	promptText := template.Render(version.Template, row.Values)

	res := models.BatchResult{
		BatchRunID: runID,
		RowIndex:   index,
		Inputs:     row,
		Status:     models.StatusSuccess,
	}

	gen, err := e.gateway.Generate(ctx, providerID, promptText, version.Model)
	if err != nil {
		// The row is isolated: the error text becomes the output and the
		// run carries on with the next row.
		res.Output = "Error: " + err.Error()
		res.Status = models.StatusError
	} else {
		res.Output = gen.Output
		res.LatencyMs = gen.LatencyMs
		res.TokenCount = gen.TokenUsage
		res.Cost = gen.Cost
	}

	// Error messages are scored too; they simply tend to score 0.
	res.QualityScore = e.scorer.Score(res.Output)
	return res
}
