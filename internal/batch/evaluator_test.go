package batch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptforge/promptforge/internal/ledger"
	"github.com/promptforge/promptforge/internal/models"
	"github.com/promptforge/promptforge/internal/provider"
	"github.com/promptforge/promptforge/internal/scorer"
)

// --- fakes ---

type fakeVersions struct {
	version *models.PromptVersion
	err     error
}

func (f *fakeVersions) LatestVersion(_ context.Context, _ uuid.UUID) (*models.PromptVersion, error) {
	return f.version, f.err
}

type fakeStore struct {
	mu      sync.Mutex
	runs    []models.BatchRun
	results []models.BatchResult
}

func (f *fakeStore) CreateRun(_ context.Context, promptID uuid.UUID) (*models.BatchRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run := models.BatchRun{ID: uuid.New(), PromptID: promptID}
	f.runs = append(f.runs, run)
	return &run, nil
}

func (f *fakeStore) CreateResult(_ context.Context, res *models.BatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res.ID = uuid.New()
	f.results = append(f.results, *res)
	return nil
}

// fakeGateway fails any prompt containing "FAIL" and echoes the rest.
type fakeGateway struct {
	mu      sync.Mutex
	known   []string
	prompts []string
	output  string
}

func (f *fakeGateway) Generate(_ context.Context, providerID, prompt, model string) (*provider.Generation, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if strings.Contains(prompt, "FAIL") {
		return nil, &provider.CallError{Provider: providerID, Err: errors.New("connection reset")}
	}
	out := f.output
	if out == "" {
		out = "echo: " + prompt
	}
	return &provider.Generation{
		ProviderID: providerID,
		Model:      model,
		Output:     out,
		LatencyMs:  12,
		TokenUsage: 5,
		Cost:       0.001,
	}, nil
}

func (f *fakeGateway) Resolve(model string) string {
	if strings.Contains(strings.ToLower(model), "claude") {
		return "anthropic"
	}
	return "groq"
}

func (f *fakeGateway) Supports(providerID string) bool {
	for _, k := range f.known {
		if strings.EqualFold(k, providerID) {
			return true
		}
	}
	return false
}

var (
	_ VersionSource = (*fakeVersions)(nil)
	_ RunStore      = (*fakeStore)(nil)
	_ Generator     = (*fakeGateway)(nil)
)

// --- helpers ---

func testVersion(tmpl, model string) *models.PromptVersion {
	return &models.PromptVersion{
		ID:            uuid.New(),
		PromptID:      uuid.New(),
		VersionNumber: 1,
		Template:      tmpl,
		Model:         model,
	}
}

func row(pairs ...string) models.Row {
	r := models.NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

func newTestEvaluator(versions VersionSource, store RunStore, gw Generator) *Evaluator {
	return NewEvaluator(versions, store, gw, scorer.JSONValidity{}, 1)
}

// --- tests ---

func TestRunPartialFailureIsolation(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{known: []string{"groq"}}
	e := newTestEvaluator(&fakeVersions{version: testVersion("say {{word}}", "llama-3.3-70b-versatile")}, store, gw)

	rows := []models.Row{
		row("word", "one"),
		row("word", "FAIL"),
		row("word", "three"),
	}

	out, err := e.Run(context.Background(), uuid.New(), rows, "")
	require.NoError(t, err, "a failed row must not abort the run")
	require.Len(t, out.Results, 3)

	assert.Equal(t, models.StatusSuccess, out.Results[0].Status)
	assert.Equal(t, models.StatusError, out.Results[1].Status)
	assert.Equal(t, models.StatusSuccess, out.Results[2].Status)

	// input order preserved
	assert.Equal(t, "one", out.Results[0].Inputs.Values["word"])
	assert.Equal(t, "FAIL", out.Results[1].Inputs.Values["word"])
	assert.Equal(t, "three", out.Results[2].Inputs.Values["word"])
	for i, res := range out.Results {
		assert.Equal(t, i, res.RowIndex)
	}

	// the failed row carries the error text and zeroed metrics
	failed := out.Results[1]
	assert.Contains(t, failed.Output, "connection reset")
	assert.True(t, strings.HasPrefix(failed.Output, "Error: "))
	assert.Zero(t, failed.LatencyMs)
	assert.Zero(t, failed.TokenCount)
	assert.Zero(t, failed.Cost)

	// successful rows keep the gateway's metrics
	assert.Equal(t, int64(12), out.Results[0].LatencyMs)
	assert.Equal(t, 5, out.Results[0].TokenCount)
	assert.Equal(t, 0.001, out.Results[0].Cost)

	// all three were persisted under the same run
	require.Len(t, store.results, 3)
	for _, res := range store.results {
		assert.Equal(t, out.Run.ID, res.BatchRunID)
	}
}

func TestRunRendersTemplatePerRow(t *testing.T) {
	gw := &fakeGateway{known: []string{"groq"}}
	e := newTestEvaluator(&fakeVersions{version: testVersion("Hello {{name}}", "llama-3.1-8b-instant")}, &fakeStore{}, gw)

	_, err := e.Run(context.Background(), uuid.New(), []models.Row{row("name", "World")}, "")
	require.NoError(t, err)
	require.Len(t, gw.prompts, 1)
	assert.Equal(t, "Hello World", gw.prompts[0])
}

func TestRunNoVersionAvailable(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{known: []string{"groq"}}
	e := newTestEvaluator(&fakeVersions{err: ledger.ErrNoVersionAvailable}, store, gw)

	_, err := e.Run(context.Background(), uuid.New(), []models.Row{row("a", "b")}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNoVersionAvailable)
	assert.Empty(t, store.runs, "no run record before the version resolves")
	assert.Empty(t, gw.prompts, "no provider call either")
}

func TestRunUnsupportedProviderBeforeRunRecord(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{known: []string{"groq"}}
	e := newTestEvaluator(&fakeVersions{version: testVersion("t", "llama-3.1-8b-instant")}, store, gw)

	_, err := e.Run(context.Background(), uuid.New(), []models.Row{row("a", "b")}, "bedrock")
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrUnsupportedProvider)
	assert.Empty(t, store.runs)
	assert.Empty(t, store.results)
}

func TestRunEmptyRows(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{known: []string{"groq"}}
	e := newTestEvaluator(&fakeVersions{version: testVersion("t", "llama-3.1-8b-instant")}, store, gw)

	out, err := e.Run(context.Background(), uuid.New(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, out.Results)
	assert.Empty(t, gw.prompts, "no provider calls for an empty batch")
	require.Len(t, store.runs, 1, "the run record itself is still created")
}

func TestRunProviderResolution(t *testing.T) {
	t.Run("heuristic from model name", func(t *testing.T) {
		gw := &fakeGateway{known: []string{"anthropic", "groq"}}
		e := newTestEvaluator(&fakeVersions{version: testVersion("t", "claude-sonnet-4-20250514")}, &fakeStore{}, gw)

		out, err := e.Run(context.Background(), uuid.New(), []models.Row{row("a", "b")}, "")
		require.NoError(t, err)
		assert.Equal(t, models.StatusSuccess, out.Results[0].Status)
	})

	t.Run("explicit override wins", func(t *testing.T) {
		gw := &fakeGateway{known: []string{"groq"}}
		// heuristic would pick anthropic, which this gateway does not have
		e := newTestEvaluator(&fakeVersions{version: testVersion("t", "claude-sonnet-4-20250514")}, &fakeStore{}, gw)

		_, err := e.Run(context.Background(), uuid.New(), []models.Row{row("a", "b")}, "groq")
		require.NoError(t, err)
	})
}

func TestRunScoresEveryOutput(t *testing.T) {
	gw := &fakeGateway{known: []string{"groq"}, output: `{"a":1}`}
	e := newTestEvaluator(&fakeVersions{version: testVersion("{{w}}", "llama-3.1-8b-instant")}, &fakeStore{}, gw)

	out, err := e.Run(context.Background(), uuid.New(), []models.Row{
		row("w", "ok"),
		row("w", "FAIL"),
	}, "")
	require.NoError(t, err)

	assert.Equal(t, 1.0, out.Results[0].QualityScore, "valid JSON output scores 1")
	assert.Equal(t, 0.0, out.Results[1].QualityScore, "error text is scored and fails")
}

func TestRunBoundedParallelismPreservesOrder(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{known: []string{"groq"}}
	e := NewEvaluator(&fakeVersions{version: testVersion("{{i}}", "llama-3.1-8b-instant")}, store, gw, scorer.JSONValidity{}, 4)

	var rows []models.Row
	for _, v := range []string{"0", "1", "2", "3", "4", "5", "6", "7"} {
		rows = append(rows, row("i", v))
	}

	out, err := e.Run(context.Background(), uuid.New(), rows, "")
	require.NoError(t, err)
	require.Len(t, out.Results, len(rows))
	for i, res := range out.Results {
		assert.Equal(t, i, res.RowIndex)
		assert.Equal(t, rows[i].Values["i"], res.Inputs.Values["i"])
	}
}
