package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/promptforge/promptforge/internal/api/handlers"
	"github.com/promptforge/promptforge/internal/api/middleware"
	"github.com/promptforge/promptforge/internal/batch"
	"github.com/promptforge/promptforge/internal/cache"
	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/ledger"
	"github.com/promptforge/promptforge/internal/provider"
	"github.com/promptforge/promptforge/internal/queue"
	"github.com/promptforge/promptforge/internal/scorer"
)

type Router struct {
	mux     *chi.Mux
	db      *pgxpool.Pool
	redis   *redis.Client
	cfg     *config.Config
	gateway *provider.Gateway
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:     chi.NewRouter(),
		db:      db,
		redis:   rdb,
		cfg:     cfg,
		gateway: provider.NewGateway(cfg.Providers),
	}
}

func (rt *Router) Setup() (http.Handler, error) {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	metric, err := scorer.ForName(rt.cfg.Batch.Scorer)
	if err != nil {
		return nil, err
	}

	ledgerSvc := ledger.NewService(rt.db, cache.New(rt.redis))
	runStore := batch.NewStore(rt.db)
	evaluator := batch.NewEvaluator(ledgerSvc, runStore, rt.gateway, metric, rt.cfg.Batch.Parallelism)
	queueClient := queue.NewClient(rt.cfg.Redis)

	r.Route("/api/v1", func(r chi.Router) {
		promptH := handlers.NewPromptHandler(ledgerSvc)
		batchH := handlers.NewBatchHandler(evaluator, runStore, queueClient)
		r.Route("/prompts", func(r chi.Router) {
			r.Post("/", promptH.Create)
			r.Get("/", promptH.List)
			r.Get("/{id}", promptH.Get)
			r.Patch("/{id}", promptH.Rename)
			r.Delete("/{id}", promptH.Delete)
			r.Post("/{id}/versions", promptH.CreateVersion)
			r.Get("/{id}/versions", promptH.ListVersions)
			r.Post("/{id}/batch", batchH.Run)
			r.Get("/{id}/runs", batchH.ListRuns)
		})
		r.Get("/runs/{id}", batchH.GetRun)

		genH := handlers.NewGenerateHandler(rt.gateway)
		r.Post("/generate", genH.Generate)
		r.Get("/models", genH.Models)
	})

	return r, nil
}
