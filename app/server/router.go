package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mytheresa/item-processing-api/app/admin"
	"github.com/mytheresa/item-processing-api/app/categories"
	"github.com/mytheresa/item-processing-api/app/config"
	"github.com/mytheresa/item-processing-api/app/database"
	"github.com/mytheresa/item-processing-api/app/health"
	"github.com/mytheresa/item-processing-api/app/items"
	"github.com/mytheresa/item-processing-api/app/metrics"
	"github.com/mytheresa/item-processing-api/app/process"
	"github.com/mytheresa/item-processing-api/app/scoring"
	"github.com/mytheresa/item-processing-api/app/web"
	"github.com/mytheresa/item-processing-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const welcomeMessage = "Welcome to the Item Processing API."

// NewRouter wires the repository, scoring engine and handlers onto a chi
// router backed by db. The schema must already be migrated. Background
// housekeeping started here stops when ctx is done.
func NewRouter(ctx context.Context, cfg *config.Config, db *gorm.DB, log logrus.FieldLogger, m *metrics.Metrics) (http.Handler, error) {
	if m == nil {
		m = metrics.New()
	}
	weights, err := cfg.Weights()
	if err != nil {
		return nil, fmt.Errorf("build category weights: %w", err)
	}

	repo := models.NewItemsRepository(db)
	engine := scoring.NewEngine(weights)
	seeder := database.NewSeeder(db, log)

	itemsHandler := items.NewItemsHandler(repo, log, items.WithMaxLimit(cfg.Server.MaxPageSize))
	processHandler := process.NewProcessHandler(repo, engine, m, log, cfg.Scoring.DefaultTopN)
	categoriesHandler := categories.NewCategoryHandler(repo, weights, log)
	adminHandler := admin.NewAdminHandler(seeder, log, cfg.IsProduction())
	healthHandler := health.NewHealthHandler(health.PingerFunc(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}), log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(Metrics(m))
	r.Use(chimiddleware.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
	}
	if cfg.Server.RateLimitRPS > 0 {
		limiter := NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, log)
		limiter.StartCleanup(ctx, limiterCleanupInterval, limiterIdleTTL)
		r.Use(limiter.Handler)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		web.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		web.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		web.JSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
	})
	r.Get("/health", healthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/items", func(r chi.Router) {
		r.Post("/", itemsHandler.HandleCreate)
		r.Get("/", itemsHandler.HandleList)
		r.Get("/{id}", itemsHandler.HandleGet)
		r.Put("/{id}", itemsHandler.HandleUpdate)
		r.Delete("/{id}", itemsHandler.HandleDelete)
	})
	r.Get("/process", processHandler.HandleProcess)
	r.Get("/categories", categoriesHandler.HandleGetAll)
	r.Post("/reset-database", adminHandler.HandleReset)

	return r, nil
}
