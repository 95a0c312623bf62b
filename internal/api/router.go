package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/arbiterlabs/arbiter/internal/api/handlers"
	mw "github.com/arbiterlabs/arbiter/internal/api/middleware"
	"github.com/arbiterlabs/arbiter/internal/classifier"
	"github.com/arbiterlabs/arbiter/internal/config"
	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/arbiterlabs/arbiter/internal/service"
	"github.com/arbiterlabs/arbiter/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router      *chi.Mux
	Engine      *service.Engine
	Snapshotter *service.Snapshotter

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	// Stores
	agentStore := store.NewAgentStore(db)
	decisionStore := store.NewDecisionStore(db)
	eventStore := store.NewEventStore(db)

	// Classifier pool
	handles, err := classifier.NewPool(
		config.ClassifierProvider(),
		config.ModelServerURL(),
		config.ClassifierNames(),
	)
	if err != nil {
		return nil, err
	}
	logger.Info("classifier pool initialized",
		zap.String("provider", config.ClassifierProvider()),
		zap.Int("agents", len(handles)))

	labels, err := domain.ParseLabelSet(config.LabelOrder())
	if err != nil {
		return nil, err
	}

	repCfg := service.ReputationConfig{
		InitialWeight:         config.InitialWeight(),
		WeightMin:             config.WeightMin(),
		WeightMax:             config.WeightMax(),
		RewardMajorityCorrect: config.RewardMajorityCorrect(),
		PenaltyMinorityWrong:  config.PenaltyMinorityWrong(),
		RewardMinorityCorrect: config.RewardMinorityCorrect(),
		PenaltyMajorityWrong:  config.PenaltyMajorityWrong(),
	}

	// Core engine
	engine := service.NewEngine(handles, labels, repCfg, logger)
	engine.SetStores(agentStore, decisionStore, eventStore)

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := engine.LoadPersisted(bootCtx); err != nil {
		logger.Warn("loading persisted reputations failed, starting fresh", zap.Error(err))
	}

	snapshotter := service.NewSnapshotter(engine.Ledger(), agentStore, logger)
	snapshotter.SetInterval(config.SnapshotInterval())

	// Handlers
	predictionHandler := handlers.NewPredictionHandler(engine)
	feedbackHandler := handlers.NewFeedbackHandler(engine)
	agentHandler := handlers.NewAgentHandler(engine.Ledger())
	decisionHandler := handlers.NewDecisionHandler(decisionStore)

	r := chi.NewRouter()

	app := &App{
		Router:      r,
		Engine:      engine,
		Snapshotter: snapshotter,
		startTime:   time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/predictions", predictionHandler.Create)
		r.Post("/feedback", feedbackHandler.Create)

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", agentHandler.List)
			r.Get("/{id}", agentHandler.GetByID)
		})

		r.Get("/decisions/{id}", decisionHandler.GetByID)
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.AgentStore    = (*store.AgentStore)(nil)
	_ domain.DecisionStore = (*store.DecisionStore)(nil)
	_ domain.EventStore    = (*store.EventStore)(nil)
	_ domain.AgentHandle   = (*classifier.HTTPAgent)(nil)
	_ domain.AgentHandle   = (*classifier.MockAgent)(nil)
)
