package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/adapters/storage"
	"recruiting_portal_backend/internal/candidates"
	"recruiting_portal_backend/internal/dashboard"
	"recruiting_portal_backend/internal/feedback"
	"recruiting_portal_backend/internal/history"
	apphttp "recruiting_portal_backend/internal/http"
	"recruiting_portal_backend/internal/http/router"
	"recruiting_portal_backend/internal/interviewers"
	"recruiting_portal_backend/internal/interviews"
	"recruiting_portal_backend/internal/screenings"
	"recruiting_portal_backend/migrations"
	"recruiting_portal_backend/platform/ai/ollama"
	"recruiting_portal_backend/platform/config"
	"recruiting_portal_backend/platform/db"
	"recruiting_portal_backend/platform/logger"
	"recruiting_portal_backend/platform/validator"
)

// drainTimeout bounds the worker pool drain during shutdown.
const drainTimeout = 60 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Shared validator instance for dependency injection
	val := validator.New()

	// Resume blob store: MinIO when configured, local directory otherwise
	store := initResumeStore(ctx, cfg, log)

	// Chat model client for AI screening; failures at call time engage the
	// deterministic fallback, so no connectivity check here
	llm := ollama.NewClient(ollama.Config{
		BaseURL: cfg.GetLLMBaseURL(),
		Model:   cfg.GetLLMModel(),
		Timeout: cfg.GetLLMTimeout(),
	})
	log.Info("chat model client initialized", "model", llm.Model(), "baseURL", cfg.GetLLMBaseURL())

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	historyModule := history.NewModule(pool)
	candidatesModule := candidates.NewModule(pool, historyModule.Repo(), store, cfg.GetMaxResumeSize(), val, log)
	interviewersModule := interviewers.NewModule(pool, val)
	interviewsModule := interviews.NewModule(pool, candidatesModule.Service(), historyModule.Repo(), interviewersModule.Service(), val, log)
	feedbackModule := feedback.NewModule(pool, interviewsModule.Service(), interviewersModule.Service(), val)
	screeningsModule := screenings.NewModule(pool, candidatesModule.Service(), store, llm, cfg, val, log)
	dashboardModule := dashboard.NewModule(pool, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			candidatesModule,
			interviewersModule,
			interviewsModule,
			feedbackModule,
			screeningsModule,
			historyModule,
			dashboardModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown", "error", err)
		}

		// Let queued and in-flight screening jobs finish before the pool closes
		drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
		defer cancelDrain()
		if err := screeningsModule.Shutdown(drainCtx); err != nil {
			log.Error("screening worker pool drain", "error", err)
		} else {
			log.Info("screening worker pool drained")
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initResumeStore selects the blob backend from configuration.
func initResumeStore(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.ResumeStore {
	if cfg.IsMinIOEnabled() {
		var store storage.ResumeStore
		if err := withRetry(ctx, log, "minio connection", 5, 2*time.Second, func() error {
			s, err := storage.NewMinIOStore(ctx, cfg)
			if err != nil {
				return err
			}
			store = s
			return nil
		}); err != nil {
			log.Error("failed to initialize minio resume store", "error", err)
			panic("failed to initialize minio resume store: " + err.Error())
		}
		log.Info("resume store initialized", "backend", "minio", "bucket", cfg.GetMinIOResumeBucket())
		return store
	}

	store, err := storage.NewLocalStore(cfg.GetResumeUploadDir())
	if err != nil {
		log.Error("failed to initialize local resume store", "error", err)
		panic("failed to initialize local resume store: " + err.Error())
	}
	log.Info("resume store initialized", "backend", "local", "dir", cfg.GetResumeUploadDir())
	return store
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
