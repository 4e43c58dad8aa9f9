package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shopgrid/querykit/internal/config"
	dbRedis "github.com/shopgrid/querykit/internal/db/redis"
	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/domain/search/request"
	logpkg "github.com/shopgrid/querykit/internal/logger"
	"github.com/shopgrid/querykit/internal/metrics"
	behaviorrepo "github.com/shopgrid/querykit/internal/repository/behavior"
	productrepo "github.com/shopgrid/querykit/internal/repository/product"
	vectorrepo "github.com/shopgrid/querykit/internal/repository/vector"
	chiTransport "github.com/shopgrid/querykit/internal/transport/chi"
	openaiEmb "github.com/shopgrid/querykit/internal/transport/openai"
	eventsuc "github.com/shopgrid/querykit/internal/usecase/events"
	explainuc "github.com/shopgrid/querykit/internal/usecase/explain"
	healthuc "github.com/shopgrid/querykit/internal/usecase/health"
	ingestuc "github.com/shopgrid/querykit/internal/usecase/ingest"
	rankinguc "github.com/shopgrid/querykit/internal/usecase/ranking"
	searchuc "github.com/shopgrid/querykit/internal/usecase/search"
	statsuc "github.com/shopgrid/querykit/internal/usecase/stats"
	"github.com/shopgrid/querykit/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting querykit API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	behaviorRepo, err := behaviorrepo.Open(cfg.Events.SQLitePath)
	if err != nil {
		logger.Fatal("Failed to open behavior store", zap.Error(err))
	}
	defer behaviorRepo.Close()

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterEventMetrics()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories
	productRepo := productrepo.New(store)
	vectorRepo := vectorrepo.New(store, cfg.Embedding.Dimensions).
		WithHNSW(cfg.Search.HNSWM, cfg.Search.HNSWEFConstruct)
	if err := vectorRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure vector index", zap.Error(err))
	}

	// Use case services
	rankingSvc := rankinguc.New(behaviorRepo).
		WithBoost(cfg.Ranking.AlphaClick, cfg.Ranking.MaxBoost).
		WithBatchSize(cfg.Ranking.MaxBatchIDs)
	explainSvc := explainuc.New()
	searchSvc := searchuc.New(vectorRepo, productRepo, embedder, rankingSvc, explainSvc).
		WithOversample(cfg.Search.Oversample)
	ingestSvc := ingestuc.New(productRepo, embedder, vectorRepo)
	healthSvc := healthuc.New(store, behaviorRepo, newEmbeddingHealthChecker(embedder))

	// Event worker: the single consumer draining the ingestion queue.
	worker := eventsuc.NewWorker(behaviorRepo, logger,
		cfg.Events.QueueCapacity,
		time.Duration(cfg.Events.DrainTimeoutSec)*time.Second)
	worker.Start()

	statsSvc := statsuc.New(productRepo, behaviorRepo, worker)

	limits := request.Limits{Default: cfg.Search.DefaultLimit, Max: cfg.Search.MaxLimit}
	server := chiTransport.NewServer(searchSvc, ingestSvc, worker, healthSvc, statsSvc, limits, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Drain queued events before closing the behavior store.
	worker.Stop()

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
