package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Mutazlab/catalog-search/internal/config"
	dbRedis "github.com/Mutazlab/catalog-search/internal/db/redis"
	logpkg "github.com/Mutazlab/catalog-search/internal/logger"
	"github.com/Mutazlab/catalog-search/internal/metrics"
	"github.com/Mutazlab/catalog-search/internal/repository/bleveindex"
	catalogrepo "github.com/Mutazlab/catalog-search/internal/repository/catalog"
	"github.com/Mutazlab/catalog-search/internal/synonym"
	chiTransport "github.com/Mutazlab/catalog-search/internal/transport/chi"
	cataloguc "github.com/Mutazlab/catalog-search/internal/usecase/catalog"
	healthuc "github.com/Mutazlab/catalog-search/internal/usecase/health"
	searchuc "github.com/Mutazlab/catalog-search/internal/usecase/search"
	"github.com/Mutazlab/catalog-search/internal/version"
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

	logger.Info("Starting catalog-search API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("search_backend", cfg.Search.Backend),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Synonym dictionary: file-based or the built-in defaults
	dict := synonym.Default()
	if cfg.Search.SynonymsPath != "" {
		dict, err = synonym.LoadFile(cfg.Search.SynonymsPath)
		if err != nil {
			logger.Fatal("Failed to load synonyms", zap.String("path", cfg.Search.SynonymsPath), zap.Error(err))
		}
	}
	logger.Info("Synonym dictionary loaded", zap.Int("terms", dict.Len()))

	repo := catalogrepo.New(store).WithKeyPrefix(cfg.Storage.KeyPrefix)

	// Seed the catalog size gauge; writes keep it current afterwards.
	if n, err := repo.Count(ctx); err == nil {
		metrics.SetCatalogProducts(n)
	} else {
		logger.Warn("Failed to count catalog products", zap.Error(err))
	}

	// Build the search backend — composition root.
	// Pass nil interfaces (not typed nil pointers!) when bleve is not wired.
	// Go gotcha: (*bleveindex.Engine)(nil) wrapped in Indexer != nil.
	var engine searchuc.Engine
	var indexer cataloguc.Indexer
	var indexChecker healthuc.IndexChecker

	switch cfg.Search.Backend {
	case config.BackendBleve:
		idx, err := bleveindex.Open(cfg.Search.IndexPath, dict)
		if err != nil {
			logger.Fatal("Failed to open bleve index", zap.Error(err))
		}
		defer func() { _ = idx.Close() }()

		// Rebuild the index from the catalog snapshot so restarts and
		// backend switches never serve a stale index.
		products, err := repo.FetchAll(ctx)
		if err != nil {
			logger.Fatal("Failed to load catalog snapshot", zap.Error(err))
		}
		if err := idx.Rebuild(ctx, products); err != nil {
			logger.Fatal("Failed to rebuild bleve index", zap.Error(err))
		}
		logger.Info("Bleve index ready",
			zap.String("path", cfg.Search.IndexPath),
			zap.Int("products", len(products)),
		)

		engine = idx
		indexer = idx
		indexChecker = idx
	case config.BackendScorer:
		engine = searchuc.New(repo, dict)
	default:
		logger.Fatal("Unknown search backend", zap.String("backend", cfg.Search.Backend))
	}

	engine = searchuc.NewInstrumented(engine, cfg.Search.Backend)

	// Create use case services
	catalogSvc := cataloguc.New(repo, indexer)
	healthSvc := healthuc.New(store, indexChecker)

	// Create chi server
	server := chiTransport.NewServer(catalogSvc, engine, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
