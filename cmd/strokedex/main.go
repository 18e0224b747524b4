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

	"github.com/strokedex/strokedex/internal/config"
	"github.com/strokedex/strokedex/internal/db"
	dbRedis "github.com/strokedex/strokedex/internal/db/redis"
	logpkg "github.com/strokedex/strokedex/internal/logger"
	"github.com/strokedex/strokedex/internal/match"
	"github.com/strokedex/strokedex/internal/metrics"
	"github.com/strokedex/strokedex/internal/repository/corpusfile"
	chiTransport "github.com/strokedex/strokedex/internal/transport/chi"
	"github.com/strokedex/strokedex/internal/usecase/recognize"
	"github.com/strokedex/strokedex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting strokedex API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_path", cfg.Corpus.Path),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register match metrics explicitly (no init())
	metrics.RegisterMatchMetrics()

	// Load the reference corpus once; it is immutable from here on.
	corp, err := corpusfile.Load(cfg.Corpus.Path)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	metrics.CorpusEntries.Set(float64(corp.Len()))
	logger.Info("Corpus loaded", zap.Int("entries", corp.Len()))

	policy, err := match.PolicyByName(cfg.Matcher.PairPolicy)
	if err != nil {
		logger.Fatal("Invalid pair policy", zap.Error(err))
	}
	params := match.DefaultParams()
	params.Policy = policy
	matcher := match.New(corp, params)

	// Optional cache backend
	var store db.Store
	if cfg.Cache.Driver == "redis" {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Cache backend not ready", zap.Error(err))
		}
		logger.Info("Connected to cache backend")
	}

	// Recognition service
	svc := recognize.New(matcher, recognize.Limits{
		DefaultLimit:       cfg.Matcher.DefaultLimit,
		MaxLimit:           cfg.Matcher.MaxLimit,
		MaxStrokes:         cfg.Matcher.MaxStrokes,
		MaxPointsPerStroke: cfg.Matcher.MaxPointsPerStroke,
	}, logger)
	// Pass nil interface (not typed nil pointer!) if the cache is not configured.
	if store != nil {
		svc = svc.WithCache(store, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.MatchCacheTotal)
	}

	var pinger db.Pinger
	if store != nil {
		pinger = store
	}
	server := chiTransport.NewServer(svc, pinger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
