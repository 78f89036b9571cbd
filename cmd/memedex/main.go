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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/memedex/internal/config"
	logpkg "github.com/kailas-cloud/memedex/internal/logger"
	"github.com/kailas-cloud/memedex/internal/metrics"
	memerepo "github.com/kailas-cloud/memedex/internal/repository/meme"
	chiTransport "github.com/kailas-cloud/memedex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/memedex/internal/usecase/health"
	memeuc "github.com/kailas-cloud/memedex/internal/usecase/meme"
	searchuc "github.com/kailas-cloud/memedex/internal/usecase/search"
	"github.com/kailas-cloud/memedex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(logpkg.Options{
		Env:    env,
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, env, logger); err != nil {
		logger.Fatal("memedex stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg config.Config, env string, logger *zap.Logger) error {
	logger.Info("Starting memedex API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opened, err := memerepo.Open(ctx, memerepo.OpenConfig{
		Driver:           cfg.Database.Driver,
		Path:             cfg.Database.Path,
		BusyTimeout:      time.Duration(cfg.Database.BusyTimeoutMS) * time.Millisecond,
		Addrs:            cfg.Database.Addrs,
		Password:         cfg.Database.Password,
		ReadinessTimeout: time.Duration(cfg.Database.ReadinessTimeout) * time.Second,
		MemoryIndex:      cfg.Database.MemoryIndex,
	})
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	defer func() {
		if err := opened.Close(); err != nil {
			logger.Error("Failed to close repository", zap.Error(err))
		}
	}()
	repo := opened.Repo
	logger.Info("Repository ready", zap.String("dialect", string(repo.Dialect())))

	// Register collectors explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	searchSvc := searchuc.New(repo, repo, logger).
		WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit).
		WithOverfetch(cfg.Search.Overfetch)
	searcher := searchuc.NewInstrumentedSearcher(searchSvc, repo.Dialect(), logger)
	memeSvc := memeuc.New(repo)
	healthSvc := healthuc.New(repo, repo)

	server := chiTransport.NewServer(memeSvc, searcher, healthSvc, logger)

	handler := chiTransport.NewRouter(server, chiTransport.AuthKeys{
		ReadWrite: cfg.Auth.APIKeys,
		ReadOnly:  cfg.Auth.ReadOnlyAPIKeys,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
