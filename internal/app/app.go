package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/godilite/survey-stats/internal/config"
	handler "github.com/godilite/survey-stats/internal/grpc"
	"github.com/godilite/survey-stats/internal/repository"
	"github.com/godilite/survey-stats/internal/service"
	"github.com/godilite/survey-stats/internal/statscache"
	"github.com/godilite/survey-stats/internal/transport/rest"
	"github.com/godilite/survey-stats/pkg/cache"
	dbbuilder "github.com/godilite/survey-stats/pkg/database"
	grpcsrv "github.com/godilite/survey-stats/pkg/grpc/server"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      cache.Cacher
	grpcServer *grpcsrv.Server
	httpServer *http.Server
	httpLis    net.Listener
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	if err := repository.CreateSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, err
	}

	var cacheClient cache.Cacher = cache.Nop{}
	if cfg.CacheEnabled() {
		redisCache, err := cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		cacheClient = redisCache
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("Cache disabled, REDIS_ADDR is empty")
	}

	stats := NewStats(dbPool, cacheClient, cfg, logger)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
	)
	if err != nil {
		cacheClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcHandlers := handler.NewGRPCHandlers(stats, logger)
	grpcServer.RegisterServiceWithHealth(handler.SurveyStatsServiceName, func(s *grpc.Server) {
		handler.RegisterSurveyStatsServer(s, grpcHandlers)
	})

	httpLis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HTTPPort))
	if err != nil {
		grpcServer.Shutdown(ctx)
		cacheClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to listen on port %d: %w", cfg.HTTPPort, err)
	}

	httpServer := &http.Server{
		Handler: rest.NewRouter(&rest.Container{
			Stats:     stats,
			Logger:    logger,
			JWTSecret: cfg.JWTSecret,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
		httpServer: httpServer,
		httpLis:    httpLis,
	}, nil
}

// NewStats builds the cached stats pipeline shared by both transports.
func NewStats(db *sql.DB, c cache.Cacher, cfg *config.Config, logger *zap.Logger) *statscache.Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	repo := repository.NewResponseRepository(db)
	statsService := service.NewStatsService(repo, logger, service.WithLocation(loc))
	return statscache.New(statsService, c, logger, cfg.CacheTTL, statscache.WithLocation(loc))
}

// Run starts the servers and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", zap.String("addr", a.httpLis.Addr().String()))
		if err := a.httpServer.Serve(a.httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
		a.logger.Error("HTTP server failed", zap.Error(runErr))
	}

	a.logger.Info("application shutting down")

	if err := a.Shutdown(); err != nil {
		a.logger.Warn("shutdown completed with errors", zap.Error(err))
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return runErr
}

// Shutdown stops both servers concurrently, then releases the cache and database.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.grpcServer.Shutdown(gctx) })
	g.Go(func() error { return a.httpServer.Shutdown(gctx) })
	err := g.Wait()
	// no-op when Serve already closed it
	_ = a.httpLis.Close()

	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("cache shutdown error", zap.Error(cerr))
	}
	if cerr := a.dbPool.Close(); cerr != nil {
		a.logger.Error("database shutdown error", zap.Error(cerr))
	}
	return err
}
