package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/bookstore-service/internal/api/http"
	"github.com/spec-kit/bookstore-service/internal/api/http/handlers"
	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/config"
	"github.com/spec-kit/bookstore-service/internal/events"
	"github.com/spec-kit/bookstore-service/internal/observability"
	"github.com/spec-kit/bookstore-service/internal/persistence"
	"github.com/spec-kit/bookstore-service/internal/ratelimit"
	"github.com/spec-kit/bookstore-service/internal/repository"
	"github.com/spec-kit/bookstore-service/internal/service"
	"github.com/spec-kit/bookstore-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("postgres is required for the user directory")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, os.DirFS("migrations"), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	roles := cfg.Auth.RoleNames()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	userRepo := repository.NewUserRepository(pool, roles)
	orderRepo := repository.NewOrderRepository(pool)

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Verifier: auth.NewGoogleVerifier(ctx, cfg.Auth.GoogleClientID, cfg.Auth.GoogleJWKSURL, logger),
		Events:   dispatcher,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	limiter := ratelimit.NewLoginLimiter(redis.Client, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow())

	app := httptransport.NewApp(cfg.App)
	httptransport.RegisterMiddlewares(app, cfg.App, logger, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:     handlers.NewAuthHandler(authService, limiter, logger),
		Users:    handlers.NewUsersHandler(service.NewUserService(userRepo, roles, dispatcher, logger), roles),
		Orders:   handlers.NewOrdersHandler(service.NewOrderService(orderRepo, dispatcher, logger)),
		Session:  auth.NewSessionStage(authService.Sessions(), logger),
		Resolver: auth.NewResolver(userRepo, roles),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
